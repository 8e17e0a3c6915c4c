package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/hasinarivo/vax-slot-api/internal/models"
)

// Daily vaccination window: 10:00 to 17:00 in half-hour buckets.
const (
	catalogOpenHour  = 10
	catalogCloseHour = 17
	catalogStepMin   = 30
)

// catalogTimes expands one day into its (startTime, endTime) pairs.
func catalogTimes() [][2]string {
	var out [][2]string
	day := time.Date(2000, 1, 1, catalogOpenHour, 0, 0, 0, time.UTC)
	end := time.Date(2000, 1, 1, catalogCloseHour, 0, 0, 0, time.UTC)
	for cur := day; cur.Before(end); cur = cur.Add(catalogStepMin * time.Minute) {
		next := cur.Add(catalogStepMin * time.Minute)
		out = append(out, [2]string{cur.Format("15:04"), next.Format("15:04")})
	}
	return out
}

// InitializeCatalog creates the slot grid for every day in [startDate,
// endDate]. Upserting on (date, startTime) makes re-runs a no-op for
// existing buckets, so the routine is safe to repeat after extending the
// range.
func (s *SlotService) InitializeCatalog(ctx context.Context, startDate, endDate time.Time) (int, error) {
	if endDate.Before(startDate) {
		return 0, fmt.Errorf("catalog range ends (%s) before it starts (%s)",
			endDate.Format("2006-01-02"), startDate.Format("2006-01-02"))
	}

	start := time.Date(startDate.Year(), startDate.Month(), startDate.Day(), 0, 0, 0, 0, time.UTC)
	end := time.Date(endDate.Year(), endDate.Month(), endDate.Day(), 0, 0, 0, 0, time.UTC)
	times := catalogTimes()

	created := 0
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		for _, tt := range times {
			res, err := s.slots().UpdateOne(ctx,
				bson.M{"date": day, "startTime": tt[0]},
				bson.M{"$setOnInsert": models.Slot{
					Date:            day,
					StartTime:       tt[0],
					EndTime:         tt[1],
					AvailableDoses:  models.DefaultMaxDoses,
					MaxDoses:        models.DefaultMaxDoses,
					RegisteredUsers: []models.SlotRegistration{},
				}},
				options.Update().SetUpsert(true))
			if err != nil {
				return created, fmt.Errorf("upsert slot %s %s: %w", day.Format("2006-01-02"), tt[0], err)
			}
			if res.UpsertedCount > 0 {
				created++
			}
		}
	}
	log.Printf("catalog: %d slots created for %s..%s", created,
		start.Format("2006-01-02"), end.Format("2006-01-02"))
	return created, nil
}

// EnsureIndexes creates the unique indexes the booking rules lean on:
// one account per phone number and per aadhar, one admin per username,
// one slot per (date, startTime).
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	unique := options.Index().SetUnique(true)

	_, err := db.Collection("users").Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "phoneNumber", Value: 1}}, Options: unique},
		{Keys: bson.D{{Key: "aadharNo", Value: 1}}, Options: unique},
	})
	if err != nil {
		return fmt.Errorf("users indexes: %w", err)
	}

	_, err = db.Collection("admins").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "username", Value: 1}}, Options: unique,
	})
	if err != nil {
		return fmt.Errorf("admins indexes: %w", err)
	}

	_, err = db.Collection("slots").Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "date", Value: 1}, {Key: "startTime", Value: 1}}, Options: unique},
		{Keys: bson.D{{Key: "date", Value: 1}, {Key: "availableDoses", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("slots indexes: %w", err)
	}
	return nil
}
