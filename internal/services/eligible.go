package services

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/hasinarivo/vax-slot-api/internal/models"
)

// EligibleSlot is one catalog row as shown to a citizen.
type EligibleSlot struct {
	ID                  primitive.ObjectID `json:"id"`
	Date                string             `json:"date"` // "2006-01-02"
	StartTime           string             `json:"startTime"`
	EndTime             string             `json:"endTime"`
	AvailableDoses      int                `json:"availableDoses"`
	MaxDoses            int                `json:"maxDoses"`
	RegisteredCount     int                `json:"registeredCount"`
	AvailablePercentage float64            `json:"availablePercentage"`
}

// UserStatus heads the catalog response.
type UserStatus struct {
	VaccinationStatus string `json:"vaccinationStatus"`
	EligibleForDose   string `json:"eligibleForDose"`
}

type EligibleSlotsResult struct {
	UserStatus UserStatus     `json:"userStatus"`
	Slots      []EligibleSlot `json:"slots"`
}

// eligibleFrom computes the first catalog date visible to the user. The
// floor is today; a user waiting on the second dose additionally sits out
// the 28-day gap counted from the first recorded booking.
func eligibleFrom(user *models.User, now time.Time) time.Time {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if user.VaccinationStatus == models.StatusFirstDose && len(user.RegisteredSlots) > 0 {
		first := user.RegisteredSlots[0].Date
		gapEnd := first.AddDate(0, 0, doseGap)
		if gapEnd.After(today) {
			return gapEnd
		}
	}
	return today
}

type slotSummary struct {
	ID              primitive.ObjectID `bson:"_id"`
	Date            time.Time          `bson:"date"`
	StartTime       string             `bson:"startTime"`
	EndTime         string             `bson:"endTime"`
	AvailableDoses  int                `bson:"availableDoses"`
	MaxDoses        int                `bson:"maxDoses"`
	RegisteredCount int                `bson:"registeredCount"`
}

// ListEligible returns the slots the user may book right now, ordered by
// date then start time, with occupancy annotations.
func (s *SlotService) ListEligible(ctx context.Context, userID primitive.ObjectID) (*EligibleSlotsResult, error) {
	var user models.User
	if err := s.users().FindOne(ctx, bson.M{"_id": userID}).Decode(&user); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("load user: %w", err)
	}

	from := eligibleFrom(&user, time.Now())

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"date":           bson.M{"$gte": from},
			"availableDoses": bson.M{"$gt": 0},
		}}},
		{{Key: "$project", Value: bson.M{
			"date":            1,
			"startTime":       1,
			"endTime":         1,
			"availableDoses":  1,
			"maxDoses":        1,
			"registeredCount": bson.M{"$size": "$registeredUsers"},
		}}},
		{{Key: "$sort", Value: bson.D{
			{Key: "date", Value: 1},
			{Key: "startTime", Value: 1},
		}}},
	}

	cursor, err := s.slots().Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("aggregate slots: %w", err)
	}
	defer cursor.Close(ctx)

	var rows []slotSummary
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("decode slots: %w", err)
	}

	slots := make([]EligibleSlot, 0, len(rows))
	for _, row := range rows {
		slots = append(slots, EligibleSlot{
			ID:                  row.ID,
			Date:                row.Date.Format("2006-01-02"),
			StartTime:           row.StartTime,
			EndTime:             row.EndTime,
			AvailableDoses:      row.AvailableDoses,
			MaxDoses:            row.MaxDoses,
			RegisteredCount:     row.RegisteredCount,
			AvailablePercentage: availablePercentage(row.AvailableDoses, row.MaxDoses),
		})
	}

	return &EligibleSlotsResult{
		UserStatus: UserStatus{
			VaccinationStatus: user.VaccinationStatus,
			EligibleForDose:   user.NextDose(),
		},
		Slots: slots,
	}, nil
}
