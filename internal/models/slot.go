package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DefaultMaxDoses is the capacity of every slot the catalog creates.
const DefaultMaxDoses = 10

// SlotRegistration records one user occupying one dose of a slot's
// capacity. A user appears at most once per slot.
type SlotRegistration struct {
	UserID primitive.ObjectID `bson:"userId" json:"userId"`
	Dose   string             `bson:"dose" json:"dose"`
}

// Slot is a half-hour capacity bucket. Date is the day at midnight UTC;
// StartTime and EndTime are wall-clock "HH:mm" within that day.
// Invariant: availableDoses + len(registeredUsers) == maxDoses.
type Slot struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Date            time.Time          `bson:"date" json:"date"`
	StartTime       string             `bson:"startTime" json:"startTime"`
	EndTime         string             `bson:"endTime" json:"endTime"`
	AvailableDoses  int                `bson:"availableDoses" json:"availableDoses"`
	MaxDoses        int                `bson:"maxDoses" json:"maxDoses"`
	RegisteredUsers []SlotRegistration `bson:"registeredUsers" json:"registeredUsers"`
}

// StartAt combines Date and StartTime into the slot's opening instant.
func (s *Slot) StartAt() (time.Time, error) {
	t, err := time.Parse("15:04", s.StartTime)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(s.Date.Year(), s.Date.Month(), s.Date.Day(),
		t.Hour(), t.Minute(), 0, 0, s.Date.Location()), nil
}

// HasUser reports whether the user already holds a registration here.
func (s *Slot) HasUser(userID primitive.ObjectID) bool {
	for _, reg := range s.RegisteredUsers {
		if reg.UserID == userID {
			return true
		}
	}
	return false
}
