package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Vaccination status progression. A user moves none -> firstDose ->
// fullyVaccinated, one step per successful booking.
const (
	StatusNone            = "none"
	StatusFirstDose       = "firstDose"
	StatusFullyVaccinated = "fullyVaccinated"
)

const (
	DoseFirst  = "firstDose"
	DoseSecond = "secondDose"
)

// DoseBooking is one entry of a user's booking history. SlotTime is the
// slot's start time in "HH:mm", matching the slot document.
type DoseBooking struct {
	Dose     string    `bson:"dose" json:"dose"`
	Date     time.Time `bson:"date" json:"date"`
	SlotTime string    `bson:"slotTime" json:"slotTime"`
}

type User struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name              string             `bson:"name" json:"name"`
	PhoneNumber       string             `bson:"phoneNumber" json:"phoneNumber"`
	Age               int                `bson:"age" json:"age"`
	Pincode           string             `bson:"pincode" json:"pincode"`
	AadharNo          string             `bson:"aadharNo" json:"-"` // never echoed back
	Password          string             `bson:"password" json:"-"` // Hide from JSON responses
	VaccinationStatus string             `bson:"vaccinationStatus" json:"vaccinationStatus"`
	RegisteredSlots   []DoseBooking      `bson:"registeredSlots" json:"registeredSlots"`
}

// NextDose reports the dose the user is eligible for next, "completed"
// once fully vaccinated.
func (u *User) NextDose() string {
	switch u.VaccinationStatus {
	case StatusNone:
		return DoseFirst
	case StatusFirstDose:
		return DoseSecond
	default:
		return "completed"
	}
}
