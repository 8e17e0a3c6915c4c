package services

import (
	"context"
	"fmt"
	"log"
	"math"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/hasinarivo/vax-slot-api/internal/models"
)

// rescheduleCutoff is how long before a slot opens that bookings freeze.
const rescheduleCutoff = 24 * time.Hour

// doseGap is the minimum wait between the first and second dose.
const doseGap = 28 // days

// SlotService owns the booking rules: dose sequencing, capacity
// accounting and the time-window checks. Capacity moves only through
// conditional updates evaluated by Mongo, so two calls racing for the
// last dose cannot both win.
type SlotService struct {
	DB *mongo.Database
}

func NewSlotService(db *mongo.Database) *SlotService {
	return &SlotService{DB: db}
}

func (s *SlotService) users() *mongo.Collection { return s.DB.Collection("users") }
func (s *SlotService) slots() *mongo.Collection { return s.DB.Collection("slots") }

// checkDoseEligibility enforces the progression none -> firstDose ->
// fullyVaccinated. A first dose needs a fresh user; a second dose needs
// exactly one dose taken.
func checkDoseEligibility(status, dose string) error {
	switch dose {
	case models.DoseFirst:
		if status != models.StatusNone {
			return ErrDoseSequence
		}
	case models.DoseSecond:
		if status != models.StatusFirstDose {
			return ErrDoseSequence
		}
	default:
		return fmt.Errorf("%w: unknown dose %q", ErrDoseSequence, dose)
	}
	return nil
}

func nextStatus(dose string) string {
	if dose == models.DoseSecond {
		return models.StatusFullyVaccinated
	}
	return models.StatusFirstDose
}

// withinModificationWindow reports whether now is too close to the slot's
// start for changes; modifications need strictly more than the cutoff.
func withinModificationWindow(slotStart, now time.Time) bool {
	return slotStart.Sub(now) <= rescheduleCutoff
}

// availablePercentage is availableDoses/maxDoses*100 to one decimal.
func availablePercentage(available, max int) float64 {
	if max <= 0 {
		return 0
	}
	return math.Round(float64(available)/float64(max)*1000) / 10
}

// Book registers the user for one dose in the given slot. The capacity
// decrement and the registration append are a single conditional update,
// and the user's status advance is conditioned on the status observed
// here, so concurrent attempts settle to exactly one winner.
func (s *SlotService) Book(ctx context.Context, userID, slotID primitive.ObjectID, dose string) error {
	var user models.User
	if err := s.users().FindOne(ctx, bson.M{"_id": userID}).Decode(&user); err != nil {
		if err == mongo.ErrNoDocuments {
			return ErrUserNotFound
		}
		return fmt.Errorf("load user: %w", err)
	}

	if err := checkDoseEligibility(user.VaccinationStatus, dose); err != nil {
		return err
	}

	var slot models.Slot
	if err := s.slots().FindOne(ctx, bson.M{"_id": slotID}).Decode(&slot); err != nil {
		if err == mongo.ErrNoDocuments {
			return ErrSlotNotFound
		}
		return fmt.Errorf("load slot: %w", err)
	}

	start, err := slot.StartAt()
	if err != nil {
		return fmt.Errorf("slot %s has malformed startTime: %w", slotID.Hex(), err)
	}
	if !start.After(time.Now()) {
		return ErrPastSlot
	}
	if slot.HasUser(userID) {
		return ErrDuplicateRegistration
	}
	if slot.AvailableDoses <= 0 {
		return ErrCapacityExceeded
	}

	if err := s.claimSlot(ctx, slotID, userID, dose); err != nil {
		return err
	}

	entry := models.DoseBooking{Dose: dose, Date: slot.Date, SlotTime: slot.StartTime}
	res, err := s.users().UpdateOne(ctx,
		bson.M{"_id": userID, "vaccinationStatus": user.VaccinationStatus},
		bson.M{
			"$push": bson.M{"registeredSlots": entry},
			"$set":  bson.M{"vaccinationStatus": nextStatus(dose)},
		})
	if err != nil {
		s.releaseSlot(ctx, slotID, userID)
		return fmt.Errorf("update user: %w", err)
	}
	if res.ModifiedCount == 0 {
		// Status moved under us: a concurrent booking for the same user
		// won. Give the dose back.
		s.releaseSlot(ctx, slotID, userID)
		return ErrDoseSequence
	}
	return nil
}

// claimSlot takes one dose of capacity and records the registration in a
// single store-evaluated update. The filter only matches while capacity
// remains and the user is absent, which is what makes the last-dose race
// safe.
func (s *SlotService) claimSlot(ctx context.Context, slotID, userID primitive.ObjectID, dose string) error {
	res, err := s.slots().UpdateOne(ctx,
		bson.M{
			"_id":                    slotID,
			"availableDoses":         bson.M{"$gt": 0},
			"registeredUsers.userId": bson.M{"$ne": userID},
		},
		bson.M{
			"$inc":  bson.M{"availableDoses": -1},
			"$push": bson.M{"registeredUsers": models.SlotRegistration{UserID: userID, Dose: dose}},
		})
	if err != nil {
		return fmt.Errorf("claim slot: %w", err)
	}
	if res.ModifiedCount == 1 {
		return nil
	}

	// Lost the update: re-read to tell a duplicate from exhaustion.
	var slot models.Slot
	if err := s.slots().FindOne(ctx, bson.M{"_id": slotID}).Decode(&slot); err != nil {
		if err == mongo.ErrNoDocuments {
			return ErrSlotNotFound
		}
		return fmt.Errorf("re-read slot: %w", err)
	}
	if slot.HasUser(userID) {
		return ErrDuplicateRegistration
	}
	return ErrCapacityExceeded
}

// releaseSlot is the compensating update for claimSlot.
func (s *SlotService) releaseSlot(ctx context.Context, slotID, userID primitive.ObjectID) {
	_, err := s.slots().UpdateOne(ctx,
		bson.M{"_id": slotID, "registeredUsers.userId": userID},
		bson.M{
			"$inc":  bson.M{"availableDoses": 1},
			"$pull": bson.M{"registeredUsers": bson.M{"userId": userID}},
		})
	if err != nil {
		// The seat stays lost until an operator reconciles; log and move on.
		log.Printf("releaseSlot: slot %s user %s: %v", slotID.Hex(), userID.Hex(), err)
	}
}

// Reschedule moves the user's registration from oldSlot to newSlot. The
// new slot is claimed before the old one is released so the user never
// ends up seatless; a failed release undoes the claim.
func (s *SlotService) Reschedule(ctx context.Context, userID, oldSlotID, newSlotID primitive.ObjectID) error {
	var user models.User
	if err := s.users().FindOne(ctx, bson.M{"_id": userID}).Decode(&user); err != nil {
		if err == mongo.ErrNoDocuments {
			return ErrUserNotFound
		}
		return fmt.Errorf("load user: %w", err)
	}

	var oldSlot, newSlot models.Slot
	if err := s.slots().FindOne(ctx, bson.M{"_id": oldSlotID}).Decode(&oldSlot); err != nil {
		if err == mongo.ErrNoDocuments {
			return ErrSlotNotFound
		}
		return fmt.Errorf("load old slot: %w", err)
	}
	if err := s.slots().FindOne(ctx, bson.M{"_id": newSlotID}).Decode(&newSlot); err != nil {
		if err == mongo.ErrNoDocuments {
			return ErrSlotNotFound
		}
		return fmt.Errorf("load new slot: %w", err)
	}

	if !oldSlot.HasUser(userID) {
		return ErrNotRegistered
	}

	start, err := oldSlot.StartAt()
	if err != nil {
		return fmt.Errorf("slot %s has malformed startTime: %w", oldSlotID.Hex(), err)
	}
	if withinModificationWindow(start, time.Now()) {
		return ErrRescheduleWindow
	}

	// The dose label is re-derived from the current status, matching the
	// long-standing behavior, rather than carried over from the entry
	// being moved.
	dose := models.DoseSecond
	if user.VaccinationStatus == models.StatusNone {
		dose = models.DoseFirst
	}

	if err := s.claimSlot(ctx, newSlotID, userID, dose); err != nil {
		return err
	}

	res, err := s.slots().UpdateOne(ctx,
		bson.M{"_id": oldSlotID, "registeredUsers.userId": userID},
		bson.M{
			"$inc":  bson.M{"availableDoses": 1},
			"$pull": bson.M{"registeredUsers": bson.M{"userId": userID}},
		})
	if err != nil {
		s.releaseSlot(ctx, newSlotID, userID)
		return fmt.Errorf("release old slot: %w", err)
	}
	if res.ModifiedCount == 0 {
		// Registration vanished between the read and now.
		s.releaseSlot(ctx, newSlotID, userID)
		return ErrNotRegistered
	}

	// Rewrite the matching history entry. Best effort: an absent entry is
	// tolerated, as the slots themselves are already consistent.
	_, err = s.users().UpdateOne(ctx,
		bson.M{
			"_id": userID,
			"registeredSlots": bson.M{"$elemMatch": bson.M{
				"date":     oldSlot.Date,
				"slotTime": oldSlot.StartTime,
			}},
		},
		bson.M{"$set": bson.M{
			"registeredSlots.$.dose":     dose,
			"registeredSlots.$.date":     newSlot.Date,
			"registeredSlots.$.slotTime": newSlot.StartTime,
		}})
	if err != nil {
		return fmt.Errorf("update user history: %w", err)
	}
	return nil
}
