package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestSlotHasUser(t *testing.T) {
	t.Parallel()

	alice := primitive.NewObjectID()
	bob := primitive.NewObjectID()

	slot := Slot{
		RegisteredUsers: []SlotRegistration{{UserID: alice, Dose: DoseFirst}},
	}

	assert.True(t, slot.HasUser(alice))
	assert.False(t, slot.HasUser(bob))
	assert.False(t, (&Slot{}).HasUser(alice))
}

func TestSlotStartAtKeepsLocation(t *testing.T) {
	t.Parallel()

	slot := Slot{
		Date:      time.Date(2024, 11, 20, 0, 0, 0, 0, time.UTC),
		StartTime: "16:30",
		EndTime:   "17:00",
	}
	start, err := slot.StartAt()
	require.NoError(t, err)
	assert.Equal(t, "2024-11-20T16:30:00Z", start.Format(time.RFC3339))
}
