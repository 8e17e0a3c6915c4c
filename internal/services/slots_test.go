package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hasinarivo/vax-slot-api/internal/models"
)

func TestCheckDoseEligibility(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		status  string
		dose    string
		wantErr error
	}{
		{"fresh user books first dose", models.StatusNone, models.DoseFirst, nil},
		{"first dose holder books second dose", models.StatusFirstDose, models.DoseSecond, nil},
		{"second dose before first", models.StatusNone, models.DoseSecond, ErrDoseSequence},
		{"first dose twice", models.StatusFirstDose, models.DoseFirst, ErrDoseSequence},
		{"fully vaccinated books first dose", models.StatusFullyVaccinated, models.DoseFirst, ErrDoseSequence},
		{"fully vaccinated books second dose", models.StatusFullyVaccinated, models.DoseSecond, ErrDoseSequence},
		{"unknown dose label", models.StatusNone, "boosterDose", ErrDoseSequence},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := checkDoseEligibility(tt.status, tt.dose)
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestNextStatus(t *testing.T) {
	t.Parallel()

	assert.Equal(t, models.StatusFirstDose, nextStatus(models.DoseFirst))
	assert.Equal(t, models.StatusFullyVaccinated, nextStatus(models.DoseSecond))
}

func TestWithinModificationWindow(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 11, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		start  time.Time
		frozen bool
	}{
		{"two days out", now.Add(48 * time.Hour), false},
		{"just over the cutoff", now.Add(24*time.Hour + time.Minute), false},
		{"exactly at the cutoff", now.Add(24 * time.Hour), true},
		{"an hour before start", now.Add(time.Hour), true},
		{"already started", now.Add(-time.Hour), true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.frozen, withinModificationWindow(tt.start, now))
		})
	}
}

func TestAvailablePercentage(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 100.0, availablePercentage(10, 10))
	assert.Equal(t, 50.0, availablePercentage(5, 10))
	assert.Equal(t, 0.0, availablePercentage(0, 10))
	assert.Equal(t, 33.3, availablePercentage(1, 3))
	assert.Equal(t, 66.7, availablePercentage(2, 3))
	assert.Equal(t, 0.0, availablePercentage(5, 0))
}

func TestSlotStartAt(t *testing.T) {
	t.Parallel()

	slot := models.Slot{
		Date:      time.Date(2024, 11, 15, 0, 0, 0, 0, time.UTC),
		StartTime: "10:30",
	}
	start, err := slot.StartAt()
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 11, 15, 10, 30, 0, 0, time.UTC), start)

	slot.StartTime = "25:99"
	_, err = slot.StartAt()
	assert.Error(t, err)
}
