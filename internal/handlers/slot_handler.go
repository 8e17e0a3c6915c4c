package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hasinarivo/vax-slot-api/internal/services"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// GetSlots lists the slots the authenticated user can book right now.
func (h *Handler) GetSlots(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	result, err := h.Slots.ListEligible(context.TODO(), userID)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		log.Printf("GetSlots: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve slots"})
		return
	}

	c.JSON(http.StatusOK, result)
}

type RegisterSlotRequest struct {
	SlotID string `json:"slotId" binding:"required"`
	Dose   string `json:"dose" binding:"required,oneof=firstDose secondDose"`
}

// RegisterSlot books one dose in a slot for the authenticated user.
func (h *Handler) RegisterSlot(c *gin.Context) {
	var req RegisterSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	slotID, err := primitive.ObjectIDFromHex(req.SlotID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid slot ID"})
		return
	}

	if err := h.Slots.Book(context.TODO(), userID, slotID, req.Dose); err != nil {
		h.renderSlotError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Slot registered successfully"})
}

type UpdateSlotRequest struct {
	OldSlotID string `json:"oldSlotId" binding:"required"`
	NewSlotID string `json:"newSlotId" binding:"required"`
}

// UpdateSlot moves an existing registration to another slot.
func (h *Handler) UpdateSlot(c *gin.Context) {
	var req UpdateSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	oldSlotID, err1 := primitive.ObjectIDFromHex(req.OldSlotID)
	newSlotID, err2 := primitive.ObjectIDFromHex(req.NewSlotID)
	if err1 != nil || err2 != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid slot ID"})
		return
	}

	if err := h.Slots.Reschedule(context.TODO(), userID, oldSlotID, newSlotID); err != nil {
		h.renderSlotError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Slot updated successfully"})
}

// renderSlotError maps allocator errors to client responses. Unknown
// errors are logged and hidden behind a 500.
func (h *Handler) renderSlotError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
	case errors.Is(err, services.ErrSlotNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Slot not found"})
	case errors.Is(err, services.ErrDoseSequence),
		errors.Is(err, services.ErrPastSlot),
		errors.Is(err, services.ErrCapacityExceeded),
		errors.Is(err, services.ErrDuplicateRegistration),
		errors.Is(err, services.ErrRescheduleWindow),
		errors.Is(err, services.ErrNotRegistered):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		log.Printf("slot operation failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

// currentUserID pulls the authenticated user's ObjectID out of the gin
// context. Writes the response itself on failure.
func currentUserID(c *gin.Context) (primitive.ObjectID, bool) {
	userIDHex, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return primitive.NilObjectID, false
	}
	userID, err := primitive.ObjectIDFromHex(userIDHex.(string))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Invalid user ID in token"})
		return primitive.NilObjectID, false
	}
	return userID, true
}
