package handlers

import (
	"context"
	"errors"
	"io"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hasinarivo/vax-slot-api/internal/models"
	"github.com/hasinarivo/vax-slot-api/internal/utils"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type AdminLoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// AdminLogin authenticates an administrator and returns a 12h token with
// the admin role claim.
func (h *Handler) AdminLogin(c *gin.Context) {
	var req AdminLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Username and password are required"})
		return
	}

	var admin models.Admin
	collection := h.DB.Collection("admins")
	err := collection.FindOne(context.TODO(), bson.M{"username": req.Username}).Decode(&admin)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	if !utils.CheckPasswordHash(req.Password, admin.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	token, err := utils.GenerateAdminToken(admin.ID.Hex(), admin.Username)
	if err != nil {
		log.Printf("AdminLogin: token generation failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Admin login successful",
		"token":   token,
		"admin":   admin,
	})
}

// GetUsers reports registered citizens, filterable by age, pincode and
// vaccination status query params.
func (h *Handler) GetUsers(c *gin.Context) {
	match := bson.M{}
	if ageStr := c.Query("age"); ageStr != "" {
		age, err := strconv.Atoi(ageStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid age filter"})
			return
		}
		match["age"] = age
	}
	if pincode := c.Query("pincode"); pincode != "" {
		match["pincode"] = pincode
	}
	if status := c.Query("vaccinationStatus"); status != "" {
		match["vaccinationStatus"] = status
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$project", Value: bson.M{
			"name":              1,
			"age":               1,
			"pincode":           1,
			"vaccinationStatus": 1,
			"registeredSlots":   1,
		}}},
	}

	collection := h.DB.Collection("users")
	cursor, err := collection.Aggregate(context.TODO(), pipeline)
	if err != nil {
		log.Printf("GetUsers: aggregate failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve users"})
		return
	}
	defer cursor.Close(context.TODO())

	var users []bson.M
	if err := cursor.All(context.TODO(), &users); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode users"})
		return
	}
	if users == nil {
		users = make([]bson.M, 0)
	}

	c.JSON(http.StatusOK, users)
}

// GetSlotRegistrations reports one day's slots joined with registrant
// details, optionally narrowed to one dose.
func (h *Handler) GetSlotRegistrations(c *gin.Context) {
	dateStr := c.Query("date")
	if dateStr == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date query param is required"})
		return
	}
	date, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date, use YYYY-MM-DD"})
		return
	}

	match := bson.M{"date": date}
	if dose := c.Query("dose"); dose != "" {
		match["registeredUsers.dose"] = dose
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$lookup", Value: bson.M{
			"from":         "users",
			"localField":   "registeredUsers.userId",
			"foreignField": "_id",
			"as":           "userDetails",
		}}},
		{{Key: "$project", Value: bson.M{
			"startTime":       1,
			"endTime":         1,
			"availableDoses":  1,
			"registeredUsers": 1,
			"userDetails": bson.M{
				"name":    1,
				"age":     1,
				"pincode": 1,
			},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "startTime", Value: 1}}}},
	}

	collection := h.DB.Collection("slots")
	cursor, err := collection.Aggregate(context.TODO(), pipeline)
	if err != nil {
		log.Printf("GetSlotRegistrations: aggregate failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve slots"})
		return
	}
	defer cursor.Close(context.TODO())

	var slots []bson.M
	if err := cursor.All(context.TODO(), &slots); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode slots"})
		return
	}
	if slots == nil {
		slots = make([]bson.M, 0)
	}

	c.JSON(http.StatusOK, slots)
}

type InitSlotsRequest struct {
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
}

// InitSlots builds the slot catalog over a date range, defaulting to the
// configured range when the body omits one. Safe to re-run.
func (h *Handler) InitSlots(c *gin.Context) {
	var req InitSlotsRequest
	// An empty body means "use the configured range".
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if req.StartDate == "" {
		req.StartDate = h.Cfg.SlotRangeStart
	}
	if req.EndDate == "" {
		req.EndDate = h.Cfg.SlotRangeEnd
	}

	start, err1 := time.Parse("2006-01-02", req.StartDate)
	end, err2 := time.Parse("2006-01-02", req.EndDate)
	if err1 != nil || err2 != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date range, use YYYY-MM-DD"})
		return
	}

	created, err := h.Slots.InitializeCatalog(context.TODO(), start, end)
	if err != nil {
		log.Printf("InitSlots: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to initialize slots"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":      "Slot catalog initialized",
		"slotsCreated": created,
	})
}
