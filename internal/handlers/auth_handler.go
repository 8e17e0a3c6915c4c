// internal/handlers/auth_handler.go
package handlers

import (
	"context"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hasinarivo/vax-slot-api/internal/models"
	"github.com/hasinarivo/vax-slot-api/internal/utils"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type RegisterUserRequest struct {
	Name        string `json:"name" binding:"required"`
	PhoneNumber string `json:"phoneNumber" binding:"required,len=10,numeric"`
	Age         int    `json:"age" binding:"required,gte=1,lte=120"`
	Pincode     string `json:"pincode" binding:"required,len=6,numeric"`
	AadharNo    string `json:"aadharNo" binding:"required,len=12,numeric"`
	Password    string `json:"password" binding:"required,min=8"`
}

// RegisterUser creates a citizen account. Uniqueness of phoneNumber and
// aadharNo is checked up front and backed by unique indexes, so the race
// between two identical registrations still ends in a 400.
func (h *Handler) RegisterUser(c *gin.Context) {
	var req RegisterUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	collection := h.DB.Collection("users")
	count, err := collection.CountDocuments(context.TODO(), bson.M{
		"$or": []bson.M{{"phoneNumber": req.PhoneNumber}, {"aadharNo": req.AadharNo}},
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
		return
	}
	if count > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "User already exists"})
		return
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}

	user := models.User{
		ID:                primitive.NewObjectID(),
		Name:              req.Name,
		PhoneNumber:       req.PhoneNumber,
		Age:               req.Age,
		Pincode:           req.Pincode,
		AadharNo:          req.AadharNo,
		Password:          hashedPassword,
		VaccinationStatus: models.StatusNone,
		RegisteredSlots:   []models.DoseBooking{},
	}

	if _, err := collection.InsertOne(context.TODO(), user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "User already exists"})
			return
		}
		log.Printf("RegisterUser: insert failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "User registered successfully"})
}

type LoginRequest struct {
	PhoneNumber string `json:"phoneNumber" binding:"required"`
	Password    string `json:"password" binding:"required"`
}

// Login authenticates by phone number and returns a 24h bearer token
// with the public profile.
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Phone number and password are required"})
		return
	}

	var user models.User
	collection := h.DB.Collection("users")
	err := collection.FindOne(context.TODO(), bson.M{"phoneNumber": req.PhoneNumber}).Decode(&user)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid phone number or password"})
		return
	}

	if !utils.CheckPasswordHash(req.Password, user.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid phone number or password"})
		return
	}

	token, err := utils.GenerateUserToken(user.ID.Hex(), user.PhoneNumber)
	if err != nil {
		log.Printf("Login: token generation failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"token":   token,
		"user":    user, // password/aadhar are stripped by the json tags
	})
}
