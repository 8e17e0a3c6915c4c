package handlers

import (
	"github.com/hasinarivo/vax-slot-api/internal/config"
	"github.com/hasinarivo/vax-slot-api/internal/services"
	"go.mongodb.org/mongo-driver/mongo"
)

// Handler groups the HTTP controllers and their collaborators. Auth and
// admin reporting talk to the database directly; everything touching
// slot capacity goes through the SlotService.
type Handler struct {
	DB    *mongo.Database
	Slots *services.SlotService
	Cfg   *config.Config
}

func NewHandler(db *mongo.Database, slots *services.SlotService, cfg *config.Config) *Handler {
	return &Handler{
		DB:    db,
		Slots: slots,
		Cfg:   cfg,
	}
}
