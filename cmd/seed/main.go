// Command seed bootstraps a deployment: it upserts the admin account and
// builds the slot catalog for the configured date range. Re-running is
// harmless; existing admins and slots are left alone.
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/hasinarivo/vax-slot-api/internal/config"
	"github.com/hasinarivo/vax-slot-api/internal/services"
	"github.com/hasinarivo/vax-slot-api/internal/utils"
)

func main() {
	adminUser := flag.String("admin-user", "admin", "bootstrap admin username")
	adminPass := flag.String("admin-pass", "", "bootstrap admin password (required)")
	flag.Parse()

	if *adminPass == "" {
		log.Fatal("-admin-pass is required")
	}

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables.")
	}
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer client.Disconnect(ctx)
	db := client.Database(cfg.MongoDatabase)

	if err := services.EnsureIndexes(ctx, db); err != nil {
		log.Fatalf("Failed to create indexes: %v", err)
	}

	hashed, err := utils.HashPassword(*adminPass)
	if err != nil {
		log.Fatalf("Failed to hash admin password: %v", err)
	}
	res, err := db.Collection("admins").UpdateOne(ctx,
		bson.M{"username": *adminUser},
		bson.M{"$setOnInsert": bson.M{
			"username": *adminUser,
			"password": hashed,
			"role":     utils.RoleAdmin,
		}},
		options.Update().SetUpsert(true))
	if err != nil {
		log.Fatalf("Failed to upsert admin: %v", err)
	}
	if res.UpsertedCount > 0 {
		log.Printf("Admin %q created.", *adminUser)
	} else {
		log.Printf("Admin %q already exists, left unchanged.", *adminUser)
	}

	start, err1 := time.Parse("2006-01-02", cfg.SlotRangeStart)
	end, err2 := time.Parse("2006-01-02", cfg.SlotRangeEnd)
	if err1 != nil || err2 != nil {
		log.Fatalf("Invalid SLOT_RANGE_START/SLOT_RANGE_END: %q..%q", cfg.SlotRangeStart, cfg.SlotRangeEnd)
	}

	created, err := services.NewSlotService(db).InitializeCatalog(ctx, start, end)
	if err != nil {
		log.Fatalf("Failed to initialize catalog: %v", err)
	}
	log.Printf("Seed complete: %d new slots.", created)
}
