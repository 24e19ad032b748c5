package config

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/anonto42/nano-social/backend/internal/store"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// OpenBackend connects the persistence substrate selected by cfg.StoreDriver.
func OpenBackend(ctx context.Context, cfg *Config) (store.Backend, error) {
	switch cfg.StoreDriver {
	case DriverMemory:
		log.Println("Using in-memory record store; data is lost on exit.")
		return store.NewMemoryBackend(nil), nil
	case DriverFile:
		b, err := store.NewFileBackend(cfg.DataDir)
		if err != nil {
			return nil, err
		}
		log.Printf("Using file record store in %s", cfg.DataDir)
		return b, nil
	case DriverPostgres:
		db, err := initPostgres(cfg.PostgresURL)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
		}
		return store.NewPostgresBackend(db)
	case DriverMongo:
		client, err := initMongo(ctx, cfg.MongoURI)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
		}
		return store.NewMongoBackend(client, client.Database(cfg.MongoDatabase)), nil
	}
	return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
}

// initPostgres initializes the PostgreSQL database connection using GORM
func initPostgres(connStr string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(connStr), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	// Ping the database to verify connection
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if err = sqlDB.Ping(); err != nil {
		return nil, err
	}

	log.Println("Successfully connected to PostgreSQL!")
	return db, nil
}

// initMongo initializes the MongoDB connection
func initMongo(ctx context.Context, uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}

	// Ping the primary to verify connection
	if err = client.Ping(ctx, nil); err != nil {
		return nil, err
	}

	log.Println("Successfully connected to MongoDB!")
	return client, nil
}
