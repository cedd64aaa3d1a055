// Package project persists per-render metadata and status in MongoDB.
//
// The store is an optional capability: services run without it and treat
// every bookkeeping failure as non-fatal.
package project

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/lyricforge/lyricforge/internal/style"
	"github.com/lyricforge/lyricforge/internal/subtitle"
)

// Project status lifecycle.
const (
	StatusUploaded  = "uploaded"
	StatusRendering = "rendering"
	StatusCompleted = "completed"
	StatusError     = "error"
)

const collectionName = "projects"

// Record is one project document.
type Record struct {
	ID           string         `bson:"_id" json:"id"`
	VideoURL     string         `bson:"videoUrl" json:"videoUrl"`
	SrtURL       string         `bson:"srtUrl,omitempty" json:"srtUrl,omitempty"`
	Lyrics       []subtitle.Cue `bson:"lyrics" json:"lyrics"`
	Style        style.Config   `bson:"style" json:"style"`
	FinalURL     string         `bson:"finalUrl,omitempty" json:"finalUrl,omitempty"`
	Status       string         `bson:"status" json:"status"`
	ErrorMessage string         `bson:"errorMessage,omitempty" json:"errorMessage,omitempty"`
	CreatedAt    time.Time      `bson:"createdAt" json:"createdAt"`
}

// Store wraps the projects collection.
type Store struct {
	client *mongo.Client
	coll   *mongo.Collection
	log    zerolog.Logger
}

// Connect opens the project store. Callers treat a nil *Store as
// "bookkeeping disabled".
func Connect(ctx context.Context, uri, database string, log zerolog.Logger) (*Store, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to mongodb")
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, errors.Wrap(err, "mongodb unreachable")
	}

	return &Store{
		client: client,
		coll:   client.Database(database).Collection(collectionName),
		log:    log,
	}, nil
}

// Close releases the underlying client.
func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// Create inserts a new record, assigning an id and creation time when
// unset, and returns the id.
func (s *Store) Create(ctx context.Context, rec Record) (string, error) {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.Status == "" {
		rec.Status = StatusUploaded
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}

	if _, err := s.coll.InsertOne(ctx, rec); err != nil {
		return "", errors.Wrap(err, "failed to create project")
	}
	return rec.ID, nil
}

// SetFinal records the rendered output location and marks the project
// completed.
func (s *Store) SetFinal(ctx context.Context, id, finalURL string) error {
	return s.setFields(ctx, id, bson.M{
		"finalUrl": finalURL,
		"status":   StatusCompleted,
	})
}

// MarkError records a render failure on the project.
func (s *Store) MarkError(ctx context.Context, id, message string) error {
	return s.setFields(ctx, id, bson.M{
		"status":       StatusError,
		"errorMessage": message,
	})
}

func (s *Store) setFields(ctx context.Context, id string, fields bson.M) error {
	res, err := s.coll.UpdateByID(ctx, id, bson.M{"$set": fields})
	if err != nil {
		return errors.Wrap(err, "failed to update project")
	}
	if res.MatchedCount == 0 {
		return errors.Errorf("project %s not found", id)
	}
	return nil
}

// Get fetches one record by id.
func (s *Store) Get(ctx context.Context, id string) (*Record, error) {
	var rec Record
	if err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&rec); err != nil {
		return nil, errors.Wrap(err, "failed to load project")
	}
	return &rec, nil
}

// MostRecent returns the newest record by creation time.
func (s *Store) MostRecent(ctx context.Context) (*Record, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	var rec Record
	if err := s.coll.FindOne(ctx, bson.M{}, opts).Decode(&rec); err != nil {
		return nil, errors.Wrap(err, "failed to load most recent project")
	}
	return &rec, nil
}
