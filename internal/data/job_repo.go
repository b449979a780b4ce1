package data

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/kernelci/backend-go/internal/domain/model"
)

// JobRepo provides store operations for the job collection.
//
// Documents cross the driver boundary in their generic mapping form
// (model.ToMap / model.JobFromMap), keeping the model's serialization
// contract authoritative over driver struct tags.
type JobRepo struct {
	col    *mongo.Collection
	logger *slog.Logger
}

// NewJobRepo creates a JobRepo bound to the job collection of db.
func NewJobRepo(db *mongo.Database, logger *slog.Logger) *JobRepo {
	if logger == nil {
		logger = slog.Default()
	}
	return &JobRepo{
		col:    db.Collection(model.JobCollection),
		logger: logger.With("component", "job_repo"),
	}
}

// Save upserts the document under its identity key.
func (r *JobRepo) Save(ctx context.Context, doc *model.JobDocument) error {
	opts := options.Replace().SetUpsert(true)
	res, err := r.col.ReplaceOne(ctx, bson.M{model.IDKey: doc.ID}, doc.ToMap(), opts)
	if err != nil {
		return fmt.Errorf("save job %q: %w", doc.ID, err)
	}
	r.logger.DebugContext(ctx, "job saved", "id", doc.ID, "inserted", res.UpsertedCount > 0)
	return nil
}

// FindByID loads one job document by its identity key.
func (r *JobRepo) FindByID(ctx context.Context, id string) (*model.JobDocument, error) {
	var m map[string]any
	err := r.col.FindOne(ctx, bson.M{model.IDKey: id}).Decode(&m)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrJobNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find job %q: %w", id, err)
	}

	doc, err := model.JobFromMap(m)
	if err != nil {
		return nil, fmt.Errorf("decode job %q: %w", id, err)
	}
	return doc, nil
}

// Delete removes one job document by its identity key.
func (r *JobRepo) Delete(ctx context.Context, id string) error {
	res, err := r.col.DeleteOne(ctx, bson.M{model.IDKey: id})
	if err != nil {
		return fmt.Errorf("delete job %q: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return ErrJobNotFound
	}
	return nil
}

// List returns up to limit job documents ordered by identity.
// A limit <= 0 returns the whole collection.
func (r *JobRepo) List(ctx context.Context, limit int64) ([]*model.JobDocument, error) {
	opts := options.Find().SetSort(bson.D{{Key: model.IDKey, Value: 1}})
	if limit > 0 {
		opts = opts.SetLimit(limit)
	}

	cur, err := r.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	defer func() {
		if cerr := cur.Close(ctx); cerr != nil {
			r.logger.WarnContext(ctx, "close job cursor failed", "error", cerr)
		}
	}()

	var docs []*model.JobDocument
	for cur.Next(ctx) {
		var m map[string]any
		if derr := cur.Decode(&m); derr != nil {
			return nil, fmt.Errorf("decode job document: %w", derr)
		}
		doc, derr := model.JobFromMap(m)
		if derr != nil {
			return nil, fmt.Errorf("decode job document: %w", derr)
		}
		docs = append(docs, doc)
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("iterate jobs: %w", err)
	}
	return docs, nil
}

// Count returns the number of documents in the job collection.
func (r *JobRepo) Count(ctx context.Context) (int64, error) {
	n, err := r.col.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("count jobs: %w", err)
	}
	return n, nil
}
