package core

import (
	"context"
	"time"

	"github.com/kernelci/backend-go/internal/domain/model"
)

// This file contains repository interface definitions (ports in hexagonal architecture).
// Service implementations should depend on these interfaces, not concrete implementations.

// JobRepository defines the interface for job document store operations.
type JobRepository interface {
	Save(ctx context.Context, doc *model.JobDocument) error
	FindByID(ctx context.Context, id string) (*model.JobDocument, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, limit int64) ([]*model.JobDocument, error)
	Count(ctx context.Context) (int64, error)
}

// CacheRepository defines the interface for cached serialized documents.
type CacheRepository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) (bool, error)
}
