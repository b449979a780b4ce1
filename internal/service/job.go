// Package service contains the business logic layered between the admin
// surface and the data repositories.
package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/kernelci/backend-go/internal/core"
	"github.com/kernelci/backend-go/internal/data"
	"github.com/kernelci/backend-go/internal/domain/model"
)

const defaultCacheTTL = 15 * time.Minute

// JobServiceOptions groups dependencies for JobService.
type JobServiceOptions struct {
	Repo         core.JobRepository   // Required: job document repository
	Cache        core.CacheRepository // Optional: serialized document cache
	CacheTTL     time.Duration        // Optional: cache entry lifetime
	Logger       *slog.Logger         // Optional: structured logger
	TimeProvider data.TimeProvider    // Optional: clock, defaults to system time
}

// JobService coordinates the job document store with its cache and stamps
// update times on writes. Cache failures degrade to store reads and are
// logged, never surfaced.
type JobService struct {
	repo   core.JobRepository
	cache  core.CacheRepository
	ttl    time.Duration
	clock  data.TimeProvider
	logger *slog.Logger
}

// NewJobService constructs a new JobService.
func NewJobService(opts JobServiceOptions) (*JobService, error) {
	if opts.Repo == nil {
		return nil, errors.New("JobRepository is required")
	}

	ttl := opts.CacheTTL
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	clock := opts.TimeProvider
	if clock == nil {
		clock = &data.RealTimeProvider{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &JobService{
		repo:   opts.Repo,
		cache:  opts.Cache,
		ttl:    ttl,
		clock:  clock,
		logger: logger.With("component", "job_service"),
	}, nil
}

// Upsert stamps the document's updated time, persists it, and refreshes its
// cache entry.
func (s *JobService) Upsert(ctx context.Context, doc *model.JobDocument) error {
	doc.MarkUpdated(s.clock.Now())
	if err := s.repo.Save(ctx, doc); err != nil {
		return err
	}
	s.cacheStore(ctx, doc)
	return nil
}

// Get loads a job document, serving from cache when possible and backfilling
// the cache on a store read.
func (s *JobService) Get(ctx context.Context, id string) (*model.JobDocument, error) {
	if s.cache != nil {
		raw, err := s.cache.Get(ctx, data.JobCacheKey(id))
		switch {
		case err != nil:
			s.logger.WarnContext(ctx, "job cache read failed", "id", id, "error", err)
		case raw != nil:
			doc, derr := model.JobFromJSON(raw)
			if derr == nil {
				return doc, nil
			}
			s.logger.WarnContext(ctx, "dropping undecodable job cache entry", "id", id, "error", derr)
		}
	}

	doc, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.cacheStore(ctx, doc)
	return doc, nil
}

// Delete removes the document from the store and drops its cache entry.
func (s *JobService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	if s.cache != nil {
		if _, err := s.cache.Delete(ctx, data.JobCacheKey(id)); err != nil {
			s.logger.WarnContext(ctx, "job cache invalidation failed", "id", id, "error", err)
		}
	}
	return nil
}

// List returns up to limit job documents straight from the store.
func (s *JobService) List(ctx context.Context, limit int64) ([]*model.JobDocument, error) {
	return s.repo.List(ctx, limit)
}

// Count returns the job collection size.
func (s *JobService) Count(ctx context.Context) (int64, error) {
	return s.repo.Count(ctx)
}

func (s *JobService) cacheStore(ctx context.Context, doc *model.JobDocument) {
	if s.cache == nil {
		return
	}

	raw, err := bson.MarshalExtJSON(doc.ToMap(), false, false)
	if err != nil {
		s.logger.WarnContext(ctx, "encode job for cache failed", "id", doc.ID, "error", err)
		return
	}
	if err := s.cache.Set(ctx, data.JobCacheKey(doc.ID), raw, s.ttl); err != nil {
		s.logger.WarnContext(ctx, "job cache write failed", "id", doc.ID, "error", err)
	}
}
