package service

import (
	"context"
	"time"

	"github.com/kernelci/backend-go/internal/data"
	"github.com/kernelci/backend-go/internal/domain/model"
)

// stubJobRepo provides a minimal in-memory JobRepository for tests.
type stubJobRepo struct {
	docs  map[string]*model.JobDocument
	finds int
	saves int
	err   error
}

func newStubJobRepo() *stubJobRepo {
	return &stubJobRepo{docs: map[string]*model.JobDocument{}}
}

func (s *stubJobRepo) Save(_ context.Context, doc *model.JobDocument) error {
	if s.err != nil {
		return s.err
	}
	s.saves++
	s.docs[doc.ID] = doc
	return nil
}

func (s *stubJobRepo) FindByID(_ context.Context, id string) (*model.JobDocument, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.finds++
	doc, ok := s.docs[id]
	if !ok {
		return nil, data.ErrJobNotFound
	}
	return doc, nil
}

func (s *stubJobRepo) Delete(_ context.Context, id string) error {
	if s.err != nil {
		return s.err
	}
	if _, ok := s.docs[id]; !ok {
		return data.ErrJobNotFound
	}
	delete(s.docs, id)
	return nil
}

func (s *stubJobRepo) List(_ context.Context, limit int64) ([]*model.JobDocument, error) {
	if s.err != nil {
		return nil, s.err
	}
	docs := make([]*model.JobDocument, 0, len(s.docs))
	for _, doc := range s.docs {
		docs = append(docs, doc)
		if limit > 0 && int64(len(docs)) == limit {
			break
		}
	}
	return docs, nil
}

func (s *stubJobRepo) Count(_ context.Context) (int64, error) {
	if s.err != nil {
		return 0, s.err
	}
	return int64(len(s.docs)), nil
}

// stubCacheRepo provides a minimal in-memory CacheRepository for tests.
type stubCacheRepo struct {
	entries map[string][]byte
	err     error
}

func newStubCacheRepo() *stubCacheRepo {
	return &stubCacheRepo{entries: map[string][]byte{}}
}

func (s *stubCacheRepo) Get(_ context.Context, key string) ([]byte, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.entries[key], nil
}

func (s *stubCacheRepo) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	if s.err != nil {
		return s.err
	}
	s.entries[key] = value
	return nil
}

func (s *stubCacheRepo) Delete(_ context.Context, key string) (bool, error) {
	if s.err != nil {
		return false, s.err
	}
	_, ok := s.entries[key]
	delete(s.entries, key)
	return ok, nil
}
