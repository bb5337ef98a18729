package repository

import (
	"context"
	"sync"

	"surakshaconnect/internal/model"
)

type memoryRequestRepo struct {
	mu       sync.RWMutex
	requests []*model.VerificationRequest
	byID     map[string]*model.VerificationRequest
	seq      int64
}

// NewMemoryRequestRepo creates a process-local request repository
func NewMemoryRequestRepo() RequestRepo {
	return &memoryRequestRepo{
		byID: make(map[string]*model.VerificationRequest),
	}
}

func (r *memoryRequestRepo) Create(ctx context.Context, req *model.VerificationRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.seq++
	req.Seq = r.seq

	stored := cloneRequest(req)
	r.requests = append(r.requests, stored)
	r.byID[stored.ID] = stored
	return nil
}

func (r *memoryRequestRepo) GetByID(ctx context.Context, id string) (*model.VerificationRequest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	req, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	return cloneRequest(req), nil
}

func (r *memoryRequestRepo) UpdateStatus(ctx context.Context, id string, from, to model.RequestStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	req, ok := r.byID[id]
	if !ok {
		return ErrRequestNotFound
	}
	if req.Status != from {
		return ErrStatusConflict
	}
	req.Status = to
	return nil
}

func (r *memoryRequestRepo) List(ctx context.Context, status *model.RequestStatus) ([]model.VerificationRequest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]model.VerificationRequest, 0, len(r.requests))
	for _, req := range r.requests {
		if status != nil && req.Status != *status {
			continue
		}
		out = append(out, *cloneRequest(req))
	}
	return out, nil
}

func cloneRequest(req *model.VerificationRequest) *model.VerificationRequest {
	c := *req
	if req.SimilarRequests != nil {
		c.SimilarRequests = append([]string(nil), req.SimilarRequests...)
	}
	return &c
}
