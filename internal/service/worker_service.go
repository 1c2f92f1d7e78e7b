package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"gorm.io/gorm"

	"workreg/internal/cache"
	apperrors "workreg/internal/errors"
	"workreg/internal/model"
	"workreg/internal/repository"
)

const workerCacheTTL = 5 * time.Minute

// Pagination bounds for worker listings.
const (
	DefaultPageSize = 3
	MaxPageSize     = 100
)

// CreateWorkerInput is the payload for creating a worker. Email is required.
type CreateWorkerInput struct {
	FirstName  string `json:"first_name"`
	MiddleName string `json:"middle_name"`
	LastName   string `json:"last_name"`
	Email      string `json:"email"`
	Position   string `json:"position"`
	IsActive   *bool  `json:"is_active"`
}

// UpdateWorkerInput is the payload for a partial update. Nil fields are left
// unchanged; email is not updatable.
type UpdateWorkerInput struct {
	FirstName  *string `json:"first_name"`
	MiddleName *string `json:"middle_name"`
	LastName   *string `json:"last_name"`
	Position   *string `json:"position"`
	IsActive   *bool   `json:"is_active"`
}

// WorkerPage is one page of worker summaries.
type WorkerPage struct {
	Count    int64                 `json:"count"`
	Page     int                   `json:"page"`
	PageSize int                   `json:"page_size"`
	Results  []model.WorkerSummary `json:"results"`
}

// WorkerService exposes registry operations over the worker store.
type WorkerService interface {
	List(ctx context.Context, filters repository.WorkerFilters, page, pageSize int) (*WorkerPage, error)
	Get(ctx context.Context, id uint) (*model.Worker, error)
	Create(ctx context.Context, input CreateWorkerInput, actorID uint) (*model.Worker, error)
	Update(ctx context.Context, id uint, input UpdateWorkerInput) (*model.Worker, error)
	Delete(ctx context.Context, id uint, actorID uint) error
	AuditTrail(ctx context.Context, id uint) ([]model.AuditLog, error)
}

type workerService struct {
	repo      repository.WorkerRepository
	auditRepo repository.AuditLogRepository
	cache     *cache.Client
}

// NewWorkerService builds a WorkerService with repositories and cache.
func NewWorkerService(repo repository.WorkerRepository, auditRepo repository.AuditLogRepository, cache *cache.Client) WorkerService {
	return &workerService{repo: repo, auditRepo: auditRepo, cache: cache}
}

func (s *workerService) cacheKey(id uint) string {
	return fmt.Sprintf("worker:%d", id)
}

// List returns one page of worker summaries matching the filters.
func (s *workerService) List(ctx context.Context, filters repository.WorkerFilters, page, pageSize int) (*WorkerPage, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}

	workers, total, err := s.repo.List(ctx, filters, (page-1)*pageSize, pageSize)
	if err != nil {
		return nil, err
	}

	results := make([]model.WorkerSummary, 0, len(workers))
	for i := range workers {
		results = append(results, workers[i].Summary())
	}
	return &WorkerPage{Count: total, Page: page, PageSize: pageSize, Results: results}, nil
}

// Get returns one worker by id, cache-aside.
func (s *workerService) Get(ctx context.Context, id uint) (*model.Worker, error) {
	if data, _ := s.cache.Get(ctx, s.cacheKey(id)); data != nil {
		var cached model.Worker
		if err := json.Unmarshal(data, &cached); err == nil {
			return &cached, nil
		}
	}

	worker, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrWorkerNotFound
		}
		return nil, err
	}

	if payload, err := json.Marshal(worker); err == nil {
		_ = s.cache.Set(ctx, s.cacheKey(id), payload, workerCacheTTL)
	}
	return worker, nil
}

// Create validates the payload and persists a new worker attributed to the actor.
func (s *workerService) Create(ctx context.Context, input CreateWorkerInput, actorID uint) (*model.Worker, error) {
	errs := apperrors.NewValidationErrors()
	checkRequiredText(errs, "first_name", input.FirstName, maxNameLen)
	checkOptionalText(errs, "middle_name", input.MiddleName, maxNameLen)
	checkRequiredText(errs, "last_name", input.LastName, maxNameLen)
	checkEmail(errs, input.Email)
	checkRequiredText(errs, "position", input.Position, maxPositionLen)
	if !errs.Empty() {
		return nil, errs
	}

	email := strings.TrimSpace(input.Email)
	if _, err := s.repo.FindByEmail(ctx, email); err == nil {
		errs.Add("email", msgEmailTaken)
		return nil, errs
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("check email: %w", err)
	}

	worker := &model.Worker{
		FirstName:   strings.TrimSpace(input.FirstName),
		MiddleName:  strings.TrimSpace(input.MiddleName),
		LastName:    strings.TrimSpace(input.LastName),
		Email:       email,
		Position:    strings.TrimSpace(input.Position),
		IsActive:    true,
		CreatedByID: &actorID,
	}
	if input.IsActive != nil {
		worker.IsActive = *input.IsActive
	}

	err := s.repo.WithTransaction(ctx, func(ctx context.Context, txRepo repository.WorkerRepository) error {
		return txRepo.Create(ctx, worker)
	})
	if err != nil {
		// Unique index may still reject a racing duplicate that passed
		// the precheck.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			errs.Add("email", msgEmailTaken)
			return nil, errs
		}
		return nil, fmt.Errorf("create worker: %w", err)
	}

	s.recordAudit(ctx, worker.ID, &actorID, model.AuditActionCreate)
	log.Printf("worker created: id=%d name=%s %s by=%d", worker.ID, worker.LastName, worker.FirstName, actorID)
	return worker, nil
}

// Update applies a partial update to an existing worker.
func (s *workerService) Update(ctx context.Context, id uint, input UpdateWorkerInput) (*model.Worker, error) {
	worker, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrWorkerNotFound
		}
		return nil, err
	}

	errs := apperrors.NewValidationErrors()
	if input.FirstName != nil {
		checkRequiredText(errs, "first_name", *input.FirstName, maxNameLen)
	}
	if input.MiddleName != nil {
		checkOptionalText(errs, "middle_name", *input.MiddleName, maxNameLen)
	}
	if input.LastName != nil {
		checkRequiredText(errs, "last_name", *input.LastName, maxNameLen)
	}
	if input.Position != nil {
		checkRequiredText(errs, "position", *input.Position, maxPositionLen)
	}
	if !errs.Empty() {
		return nil, errs
	}

	if input.FirstName != nil {
		worker.FirstName = strings.TrimSpace(*input.FirstName)
	}
	if input.MiddleName != nil {
		worker.MiddleName = strings.TrimSpace(*input.MiddleName)
	}
	if input.LastName != nil {
		worker.LastName = strings.TrimSpace(*input.LastName)
	}
	if input.Position != nil {
		worker.Position = strings.TrimSpace(*input.Position)
	}
	if input.IsActive != nil {
		worker.IsActive = *input.IsActive
	}

	err = s.repo.WithTransaction(ctx, func(ctx context.Context, txRepo repository.WorkerRepository) error {
		return txRepo.Update(ctx, worker)
	})
	if err != nil {
		return nil, fmt.Errorf("update worker: %w", err)
	}

	_ = s.cache.Delete(ctx, s.cacheKey(id))
	return worker, nil
}

// Delete removes a worker record. Hard delete.
func (s *workerService) Delete(ctx context.Context, id uint, actorID uint) error {
	err := s.repo.WithTransaction(ctx, func(ctx context.Context, txRepo repository.WorkerRepository) error {
		return txRepo.Delete(ctx, id)
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrWorkerNotFound
		}
		return fmt.Errorf("delete worker: %w", err)
	}

	_ = s.cache.Delete(ctx, s.cacheKey(id))
	s.recordAudit(ctx, id, &actorID, model.AuditActionDelete)
	return nil
}

// AuditTrail returns the recorded mutations of a worker, oldest first. The
// trail survives the worker's deletion, so no existence check is made.
func (s *workerService) AuditTrail(ctx context.Context, id uint) ([]model.AuditLog, error) {
	return s.auditRepo.ListByWorker(ctx, id)
}

func (s *workerService) recordAudit(ctx context.Context, workerID uint, actorID *uint, action string) {
	entry := &model.AuditLog{WorkerID: workerID, ActorID: actorID, Action: action}
	if err := s.auditRepo.Create(ctx, entry); err != nil {
		log.Printf("audit log write failed for worker %d: %v", workerID, err)
	}
}
