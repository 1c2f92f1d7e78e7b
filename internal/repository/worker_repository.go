package repository

import (
	"context"

	"gorm.io/gorm"

	"workreg/internal/model"
)

// WorkerFilters narrows worker listings. Nil fields are ignored.
type WorkerFilters struct {
	IsActive *bool
	Position *string
}

// WorkerRepository defines worker persistence operations.
type WorkerRepository interface {
	Create(ctx context.Context, worker *model.Worker) error
	Update(ctx context.Context, worker *model.Worker) error
	Delete(ctx context.Context, id uint) error
	FindByID(ctx context.Context, id uint) (*model.Worker, error)
	FindByEmail(ctx context.Context, email string) (*model.Worker, error)
	List(ctx context.Context, filters WorkerFilters, offset, limit int) ([]model.Worker, int64, error)
	ListEmails(ctx context.Context) ([]string, error)
	// WithTransaction executes fn against a repository bound to a single
	// database transaction.
	WithTransaction(ctx context.Context, fn func(ctx context.Context, repo WorkerRepository) error) error
}

type workerRepository struct {
	db *gorm.DB
}

// NewWorkerRepository creates a new worker repository.
func NewWorkerRepository(db *gorm.DB) WorkerRepository {
	return &workerRepository{db: db}
}

// Create creates a new worker record.
func (r *workerRepository) Create(ctx context.Context, worker *model.Worker) error {
	return r.db.WithContext(ctx).Create(worker).Error
}

// Update updates an existing worker record.
func (r *workerRepository) Update(ctx context.Context, worker *model.Worker) error {
	return r.db.WithContext(ctx).Save(worker).Error
}

// Delete removes a worker record. Returns gorm.ErrRecordNotFound when no row matched.
func (r *workerRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&model.Worker{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// FindByID finds a worker by ID.
func (r *workerRepository) FindByID(ctx context.Context, id uint) (*model.Worker, error) {
	var worker model.Worker
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&worker).Error; err != nil {
		return nil, err
	}
	return &worker, nil
}

// FindByEmail finds a worker by email.
func (r *workerRepository) FindByEmail(ctx context.Context, email string) (*model.Worker, error) {
	var worker model.Worker
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&worker).Error; err != nil {
		return nil, err
	}
	return &worker, nil
}

// List returns a page of workers matching the filters plus the total match count.
func (r *workerRepository) List(ctx context.Context, filters WorkerFilters, offset, limit int) ([]model.Worker, int64, error) {
	query := r.db.WithContext(ctx).Model(&model.Worker{})
	if filters.IsActive != nil {
		query = query.Where("is_active = ?", *filters.IsActive)
	}
	if filters.Position != nil {
		query = query.Where("position = ?", *filters.Position)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var workers []model.Worker
	if err := query.Order("id").Offset(offset).Limit(limit).Find(&workers).Error; err != nil {
		return nil, 0, err
	}
	return workers, total, nil
}

// ListEmails returns the emails of all workers currently in the store.
func (r *workerRepository) ListEmails(ctx context.Context) ([]string, error) {
	var emails []string
	if err := r.db.WithContext(ctx).Model(&model.Worker{}).Pluck("email", &emails).Error; err != nil {
		return nil, err
	}
	return emails, nil
}

// WithTransaction executes a function within a database transaction.
func (r *workerRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context, repo WorkerRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txRepo := &workerRepository{db: tx}
		return fn(ctx, txRepo)
	})
}
