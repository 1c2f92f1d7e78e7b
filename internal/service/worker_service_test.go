package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	apperrors "workreg/internal/errors"
	"workreg/internal/model"
	"workreg/internal/repository"
)

// MockWorkerRepository is a mock implementation of WorkerRepository.
type MockWorkerRepository struct {
	mock.Mock
}

func (m *MockWorkerRepository) Create(ctx context.Context, worker *model.Worker) error {
	args := m.Called(ctx, worker)
	return args.Error(0)
}

func (m *MockWorkerRepository) Update(ctx context.Context, worker *model.Worker) error {
	args := m.Called(ctx, worker)
	return args.Error(0)
}

func (m *MockWorkerRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockWorkerRepository) FindByID(ctx context.Context, id uint) (*model.Worker, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Worker), args.Error(1)
}

func (m *MockWorkerRepository) FindByEmail(ctx context.Context, email string) (*model.Worker, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Worker), args.Error(1)
}

func (m *MockWorkerRepository) List(ctx context.Context, filters repository.WorkerFilters, offset, limit int) ([]model.Worker, int64, error) {
	args := m.Called(ctx, filters, offset, limit)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]model.Worker), args.Get(1).(int64), args.Error(2)
}

func (m *MockWorkerRepository) ListEmails(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

// WithTransaction runs fn against the mock itself so transactional inserts
// can be observed in tests.
func (m *MockWorkerRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context, repo repository.WorkerRepository) error) error {
	args := m.Called(ctx, fn)
	if args.Error(0) != nil {
		return args.Error(0)
	}
	return fn(ctx, m)
}

// MockAuditLogRepository is a mock implementation of AuditLogRepository.
type MockAuditLogRepository struct {
	mock.Mock
}

func (m *MockAuditLogRepository) Create(ctx context.Context, entry *model.AuditLog) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockAuditLogRepository) ListByWorker(ctx context.Context, workerID uint) ([]model.AuditLog, error) {
	args := m.Called(ctx, workerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.AuditLog), args.Error(1)
}

func newWorkerServiceForTest(repo *MockWorkerRepository, auditRepo *MockAuditLogRepository) WorkerService {
	// nil cache client behaves like a permanent miss
	return NewWorkerService(repo, auditRepo, nil)
}

func TestWorkerService_Create(t *testing.T) {
	boolPtr := func(v bool) *bool { return &v }

	tests := []struct {
		name         string
		input        CreateWorkerInput
		setupMock    func(*MockWorkerRepository, *MockAuditLogRepository)
		expectFields []string
		expectWorker func(*testing.T, *model.Worker)
	}{
		{
			name: "successful create",
			input: CreateWorkerInput{
				FirstName: "Сергей", MiddleName: "Сергеевич", LastName: "Сергеев",
				Email: "sergei@mail.ru", Position: "dev",
			},
			setupMock: func(mRepo *MockWorkerRepository, mAudit *MockAuditLogRepository) {
				mRepo.On("FindByEmail", mock.Anything, "sergei@mail.ru").Return(nil, gorm.ErrRecordNotFound)
				mRepo.On("WithTransaction", mock.Anything, mock.Anything).Return(nil)
				mRepo.On("Create", mock.Anything, mock.AnythingOfType("*model.Worker")).Run(func(args mock.Arguments) {
					args.Get(1).(*model.Worker).ID = 2
				}).Return(nil)
				mAudit.On("Create", mock.Anything, mock.AnythingOfType("*model.AuditLog")).Return(nil)
			},
			expectWorker: func(t *testing.T, w *model.Worker) {
				assert.Equal(t, uint(2), w.ID)
				assert.True(t, w.IsActive)
				if assert.NotNil(t, w.CreatedByID) {
					assert.Equal(t, uint(1), *w.CreatedByID)
				}
			},
		},
		{
			name: "inactive on request",
			input: CreateWorkerInput{
				FirstName: "Егор", LastName: "Егоров",
				Email: "egor@mail.ru", Position: "qa", IsActive: boolPtr(false),
			},
			setupMock: func(mRepo *MockWorkerRepository, mAudit *MockAuditLogRepository) {
				mRepo.On("FindByEmail", mock.Anything, "egor@mail.ru").Return(nil, gorm.ErrRecordNotFound)
				mRepo.On("WithTransaction", mock.Anything, mock.Anything).Return(nil)
				mRepo.On("Create", mock.Anything, mock.AnythingOfType("*model.Worker")).Return(nil)
				mAudit.On("Create", mock.Anything, mock.AnythingOfType("*model.AuditLog")).Return(nil)
			},
			expectWorker: func(t *testing.T, w *model.Worker) {
				assert.False(t, w.IsActive)
			},
		},
		{
			name:         "all required fields blank",
			input:        CreateWorkerInput{},
			setupMock:    func(*MockWorkerRepository, *MockAuditLogRepository) {},
			expectFields: []string{"first_name", "last_name", "email", "position"},
		},
		{
			name: "email already exists",
			input: CreateWorkerInput{
				FirstName: "Егор", LastName: "Егоров",
				Email: "sergei@mail.ru", Position: "qa",
			},
			setupMock: func(mRepo *MockWorkerRepository, mAudit *MockAuditLogRepository) {
				mRepo.On("FindByEmail", mock.Anything, "sergei@mail.ru").Return(&model.Worker{Email: "sergei@mail.ru"}, nil)
			},
			expectFields: []string{"email"},
		},
		{
			name: "duplicate race at insert",
			input: CreateWorkerInput{
				FirstName: "Егор", LastName: "Егоров",
				Email: "egor@mail.ru", Position: "qa",
			},
			setupMock: func(mRepo *MockWorkerRepository, mAudit *MockAuditLogRepository) {
				mRepo.On("FindByEmail", mock.Anything, "egor@mail.ru").Return(nil, gorm.ErrRecordNotFound)
				mRepo.On("WithTransaction", mock.Anything, mock.Anything).Return(gorm.ErrDuplicatedKey)
			},
			expectFields: []string{"email"},
		},
		{
			name: "invalid email",
			input: CreateWorkerInput{
				FirstName: "Егор", LastName: "Егоров",
				Email: "sergei", Position: "qa",
			},
			setupMock:    func(*MockWorkerRepository, *MockAuditLogRepository) {},
			expectFields: []string{"email"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockWorkerRepository)
			mockAudit := new(MockAuditLogRepository)
			tt.setupMock(mockRepo, mockAudit)

			svc := newWorkerServiceForTest(mockRepo, mockAudit)
			worker, err := svc.Create(context.Background(), tt.input, 1)

			if len(tt.expectFields) > 0 {
				assert.Nil(t, worker)
				var fieldErrs *apperrors.ValidationErrors
				if assert.ErrorAs(t, err, &fieldErrs) {
					assert.Len(t, fieldErrs.Fields, len(tt.expectFields))
					for _, field := range tt.expectFields {
						assert.Contains(t, fieldErrs.Fields, field)
					}
				}
			} else {
				assert.NoError(t, err)
				if assert.NotNil(t, worker) {
					tt.expectWorker(t, worker)
				}
			}

			mockRepo.AssertExpectations(t)
			mockAudit.AssertExpectations(t)
		})
	}
}

func TestWorkerService_Get(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		mockRepo := new(MockWorkerRepository)
		mockRepo.On("FindByID", mock.Anything, uint(1)).Return(&model.Worker{ID: 1, Email: "sergei@mail.ru"}, nil)

		svc := newWorkerServiceForTest(mockRepo, new(MockAuditLogRepository))
		worker, err := svc.Get(context.Background(), 1)

		assert.NoError(t, err)
		assert.Equal(t, uint(1), worker.ID)
		mockRepo.AssertExpectations(t)
	})

	t.Run("not found", func(t *testing.T) {
		mockRepo := new(MockWorkerRepository)
		mockRepo.On("FindByID", mock.Anything, uint(999)).Return(nil, gorm.ErrRecordNotFound)

		svc := newWorkerServiceForTest(mockRepo, new(MockAuditLogRepository))
		worker, err := svc.Get(context.Background(), 999)

		assert.Nil(t, worker)
		assert.ErrorIs(t, err, apperrors.ErrWorkerNotFound)
		mockRepo.AssertExpectations(t)
	})
}

func TestWorkerService_Update(t *testing.T) {
	strPtr := func(v string) *string { return &v }
	boolPtr := func(v bool) *bool { return &v }

	t.Run("partial update keeps other fields", func(t *testing.T) {
		existing := &model.Worker{
			ID: 1, FirstName: "Сергей", LastName: "Сергеев",
			Email: "sergei@mail.ru", Position: "dev", IsActive: true,
		}
		mockRepo := new(MockWorkerRepository)
		mockRepo.On("FindByID", mock.Anything, uint(1)).Return(existing, nil)
		mockRepo.On("WithTransaction", mock.Anything, mock.Anything).Return(nil)
		mockRepo.On("Update", mock.Anything, mock.AnythingOfType("*model.Worker")).Return(nil)

		svc := newWorkerServiceForTest(mockRepo, new(MockAuditLogRepository))
		worker, err := svc.Update(context.Background(), 1, UpdateWorkerInput{
			Position: strPtr("lead"),
			IsActive: boolPtr(false),
		})

		assert.NoError(t, err)
		assert.Equal(t, "lead", worker.Position)
		assert.False(t, worker.IsActive)
		assert.Equal(t, "Сергей", worker.FirstName)
		assert.Equal(t, "sergei@mail.ru", worker.Email)
		mockRepo.AssertExpectations(t)
	})

	t.Run("blank provided field rejected", func(t *testing.T) {
		mockRepo := new(MockWorkerRepository)
		mockRepo.On("FindByID", mock.Anything, uint(1)).Return(&model.Worker{ID: 1}, nil)

		svc := newWorkerServiceForTest(mockRepo, new(MockAuditLogRepository))
		worker, err := svc.Update(context.Background(), 1, UpdateWorkerInput{FirstName: strPtr("  ")})

		assert.Nil(t, worker)
		var fieldErrs *apperrors.ValidationErrors
		if assert.ErrorAs(t, err, &fieldErrs) {
			assert.Contains(t, fieldErrs.Fields, "first_name")
		}
		mockRepo.AssertExpectations(t)
	})

	t.Run("not found", func(t *testing.T) {
		mockRepo := new(MockWorkerRepository)
		mockRepo.On("FindByID", mock.Anything, uint(999)).Return(nil, gorm.ErrRecordNotFound)

		svc := newWorkerServiceForTest(mockRepo, new(MockAuditLogRepository))
		_, err := svc.Update(context.Background(), 999, UpdateWorkerInput{})

		assert.ErrorIs(t, err, apperrors.ErrWorkerNotFound)
		mockRepo.AssertExpectations(t)
	})
}

func TestWorkerService_Delete(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		mockRepo := new(MockWorkerRepository)
		mockAudit := new(MockAuditLogRepository)
		mockRepo.On("WithTransaction", mock.Anything, mock.Anything).Return(nil)
		mockRepo.On("Delete", mock.Anything, uint(1)).Return(nil)
		mockAudit.On("Create", mock.Anything, mock.AnythingOfType("*model.AuditLog")).Return(nil)

		svc := newWorkerServiceForTest(mockRepo, mockAudit)
		assert.NoError(t, svc.Delete(context.Background(), 1, 1))
		mockRepo.AssertExpectations(t)
		mockAudit.AssertExpectations(t)
	})

	t.Run("not found", func(t *testing.T) {
		mockRepo := new(MockWorkerRepository)
		mockRepo.On("WithTransaction", mock.Anything, mock.Anything).Return(nil)
		mockRepo.On("Delete", mock.Anything, uint(999)).Return(gorm.ErrRecordNotFound)

		svc := newWorkerServiceForTest(mockRepo, new(MockAuditLogRepository))
		err := svc.Delete(context.Background(), 999, 1)

		assert.ErrorIs(t, err, apperrors.ErrWorkerNotFound)
		mockRepo.AssertExpectations(t)
	})
}

func TestWorkerService_List(t *testing.T) {
	mockRepo := new(MockWorkerRepository)
	active := true
	filters := repository.WorkerFilters{IsActive: &active}
	workers := []model.Worker{
		{ID: 1, FirstName: "Сергей", LastName: "Сергеев", Email: "sergei@mail.ru", Position: "dev", IsActive: true},
		{ID: 2, FirstName: "Егор", LastName: "Егоров", Email: "egor@mail.ru", Position: "qa", IsActive: true},
	}
	// page defaults applied before the repository call
	mockRepo.On("List", mock.Anything, filters, 0, DefaultPageSize).Return(workers, int64(5), nil)

	svc := newWorkerServiceForTest(mockRepo, new(MockAuditLogRepository))
	page, err := svc.List(context.Background(), filters, 0, 0)

	assert.NoError(t, err)
	assert.Equal(t, int64(5), page.Count)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, DefaultPageSize, page.PageSize)
	if assert.Len(t, page.Results, 2) {
		// summary view omits email
		assert.Equal(t, uint(1), page.Results[0].ID)
		assert.Equal(t, "Сергеев", page.Results[0].LastName)
	}
	mockRepo.AssertExpectations(t)
}
