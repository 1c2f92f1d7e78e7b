package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"workreg/internal/auth"
	apperrors "workreg/internal/errors"
	"workreg/internal/model"
	"workreg/internal/repository"
	"workreg/internal/service"
)

// MockWorkerService is a mock implementation of service.WorkerService.
type MockWorkerService struct {
	mock.Mock
}

func (m *MockWorkerService) List(ctx context.Context, filters repository.WorkerFilters, page, pageSize int) (*service.WorkerPage, error) {
	args := m.Called(ctx, filters, page, pageSize)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.WorkerPage), args.Error(1)
}

func (m *MockWorkerService) Get(ctx context.Context, id uint) (*model.Worker, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Worker), args.Error(1)
}

func (m *MockWorkerService) Create(ctx context.Context, input service.CreateWorkerInput, actorID uint) (*model.Worker, error) {
	args := m.Called(ctx, input, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Worker), args.Error(1)
}

func (m *MockWorkerService) Update(ctx context.Context, id uint, input service.UpdateWorkerInput) (*model.Worker, error) {
	args := m.Called(ctx, id, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Worker), args.Error(1)
}

func (m *MockWorkerService) Delete(ctx context.Context, id uint, actorID uint) error {
	args := m.Called(ctx, id, actorID)
	return args.Error(0)
}

func (m *MockWorkerService) AuditTrail(ctx context.Context, id uint) ([]model.AuditLog, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.AuditLog), args.Error(1)
}

func setTestActor(c echo.Context, userID uint) {
	c.Set("user", &jwt.Token{Claims: &auth.Claims{UserID: userID}})
}

func newGetContext(e *echo.Echo, id string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodGet, "/api/workers/"+id, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/api/workers/:id")
	c.SetParamNames("id")
	c.SetParamValues(id)
	return c, rec
}

func TestWorkerHandler_GetWorker(t *testing.T) {
	e := echo.New()

	t.Run("existing worker", func(t *testing.T) {
		mockService := new(MockWorkerService)
		mockService.On("Get", mock.Anything, uint(1)).Return(&model.Worker{
			ID:        1,
			FirstName: "Сергей",
			LastName:  "Сергеев",
			Email:     "sergei@mail.ru",
			Position:  "dev",
		}, nil)

		h := NewWorkerHandler(mockService)
		c, rec := newGetContext(e, "1")

		require.NoError(t, h.GetWorker(c))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "sergei@mail.ru")
	})

	t.Run("malformed identifier", func(t *testing.T) {
		mockService := new(MockWorkerService)
		h := NewWorkerHandler(mockService)
		c, _ := newGetContext(e, "abc")

		err := h.GetWorker(c)
		require.Error(t, err)

		httpErr, ok := err.(*echo.HTTPError)
		require.True(t, ok)
		assert.Equal(t, http.StatusNotFound, httpErr.Code)
		resp, ok := httpErr.Message.(apperrors.ErrorResponse)
		require.True(t, ok)
		assert.Equal(t, "Некорректный идентификатор", resp.Error)
		assert.Equal(t, "INVALID_ID", resp.Code)
		mockService.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
	})

	t.Run("unknown identifier", func(t *testing.T) {
		mockService := new(MockWorkerService)
		mockService.On("Get", mock.Anything, uint(999)).Return(nil, apperrors.ErrWorkerNotFound)

		h := NewWorkerHandler(mockService)
		c, _ := newGetContext(e, "999")

		err := h.GetWorker(c)
		require.Error(t, err)

		httpErr, ok := err.(*echo.HTTPError)
		require.True(t, ok)
		assert.Equal(t, http.StatusNotFound, httpErr.Code)
		resp, ok := httpErr.Message.(apperrors.ErrorResponse)
		require.True(t, ok)
		assert.Equal(t, "Сотрудника с id=999 не существует.", resp.Error)
		assert.Equal(t, "WORKER_NOT_FOUND", resp.Code)
	})
}

func TestWorkerHandler_ListWorkers(t *testing.T) {
	e := echo.New()

	t.Run("filters passed through", func(t *testing.T) {
		mockService := new(MockWorkerService)
		mockService.On("List", mock.Anything, mock.MatchedBy(func(f repository.WorkerFilters) bool {
			return f.IsActive != nil && *f.IsActive && f.Position != nil && *f.Position == "dev"
		}), 2, 10).Return(&service.WorkerPage{
			Count:    1,
			Page:     2,
			PageSize: 10,
			Results:  []model.WorkerSummary{{ID: 1, FirstName: "Сергей", LastName: "Сергеев", Position: "dev", IsActive: true}},
		}, nil)

		h := NewWorkerHandler(mockService)
		req := httptest.NewRequest(http.MethodGet, "/api/workers?is_active=true&position=dev&page=2&page_size=10", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		require.NoError(t, h.ListWorkers(c))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"count":1`)
		mockService.AssertExpectations(t)
	})

	t.Run("invalid is_active filter", func(t *testing.T) {
		mockService := new(MockWorkerService)
		h := NewWorkerHandler(mockService)
		req := httptest.NewRequest(http.MethodGet, "/api/workers?is_active=maybe", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		err := h.ListWorkers(c)
		require.Error(t, err)
		httpErr, ok := err.(*echo.HTTPError)
		require.True(t, ok)
		assert.Equal(t, http.StatusBadRequest, httpErr.Code)
		mockService.AssertNotCalled(t, "List", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestWorkerHandler_WorkerAudit(t *testing.T) {
	e := echo.New()

	t.Run("entries returned oldest first", func(t *testing.T) {
		actor := uint(7)
		mockService := new(MockWorkerService)
		mockService.On("AuditTrail", mock.Anything, uint(1)).Return([]model.AuditLog{
			{ID: 1, WorkerID: 1, ActorID: &actor, Action: model.AuditActionCreate},
			{ID: 2, WorkerID: 1, ActorID: &actor, Action: model.AuditActionDelete},
		}, nil)

		h := NewWorkerHandler(mockService)
		req := httptest.NewRequest(http.MethodGet, "/api/workers/1/audit", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetPath("/api/workers/:id/audit")
		c.SetParamNames("id")
		c.SetParamValues("1")

		require.NoError(t, h.WorkerAudit(c))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"action":"create"`)
		assert.Contains(t, rec.Body.String(), `"action":"delete"`)
		mockService.AssertExpectations(t)
	})

	t.Run("malformed identifier", func(t *testing.T) {
		mockService := new(MockWorkerService)
		h := NewWorkerHandler(mockService)
		req := httptest.NewRequest(http.MethodGet, "/api/workers/abc/audit", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetPath("/api/workers/:id/audit")
		c.SetParamNames("id")
		c.SetParamValues("abc")

		err := h.WorkerAudit(c)
		require.Error(t, err)
		httpErr, ok := err.(*echo.HTTPError)
		require.True(t, ok)
		assert.Equal(t, http.StatusNotFound, httpErr.Code)
		mockService.AssertNotCalled(t, "AuditTrail", mock.Anything, mock.Anything)
	})
}

func TestWorkerHandler_UpdateWorker(t *testing.T) {
	e := echo.New()

	t.Run("field errors returned as map", func(t *testing.T) {
		fieldErrs := apperrors.NewValidationErrors()
		fieldErrs.Add("first_name", "This field may not be blank.")

		mockService := new(MockWorkerService)
		mockService.On("Update", mock.Anything, uint(1), mock.AnythingOfType("service.UpdateWorkerInput")).Return(nil, fieldErrs)

		h := NewWorkerHandler(mockService)
		req := httptest.NewRequest(http.MethodPatch, "/api/workers/1", strings.NewReader(`{"first_name": ""}`))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetPath("/api/workers/:id")
		c.SetParamNames("id")
		c.SetParamValues("1")
		setTestActor(c, 7)

		require.NoError(t, h.UpdateWorker(c))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "This field may not be blank.")
	})
}
