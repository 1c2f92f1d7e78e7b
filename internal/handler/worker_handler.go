package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"workreg/internal/auth"
	apperrors "workreg/internal/errors"
	"workreg/internal/repository"
	"workreg/internal/service"
)

// WorkerHandler handles worker registry endpoints.
type WorkerHandler struct {
	workerService service.WorkerService
}

// NewWorkerHandler creates a new worker handler.
func NewWorkerHandler(workerService service.WorkerService) *WorkerHandler {
	return &WorkerHandler{workerService: workerService}
}

// actorID extracts the authenticated actor from the echo-jwt token.
func actorID(c echo.Context) (uint, error) {
	token, ok := c.Get("user").(*jwt.Token)
	if !ok {
		return 0, echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
	}
	claims, ok := token.Claims.(*auth.Claims)
	if !ok {
		return 0, echo.NewHTTPError(http.StatusUnauthorized, "invalid token claims")
	}
	return claims.UserID, nil
}

// workerID parses the path identifier. Malformed identifiers are rejected
// before reaching the store, with a message distinct from not-found.
func workerID(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		httpErr := apperrors.MapErrorToHTTP(apperrors.ErrInvalidWorkerID)
		return 0, echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return uint(id), nil
}

func workerNotFound(id uint) error {
	return echo.NewHTTPError(http.StatusNotFound, apperrors.ErrorResponse{
		Error: fmt.Sprintf("Сотрудника с id=%d не существует.", id),
		Code:  "WORKER_NOT_FOUND",
	})
}

// ListWorkers godoc
// @Summary List workers
// @Tags workers
// @Produce json
// @Param is_active query bool false "Filter by activity status"
// @Param position query string false "Filter by position"
// @Param page query int false "Page number"
// @Param page_size query int false "Page size (max 100)"
// @Success 200 {object} service.WorkerPage
// @Failure 400 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /workers [get]
func (h *WorkerHandler) ListWorkers(c echo.Context) error {
	var filters repository.WorkerFilters
	if v := c.QueryParam("is_active"); v != "" {
		active, err := strconv.ParseBool(v)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, apperrors.ErrorResponse{
				Error: "invalid is_active filter",
				Code:  "INVALID_FILTER",
			})
		}
		filters.IsActive = &active
	}
	if v := c.QueryParam("position"); v != "" {
		filters.Position = &v
	}
	page, _ := strconv.Atoi(c.QueryParam("page"))
	pageSize, _ := strconv.Atoi(c.QueryParam("page_size"))

	result, err := h.workerService.List(c.Request().Context(), filters, page, pageSize)
	if err != nil {
		httpErr := apperrors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, result)
}

// GetWorker godoc
// @Summary Get worker by id
// @Tags workers
// @Produce json
// @Param id path int true "Worker ID"
// @Success 200 {object} model.Worker
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /workers/{id} [get]
func (h *WorkerHandler) GetWorker(c echo.Context) error {
	id, err := workerID(c)
	if err != nil {
		return err
	}
	worker, err := h.workerService.Get(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, apperrors.ErrWorkerNotFound) {
			return workerNotFound(id)
		}
		httpErr := apperrors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, worker)
}

// CreateWorker godoc
// @Summary Create worker
// @Tags workers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param worker body service.CreateWorkerInput true "Worker payload"
// @Success 201 {object} model.Worker
// @Failure 400 {object} map[string][]string
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /workers [post]
func (h *WorkerHandler) CreateWorker(c echo.Context) error {
	actor, err := actorID(c)
	if err != nil {
		return err
	}

	var input service.CreateWorkerInput
	if err := c.Bind(&input); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	worker, err := h.workerService.Create(c.Request().Context(), input, actor)
	if err != nil {
		var fieldErrs *apperrors.ValidationErrors
		if errors.As(err, &fieldErrs) {
			return c.JSON(http.StatusBadRequest, fieldErrs.Fields)
		}
		httpErr := apperrors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusCreated, worker)
}

// UpdateWorker godoc
// @Summary Update worker
// @Tags workers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Worker ID"
// @Param worker body service.UpdateWorkerInput true "Partial worker payload"
// @Success 200 {object} model.Worker
// @Failure 400 {object} map[string][]string
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /workers/{id} [patch]
func (h *WorkerHandler) UpdateWorker(c echo.Context) error {
	if _, err := actorID(c); err != nil {
		return err
	}
	id, err := workerID(c)
	if err != nil {
		return err
	}

	var input service.UpdateWorkerInput
	if err := c.Bind(&input); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	worker, err := h.workerService.Update(c.Request().Context(), id, input)
	if err != nil {
		if errors.Is(err, apperrors.ErrWorkerNotFound) {
			return workerNotFound(id)
		}
		var fieldErrs *apperrors.ValidationErrors
		if errors.As(err, &fieldErrs) {
			return c.JSON(http.StatusBadRequest, fieldErrs.Fields)
		}
		httpErr := apperrors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, worker)
}

// DeleteWorker godoc
// @Summary Delete worker
// @Tags workers
// @Security BearerAuth
// @Param id path int true "Worker ID"
// @Success 204
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /workers/{id} [delete]
func (h *WorkerHandler) DeleteWorker(c echo.Context) error {
	actor, err := actorID(c)
	if err != nil {
		return err
	}
	id, err := workerID(c)
	if err != nil {
		return err
	}

	if err := h.workerService.Delete(c.Request().Context(), id, actor); err != nil {
		if errors.Is(err, apperrors.ErrWorkerNotFound) {
			return workerNotFound(id)
		}
		httpErr := apperrors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.NoContent(http.StatusNoContent)
}

// WorkerAudit godoc
// @Summary Audit trail for a worker
// @Tags workers
// @Produce json
// @Security BearerAuth
// @Param id path int true "Worker ID"
// @Success 200 {array} model.AuditLog
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /workers/{id}/audit [get]
func (h *WorkerHandler) WorkerAudit(c echo.Context) error {
	id, err := workerID(c)
	if err != nil {
		return err
	}
	entries, err := h.workerService.AuditTrail(c.Request().Context(), id)
	if err != nil {
		httpErr := apperrors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, entries)
}
