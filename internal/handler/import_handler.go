package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"workreg/internal/auth"
	apperrors "workreg/internal/errors"
	"workreg/internal/service"
)

// maxImportFileSize caps uploaded spreadsheets at 5 MB.
const maxImportFileSize = 5 * 1024 * 1024

// ImportHandler handles the bulk worker import endpoint.
type ImportHandler struct {
	importService service.ImportService
}

// NewImportHandler creates a new import handler.
func NewImportHandler(importService service.ImportService) *ImportHandler {
	return &ImportHandler{importService: importService}
}

// ImportWorkers godoc
// @Summary Import workers from an .xlsx file
// @Tags workers
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Spreadsheet (.xlsx, max 5MB)"
// @Success 200 {object} service.ImportResult
// @Failure 400 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /workers/import [post]
func (h *ImportHandler) ImportWorkers(c echo.Context) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, apperrors.ErrorResponse{
			Error: "file is required",
			Code:  "FILE_REQUIRED",
		})
	}
	if !strings.HasSuffix(strings.ToLower(fileHeader.Filename), ".xlsx") {
		return echo.NewHTTPError(http.StatusBadRequest, apperrors.ErrorResponse{
			Error: "Допустимый формат файла .xlsx",
			Code:  "INVALID_FILE_TYPE",
		})
	}
	if fileHeader.Size > maxImportFileSize {
		return echo.NewHTTPError(http.StatusBadRequest, apperrors.ErrorResponse{
			Error: "Максимальный допустимый размер файла 5MB",
			Code:  "FILE_TOO_LARGE",
		})
	}

	src, err := fileHeader.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, apperrors.ErrorResponse{
			Error: "Не удалось прочитать файл",
			Code:  "UNREADABLE_FILE",
		})
	}
	defer src.Close()

	// Anonymous imports are allowed; the creator is left unset.
	var actor *uint
	if claims := auth.ClaimsFromContext(c); claims != nil {
		actor = &claims.UserID
	}

	result, err := h.importService.ImportWorkers(c.Request().Context(), src, actor)
	if err != nil {
		httpErr := apperrors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, result)
}
