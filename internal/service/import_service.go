package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"sort"
	"strings"

	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"

	apperrors "workreg/internal/errors"
	"workreg/internal/model"
	"workreg/internal/repository"
)

// requiredColumns must all appear in the header row of an import file.
var requiredColumns = []string{"email", "first_name", "last_name", "position"}

// Row-level import error messages.
const (
	msgDuplicateInFile = "Дубликат email в файле"
	msgAlreadyInStore  = "Email уже существует в базе"
	msgMissingColumns  = "Отсутствуют обязательные столбцы: "
)

// RowError is one failed spreadsheet row in an import result. Row numbers are
// physical spreadsheet positions, 1-indexed with the header as row 1. The
// missing-columns error carries no row number.
type RowError struct {
	Row    int         `json:"row,omitempty"`
	Detail interface{} `json:"detail"`
}

// ImportResult accumulates the outcome of one bulk import. Total counts data
// rows seen, header excluded, regardless of how many succeeded.
type ImportResult struct {
	Added  int        `json:"added"`
	Errors []RowError `json:"errors"`
	Total  int        `json:"total"`
}

// ImportService ingests spreadsheet rows into the worker registry.
type ImportService interface {
	ImportWorkers(ctx context.Context, file io.Reader, actorID *uint) (*ImportResult, error)
}

type importService struct {
	workerRepo repository.WorkerRepository
	auditRepo  repository.AuditLogRepository
}

// NewImportService builds an ImportService with worker and audit repositories.
func NewImportService(workerRepo repository.WorkerRepository, auditRepo repository.AuditLogRepository) ImportService {
	return &importService{workerRepo: workerRepo, auditRepo: auditRepo}
}

// ImportWorkers streams rows from an .xlsx file, validating and persisting
// each one independently. A failed row never aborts the batch; partial
// success is the normal outcome. The actor is attributed as creator of every
// added record, or left empty for anonymous imports.
func (s *importService) ImportWorkers(ctx context.Context, file io.Reader, actorID *uint) (*ImportResult, error) {
	workbook, err := excelize.OpenReader(file)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrUnreadableWorkbook, err)
	}
	defer workbook.Close()

	sheet := workbook.GetSheetName(workbook.GetActiveSheetIndex())
	rows, err := workbook.Rows(sheet)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrUnreadableWorkbook, err)
	}
	defer rows.Close()

	result := &ImportResult{Errors: []RowError{}}

	var headers []string
	// Emails already in the store, snapshotted once before any row is
	// processed. A concurrent insert can still win the race; the unique
	// index is the backstop and surfaces as a per-row error below.
	var existing map[string]struct{}
	seen := make(map[string]struct{})

	for rowIdx := 1; rows.Next(); rowIdx++ {
		cells, err := rows.Columns()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", apperrors.ErrUnreadableWorkbook, err)
		}

		if rowIdx == 1 {
			headers = normalizeHeaders(cells)
			if missing := missingColumns(headers); len(missing) > 0 {
				result.Errors = append(result.Errors, RowError{
					Detail: msgMissingColumns + strings.Join(missing, ", "),
				})
				return result, nil
			}
			existing, err = s.snapshotEmails(ctx)
			if err != nil {
				return nil, err
			}
			continue
		}

		result.Total++
		row := make(map[string]string, len(headers))
		for colIdx, value := range cells {
			if colIdx < len(headers) && headers[colIdx] != "" {
				row[headers[colIdx]] = value
			}
		}

		fields, fieldErrs := ValidateRow(row)
		if fieldErrs != nil {
			result.Errors = append(result.Errors, RowError{Row: rowIdx, Detail: fieldErrs.Fields})
			continue
		}

		email := strings.ToLower(fields.Email)
		if _, ok := seen[email]; ok {
			result.Errors = append(result.Errors, RowError{Row: rowIdx, Detail: msgDuplicateInFile})
			continue
		}
		if _, ok := existing[email]; ok {
			result.Errors = append(result.Errors, RowError{Row: rowIdx, Detail: msgAlreadyInStore})
			continue
		}

		worker := &model.Worker{
			FirstName:   fields.FirstName,
			MiddleName:  fields.MiddleName,
			LastName:    fields.LastName,
			Email:       fields.Email,
			Position:    fields.Position,
			IsActive:    fields.IsActive,
			CreatedByID: actorID,
		}
		// One transaction per row: a failed insert never rolls back
		// earlier rows.
		err = s.workerRepo.WithTransaction(ctx, func(ctx context.Context, txRepo repository.WorkerRepository) error {
			return txRepo.Create(ctx, worker)
		})
		if err != nil {
			detail := err.Error()
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				detail = msgAlreadyInStore
			}
			result.Errors = append(result.Errors, RowError{Row: rowIdx, Detail: detail})
			continue
		}

		result.Added++
		seen[email] = struct{}{}
		s.recordAudit(ctx, worker.ID, actorID)
	}
	if err := rows.Error(); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrUnreadableWorkbook, err)
	}

	if headers == nil {
		// Sheet without even a header row.
		result.Errors = append(result.Errors, RowError{
			Detail: msgMissingColumns + strings.Join(requiredColumns, ", "),
		})
	}
	return result, nil
}

// snapshotEmails returns the lower-cased set of emails currently in the store.
func (s *importService) snapshotEmails(ctx context.Context) (map[string]struct{}, error) {
	emails, err := s.workerRepo.ListEmails(ctx)
	if err != nil {
		return nil, fmt.Errorf("snapshot emails: %w", err)
	}
	existing := make(map[string]struct{}, len(emails))
	for _, email := range emails {
		existing[strings.ToLower(email)] = struct{}{}
	}
	return existing, nil
}

func (s *importService) recordAudit(ctx context.Context, workerID uint, actorID *uint) {
	entry := &model.AuditLog{WorkerID: workerID, ActorID: actorID, Action: model.AuditActionCreate, Detail: "import"}
	if err := s.auditRepo.Create(ctx, entry); err != nil {
		log.Printf("audit log write failed for worker %d: %v", workerID, err)
	}
}

// normalizeHeaders trims header cells; blank headers become empty column
// names and their columns are ignored.
func normalizeHeaders(cells []string) []string {
	headers := make([]string, len(cells))
	for i, cell := range cells {
		headers[i] = strings.TrimSpace(cell)
	}
	return headers
}

// missingColumns returns the sorted required columns absent from the headers.
func missingColumns(headers []string) []string {
	present := make(map[string]struct{}, len(headers))
	for _, h := range headers {
		present[h] = struct{}{}
	}
	var missing []string
	for _, col := range requiredColumns {
		if _, ok := present[col]; !ok {
			missing = append(missing, col)
		}
	}
	sort.Strings(missing)
	return missing
}
