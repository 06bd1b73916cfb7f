package task

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/kaveeshanethruwan/taskhive/internal/application/ports"
	"github.com/kaveeshanethruwan/taskhive/internal/domain"
)

// RowError reports one rejected CSV row. Row numbers are 1-based file
// positions, so the first data row is 2 (row 1 is the header).
type RowError struct {
	Row    int      `json:"row"`
	Errors []string `json:"errors"`
}

type ImportResult struct {
	TotalRows    int        `json:"total_rows"`
	SuccessCount int        `json:"success_count"`
	FailureCount int        `json:"failure_count"`
	Errors       []RowError `json:"errors,omitempty"`
	ArchiveURL   string     `json:"archive_url,omitempty"`
}

// CSVImporter archives the raw upload and imports its rows as tasks.
// Expected header: title,description,status,due_date. A bad row is
// recorded and skipped; it never aborts the batch.
type CSVImporter struct {
	tasks   ports.TaskStore
	archive ports.FileStore
	log     zerolog.Logger
}

func NewCSVImporter(tasks ports.TaskStore, archive ports.FileStore, log zerolog.Logger) *CSVImporter {
	return &CSVImporter{tasks: tasks, archive: archive, log: log}
}

func (imp *CSVImporter) Execute(ctx context.Context, userID int64, filename string, data []byte) (*ImportResult, error) {
	key := fmt.Sprintf("tasks-csv/%d/%s-%s", userID, uuid.NewString(), filename)
	archiveURL, err := imp.archive.Put(ctx, key, data, "text/csv")
	if err != nil {
		return nil, fmt.Errorf("archive csv: %w", err)
	}
	imp.log.Info().
		Int64("user_id", userID).
		Str("key", key).
		Int("size", len(data)).
		Msg("csv archived")

	result := &ImportResult{ArchiveURL: archiveURL}
	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.TrimSpace(strings.ToLower(name))] = i
	}

	rowNum := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		rowNum++
		if err != nil {
			result.TotalRows++
			result.FailureCount++
			result.Errors = append(result.Errors, RowError{Row: rowNum, Errors: []string{err.Error()}})
			continue
		}
		result.TotalRows++

		t, rowErrs := parseRow(record, cols, userID)
		if len(rowErrs) > 0 {
			result.FailureCount++
			result.Errors = append(result.Errors, RowError{Row: rowNum, Errors: rowErrs})
			continue
		}
		if err := imp.tasks.Create(ctx, t); err != nil {
			result.FailureCount++
			result.Errors = append(result.Errors, RowError{Row: rowNum, Errors: []string{err.Error()}})
			continue
		}
		result.SuccessCount++
	}

	imp.log.Info().
		Int64("user_id", userID).
		Int("total", result.TotalRows).
		Int("ok", result.SuccessCount).
		Int("failed", result.FailureCount).
		Msg("csv processed")
	return result, nil
}

func parseRow(record []string, cols map[string]int, userID int64) (*domain.Task, []string) {
	field := func(name string) string {
		i, ok := cols[name]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	var errs []string
	title := field("title")
	if title == "" {
		errs = append(errs, "title is required")
	}
	status := field("status")
	if status == "" {
		status = string(domain.TaskPending)
	} else if !domain.ValidTaskStatus(status) {
		errs = append(errs, fmt.Sprintf("invalid status %q", status))
	}
	var dueDate *time.Time
	if raw := field("due_date"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			errs = append(errs, fmt.Sprintf("invalid due_date %q", raw))
		} else {
			dueDate = &parsed
		}
	}
	if len(errs) > 0 {
		return nil, errs
	}
	return &domain.Task{
		UserID:      userID,
		Title:       title,
		Description: field("description"),
		Status:      domain.TaskStatus(status),
		DueDate:     dueDate,
	}, nil
}
