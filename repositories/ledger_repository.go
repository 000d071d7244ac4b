package repositories

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/blogem/loan-approval/logging"
	"github.com/blogem/loan-approval/models"
)

// LedgerRepository interface defines the predictions ledger operations
type LedgerRepository interface {
	Append(ctx context.Context, record *models.LedgerRecord) error
	All(ctx context.Context) ([]models.LedgerRecord, error)
	ByUsername(ctx context.Context, username string) ([]models.LedgerRecord, error)
	Table(ctx context.Context) ([]string, [][]string, error)
	Open(ctx context.Context) (io.ReadCloser, error)
	Path() string
}

// csvLedgerRepository implements LedgerRepository over an append-only CSV file
type csvLedgerRepository struct {
	path string
	// mu serializes appends to the file, shared by every repository on the same path
	mu *sync.Mutex
}

// fileLocks holds one mutex per cleaned ledger path
var fileLocks sync.Map

func lockFor(path string) *sync.Mutex {
	mu, _ := fileLocks.LoadOrStore(filepath.Clean(path), &sync.Mutex{})
	return mu.(*sync.Mutex)
}

// NewLedgerRepository creates a ledger repository backed by the CSV file at path
func NewLedgerRepository(path string) LedgerRepository {
	return &csvLedgerRepository{path: path, mu: lockFor(path)}
}

// Path returns the location of the ledger file
func (r *csvLedgerRepository) Path() string {
	return r.path
}

// Append writes one record, creating the file with a header row on first write
func (r *csvLedgerRepository) Append(ctx context.Context, record *models.LedgerRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	line, err := encodeRows(record.Row())
	if err != nil {
		return fmt.Errorf("%w: failed to encode ledger record: %v", models.ErrStorage, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.ensureHeader(); err != nil {
		return err
	}

	f, err := os.OpenFile(r.path, os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("%w: failed to open ledger: %v", models.ErrStorage, err)
	}
	defer f.Close()

	// One write per record keeps each row a single append
	if _, err := f.Write(line); err != nil {
		return fmt.Errorf("%w: failed to append ledger record: %v", models.ErrStorage, err)
	}

	return nil
}

// ensureHeader creates the ledger with its header row if it does not exist yet.
// The header is written to a temporary file that is then linked into place, so
// no reader or writer ever sees the ledger without it.
func (r *csvLedgerRepository) ensureHeader() error {
	info, statErr := os.Stat(r.path)
	if statErr == nil && info.Size() > 0 {
		return nil
	}
	if statErr != nil && !errors.Is(statErr, os.ErrNotExist) {
		return fmt.Errorf("%w: failed to stat ledger: %v", models.ErrStorage, statErr)
	}

	header, err := encodeRows(models.LedgerColumns())
	if err != nil {
		return fmt.Errorf("%w: failed to encode ledger header: %v", models.ErrStorage, err)
	}

	if statErr == nil {
		// An empty file left behind gets its header now
		f, err := os.OpenFile(r.path, os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("%w: failed to open ledger: %v", models.ErrStorage, err)
		}
		defer f.Close()
		if _, err := f.Write(header); err != nil {
			return fmt.Errorf("%w: failed to write ledger header: %v", models.ErrStorage, err)
		}
		return nil
	}

	tmp, err := os.CreateTemp(filepath.Dir(r.path), ".ledger-*.csv")
	if err != nil {
		return fmt.Errorf("%w: failed to create ledger: %v", models.ErrStorage, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(header); err != nil {
		tmp.Close()
		return fmt.Errorf("%w: failed to write ledger header: %v", models.ErrStorage, err)
	}
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return fmt.Errorf("%w: failed to create ledger: %v", models.ErrStorage, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: failed to create ledger: %v", models.ErrStorage, err)
	}

	// Another process may have created the ledger first; its header wins
	if err := os.Link(tmp.Name(), r.path); err != nil && !errors.Is(err, os.ErrExist) {
		return fmt.Errorf("%w: failed to create ledger: %v", models.ErrStorage, err)
	}
	return nil
}

// All reads every record back. An absent ledger yields no records and no error.
func (r *csvLedgerRepository) All(ctx context.Context) ([]models.LedgerRecord, error) {
	header, rows, err := r.Table(ctx)
	if err != nil {
		return nil, err
	}
	return decodeRecords(header, rows)
}

// ByUsername returns the records written for username. Ledgers without a
// Username column match nothing.
func (r *csvLedgerRepository) ByUsername(ctx context.Context, username string) ([]models.LedgerRecord, error) {
	if username == "" {
		return nil, nil
	}

	header, rows, err := r.Table(ctx)
	if err != nil {
		return nil, err
	}

	col := indexOf(header, models.ColumnUsername)
	if col < 0 {
		return nil, nil
	}

	var matched [][]string
	for _, row := range rows {
		if col < len(row) && row[col] == username {
			matched = append(matched, row)
		}
	}
	return decodeRecords(header, matched)
}

// Table returns the raw header and rows of the ledger
func (r *csvLedgerRepository) Table(ctx context.Context) ([]string, [][]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	f, err := os.Open(r.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("%w: failed to open ledger: %v", models.ErrStorage, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	// Older ledgers have fewer columns; rows are matched to the header by name
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("%w: failed to read ledger: %v", models.ErrStorage, err)
	}
	if len(rows) == 0 {
		return nil, nil, nil
	}

	return rows[0], rows[1:], nil
}

// Open returns a reader over the raw ledger file
func (r *csvLedgerRepository) Open(ctx context.Context) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(r.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("ledger %s: %w", r.path, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open ledger: %v", models.ErrStorage, err)
	}
	return f, nil
}

// decodeRecords maps rows to records by header name, substituting
// models.MissingValue for absent optional columns. Rows with an unreadable
// timestamp are skipped with a warning.
func decodeRecords(header []string, rows [][]string) ([]models.LedgerRecord, error) {
	if len(rows) == 0 {
		return nil, nil
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		index[name] = i
	}

	cell := func(row []string, name string) string {
		i, ok := index[name]
		if !ok || i >= len(row) {
			return models.MissingValue
		}
		return row[i]
	}

	records := make([]models.LedgerRecord, 0, len(rows))
	for n, row := range rows {
		ts, err := parseTimestamp(cell(row, models.ColumnTimestamp))
		if err != nil {
			logging.L().Warn("Skipping ledger row with invalid timestamp",
				zap.Int("line", n+2),
				zap.Error(err))
			continue
		}

		record := models.LedgerRecord{
			Timestamp:     ts,
			Username:      cell(row, models.ColumnUsername),
			ApplicantName: cell(row, models.FieldApplicantName),
			DateOfBirth:   cell(row, models.FieldDateOfBirth),
			Occupation:    cell(row, models.FieldOccupation),
			Values:        make(map[string]string, len(models.UnderwritingFields)),
			Prediction:    models.Outcome(cell(row, models.ColumnPrediction)),
			Reason:        cell(row, models.ColumnReason),
			Feedback:      cell(row, models.ColumnFeedback),
		}
		for _, name := range models.UnderwritingFieldNames() {
			record.Values[name] = cell(row, name)
		}

		records = append(records, record)
	}

	return records, nil
}

// parseTimestamp accepts the ledger layout with or without fractional seconds
func parseTimestamp(value string) (time.Time, error) {
	return time.ParseInLocation("2006-01-02 15:04:05", value, time.Local)
}

// encodeRows renders rows as CSV lines
func encodeRows(rows ...[]string) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.WriteAll(rows); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// indexOf returns the position of name in header, or -1
func indexOf(header []string, name string) int {
	for i, h := range header {
		if h == name {
			return i
		}
	}
	return -1
}
