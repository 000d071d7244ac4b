package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/blogem/loan-approval/database"
	"github.com/blogem/loan-approval/models"
)

func setupTestDB(t *testing.T) *sql.DB {
	// Create a temporary database for testing
	dbPath := filepath.Join(t.TempDir(), "test_audit.db")

	t.Cleanup(func() {
		database.CloseDB()
	})

	// Initialize test database using the actual migration system
	if err := database.InitializeDatabase(dbPath); err != nil {
		t.Fatalf("Failed to initialize test database: %v", err)
	}

	return database.GetDB()
}

func ledgerRecord(n int, username string) *models.LedgerRecord {
	values := make(map[string]string, len(models.UnderwritingFields))
	for _, name := range models.UnderwritingFieldNames() {
		values[name] = "1"
	}
	values[models.FieldApplicantIncome] = fmt.Sprintf("%d", 1000+n)

	return &models.LedgerRecord{
		Timestamp:     time.Date(2025, 3, 1, 12, 0, n, 123456000, time.Local),
		Username:      username,
		ApplicantName: fmt.Sprintf("Applicant, %d", n),
		DateOfBirth:   "1990-05-17",
		Occupation:    "Engineer",
		Values:        values,
		Prediction:    models.Approved,
		Reason:        "",
		Feedback:      "line one\nline \"two\"",
	}
}

func TestLedgerRepository_AppendAndReadBack(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "predictions.csv")
	repo := NewLedgerRepository(path)

	var written []models.LedgerRecord
	for i := 0; i < 5; i++ {
		record := ledgerRecord(i, "jane")
		require.NoError(t, repo.Append(ctx, record))
		stored := *record
		stored.Feedback = "line one line \"two\""
		written = append(written, stored)
	}

	_, rows, err := repo.Table(ctx)
	require.NoError(t, err)
	assert.Len(t, rows, 5)

	read, err := repo.All(ctx)
	require.NoError(t, err)
	if diff := cmp.Diff(written, read); diff != "" {
		t.Errorf("ledger round trip mismatch (-written +read):\n%s", diff)
	}

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(content), strings.Join(models.LedgerColumns(), ",")+"\n"))
	assert.Contains(t, string(content), "2025-03-01 12:00:00.123456")
	// Header plus exactly one physical line per append
	assert.Equal(t, 6, strings.Count(string(content), "\n"))
}

func TestLedgerRepository_AbsentAndEmpty(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	absent := NewLedgerRepository(filepath.Join(dir, "missing.csv"))
	records, err := absent.All(ctx)
	assert.NoError(t, err)
	assert.Empty(t, records)

	_, err = absent.Open(ctx)
	assert.ErrorIs(t, err, models.ErrNotFound)

	// An existing empty file gets its header on first append
	emptyPath := filepath.Join(dir, "empty.csv")
	require.NoError(t, os.WriteFile(emptyPath, nil, 0o644))
	empty := NewLedgerRepository(emptyPath)
	require.NoError(t, empty.Append(ctx, ledgerRecord(1, "jane")))

	content, err := os.ReadFile(emptyPath)
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(string(content), "Timestamp,Username"))
}

func TestLedgerRepository_ConcurrentFirstWriters(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "predictions.csv")

	const writers = 20
	var wg sync.WaitGroup
	errs := make(chan error, writers)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			// Separate repositories share nothing but the file
			errs <- NewLedgerRepository(path).Append(ctx, ledgerRecord(n, "jane"))
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(string(content), "Timestamp,Username,"))

	records, err := NewLedgerRepository(path).All(ctx)
	require.NoError(t, err)
	assert.Len(t, records, writers)
}

func TestLedgerRepository_LegacyHeader(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "legacy.csv")
	legacy := "Timestamp," + strings.Join(models.UnderwritingFieldNames(), ",") + ",Prediction\n" +
		"2024-01-02 03:04:05," + strings.Repeat("1,", len(models.UnderwritingFields)) + "Rejected\n"
	require.NoError(t, os.WriteFile(path, []byte(legacy), 0o644))

	repo := NewLedgerRepository(path)

	records, err := repo.All(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, models.Rejected, records[0].Prediction)
	assert.Equal(t, models.MissingValue, records[0].Username)
	assert.Equal(t, models.MissingValue, records[0].Feedback)
	assert.Equal(t, "1", records[0].Value(models.FieldCreditHistory))
	assert.Equal(t, time.Date(2024, 1, 2, 3, 4, 5, 0, time.Local), records[0].Timestamp)

	// Without a Username column no row belongs to anyone
	mine, err := repo.ByUsername(ctx, "jane")
	require.NoError(t, err)
	assert.Empty(t, mine)
}

func TestLedgerRepository_ByUsername(t *testing.T) {
	ctx := context.Background()
	repo := NewLedgerRepository(filepath.Join(t.TempDir(), "predictions.csv"))
	require.NoError(t, repo.Append(ctx, ledgerRecord(1, "jane")))
	require.NoError(t, repo.Append(ctx, ledgerRecord(2, "john")))
	require.NoError(t, repo.Append(ctx, ledgerRecord(3, "jane")))
	require.NoError(t, repo.Append(ctx, ledgerRecord(4, "")))

	mine, err := repo.ByUsername(ctx, "jane")
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, "Applicant, 1", mine[0].ApplicantName)
	assert.Equal(t, "Applicant, 3", mine[1].ApplicantName)

	anonymous, err := repo.ByUsername(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, anonymous)
}

func TestLedgerRepository_InvalidTimestampRowIsSkipped(t *testing.T) {
	path := filepath.Join(t.TempDir(), "edited.csv")
	content := "Timestamp,Prediction\n" +
		"2024-01-02 03:04:05,Approved\n" +
		"yesterday,Rejected\n" +
		"2024-01-03 03:04:05.250000,Rejected\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	records, err := NewLedgerRepository(path).All(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, models.Approved, records[0].Prediction)
	assert.Equal(t, models.Rejected, records[1].Prediction)
}

func TestIdentityRepository(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "users.csv")
	seed := []models.Identity{
		{Username: "admin", Password: "admin123"},
		{Username: "user", Password: "user123"},
		{Username: "admin", Password: "ignored"},
	}

	repo, err := NewIdentityRepository(path, seed)
	require.NoError(t, err)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	identity, err := repo.GetByUsername(ctx, "admin")
	require.NoError(t, err)
	assert.Equal(t, "admin123", identity.Password)

	_, err = repo.GetByUsername(ctx, "ghost")
	assert.ErrorIs(t, err, models.ErrNotFound)

	created, err := repo.CreateIfAbsent(ctx, &models.Identity{Username: "jane", Password: "secret1"})
	require.NoError(t, err)
	assert.True(t, created)

	created, err = repo.CreateIfAbsent(ctx, &models.Identity{Username: "jane", Password: "other12"})
	require.NoError(t, err)
	assert.False(t, created)

	// Reopening never reseeds an existing store
	reopened, err := NewIdentityRepository(path, []models.Identity{{Username: "extra", Password: "extra123"}})
	require.NoError(t, err)
	count, err = reopened.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Username,Password\nadmin,admin123\nuser,user123\njane,secret1\n", string(content))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestAuditRepository(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	repo := NewAuditRepository(db)

	first := &models.AuditLogEntry{
		RequestID: "req-1",
		Username:  "jane",
		Method:    "POST",
		Path:      "/predict",
		FormData:  `{"Age":"30"}`,
		UserAgent: "test",
		IPAddress: "127.0.0.1",
	}
	require.NoError(t, repo.Create(ctx, first))
	assert.NotZero(t, first.ID)
	assert.False(t, first.Timestamp.IsZero())

	second := &models.AuditLogEntry{RequestID: "req-2", Method: "POST", Path: "/login"}
	require.NoError(t, repo.Create(ctx, second))

	entries, err := repo.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "req-2", entries[0].RequestID)
	assert.Equal(t, "jane", entries[1].Username)
	assert.Equal(t, `{"Age":"30"}`, entries[1].FormData)

	entries, err = repo.Recent(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestNewRepositories(t *testing.T) {
	dir := t.TempDir()
	db := setupTestDB(t)

	repos, err := NewRepositories(db, Paths{
		Ledger:     filepath.Join(dir, "predictions.csv"),
		Identities: filepath.Join(dir, "users.csv"),
	}, []models.Identity{{Username: "admin", Password: "admin123"}})
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "predictions.csv"), repos.Ledger.Path())
	count, err := repos.Identities.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.NotNil(t, repos.Audit)
}
