package repositories

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/blogem/loan-approval/models"
)

var identityHeader = []string{"Username", "Password"}

// IdentityRepository interface defines registered identity operations
type IdentityRepository interface {
	GetByUsername(ctx context.Context, username string) (*models.Identity, error)
	// CreateIfAbsent stores identity unless the username exists; it reports whether a row was written
	CreateIfAbsent(ctx context.Context, identity *models.Identity) (bool, error)
	Count(ctx context.Context) (int, error)
}

// csvIdentityRepository implements IdentityRepository over a CSV file.
// The file is the only copy of the identities, so restarts never diverge.
type csvIdentityRepository struct {
	path string
	mu   sync.Mutex
}

// NewIdentityRepository opens the identity file at path, creating it with the
// seed identities when it does not exist
func NewIdentityRepository(path string, seed []models.Identity) (IdentityRepository, error) {
	r := &csvIdentityRepository{path: path}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if errors.Is(err, os.ErrExist) {
		return r, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create identity store: %v", models.ErrStorage, err)
	}
	defer f.Close()

	rows := [][]string{identityHeader}
	seen := make(map[string]bool, len(seed))
	for _, identity := range seed {
		if identity.Username == "" || seen[identity.Username] {
			continue
		}
		seen[identity.Username] = true
		rows = append(rows, []string{identity.Username, identity.Password})
	}

	w := csv.NewWriter(f)
	if err := w.WriteAll(rows); err != nil {
		return nil, fmt.Errorf("%w: failed to seed identity store: %v", models.ErrStorage, err)
	}

	return r, nil
}

// GetByUsername retrieves an identity by exact username
func (r *csvIdentityRepository) GetByUsername(ctx context.Context, username string) (*models.Identity, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	identities, err := r.readAll()
	if err != nil {
		return nil, err
	}

	for _, identity := range identities {
		if identity.Username == username {
			return &identity, nil
		}
	}

	return nil, fmt.Errorf("identity %q: %w", username, models.ErrNotFound)
}

// CreateIfAbsent appends identity when no row has the same username
func (r *csvIdentityRepository) CreateIfAbsent(ctx context.Context, identity *models.Identity) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	identities, err := r.readAll()
	if err != nil {
		return false, err
	}
	for _, existing := range identities {
		if existing.Username == identity.Username {
			return false, nil
		}
	}

	line, err := encodeRows([]string{identity.Username, identity.Password})
	if err != nil {
		return false, fmt.Errorf("%w: failed to encode identity: %v", models.ErrStorage, err)
	}

	f, err := os.OpenFile(r.path, os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return false, fmt.Errorf("%w: failed to open identity store: %v", models.ErrStorage, err)
	}
	defer f.Close()

	if _, err := f.Write(line); err != nil {
		return false, fmt.Errorf("%w: failed to append identity: %v", models.ErrStorage, err)
	}

	return true, nil
}

// Count returns the number of stored identities
func (r *csvIdentityRepository) Count(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	identities, err := r.readAll()
	if err != nil {
		return 0, err
	}
	return len(identities), nil
}

// readAll loads every identity row, skipping the header
func (r *csvIdentityRepository) readAll() ([]models.Identity, error) {
	f, err := os.Open(r.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open identity store: %v", models.ErrStorage, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read identity store: %v", models.ErrStorage, err)
	}

	var identities []models.Identity
	for i, row := range rows {
		if i == 0 && len(row) > 0 && row[0] == identityHeader[0] {
			continue
		}
		if len(row) < 2 {
			continue
		}
		identities = append(identities, models.Identity{Username: row[0], Password: row[1]})
	}
	return identities, nil
}
