package repositories

import (
	"database/sql"

	"github.com/blogem/loan-approval/models"
)

// Repositories struct holds all repository interfaces
type Repositories struct {
	Ledger     LedgerRepository
	Identities IdentityRepository
	Audit      AuditRepository
}

// Paths locates the flat files backing the repositories
type Paths struct {
	Ledger     string
	Identities string
}

// NewRepositories creates and initializes all repositories
func NewRepositories(db *sql.DB, paths Paths, seed []models.Identity) (*Repositories, error) {
	identities, err := NewIdentityRepository(paths.Identities, seed)
	if err != nil {
		return nil, err
	}

	return &Repositories{
		Ledger:     NewLedgerRepository(paths.Ledger),
		Identities: identities,
		Audit:      NewAuditRepository(db),
	}, nil
}
