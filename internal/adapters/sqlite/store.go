package sqlite

import (
	"time"

	"github.com/fr0stylo/ticketsync/internal/app/ports"
	"github.com/fr0stylo/ticketsync/internal/db"
)

// Store implements the persistence ports on top of the sqlite database.
type Store struct {
	db      storeDatabase
	now     func() time.Time
	closeFn func() error
}

// NewStore creates a store backed by an existing shared DB handle.
// Closing the store does not close the shared handle.
func NewStore(database *db.Database) *Store {
	return newStore(database, nil)
}

// OpenStore opens the database at path. The returned store owns and closes its handle.
func OpenStore(path string) (*Store, error) {
	database, err := db.New(path)
	if err != nil {
		return nil, err
	}
	return newStore(database, database.Close), nil
}

func newStore(database storeDatabase, closeFn func() error) *Store {
	return &Store{db: database, now: time.Now, closeFn: closeFn}
}

func (s *Store) timestamp() string {
	return db.Timestamp(s.now())
}

// Close releases the database handle when the store owns it.
func (s *Store) Close() error {
	if s.closeFn == nil {
		return nil
	}
	return s.closeFn()
}

var (
	_ ports.OrganizerConfigSource = (*Store)(nil)
	_ ports.TicketStore           = (*Store)(nil)
	_ ports.GroupStore            = (*Store)(nil)
)
