package records

import (
	"sync"

	"github.com/absmach/fedsim/pkg/errors"
)

type inMemoryStore struct {
	sync.Mutex

	records []Record
}

// NewInMemoryStore returns a mutex-guarded in-process Store.
func NewInMemoryStore() Store {
	return &inMemoryStore{}
}

func (s *inMemoryStore) Append(record Record) error {
	s.Lock()
	defer s.Unlock()

	s.records = append(s.records, record)

	return nil
}

func (s *inMemoryStore) List() ([]Record, error) {
	s.Lock()
	defer s.Unlock()

	out := make([]Record, len(s.records))
	copy(out, s.records)

	return out, nil
}

func (s *inMemoryStore) Latest() (Record, error) {
	s.Lock()
	defer s.Unlock()

	if len(s.records) == 0 {
		return Record{}, errors.ErrNotFound
	}

	return s.records[len(s.records)-1], nil
}
