// Package launch reads and writes workspace debug launch configurations.
package launch

import (
	"encoding/json"
	"sync"

	"github.com/pkg/errors"
)

// Record is one entry of the configurations list. Raw holds the entry as
// stored so that records owned by other tools round-trip unchanged.
type Record struct {
	Name string
	Raw  json.RawMessage
}

// Repository persists the ordered list of launch records of a workspace.
// Save always writes the full list.
type Repository interface {
	Load() ([]Record, error)
	Save(records []Record) error
}

// Opener returns the repository of a workspace folder
type Opener func(workspace string) Repository

func decodeRecords(raws []json.RawMessage) ([]Record, error) {
	records := make([]Record, 0, len(raws))
	for i, raw := range raws {
		var head struct {
			Name string `json:"name"`
		}
		if err := json.Unmarshal(raw, &head); err != nil {
			return nil, errors.Wrapf(err, "configuration %d", i)
		}
		records = append(records, Record{Name: head.Name, Raw: append(json.RawMessage(nil), raw...)})
	}
	return records, nil
}

func encodeRecords(records []Record) []json.RawMessage {
	raws := make([]json.RawMessage, 0, len(records))
	for _, record := range records {
		raws = append(raws, record.Raw)
	}
	return raws
}

// MemoryRepository keeps records in memory
type MemoryRepository struct {
	mu      sync.Mutex
	records []Record
	saves   int
}

// NewMemoryRepository creates a MemoryRepository seeded with records
func NewMemoryRepository(records ...Record) *MemoryRepository {
	return &MemoryRepository{records: records}
}

func (m *MemoryRepository) Load() ([]Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Record(nil), m.records...), nil
}

func (m *MemoryRepository) Save(records []Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append([]Record(nil), records...)
	m.saves++
	return nil
}

// Saves returns how many times Save was called
func (m *MemoryRepository) Saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}
