package entity

import (
	"encoding/json"
	"sort"
)

// Store is the full collection of user records, loaded from the backing
// storage and saved back as a unit on every mutation. Iteration order is
// insertion order for records added at runtime; records decoded from JSON
// are ordered by user id, so the order is deterministic within a single load.
type Store struct {
	records map[string]*UserRecord
	order   []string
}

func NewStore() *Store {
	return &Store{records: make(map[string]*UserRecord)}
}

func (s *Store) Get(userID string) (*UserRecord, bool) {
	record, ok := s.records[userID]
	return record, ok
}

// Put inserts or replaces a record. A user id keeps its original position.
func (s *Store) Put(userID string, record *UserRecord) {
	if _, ok := s.records[userID]; !ok {
		s.order = append(s.order, userID)
	}
	s.records[userID] = record
}

func (s *Store) Len() int {
	return len(s.records)
}

// UserIDs returns the ids in iteration order.
func (s *Store) UserIDs() []string {
	ids := make([]string, len(s.order))
	copy(ids, s.order)
	return ids
}

// MarshalJSON renders the store as a single object keyed by user id:
// {"42": {"activated": true, "codes_sent_today": 1, "last_request_date": "2026-08-30"}}
func (s *Store) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.records)
}

func (s *Store) UnmarshalJSON(data []byte) error {
	var records map[string]*UserRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return err
	}
	s.records = records
	if s.records == nil {
		s.records = make(map[string]*UserRecord)
	}
	s.order = make([]string, 0, len(s.records))
	for id, record := range s.records {
		// a null value reads as a record with every field missing
		if record == nil {
			s.records[id] = NewUserRecord()
		}
		s.order = append(s.order, id)
	}
	// JSON objects carry no ordering, fix one
	sort.Strings(s.order)
	return nil
}
