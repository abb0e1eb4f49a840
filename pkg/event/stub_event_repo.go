package event

import (
	"context"
	"sync"
)

// StubEventRepository keeps records in memory in store order.
type StubEventRepository struct {
	mu      sync.Mutex
	Records []Record
	Err     error
}

func NewStubEventRepository(records ...Record) *StubEventRepository {
	return &StubEventRepository{Records: records}
}

func (s *StubEventRepository) FindAll(ctx context.Context) ([]Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	result := make([]Record, len(s.Records))
	copy(result, s.Records)
	return result, nil
}

func (s *StubEventRepository) Upsert(ctx context.Context, record Record) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return false, s.Err
	}
	for i := range s.Records {
		if s.Records[i].ID == record.ID {
			s.Records[i] = record
			return false, nil
		}
	}
	s.Records = append([]Record{record}, s.Records...)
	return true, nil
}

func (s *StubEventRepository) Delete(ctx context.Context, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return false, s.Err
	}
	for i := range s.Records {
		if s.Records[i].ID == id {
			s.Records = append(s.Records[:i], s.Records[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (s *StubEventRepository) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Records = nil
	s.Err = nil
}
