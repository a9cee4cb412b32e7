package store

import (
	"time"

	"github.com/amishk599/paip/internal/model"
)

// NopStore is used when history is disabled. It records nothing and returns
// no entries.
type NopStore struct{}

func NewNopStore() *NopStore { return &NopStore{} }

func (s *NopStore) Record(e model.Entry) (int64, error)             { return 0, nil }
func (s *NopStore) Recent(limit int) ([]model.Entry, error)         { return nil, nil }
func (s *NopStore) Get(id int64) (model.Entry, error)               { return model.Entry{}, model.ErrNotFound }
func (s *NopStore) Cleanup(olderThan time.Duration) (int64, error) { return 0, nil }
func (s *NopStore) Close() error                                    { return nil }
