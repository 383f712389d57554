package store

import (
	"context"

	"github.com/sirupsen/logrus"
)

// Store is an append-only sink for serialized feedback records
type Store interface {
	// Put writes body at key. Implementations do not retry.
	Put(ctx context.Context, key string, body []byte) error
}

// Multi writes to a primary store and then to each secondary in order.
// Only the primary decides the outcome of a Put.
type Multi struct {
	primary     Store
	secondaries []Store
	logger      logrus.FieldLogger
}

// NewMulti creates a fan-out store. The primary is always written first.
func NewMulti(logger logrus.FieldLogger, primary Store, secondaries ...Store) *Multi {
	return &Multi{
		primary:     primary,
		secondaries: secondaries,
		logger:      logger,
	}
}

// Put writes body to the primary and, once it is stored, to every secondary.
// Secondary failures are logged and do not fail the write.
func (m *Multi) Put(ctx context.Context, key string, body []byte) error {
	if err := m.primary.Put(ctx, key, body); err != nil {
		return err
	}

	for i, s := range m.secondaries {
		if err := s.Put(ctx, key, body); err != nil {
			m.logger.WithError(err).WithFields(logrus.Fields{
				"key":       key,
				"secondary": i,
			}).Warn("Secondary store write failed, record kept in primary store")
		}
	}

	return nil
}
