package badger

import (
	"context"

	"github.com/dgraph-io/badger/v4"
	"github.com/vyasa-labs/gitasage/core"
	"github.com/vyasa-labs/gitasage/storage"
)

// FeedbackStore implements storage.FeedbackRepository for BadgerDB.
type FeedbackStore struct {
	backend *Backend
	idSeq   *badger.Sequence
}

var _ storage.FeedbackRepository = (*FeedbackStore)(nil)

// NewFeedbackStore creates a FeedbackStore on the given backend.
func NewFeedbackStore(backend *Backend) (storage.FeedbackRepository, error) {
	idSeq, err := backend.GetSequence(feedbackIDSeq)
	if err != nil {
		return nil, err
	}

	return &FeedbackStore{
		backend: backend,
		idSeq:   idSeq,
	}, nil
}

// Close releases the ID sequence.
func (s *FeedbackStore) Close() error {
	return s.idSeq.Release()
}

// AddFeedback stores one feedback record.
func (s *FeedbackStore) AddFeedback(ctx context.Context, fb *core.Feedback) error {
	if err := core.ValidateFeedback(fb); err != nil {
		return err
	}
	if s.backend.IsClosed() {
		return storage.ErrStorageClosed
	}

	seq, err := s.idSeq.Next()
	if err != nil {
		return err
	}

	return s.backend.WithTx(func(tx *badger.Txn) error {
		key := makeFeedbackKey(fb.Timestamp.UnixMicro(), seq)
		if err := tx.Set(key, storage.MarshalFeedback(fb)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// AllFeedback returns every stored feedback record in timestamp order. Only
// offline analysis reads feedback back, nothing in the answer pipeline does.
func (s *FeedbackStore) AllFeedback(ctx context.Context) ([]*core.Feedback, error) {
	if s.backend.IsClosed() {
		return nil, storage.ErrStorageClosed
	}

	var records []*core.Feedback
	err := s.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(feedbackPrefix + ":")
		it := tx.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			err := it.Item().Value(func(val []byte) error {
				fb, err := storage.UnmarshalFeedback(val)
				if err != nil {
					return err
				}
				records = append(records, fb)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}
	return records, nil
}
