package badger

import (
	"context"
	"errors"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/poiesic/bazaar/core"
	"github.com/poiesic/bazaar/storage"
)

// TicketRepository implements storage.TicketRepository for BadgerDB.
// Ticket IDs are derived from the ticket reference, so resubmitting the
// same ticket overwrites rather than duplicates it.
type TicketRepository struct {
	backend *Backend
}

var _ storage.TicketRepository = (*TicketRepository)(nil)

// NewTicketRepository creates a new TicketRepository.
func NewTicketRepository(backend *Backend) *TicketRepository {
	return &TicketRepository{
		backend: backend,
	}
}

// Close is a no-op; the backend is owned by the caller.
func (r *TicketRepository) Close() error {
	return nil
}

// SubmitTicket validates and persists a ticket.
// A missing reference or creation time is filled in before storing.
func (r *TicketRepository) SubmitTicket(ctx context.Context, ticket *core.EscalationTicket) error {
	if err := core.ValidateTicket(ticket); err != nil {
		return err
	}
	if ticket.Reference == "" {
		ticket.Reference = uuid.NewString()
	}
	if ticket.CreatedAt.IsZero() {
		ticket.CreatedAt = time.Now().UTC()
	}
	if ticket.Id == 0 {
		ticket.Id = core.IDFromContent(ticket.Reference)
	}

	return r.backend.WithTx(func(tx *badger.Txn) error {
		value, err := storage.MarshalTicket(ticket)
		if err != nil {
			return err
		}
		if err := tx.Set(makeTicketKey(ticket.Id), value); err != nil {
			return err
		}
		if err := tx.Set(makeTicketDateKey(ticket.CreatedAt, ticket.Id), makeTicketKey(ticket.Id)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// GetTicket retrieves a ticket by ID.
func (r *TicketRepository) GetTicket(ctx context.Context, id core.ID) (*core.EscalationTicket, error) {
	var result *core.EscalationTicket
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		result, err = readTicket(tx, makeTicketKey(id))
		if err != nil {
			return err
		}
		if result == nil {
			return storage.ErrNotFound
		}
		return nil
	}, false)
	return result, err
}

// ListTickets returns up to limit tickets, newest first.
func (r *TicketRepository) ListTickets(ctx context.Context, limit int) ([]*core.EscalationTicket, error) {
	var results []*core.EscalationTicket
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Reverse = true
		opts.Prefix = []byte(ticketDatePrefix)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		// Reverse iteration must start past the last possible key of the prefix
		seekKey := append([]byte(ticketDatePrefix), 0xFF)
		for iter.Seek(seekKey); iter.Valid() && len(results) < limit; iter.Next() {
			var ticketKey []byte
			if err := iter.Item().Value(func(val []byte) error {
				ticketKey = append([]byte{}, val...)
				return nil
			}); err != nil {
				return err
			}

			ticket, err := readTicket(tx, ticketKey)
			if err != nil {
				return err
			}
			if ticket != nil {
				results = append(results, ticket)
			}
		}
		return nil
	}, false)

	return results, err
}

// readTicket reads a ticket from the transaction.
// Returns nil, nil when the key does not exist.
func readTicket(tx *badger.Txn, key []byte) (*core.EscalationTicket, error) {
	item, err := tx.Get(key)
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, nil
		}
		return nil, err
	}

	var ticket *core.EscalationTicket
	err = item.Value(func(val []byte) error {
		var unmarshalErr error
		ticket, unmarshalErr = storage.UnmarshalTicket(val)
		return unmarshalErr
	})
	return ticket, err
}
