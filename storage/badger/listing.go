package badger

import (
	"cmp"
	"context"
	"errors"
	"slices"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/bazaar/core"
	"github.com/poiesic/bazaar/storage"
)

// ListingRepository implements storage.ListingRepository for BadgerDB.
type ListingRepository struct {
	backend *Backend
	idSeq   *badger.Sequence
}

var _ storage.ListingRepository = (*ListingRepository)(nil)

// NewListingRepository creates a new ListingRepository.
func NewListingRepository(backend *Backend) (*ListingRepository, error) {
	idSeq, err := backend.GetSequence(listingIDSeq)
	if err != nil {
		return nil, err
	}

	return &ListingRepository{
		backend: backend,
		idSeq:   idSeq,
	}, nil
}

// Close releases the ID sequence.
func (r *ListingRepository) Close() error {
	return r.idSeq.Release()
}

// AddListings validates and stores one or more listings.
func (r *ListingRepository) AddListings(ctx context.Context, listings ...*core.Listing) ([]*core.Listing, error) {
	for _, listing := range listings {
		if err := core.ValidateListing(listing); err != nil {
			return nil, err
		}
	}

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, listing := range listings {
			nextID, err := r.idSeq.Next()
			if err != nil {
				return err
			}
			// BadgerDB sequences can return 0 on first call, so we skip it
			if nextID == 0 {
				nextID, err = r.idSeq.Next()
				if err != nil {
					return err
				}
			}
			listing.Id = core.ID(nextID)

			if listing.InsertedAt.IsZero() {
				listing.InsertedAt = time.Now().UTC()
			}

			value, err := storage.MarshalListing(listing)
			if err != nil {
				return err
			}
			if err := tx.Set(makeListingKey(listing.Id), value); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
	if err != nil {
		return nil, err
	}

	return listings, nil
}

// GetListing retrieves a single listing by ID.
func (r *ListingRepository) GetListing(ctx context.Context, id core.ID) (*core.Listing, error) {
	var result *core.Listing
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		result, err = readListing(tx, makeListingKey(id))
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

// SetListingStatus changes the lifecycle status of a listing.
func (r *ListingRepository) SetListingStatus(ctx context.Context, id core.ID, status core.ListingStatus) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		key := makeListingKey(id)
		listing, err := readListing(tx, key)
		if err != nil {
			return err
		}
		if listing == nil {
			return storage.ErrNotFound
		}

		listing.Status = status
		if err := core.ValidateListing(listing); err != nil {
			return err
		}
		value, err := storage.MarshalListing(listing)
		if err != nil {
			return err
		}
		if err := tx.Set(key, value); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// ActiveListings returns the active listings satisfying query.
func (r *ListingRepository) ActiveListings(ctx context.Context, query *storage.ListingQuery) ([]*core.Listing, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if r.backend.IsClosed() {
		return nil, storage.ErrStorageClosed
	}

	var results []*core.Listing
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(listingPrefix)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			var listing *core.Listing
			err := iter.Item().Value(func(val []byte) error {
				var err error
				listing, err = storage.UnmarshalListing(val)
				return err
			})
			if err != nil {
				return err
			}
			if query.Matches(listing) {
				results = append(results, listing)
			}
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}

	if query != nil && query.OrderByPrice {
		slices.SortStableFunc(results, func(a, b *core.Listing) int {
			return cmp.Compare(a.Price, b.Price)
		})
	}

	return results, nil
}

// readListing reads a listing from the transaction.
// Returns nil, nil when the key does not exist.
func readListing(tx *badger.Txn, key []byte) (*core.Listing, error) {
	item, err := tx.Get(key)
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, nil
		}
		return nil, err
	}

	var listing *core.Listing
	err = item.Value(func(val []byte) error {
		var unmarshalErr error
		listing, unmarshalErr = storage.UnmarshalListing(val)
		return unmarshalErr
	})
	return listing, err
}
