package badger

import (
	"context"
	"testing"

	"github.com/poiesic/bazaar/core"
	"github.com/poiesic/bazaar/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newListing(title string, price float64, institution, department, region string) *core.Listing {
	return &core.Listing{
		Title:       title,
		Description: title + " in good shape",
		Price:       price,
		Condition:   core.ConditionUsed,
		Category:    "Stationery",
		Institution: institution,
		Department:  department,
		Region:      region,
		Status:      core.ListingStatusActive,
		Seller:      core.Seller{Id: 7, Username: "seller7"},
	}
}

func setupListings(t *testing.T) (storage.ListingRepository, func()) {
	t.Helper()
	listingRepo, ticketRepo, backend, err := NewMemoryRepositories()
	require.NoError(t, err)
	return listingRepo, func() {
		ticketRepo.Close()
		listingRepo.Close()
		backend.Close()
	}
}

func TestListingBasics(t *testing.T) {
	repo, cleanup := setupListings(t)
	defer cleanup()
	ctx := context.Background()

	added, err := repo.AddListings(ctx, newListing("Graphing calculator", 250, "Tech U", "Engineering", "cairo"))
	require.NoError(t, err)
	require.Len(t, added, 1)
	assert.NotZero(t, added[0].Id)
	assert.False(t, added[0].InsertedAt.IsZero())

	retrieved, err := repo.GetListing(ctx, added[0].Id)
	require.NoError(t, err)
	assert.Equal(t, "Graphing calculator", retrieved.Title)
	assert.Equal(t, 250.0, retrieved.Price)
	assert.Equal(t, "seller7", retrieved.Seller.DisplayName())
}

func TestListingValidation(t *testing.T) {
	repo, cleanup := setupListings(t)
	defer cleanup()
	ctx := context.Background()

	bad := newListing("", 10, "", "", "")
	_, err := repo.AddListings(ctx, newListing("Ok", 1, "", "", ""), bad)
	assert.ErrorIs(t, err, core.ErrInvalidListing)

	all, err := repo.ActiveListings(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, all, "a failed batch stores nothing")
}

func TestGetListing_NotFound(t *testing.T) {
	repo, cleanup := setupListings(t)
	defer cleanup()

	_, err := repo.GetListing(context.Background(), 12345)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestSetListingStatus(t *testing.T) {
	repo, cleanup := setupListings(t)
	defer cleanup()
	ctx := context.Background()

	added, err := repo.AddListings(ctx,
		newListing("Ruler", 15, "", "", "alexandria"),
		newListing("Protractor", 20, "", "", "alexandria"),
	)
	require.NoError(t, err)

	require.NoError(t, repo.SetListingStatus(ctx, added[0].Id, core.ListingStatusExpired))

	active, err := repo.ActiveListings(ctx, nil)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "Protractor", active[0].Title)

	t.Run("unknown id", func(t *testing.T) {
		err := repo.SetListingStatus(ctx, 999, core.ListingStatusActive)
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("unknown status", func(t *testing.T) {
		err := repo.SetListingStatus(ctx, added[1].Id, core.ListingStatus("sold"))
		assert.ErrorIs(t, err, core.ErrInvalidListing)
	})
}

func TestActiveListings(t *testing.T) {
	repo, cleanup := setupListings(t)
	defer cleanup()
	ctx := context.Background()

	_, err := repo.AddListings(ctx,
		newListing("Scientific calculator", 300, "Tech U", "Engineering", "cairo"),
		newListing("Basic calculator", 100, "Tech U", "Commerce", "giza"),
		newListing("Notebook", 100, "Nile U", "Engineering", "cairo"),
		newListing("Pencil set", 40, "Nile U", "Arts", "alexandria"),
	)
	require.NoError(t, err)

	t.Run("catalog order without price ordering", func(t *testing.T) {
		results, err := repo.ActiveListings(ctx, nil)
		require.NoError(t, err)
		require.Len(t, results, 4)
		assert.Equal(t, "Scientific calculator", results[0].Title)
		assert.Equal(t, "Pencil set", results[3].Title)
	})

	t.Run("price ordering is stable", func(t *testing.T) {
		results, err := repo.ActiveListings(ctx, &storage.ListingQuery{OrderByPrice: true})
		require.NoError(t, err)
		require.Len(t, results, 4)
		titles := []string{results[0].Title, results[1].Title, results[2].Title, results[3].Title}
		assert.Equal(t, []string{"Pencil set", "Basic calculator", "Notebook", "Scientific calculator"}, titles)
	})

	t.Run("term and affiliation filters", func(t *testing.T) {
		results, err := repo.ActiveListings(ctx, &storage.ListingQuery{
			Field:       storage.MatchTitle,
			Term:        "CALC",
			Institution: "tech u",
			Department:  "engineering",
		})
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, "Scientific calculator", results[0].Title)
	})

	t.Run("excluded department", func(t *testing.T) {
		results, err := repo.ActiveListings(ctx, &storage.ListingQuery{
			Institution:       "Tech U",
			ExcludeDepartment: "Engineering",
		})
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, "Basic calculator", results[0].Title)
	})

	t.Run("region filter", func(t *testing.T) {
		results, err := repo.ActiveListings(ctx, &storage.ListingQuery{Region: "Alexandria"})
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, "Pencil set", results[0].Title)
	})

	t.Run("cancelled context", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		_, err := repo.ActiveListings(cctx, nil)
		assert.ErrorIs(t, err, context.Canceled)
	})
}
