package sqlstore

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/junaidrashid-git/fastfood-pos/models"
	"github.com/junaidrashid-git/fastfood-pos/store"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := OpenSQLite(filepath.Join(t.TempDir(), "pos.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestStore_SaveAndLoad(t *testing.T) {
	ctx := context.Background()
	s := setupTestStore(t)

	snap := store.Snapshot{
		Products: []models.Product{
			{ID: "p1", Name: "Burger", Price: decimal.RequireFromString("2.50"), Quantity: 4, Category: "Sandwich"},
		},
		Cart: []models.CartLine{
			{ProductID: "p1", Name: "Burger", Price: decimal.RequireFromString("2.50"), Quantity: 1},
		},
		Categories: []models.Category{{Name: "Sandwich"}},
	}
	require.NoError(t, s.Save(ctx, snap, store.Products, store.Cart, store.Categories))

	got, err := s.Load(ctx)
	require.NoError(t, err)
	require.Len(t, got.Products, 1)
	assert.True(t, got.Products[0].Price.Equal(decimal.RequireFromString("2.5")))
	assert.Equal(t, 4, got.Products[0].Quantity)
	require.Len(t, got.Cart, 1)
	assert.Equal(t, "p1", got.Cart[0].ProductID)
	require.Len(t, got.Categories, 1)

	// Saving only the cart leaves products alone.
	require.NoError(t, s.Save(ctx, store.Snapshot{}, store.Cart))
	got, err = s.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, got.Cart)
	assert.Len(t, got.Products, 1)
}

func TestStore_CartKeepsOrder(t *testing.T) {
	ctx := context.Background()
	s := setupTestStore(t)

	lines := []models.CartLine{
		{ProductID: "z", Name: "Zesty", Quantity: 1},
		{ProductID: "a", Name: "Apple pie", Quantity: 2},
		{ProductID: "m", Name: "Milk tea", Quantity: 1},
	}
	require.NoError(t, s.Save(ctx, store.Snapshot{Cart: lines}, store.Cart))

	got, err := s.Load(ctx)
	require.NoError(t, err)
	require.Len(t, got.Cart, 3)
	assert.Equal(t, []string{"z", "a", "m"}, []string{got.Cart[0].ProductID, got.Cart[1].ProductID, got.Cart[2].ProductID})
}

func TestStore_CommitSale(t *testing.T) {
	ctx := context.Background()
	s := setupTestStore(t)
	require.NoError(t, s.Save(ctx, store.Snapshot{
		Cart: []models.CartLine{{ProductID: "p1", Name: "Burger", Quantity: 2}},
	}, store.Cart))

	receipt := &models.Receipt{
		ID:           "r1",
		CustomerName: "Ana",
		OrderType:    models.OrderTypeTakeOut,
		Items: []models.ReceiptItem{
			{Product: "Burger", Quantity: 2, Price: decimal.NewFromInt(10)},
			{Product: "Cola", Quantity: 1, Price: decimal.NewFromInt(5)},
		},
		Total:      decimal.NewFromInt(25),
		AmountPaid: decimal.NewFromInt(30),
		Change:     decimal.NewFromInt(5),
		Date:       time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC),
	}
	require.NoError(t, s.CommitSale(ctx, receipt))

	snap, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, snap.Cart)

	got, err := s.Receipt(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, "Ana", got.CustomerName)
	assert.Equal(t, models.OrderTypeTakeOut, got.OrderType)
	require.Len(t, got.Items, 2)
	assert.Equal(t, "Burger", got.Items[0].Product)
	assert.Equal(t, "Cola", got.Items[1].Product)
	assert.True(t, got.Total.Equal(decimal.NewFromInt(25)))

	_, err = s.Receipt(ctx, "missing")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestStore_ReceiptsWindow(t *testing.T) {
	ctx := context.Background()
	s := setupTestStore(t)
	base := time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC)
	for i, id := range []string{"a", "b", "c"} {
		require.NoError(t, s.AddReceipt(ctx, &models.Receipt{
			ID:           id,
			CustomerName: "x",
			Date:         base.Add(time.Duration(i) * 24 * time.Hour),
		}))
	}
	assert.ErrorIs(t, s.AddReceipt(ctx, &models.Receipt{ID: "a", CustomerName: "x"}), store.ErrAlreadyExists)

	all, err := s.Receipts(ctx, store.ReceiptQuery{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "c", all[0].ID)
	assert.Equal(t, "a", all[2].ID)

	window, err := s.Receipts(ctx, store.ReceiptQuery{From: base.Add(24 * time.Hour), To: base.Add(48 * time.Hour)})
	require.NoError(t, err)
	require.Len(t, window, 1)
	assert.Equal(t, "b", window[0].ID)

	limited, err := s.Receipts(ctx, store.ReceiptQuery{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}

func TestStore_SubscribeAfterSave(t *testing.T) {
	ctx := context.Background()
	s := setupTestStore(t)

	got := make(chan store.Snapshot, 2)
	cancel, err := s.Subscribe(ctx, func(snap store.Snapshot) { got <- snap })
	require.NoError(t, err)
	defer cancel()

	require.NoError(t, s.Save(ctx, store.Snapshot{Categories: []models.Category{{Name: "Coffee"}}}, store.Categories))

	select {
	case snap := <-got:
		require.Len(t, snap.Categories, 1)
		assert.Equal(t, "Coffee", snap.Categories[0].Name)
	case <-time.After(2 * time.Second):
		t.Fatal("no snapshot delivered")
	}
}

func TestStore_Admins(t *testing.T) {
	ctx := context.Background()
	s := setupTestStore(t)

	require.NoError(t, s.CreateAdmin(ctx, &models.Admin{Username: "bob", Email: "Bob@Example.com", Role: models.RoleAdmin}))
	assert.ErrorIs(t, s.CreateAdmin(ctx, &models.Admin{Username: "bob"}), store.ErrAlreadyExists)

	byEmail, err := s.AdminByEmail(ctx, "bob@example.com")
	require.NoError(t, err)
	assert.Equal(t, "bob", byEmail.Username)

	pending, err := s.Admins(ctx, true)
	require.NoError(t, err)
	require.Len(t, pending, 1)

	byEmail.Approved = true
	require.NoError(t, s.UpdateAdmin(ctx, &byEmail))
	pending, err = s.Admins(ctx, true)
	require.NoError(t, err)
	assert.Empty(t, pending)

	assert.ErrorIs(t, s.UpdateAdmin(ctx, &models.Admin{Username: "ghost"}), store.ErrNotFound)
	require.NoError(t, s.DeleteAdmin(ctx, "bob"))
	_, err = s.AdminByUsername(ctx, "bob")
	assert.ErrorIs(t, err, store.ErrNotFound)
}
