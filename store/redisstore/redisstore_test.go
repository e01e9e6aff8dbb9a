package redisstore

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/junaidrashid-git/fastfood-pos/models"
	"github.com/junaidrashid-git/fastfood-pos/store"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) *miniredis.Miniredis {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)
	return mr
}

func newTestStore(t *testing.T, mr *miniredis.Miniredis) *Store {
	t.Helper()
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	s, err := New(client, "test", nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestStore_SaveAndLoad(t *testing.T) {
	ctx := context.Background()
	mr := setupTestRedis(t)
	s := newTestStore(t, mr)

	empty, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, empty.Products)

	require.NoError(t, s.Save(ctx, store.Snapshot{
		Products: []models.Product{{ID: "p1", Name: "Pizza slice", Price: decimal.RequireFromString("3.25"), Quantity: 8}},
		Cart:     []models.CartLine{{ProductID: "p1", Name: "Pizza slice", Price: decimal.RequireFromString("3.25"), Quantity: 1}},
	}, store.Products, store.Cart))

	snap, err := s.Load(ctx)
	require.NoError(t, err)
	require.Len(t, snap.Products, 1)
	assert.True(t, snap.Products[0].Price.Equal(decimal.RequireFromString("3.25")))
	require.Len(t, snap.Cart, 1)
	assert.Empty(t, snap.Categories)

	assert.True(t, mr.Exists("test:products"))
	assert.False(t, mr.Exists("test:categories"))
}

func TestStore_ChangesReachOtherRegisters(t *testing.T) {
	ctx := context.Background()
	mr := setupTestRedis(t)
	writer := newTestStore(t, mr)
	reader := newTestStore(t, mr)

	got := make(chan store.Snapshot, 4)
	cancel, err := reader.Subscribe(ctx, func(s store.Snapshot) { got <- s })
	require.NoError(t, err)
	defer cancel()

	require.NoError(t, writer.Save(ctx, store.Snapshot{
		Categories: []models.Category{{Name: "Coffee"}},
	}, store.Categories))

	select {
	case snap := <-got:
		require.Len(t, snap.Categories, 1)
		assert.Equal(t, "Coffee", snap.Categories[0].Name)
	case <-time.After(3 * time.Second):
		t.Fatal("reader never saw the change")
	}
}

func TestStore_CommitSaleAndReceipts(t *testing.T) {
	ctx := context.Background()
	mr := setupTestRedis(t)
	s := newTestStore(t, mr)

	require.NoError(t, s.Save(ctx, store.Snapshot{
		Cart: []models.CartLine{{ProductID: "p1", Quantity: 2}},
	}, store.Cart))

	base := time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)
	require.NoError(t, s.CommitSale(ctx, &models.Receipt{
		ID:           "r1",
		CustomerName: "Ana",
		Items:        []models.ReceiptItem{{Product: "Burger", Quantity: 2, Price: decimal.NewFromInt(10)}},
		Total:        decimal.NewFromInt(20),
		Date:         base,
	}))
	require.NoError(t, s.AddReceipt(ctx, &models.Receipt{ID: "r2", CustomerName: "Ben", Date: base.Add(time.Hour)}))
	assert.ErrorIs(t, s.AddReceipt(ctx, &models.Receipt{ID: "r2"}), store.ErrAlreadyExists)

	snap, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, snap.Cart)

	all, err := s.Receipts(ctx, store.ReceiptQuery{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "r2", all[0].ID)
	assert.Equal(t, "r1", all[1].ID)
	require.Len(t, all[1].Items, 1)
	assert.Equal(t, "Burger", all[1].Items[0].Product)

	window, err := s.Receipts(ctx, store.ReceiptQuery{From: base, To: base.Add(time.Hour)})
	require.NoError(t, err)
	require.Len(t, window, 1)
	assert.Equal(t, "r1", window[0].ID)

	r, err := s.Receipt(ctx, "r1")
	require.NoError(t, err)
	assert.True(t, r.Total.Equal(decimal.NewFromInt(20)))
	_, err = s.Receipt(ctx, "nope")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestStore_AdminsKeepPasswordHash(t *testing.T) {
	ctx := context.Background()
	mr := setupTestRedis(t)
	s := newTestStore(t, mr)

	require.NoError(t, s.CreateAdmin(ctx, &models.Admin{Username: "amy", Email: "amy@pos.test", PasswordHash: "hash"}))
	assert.ErrorIs(t, s.CreateAdmin(ctx, &models.Admin{Username: "amy"}), store.ErrAlreadyExists)

	a, err := s.AdminByUsername(ctx, "amy")
	require.NoError(t, err)
	assert.Equal(t, "hash", a.PasswordHash)

	a, err = s.AdminByEmail(ctx, "AMY@pos.test")
	require.NoError(t, err)
	assert.Equal(t, "amy", a.Username)

	a.Approved = true
	require.NoError(t, s.UpdateAdmin(ctx, &a))
	pending, err := s.Admins(ctx, true)
	require.NoError(t, err)
	assert.Empty(t, pending)

	require.NoError(t, s.DeleteAdmin(ctx, "amy"))
	assert.ErrorIs(t, s.DeleteAdmin(ctx, "amy"), store.ErrNotFound)
}

func TestStore_FailureIsPersistenceError(t *testing.T) {
	ctx := context.Background()
	mr := setupTestRedis(t)
	s := newTestStore(t, mr)

	mr.SetError("READONLY You can't write against a read only replica.")
	defer mr.SetError("")

	err := s.Save(ctx, store.Snapshot{}, store.Cart)
	assert.ErrorIs(t, err, store.ErrPersistence)
}
