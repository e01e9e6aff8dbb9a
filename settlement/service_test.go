package settlement

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/junaidrashid-git/fastfood-pos/inventory"
	"github.com/junaidrashid-git/fastfood-pos/models"
	"github.com/junaidrashid-git/fastfood-pos/store"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingMirror struct {
	mu       sync.Mutex
	receipts []models.Receipt
	err      error
}

func (m *recordingMirror) Mirror(ctx context.Context, r models.Receipt) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.receipts = append(m.receipts, r)
	return m.err
}

type fixture struct {
	backend *store.Memory
	inv     *inventory.Store
	svc     *Service
	mirror  *recordingMirror
	now     time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		backend: store.NewMemory(nil),
		mirror:  &recordingMirror{},
		now:     time.Date(2026, 4, 12, 6, 30, 0, 0, time.UTC),
	}
	f.inv = inventory.New(f.backend)
	require.NoError(t, f.inv.Open(context.Background()))
	t.Cleanup(func() { _ = f.inv.Close() })

	f.svc = NewService(f.inv,
		WithMirror(f.mirror),
		WithClock(func() time.Time { return f.now }),
		WithIDGenerator(func() string { return "r-1" }),
	)
	return f
}

func (f *fixture) stock(t *testing.T, name, price string, qty, inCart int) models.Product {
	t.Helper()
	ctx := context.Background()
	p, err := f.inv.AddProduct(ctx, inventory.ProductInput{Name: name, Price: d(price), Quantity: qty})
	require.NoError(t, err)
	for i := 0; i < inCart; i++ {
		_, err := f.inv.AddToCart(ctx, p.ID)
		require.NoError(t, err)
	}
	return p
}

func TestFinalizeReceipt_CommitsCartSnapshot(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	burger := f.stock(t, "Burger", "10", 5, 2)
	f.stock(t, "Cola", "5", 5, 1)
	before := f.inv.Cart()

	r, err := f.svc.FinalizeReceipt(ctx, Checkout{CustomerName: "  Ana ", OrderType: "take-out", AmountPaid: "30"})
	require.NoError(t, err)

	assert.Equal(t, "Ana", r.CustomerName)
	assert.Equal(t, models.OrderTypeTakeOut, r.OrderType)
	assert.True(t, r.Total.Equal(d("25")))
	assert.True(t, r.AmountPaid.Equal(d("30")))
	assert.True(t, r.Change.Equal(d("5")))
	assert.Equal(t, f.now, r.Date)

	require.Len(t, r.Items, len(before))
	for i, line := range before {
		assert.Equal(t, line.Name, r.Items[i].Product)
		assert.Equal(t, line.Quantity, r.Items[i].Quantity)
		assert.True(t, line.Price.Equal(r.Items[i].Price))
	}

	assert.Empty(t, f.inv.Cart())
	p, _ := f.inv.Product(burger.ID)
	assert.Equal(t, 3, p.Quantity, "no restock after sale")

	stored, err := f.backend.Receipt(ctx, "r-1")
	require.NoError(t, err)
	assert.Equal(t, r.Items, stored.Items)

	require.Len(t, f.mirror.receipts, 1)
	assert.Equal(t, "r-1", f.mirror.receipts[0].ID)
}

func TestFinalizeReceipt_RejectionsLeaveCartAlone(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.stock(t, "Burger", "10", 5, 2)
	before := f.inv.Cart()

	cases := []struct {
		name string
		in   Checkout
		want error
	}{
		{"blank customer", Checkout{CustomerName: "   ", AmountPaid: "100"}, ErrEmptyCustomerName},
		{"short payment", Checkout{CustomerName: "Ana", AmountPaid: "19.99"}, ErrInsufficientPayment},
		{"garbage payment", Checkout{CustomerName: "Ana", AmountPaid: "twenty"}, ErrInsufficientPayment},
		{"bad order type", Checkout{CustomerName: "Ana", OrderType: "delivery", AmountPaid: "100"}, models.ErrInvalidOrderType},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.svc.FinalizeReceipt(ctx, tc.in)
			assert.ErrorIs(t, err, tc.want)
			assert.Equal(t, before, f.inv.Cart())
		})
	}

	receipts, err := f.backend.Receipts(ctx, store.ReceiptQuery{})
	require.NoError(t, err)
	assert.Empty(t, receipts)
	assert.Empty(t, f.mirror.receipts)
}

func TestFinalizeReceipt_EmptyCart(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.FinalizeReceipt(context.Background(), Checkout{CustomerName: "Ana", AmountPaid: "5"})
	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestFinalizeReceipt_MirrorFailureDoesNotFailSale(t *testing.T) {
	f := newFixture(t)
	f.mirror.err = errors.New("ledger down")
	f.stock(t, "Burger", "10", 1, 1)

	var hooked []models.Receipt
	f.svc.onReceipt = func(r models.Receipt) { hooked = append(hooked, r) }

	r, err := f.svc.FinalizeReceipt(context.Background(), Checkout{CustomerName: "Ana", AmountPaid: "10"})
	require.NoError(t, err)
	assert.True(t, r.Change.IsZero())
	assert.Equal(t, models.OrderTypeDineIn, r.OrderType)
	assert.Len(t, hooked, 1)
}

func TestPreview(t *testing.T) {
	f := newFixture(t)
	f.stock(t, "Burger", "10", 5, 2)
	f.stock(t, "Cola", "5", 5, 1)

	p, err := f.svc.Preview("30")
	require.NoError(t, err)
	assert.True(t, p.Total.Equal(decimal.NewFromInt(25)))
	assert.True(t, p.Change.Equal(decimal.NewFromInt(5)))

	p, err = f.svc.Preview("20")
	assert.ErrorIs(t, err, ErrInsufficientPayment)
	assert.True(t, p.Total.Equal(decimal.NewFromInt(25)))
	assert.Len(t, f.inv.Cart(), 2)
}
