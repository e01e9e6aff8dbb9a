package inventory

import (
	"context"
	"math/rand"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/junaidrashid-git/fastfood-pos/models"
	"github.com/junaidrashid-git/fastfood-pos/store"
	"github.com/junaidrashid-git/fastfood-pos/store/redisstore"
	"github.com/junaidrashid-git/fastfood-pos/store/sqlstore"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type backendCase struct {
	name string
	open func(t *testing.T) store.Backend
}

// backendCases covers every backend that runs without external services.
func backendCases() []backendCase {
	return []backendCase{
		{name: "memory", open: func(t *testing.T) store.Backend {
			return store.NewMemory(zap.NewNop())
		}},
		{name: "sqlite", open: func(t *testing.T) store.Backend {
			s, err := sqlstore.OpenSQLite(filepath.Join(t.TempDir(), "pos.db"), zap.NewNop())
			require.NoError(t, err)
			t.Cleanup(func() { _ = s.Close() })
			return s
		}},
		{name: "redis", open: func(t *testing.T) store.Backend {
			mr := miniredis.RunT(t)
			client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
			s, err := redisstore.New(client, "test", zap.NewNop())
			require.NoError(t, err)
			t.Cleanup(func() { _ = s.Close() })
			return s
		}},
	}
}

func iterations(n int) int {
	if testing.Short() {
		return n / 10
	}
	return n
}

func TestBackends_AddToCartKeepsEveryReservation(t *testing.T) {
	for _, tc := range backendCases() {
		t.Run(tc.name, func(t *testing.T) {
			ctx := context.Background()
			backend := tc.open(t)
			s := openStore(t, backend)
			p := addProduct(t, s, "Hawaiian", "9.50", 100000)

			n := iterations(3000)
			for i := 0; i < n; i++ {
				_, err := s.AddToCart(ctx, p.ID)
				require.NoError(t, err, "add %d", i)
			}

			persisted, err := backend.Load(ctx)
			require.NoError(t, err)
			require.Len(t, persisted.Cart, 1)
			assert.Equal(t, n, persisted.Cart[0].Quantity)
			require.Len(t, persisted.Products, 1)
			assert.Equal(t, 100000-n, persisted.Products[0].Quantity)

			assert.Equal(t, n, s.Reserved(p.ID))
		})
	}
}

func TestBackends_ConservationAcrossRandomSequences(t *testing.T) {
	for _, tc := range backendCases() {
		t.Run(tc.name, func(t *testing.T) {
			ctx := context.Background()
			backend := tc.open(t)
			s := openStore(t, backend)

			initial := map[string]int{}
			var ids []string
			for i, name := range []string{"Hawaiian", "Margherita", "Cola"} {
				p := addProduct(t, s, name, "5", 400+i*100)
				initial[p.ID] = p.Quantity
				ids = append(ids, p.ID)
			}

			reserved := map[string]int{}
			rng := rand.New(rand.NewSource(11))
			n := iterations(3000)
			for step := 0; step < n; step++ {
				if rng.Intn(4) == 0 {
					cart := s.Cart()
					idx := rng.Intn(len(cart) + 1)
					removed, err := s.RemoveFromCart(ctx, idx)
					require.NoError(t, err)
					if removed {
						reserved[cart[idx].ProductID] = 0
					}
					continue
				}
				id := ids[rng.Intn(len(ids))]
				_, err := s.AddToCart(ctx, id)
				if err != nil {
					require.ErrorIs(t, err, ErrOutOfStock)
					continue
				}
				reserved[id]++
			}

			persisted, err := backend.Load(ctx)
			require.NoError(t, err)
			local := s.Cart()
			require.Len(t, persisted.Cart, len(local))
			for i, l := range local {
				assert.Equal(t, l.ProductID, persisted.Cart[i].ProductID)
				assert.Equal(t, l.Quantity, persisted.Cart[i].Quantity)
			}

			inCart := map[string]int{}
			for _, l := range persisted.Cart {
				inCart[l.ProductID] += l.Quantity
			}
			for _, p := range persisted.Products {
				assert.Equal(t, reserved[p.ID], inCart[p.ID], "reserved units of %s", p.Name)
				assert.Equal(t, initial[p.ID], p.Quantity+inCart[p.ID], "stock plus reserved for %s", p.Name)
			}
		})
	}
}

func TestBackends_SettleNeverResellsACart(t *testing.T) {
	for _, tc := range backendCases() {
		t.Run(tc.name, func(t *testing.T) {
			ctx := context.Background()
			backend := tc.open(t)
			s := openStore(t, backend)

			const stock = 100000
			var ids []string
			for _, name := range []string{"Burger", "Fries"} {
				ids = append(ids, addProduct(t, s, name, "4.25", stock).ID)
			}

			built := map[string][]models.CartLine{}
			rng := rand.New(rand.NewSource(3))
			n := iterations(800)
			for i := 0; i < n; i++ {
				for k := rng.Intn(3); k >= 0; k-- {
					_, err := s.AddToCart(ctx, ids[rng.Intn(len(ids))])
					require.NoError(t, err)
				}
				_, err := s.Settle(ctx, func(cart []models.CartLine) (*models.Receipt, error) {
					r := &models.Receipt{ID: uuid.NewString(), CustomerName: "Walk-in", Date: s.now()}
					for _, l := range cart {
						r.Items = append(r.Items, models.ReceiptItem{Product: l.Name, Quantity: l.Quantity, Price: l.Price})
						r.Total = r.Total.Add(l.Price.Mul(decimal.NewFromInt(int64(l.Quantity))))
					}
					built[r.ID] = cart
					return r, nil
				})
				require.NoError(t, err, "sale %d", i)
			}

			receipts, err := backend.Receipts(ctx, store.ReceiptQuery{})
			require.NoError(t, err)
			require.Len(t, receipts, n)

			sold := 0
			for _, r := range receipts {
				cart, ok := built[r.ID]
				require.True(t, ok, "unknown receipt %s", r.ID)
				require.Len(t, r.Items, len(cart))
				for i, item := range r.Items {
					assert.Equal(t, cart[i].Name, item.Product)
					assert.Equal(t, cart[i].Quantity, item.Quantity)
					sold += item.Quantity
				}
			}

			persisted, err := backend.Load(ctx)
			require.NoError(t, err)
			assert.Empty(t, persisted.Cart)
			remaining := 0
			for _, p := range persisted.Products {
				remaining += p.Quantity
			}
			assert.Equal(t, len(ids)*stock, remaining+sold)
		})
	}
}
