// Package inventory owns the catalog and the cart. Every reservation moves units from a
// product's stock into the cart and back, so stock plus reserved units stays constant
// until checkout.
package inventory

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/junaidrashid-git/fastfood-pos/models"
	"github.com/junaidrashid-git/fastfood-pos/store"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Store serializes all catalog and cart mutations. In-memory state only changes after
// the backend accepted the write, so a failed save leaves the previous state in place.
type Store struct {
	backend  store.Backend
	logger   *zap.Logger
	now      func() time.Time
	newID    func() string
	listener func(store.Snapshot)

	mu          sync.Mutex
	state       store.Snapshot
	open        bool
	unsubscribe func()
}

const reloadTimeout = 10 * time.Second

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option { return func(s *Store) { s.logger = l } }

// WithClock overrides time.Now for timestamps.
func WithClock(now func() time.Time) Option { return func(s *Store) { s.now = now } }

// WithIDGenerator overrides the product ID generator, uuid.NewString by default.
func WithIDGenerator(fn func() string) Option { return func(s *Store) { s.newID = fn } }

// WithListener registers fn to receive every new state, local or pushed by the backend.
func WithListener(fn func(store.Snapshot)) Option { return func(s *Store) { s.listener = fn } }

// New returns a closed Store over backend. Call Open before using it.
func New(backend store.Backend, opts ...Option) *Store {
	s := &Store{
		backend: backend,
		logger:  zap.NewNop(),
		now:     time.Now,
		newID:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Open loads the backend state, seeds the default categories when there are none and
// starts following backend pushes.
func (s *Store) Open(ctx context.Context) error {
	snap, err := s.backend.Load(ctx)
	if err != nil {
		return store.Wrap("load inventory", err)
	}

	if len(snap.Categories) == 0 {
		now := s.now()
		for _, name := range models.DefaultCategories {
			snap.Categories = append(snap.Categories, models.Category{Name: name, CreatedAt: now})
		}
		if err := s.backend.Save(ctx, snap, store.Categories); err != nil {
			return store.Wrap("seed categories", err)
		}
		s.logger.Info("seeded default categories", zap.Strings("categories", models.DefaultCategories))
	}

	s.mu.Lock()
	s.state = snap
	s.open = true
	s.mu.Unlock()

	unsubscribe, err := s.backend.Subscribe(context.Background(), s.apply)
	if err != nil {
		return store.Wrap("subscribe inventory", err)
	}
	s.mu.Lock()
	s.unsubscribe = unsubscribe
	s.mu.Unlock()
	return nil
}

// Close stops following the backend. The backend itself stays open.
func (s *Store) Close() error {
	s.mu.Lock()
	unsubscribe := s.unsubscribe
	s.unsubscribe = nil
	s.open = false
	s.mu.Unlock()

	if unsubscribe != nil {
		unsubscribe()
	}
	return nil
}

// apply treats a backend push as a change signal only. The pushed snapshot may predate
// a write this store committed since, so state is reloaded while holding mu and never
// interleaves with mutate or Settle.
func (s *Store) apply(store.Snapshot) {
	s.mu.Lock()
	if !s.open {
		s.mu.Unlock()
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), reloadTimeout)
	snap, err := s.backend.Load(ctx)
	cancel()
	if err != nil {
		s.mu.Unlock()
		s.logger.Warn("inventory reload failed", zap.Error(err))
		return
	}
	s.state = snap
	s.mu.Unlock()

	s.publish(snap)
}

func (s *Store) publish(snap store.Snapshot) {
	if s.listener != nil {
		s.listener(snap.Clone())
	}
}

// mutate runs fn on a copy of the state and commits the copy once the backend has
// saved the named collections.
func (s *Store) mutate(ctx context.Context, op string, fn func(*store.Snapshot) error, collections ...store.Collection) error {
	s.mu.Lock()
	if !s.open {
		s.mu.Unlock()
		return ErrNotOpen
	}
	next := s.state.Clone()
	if err := fn(&next); err != nil {
		s.mu.Unlock()
		return err
	}
	if err := s.backend.Save(ctx, next, collections...); err != nil {
		s.mu.Unlock()
		s.logger.Error("inventory write failed", zap.String("op", op), zap.Error(err))
		return store.Wrap(op, err)
	}
	s.state = next
	s.mu.Unlock()

	s.publish(next)
	return nil
}

// AddToCart reserves one unit of the product.
func (s *Store) AddToCart(ctx context.Context, productID string) (models.CartLine, error) {
	var line models.CartLine
	err := s.mutate(ctx, "add to cart", func(st *store.Snapshot) error {
		pi := indexOfProduct(st.Products, productID)
		if pi < 0 {
			return ErrProductNotFound
		}
		p := &st.Products[pi]
		if p.Quantity <= 0 {
			return ErrOutOfStock
		}
		p.Quantity--

		if li := indexOfLine(st.Cart, productID); li >= 0 {
			l := &st.Cart[li]
			l.Quantity++
			l.Name = p.Name
			l.Price = p.Price
			line = *l
			return nil
		}
		line = models.CartLine{
			ProductID: p.ID,
			Name:      p.Name,
			Price:     p.Price,
			Quantity:  1,
			Position:  len(st.Cart),
		}
		st.Cart = append(st.Cart, line)
		return nil
	}, store.Products, store.Cart)
	return line, err
}

// RemoveFromCart drops the line at index and returns all of its reserved units to
// stock. An out of range index changes nothing and reports false.
func (s *Store) RemoveFromCart(ctx context.Context, index int) (bool, error) {
	removed := false
	err := s.mutate(ctx, "remove from cart", func(st *store.Snapshot) error {
		if index < 0 || index >= len(st.Cart) {
			return errNoop
		}
		line := st.Cart[index]
		if pi := indexOfProduct(st.Products, line.ProductID); pi >= 0 {
			st.Products[pi].Quantity += line.Quantity
		}
		st.Cart = append(st.Cart[:index], st.Cart[index+1:]...)
		renumber(st.Cart)
		removed = true
		return nil
	}, store.Products, store.Cart)
	if err == errNoop {
		return false, nil
	}
	return removed, err
}

// DeleteProduct removes the product and any cart line for it. Reserved units are
// discarded with the product.
func (s *Store) DeleteProduct(ctx context.Context, productID string) error {
	return s.mutate(ctx, "delete product", func(st *store.Snapshot) error {
		pi := indexOfProduct(st.Products, productID)
		if pi < 0 {
			return ErrProductNotFound
		}
		st.Products = append(st.Products[:pi], st.Products[pi+1:]...)
		if li := indexOfLine(st.Cart, productID); li >= 0 {
			st.Cart = append(st.Cart[:li], st.Cart[li+1:]...)
			renumber(st.Cart)
		}
		return nil
	}, store.Products, store.Cart)
}

// AddCategory adds a trimmed, case-sensitively unique label.
func (s *Store) AddCategory(ctx context.Context, name string) (models.Category, error) {
	name = strings.TrimSpace(name)
	var created models.Category
	err := s.mutate(ctx, "add category", func(st *store.Snapshot) error {
		if name == "" {
			return ErrEmptyName
		}
		if hasCategory(st.Categories, name) {
			return ErrDuplicateCategory
		}
		created = models.Category{Name: name, CreatedAt: s.now()}
		st.Categories = append(st.Categories, created)
		return nil
	}, store.Categories)
	return created, err
}

// DeleteCategory removes the label. Products keep whatever category they carry.
func (s *Store) DeleteCategory(ctx context.Context, name string) (bool, error) {
	name = strings.TrimSpace(name)
	removed := false
	err := s.mutate(ctx, "delete category", func(st *store.Snapshot) error {
		for i, c := range st.Categories {
			if c.Name == name {
				st.Categories = append(st.Categories[:i], st.Categories[i+1:]...)
				removed = true
				return nil
			}
		}
		return errNoop
	}, store.Categories)
	if err == errNoop {
		return false, nil
	}
	return removed, err
}

// ProductInput describes a new catalog entry.
type ProductInput struct {
	Name     string
	Price    decimal.Decimal
	Quantity int
	Category string
	Image    string
}

// ProductPatch carries the fields to change; nil fields are kept.
type ProductPatch struct {
	Name     *string
	Price    *decimal.Decimal
	Quantity *int
	Category *string
	Image    *string
}

func (s *Store) AddProduct(ctx context.Context, in ProductInput) (models.Product, error) {
	var created models.Product
	err := s.mutate(ctx, "add product", func(st *store.Snapshot) error {
		p := models.Product{
			ID:       s.newID(),
			Name:     strings.TrimSpace(in.Name),
			Price:    in.Price,
			Quantity: in.Quantity,
			Category: strings.TrimSpace(in.Category),
			Image:    strings.TrimSpace(in.Image),
		}
		if err := validateProduct(st, &p); err != nil {
			return err
		}
		p.CreatedAt = s.now()
		p.UpdatedAt = p.CreatedAt
		st.Products = append(st.Products, p)
		created = p
		return nil
	}, store.Products)
	return created, err
}

// UpdateProduct applies patch. A renamed product also renames its cart line.
func (s *Store) UpdateProduct(ctx context.Context, id string, patch ProductPatch) (models.Product, error) {
	var updated models.Product
	err := s.mutate(ctx, "update product", func(st *store.Snapshot) error {
		pi := indexOfProduct(st.Products, id)
		if pi < 0 {
			return ErrProductNotFound
		}
		p := st.Products[pi]
		if patch.Name != nil {
			p.Name = strings.TrimSpace(*patch.Name)
		}
		if patch.Price != nil {
			p.Price = *patch.Price
		}
		if patch.Quantity != nil {
			p.Quantity = *patch.Quantity
		}
		if patch.Category != nil {
			p.Category = strings.TrimSpace(*patch.Category)
		}
		if patch.Image != nil {
			p.Image = strings.TrimSpace(*patch.Image)
		}
		if err := validateProduct(st, &p); err != nil {
			return err
		}
		p.UpdatedAt = s.now()
		st.Products[pi] = p
		if li := indexOfLine(st.Cart, id); li >= 0 {
			st.Cart[li].Name = p.Name
			st.Cart[li].Price = p.Price
		}
		updated = p
		return nil
	}, store.Products, store.Cart)
	return updated, err
}

// ImportProducts adds new products and updates existing ones matched by name, in one
// write. Categories must already exist.
func (s *Store) ImportProducts(ctx context.Context, rows []ProductInput) (created, updated int, err error) {
	err = s.mutate(ctx, "import products", func(st *store.Snapshot) error {
		created, updated = 0, 0
		for _, in := range rows {
			name := strings.TrimSpace(in.Name)
			if pi := indexOfProductByName(st.Products, name); pi >= 0 {
				p := st.Products[pi]
				p.Price = in.Price
				p.Quantity = in.Quantity
				p.Category = strings.TrimSpace(in.Category)
				if img := strings.TrimSpace(in.Image); img != "" {
					p.Image = img
				}
				if err := validateProduct(st, &p); err != nil {
					return err
				}
				p.UpdatedAt = s.now()
				st.Products[pi] = p
				if li := indexOfLine(st.Cart, p.ID); li >= 0 {
					st.Cart[li].Price = p.Price
				}
				updated++
				continue
			}
			p := models.Product{
				ID:       s.newID(),
				Name:     name,
				Price:    in.Price,
				Quantity: in.Quantity,
				Category: strings.TrimSpace(in.Category),
				Image:    strings.TrimSpace(in.Image),
			}
			if err := validateProduct(st, &p); err != nil {
				return err
			}
			p.CreatedAt = s.now()
			p.UpdatedAt = p.CreatedAt
			st.Products = append(st.Products, p)
			created++
		}
		return nil
	}, store.Products, store.Cart)
	return created, updated, err
}

// Settle hands the cart to build and, if build returns a receipt, commits the sale and
// empties the cart. Sold units are not returned to stock. A build error leaves
// everything untouched.
func (s *Store) Settle(ctx context.Context, build func(cart []models.CartLine) (*models.Receipt, error)) (*models.Receipt, error) {
	s.mu.Lock()
	if !s.open {
		s.mu.Unlock()
		return nil, ErrNotOpen
	}
	cart := append([]models.CartLine(nil), s.state.Cart...)
	receipt, err := build(cart)
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}
	if err := s.backend.CommitSale(ctx, receipt); err != nil {
		s.mu.Unlock()
		s.logger.Error("sale commit failed", zap.String("receipt_id", receipt.ID), zap.Error(err))
		return nil, store.Wrap("commit sale", err)
	}
	s.state.Cart = nil
	next := s.state.Clone()
	s.mu.Unlock()

	s.publish(next)
	return receipt, nil
}

// Snapshot returns a deep copy of the current state.
func (s *Store) Snapshot() store.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// Products returns the catalog in insertion order.
func (s *Store) Products() []models.Product {
	return s.Snapshot().Products
}

// Product looks up one product by ID.
func (s *Store) Product(id string) (models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if pi := indexOfProduct(s.state.Products, id); pi >= 0 {
		return s.state.Products[pi], nil
	}
	return models.Product{}, ErrProductNotFound
}

// Cart returns the reserved lines in cart order.
func (s *Store) Cart() []models.CartLine {
	return s.Snapshot().Cart
}

// Categories returns the categories in creation order.
func (s *Store) Categories() []models.Category {
	return s.Snapshot().Categories
}

// Reserved returns the units of productID currently held in the cart.
func (s *Store) Reserved(productID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if li := indexOfLine(s.state.Cart, productID); li >= 0 {
		return s.state.Cart[li].Quantity
	}
	return 0
}
