package store

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/junaidrashid-git/fastfood-pos/models"
	"go.uber.org/zap"
)

// Memory keeps every collection in process. It backs tests and the "memory" backend
// mode; nothing survives a restart.
type Memory struct {
	notifier *Notifier

	mu       sync.RWMutex
	state    Snapshot
	receipts []models.Receipt
	admins   map[string]models.Admin
}

func NewMemory(logger *zap.Logger) *Memory {
	return &Memory{
		notifier: NewNotifier(logger),
		admins:   make(map[string]models.Admin),
	}
}

func (m *Memory) Load(ctx context.Context) (Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state.Clone(), nil
}

func (m *Memory) Save(ctx context.Context, snap Snapshot, collections ...Collection) error {
	m.mu.Lock()
	snap = snap.Clone()
	if Includes(collections, Products) {
		m.state.Products = snap.Products
	}
	if Includes(collections, Cart) {
		m.state.Cart = snap.Cart
	}
	if Includes(collections, Categories) {
		m.state.Categories = snap.Categories
	}
	m.mu.Unlock()

	m.notifier.Notify()
	return nil
}

func (m *Memory) CommitSale(ctx context.Context, receipt *models.Receipt) error {
	m.mu.Lock()
	m.receipts = append(m.receipts, cloneReceipt(*receipt))
	m.state.Cart = nil
	m.mu.Unlock()

	m.notifier.Notify()
	return nil
}

func (m *Memory) AddReceipt(ctx context.Context, receipt *models.Receipt) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.receipts {
		if r.ID == receipt.ID {
			return ErrAlreadyExists
		}
	}
	m.receipts = append(m.receipts, cloneReceipt(*receipt))
	return nil
}

func (m *Memory) Receipts(ctx context.Context, q ReceiptQuery) ([]models.Receipt, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]models.Receipt, 0, len(m.receipts))
	for _, r := range m.receipts {
		if q.Match(r.Date) {
			out = append(out, cloneReceipt(r))
		}
	}
	SortReceipts(out)
	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}

func (m *Memory) Receipt(ctx context.Context, id string) (models.Receipt, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, r := range m.receipts {
		if r.ID == id {
			return cloneReceipt(r), nil
		}
	}
	return models.Receipt{}, ErrNotFound
}

func (m *Memory) Subscribe(ctx context.Context, fn func(Snapshot)) (func(), error) {
	return m.notifier.Subscribe(ctx, m.Load, fn)
}

func (m *Memory) Close() error { return nil }

func (m *Memory) CreateAdmin(ctx context.Context, admin *models.Admin) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.admins[admin.Username]; ok {
		return ErrAlreadyExists
	}
	m.admins[admin.Username] = *admin
	return nil
}

func (m *Memory) AdminByUsername(ctx context.Context, username string) (models.Admin, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	a, ok := m.admins[username]
	if !ok {
		return models.Admin{}, ErrNotFound
	}
	return a, nil
}

func (m *Memory) AdminByEmail(ctx context.Context, email string) (models.Admin, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, a := range m.admins {
		if email != "" && strings.EqualFold(a.Email, email) {
			return a, nil
		}
	}
	return models.Admin{}, ErrNotFound
}

func (m *Memory) Admins(ctx context.Context, pendingOnly bool) ([]models.Admin, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]models.Admin, 0, len(m.admins))
	for _, a := range m.admins {
		if pendingOnly && a.Approved {
			continue
		}
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out, nil
}

func (m *Memory) UpdateAdmin(ctx context.Context, admin *models.Admin) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.admins[admin.Username]; !ok {
		return ErrNotFound
	}
	m.admins[admin.Username] = *admin
	return nil
}

func (m *Memory) DeleteAdmin(ctx context.Context, username string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.admins[username]; !ok {
		return ErrNotFound
	}
	delete(m.admins, username)
	return nil
}

// SortReceipts orders receipts newest first, ties broken by id.
func SortReceipts(rs []models.Receipt) {
	sort.SliceStable(rs, func(i, j int) bool {
		if rs[i].Date.Equal(rs[j].Date) {
			return rs[i].ID > rs[j].ID
		}
		return rs[i].Date.After(rs[j].Date)
	})
}

func cloneReceipt(r models.Receipt) models.Receipt {
	r.Items = append([]models.ReceiptItem(nil), r.Items...)
	return r
}
