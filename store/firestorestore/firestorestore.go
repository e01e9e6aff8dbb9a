// Package firestorestore is the cloud document backend. Every register listens to the
// products, cart and categories collections and reloads when any of them change.
package firestorestore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"cloud.google.com/go/firestore"
	"github.com/junaidrashid-git/fastfood-pos/models"
	"github.com/junaidrashid-git/fastfood-pos/store"
	"go.uber.org/zap"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type Store struct {
	client   *firestore.Client
	prefix   string
	logger   *zap.Logger
	notifier *store.Notifier

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

var _ store.Store = (*Store)(nil)

// New starts snapshot listeners on client. Collection names are prefixed with prefix,
// which lets several shops or test runs share one project.
func New(client *firestore.Client, prefix string, log *zap.Logger) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Store{
		client:   client,
		prefix:   prefix,
		logger:   log,
		notifier: store.NewNotifier(log),
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	for _, c := range []store.Collection{store.Products, store.Cart, store.Categories} {
		s.wg.Add(1)
		go s.watch(ctx, c)
	}
	return s
}

func (s *Store) col(c store.Collection) *firestore.CollectionRef {
	return s.client.Collection(s.prefix + string(c))
}

func (s *Store) watch(ctx context.Context, c store.Collection) {
	defer s.wg.Done()

	it := s.col(c).Snapshots(ctx)
	defer it.Stop()
	for {
		_, err := it.Next()
		if err != nil {
			if ctx.Err() != nil || status.Code(err) == codes.Canceled || errors.Is(err, iterator.Done) {
				return
			}
			s.logger.Warn("firestore listener stopped", zap.String("collection", string(c)), zap.Error(err))
			return
		}
		s.notifier.Notify()
	}
}

// Load reads all three collections in one read-only transaction so the snapshot never
// mixes documents from two different writes.
func (s *Store) Load(ctx context.Context) (store.Snapshot, error) {
	var snap store.Snapshot
	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap = store.Snapshot{}
		read := func(c store.Collection) ([]*firestore.DocumentSnapshot, error) {
			return tx.Documents(s.col(c).OrderBy("position", firestore.Asc)).GetAll()
		}

		docs, err := read(store.Products)
		if err != nil {
			return fmt.Errorf("products: %w", err)
		}
		for _, d := range docs {
			var p productDoc
			if err := d.DataTo(&p); err != nil {
				return fmt.Errorf("decode product %s: %w", d.Ref.ID, err)
			}
			snap.Products = append(snap.Products, p.model())
		}

		docs, err = read(store.Cart)
		if err != nil {
			return fmt.Errorf("cart: %w", err)
		}
		for _, d := range docs {
			var l cartDoc
			if err := d.DataTo(&l); err != nil {
				return fmt.Errorf("decode cart line %s: %w", d.Ref.ID, err)
			}
			snap.Cart = append(snap.Cart, l.model())
		}

		docs, err = read(store.Categories)
		if err != nil {
			return fmt.Errorf("categories: %w", err)
		}
		for _, d := range docs {
			var c categoryDoc
			if err := d.DataTo(&c); err != nil {
				return fmt.Errorf("decode category %s: %w", d.Ref.ID, err)
			}
			snap.Categories = append(snap.Categories, models.Category{Name: c.Name, CreatedAt: c.CreatedAt})
		}
		return nil
	}, firestore.ReadOnly)
	if err != nil {
		return store.Snapshot{}, store.Wrap("load inventory", err)
	}
	return snap, nil
}

// Save rewrites each named collection inside one transaction. Documents are keyed by
// position except products, which keep their id.
func (s *Store) Save(ctx context.Context, snap store.Snapshot, collections ...store.Collection) error {
	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		existing := make(map[store.Collection][]*firestore.DocumentSnapshot)
		for _, c := range collections {
			if c != store.Products && c != store.Cart && c != store.Categories {
				continue
			}
			docs, err := tx.Documents(s.col(c)).GetAll()
			if err != nil {
				return err
			}
			existing[c] = docs
		}

		writes := make(map[string]bool)
		set := func(ref *firestore.DocumentRef, data interface{}) error {
			writes[ref.Path] = true
			return tx.Set(ref, data)
		}

		if store.Includes(collections, store.Products) {
			for i, p := range snap.Products {
				if err := set(s.col(store.Products).Doc(p.ID), toProductDoc(p, i)); err != nil {
					return err
				}
			}
		}
		if store.Includes(collections, store.Cart) {
			for i, l := range snap.Cart {
				if err := set(s.col(store.Cart).Doc(positionID(i)), toCartDoc(l, i)); err != nil {
					return err
				}
			}
		}
		if store.Includes(collections, store.Categories) {
			for i, c := range snap.Categories {
				doc := categoryDoc{Name: c.Name, Position: i, CreatedAt: c.CreatedAt}
				if err := set(s.col(store.Categories).Doc(positionID(i)), doc); err != nil {
					return err
				}
			}
		}

		for _, docs := range existing {
			for _, d := range docs {
				if writes[d.Ref.Path] {
					continue
				}
				if err := tx.Delete(d.Ref); err != nil {
					return err
				}
			}
		}
		return nil
	})
	return store.Wrap("save "+collectionList(collections), err)
}

func (s *Store) CommitSale(ctx context.Context, receipt *models.Receipt) error {
	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		cart, err := tx.Documents(s.col(store.Cart)).GetAll()
		if err != nil {
			return err
		}
		if err := tx.Create(s.col(store.Receipts).Doc(receipt.ID), toReceiptDoc(*receipt)); err != nil {
			return err
		}
		for _, d := range cart {
			if err := tx.Delete(d.Ref); err != nil {
				return err
			}
		}
		return nil
	})
	return store.Wrap("commit sale", err)
}

func (s *Store) AddReceipt(ctx context.Context, receipt *models.Receipt) error {
	_, err := s.col(store.Receipts).Doc(receipt.ID).Create(ctx, toReceiptDoc(*receipt))
	if status.Code(err) == codes.AlreadyExists {
		return store.ErrAlreadyExists
	}
	return store.Wrap("add receipt", err)
}

func (s *Store) Receipts(ctx context.Context, q store.ReceiptQuery) ([]models.Receipt, error) {
	query := s.col(store.Receipts).Query
	if !q.From.IsZero() {
		query = query.Where("date", ">=", q.From)
	}
	if !q.To.IsZero() {
		query = query.Where("date", "<", q.To)
	}
	query = query.OrderBy("date", firestore.Desc).OrderBy("id", firestore.Desc)
	if q.Limit > 0 {
		query = query.Limit(q.Limit)
	}

	docs, err := query.Documents(ctx).GetAll()
	if err != nil {
		return nil, store.Wrap("list receipts", err)
	}
	receipts := make([]models.Receipt, 0, len(docs))
	for _, d := range docs {
		var r receiptDoc
		if err := d.DataTo(&r); err != nil {
			return nil, store.Wrap("decode receipt", err)
		}
		receipts = append(receipts, r.model())
	}
	return receipts, nil
}

func (s *Store) Receipt(ctx context.Context, id string) (models.Receipt, error) {
	d, err := s.col(store.Receipts).Doc(id).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return models.Receipt{}, store.ErrNotFound
	}
	if err != nil {
		return models.Receipt{}, store.Wrap("get receipt", err)
	}
	var r receiptDoc
	if err := d.DataTo(&r); err != nil {
		return models.Receipt{}, store.Wrap("decode receipt", err)
	}
	return r.model(), nil
}

func (s *Store) Subscribe(ctx context.Context, fn func(store.Snapshot)) (func(), error) {
	return s.notifier.Subscribe(ctx, s.Load, fn)
}

func (s *Store) Close() error {
	s.cancel()
	s.wg.Wait()
	return s.client.Close()
}

func (s *Store) CreateAdmin(ctx context.Context, admin *models.Admin) error {
	_, err := s.col(store.Admins).Doc(admin.Username).Create(ctx, toAdminDoc(*admin))
	if status.Code(err) == codes.AlreadyExists {
		return store.ErrAlreadyExists
	}
	return store.Wrap("create admin", err)
}

func (s *Store) AdminByUsername(ctx context.Context, username string) (models.Admin, error) {
	d, err := s.col(store.Admins).Doc(username).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return models.Admin{}, store.ErrNotFound
	}
	if err != nil {
		return models.Admin{}, store.Wrap("get admin", err)
	}
	var a adminDoc
	if err := d.DataTo(&a); err != nil {
		return models.Admin{}, store.Wrap("decode admin", err)
	}
	return a.model(), nil
}

func (s *Store) AdminByEmail(ctx context.Context, email string) (models.Admin, error) {
	if email == "" {
		return models.Admin{}, store.ErrNotFound
	}
	docs, err := s.col(store.Admins).Where("email_lower", "==", strings.ToLower(email)).Limit(1).Documents(ctx).GetAll()
	if err != nil {
		return models.Admin{}, store.Wrap("find admin", err)
	}
	if len(docs) == 0 {
		return models.Admin{}, store.ErrNotFound
	}
	var a adminDoc
	if err := docs[0].DataTo(&a); err != nil {
		return models.Admin{}, store.Wrap("decode admin", err)
	}
	return a.model(), nil
}

func (s *Store) Admins(ctx context.Context, pendingOnly bool) ([]models.Admin, error) {
	query := s.col(store.Admins).OrderBy("username", firestore.Asc)
	if pendingOnly {
		query = s.col(store.Admins).Where("approved", "==", false).OrderBy("username", firestore.Asc)
	}
	docs, err := query.Documents(ctx).GetAll()
	if err != nil {
		return nil, store.Wrap("list admins", err)
	}
	admins := make([]models.Admin, 0, len(docs))
	for _, d := range docs {
		var a adminDoc
		if err := d.DataTo(&a); err != nil {
			return nil, store.Wrap("decode admin", err)
		}
		admins = append(admins, a.model())
	}
	return admins, nil
}

func (s *Store) UpdateAdmin(ctx context.Context, admin *models.Admin) error {
	ref := s.col(store.Admins).Doc(admin.Username)
	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		if _, err := tx.Get(ref); err != nil {
			return err
		}
		return tx.Set(ref, toAdminDoc(*admin))
	})
	if status.Code(err) == codes.NotFound {
		return store.ErrNotFound
	}
	return store.Wrap("update admin", err)
}

func (s *Store) DeleteAdmin(ctx context.Context, username string) error {
	ref := s.col(store.Admins).Doc(username)
	if _, err := ref.Get(ctx); err != nil {
		if status.Code(err) == codes.NotFound {
			return store.ErrNotFound
		}
		return store.Wrap("delete admin", err)
	}
	_, err := ref.Delete(ctx)
	return store.Wrap("delete admin", err)
}

func positionID(i int) string {
	return fmt.Sprintf("%06d", i)
}

func collectionList(cs []store.Collection) string {
	parts := make([]string, len(cs))
	for i, c := range cs {
		parts[i] = string(c)
	}
	return strings.Join(parts, "+")
}
