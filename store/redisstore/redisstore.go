// Package redisstore keeps the POS collections in Redis and pushes change signals over
// pub/sub so every connected register sees the same products and cart.
package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/junaidrashid-git/fastfood-pos/models"
	"github.com/junaidrashid-git/fastfood-pos/store"
	"go.uber.org/zap"
)

const DefaultNamespace = "pos"

type Store struct {
	client   *redis.Client
	ns       string
	logger   *zap.Logger
	notifier *store.Notifier
	cancel   context.CancelFunc
	done     chan struct{}
}

var _ store.Store = (*Store)(nil)

// Open parses redisURL, checks connectivity and starts listening for change signals.
func Open(ctx context.Context, redisURL, namespace string, log *zap.Logger) (*Store, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect redis: %w", err)
	}
	return New(client, namespace, log)
}

// New wraps an existing client. The Store owns the client and closes it in Close.
func New(client *redis.Client, namespace string, log *zap.Logger) (*Store, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if namespace == "" {
		namespace = DefaultNamespace
	}
	s := &Store{
		client:   client,
		ns:       namespace,
		logger:   log,
		notifier: store.NewNotifier(log),
		done:     make(chan struct{}),
	}

	ctx, cancel := context.WithCancel(context.Background())
	pubsub := client.Subscribe(ctx, s.key("changes"))
	if _, err := pubsub.Receive(ctx); err != nil {
		cancel()
		_ = pubsub.Close()
		return nil, fmt.Errorf("subscribe to change channel: %w", err)
	}
	s.cancel = cancel
	go s.listen(ctx, pubsub)
	return s, nil
}

func (s *Store) listen(ctx context.Context, pubsub *redis.PubSub) {
	defer close(s.done)
	defer pubsub.Close()

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-ch:
			if !ok {
				return
			}
			s.notifier.Notify()
		}
	}
}

func (s *Store) key(parts ...string) string {
	return s.ns + ":" + strings.Join(parts, ":")
}

func (s *Store) publish(ctx context.Context, what string) {
	if err := s.client.Publish(ctx, s.key("changes"), what).Err(); err != nil {
		s.logger.Warn("publish change failed", zap.String("change", what), zap.Error(err))
	}
}

func (s *Store) Load(ctx context.Context) (store.Snapshot, error) {
	vals, err := s.client.MGet(ctx,
		s.key(string(store.Products)),
		s.key(string(store.Cart)),
		s.key(string(store.Categories)),
	).Result()
	if err != nil {
		return store.Snapshot{}, store.Wrap("load snapshot", err)
	}

	var snap store.Snapshot
	targets := []interface{}{&snap.Products, &snap.Cart, &snap.Categories}
	for i, v := range vals {
		raw, ok := v.(string)
		if !ok || raw == "" {
			continue
		}
		if err := json.Unmarshal([]byte(raw), targets[i]); err != nil {
			return store.Snapshot{}, store.Wrap("decode snapshot", err)
		}
	}
	return snap, nil
}

func (s *Store) Save(ctx context.Context, snap store.Snapshot, collections ...store.Collection) error {
	docs := map[store.Collection]interface{}{
		store.Products:   snap.Products,
		store.Cart:       snap.Cart,
		store.Categories: snap.Categories,
	}
	encoded := make(map[string][]byte, len(collections))
	for _, c := range collections {
		doc, ok := docs[c]
		if !ok {
			continue
		}
		b, err := json.Marshal(doc)
		if err != nil {
			return store.Wrap("encode "+string(c), err)
		}
		encoded[s.key(string(c))] = b
	}
	if len(encoded) == 0 {
		return nil
	}

	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for k, b := range encoded {
			pipe.Set(ctx, k, b, 0)
		}
		return nil
	})
	if err != nil {
		return store.Wrap("save snapshot", err)
	}
	s.publish(ctx, "snapshot")
	return nil
}

func (s *Store) CommitSale(ctx context.Context, receipt *models.Receipt) error {
	b, err := json.Marshal(receipt)
	if err != nil {
		return store.Wrap("encode receipt", err)
	}
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, s.key("receipts"), receipt.ID, b)
		pipe.ZAdd(ctx, s.key("receipts", "by_date"), &redis.Z{
			Score:  float64(receipt.Date.UnixMilli()),
			Member: receipt.ID,
		})
		pipe.Set(ctx, s.key(string(store.Cart)), "[]", 0)
		return nil
	})
	if err != nil {
		return store.Wrap("commit sale", err)
	}
	s.publish(ctx, "sale")
	return nil
}

func (s *Store) AddReceipt(ctx context.Context, receipt *models.Receipt) error {
	b, err := json.Marshal(receipt)
	if err != nil {
		return store.Wrap("encode receipt", err)
	}
	added, err := s.client.HSetNX(ctx, s.key("receipts"), receipt.ID, b).Result()
	if err != nil {
		return store.Wrap("add receipt", err)
	}
	if !added {
		return store.ErrAlreadyExists
	}
	err = s.client.ZAdd(ctx, s.key("receipts", "by_date"), &redis.Z{
		Score:  float64(receipt.Date.UnixMilli()),
		Member: receipt.ID,
	}).Err()
	return store.Wrap("index receipt", err)
}

func (s *Store) Receipts(ctx context.Context, q store.ReceiptQuery) ([]models.Receipt, error) {
	rng := &redis.ZRangeBy{Min: "-inf", Max: "+inf"}
	if !q.From.IsZero() {
		rng.Min = strconv.FormatInt(q.From.UnixMilli(), 10)
	}
	if !q.To.IsZero() {
		rng.Max = "(" + strconv.FormatInt(q.To.UnixMilli(), 10)
	}
	if q.Limit > 0 {
		rng.Count = int64(q.Limit)
	}

	ids, err := s.client.ZRevRangeByScore(ctx, s.key("receipts", "by_date"), rng).Result()
	if err != nil {
		return nil, store.Wrap("list receipts", err)
	}
	if len(ids) == 0 {
		return []models.Receipt{}, nil
	}

	vals, err := s.client.HMGet(ctx, s.key("receipts"), ids...).Result()
	if err != nil {
		return nil, store.Wrap("fetch receipts", err)
	}
	receipts := make([]models.Receipt, 0, len(vals))
	for _, v := range vals {
		raw, ok := v.(string)
		if !ok {
			continue
		}
		var r models.Receipt
		if err := json.Unmarshal([]byte(raw), &r); err != nil {
			return nil, store.Wrap("decode receipt", err)
		}
		receipts = append(receipts, r)
	}
	return receipts, nil
}

func (s *Store) Receipt(ctx context.Context, id string) (models.Receipt, error) {
	raw, err := s.client.HGet(ctx, s.key("receipts"), id).Result()
	if errors.Is(err, redis.Nil) {
		return models.Receipt{}, store.ErrNotFound
	}
	if err != nil {
		return models.Receipt{}, store.Wrap("get receipt", err)
	}
	var r models.Receipt
	if err := json.Unmarshal([]byte(raw), &r); err != nil {
		return models.Receipt{}, store.Wrap("decode receipt", err)
	}
	return r, nil
}

// Subscribe delivers a fresh snapshot after any register publishes a change.
func (s *Store) Subscribe(ctx context.Context, fn func(store.Snapshot)) (func(), error) {
	return s.notifier.Subscribe(ctx, s.Load, fn)
}

func (s *Store) Close() error {
	s.cancel()
	<-s.done
	return s.client.Close()
}

func (s *Store) CreateAdmin(ctx context.Context, admin *models.Admin) error {
	b, err := json.Marshal(adminDoc(*admin))
	if err != nil {
		return store.Wrap("encode admin", err)
	}
	added, err := s.client.HSetNX(ctx, s.key("admins"), admin.Username, b).Result()
	if err != nil {
		return store.Wrap("create admin", err)
	}
	if !added {
		return store.ErrAlreadyExists
	}
	return nil
}

func (s *Store) AdminByUsername(ctx context.Context, username string) (models.Admin, error) {
	raw, err := s.client.HGet(ctx, s.key("admins"), username).Result()
	if errors.Is(err, redis.Nil) {
		return models.Admin{}, store.ErrNotFound
	}
	if err != nil {
		return models.Admin{}, store.Wrap("get admin", err)
	}
	var doc adminDoc
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return models.Admin{}, store.Wrap("decode admin", err)
	}
	return models.Admin(doc), nil
}

func (s *Store) AdminByEmail(ctx context.Context, email string) (models.Admin, error) {
	if email == "" {
		return models.Admin{}, store.ErrNotFound
	}
	admins, err := s.allAdmins(ctx)
	if err != nil {
		return models.Admin{}, err
	}
	for _, a := range admins {
		if strings.EqualFold(a.Email, email) {
			return a, nil
		}
	}
	return models.Admin{}, store.ErrNotFound
}

func (s *Store) Admins(ctx context.Context, pendingOnly bool) ([]models.Admin, error) {
	all, err := s.allAdmins(ctx)
	if err != nil {
		return nil, err
	}
	out := all[:0]
	for _, a := range all {
		if pendingOnly && a.Approved {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

func (s *Store) allAdmins(ctx context.Context) ([]models.Admin, error) {
	vals, err := s.client.HGetAll(ctx, s.key("admins")).Result()
	if err != nil {
		return nil, store.Wrap("list admins", err)
	}
	admins := make([]models.Admin, 0, len(vals))
	for _, raw := range vals {
		var doc adminDoc
		if err := json.Unmarshal([]byte(raw), &doc); err != nil {
			return nil, store.Wrap("decode admin", err)
		}
		admins = append(admins, models.Admin(doc))
	}
	sortAdmins(admins)
	return admins, nil
}

func (s *Store) UpdateAdmin(ctx context.Context, admin *models.Admin) error {
	exists, err := s.client.HExists(ctx, s.key("admins"), admin.Username).Result()
	if err != nil {
		return store.Wrap("update admin", err)
	}
	if !exists {
		return store.ErrNotFound
	}
	b, err := json.Marshal(adminDoc(*admin))
	if err != nil {
		return store.Wrap("encode admin", err)
	}
	return store.Wrap("update admin", s.client.HSet(ctx, s.key("admins"), admin.Username, b).Err())
}

func (s *Store) DeleteAdmin(ctx context.Context, username string) error {
	n, err := s.client.HDel(ctx, s.key("admins"), username).Result()
	if err != nil {
		return store.Wrap("delete admin", err)
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}
