// Package sqlstore persists the POS collections through gorm. The same code serves the
// on-device SQLite file and a server Postgres database.
package sqlstore

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/glebarez/sqlite"
	"github.com/junaidrashid-git/fastfood-pos/models"
	"github.com/junaidrashid-git/fastfood-pos/store"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type Store struct {
	db       *gorm.DB
	logger   *zap.Logger
	notifier *store.Notifier
}

var _ store.Store = (*Store)(nil)

// OpenSQLite opens (creating if needed) the SQLite database at path.
func OpenSQLite(path string, log *zap.Logger) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(path+"?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	return New(db, log)
}

// OpenPostgres connects with a DSN or URL as accepted by the pgx driver.
func OpenPostgres(dsn string, log *zap.Logger) (*Store, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	return New(db, log)
}

// New migrates the schema on db and returns a Store over it.
func New(db *gorm.DB, log *zap.Logger) (*Store, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if err := db.AutoMigrate(
		&models.Product{},
		&models.CartLine{},
		&models.Category{},
		&models.Receipt{},
		&models.ReceiptItem{},
		&models.Admin{},
	); err != nil {
		return nil, fmt.Errorf("auto-migrate: %w", err)
	}
	return &Store{db: db, logger: log, notifier: store.NewNotifier(log)}, nil
}

// DB exposes the underlying handle for health checks.
func (s *Store) DB() *gorm.DB { return s.db }

// Load reads products, cart and categories inside one transaction.
func (s *Store) Load(ctx context.Context) (store.Snapshot, error) {
	var snap store.Snapshot
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		snap = store.Snapshot{}
		if err := tx.Order("created_at, id").Find(&snap.Products).Error; err != nil {
			return fmt.Errorf("products: %w", err)
		}
		if err := tx.Order("position").Find(&snap.Cart).Error; err != nil {
			return fmt.Errorf("cart: %w", err)
		}
		if err := tx.Order("created_at, name").Find(&snap.Categories).Error; err != nil {
			return fmt.Errorf("categories: %w", err)
		}
		return nil
	})
	if err != nil {
		return store.Snapshot{}, store.Wrap("load inventory", err)
	}
	return snap, nil
}

func (s *Store) Save(ctx context.Context, snap store.Snapshot, collections ...store.Collection) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if store.Includes(collections, store.Products) {
			if err := tx.Where("1 = 1").Delete(&models.Product{}).Error; err != nil {
				return err
			}
			if len(snap.Products) > 0 {
				if err := tx.Create(&snap.Products).Error; err != nil {
					return err
				}
			}
		}
		if store.Includes(collections, store.Cart) {
			if err := replaceCart(tx, snap.Cart); err != nil {
				return err
			}
		}
		if store.Includes(collections, store.Categories) {
			if err := tx.Where("1 = 1").Delete(&models.Category{}).Error; err != nil {
				return err
			}
			if len(snap.Categories) > 0 {
				if err := tx.Create(&snap.Categories).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return store.Wrap("save "+joinCollections(collections), err)
	}
	s.notifier.Notify()
	return nil
}

func replaceCart(tx *gorm.DB, lines []models.CartLine) error {
	if err := tx.Where("1 = 1").Delete(&models.CartLine{}).Error; err != nil {
		return err
	}
	if len(lines) == 0 {
		return nil
	}
	rows := make([]models.CartLine, len(lines))
	for i, l := range lines {
		l.Position = i
		rows[i] = l
	}
	return tx.Create(&rows).Error
}

func (s *Store) CommitSale(ctx context.Context, receipt *models.Receipt) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := createReceipt(tx, receipt); err != nil {
			return err
		}
		return tx.Where("1 = 1").Delete(&models.CartLine{}).Error
	})
	if err != nil {
		return store.Wrap("commit sale", err)
	}
	s.notifier.Notify()
	return nil
}

func (s *Store) AddReceipt(ctx context.Context, receipt *models.Receipt) error {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Receipt{}).Where("id = ?", receipt.ID).Count(&count).Error; err != nil {
		return store.Wrap("add receipt", err)
	}
	if count > 0 {
		return store.ErrAlreadyExists
	}
	return store.Wrap("add receipt", createReceipt(s.db.WithContext(ctx), receipt))
}

func createReceipt(tx *gorm.DB, receipt *models.Receipt) error {
	receipt.Date = receipt.Date.UTC()
	for i := range receipt.Items {
		receipt.Items[i].ID = 0
		receipt.Items[i].ReceiptID = receipt.ID
		receipt.Items[i].Position = i
	}
	return tx.Create(receipt).Error
}

func (s *Store) Receipts(ctx context.Context, q store.ReceiptQuery) ([]models.Receipt, error) {
	db := s.db.WithContext(ctx).Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("position")
	})
	if !q.From.IsZero() {
		db = db.Where("date >= ?", q.From.UTC())
	}
	if !q.To.IsZero() {
		db = db.Where("date < ?", q.To.UTC())
	}
	if q.Limit > 0 {
		db = db.Limit(q.Limit)
	}
	var receipts []models.Receipt
	if err := db.Order("date DESC, id DESC").Find(&receipts).Error; err != nil {
		return nil, store.Wrap("list receipts", err)
	}
	return receipts, nil
}

func (s *Store) Receipt(ctx context.Context, id string) (models.Receipt, error) {
	var receipt models.Receipt
	err := s.db.WithContext(ctx).Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("position")
	}).First(&receipt, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Receipt{}, store.ErrNotFound
	}
	if err != nil {
		return models.Receipt{}, store.Wrap("get receipt", err)
	}
	return receipt, nil
}

// Subscribe reports changes made through this Store. Writers in other processes are not
// observed; the cloud backends cover that case.
func (s *Store) Subscribe(ctx context.Context, fn func(store.Snapshot)) (func(), error) {
	return s.notifier.Subscribe(ctx, s.Load, fn)
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (s *Store) CreateAdmin(ctx context.Context, admin *models.Admin) error {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Admin{}).Where("username = ?", admin.Username).Count(&count).Error; err != nil {
		return store.Wrap("create admin", err)
	}
	if count > 0 {
		return store.ErrAlreadyExists
	}
	return store.Wrap("create admin", s.db.WithContext(ctx).Create(admin).Error)
}

func (s *Store) AdminByUsername(ctx context.Context, username string) (models.Admin, error) {
	return s.findAdmin(ctx, "username = ?", username)
}

func (s *Store) AdminByEmail(ctx context.Context, email string) (models.Admin, error) {
	if email == "" {
		return models.Admin{}, store.ErrNotFound
	}
	return s.findAdmin(ctx, "LOWER(email) = ?", strings.ToLower(email))
}

func (s *Store) findAdmin(ctx context.Context, query string, arg string) (models.Admin, error) {
	var admin models.Admin
	err := s.db.WithContext(ctx).Where(query, arg).First(&admin).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Admin{}, store.ErrNotFound
	}
	if err != nil {
		return models.Admin{}, store.Wrap("find admin", err)
	}
	return admin, nil
}

func (s *Store) Admins(ctx context.Context, pendingOnly bool) ([]models.Admin, error) {
	db := s.db.WithContext(ctx).Order("username")
	if pendingOnly {
		db = db.Where("approved = ?", false)
	}
	var admins []models.Admin
	if err := db.Find(&admins).Error; err != nil {
		return nil, store.Wrap("list admins", err)
	}
	return admins, nil
}

func (s *Store) UpdateAdmin(ctx context.Context, admin *models.Admin) error {
	res := s.db.WithContext(ctx).Model(&models.Admin{}).Where("username = ?", admin.Username).
		Select("email", "name", "picture", "password_hash", "role", "approved").
		Updates(admin)
	if res.Error != nil {
		return store.Wrap("update admin", res.Error)
	}
	if res.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) DeleteAdmin(ctx context.Context, username string) error {
	res := s.db.WithContext(ctx).Where("username = ?", username).Delete(&models.Admin{})
	if res.Error != nil {
		return store.Wrap("delete admin", res.Error)
	}
	if res.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func joinCollections(cs []store.Collection) string {
	parts := make([]string, len(cs))
	for i, c := range cs {
		parts[i] = string(c)
	}
	return strings.Join(parts, "+")
}
