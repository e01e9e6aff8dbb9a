// Package settlement turns the current cart into a paid receipt.
package settlement

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/junaidrashid-git/fastfood-pos/inventory"
	"github.com/junaidrashid-git/fastfood-pos/models"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const tracerName = "github.com/junaidrashid-git/fastfood-pos/settlement"

// Mirror receives every finalized receipt, e.g. a server-side ledger.
type Mirror interface {
	Mirror(ctx context.Context, receipt models.Receipt) error
}

// Checkout is what the cashier submits at the receipt screen.
type Checkout struct {
	CustomerName string
	OrderType    string
	AmountPaid   string
}

// Preview is the change calculation shown before the sale is committed.
type Preview struct {
	Total      decimal.Decimal `json:"total"`
	AmountPaid decimal.Decimal `json:"amountPaid"`
	Change     decimal.Decimal `json:"change"`
}

type Service struct {
	inventory *inventory.Store
	mirror    Mirror
	logger    *zap.Logger
	tracer    trace.Tracer
	now       func() time.Time
	newID     func() string
	onReceipt func(models.Receipt)
}

type Option func(*Service)

func WithMirror(m Mirror) Option { return func(s *Service) { s.mirror = m } }

func WithLogger(l *zap.Logger) Option { return func(s *Service) { s.logger = l } }

func WithClock(now func() time.Time) Option { return func(s *Service) { s.now = now } }

func WithIDGenerator(fn func() string) Option { return func(s *Service) { s.newID = fn } }

// WithReceiptHook calls fn after each committed sale.
func WithReceiptHook(fn func(models.Receipt)) Option { return func(s *Service) { s.onReceipt = fn } }

func NewService(inv *inventory.Store, opts ...Option) *Service {
	s := &Service{
		inventory: inv,
		logger:    zap.NewNop(),
		tracer:    otel.Tracer(tracerName),
		now:       time.Now,
		newID:     uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Preview computes the total and change for the current cart without committing.
func (s *Service) Preview(amountPaid string) (Preview, error) {
	total := ComputeTotal(s.inventory.Cart())
	paid, err := ParseAmount(amountPaid)
	if err != nil {
		return Preview{Total: total}, err
	}
	change, err := CalculateChange(total, paid)
	if err != nil {
		return Preview{Total: total, AmountPaid: paid}, err
	}
	return Preview{Total: total, AmountPaid: paid, Change: change}, nil
}

// FinalizeReceipt validates the checkout against the current cart, then persists the
// receipt and clears the cart in one backend commit. Nothing changes when validation
// fails.
func (s *Service) FinalizeReceipt(ctx context.Context, c Checkout) (*models.Receipt, error) {
	ctx, span := s.tracer.Start(ctx, "settlement.FinalizeReceipt")
	defer span.End()

	receipt, err := s.inventory.Settle(ctx, func(cart []models.CartLine) (*models.Receipt, error) {
		return s.build(cart, c)
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.logger.Info("checkout rejected", zap.String("customer", strings.TrimSpace(c.CustomerName)), zap.Error(err))
		return nil, err
	}

	span.SetAttributes(
		attribute.String("receipt.id", receipt.ID),
		attribute.Int("receipt.items", len(receipt.Items)),
		attribute.String("receipt.total", receipt.Total.StringFixed(2)),
	)
	s.logger.Info("🧾 receipt finalized",
		zap.String("receipt_id", receipt.ID),
		zap.String("customer", receipt.CustomerName),
		zap.String("total", receipt.Total.StringFixed(2)),
	)

	if s.mirror != nil {
		if err := s.mirror.Mirror(ctx, *receipt); err != nil {
			span.AddEvent("ledger mirror failed")
			s.logger.Warn("receipt mirror failed", zap.String("receipt_id", receipt.ID), zap.Error(err))
		}
	}
	if s.onReceipt != nil {
		s.onReceipt(*receipt)
	}
	return receipt, nil
}

func (s *Service) build(cart []models.CartLine, c Checkout) (*models.Receipt, error) {
	name := strings.TrimSpace(c.CustomerName)
	if name == "" {
		return nil, ErrEmptyCustomerName
	}
	if len(cart) == 0 {
		return nil, ErrEmptyCart
	}
	orderType, err := models.ParseOrderType(c.OrderType)
	if err != nil {
		return nil, err
	}
	total := ComputeTotal(cart)
	paid, err := ParseAmount(c.AmountPaid)
	if err != nil {
		return nil, err
	}
	change, err := CalculateChange(total, paid)
	if err != nil {
		return nil, err
	}

	id := s.newID()
	items := make([]models.ReceiptItem, len(cart))
	for i, l := range cart {
		items[i] = models.ReceiptItem{
			ReceiptID: id,
			Position:  i,
			Product:   l.Name,
			Quantity:  l.Quantity,
			Price:     l.Price,
		}
	}
	return &models.Receipt{
		ID:           id,
		CustomerName: name,
		OrderType:    orderType,
		Items:        items,
		Total:        total,
		AmountPaid:   paid,
		Change:       change,
		Date:         s.now().UTC(),
	}, nil
}
