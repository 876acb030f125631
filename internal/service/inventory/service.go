package inventory

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/mamadbah2/stockledger/internal/domain/models"
	"github.com/mamadbah2/stockledger/internal/metrics"
	"github.com/mamadbah2/stockledger/internal/repository"
)

// MutationRequest carries one stock movement as submitted by a client.
type MutationRequest struct {
	Code     string
	Kind     string
	Quantity string
	Note     string
	Actor    string
}

// Service applies movements to Stock and records them in the Ledger.
//
// Every write operation runs under one lock: it loads what it needs, computes the new rows,
// writes Stock and then Ledger. The two writes are not atomic; if the ledger write fails
// the stock change stays and the error is returned.
type Service struct {
	repo    repository.Store
	metrics *metrics.Metrics
	logger  *zap.Logger
	now     func() time.Time
	mu      sync.Mutex
}

// NewService wires an inventory service. m may be nil.
func NewService(repo repository.Store, m *metrics.Metrics, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		repo:    repo,
		metrics: m,
		logger:  logger,
		now:     time.Now,
	}
}

// ListStock returns the Stock table in storage order.
func (s *Service) ListStock(ctx context.Context) ([]models.StockItem, error) {
	return s.repo.ListStock(ctx)
}

// ListLedger returns the Ledger in append order.
func (s *Service) ListLedger(ctx context.Context) ([]models.LedgerEntry, error) {
	return s.repo.ListLedger(ctx)
}

// ApplyMutation adds (in) or subtracts (out) quantity from an item balance and appends the
// matching ledger entry. Balances have no floor.
func (s *Service) ApplyMutation(ctx context.Context, req MutationRequest) error {
	code := strings.TrimSpace(req.Code)

	kind, err := models.ParseKind(req.Kind)
	if err != nil {
		return err
	}

	quantity, err := parseQuantity(req.Quantity)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.repo.ListStock(ctx)
	if err != nil {
		return fmt.Errorf("load stock: %w", err)
	}

	item, _, ok := lo.FindIndexOf(items, func(it models.StockItem) bool { return code != "" && it.Code == code })
	if !ok {
		return fmt.Errorf("%w: code %q", models.ErrNotFound, code)
	}

	switch kind {
	case models.KindIn:
		item.Balance = item.Balance.Add(quantity)
	case models.KindOut:
		item.Balance = item.Balance.Sub(quantity)
	}

	entry := models.LedgerEntry{
		Timestamp: models.FormatTimestamp(s.now()),
		Code:      item.Code,
		Name:      item.Name,
		Kind:      kind,
		Quantity:  quantity,
		Note:      req.Note,
		Actor:     req.Actor,
	}

	if err := s.repo.UpsertStock(ctx, item); err != nil {
		return fmt.Errorf("save stock: %w", err)
	}
	if err := s.repo.AppendLedger(ctx, entry); err != nil {
		return fmt.Errorf("save ledger: %w", err)
	}

	if s.metrics != nil {
		s.metrics.Mutations.WithLabelValues(string(kind)).Inc()
	}

	s.logger.Info("mutation applied",
		zap.String("code", item.Code),
		zap.String("kind", string(kind)),
		zap.String("quantity", quantity.String()),
		zap.String("balance", item.Balance.String()),
		zap.String("actor", req.Actor))

	return nil
}

// AddItem registers a new item with a zero balance. The ledger is not touched.
func (s *Service) AddItem(ctx context.Context, code, name string) error {
	code = strings.TrimSpace(code)
	name = strings.TrimSpace(name)
	if code == "" || name == "" {
		return fmt.Errorf("%w: code and name are required", models.ErrValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.repo.ListStock(ctx)
	if err != nil {
		return fmt.Errorf("load stock: %w", err)
	}

	if lo.ContainsBy(items, func(it models.StockItem) bool { return it.Code == code }) {
		return fmt.Errorf("%w: %q", models.ErrDuplicate, code)
	}

	if err := s.repo.UpsertStock(ctx, models.StockItem{Code: code, Name: name, Balance: decimal.Zero}); err != nil {
		return fmt.Errorf("save stock: %w", err)
	}

	if s.metrics != nil {
		s.metrics.Items.Inc()
	}

	s.logger.Info("item registered", zap.String("code", code), zap.String("name", name))
	return nil
}

// LookupBalance resolves query to a balance: an exact code match first, otherwise the first
// item (in table order) whose name contains query, ignoring case.
func (s *Service) LookupBalance(ctx context.Context, query string) (decimal.Decimal, bool, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return decimal.Zero, false, nil
	}

	items, err := s.repo.ListStock(ctx)
	if err != nil {
		return decimal.Zero, false, fmt.Errorf("load stock: %w", err)
	}

	if item, ok := lo.Find(items, func(it models.StockItem) bool { return it.Code == query }); ok {
		return item.Balance, true, nil
	}

	needle := strings.ToLower(query)
	if item, ok := lo.Find(items, func(it models.StockItem) bool {
		return strings.Contains(strings.ToLower(it.Name), needle)
	}); ok {
		return item.Balance, true, nil
	}

	return decimal.Zero, false, nil
}

// parseQuantity reads a movement quantity; an empty value counts as zero.
func parseQuantity(value string) (decimal.Decimal, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return decimal.Zero, nil
	}
	q, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: quantity %q is not a number", models.ErrValidation, value)
	}
	return q, nil
}
