package order

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"ration-shop-go/internal/domain/family"
	"ration-shop-go/internal/metrics"
	"ration-shop-go/pkg/logger"

	"github.com/google/uuid"
)

const tokenAttempts = 10

// FamilyDirectory resolves the ordering family.
type FamilyDirectory interface {
	GetFamilyByCode(ctx context.Context, code string) (*family.Family, error)
}

// CheckoutVerifier authorizes the single-use checkout code before any stock
// is touched.
type CheckoutVerifier interface {
	VerifyCheckout(ctx context.Context, email, code string) error
}

type Service struct {
	repo        Repository
	families    FamilyDirectory
	verifier    CheckoutVerifier
	lockTimeout time.Duration
	log         logger.Logger
}

func NewService(repo Repository, families FamilyDirectory, verifier CheckoutVerifier, lockTimeout time.Duration, log logger.Logger) *Service {
	if lockTimeout == 0 {
		lockTimeout = 5 * time.Second
	}
	return &Service{
		repo:        repo,
		families:    families,
		verifier:    verifier,
		lockTimeout: lockTimeout,
		log:         log,
	}
}

// PlaceOrder commits a multi-line order in one transaction. The checkout code
// is consumed first; then every line decrements stock with an atomic
// conditional update, so two concurrent orders can never take the same unit
// twice. Any failed line rolls the whole order back.
func (s *Service) PlaceOrder(ctx context.Context, input PlaceOrderInput) (*Order, error) {
	lines, err := normalizeLines(input.Lines)
	if err != nil {
		metrics.OrdersRejected.WithLabelValues("invalid").Inc()
		return nil, err
	}

	fam, err := s.families.GetFamilyByCode(ctx, strings.TrimSpace(input.FamilyCode))
	if err != nil {
		metrics.OrdersRejected.WithLabelValues("family").Inc()
		return nil, err
	}

	if err := s.verifier.VerifyCheckout(ctx, input.Email, input.OTPCode); err != nil {
		metrics.OrdersRejected.WithLabelValues("otp").Inc()
		return nil, err
	}

	flow := input.Flow
	if flow == "" {
		flow = FlowImmediate
	}

	txCtx, cancel := context.WithTimeout(ctx, s.lockTimeout)
	defer cancel()

	var placed *Order
	err = s.repo.Transaction(txCtx, func(tx Repository) error {
		placed, err = s.commit(txCtx, tx, fam, input.OTPCode, flow, lines)
		return err
	})
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
			metrics.OrdersRejected.WithLabelValues("busy").Inc()
			return nil, ErrBusy
		}
		if errors.Is(err, ErrInsufficientStock) {
			metrics.OrdersRejected.WithLabelValues("stock").Inc()
		}
		return nil, err
	}

	metrics.OrdersPlaced.Inc()
	s.log.Info("order.place: order committed",
		"token", placed.Token, "family", fam.Code, "total", placed.TotalPrice)
	return placed, nil
}

func (s *Service) commit(ctx context.Context, tx Repository, fam *family.Family, otpCode string, flow PaymentFlow, lines []Line) (*Order, error) {
	ids := make([]string, 0, len(lines))
	for _, line := range lines {
		ids = append(ids, line.ItemID)
	}

	items, err := tx.GetOrderableItems(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]OrderableItem, len(items))
	for _, item := range items {
		byID[item.ID] = item
	}

	o := Order{
		ID:            uuid.NewString(),
		FamilyID:      fam.ID,
		OTPCode:       otpCode,
		PaymentStatus: StatusPending,
	}
	if flow == FlowImmediate {
		o.PaymentStatus = StatusPaid
	}

	var total float64
	orderItems := make([]OrderItem, 0, len(lines))
	for i, line := range lines {
		item, ok := byID[line.ItemID]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrItemNotFound, line.ItemID)
		}

		taken, err := tx.DecrementStock(ctx, item.ID, line.Quantity)
		if err != nil {
			return nil, err
		}
		if !taken {
			return nil, fmt.Errorf("%w: %s", ErrInsufficientStock, item.Name)
		}

		total += item.Price * float64(line.Quantity)
		orderItems = append(orderItems, OrderItem{
			ID:        uuid.NewString(),
			OrderID:   o.ID,
			ItemID:    item.ID,
			ItemName:  item.Name,
			Quantity:  line.Quantity,
			UnitPrice: item.Price,
			Position:  i + 1,
		})
	}

	o.TotalPrice = math.Round(total*100) / 100
	if o.Token, err = s.newToken(ctx, tx); err != nil {
		return nil, err
	}

	if err := tx.CreateOrder(ctx, &o); err != nil {
		return nil, err
	}
	if err := tx.CreateOrderItems(ctx, orderItems); err != nil {
		return nil, err
	}
	o.Items = orderItems

	return &o, nil
}

func (s *Service) newToken(ctx context.Context, tx Repository) (string, error) {
	for i := 0; i < tokenAttempts; i++ {
		token := uuid.NewString()[:tokenLength]
		taken, err := tx.IsTokenTaken(ctx, token)
		if err != nil {
			return "", err
		}
		if !taken {
			return token, nil
		}
	}
	return "", ErrTokenExhausted
}

// MarkPaid settles a deferred order. Settling twice, or settling a failed
// order, reports ErrAlreadySettled.
func (s *Service) MarkPaid(ctx context.Context, token string) error {
	return s.settle(ctx, token, StatusPaid)
}

// MarkFailed records a failed payment for a pending order.
func (s *Service) MarkFailed(ctx context.Context, token string) error {
	return s.settle(ctx, token, StatusFailed)
}

func (s *Service) settle(ctx context.Context, token, status string) error {
	token = strings.TrimSpace(token)
	moved, err := s.repo.SettleIfPending(ctx, token, status)
	if err != nil {
		return err
	}
	if !moved {
		if _, err := s.repo.GetOrderByToken(ctx, token); err != nil {
			return err
		}
		return fmt.Errorf("%w: %s", ErrAlreadySettled, token)
	}
	return nil
}

func (s *Service) GetOrder(ctx context.Context, token string) (*Order, error) {
	return s.repo.GetOrderByToken(ctx, strings.TrimSpace(token))
}

// ListOrders returns orders for the admin view; an empty area means all.
func (s *Service) ListOrders(ctx context.Context, area string) ([]Summary, error) {
	return s.repo.ListOrders(ctx, strings.TrimSpace(area))
}

// FindPaidByOTP locates paid orders in an area by their checkout code, for
// pickup verification at the shop counter.
func (s *Service) FindPaidByOTP(ctx context.Context, otpCode, area string) ([]Summary, error) {
	summaries, err := s.repo.ListPaidByOTPAndArea(ctx, strings.TrimSpace(otpCode), strings.TrimSpace(area))
	if err != nil {
		return nil, err
	}
	if len(summaries) == 0 {
		return nil, ErrOrderNotFound
	}
	return summaries, nil
}

// LatestForFamily returns the family's newest order.
func (s *Service) LatestForFamily(ctx context.Context, familyCode string) (*Order, error) {
	fam, err := s.families.GetFamilyByCode(ctx, strings.TrimSpace(familyCode))
	if err != nil {
		return nil, err
	}
	return s.repo.LatestOrderForFamily(ctx, fam.ID)
}

func normalizeLines(lines []Line) ([]Line, error) {
	merged := make([]Line, 0, len(lines))
	index := make(map[string]int, len(lines))

	for _, line := range lines {
		if strings.TrimSpace(line.ItemID) == "" {
			continue
		}
		if line.Quantity <= 0 {
			return nil, fmt.Errorf("%w: %s", ErrInvalidQuantity, line.ItemID)
		}
		if at, ok := index[line.ItemID]; ok {
			merged[at].Quantity += line.Quantity
			continue
		}
		index[line.ItemID] = len(merged)
		merged = append(merged, line)
	}

	if len(merged) == 0 {
		return nil, ErrEmptyOrder
	}
	return merged, nil
}
