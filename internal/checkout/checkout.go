package checkout

import (
	"context"

	"github.com/asaskevich/EventBus"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/codebookhq/codebook/internal/backend"
	"github.com/codebookhq/codebook/internal/cart"
	"github.com/codebookhq/codebook/internal/domain"
	"github.com/codebookhq/codebook/pkg/metrics"
)

// TopicOrderCreated is published with the persisted order after every
// successful checkout.
const TopicOrderCreated = "order:created"

var ErrEmptyCart = errors.New("cart is empty")

// Result mirrors the order confirmation view: Status reports whether
// the purchase went through, and Order is set only on success. A
// failed checkout leaves the cart untouched so the shopper can retry.
type Result struct {
	Status bool         `json:"status"`
	Order  domain.Order `json:"order,omitempty"`
}

type Service struct {
	carts   *cart.Manager
	backend *backend.Client
	bus     EventBus.Bus
}

func NewService(carts *cart.Manager, client *backend.Client, bus EventBus.Bus) *Service {
	return &Service{carts: carts, backend: client, bus: bus}
}

// Submit turns the browser's cart into a persisted order.
//
// The payment fields are checked for presence only; no card network is
// involved and the card data never reaches the order record. The cart
// is snapshotted before submission and cleared exactly once, after the
// backend confirms the order.
func (s *Service) Submit(ctx context.Context, browserID string, payment domain.Payment) (Result, error) {
	if missing := payment.MissingFields(); len(missing) > 0 {
		return Result{}, errors.WithStack(&backend.ValidationError{Fields: missing})
	}

	bucket := s.carts.Get(browserID)
	if bucket.Len() == 0 {
		return Result{}, errors.WithStack(ErrEmptyCart)
	}

	user, err := s.backend.GetUser(ctx, browserID)
	if err != nil {
		return Result{Status: false}, err
	}

	cartList := bucket.Items()
	total := bucket.Total()

	order, err := s.backend.CreateOrder(ctx, browserID, cartList, total, user)
	if err != nil {
		// Deliberately keep the cart: the confirmation view shows the
		// failure and the shopper may submit again.
		return Result{Status: false}, err
	}

	bucket.Clear()
	metrics.CounterInc(metrics.MetricOrderCreated)
	if s.bus != nil {
		s.bus.Publish(TopicOrderCreated, order)
	}
	zap.S().Infof("order %d created for user %d, amount %.2f", order.ID, order.User.ID, order.AmountPaid)

	return Result{Status: true, Order: order}, nil
}
