package admin

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"text/tabwriter"
	"time"

	"storefront/internal/model"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// StatusUpdateFailedMessage is alerted when a status change is rejected.
const StatusUpdateFailedMessage = "Failed to update the order status."

// OrdersOption configures an OrdersManager.
type OrdersOption func(*OrdersManager)

// WithClock overrides the time source used to stamp approvals.
func WithClock(now func() time.Time) OrdersOption {
	return func(m *OrdersManager) {
		m.now = now
	}
}

// OrdersManager lists orders and changes their status.
type OrdersManager struct {
	mu     sync.Mutex
	api    OrdersAPI
	now    func() time.Time
	logger zerolog.Logger

	orders   []model.Order
	statuses []model.Status
	filter   int64
	loading  bool
	err      string
	alert    string
}

// NewOrdersManager creates an orders manager.
func NewOrdersManager(api OrdersAPI, logger zerolog.Logger, opts ...OrdersOption) *OrdersManager {
	m := &OrdersManager{
		api:    api,
		now:    time.Now,
		logger: logger.With().Str("component", "orders-manager").Logger(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Load fetches orders and statuses concurrently.
func (m *OrdersManager) Load(ctx context.Context) error {
	m.mu.Lock()
	m.loading = true
	m.err = ""
	m.mu.Unlock()

	var (
		orders   []model.Order
		statuses []model.Status
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		orders, err = m.api.Orders(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		statuses, err = m.api.Statuses(gctx)
		return err
	})
	err := g.Wait()

	m.mu.Lock()
	defer m.mu.Unlock()
	m.loading = false

	if ctx.Err() != nil {
		return ctx.Err()
	}
	if err != nil {
		m.logger.Error().Err(err).Msg("failed to load orders")
		m.err = LoadErrorMessage
		return fmt.Errorf("failed to load orders: %w", err)
	}
	m.orders = orders
	m.statuses = statuses
	return nil
}

// ApprovedStatusID returns the id of the approved status, falling back to
// the backend's default seed when the statuses do not name it.
func (m *OrdersManager) ApprovedStatusID() int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.approvedStatusID()
}

func (m *OrdersManager) approvedStatusID() int64 {
	for _, s := range m.statuses {
		if strings.EqualFold(s.Name, model.StatusApproved) {
			return s.ID
		}
	}
	return model.StatusIDApproved
}

// ApprovalDate decides the approval date to send with a status change:
// moving to approved stamps now only when no date exists yet.
func ApprovalDate(current *time.Time, targetStatusID, approvedStatusID int64, now time.Time) *time.Time {
	if targetStatusID == approvedStatusID && current == nil {
		stamp := now.UTC()
		return &stamp
	}
	return current
}

// ChangeStatus moves an order to statusID. Local state changes only after
// the server accepted the update.
func (m *OrdersManager) ChangeStatus(ctx context.Context, orderID, statusID int64) error {
	m.mu.Lock()
	idx := m.indexOf(orderID)
	if idx < 0 {
		m.mu.Unlock()
		return model.ErrOrderNotFound
	}
	approval := ApprovalDate(m.orders[idx].ApprovalDate, statusID, m.approvedStatusID(), m.now())
	m.alert = ""
	m.mu.Unlock()

	patch := model.OrderStatusPatch{StatusID: statusID, ApprovalDate: approval}
	if err := m.api.PatchOrder(ctx, orderID, patch); err != nil {
		m.logger.Error().Err(err).Int64("order_id", orderID).Int64("status_id", statusID).Msg("failed to update order status")
		m.mu.Lock()
		m.alert = StatusUpdateFailedMessage
		m.mu.Unlock()
		return fmt.Errorf("failed to update order %d: %w", orderID, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if idx = m.indexOf(orderID); idx < 0 {
		return nil
	}
	o := &m.orders[idx]
	o.StatusID = statusID
	for _, s := range m.statuses {
		if s.ID == statusID {
			o.Status = s
			break
		}
	}
	o.ApprovalDate = approval
	m.logger.Info().Int64("order_id", orderID).Int64("status_id", statusID).Msg("order status updated")
	return nil
}

func (m *OrdersManager) indexOf(orderID int64) int {
	for i := range m.orders {
		if m.orders[i].ID == orderID {
			return i
		}
	}
	return -1
}

// SetFilter shows only orders with statusID; zero shows all.
func (m *OrdersManager) SetFilter(statusID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.filter = statusID
}

// Visible returns the orders passing the status filter.
func (m *OrdersManager) Visible() []model.Order {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]model.Order, 0, len(m.orders))
	for _, o := range m.orders {
		if m.filter == 0 || o.StatusID == m.filter {
			out = append(out, o)
		}
	}
	return out
}

// Order returns one order by id.
func (m *OrdersManager) Order(orderID int64) (model.Order, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if idx := m.indexOf(orderID); idx >= 0 {
		return m.orders[idx], true
	}
	return model.Order{}, false
}

// Statuses returns the loaded statuses.
func (m *OrdersManager) Statuses() []model.Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.Status, len(m.statuses))
	copy(out, m.statuses)
	return out
}

// Loading reports whether Load is in flight.
func (m *OrdersManager) Loading() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loading
}

// Error returns the load error message.
func (m *OrdersManager) Error() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.err
}

// Alert returns the last status change failure.
func (m *OrdersManager) Alert() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.alert
}

// Render writes the visible orders.
func (m *OrdersManager) Render(w io.Writer) error {
	if msg := m.Error(); msg != "" {
		_, err := fmt.Fprintln(w, msg)
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tAPPROVED\tSTATUS\tCUSTOMER\tEMAIL\tPHONE\tITEMS")
	for _, o := range m.Visible() {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%d\n",
			o.ID, o.ApprovalDateText(), o.Status.Name, o.CustomerName, o.Email, o.PhoneNumber, len(o.Items))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	if msg := m.Alert(); msg != "" {
		_, err := fmt.Fprintln(w, msg)
		return err
	}
	return nil
}
