package repository

import (
	"context"
	"sort"
	"strings"
	"sync"

	"storefront/internal/model"

	"github.com/shopspring/decimal"
)

// Seed is the initial content of a DB.
type Seed struct {
	Categories []model.Category
	Statuses   []model.Status
	Products   []model.Product
}

// DefaultSeed returns the reference data the backend starts with.
func DefaultSeed() Seed {
	return Seed{
		Categories: []model.Category{
			{ID: 1, Name: "Electronics"},
			{ID: 2, Name: "Books"},
			{ID: 3, Name: "Home"},
		},
		Statuses: []model.Status{
			{ID: model.StatusIDNew, Name: model.StatusNew},
			{ID: model.StatusIDApproved, Name: model.StatusApproved},
			{ID: 3, Name: model.StatusCompleted},
			{ID: 4, Name: model.StatusCanceled},
		},
		Products: []model.Product{
			{
				ID:          1,
				Name:        "Wireless Mouse",
				Description: "Compact mouse with a silent click.",
				UnitPrice:   decimal.RequireFromString("49.99"),
				UnitWeight:  decimal.RequireFromString("0.1"),
				CategoryID:  1,
			},
		},
	}
}

type orderRecord struct {
	order      model.Order
	customerID int64
}

// DB is an in-memory data store shared by the repositories.
type DB struct {
	mu sync.RWMutex

	categories map[int64]model.Category
	statuses   map[int64]model.Status
	products   map[int64]model.Product
	orders     map[int64]*orderRecord
	reviews    map[int64]model.Review // keyed by order ID
	users      map[string]model.User  // keyed by lower-cased email

	nextProductID   int64
	nextOrderID     int64
	nextOrderItemID int64
	nextReviewID    int64
	nextUserID      int64
}

// NewDB creates a DB holding a copy of seed.
func NewDB(seed Seed) *DB {
	db := &DB{
		categories:      make(map[int64]model.Category),
		statuses:        make(map[int64]model.Status),
		products:        make(map[int64]model.Product),
		orders:          make(map[int64]*orderRecord),
		reviews:         make(map[int64]model.Review),
		users:           make(map[string]model.User),
		nextProductID:   1,
		nextOrderID:     1,
		nextOrderItemID: 1,
		nextReviewID:    1,
		nextUserID:      1,
	}
	for _, c := range seed.Categories {
		db.categories[c.ID] = c
	}
	for _, s := range seed.Statuses {
		db.statuses[s.ID] = s
	}
	for _, p := range seed.Products {
		db.products[p.ID] = p
		if p.ID >= db.nextProductID {
			db.nextProductID = p.ID + 1
		}
	}
	return db
}

// Ping reports whether the store can serve requests.
func (db *DB) Ping(ctx context.Context) error {
	return ctx.Err()
}

func (db *DB) read(ctx context.Context, fn func() error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	db.mu.RLock()
	defer db.mu.RUnlock()
	return fn()
}

func (db *DB) write(ctx context.Context, fn func() error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	db.mu.Lock()
	defer db.mu.Unlock()
	return fn()
}

// orderLocked returns a copy of an order with its status filled in.
func (db *DB) orderLocked(rec *orderRecord) model.Order {
	o := rec.order
	o.Status = db.statuses[o.StatusID]
	o.Items = append([]model.OrderItem(nil), rec.order.Items...)
	if rec.order.ApprovalDate != nil {
		t := *rec.order.ApprovalDate
		o.ApprovalDate = &t
	}
	return o
}

func sortedKeys[V any](m map[int64]V) []int64 {
	keys := make([]int64, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

func emailKey(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
