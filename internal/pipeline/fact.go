package pipeline

import (
	"fmt"
	"iter"
	"slices"
	"time"

	"github.com/shopspring/decimal"
)

// UnknownCategory replaces a missing or empty product category.
const UnknownCategory = "unknown"

// FactRow is one order item joined with its order, product and customer.
type FactRow struct {
	OrderID     string
	CustomerID  string
	OrderItemID int
	ProductID   string
	Price       decimal.Decimal
	PurchasedAt time.Time
	// OrderDate is midnight of the purchase day in the reporting location.
	OrderDate time.Time
	Category  string
	// City and State are nil when the customer is unknown or the cell was empty.
	City  *string
	State *string
}

// Drop reasons reported in Stats.Dropped and pipeline metrics.
const (
	DropBadTimestamp   = "bad_timestamp"
	DropExcludedStatus = "excluded_status"
	DropDuplicateKey   = "duplicate_key"
	DropOrphanItem     = "orphan_item"
)

// Stats counts what a build read and what it normalized away.
type Stats struct {
	OrdersRead            int `json:"orders_read"`
	DroppedBadTimestamp   int `json:"dropped_bad_timestamp"`
	DroppedExcludedStatus int `json:"dropped_excluded_status"`
	DuplicateKeys         int `json:"duplicate_keys"`
	ItemsRead             int `json:"items_read"`
	ItemsWithoutOrder     int `json:"items_without_order"`
	ItemsWithoutProduct   int `json:"items_without_product"`
	ItemsWithoutCustomer  int `json:"items_without_customer"`
	Rows                  int `json:"rows"`
}

// Dropped maps each drop reason to its count.
func (s Stats) Dropped() map[string]int {
	return map[string]int{
		DropBadTimestamp:   s.DroppedBadTimestamp,
		DropExcludedStatus: s.DroppedExcludedStatus,
		DropDuplicateKey:   s.DuplicateKeys,
		DropOrphanItem:     s.ItemsWithoutOrder,
	}
}

// FactTable is the immutable result of a pipeline build. It is safe for
// concurrent readers; nothing mutates it after Prepare returns.
type FactTable struct {
	rows        []FactRow
	fingerprint uint64
	stats       Stats
	builtAt     time.Time
	location    *time.Location
}

func (t *FactTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.rows)
}

// All iterates the rows in order-items input order.
func (t *FactTable) All() iter.Seq[FactRow] {
	return func(yield func(FactRow) bool) {
		if t == nil {
			return
		}
		for _, row := range t.rows {
			if !yield(row) {
				return
			}
		}
	}
}

// Rows returns a copy of the rows.
func (t *FactTable) Rows() []FactRow {
	if t == nil {
		return nil
	}
	return slices.Clone(t.rows)
}

// Fingerprint identifies the inputs the table was built from.
func (t *FactTable) Fingerprint() uint64 {
	if t == nil {
		return 0
	}
	return t.fingerprint
}

// FingerprintHex renders the fingerprint as fixed-width hex, as used in cache keys.
func (t *FactTable) FingerprintHex() string {
	return fmt.Sprintf("%016x", t.Fingerprint())
}

func (t *FactTable) Stats() Stats {
	if t == nil {
		return Stats{}
	}
	return t.stats
}

// BuiltAt is zero for tables produced directly by Prepare.
func (t *FactTable) BuiltAt() time.Time {
	if t == nil {
		return time.Time{}
	}
	return t.builtAt
}

func (t *FactTable) Location() *time.Location {
	if t == nil || t.location == nil {
		return time.UTC
	}
	return t.location
}
