package pipeline

import (
	"strings"
	"time"

	"github.com/angelmondragon/olist-dashboard/internal/dataset"
)

// Options tune a build.
type Options struct {
	// Location is the reporting timezone. Timestamps without an offset are
	// read in it and order dates are cut at its midnight. Defaults to UTC.
	Location *time.Location
}

func (o Options) location() *time.Location {
	if o.Location == nil {
		return time.UTC
	}
	return o.Location
}

var timestampLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02T15:04:05",
	time.RFC3339Nano,
	"2006-01-02 15:04",
	"2006-01-02",
}

// ParseTimestamp parses a purchase timestamp in the reporting location.
func ParseTimestamp(raw string, loc *time.Location) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if ts, err := time.ParseInLocation(layout, raw, loc); err == nil {
			return ts.In(loc), true
		}
	}
	return time.Time{}, false
}

// TruncateDay returns midnight of ts's calendar day in loc.
func TruncateDay(ts time.Time, loc *time.Location) time.Time {
	y, m, d := ts.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

type validOrder struct {
	customerID  string
	purchasedAt time.Time
}

// Prepare joins the four raw tables into a fact table. It is a pure function
// of its inputs: orders with an unparseable timestamp or an excluded status
// are dropped, items join orders with an inner join, and products and
// customers join with left joins. Duplicate keys keep their first occurrence.
func Prepare(tables dataset.Tables, opts Options) *FactTable {
	return build(tables, opts.location(), Fingerprint(tables, opts))
}

func build(tables dataset.Tables, loc *time.Location, fingerprint uint64) *FactTable {
	stats := Stats{
		OrdersRead: len(tables.Orders),
		ItemsRead:  len(tables.Items),
	}

	orders := make(map[string]validOrder, len(tables.Orders))
	seenOrders := make(map[string]struct{}, len(tables.Orders))
	for _, order := range tables.Orders {
		if _, dup := seenOrders[order.OrderID]; dup {
			stats.DuplicateKeys++
			continue
		}
		seenOrders[order.OrderID] = struct{}{}

		purchasedAt, ok := ParseTimestamp(order.PurchaseTimestamp, loc)
		if !ok {
			stats.DroppedBadTimestamp++
			continue
		}
		if order.Status.IsExcluded() {
			stats.DroppedExcludedStatus++
			continue
		}
		orders[order.OrderID] = validOrder{customerID: order.CustomerID, purchasedAt: purchasedAt}
	}

	categories := make(map[string]string, len(tables.Products))
	for _, product := range tables.Products {
		if _, dup := categories[product.ProductID]; dup {
			stats.DuplicateKeys++
			continue
		}
		category := UnknownCategory
		if product.Category != nil && strings.TrimSpace(*product.Category) != "" {
			category = strings.TrimSpace(*product.Category)
		}
		categories[product.ProductID] = category
	}

	customers := make(map[string]dataset.Customer, len(tables.Customers))
	for _, customer := range tables.Customers {
		if _, dup := customers[customer.CustomerID]; dup {
			stats.DuplicateKeys++
			continue
		}
		customers[customer.CustomerID] = customer
	}

	rows := make([]FactRow, 0, len(tables.Items))
	for _, item := range tables.Items {
		order, ok := orders[item.OrderID]
		if !ok {
			stats.ItemsWithoutOrder++
			continue
		}

		row := FactRow{
			OrderID:     item.OrderID,
			CustomerID:  order.customerID,
			OrderItemID: item.OrderItemID,
			ProductID:   item.ProductID,
			Price:       item.Price,
			PurchasedAt: order.purchasedAt,
			OrderDate:   TruncateDay(order.purchasedAt, loc),
			Category:    UnknownCategory,
		}
		if category, ok := categories[item.ProductID]; ok {
			row.Category = category
		} else {
			stats.ItemsWithoutProduct++
		}
		if customer, ok := customers[order.customerID]; ok {
			row.City = cloneString(customer.City)
			row.State = cloneString(customer.State)
		} else {
			stats.ItemsWithoutCustomer++
		}
		rows = append(rows, row)
	}
	stats.Rows = len(rows)

	return &FactTable{
		rows:        rows,
		fingerprint: fingerprint,
		stats:       stats,
		location:    loc,
	}
}

func cloneString(value *string) *string {
	if value == nil || *value == "" {
		return nil
	}
	v := *value
	return &v
}
