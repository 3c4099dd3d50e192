package pipeline

import (
	"context"
	"io"
	"sync"

	"github.com/angelmondragon/olist-dashboard/internal/dataset"
	"github.com/angelmondragon/olist-dashboard/pkg/enums"
	"github.com/angelmondragon/olist-dashboard/pkg/logger"
	"github.com/shopspring/decimal"
)

func strPtr(s string) *string { return &s }

func order(id, customer string, status enums.OrderStatus, ts string) dataset.Order {
	return dataset.Order{OrderID: id, CustomerID: customer, Status: status, PurchaseTimestamp: ts}
}

func item(orderID string, seq int, productID, price string) dataset.OrderItem {
	return dataset.OrderItem{
		OrderID:     orderID,
		OrderItemID: seq,
		ProductID:   productID,
		Price:       decimal.RequireFromString(price),
	}
}

func product(id string, category *string) dataset.Product {
	return dataset.Product{ProductID: id, Category: category}
}

func customer(id, city, state string) dataset.Customer {
	return dataset.Customer{CustomerID: id, City: strPtr(city), State: strPtr(state)}
}

// scenarioA is a single delivered order with one uncategorized item.
func scenarioA() dataset.Tables {
	return dataset.Tables{
		Orders:    []dataset.Order{order("1", "c1", enums.OrderStatusDelivered, "2024-01-01T10:00:00")},
		Items:     []dataset.OrderItem{item("1", 1, "p1", "100")},
		Products:  []dataset.Product{product("p1", nil)},
		Customers: []dataset.Customer{customer("c1", "X", "Y")},
	}
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
}

type fakeSource struct {
	mu     sync.Mutex
	tables dataset.Tables
	err    error
	calls  int
}

func (f *fakeSource) Name() string { return "fake" }

func (f *fakeSource) Load(context.Context) (dataset.Tables, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.tables, f.err
}

func (f *fakeSource) set(tables dataset.Tables, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tables = tables
	f.err = err
}

func (f *fakeSource) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}
