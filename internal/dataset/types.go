package dataset

import (
	"context"

	"github.com/angelmondragon/olist-dashboard/pkg/enums"
	"github.com/shopspring/decimal"
)

// Source names used in configuration errors and logs.
const (
	SourceOrders    = "orders"
	SourceItems     = "order_items"
	SourceProducts  = "products"
	SourceCustomers = "customers"
)

// Column names expected in each raw source.
const (
	ColOrderID           = "order_id"
	ColCustomerID        = "customer_id"
	ColOrderStatus       = "order_status"
	ColPurchaseTimestamp = "order_purchase_timestamp"
	ColOrderItemID       = "order_item_id"
	ColProductID         = "product_id"
	ColPrice             = "price"
	ColCategory          = "product_category_name"
	ColCity              = "customer_city"
	ColState             = "customer_state"
)

// RequiredColumns lists, per source, the columns that must be present.
var RequiredColumns = map[string][]string{
	SourceOrders:    {ColOrderID, ColCustomerID, ColOrderStatus, ColPurchaseTimestamp},
	SourceItems:     {ColOrderID, ColOrderItemID, ColProductID, ColPrice},
	SourceProducts:  {ColProductID, ColCategory},
	SourceCustomers: {ColCustomerID, ColCity, ColState},
}

// Order is one raw order record. The purchase timestamp stays unparsed; the
// pipeline decides what counts as a valid timestamp.
type Order struct {
	OrderID           string
	CustomerID        string
	Status            enums.OrderStatus
	PurchaseTimestamp string
}

type OrderItem struct {
	OrderID     string
	OrderItemID int
	ProductID   string
	Price       decimal.Decimal
}

type Product struct {
	ProductID string
	// Category is nil when the source cell is empty.
	Category *string
}

type Customer struct {
	CustomerID string
	City       *string
	State      *string
}

// Tables bundles the four raw record sets.
type Tables struct {
	Orders    []Order
	Items     []OrderItem
	Products  []Product
	Customers []Customer
}

// Source loads the four raw tables. Implementations return a
// CONFIGURATION_ERROR when a source is missing or lacks required columns.
type Source interface {
	Name() string
	Load(ctx context.Context) (Tables, error)
}
