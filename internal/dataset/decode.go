package dataset

import (
	"fmt"
	"strconv"

	"github.com/angelmondragon/olist-dashboard/pkg/enums"
	"github.com/shopspring/decimal"
)

// rowNumber reports 1-based data row positions, matching what a spreadsheet
// shows below the header.
func rowNumber(idx int) int {
	return idx + 1
}

func decodeOrders(t *rawTable) ([]Order, error) {
	if err := t.requireColumns(); err != nil {
		return nil, err
	}
	orders := make([]Order, 0, len(t.rows))
	for _, row := range t.rows {
		orders = append(orders, Order{
			OrderID:           t.value(row, ColOrderID),
			CustomerID:        t.value(row, ColCustomerID),
			Status:            enums.OrderStatus(t.value(row, ColOrderStatus)),
			PurchaseTimestamp: t.value(row, ColPurchaseTimestamp),
		})
	}
	return orders, nil
}

func decodeItems(t *rawTable) ([]OrderItem, error) {
	if err := t.requireColumns(); err != nil {
		return nil, err
	}
	items := make([]OrderItem, 0, len(t.rows))
	for idx, row := range t.rows {
		rawID := t.value(row, ColOrderItemID)
		itemID, err := strconv.Atoi(rawID)
		if err != nil {
			return nil, configError(t.source, fmt.Sprintf("row %d: %s is not an integer", rowNumber(idx), ColOrderItemID),
				map[string]any{"row": rowNumber(idx), "column": ColOrderItemID, "value": rawID})
		}
		price, err := parsePrice(t.value(row, ColPrice))
		if err != nil {
			return nil, configError(t.source, fmt.Sprintf("row %d: %v", rowNumber(idx), err),
				map[string]any{"row": rowNumber(idx), "column": ColPrice, "value": t.value(row, ColPrice)})
		}
		items = append(items, OrderItem{
			OrderID:     t.value(row, ColOrderID),
			OrderItemID: itemID,
			ProductID:   t.value(row, ColProductID),
			Price:       price,
		})
	}
	return items, nil
}

func decodeProducts(t *rawTable) ([]Product, error) {
	if err := t.requireColumns(); err != nil {
		return nil, err
	}
	products := make([]Product, 0, len(t.rows))
	for _, row := range t.rows {
		products = append(products, Product{
			ProductID: t.value(row, ColProductID),
			Category:  optional(t.value(row, ColCategory)),
		})
	}
	return products, nil
}

func decodeCustomers(t *rawTable) ([]Customer, error) {
	if err := t.requireColumns(); err != nil {
		return nil, err
	}
	customers := make([]Customer, 0, len(t.rows))
	for _, row := range t.rows {
		customers = append(customers, Customer{
			CustomerID: t.value(row, ColCustomerID),
			City:       optional(t.value(row, ColCity)),
			State:      optional(t.value(row, ColState)),
		})
	}
	return customers, nil
}

func parsePrice(raw string) (decimal.Decimal, error) {
	if raw == "" {
		return decimal.Zero, fmt.Errorf("%s is empty", ColPrice)
	}
	price, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%s %q is not a decimal", ColPrice, raw)
	}
	if price.IsNegative() {
		return decimal.Zero, fmt.Errorf("%s %q is negative", ColPrice, raw)
	}
	return price, nil
}

// optional returns nil for empty cells.
func optional(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}
