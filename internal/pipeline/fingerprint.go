package pipeline

import (
	"encoding/binary"
	"strconv"

	"github.com/angelmondragon/olist-dashboard/internal/dataset"
	"github.com/cespare/xxhash/v2"
)

// Fingerprint hashes every input cell and the reporting location. Two inputs
// with the same fingerprint produce the same fact table.
func Fingerprint(tables dataset.Tables, opts Options) uint64 {
	h := &hasher{digest: xxhash.New()}
	h.str(opts.location().String())

	h.count(len(tables.Orders))
	for _, order := range tables.Orders {
		h.str(order.OrderID)
		h.str(order.CustomerID)
		h.str(string(order.Status))
		h.str(order.PurchaseTimestamp)
	}

	h.count(len(tables.Items))
	for _, item := range tables.Items {
		h.str(item.OrderID)
		h.str(strconv.Itoa(item.OrderItemID))
		h.str(item.ProductID)
		h.str(item.Price.String())
	}

	h.count(len(tables.Products))
	for _, product := range tables.Products {
		h.str(product.ProductID)
		h.optional(product.Category)
	}

	h.count(len(tables.Customers))
	for _, customer := range tables.Customers {
		h.str(customer.CustomerID)
		h.optional(customer.City)
		h.optional(customer.State)
	}

	return h.digest.Sum64()
}

// hasher length-prefixes every value so adjacent cells cannot run together.
type hasher struct {
	digest *xxhash.Digest
	buf    [binary.MaxVarintLen64]byte
}

func (h *hasher) count(n int) {
	size := binary.PutUvarint(h.buf[:], uint64(n))
	_, _ = h.digest.Write(h.buf[:size])
}

func (h *hasher) str(value string) {
	h.count(len(value))
	_, _ = h.digest.WriteString(value)
}

func (h *hasher) optional(value *string) {
	if value == nil {
		_, _ = h.digest.Write([]byte{0})
		return
	}
	_, _ = h.digest.Write([]byte{1})
	h.str(*value)
}
