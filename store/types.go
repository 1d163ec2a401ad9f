// Package store is a small order-management object graph used to demonstrate
// member trees. It carries embedded records, getter-backed properties, a
// customer/order cycle and a deprecated field.
package store

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrNoDiscount is returned by Order.Discount when no discount applies.
var ErrNoDiscount = errors.New("no discount applied")

// ErrNegativeInventory is returned when inventory would drop below zero.
var ErrNegativeInventory = errors.New("inventory must not be negative")

// Entity carries the identity shared by every stored record.
type Entity struct {
	ID        uuid.UUID `json:"id" tree:"key"`
	CreatedAt time.Time `json:"created_at"`
	revision  int
}

// Revision counts the changes made to the record.
func (e *Entity) Revision() int { return e.revision }

// Touch records a change.
func (e *Entity) Touch() { e.revision++ }

// Product represents an individual item available for sale.
// We use int64 for Price to represent cents (lowest currency unit) to avoid floating-point errors.
type Product struct {
	Entity

	SKU         string `json:"sku" tree:"exposed,label=SKU"`
	Name        string `json:"name" tree:"exposed"`
	Description string `json:"description,omitempty"`
	PriceCents  int64  `json:"price_cents"`
	inventory   int    `tree:"range=0..10000"`
}

// Inventory is the number of units in stock.
func (p *Product) Inventory() int { return p.inventory }

// SetInventory updates the stock.
func (p *Product) SetInventory(v int) error {
	if v < 0 {
		return fmt.Errorf("%w: %d", ErrNegativeInventory, v)
	}
	p.inventory = v
	p.Touch()
	return nil
}

// Address is a postal address.
type Address struct {
	Street  string `json:"street"`
	City    string `json:"city" tree:"exposed"`
	Country string `json:"country"`
}

// Customer represents the user placing orders.
type Customer struct {
	Entity

	Email    string   `json:"email" tree:"exposed,pii"`
	FullName string   `json:"full_name" tree:"pii"`
	Address  *Address `json:"address"`
	IsActive bool     `json:"is_active"`
	// Phone is the contact number given at sign-up.
	//
	// Deprecated: contact customers by Email.
	Phone string `json:"phone,omitempty"`

	lastOrder *Order
}

// LastOrder is the most recent order of the customer.
func (c *Customer) LastOrder() *Order { return c.lastOrder }

// SetLastOrder links the most recent order.
func (c *Customer) SetLastOrder(o *Order) { c.lastOrder = o }

// OrderItem represents a specific product line within an order.
// It snapshots the price at the time of purchase.
type OrderItem struct {
	Product   *Product `json:"product"`
	Quantity  int      `json:"quantity"`
	UnitPrice int64    `json:"unit_price"`
}

// Subtotal returns the price of the line.
func (i OrderItem) Subtotal() int64 { return int64(i.Quantity) * i.UnitPrice }

// Order represents a transaction made by a customer.
type Order struct {
	Entity

	//tree:audited
	Status    OrderStatus `json:"status" tree:"exposed"`
	Items     []OrderItem `json:"items"`
	Lead      *OrderItem  `json:"lead,omitempty"`
	OrderedAt time.Time   `json:"ordered_at"`
	Customer  *Customer   `json:"customer"`
	Lock      sync.Mutex  `json:"-"`
	Logger    *zap.Logger `json:"-"`

	discount *int64 `tree:"percent"`
}

// Discount is the discount in cents, if any.
func (o *Order) Discount() (int64, error) {
	if o.discount == nil {
		return 0, ErrNoDiscount
	}
	return *o.discount, nil
}

// SetDiscount applies a discount in cents.
func (o *Order) SetDiscount(cents int64) { o.discount = &cents }

// Total returns the sum of all item subtotals minus the discount.
func (o *Order) Total() int64 {
	var total int64
	for _, item := range o.Items {
		total += item.Subtotal()
	}
	if o.discount != nil {
		total -= *o.discount
	}
	return total
}

// Cancel moves a pending order to cancelled.
//
//tree:command
func (o *Order) Cancel() error {
	if o.Status != StatusPending {
		return fmt.Errorf("cannot cancel %s order", o.Status)
	}
	o.Status = StatusCancelled
	return nil
}

// String returns a short label of the order.
func (o *Order) String() string {
	return "Order " + o.ID.String()[:8]
}

// OrderStatus is a custom type for type-safe status handling.
type OrderStatus string

const (
	StatusPending   OrderStatus = "PENDING"
	StatusPaid      OrderStatus = "PAID"
	StatusShipped   OrderStatus = "SHIPPED"
	StatusCancelled OrderStatus = "CANCELLED"
)
