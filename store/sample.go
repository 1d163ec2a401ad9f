package store

import (
	"time"

	"github.com/google/uuid"
)

var sampleTime = time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)

// Sample returns a pending order whose customer links back to it.
// IDs are derived from fixed names so repeated calls produce equal graphs.
func Sample() *Order {
	keyboard := &Product{
		Entity:      newEntity("product/keyboard"),
		SKU:         "KB-01",
		Name:        "Keyboard",
		Description: "Mechanical keyboard",
		PriceCents:  8900,
		inventory:   12,
	}
	cable := &Product{
		Entity:     newEntity("product/cable"),
		SKU:        "CB-02",
		Name:       "Cable",
		PriceCents: 900,
		inventory:  240,
	}

	customer := &Customer{
		Entity:   newEntity("customer/ada"),
		Email:    "ada@example.com",
		FullName: "Ada Lovelace",
		Address:  &Address{Street: "12 St James's Square", City: "London", Country: "UK"},
		IsActive: true,
		Phone:    "+44 20 0000 0000",
	}

	order := &Order{
		Entity: newEntity("order/1001"),
		Status: StatusPending,
		Items: []OrderItem{
			{Product: keyboard, Quantity: 1, UnitPrice: keyboard.PriceCents},
			{Product: cable, Quantity: 2, UnitPrice: cable.PriceCents},
		},
		OrderedAt: sampleTime,
		Customer:  customer,
	}
	order.Lead = &OrderItem{Product: keyboard, Quantity: 1, UnitPrice: keyboard.PriceCents}
	customer.SetLastOrder(order)

	return order
}

func newEntity(name string) Entity {
	return Entity{
		ID:        uuid.NewSHA1(uuid.NameSpaceURL, []byte("member-tree:"+name)),
		CreatedAt: sampleTime,
	}
}
