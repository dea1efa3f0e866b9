package kds

import (
	"context"
	"errors"
	"time"

	"github.com/devleo10/dishly/models"
)

// Event types
const (
	EventOrderCreated   = "order_created"
	EventOrderCancelled = "order_cancelled"
	EventOrderConfirmed = "order_confirmed"
)

type Event struct {
	Type         string             `json:"type"`
	OrderID      uint               `json:"orderId"`
	UserID       uint               `json:"userId"`
	RestaurantID uint               `json:"restaurantId"`
	Status       models.OrderStatus `json:"status"`
	TotalAmount  models.Money       `json:"totalAmount"`
	At           time.Time          `json:"at"`
}

func NewOrderEvent(eventType string, order models.Order) Event {
	return Event{
		Type:         eventType,
		OrderID:      order.ID,
		UserID:       order.UserID,
		RestaurantID: order.RestaurantID,
		Status:       order.Status,
		TotalAmount:  order.TotalAmount,
		At:           time.Now().UTC(),
	}
}

// Publisher delivers order events to displays and downstream consumers.
// Delivery is best effort; the database row is the source of truth.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// Multi fans an event out to every publisher and joins their errors.
type Multi []Publisher

func (m Multi) Publish(ctx context.Context, event Event) error {
	var errs []error
	for _, p := range m {
		if err := p.Publish(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

type discard struct{}

func (discard) Publish(context.Context, Event) error { return nil }

// Discard drops every event.
var Discard Publisher = discard{}
