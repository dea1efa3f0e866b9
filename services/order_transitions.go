package services

import (
	"fmt"
	"time"

	"github.com/devleo10/dishly/models"
	"gorm.io/gorm"
)

func checkCancellable(status models.OrderStatus) error {
	switch status {
	case models.OrderStatusPending, models.OrderStatusConfirmed, models.OrderStatusPreparing:
		return nil
	case models.OrderStatusCancelled:
		return ValidationError("Order is already cancelled")
	case models.OrderStatusDelivered:
		return ValidationError("Cannot cancel a delivered order")
	default:
		return ValidationError("Cannot cancel an order in %s status", status)
	}
}

func checkConfirmable(status models.OrderStatus) error {
	if status != models.OrderStatusPending {
		return ValidationError("Order is not in pending status")
	}
	return nil
}

// transition updates the status only if it is still `from`; a concurrent
// change in between leaves zero rows affected and is reported as a conflict
// of state.
func transition(tx *gorm.DB, orderID uint, from, to models.OrderStatus) error {
	res := tx.Model(&models.Order{}).
		Where("id = ? AND status = ?", orderID, from).
		Updates(map[string]interface{}{
			"status":     to,
			"updated_at": time.Now(),
		})
	if res.Error != nil {
		return fmt.Errorf("update order status: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ValidationError("Order status changed concurrently, expected %s", from)
	}
	return nil
}
