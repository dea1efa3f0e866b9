package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/devleo10/dishly/kds"
	"github.com/devleo10/dishly/models"
	"github.com/devleo10/dishly/utils"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const PaymentApproved = "approved"

type CheckoutService struct {
	db     *gorm.DB
	events kds.Publisher
}

func NewCheckoutService(db *gorm.DB, events kds.Publisher) *CheckoutService {
	if events == nil {
		events = kds.Discard
	}
	return &CheckoutService{db: db, events: events}
}

type CheckoutInput struct {
	OrderID uint
	// PaymentMethodID is optional; zero means none was given.
	PaymentMethodID uint
}

// PaymentResult describes the mocked charge. No gateway is called, so the
// outcome depends only on the order and the chosen method.
type PaymentResult struct {
	Status string       `json:"status"`
	Method string       `json:"method"`
	Amount models.Money `json:"amount"`
}

type CheckoutResult struct {
	Order   models.Order
	Payment PaymentResult
}

func chargeMock(order models.Order, method *models.PaymentMethod) PaymentResult {
	result := PaymentResult{Status: PaymentApproved, Method: "none", Amount: order.TotalAmount}
	if method != nil {
		result.Method = string(method.Type)
	}
	return result
}

// Confirm moves a pending order to confirmed; admin and manager only.
func (s *CheckoutService) Confirm(ctx context.Context, actor Actor, in CheckoutInput) (*CheckoutResult, error) {
	if err := RequireRole(actor, "checkout", models.RoleAdmin, models.RoleManager); err != nil {
		return nil, err
	}
	if in.OrderID == 0 {
		return nil, ValidationError("Order ID is required")
	}

	var result CheckoutResult
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		order, err := findOwnedOrder(tx, actor, in.OrderID, false)
		if err != nil {
			return err
		}
		if err := checkConfirmable(order.Status); err != nil {
			return err
		}

		var method *models.PaymentMethod
		if in.PaymentMethodID != 0 {
			if method, err = findOwnedPaymentMethod(tx, actor, in.PaymentMethodID); err != nil {
				return err
			}
		}

		if err := transition(tx, order.ID, models.OrderStatusPending, models.OrderStatusConfirmed); err != nil {
			return err
		}
		confirmed, err := findOwnedOrder(tx, actor, in.OrderID, false)
		if err != nil {
			return err
		}

		result = CheckoutResult{Order: *confirmed, Payment: chargeMock(*confirmed, method)}
		return nil
	})
	if err != nil {
		return nil, err
	}

	utils.InfoLogger.WithFields(logrus.Fields{
		"order_id": result.Order.ID,
		"method":   result.Payment.Method,
		"amount":   result.Payment.Amount.String(),
	}).Info("order confirmed")
	if err := s.events.Publish(ctx, kds.NewOrderEvent(kds.EventOrderConfirmed, result.Order)); err != nil {
		utils.ErrorLogger.WithError(err).WithField("order_id", result.Order.ID).Error("publish order event")
	}
	return &result, nil
}

func findOwnedPaymentMethod(db *gorm.DB, actor Actor, id uint) (*models.PaymentMethod, error) {
	var method models.PaymentMethod
	if err := db.Where("id = ? AND user_id = ?", id, actor.UserID).First(&method).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFoundError("Payment method not found")
		}
		return nil, fmt.Errorf("find payment method: %w", err)
	}
	return &method, nil
}
