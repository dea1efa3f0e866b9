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

type OrderService struct {
	db     *gorm.DB
	events kds.Publisher
}

func NewOrderService(db *gorm.DB, events kds.Publisher) *OrderService {
	if events == nil {
		events = kds.Discard
	}
	return &OrderService{db: db, events: events}
}

type OrderLineInput struct {
	MenuItemID uint
	Quantity   int
}

type CreateOrderInput struct {
	RestaurantID uint
	Items        []OrderLineInput
}

func (in CreateOrderInput) validate() error {
	if in.RestaurantID == 0 || len(in.Items) == 0 {
		return ValidationError("Restaurant ID and items are required")
	}
	for _, line := range in.Items {
		if line.MenuItemID == 0 {
			return ValidationError("Menu item ID is required for every item")
		}
		if line.Quantity <= 0 {
			return ValidationError("Quantity for menu item %d must be a positive integer", line.MenuItemID)
		}
	}
	return nil
}

// PriceLines snapshots each menu price onto a line item and sums the lines in
// fixed point. Lines are priced in input order so the first bad id is reported.
// Line and order totals must fit the decimal(10,2) amount columns.
func PriceLines(restaurantID uint, lines []OrderLineInput, menu map[uint]models.MenuItem) ([]models.OrderItem, models.Money, error) {
	items := make([]models.OrderItem, 0, len(lines))
	total := models.ZeroMoney

	for _, line := range lines {
		menuItem, ok := menu[line.MenuItemID]
		if !ok {
			return nil, models.Money{}, NotFoundError("Menu item %d not found", line.MenuItemID)
		}
		if menuItem.RestaurantID != restaurantID {
			return nil, models.Money{}, ValidationError("Menu item %d does not belong to restaurant %d", line.MenuItemID, restaurantID)
		}

		item := models.OrderItem{
			MenuItemID:       menuItem.ID,
			Quantity:         line.Quantity,
			PriceAtOrderTime: menuItem.Price,
		}
		lineTotal := item.LineTotal()
		if lineTotal.Exceeds(models.MaxMoney) {
			return nil, models.Money{}, ValidationError("Quantity for menu item %d is too large", line.MenuItemID)
		}
		total = total.Add(lineTotal)
		if total.Exceeds(models.MaxMoney) {
			return nil, models.Money{}, ValidationError("Order total exceeds the maximum of %s", models.MaxMoney)
		}
		items = append(items, item)
	}
	return items, total, nil
}

// Create prices the cart from current menu prices and stores the order with
// its items in one transaction.
func (s *OrderService) Create(ctx context.Context, actor Actor, in CreateOrderInput) (*models.Order, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	var order models.Order
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var restaurant models.Restaurant
		if err := tx.Select("id").First(&restaurant, in.RestaurantID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return NotFoundError("Restaurant not found")
			}
			return fmt.Errorf("find restaurant: %w", err)
		}

		ids := make([]uint, 0, len(in.Items))
		for _, line := range in.Items {
			ids = append(ids, line.MenuItemID)
		}
		var found []models.MenuItem
		if err := tx.Where("id IN ?", ids).Find(&found).Error; err != nil {
			return fmt.Errorf("load menu items: %w", err)
		}
		menu := make(map[uint]models.MenuItem, len(found))
		for _, m := range found {
			menu[m.ID] = m
		}

		items, total, err := PriceLines(in.RestaurantID, in.Items, menu)
		if err != nil {
			return err
		}

		order = models.Order{
			UserID:       actor.UserID,
			RestaurantID: in.RestaurantID,
			Status:       models.OrderStatusPending,
			TotalAmount:  total,
			Items:        items,
		}
		if err := tx.Create(&order).Error; err != nil {
			return fmt.Errorf("create order: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	utils.InfoLogger.WithFields(logrus.Fields{
		"order_id": order.ID,
		"user_id":  actor.UserID,
		"total":    order.TotalAmount.String(),
		"items":    len(order.Items),
	}).Info("order created")
	s.publish(ctx, kds.EventOrderCreated, order)
	return &order, nil
}

// List returns the caller's orders, oldest first.
func (s *OrderService) List(ctx context.Context, actor Actor) ([]models.Order, error) {
	orders := make([]models.Order, 0)
	err := s.db.WithContext(ctx).
		Where("user_id = ?", actor.UserID).
		Order("created_at, id").
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return orders, nil
}

// Get returns one of the caller's orders with its items. Orders owned by
// someone else are reported exactly like missing ones.
func (s *OrderService) Get(ctx context.Context, actor Actor, orderID uint) (*models.Order, error) {
	return findOwnedOrder(s.db.WithContext(ctx), actor, orderID, true)
}

// Cancel moves an order to cancelled; admin and manager only.
func (s *OrderService) Cancel(ctx context.Context, actor Actor, orderID uint) (*models.Order, error) {
	if err := RequireRole(actor, "cancel orders", models.RoleAdmin, models.RoleManager); err != nil {
		return nil, err
	}

	var order *models.Order
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		current, err := findOwnedOrder(tx, actor, orderID, false)
		if err != nil {
			return err
		}
		if err := checkCancellable(current.Status); err != nil {
			return err
		}
		if err := transition(tx, current.ID, current.Status, models.OrderStatusCancelled); err != nil {
			return err
		}
		order, err = findOwnedOrder(tx, actor, orderID, false)
		return err
	})
	if err != nil {
		return nil, err
	}

	utils.InfoLogger.WithFields(logrus.Fields{
		"order_id": order.ID,
		"by":       actor.UserID,
		"role":     actor.Role,
	}).Info("order cancelled")
	s.publish(ctx, kds.EventOrderCancelled, *order)
	return order, nil
}

func (s *OrderService) publish(ctx context.Context, eventType string, order models.Order) {
	if err := s.events.Publish(ctx, kds.NewOrderEvent(eventType, order)); err != nil {
		utils.ErrorLogger.WithError(err).WithField("order_id", order.ID).Error("publish order event")
	}
}

func findOwnedOrder(db *gorm.DB, actor Actor, orderID uint, withItems bool) (*models.Order, error) {
	q := db
	if withItems {
		q = q.Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id") })
	}

	var order models.Order
	if err := q.Where("id = ? AND user_id = ?", orderID, actor.UserID).First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFoundError("Order not found")
		}
		return nil, fmt.Errorf("find order: %w", err)
	}
	return &order, nil
}
