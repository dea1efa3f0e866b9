package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/devleo10/dishly/models"
	"github.com/devleo10/dishly/utils"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var expiryPattern = regexp.MustCompile(`^(0[1-9]|1[0-2])/\d{2}$`)

// PaymentMethodService keeps at most one default method per account.
type PaymentMethodService struct {
	db *gorm.DB
}

func NewPaymentMethodService(db *gorm.DB) *PaymentMethodService {
	return &PaymentMethodService{db: db}
}

type PaymentMethodInput struct {
	Type           models.PaymentType
	CardNumber     *string
	ExpiryDate     *string
	CardholderName *string
	IsDefault      bool
}

// PaymentMethodPatch carries only the fields present in the request.
type PaymentMethodPatch struct {
	Type           *models.PaymentType
	CardNumber     *string
	ExpiryDate     *string
	CardholderName *string
	IsDefault      *bool
}

// MaskCardNumber keeps the last four digits. Anything that is not 12 to 19
// digits once separators are removed is rejected.
func MaskCardNumber(raw string) (string, error) {
	var digits strings.Builder
	for _, r := range raw {
		switch {
		case r >= '0' && r <= '9':
			digits.WriteRune(r)
		case r == ' ' || r == '-':
		default:
			return "", ValidationError("Invalid card number")
		}
	}
	d := digits.String()
	if len(d) < 12 || len(d) > 19 {
		return "", ValidationError("Invalid card number")
	}
	return "**** **** **** " + d[len(d)-4:], nil
}

func cleanOptional(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

func prepareCard(number, expiry *string) (*string, *string, error) {
	number, expiry = cleanOptional(number), cleanOptional(expiry)
	if number != nil {
		masked, err := MaskCardNumber(*number)
		if err != nil {
			return nil, nil, err
		}
		number = &masked
	}
	if expiry != nil && !expiryPattern.MatchString(*expiry) {
		return nil, nil, ValidationError("Expiry date must be MM/YY")
	}
	return number, expiry, nil
}

// List returns the caller's own methods, default first. Any authenticated
// role may read its own list.
func (s *PaymentMethodService) List(ctx context.Context, actor Actor) ([]models.PaymentMethod, error) {
	methods := make([]models.PaymentMethod, 0)
	err := s.db.WithContext(ctx).
		Where("user_id = ?", actor.UserID).
		Order("is_default DESC, id").
		Find(&methods).Error
	if err != nil {
		return nil, fmt.Errorf("list payment methods: %w", err)
	}
	return methods, nil
}

func (s *PaymentMethodService) Get(ctx context.Context, actor Actor, id uint) (*models.PaymentMethod, error) {
	return findOwnedPaymentMethod(s.db.WithContext(ctx), actor, id)
}

func (s *PaymentMethodService) Create(ctx context.Context, actor Actor, in PaymentMethodInput) (*models.PaymentMethod, error) {
	if err := RequireRole(actor, "add payment methods", models.RoleAdmin); err != nil {
		return nil, err
	}
	if !in.Type.Valid() {
		return nil, ValidationError("Type must be card or wallet")
	}
	number, expiry, err := prepareCard(in.CardNumber, in.ExpiryDate)
	if err != nil {
		return nil, err
	}

	method := models.PaymentMethod{
		UserID:         actor.UserID,
		Type:           in.Type,
		CardNumber:     number,
		ExpiryDate:     expiry,
		CardholderName: cleanOptional(in.CardholderName),
		IsDefault:      in.IsDefault,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if method.IsDefault {
			if err := clearDefaults(tx, actor.UserID); err != nil {
				return err
			}
		}
		if err := tx.Create(&method).Error; err != nil {
			return fmt.Errorf("create payment method: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	utils.InfoLogger.WithFields(logrus.Fields{
		"payment_method_id": method.ID,
		"user_id":           actor.UserID,
		"default":           method.IsDefault,
	}).Info("payment method added")
	return &method, nil
}

func (s *PaymentMethodService) Update(ctx context.Context, actor Actor, id uint, patch PaymentMethodPatch) (*models.PaymentMethod, error) {
	if err := RequireRole(actor, "update payment methods", models.RoleAdmin); err != nil {
		return nil, err
	}

	changes := map[string]interface{}{}
	if patch.Type != nil {
		if !patch.Type.Valid() {
			return nil, ValidationError("Type must be card or wallet")
		}
		changes["type"] = *patch.Type
	}
	if patch.CardNumber != nil || patch.ExpiryDate != nil {
		number, expiry, err := prepareCard(patch.CardNumber, patch.ExpiryDate)
		if err != nil {
			return nil, err
		}
		if patch.CardNumber != nil {
			changes["card_number"] = number
		}
		if patch.ExpiryDate != nil {
			changes["expiry_date"] = expiry
		}
	}
	if patch.CardholderName != nil {
		changes["cardholder_name"] = cleanOptional(patch.CardholderName)
	}
	if patch.IsDefault != nil {
		changes["is_default"] = *patch.IsDefault
	}

	var method *models.PaymentMethod
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		current, err := findOwnedPaymentMethod(tx, actor, id)
		if err != nil {
			return err
		}
		if patch.IsDefault != nil && *patch.IsDefault {
			if err := clearDefaults(tx, actor.UserID); err != nil {
				return err
			}
		}
		if len(changes) > 0 {
			if err := tx.Model(&models.PaymentMethod{}).Where("id = ?", current.ID).Updates(changes).Error; err != nil {
				return fmt.Errorf("update payment method: %w", err)
			}
		}
		method, err = findOwnedPaymentMethod(tx, actor, id)
		return err
	})
	if err != nil {
		return nil, err
	}

	utils.InfoLogger.WithFields(logrus.Fields{
		"payment_method_id": method.ID,
		"user_id":           actor.UserID,
		"default":           method.IsDefault,
	}).Info("payment method updated")
	return method, nil
}

// Delete removes the method. Removing the default leaves the account with
// no default; nothing is promoted.
func (s *PaymentMethodService) Delete(ctx context.Context, actor Actor, id uint) error {
	if err := RequireRole(actor, "delete payment methods", models.RoleAdmin); err != nil {
		return err
	}

	res := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, actor.UserID).
		Delete(&models.PaymentMethod{})
	if res.Error != nil {
		return fmt.Errorf("delete payment method: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return NotFoundError("Payment method not found")
	}

	utils.InfoLogger.WithFields(logrus.Fields{
		"payment_method_id": id,
		"user_id":           actor.UserID,
	}).Info("payment method deleted")
	return nil
}

// clearDefaults locks the account row, then unsets every default flag it
// owns. The lock makes concurrent default changes for one account run one
// after another, so the last commit wins and two defaults never coexist.
func clearDefaults(tx *gorm.DB, userID uint) error {
	var owner models.User
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Select("id").First(&owner, userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return NotFoundError("Account not found")
		}
		return fmt.Errorf("lock account: %w", err)
	}

	err = tx.Model(&models.PaymentMethod{}).
		Where("user_id = ? AND is_default = ?", userID, true).
		Update("is_default", false).Error
	if err != nil {
		return fmt.Errorf("clear default payment methods: %w", err)
	}
	return nil
}
