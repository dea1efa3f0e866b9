package database

import (
	"errors"
	"strings"

	"github.com/devleo10/dishly/models"
	"github.com/devleo10/dishly/utils"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func strPtr(s string) *string { return &s }

var catalog = []struct {
	restaurant models.Restaurant
	items      []models.MenuItem
}{
	{
		restaurant: models.Restaurant{
			Name:        "Bella Napoli",
			Description: strPtr("Wood-fired pizza and fresh pasta"),
			Address:     strPtr("12 Harbour Street"),
		},
		items: []models.MenuItem{
			{Name: "Margherita", Description: strPtr("Tomato, mozzarella, basil"), Price: models.MustMoney("11.50")},
			{Name: "Diavola", Description: strPtr("Spicy salami, chili oil"), Price: models.MustMoney("13.00")},
			{Name: "Tiramisu", Price: models.MustMoney("6.25")},
		},
	},
	{
		restaurant: models.Restaurant{
			Name:        "Green Bowl",
			Description: strPtr("Salads and grain bowls"),
			Address:     strPtr("48 Market Lane"),
		},
		items: []models.MenuItem{
			{Name: "Falafel Bowl", Price: models.MustMoney("9.50")},
			{Name: "Caesar Salad", Price: models.MustMoney("8.75")},
			{Name: "Lemonade", Price: models.MustMoney("3.20")},
		},
	},
}

// SeedCatalog inserts the demo restaurants once; it is a no-op when any restaurant exists.
func SeedCatalog(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Restaurant{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	return db.Transaction(func(tx *gorm.DB) error {
		for _, entry := range catalog {
			restaurant := entry.restaurant
			if err := tx.Create(&restaurant).Error; err != nil {
				return err
			}
			for _, item := range entry.items {
				item.RestaurantID = restaurant.ID
				if err := tx.Create(&item).Error; err != nil {
					return err
				}
			}
		}
		utils.InfoLogger.WithField("restaurants", len(catalog)).Info("catalog seeded")
		return nil
	})
}

// SeedAdmin creates the first admin account when credentials are configured.
func SeedAdmin(db *gorm.DB, email, password string, cost int) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		utils.InfoLogger.Info("skip seeding admin: ADMIN_EMAIL/ADMIN_PASSWORD not set")
		return nil
	}

	var existing models.User
	err := db.Where("email = ?", email).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return err
	}
	admin := models.User{Email: email, PasswordHash: string(hash), Role: models.RoleAdmin}
	if err := db.Create(&admin).Error; err != nil {
		return err
	}
	utils.InfoLogger.WithField("email", email).Info("admin account seeded")
	return nil
}
