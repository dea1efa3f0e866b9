package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/devleo10/dishly/config"
	"github.com/devleo10/dishly/database"
	"github.com/devleo10/dishly/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := database.Open(&config.Config{
		DBDriver: "sqlite",
		DBSource: "file:" + name + "?mode=memory&cache=shared",
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

type fixture struct {
	db      *gorm.DB
	admin   Actor
	manager Actor
	member  Actor
	other   Actor
}

// newFixture seeds restaurant 1 (menu items 1-5, item 5 costs 9.50),
// restaurant 2 (item 6) and one account per role plus a second admin.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := newTestDB(t)

	users := []models.User{
		{ID: 1, Email: "admin@dishly.dev", PasswordHash: "x", Role: models.RoleAdmin},
		{ID: 2, Email: "manager@dishly.dev", PasswordHash: "x", Role: models.RoleManager},
		{ID: 3, Email: "member@dishly.dev", PasswordHash: "x", Role: models.RoleMember},
		{ID: 4, Email: "other@dishly.dev", PasswordHash: "x", Role: models.RoleAdmin},
	}
	require.NoError(t, db.Create(&users).Error)

	require.NoError(t, db.Create(&[]models.Restaurant{{ID: 1, Name: "Bella Napoli"}, {ID: 2, Name: "Green Bowl"}}).Error)
	menu := []models.MenuItem{
		{ID: 1, RestaurantID: 1, Name: "Margherita", Price: models.MustMoney("11.50")},
		{ID: 2, RestaurantID: 1, Name: "Diavola", Price: models.MustMoney("13.00")},
		{ID: 3, RestaurantID: 1, Name: "Espresso", Price: models.MustMoney("0.10")},
		{ID: 4, RestaurantID: 1, Name: "Tiramisu", Price: models.MustMoney("6.25")},
		{ID: 5, RestaurantID: 1, Name: "Calzone", Price: models.MustMoney("9.50")},
		{ID: 6, RestaurantID: 2, Name: "Falafel Bowl", Price: models.MustMoney("9.50")},
	}
	require.NoError(t, db.Create(&menu).Error)

	actor := func(u models.User) Actor { return Actor{UserID: u.ID, Email: u.Email, Role: u.Role} }
	return &fixture{
		db:      db,
		admin:   actor(users[0]),
		manager: actor(users[1]),
		member:  actor(users[2]),
		other:   actor(users[3]),
	}
}

func (f *fixture) order(t *testing.T, owner Actor, status models.OrderStatus) models.Order {
	t.Helper()
	o := models.Order{UserID: owner.UserID, RestaurantID: 1, Status: status, TotalAmount: models.MustMoney("9.50"),
		Items: []models.OrderItem{{MenuItemID: 5, Quantity: 1, PriceAtOrderTime: models.MustMoney("9.50")}}}
	require.NoError(t, f.db.Create(&o).Error)
	return o
}

func (f *fixture) paymentMethod(t *testing.T, owner Actor, isDefault bool) models.PaymentMethod {
	t.Helper()
	pm := models.PaymentMethod{UserID: owner.UserID, Type: models.PaymentTypeWallet, IsDefault: isDefault}
	require.NoError(t, f.db.Create(&pm).Error)
	return pm
}

func requireKind(t *testing.T, err error, kind ErrorKind) {
	t.Helper()
	require.Error(t, err)
	require.Equal(t, kind, KindOf(err), "unexpected error: %v", err)
}
