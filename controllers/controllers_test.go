package controllers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/devleo10/dishly/config"
	"github.com/devleo10/dishly/database"
	"github.com/devleo10/dishly/models"
	"github.com/devleo10/dishly/router"
	"github.com/devleo10/dishly/utils"
)

type testAPI struct {
	t      *testing.T
	db     *gorm.DB
	router *gin.Engine
	tokens *utils.TokenManager
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)
	utils.InitLogger("error", "text")

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	env := map[string]string{
		"DB_DRIVER":        "sqlite",
		"DB_SOURCE":        "file:" + name + "?mode=memory&cache=shared",
		"BCRYPT_COST":      "4",
		"RATE_LIMIT_RPS":   "1000",
		"RATE_LIMIT_BURST": "1000",
	}
	cfg, err := config.FromEnv(func(k string) (string, bool) { v, ok := env[k]; return v, ok })
	require.NoError(t, err)

	db, err := database.Open(cfg)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	// restaurant 1 has items 1-5 with item 5 at 9.50; restaurant 2 has item 6
	require.NoError(t, db.Create(&[]models.Restaurant{{ID: 1, Name: "Bella Napoli"}, {ID: 2, Name: "Green Bowl"}}).Error)
	require.NoError(t, db.Create(&[]models.MenuItem{
		{ID: 1, RestaurantID: 1, Name: "Margherita", Price: models.MustMoney("11.50")},
		{ID: 2, RestaurantID: 1, Name: "Diavola", Price: models.MustMoney("13.00")},
		{ID: 3, RestaurantID: 1, Name: "Tiramisu", Price: models.MustMoney("6.25")},
		{ID: 4, RestaurantID: 1, Name: "Espresso", Price: models.MustMoney("2.10")},
		{ID: 5, RestaurantID: 1, Name: "Calzone", Price: models.MustMoney("9.50")},
		{ID: 6, RestaurantID: 2, Name: "Falafel Bowl", Price: models.MustMoney("9.50")},
	}).Error)

	tokens := utils.NewTokenManager(cfg.JWTSecret, cfg.JWTTTL, cfg.JWTIssuer)
	r := router.SetupRouter(router.Dependencies{Config: cfg, DB: db, Tokens: tokens})
	return &testAPI{t: t, db: db, router: r, tokens: tokens}
}

// login creates an account with the given role and returns a bearer token for it.
func (a *testAPI) login(email string, role models.Role) string {
	a.t.Helper()
	user := models.User{Email: email, PasswordHash: "unused", Role: role}
	require.NoError(a.t, a.db.Create(&user).Error)
	token, err := a.tokens.GenerateToken(user)
	require.NoError(a.t, err)
	return token
}

func (a *testAPI) do(method, path, token string, body interface{}) (int, map[string]interface{}) {
	a.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(a.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)

	var resp map[string]interface{}
	if w.Body.Len() > 0 {
		require.NoError(a.t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	}
	return w.Code, resp
}

func itoa(n int) string { return strconv.Itoa(n) }

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}

func TestRootAndPing(t *testing.T) {
	api := newTestAPI(t)

	code, resp := api.do(http.MethodGet, "/", "", nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Dishly API", resp["message"])
	assert.Equal(t, router.APIVersion, resp["version"])

	code, resp = api.do(http.MethodGet, "/ping", "", nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "pong", resp["message"])
}

func TestAuthEndpoints(t *testing.T) {
	api := newTestAPI(t)
	creds := map[string]string{"email": "dina@example.com", "password": "pw123"}

	code, resp := api.do(http.MethodPost, "/auth/register", "", creds)
	require.Equal(t, http.StatusCreated, code, resp)
	assert.Equal(t, "User registered successfully", resp["message"])
	assert.NotEmpty(t, resp["token"])
	user := resp["user"].(map[string]interface{})
	assert.Equal(t, "member", user["role"])
	assert.NotContains(t, user, "passwordHash")

	code, resp = api.do(http.MethodPost, "/auth/register", "", creds)
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "User already exists", resp["message"])

	code, _ = api.do(http.MethodPost, "/auth/register", "", map[string]string{"email": "x@example.com"})
	assert.Equal(t, http.StatusBadRequest, code)

	code, resp = api.do(http.MethodPost, "/auth/login", "", map[string]string{"email": "dina@example.com", "password": "nope"})
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "Invalid credentials", resp["message"])

	code, resp = api.do(http.MethodPost, "/auth/login", "", creds)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Login successful", resp["message"])
	token := resp["token"].(string)

	code, resp = api.do(http.MethodGet, "/auth/profile", token, nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "dina@example.com", resp["user"].(map[string]interface{})["email"])

	code, _ = api.do(http.MethodGet, "/auth/profile", "", nil)
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestCatalogEndpoints(t *testing.T) {
	api := newTestAPI(t)

	code, resp := api.do(http.MethodGet, "/restaurants", "", nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Len(t, resp["restaurants"], 2)

	code, resp = api.do(http.MethodGet, "/restaurants/1/menu-items", "", nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Len(t, resp["menuItems"], 5)

	code, resp = api.do(http.MethodGet, "/menu-items/5", "", nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "9.50", resp["menuItem"].(map[string]interface{})["price"])

	code, resp = api.do(http.MethodGet, "/restaurants/abc", "", nil)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Invalid restaurant ID", resp["message"])

	code, resp = api.do(http.MethodGet, "/restaurants/42", "", nil)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "Restaurant not found", resp["message"])

	code, resp = api.do(http.MethodGet, "/menu-items/0", "", nil)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Invalid menu item ID", resp["message"])
}

func TestCreateOrderEndpoint(t *testing.T) {
	api := newTestAPI(t)
	token := api.login("member@example.com", models.RoleMember)

	code, resp := api.do(http.MethodPost, "/orders", token, map[string]interface{}{
		"restaurantId": 1,
		"items":        []map[string]int{{"menuItemId": 5, "quantity": 2}},
	})
	require.Equal(t, http.StatusCreated, code, resp)
	assert.Equal(t, "Order created successfully", resp["message"])
	order := resp["order"].(map[string]interface{})
	assert.Equal(t, "19.00", order["totalAmount"])
	assert.Equal(t, "pending", order["status"])

	code, resp = api.do(http.MethodPost, "/orders", token, map[string]interface{}{"restaurantId": 1, "items": []interface{}{}})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Restaurant ID and items are required", resp["message"])

	code, _ = api.do(http.MethodPost, "/orders", token, map[string]interface{}{
		"restaurantId": 1,
		"items":        []map[string]int{{"menuItemId": 77, "quantity": 1}},
	})
	assert.Equal(t, http.StatusNotFound, code)

	code, resp = api.do(http.MethodPost, "/orders", token, map[string]interface{}{
		"restaurantId": 1,
		"items":        []map[string]int{{"menuItemId": 4, "quantity": 1234567890123457}},
	})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Quantity for menu item 4 is too large", resp["message"])

	code, _ = api.do(http.MethodPost, "/orders", "", map[string]interface{}{"restaurantId": 1})
	assert.Equal(t, http.StatusUnauthorized, code)

	code, resp = api.do(http.MethodGet, "/orders/1", token, nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Len(t, resp["order"].(map[string]interface{})["items"], 1)
}

func TestOrdersAreNotVisibleToOtherAccounts(t *testing.T) {
	api := newTestAPI(t)
	owner := api.login("owner@example.com", models.RoleMember)
	stranger := api.login("stranger@example.com", models.RoleManager)

	code, resp := api.do(http.MethodPost, "/orders", owner, map[string]interface{}{
		"restaurantId": 1,
		"items":        []map[string]int{{"menuItemId": 1, "quantity": 1}},
	})
	require.Equal(t, http.StatusCreated, code)
	id := int(resp["order"].(map[string]interface{})["id"].(float64))
	path := "/orders/" + itoa(id)

	code, resp = api.do(http.MethodGet, path, stranger, nil)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "Order not found", resp["message"])

	code, _ = api.do(http.MethodPatch, path+"/cancel", stranger, nil)
	assert.Equal(t, http.StatusNotFound, code)

	code, resp = api.do(http.MethodGet, "/orders", stranger, nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Empty(t, resp["orders"])
}

func TestMemberCannotCancel(t *testing.T) {
	api := newTestAPI(t)
	member := api.login("member@example.com", models.RoleMember)
	require.NoError(t, api.db.Create(&models.Order{ID: 3, UserID: 1, RestaurantID: 1, Status: models.OrderStatusPending, TotalAmount: models.MustMoney("9.50")}).Error)

	code, resp := api.do(http.MethodPatch, "/orders/3/cancel", member, nil)
	assert.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, "Only Admin and Manager can cancel orders", resp["message"])

	// the role check wins over a malformed id
	code, _ = api.do(http.MethodPatch, "/orders/abc/cancel", member, nil)
	assert.Equal(t, http.StatusForbidden, code)

	var order models.Order
	require.NoError(t, api.db.First(&order, 3).Error)
	assert.Equal(t, models.OrderStatusPending, order.Status)
}

func TestCancelAndCheckoutEndpoints(t *testing.T) {
	api := newTestAPI(t)
	manager := api.login("manager@example.com", models.RoleManager)

	create := func() string {
		code, resp := api.do(http.MethodPost, "/orders", manager, map[string]interface{}{
			"restaurantId": 1,
			"items":        []map[string]int{{"menuItemId": 2, "quantity": 1}},
		})
		require.Equal(t, http.StatusCreated, code)
		return itoa(int(resp["order"].(map[string]interface{})["id"].(float64)))
	}

	first := create()
	code, resp := api.do(http.MethodPost, "/checkout", manager, map[string]interface{}{"orderId": atoi(first)})
	require.Equal(t, http.StatusOK, code, resp)
	assert.Equal(t, "Checkout successful", resp["message"])
	assert.Equal(t, "confirmed", resp["order"].(map[string]interface{})["status"])
	payment := resp["payment"].(map[string]interface{})
	assert.Equal(t, "approved", payment["status"])
	assert.Equal(t, "13.00", payment["amount"])

	code, resp = api.do(http.MethodPost, "/checkout", manager, map[string]interface{}{"orderId": atoi(first)})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Order is not in pending status", resp["message"])

	code, resp = api.do(http.MethodPatch, "/orders/"+first+"/cancel", manager, nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Order cancelled successfully", resp["message"])

	code, resp = api.do(http.MethodPatch, "/orders/"+first+"/cancel", manager, nil)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Order is already cancelled", resp["message"])

	code, resp = api.do(http.MethodPost, "/checkout", manager, map[string]interface{}{})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Order ID is required", resp["message"])

	second := create()
	code, resp = api.do(http.MethodPost, "/checkout", manager, map[string]interface{}{"orderId": atoi(second), "paymentMethodId": 999})
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "Payment method not found", resp["message"])

	member := api.login("member@example.com", models.RoleMember)
	code, resp = api.do(http.MethodPost, "/checkout", member, map[string]interface{}{"orderId": atoi(second)})
	assert.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, "Only Admin and Manager can checkout", resp["message"])
}

func TestPaymentMethodEndpoints(t *testing.T) {
	api := newTestAPI(t)
	admin := api.login("admin@example.com", models.RoleAdmin)
	member := api.login("member@example.com", models.RoleMember)

	code, resp := api.do(http.MethodPost, "/payment-methods", admin, map[string]interface{}{
		"type": "card", "cardNumber": "4111 1111 1111 1111", "expiryDate": "09/28", "isDefault": true,
	})
	require.Equal(t, http.StatusCreated, code, resp)
	a := resp["paymentMethod"].(map[string]interface{})
	assert.Equal(t, "**** **** **** 1111", a["cardNumber"])
	assert.Equal(t, true, a["isDefault"])

	code, resp = api.do(http.MethodPost, "/payment-methods", admin, map[string]interface{}{"type": "wallet", "isDefault": true})
	require.Equal(t, http.StatusCreated, code)
	b := resp["paymentMethod"].(map[string]interface{})

	code, resp = api.do(http.MethodGet, "/payment-methods", admin, nil)
	require.Equal(t, http.StatusOK, code)
	methods := resp["paymentMethods"].([]interface{})
	require.Len(t, methods, 2)
	byID := map[float64]bool{}
	for _, m := range methods {
		pm := m.(map[string]interface{})
		byID[pm["id"].(float64)] = pm["isDefault"].(bool)
	}
	assert.False(t, byID[a["id"].(float64)])
	assert.True(t, byID[b["id"].(float64)])

	aPath := "/payment-methods/" + itoa(int(a["id"].(float64)))
	code, resp = api.do(http.MethodPatch, aPath, admin, map[string]interface{}{"isDefault": true})
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Payment method updated successfully", resp["message"])

	code, resp = api.do(http.MethodPost, "/payment-methods", member, map[string]interface{}{"type": "wallet"})
	assert.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, "Only Admin can add payment methods", resp["message"])

	code, _ = api.do(http.MethodDelete, aPath, member, nil)
	assert.Equal(t, http.StatusForbidden, code)

	code, resp = api.do(http.MethodGet, "/payment-methods", member, nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Empty(t, resp["paymentMethods"])

	code, _ = api.do(http.MethodGet, aPath, member, nil)
	assert.Equal(t, http.StatusNotFound, code)

	code, resp = api.do(http.MethodPost, "/payment-methods", admin, map[string]interface{}{"type": "cash"})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Type must be card or wallet", resp["message"])

	code, resp = api.do(http.MethodDelete, "/payment-methods/x", admin, nil)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Invalid payment method ID", resp["message"])

	code, resp = api.do(http.MethodDelete, aPath, admin, nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Payment method deleted successfully", resp["message"])

	code, _ = api.do(http.MethodDelete, aPath, admin, nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestUsersRequireAdmin(t *testing.T) {
	api := newTestAPI(t)
	admin := api.login("admin@example.com", models.RoleAdmin)
	manager := api.login("manager@example.com", models.RoleManager)

	code, resp := api.do(http.MethodGet, "/users", admin, nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Len(t, resp["users"], 2)

	code, _ = api.do(http.MethodGet, "/users", manager, nil)
	assert.Equal(t, http.StatusForbidden, code)

	code, resp = api.do(http.MethodGet, "/users/abc", admin, nil)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Invalid user ID", resp["message"])

	code, _ = api.do(http.MethodGet, "/users/99", admin, nil)
	assert.Equal(t, http.StatusNotFound, code)
}
