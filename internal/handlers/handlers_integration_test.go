package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"inventory/internal/dashboard"
	"inventory/internal/form"
	"inventory/internal/handlers"
	"inventory/internal/middleware"
	"inventory/internal/models"
	"inventory/internal/repositories"
	"inventory/internal/services"
	"inventory/internal/table"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testJWTSecret = "test_jwt_secret"

// setupApp sets up a Fiber app for testing with in-memory SQLite and all handlers/services.
func setupApp(t *testing.T) (*fiber.App, *services.AuthService) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Product{}, &models.User{}))

	productRepo := repositories.NewGORMProductRepository(db)
	userRepo := repositories.NewGORMUserRepository(db)

	store := services.NewProductStore(productRepo, nil)
	seedProductsForTest(t, store)
	authService := services.NewAuthService(userRepo, testJWTSecret)

	tableOpts := table.DefaultOptions()
	tableOpts.Location = time.UTC
	dashOpts := dashboard.DefaultOptions()
	dashOpts.Table = tableOpts

	authHandler := handlers.NewAuthHandler(authService)
	productHandler := handlers.NewProductHandler(store, form.NewValidator(), tableOpts)
	dashboardHandler := handlers.NewDashboardHandler(dashboard.NewManager(store, dashOpts), store)

	app := fiber.New()
	apiV1 := app.Group("/api/v1")
	authHandler.RegisterRoutes(apiV1)

	protectedRoutes := apiV1.Group("", middleware.AuthRequired(authService))
	productHandler.RegisterRoutes(protectedRoutes)
	dashboardHandler.RegisterRoutes(protectedRoutes)

	return app, authService
}

var seedTime = time.Date(2024, time.April, 2, 12, 0, 0, 0, time.UTC)

// seedProductsForTest adds p1..p10; every third product is a draft.
func seedProductsForTest(t *testing.T, store *services.ProductStore) {
	ctx := context.Background()
	for i := 1; i <= 10; i++ {
		status := models.StatusPublished
		if i%3 == 0 {
			status = models.StatusDraft
		}
		p := models.Product{
			ID:              fmt.Sprintf("p%d", i),
			Name:            fmt.Sprintf("Test Item %d", i),
			SKU:             fmt.Sprintf("TEST-%d", i),
			Supplier:        "Acme",
			Category:        models.CategoryElectronics,
			Status:          status,
			QuantityInStock: 5,
			Price:           float64(i) * 10,
			Icon:            "laptop",
			CreatedAt:       seedTime.Add(time.Duration(i) * time.Hour),
		}
		if i%2 == 0 {
			p.Category = models.CategoryHomeDecor
		}
		require.NoError(t, store.AddProduct(ctx, &p))
	}
}

// TestMain runs setup and teardown for all tests
func TestMain(m *testing.M) {
	// Suppress logging during tests for cleaner output
	log.SetOutput(io.Discard)
	os.Exit(m.Run())
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, body interface{}) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode(t *testing.T, resp *http.Response, v interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

func login(t *testing.T, app *fiber.App, username string) string {
	t.Helper()
	resp := doJSON(t, app, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"username": username,
		"email":    username + "@example.com",
		"password": "password123",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, app, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"username": username,
		"password": "password123",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var loginResp map[string]string
	decode(t, resp, &loginResp)
	require.NotEmpty(t, loginResp["token"])
	return loginResp["token"]
}

func TestAuthRegisterAndLogin(t *testing.T) {
	app, authService := setupApp(t)
	token := login(t, app, "testuser")

	// Duplicate registration
	resp := doJSON(t, app, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"username": "testuser",
		"email":    "other@example.com",
		"password": "password123",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	resp.Body.Close()

	// Wrong password
	resp = doJSON(t, app, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"username": "testuser",
		"password": "nope",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	// Invalid registration payload
	resp = doJSON(t, app, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"username": "x",
		"email":    "not-an-email",
		"password": "123",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	claims, err := authService.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "testuser", claims["username"])
	assert.Contains(t, claims, "user_id")
}

func TestProductEndpointsWithoutAuth(t *testing.T) {
	app, _ := setupApp(t)

	resp := doJSON(t, app, http.MethodGet, "/api/v1/products", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, app, http.MethodPost, "/api/v1/products", "", map[string]interface{}{"product_name": "Nope"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, app, http.MethodGet, "/api/v1/dashboard", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()
}

func TestListProducts(t *testing.T) {
	app, _ := setupApp(t)
	token := login(t, app, "lister")

	var view table.View
	decode(t, doJSON(t, app, http.MethodGet, "/api/v1/products", token, nil), &view)
	assert.Equal(t, "10 products", view.Header)
	assert.Equal(t, 2, view.PageCount)
	require.Len(t, view.Rows, 8)
	assert.Equal(t, "p10", view.Rows[0].ID)
	assert.Equal(t, "$100.00", view.Rows[0].Price)

	decode(t, doJSON(t, app, http.MethodGet, "/api/v1/products?status=draft", token, nil), &view)
	assert.Equal(t, 3, view.FilteredCount)
	for _, r := range view.Rows {
		assert.Equal(t, "Draft", r.Status.Label)
	}

	decode(t, doJSON(t, app, http.MethodGet, "/api/v1/products?status=Draft&category=home-decor", token, nil), &view)
	assert.Equal(t, 1, view.FilteredCount)
	assert.Equal(t, "p6", view.Rows[0].ID)

	decode(t, doJSON(t, app, http.MethodGet, "/api/v1/products?sort=price&page=1&page_size=3", token, nil), &view)
	assert.Equal(t, 1, view.PageIndex)
	assert.Equal(t, "p4", view.Rows[0].ID)

	decode(t, doJSON(t, app, http.MethodGet, "/api/v1/products?name=Item%201", token, nil), &view)
	assert.Equal(t, 2, view.FilteredCount)

	resp := doJSON(t, app, http.MethodGet, "/api/v1/products?sort=actions", token, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func TestProductCRUD(t *testing.T) {
	app, _ := setupApp(t)
	token := login(t, app, "authuser")

	// Validation failure
	resp := doJSON(t, app, http.MethodPost, "/api/v1/products", token, map[string]interface{}{
		"product_name": "",
		"sku":          "ABC-1",
		"supplier":     "Acme",
		"quantity":     5,
		"price":        "12.5",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	var failed struct {
		Message string            `json:"message"`
		Errors  map[string]string `json:"errors"`
	}
	decode(t, resp, &failed)
	assert.Equal(t, "Validation failed", failed.Message)
	assert.Equal(t, map[string]string{"product_name": "Product Name is required"}, failed.Errors)

	// Create
	resp = doJSON(t, app, http.MethodPost, "/api/v1/products", token, map[string]interface{}{
		"product_name": "Smartphone",
		"sku":          "PH-100",
		"supplier":     "Acme",
		"quantity":     50,
		"price":        799.999,
		"category":     "Electronics",
		"status":       "Draft",
		"icon":         "phone",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var created models.Product
	decode(t, resp, &created)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "Smartphone", created.Name)
	assert.Equal(t, 800.0, created.Price)
	assert.Equal(t, models.StatusDraft, created.Status)

	// Get
	var fetched models.Product
	decode(t, doJSON(t, app, http.MethodGet, "/api/v1/products/"+created.ID, token, nil), &fetched)
	assert.Equal(t, created.ID, fetched.ID)

	// Update keeps id, creation time, category and status
	resp = doJSON(t, app, http.MethodPut, "/api/v1/products/"+created.ID, token, map[string]interface{}{
		"quantity": 0,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var updated models.Product
	decode(t, resp, &updated)
	assert.Equal(t, created.ID, updated.ID)
	assert.True(t, created.CreatedAt.Equal(updated.CreatedAt))
	assert.Equal(t, 0, updated.QuantityInStock)
	assert.Equal(t, created.Category, updated.Category)
	assert.Equal(t, created.Status, updated.Status)

	// Bad SKU on update
	resp = doJSON(t, app, http.MethodPut, "/api/v1/products/"+created.ID, token, map[string]interface{}{
		"sku": "bad sku",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	// Delete
	resp = doJSON(t, app, http.MethodDelete, "/api/v1/products/"+created.ID, token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var deleteResp map[string]string
	decode(t, resp, &deleteResp)
	assert.Contains(t, deleteResp["message"], "deleted successfully")

	for _, method := range []string{http.MethodGet, http.MethodDelete} {
		resp = doJSON(t, app, method, "/api/v1/products/"+created.ID, token, nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode, method)
		resp.Body.Close()
	}
	resp = doJSON(t, app, http.MethodPut, "/api/v1/products/"+created.ID, token, map[string]interface{}{"quantity": 1})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestDashboardFlow(t *testing.T) {
	app, _ := setupApp(t)
	token := login(t, app, "operator")

	var view dashboard.View
	decode(t, doJSON(t, app, http.MethodGet, "/api/v1/dashboard", token, nil), &view)
	assert.Equal(t, "operator", view.Owner)
	assert.Equal(t, 10, view.Table.TotalCount)
	assert.False(t, view.Dialog.Open)

	// Filter to drafts, then reset
	decode(t, doJSON(t, app, http.MethodPost, "/api/v1/dashboard/filters", token,
		map[string]string{"dimension": "status", "value": "Draft"}), &view)
	assert.Equal(t, 3, view.Table.FilteredCount)
	assert.True(t, view.Table.Filters.ShowReset)

	resp := doJSON(t, app, http.MethodPost, "/api/v1/dashboard/filters", token,
		map[string]string{"dimension": "supplier", "value": "Acme"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	decode(t, doJSON(t, app, http.MethodPost, "/api/v1/dashboard/filters", token,
		map[string]string{"action": "reset"}), &view)
	assert.Equal(t, 10, view.Table.FilteredCount)

	// Sort and page
	decode(t, doJSON(t, app, http.MethodPost, "/api/v1/dashboard/sort", token,
		map[string]interface{}{"column": "name"}), &view)
	assert.Equal(t, "asc", view.Table.Columns[0].Sorted)
	decode(t, doJSON(t, app, http.MethodPost, "/api/v1/dashboard/page", token,
		map[string]string{"action": "last"}), &view)
	assert.Equal(t, 1, view.Table.PageIndex)

	// Edit p1 through the dialog
	decode(t, doJSON(t, app, http.MethodPost, "/api/v1/dashboard/dialog/open", token,
		map[string]string{"product_id": "p1"}), &view)
	assert.Equal(t, "Edit Product", view.Dialog.Title)
	assert.Equal(t, "Save Product", view.Dialog.SubmitLabel)

	decode(t, doJSON(t, app, http.MethodPatch, "/api/v1/dashboard/dialog/form", token,
		map[string]interface{}{"quantity": 0}), &view)
	require.NotNil(t, view.Dialog.Form.Quantity)
	assert.Equal(t, 0.0, *view.Dialog.Form.Quantity)

	resp = doJSON(t, app, http.MethodPost, "/api/v1/dashboard/dialog/submit", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var submitted struct {
		Product   models.Product `json:"product"`
		Dashboard dashboard.View `json:"dashboard"`
	}
	decode(t, resp, &submitted)
	assert.Equal(t, "p1", submitted.Product.ID)
	assert.Equal(t, 0, submitted.Product.QuantityInStock)
	assert.True(t, seedTime.Add(time.Hour).Equal(submitted.Product.CreatedAt))
	assert.Equal(t, models.CategoryElectronics, submitted.Product.Category)
	require.Len(t, submitted.Dashboard.Toasts, 1)
	assert.Equal(t, "Product updated successfully!", submitted.Dashboard.Toasts[0].Description)
	assert.True(t, submitted.Dashboard.Dialog.Open)

	// Cancel, then a create with a validation error
	decode(t, doJSON(t, app, http.MethodPost, "/api/v1/dashboard/dialog/cancel", token, nil), &view)
	assert.False(t, view.Dialog.Open)

	resp = doJSON(t, app, http.MethodPatch, "/api/v1/dashboard/dialog/form", token, map[string]interface{}{"sku": "X"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	resp.Body.Close()

	decode(t, doJSON(t, app, http.MethodPost, "/api/v1/dashboard/dialog/open", token, nil), &view)
	assert.Equal(t, "Add Product", view.Dialog.Title)
	decode(t, doJSON(t, app, http.MethodPatch, "/api/v1/dashboard/dialog/form", token, map[string]interface{}{
		"sku":      "NEW-1",
		"supplier": "Acme",
		"quantity": 1,
		"price":    "9.99",
	}), &view)

	resp = doJSON(t, app, http.MethodPost, "/api/v1/dashboard/dialog/submit", token, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	var invalid struct {
		Errors map[string]string `json:"errors"`
	}
	decode(t, resp, &invalid)
	assert.Equal(t, map[string]string{"product_name": "Product Name is required"}, invalid.Errors)

	decode(t, doJSON(t, app, http.MethodPatch, "/api/v1/dashboard/dialog/form", token,
		map[string]interface{}{"product_name": "New Thing"}), &view)
	resp = doJSON(t, app, http.MethodPost, "/api/v1/dashboard/dialog/submit", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decode(t, resp, &submitted)
	assert.Equal(t, "New Thing", submitted.Product.Name)
	assert.False(t, submitted.Dashboard.Dialog.Open)
	assert.Equal(t, "11 products", submitted.Dashboard.Table.Header)

	resp = doJSON(t, app, http.MethodPost, "/api/v1/dashboard/dialog/open", token, map[string]string{"product_id": "missing"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestProductNumericLimits(t *testing.T) {
	app, _ := setupApp(t)
	token := login(t, app, "limits")

	base := func(price interface{}, quantity interface{}) map[string]interface{} {
		return map[string]interface{}{
			"product_name": "Huge",
			"sku":          "BIG-1",
			"supplier":     "Acme",
			"quantity":     quantity,
			"price":        price,
		}
	}
	cases := []struct {
		name  string
		body  map[string]interface{}
		field string
		want  string
	}{
		{"price overflows float", base(json.RawMessage("1e400"), 1), "price", "Price must be 9999999999.99 or less"},
		{"price with huge exponent", base("1e50000000", 1), "price", "Price must be 9999999999.99 or less"},
		{"negative huge price", base("-1e400", 1), "price", "Price cannot be negative"},
		{"quantity beyond int range", base("10", json.RawMessage("1e19")), "quantity", "Quantity is too large"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := doJSON(t, app, http.MethodPost, "/api/v1/products", token, tc.body)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			var failed struct {
				Errors map[string]string `json:"errors"`
			}
			decode(t, resp, &failed)
			assert.Equal(t, map[string]string{tc.field: tc.want}, failed.Errors)
		})
	}

	// The dialog path rejects the same input and stays open.
	var view dashboard.View
	decode(t, doJSON(t, app, http.MethodPost, "/api/v1/dashboard/dialog/open", token, nil), &view)
	decode(t, doJSON(t, app, http.MethodPatch, "/api/v1/dashboard/dialog/form", token, base(json.RawMessage("1e400"), 1)), &view)
	resp := doJSON(t, app, http.MethodPost, "/api/v1/dashboard/dialog/submit", token, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	var invalid struct {
		Errors    map[string]string `json:"errors"`
		Dashboard dashboard.View    `json:"dashboard"`
	}
	decode(t, resp, &invalid)
	assert.Equal(t, map[string]string{"price": "Price must be 9999999999.99 or less"}, invalid.Errors)
	assert.True(t, invalid.Dashboard.Dialog.Open)

	var list table.View
	decode(t, doJSON(t, app, http.MethodGet, "/api/v1/products", token, nil), &list)
	assert.Equal(t, 10, list.TotalCount)
}
