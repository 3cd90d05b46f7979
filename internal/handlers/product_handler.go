package handlers

import (
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"inventory/internal/form"
	"inventory/internal/repositories"
	"inventory/internal/services"
	"inventory/internal/table"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// ProductHandler exposes the product store over REST.
type ProductHandler struct {
	store     *services.ProductStore
	validator *form.Validator
	tableOpts table.Options
}

// NewProductHandler creates a new ProductHandler. tableOpts sets the default
// page size of list responses.
func NewProductHandler(store *services.ProductStore, validator *form.Validator, tableOpts table.Options) *ProductHandler {
	return &ProductHandler{
		store:     store,
		validator: validator,
		tableOpts: tableOpts,
	}
}

// RegisterRoutes registers the product routes.
func (h *ProductHandler) RegisterRoutes(router fiber.Router) {
	productRoutes := router.Group("/products")
	productRoutes.Get("/", h.HandleListProducts)
	productRoutes.Get("/:id", h.HandleGetProduct)
	productRoutes.Post("/", h.HandleCreateProduct)
	productRoutes.Put("/:id", h.HandleUpdateProduct)
	productRoutes.Delete("/:id", h.HandleDeleteProduct)
}

// queryValues returns every value of a repeated or comma separated parameter.
func queryValues(c *fiber.Ctx, key string) []string {
	var out []string
	for _, raw := range c.Context().QueryArgs().PeekMulti(key) {
		for _, v := range strings.Split(string(raw), ",") {
			if v = strings.TrimSpace(v); v != "" {
				out = append(out, v)
			}
		}
	}
	return out
}

// HandleListProducts renders one page of the product table. Query parameters:
// name, status, category, sort, desc, page (zero based) and page_size.
func (h *ProductHandler) HandleListProducts(c *fiber.Ctx) error {
	tbl := table.New(h.tableOpts)
	tbl.SetData(h.store.AllProducts())
	tbl.SetNameFilter(c.Query("name"))
	for _, s := range queryValues(c, "status") {
		tbl.ToggleStatus(s)
	}
	for _, cat := range queryValues(c, "category") {
		tbl.ToggleCategory(cat)
	}

	errs := map[string]string{}
	if col := c.Query("sort"); col != "" {
		if col == "none" {
			tbl.ClearSort()
		} else if err := tbl.SetSort(table.ColumnID(col), c.QueryBool("desc", false)); err != nil {
			errs["sort"] = err.Error()
		}
	}
	if raw := c.Query("page_size"); raw != "" {
		size, err := strconv.Atoi(raw)
		if err == nil {
			err = tbl.SetPageSize(size)
		}
		if err != nil {
			errs["page_size"] = fmt.Sprintf("page_size must be a positive integer, got %q", raw)
		}
	}
	if raw := c.Query("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil || page < 0 {
			errs["page"] = fmt.Sprintf("page must be a non-negative integer, got %q", raw)
		} else {
			tbl.SetPageIndex(page)
		}
	}
	if len(errs) > 0 {
		return validationFailed(c, errs)
	}

	return c.JSON(tbl.Render())
}

func productNotFound(c *fiber.Ctx, id string) error {
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
		"message": fmt.Sprintf("Product with ID %s not found", id),
	})
}

// HandleGetProduct returns a single product.
func (h *ProductHandler) HandleGetProduct(c *fiber.Ctx) error {
	id := c.Params("id")
	p, ok := h.store.Product(id)
	if !ok {
		return productNotFound(c, id)
	}
	return c.JSON(p)
}

// parseForm decodes and validates the product form. When ok is false the
// error response has been written and err is the result of writing it.
func (h *ProductHandler) parseForm(c *fiber.Ctx, f *form.ProductForm) (form.Values, bool, error) {
	if err := c.BodyParser(f); err != nil {
		log.Printf("Error parsing product request body: %v", err)
		return form.Values{}, false, invalidBody(c, err)
	}
	values, err := h.validator.Validate(*f)
	if err != nil {
		var fieldErrors form.FieldErrors
		if errors.As(err, &fieldErrors) {
			return form.Values{}, false, validationFailed(c, fieldErrors)
		}
		return form.Values{}, false, c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not validate product",
			"error":   err.Error(),
		})
	}
	return values, true, nil
}

func (h *ProductHandler) storeError(c *fiber.Ctx, id string, err error) error {
	log.Printf("Error writing product %s: %v", id, err)
	switch {
	case errors.Is(err, repositories.ErrProductNotFound):
		return productNotFound(c, id)
	case errors.Is(err, repositories.ErrDuplicateProduct):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"message": fmt.Sprintf("Product with ID %s already exists", id),
		})
	case errors.Is(err, services.ErrInvalidProduct):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid product",
			"error":   err.Error(),
		})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"message": "Could not save product",
		"error":   err.Error(),
	})
}

// HandleCreateProduct validates the form and adds a new product.
func (h *ProductHandler) HandleCreateProduct(c *fiber.Ctx) error {
	f := form.Defaults()
	values, ok, err := h.parseForm(c, &f)
	if !ok {
		return err
	}

	p := values.NewProduct(uuid.New().String(), time.Now())
	if err := h.store.AddProduct(c.UserContext(), &p); err != nil {
		return h.storeError(c, p.ID, err)
	}
	return c.Status(fiber.StatusCreated).JSON(p)
}

// HandleUpdateProduct validates the form and updates the product in place.
// The ID and creation time are kept.
func (h *ProductHandler) HandleUpdateProduct(c *fiber.Ctx) error {
	id := c.Params("id")
	existing, found := h.store.Product(id)
	if !found {
		return productNotFound(c, id)
	}

	f := form.FromProduct(existing)
	values, ok, err := h.parseForm(c, &f)
	if !ok {
		return err
	}

	p := values.ApplyTo(existing)
	if err := h.store.UpdateProduct(c.UserContext(), &p); err != nil {
		return h.storeError(c, id, err)
	}
	return c.JSON(p)
}

// HandleDeleteProduct removes a product.
func (h *ProductHandler) HandleDeleteProduct(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.store.DeleteProduct(c.UserContext(), id); err != nil {
		return h.storeError(c, id, err)
	}
	return c.JSON(fiber.Map{
		"message": fmt.Sprintf("Product with ID %s deleted successfully", id),
	})
}
