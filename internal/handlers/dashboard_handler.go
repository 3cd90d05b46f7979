package handlers

import (
	"errors"
	"log"

	"inventory/internal/dashboard"
	"inventory/internal/dialog"
	"inventory/internal/form"
	"inventory/internal/middleware"
	"inventory/internal/models"
	"inventory/internal/repositories"
	"inventory/internal/services"
	"inventory/internal/table"

	"github.com/gofiber/fiber/v2"
)

// DashboardHandler serves the per-operator dashboard state.
type DashboardHandler struct {
	manager *dashboard.Manager
	store   *services.ProductStore
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(manager *dashboard.Manager, store *services.ProductStore) *DashboardHandler {
	return &DashboardHandler{
		manager: manager,
		store:   store,
	}
}

// RegisterRoutes registers the dashboard routes. They must sit behind
// middleware.AuthRequired.
func (h *DashboardHandler) RegisterRoutes(router fiber.Router) {
	r := router.Group("/dashboard")
	r.Get("/", h.HandleView)
	r.Post("/reload", h.HandleReload)
	r.Post("/filters", h.HandleFilters)
	r.Post("/search", h.HandleSearch)
	r.Post("/sort", h.HandleSort)
	r.Post("/page", h.HandlePage)
	r.Post("/dialog/open", h.HandleOpenDialog)
	r.Patch("/dialog/form", h.HandleEditForm)
	r.Post("/dialog/submit", h.HandleSubmitDialog)
	r.Post("/dialog/cancel", h.HandleCancelDialog)
}

func (h *DashboardHandler) session(c *fiber.Ctx) *dashboard.Session {
	return h.manager.Session(middleware.Username(c))
}

func (h *DashboardHandler) respond(c *fiber.Ctx, s *dashboard.Session, err error) error {
	if err != nil {
		log.Printf("Dashboard request %s %s failed: %v", c.Method(), c.Path(), err)
		status := fiber.StatusBadRequest
		if errors.Is(err, repositories.ErrProductNotFound) {
			status = fiber.StatusNotFound
		}
		return c.Status(status).JSON(fiber.Map{
			"message": "Dashboard update failed",
			"error":   err.Error(),
		})
	}
	return c.JSON(s.View())
}

// HandleView returns the dashboard.
func (h *DashboardHandler) HandleView(c *fiber.Ctx) error {
	return c.JSON(h.session(c).View())
}

// HandleReload reloads the product collection from the database.
func (h *DashboardHandler) HandleReload(c *fiber.Ctx) error {
	if err := h.store.LoadProducts(c.UserContext()); err != nil {
		log.Printf("Error reloading products: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not load products",
			"error":   err.Error(),
		})
	}
	return c.JSON(h.session(c).View())
}

// FilterRequest toggles or clears a multi-select filter. Action is "toggle"
// (default), "clear" or "reset".
type FilterRequest struct {
	Action    string `json:"action"`
	Dimension string `json:"dimension"`
	Value     string `json:"value"`
}

// HandleFilters updates the status and category filters.
func (h *DashboardHandler) HandleFilters(c *fiber.Ctx) error {
	var req FilterRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c, err)
	}

	s := h.session(c)
	var err error
	switch req.Action {
	case "", "toggle":
		if req.Value == "" {
			return validationFailed(c, map[string]string{"value": "value is required"})
		}
		err = s.ToggleFilter(req.Dimension, req.Value)
	case "clear":
		err = s.ClearFilter(req.Dimension)
	case "reset":
		s.ResetFilters()
	default:
		return validationFailed(c, map[string]string{"action": "action must be toggle, clear or reset"})
	}
	return h.respond(c, s, err)
}

// SearchRequest sets the name filter.
type SearchRequest struct {
	Name string `json:"name"`
}

// HandleSearch sets the name search.
func (h *DashboardHandler) HandleSearch(c *fiber.Ctx) error {
	var req SearchRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c, err)
	}
	s := h.session(c)
	s.Search(req.Name)
	return h.respond(c, s, nil)
}

// SortRequest changes the sort. An empty column clears it; omitting desc
// cycles the column.
type SortRequest struct {
	Column table.ColumnID `json:"column"`
	Desc   *bool          `json:"desc"`
}

// HandleSort updates the active sort.
func (h *DashboardHandler) HandleSort(c *fiber.Ctx) error {
	var req SortRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c, err)
	}
	s := h.session(c)
	return h.respond(c, s, s.Sort(req.Column, req.Desc))
}

// PageRequest navigates the pages. Action is first, previous, next, last or
// goto; a positive size changes the page size.
type PageRequest struct {
	Action string `json:"action"`
	Index  int    `json:"index"`
	Size   int    `json:"size"`
}

// HandlePage moves between pages.
func (h *DashboardHandler) HandlePage(c *fiber.Ctx) error {
	var req PageRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c, err)
	}
	s := h.session(c)
	return h.respond(c, s, s.Page(req.Action, req.Index, req.Size))
}

// OpenDialogRequest opens the add dialog, or the edit dialog for ProductID.
type OpenDialogRequest struct {
	ProductID string `json:"product_id"`
}

// HandleOpenDialog opens the product dialog.
func (h *DashboardHandler) HandleOpenDialog(c *fiber.Ctx) error {
	var req OpenDialogRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return invalidBody(c, err)
		}
	}
	s := h.session(c)
	return h.respond(c, s, s.OpenDialog(req.ProductID))
}

// FormPatch carries the form fields to change; absent fields keep their value.
type FormPatch struct {
	ProductName *string          `json:"product_name"`
	SKU         *string          `json:"sku"`
	Supplier    *string          `json:"supplier"`
	Quantity    *float64         `json:"quantity"`
	Price       *form.PriceInput `json:"price"`
	Category    *models.Category `json:"category"`
	Status      *models.Status   `json:"status"`
	Icon        *string          `json:"icon"`
}

func (p FormPatch) apply(f *form.ProductForm) {
	if p.ProductName != nil {
		f.ProductName = *p.ProductName
	}
	if p.SKU != nil {
		f.SKU = *p.SKU
	}
	if p.Supplier != nil {
		f.Supplier = *p.Supplier
	}
	if p.Quantity != nil {
		q := *p.Quantity
		f.Quantity = &q
	}
	if p.Price != nil {
		f.Price = *p.Price
	}
	if p.Category != nil {
		f.Category = *p.Category
	}
	if p.Status != nil {
		f.Status = *p.Status
	}
	if p.Icon != nil {
		f.Icon = *p.Icon
	}
}

// HandleEditForm changes fields of the open dialog's form.
func (h *DashboardHandler) HandleEditForm(c *fiber.Ctx) error {
	var patch FormPatch
	if err := c.BodyParser(&patch); err != nil {
		return invalidBody(c, err)
	}
	s := h.session(c)
	err := s.EditForm(patch.apply)
	if errors.Is(err, dialog.ErrClosed) {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"message": "Product dialog is not open",
		})
	}
	return h.respond(c, s, err)
}

// HandleSubmitDialog submits the open dialog. Field errors answer 400 and a
// store failure answers 500; both keep the dialog open and include the
// dashboard so the client can show the toast.
func (h *DashboardHandler) HandleSubmitDialog(c *fiber.Ctx) error {
	s := h.session(c)
	p, err := s.SubmitDialog(c.UserContext())
	if err == nil {
		return c.JSON(fiber.Map{
			"product":   p,
			"dashboard": s.View(),
		})
	}

	var fieldErrors form.FieldErrors
	switch {
	case errors.As(err, &fieldErrors):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message":   "Validation failed",
			"errors":    fieldErrors,
			"dashboard": s.View(),
		})
	case errors.Is(err, dialog.ErrClosed):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"message": "Product dialog is not open",
		})
	}
	log.Printf("Error submitting product dialog for %s: %v", s.Owner(), err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"message":   "Could not save product",
		"error":     err.Error(),
		"dashboard": s.View(),
	})
}

// HandleCancelDialog closes the dialog without saving.
func (h *DashboardHandler) HandleCancelDialog(c *fiber.Ctx) error {
	s := h.session(c)
	s.CancelDialog()
	return h.respond(c, s, nil)
}
