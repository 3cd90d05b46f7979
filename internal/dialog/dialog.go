// Package dialog drives the add/edit product modal: which record is being
// edited, the form it shows and what happens on submit or cancel.
package dialog

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"inventory/internal/form"
	"inventory/internal/models"
	"inventory/internal/notify"

	"github.com/google/uuid"
)

// ErrClosed is returned by form operations while the dialog is closed.
var ErrClosed = errors.New("product dialog is not open")

// Toast descriptions.
const (
	MsgAdded        = "Product added successfully!"
	MsgUpdated      = "Product updated successfully!"
	MsgAddFailed    = "Something went wrong while adding the product."
	MsgUpdateFailed = "Something went wrong while updating the product."
)

// State is the dialog lifecycle state.
type State int

const (
	Closed State = iota
	OpenCreate
	OpenEdit
)

func (s State) String() string {
	switch s {
	case OpenCreate:
		return "create"
	case OpenEdit:
		return "edit"
	default:
		return "closed"
	}
}

// Store is the write side of the product store.
type Store interface {
	AddProduct(ctx context.Context, p *models.Product) error
	UpdateProduct(ctx context.Context, p *models.Product) error
}

// Options tunes submit behaviour.
type Options struct {
	// CloseOnUpdate closes the dialog after a successful update. When false
	// the dialog stays open on the saved record.
	CloseOnUpdate bool
	// NotifyCreateFailure sends an error toast when the store rejects a new
	// record.
	NotifyCreateFailure bool
	// NewID and Now build fresh records. Nil uses uuid.New and time.Now.
	NewID func() string
	Now   func() time.Time
}

// DefaultOptions returns the dashboard defaults.
func DefaultOptions() Options {
	return Options{
		CloseOnUpdate:       false,
		NotifyCreateFailure: true,
	}
}

// Controller owns one dialog. It is not safe for concurrent use; callers
// serialize access.
type Controller struct {
	store     Store
	notifier  notify.Notifier
	validator *form.Validator
	opts      Options

	state    State
	form     form.ProductForm
	selected *models.Product
	errors   form.FieldErrors
}

// New creates a closed Controller.
func New(store Store, notifier notify.Notifier, validator *form.Validator, opts Options) *Controller {
	if opts.NewID == nil {
		opts.NewID = func() string { return uuid.New().String() }
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if notifier == nil {
		notifier = notify.Log{}
	}
	return &Controller{
		store:     store,
		notifier:  notifier,
		validator: validator,
		opts:      opts,
		form:      form.Defaults(),
	}
}

// State returns the current lifecycle state.
func (c *Controller) State() State { return c.state }

// IsOpen reports whether the dialog is showing.
func (c *Controller) IsOpen() bool { return c.state != Closed }

// Selected returns the record being edited, or nil in create mode.
func (c *Controller) Selected() *models.Product {
	if c.selected == nil {
		return nil
	}
	p := *c.selected
	return &p
}

// Form returns a copy of the current form.
func (c *Controller) Form() form.ProductForm {
	f := c.form
	if f.Quantity != nil {
		q := *f.Quantity
		f.Quantity = &q
	}
	return f
}

// Errors returns the field errors from the last submit.
func (c *Controller) Errors() form.FieldErrors {
	if len(c.errors) == 0 {
		return nil
	}
	out := make(form.FieldErrors, len(c.errors))
	for k, v := range c.errors {
		out[k] = v
	}
	return out
}

// Open shows the dialog. A nil selection starts a new record from the form
// defaults; otherwise the form is pre-filled from selected.
func (c *Controller) Open(selected *models.Product) {
	c.errors = nil
	if selected == nil {
		c.state = OpenCreate
		c.selected = nil
		c.form = form.Defaults()
		return
	}
	p := *selected
	c.state = OpenEdit
	c.selected = &p
	c.form = form.FromProduct(p)
}

// Edit applies fn to the form.
func (c *Controller) Edit(fn func(f *form.ProductForm)) error {
	if !c.IsOpen() {
		return ErrClosed
	}
	fn(&c.form)
	return nil
}

// SelectCategory sets the category picker.
func (c *Controller) SelectCategory(category models.Category) error {
	return c.Edit(func(f *form.ProductForm) { f.Category = category })
}

// SelectStatus sets the status tab.
func (c *Controller) SelectStatus(status models.Status) error {
	return c.Edit(func(f *form.ProductForm) { f.Status = status })
}

// SelectIcon sets the icon picker.
func (c *Controller) SelectIcon(glyph string) error {
	return c.Edit(func(f *form.ProductForm) { f.Icon = glyph })
}

// Submit validates the form and writes it to the store. Field errors are
// returned as form.FieldErrors with nothing written. A store failure leaves
// the dialog open with the same form so the operator can retry.
func (c *Controller) Submit(ctx context.Context) (*models.Product, error) {
	if !c.IsOpen() {
		return nil, ErrClosed
	}

	values, err := c.validator.Validate(c.form)
	if err != nil {
		var fieldErrors form.FieldErrors
		if errors.As(err, &fieldErrors) {
			c.errors = fieldErrors
		}
		return nil, err
	}
	c.errors = nil

	if c.state == OpenCreate {
		return c.create(ctx, values)
	}
	return c.update(ctx, values)
}

func (c *Controller) create(ctx context.Context, values form.Values) (*models.Product, error) {
	p := values.NewProduct(c.opts.NewID(), c.opts.Now())
	if err := c.store.AddProduct(ctx, &p); err != nil {
		log.Printf("Error adding product %s: %v", p.SKU, err)
		if c.opts.NotifyCreateFailure {
			c.notifier.Notify(notify.Failure(MsgAddFailed))
		}
		return nil, fmt.Errorf("failed to add product: %w", err)
	}

	c.notifier.Notify(notify.Success(MsgAdded))
	c.reset()
	return &p, nil
}

func (c *Controller) update(ctx context.Context, values form.Values) (*models.Product, error) {
	p := values.ApplyTo(*c.selected)
	if err := c.store.UpdateProduct(ctx, &p); err != nil {
		log.Printf("Error updating product %s: %v", p.ID, err)
		c.notifier.Notify(notify.Failure(MsgUpdateFailed))
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	c.notifier.Notify(notify.Success(MsgUpdated))
	if c.opts.CloseOnUpdate {
		c.reset()
	} else {
		saved := p
		c.selected = &saved
		c.form = form.FromProduct(p)
	}
	return &p, nil
}

// Cancel discards the form and the selection and closes the dialog.
func (c *Controller) Cancel() {
	c.reset()
}

func (c *Controller) reset() {
	c.state = Closed
	c.selected = nil
	c.errors = nil
	c.form = form.Defaults()
}

// Title is the dialog heading.
func (c *Controller) Title() string {
	if c.state == OpenEdit {
		return "Edit Product"
	}
	return "Add Product"
}

// SubmitLabel is the submit button text while loading is the store state.
func (c *Controller) SubmitLabel(loading bool) string {
	switch {
	case loading:
		return "loading..."
	case c.state == OpenEdit:
		return "Save Product"
	default:
		return "Add Product"
	}
}
