// Package dashboard keeps the table, filter and dialog state of each signed-in
// operator.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"inventory/internal/dialog"
	"inventory/internal/form"
	"inventory/internal/models"
	"inventory/internal/notify"
	"inventory/internal/repositories"
	"inventory/internal/table"
)

var (
	// ErrUnknownDimension is returned for a filter other than status or category.
	ErrUnknownDimension = errors.New("unknown filter dimension")
	// ErrUnknownPageAction is returned for an unsupported page navigation.
	ErrUnknownPageAction = errors.New("unknown page action")
)

// Filter dimensions.
const (
	DimensionStatus   = "status"
	DimensionCategory = "category"
)

// Page navigation actions.
const (
	PageFirst    = "first"
	PagePrevious = "previous"
	PageNext     = "next"
	PageLast     = "last"
	PageGoto     = "goto"
)

// Store is what a session needs from the product store.
type Store interface {
	dialog.Store
	AllProducts() []models.Product
	Product(id string) (models.Product, bool)
	IsLoading() bool
}

// Options configures new sessions.
type Options struct {
	Table  table.Options
	Dialog dialog.Options
}

// DefaultOptions returns the table and dialog defaults.
func DefaultOptions() Options {
	return Options{
		Table:  table.DefaultOptions(),
		Dialog: dialog.DefaultOptions(),
	}
}

// View is the whole dashboard for one operator. Toasts are delivered once.
type View struct {
	Owner   string         `json:"owner"`
	Loading bool           `json:"loading"`
	Table   table.View     `json:"table"`
	Dialog  dialog.View    `json:"dialog"`
	Toasts  []notify.Toast `json:"toasts"`
}

// Session is one operator's dashboard. All methods are safe for concurrent
// use; they run one at a time.
type Session struct {
	mu     sync.Mutex
	owner  string
	store  Store
	table  *table.Table
	dialog *dialog.Controller
	inbox  *notify.Inbox
}

// NewSession creates a session with a closed dialog and default sort.
func NewSession(owner string, store Store, validator *form.Validator, opts Options) *Session {
	inbox := &notify.Inbox{}
	return &Session{
		owner:  owner,
		store:  store,
		table:  table.New(opts.Table),
		dialog: dialog.New(store, notify.Multi{inbox, notify.Log{}}, validator, opts.Dialog),
		inbox:  inbox,
	}
}

// Owner is the username the session belongs to.
func (s *Session) Owner() string { return s.owner }

// lock takes the session mutex and refreshes the table rows from the store.
func (s *Session) lock() {
	s.mu.Lock()
	s.table.SetData(s.store.AllProducts())
}

// View renders the dashboard and drains pending toasts.
func (s *Session) View() View {
	s.lock()
	defer s.mu.Unlock()
	return s.view()
}

func (s *Session) view() View {
	loading := s.store.IsLoading()
	toasts := s.inbox.Drain()
	if toasts == nil {
		toasts = []notify.Toast{}
	}
	return View{
		Owner:   s.owner,
		Loading: loading,
		Table:   s.table.Render(),
		Dialog:  s.dialog.Render(loading),
		Toasts:  toasts,
	}
}

// ToggleFilter flips value in the status or category selection.
func (s *Session) ToggleFilter(dimension, value string) error {
	s.lock()
	defer s.mu.Unlock()

	switch dimension {
	case DimensionStatus:
		s.table.ToggleStatus(value)
	case DimensionCategory:
		s.table.ToggleCategory(value)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownDimension, dimension)
	}
	return nil
}

// ClearFilter empties one selection.
func (s *Session) ClearFilter(dimension string) error {
	s.lock()
	defer s.mu.Unlock()

	switch dimension {
	case DimensionStatus:
		s.table.ClearStatuses()
	case DimensionCategory:
		s.table.ClearCategories()
	default:
		return fmt.Errorf("%w: %q", ErrUnknownDimension, dimension)
	}
	return nil
}

// ResetFilters clears both selections.
func (s *Session) ResetFilters() {
	s.lock()
	defer s.mu.Unlock()
	s.table.ResetFilters()
}

// Search sets the name filter.
func (s *Session) Search(name string) {
	s.lock()
	defer s.mu.Unlock()
	s.table.SetNameFilter(name)
}

// Sort sets the active sort. An empty column clears it; a nil desc cycles the
// column through ascending, descending and unsorted.
func (s *Session) Sort(col table.ColumnID, desc *bool) error {
	s.lock()
	defer s.mu.Unlock()

	switch {
	case col == "":
		s.table.ClearSort()
		return nil
	case desc == nil:
		return s.table.ToggleSort(col)
	default:
		return s.table.SetSort(col, *desc)
	}
}

// Page moves through the pages. index is only read for PageGoto; a positive
// size changes the page size first.
func (s *Session) Page(action string, index, size int) error {
	s.lock()
	defer s.mu.Unlock()

	if size > 0 {
		if err := s.table.SetPageSize(size); err != nil {
			return err
		}
	}
	switch action {
	case "":
	case PageFirst:
		s.table.FirstPage()
	case PagePrevious:
		s.table.PreviousPage()
	case PageNext:
		s.table.NextPage()
	case PageLast:
		s.table.LastPage()
	case PageGoto:
		s.table.SetPageIndex(index)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownPageAction, action)
	}
	return nil
}

// OpenDialog opens the add dialog for an empty id and the edit dialog for
// the product with the given id.
func (s *Session) OpenDialog(productID string) error {
	s.lock()
	defer s.mu.Unlock()

	if productID == "" {
		s.dialog.Open(nil)
		return nil
	}
	p, ok := s.store.Product(productID)
	if !ok {
		return fmt.Errorf("product with ID %s: %w", productID, repositories.ErrProductNotFound)
	}
	s.dialog.Open(&p)
	return nil
}

// EditForm applies fn to the open dialog's form.
func (s *Session) EditForm(fn func(f *form.ProductForm)) error {
	s.lock()
	defer s.mu.Unlock()
	return s.dialog.Edit(fn)
}

// SubmitDialog submits the open dialog.
func (s *Session) SubmitDialog(ctx context.Context) (*models.Product, error) {
	s.lock()
	defer s.mu.Unlock()
	return s.dialog.Submit(ctx)
}

// CancelDialog closes the dialog and discards the form.
func (s *Session) CancelDialog() {
	s.lock()
	defer s.mu.Unlock()
	s.dialog.Cancel()
}
