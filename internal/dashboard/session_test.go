package dashboard_test

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"sync"
	"testing"
	"time"

	"inventory/internal/dashboard"
	"inventory/internal/dialog"
	"inventory/internal/form"
	"inventory/internal/models"
	"inventory/internal/notify"
	"inventory/internal/repositories"
	"inventory/internal/services"
	"inventory/internal/table"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	log.SetOutput(io.Discard)
	os.Exit(m.Run())
}

var base = time.Date(2024, time.March, 1, 8, 0, 0, 0, time.UTC)

// seededStore returns a store with ten products; p3, p6 and p9 are drafts.
func seededStore(t *testing.T) *services.ProductStore {
	t.Helper()
	ctx := context.Background()
	repo := repositories.NewInMemoryProductRepository()
	for i := 1; i <= 10; i++ {
		status := models.StatusPublished
		switch {
		case i%3 == 0:
			status = models.StatusDraft
		case i%5 == 0:
			status = models.StatusInactive
		}
		require.NoError(t, repo.Create(ctx, &models.Product{
			ID:              fmt.Sprintf("p%d", i),
			Name:            fmt.Sprintf("Product %d", i),
			SKU:             fmt.Sprintf("SKU-%d", i),
			Supplier:        "Acme",
			Category:        models.Categories()[i%len(models.Categories())],
			Status:          status,
			QuantityInStock: 5,
			Price:           10,
			Icon:            models.DefaultGlyph(),
			CreatedAt:       base.Add(time.Duration(i) * time.Minute),
		}))
	}
	store := services.NewProductStore(repo, nil)
	require.NoError(t, store.LoadProducts(ctx))
	return store
}

func newSession(t *testing.T) *dashboard.Session {
	opts := dashboard.DefaultOptions()
	opts.Table.Location = time.UTC
	return dashboard.NewSession("alice", seededStore(t), form.NewValidator(), opts)
}

func rowIDs(v dashboard.View) []string {
	out := make([]string, 0, len(v.Table.Rows))
	for _, r := range v.Table.Rows {
		out = append(out, r.ID)
	}
	return out
}

func TestSession_DraftFilterThenClear(t *testing.T) {
	s := newSession(t)
	require.NoError(t, s.Page("", 0, 10))
	assert.Equal(t, 10, s.View().Table.FilteredCount)

	require.NoError(t, s.ToggleFilter(dashboard.DimensionStatus, "Draft"))
	v := s.View()
	assert.ElementsMatch(t, []string{"p3", "p6", "p9"}, rowIDs(v))
	for _, r := range v.Table.Rows {
		assert.Equal(t, "Draft", r.Status.Label)
	}
	assert.True(t, v.Table.Filters.ShowReset)

	s.ResetFilters()
	v = s.View()
	assert.Equal(t, 10, v.Table.FilteredCount)
	assert.Len(t, v.Table.Rows, 10)
}

func TestSession_UnknownDimensionAndPageAction(t *testing.T) {
	s := newSession(t)
	assert.ErrorIs(t, s.ToggleFilter("supplier", "Acme"), dashboard.ErrUnknownDimension)
	assert.ErrorIs(t, s.ClearFilter("supplier"), dashboard.ErrUnknownDimension)
	assert.ErrorIs(t, s.Page("sideways", 0, 0), dashboard.ErrUnknownPageAction)
	assert.ErrorIs(t, s.Page("", 0, -1), table.ErrInvalidPageSize)
}

func TestSession_PagingAndSort(t *testing.T) {
	s := newSession(t)

	v := s.View()
	assert.Equal(t, "10 products", v.Table.Header)
	assert.Equal(t, 2, v.Table.PageCount)
	assert.Equal(t, "p10", v.Table.Rows[0].ID)

	require.NoError(t, s.Page(dashboard.PageNext, 0, 0))
	v = s.View()
	assert.Equal(t, 1, v.Table.PageIndex)
	assert.Len(t, v.Table.Rows, 2)
	assert.Equal(t, "Page 2 of 2", v.Table.PageLabel)

	require.NoError(t, s.Page(dashboard.PageFirst, 0, 0))
	asc := false
	require.NoError(t, s.Sort(table.ColumnCreatedAt, &asc))
	assert.Equal(t, "p1", s.View().Table.Rows[0].ID)

	require.NoError(t, s.Sort(table.ColumnName, nil))
	assert.Equal(t, table.Sort{Column: table.ColumnName}, s.View().Table.Sort)
	require.NoError(t, s.Sort("", nil))
	assert.Equal(t, table.Sort{}, s.View().Table.Sort)
	assert.ErrorIs(t, s.Sort(table.ColumnActions, nil), table.ErrNotSortable)

	s.Search("Product 1")
	assert.ElementsMatch(t, []string{"p1", "p10"}, rowIDs(s.View()))
}

func TestSession_DialogEditFlow(t *testing.T) {
	s := newSession(t)
	ctx := context.Background()

	assert.ErrorIs(t, s.OpenDialog("missing"), repositories.ErrProductNotFound)
	require.NoError(t, s.OpenDialog("p1"))

	v := s.View()
	assert.Equal(t, "Edit Product", v.Dialog.Title)
	assert.Equal(t, "p1", v.Dialog.ProductID)

	require.NoError(t, s.EditForm(func(f *form.ProductForm) { f.Quantity = form.QuantityOf(0) }))
	updated, err := s.SubmitDialog(ctx)
	require.NoError(t, err)
	assert.Equal(t, "p1", updated.ID)
	assert.Equal(t, base.Add(time.Minute), updated.CreatedAt)
	assert.Equal(t, 0, updated.QuantityInStock)

	v = s.View()
	assert.Equal(t, []notify.Toast{notify.Success(dialog.MsgUpdated)}, v.Toasts)
	assert.True(t, v.Dialog.Open)
	assert.Empty(t, s.View().Toasts, "toasts are delivered once")

	s.CancelDialog()
	assert.False(t, s.View().Dialog.Open)
}

func TestSession_DialogCreateFlow(t *testing.T) {
	s := newSession(t)

	require.NoError(t, s.OpenDialog(""))
	require.NoError(t, s.EditForm(func(f *form.ProductForm) {
		f.ProductName = "Headphones"
		f.SKU = "HP-1"
		f.Supplier = "Sonic"
		f.Quantity = form.QuantityOf(3)
		f.Price = "59.999"
	}))
	p, err := s.SubmitDialog(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 60.0, p.Price)

	v := s.View()
	assert.Equal(t, "11 products", v.Table.Header)
	assert.Equal(t, p.ID, v.Table.Rows[0].ID, "newest first")
	assert.False(t, v.Dialog.Open)
}

func TestManager_SessionPerOwner(t *testing.T) {
	m := dashboard.NewManager(seededStore(t), dashboard.DefaultOptions())

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s := m.Session("alice")
			_ = s.ToggleFilter(dashboard.DimensionStatus, "Draft")
			_ = s.View()
		}()
	}
	wg.Wait()

	assert.Same(t, m.Session("alice"), m.Session("alice"))
	assert.NotSame(t, m.Session("alice"), m.Session("bob"))
	assert.Equal(t, 2, m.Len())

	m.Drop("bob")
	assert.Equal(t, 1, m.Len())
}
