package table

// PageIndex returns the zero-based current page.
func (t *Table) PageIndex() int {
	return t.pageIndex
}

// PageSize returns the number of rows per page.
func (t *Table) PageSize() int {
	return t.pageSize
}

// PageCount is the number of pages for the filtered rows. It is zero when no
// row passes the filters.
func (t *Table) PageCount() int {
	return pageCount(len(t.Rows()), t.pageSize)
}

func pageCount(rows, size int) int {
	return (rows + size - 1) / size
}

// SetPageSize changes the page size and keeps the first visible row on screen.
func (t *Table) SetPageSize(size int) error {
	if size <= 0 {
		return ErrInvalidPageSize
	}
	top := t.pageIndex * t.pageSize
	t.pageSize = size
	t.pageIndex = top / size
	return nil
}

// SetPageIndex moves to page i, clamped to the available pages.
func (t *Table) SetPageIndex(i int) {
	last := t.PageCount() - 1
	if i > last {
		i = last
	}
	if i < 0 {
		i = 0
	}
	t.pageIndex = i
}

// CanPreviousPage reports whether there is a page before the current one.
func (t *Table) CanPreviousPage() bool {
	return t.pageIndex > 0
}

// CanNextPage reports whether there is a page after the current one.
func (t *Table) CanNextPage() bool {
	return t.pageIndex+1 < t.PageCount()
}

// FirstPage moves to the first page.
func (t *Table) FirstPage() {
	t.pageIndex = 0
}

// PreviousPage moves back one page when possible.
func (t *Table) PreviousPage() {
	if t.CanPreviousPage() {
		t.pageIndex--
	}
}

// NextPage moves forward one page when possible.
func (t *Table) NextPage() {
	if t.CanNextPage() {
		t.pageIndex++
	}
}

// LastPage moves to the last page, or the first when there are no rows.
func (t *Table) LastPage() {
	t.SetPageIndex(t.PageCount() - 1)
}
