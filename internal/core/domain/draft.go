package domain

// ProductDraft is the editable form state behind the admin product editor. A draft
// with an empty ID creates a new product; otherwise it replaces the stored one.
type ProductDraft struct {
	Product
}

// NewProductDraft starts a blank product with a single blank size line.
func NewProductDraft() *ProductDraft {
	return &ProductDraft{Product: Product{Sizes: []Size{{}}}}
}

// EditProductDraft loads a copy of p so edits do not leak into the caller's slice.
func EditProductDraft(p Product) *ProductDraft {
	return &ProductDraft{Product: p.Clone()}
}

func (d *ProductDraft) IsEditing() bool {
	return d.ID != ""
}

func (d *ProductDraft) AddSize() {
	d.Sizes = append(d.Sizes, Size{})
}

func (d *ProductDraft) RemoveSize(i int) error {
	if i < 0 || i >= len(d.Sizes) {
		return ErrSizeIndex
	}
	d.Sizes = append(d.Sizes[:i:i], d.Sizes[i+1:]...)
	return nil
}

func (d *ProductDraft) SetSizeName(i int, name string) error {
	if i < 0 || i >= len(d.Sizes) {
		return ErrSizeIndex
	}
	d.Sizes[i].Name = name
	return nil
}

func (d *ProductDraft) SetSizeStock(i int, stock int) error {
	if i < 0 || i >= len(d.Sizes) {
		return ErrSizeIndex
	}
	d.Sizes[i].Stock = stock
	return nil
}
