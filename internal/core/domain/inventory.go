package domain

import "errors"

var ErrSizeIndex = errors.New("size index out of range")

// Size is a (label, stock) pair attached to a product.
type Size struct {
	Name  string `json:"name"`
	Stock int    `json:"stock"`
}

// InStock reports whether at least one unit can be ordered.
func (s Size) InStock() bool {
	return s.Stock > 0
}

// SizeIndex returns the position of the named size, or -1.
func SizeIndex(sizes []Size, name string) int {
	for i, s := range sizes {
		if s.Name == name {
			return i
		}
	}
	return -1
}

// AdjustStock adds delta to the named size and returns the resulting stock.
// It does not enforce the stock floor; callers check InStock first.
func AdjustStock(sizes []Size, name string, delta int) (int, bool) {
	i := SizeIndex(sizes, name)
	if i < 0 {
		return 0, false
	}
	sizes[i].Stock += delta
	return sizes[i].Stock, true
}
