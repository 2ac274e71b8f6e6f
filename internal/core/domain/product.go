package domain

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

var ErrInvalidProduct = errors.New("invalid product")

type Product struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Image string  `json:"image"`
	Price float64 `json:"price"`
	Sizes []Size  `json:"sizes"`
}

// Size looks up a size entry by label.
func (p Product) Size(name string) (Size, bool) {
	i := SizeIndex(p.Sizes, name)
	if i < 0 {
		return Size{}, false
	}
	return p.Sizes[i], true
}

// Clone returns a copy that does not share the size slice.
func (p Product) Clone() Product {
	c := p
	c.Sizes = append([]Size(nil), p.Sizes...)
	if c.Sizes == nil {
		c.Sizes = []Size{}
	}
	return c
}

// Validate checks the fields an admin form requires. The identifier is not checked,
// new products receive one when saved.
func (p Product) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidProduct)
	}
	if err := validateAbsoluteURL(p.Image); err != nil {
		return fmt.Errorf("%w: image: %v", ErrInvalidProduct, err)
	}
	if p.Price < 0 {
		return fmt.Errorf("%w: price must not be negative", ErrInvalidProduct)
	}

	seen := make(map[string]struct{}, len(p.Sizes))
	for i, s := range p.Sizes {
		if strings.TrimSpace(s.Name) == "" {
			return fmt.Errorf("%w: size %d has no name", ErrInvalidProduct, i+1)
		}
		if _, dup := seen[s.Name]; dup {
			return fmt.Errorf("%w: duplicate size %q", ErrInvalidProduct, s.Name)
		}
		seen[s.Name] = struct{}{}
		if s.Stock < 0 {
			return fmt.Errorf("%w: size %q has negative stock", ErrInvalidProduct, s.Name)
		}
	}
	return nil
}

func validateAbsoluteURL(raw string) error {
	if strings.TrimSpace(raw) == "" {
		return errors.New("url is required")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%q is not an absolute http(s) url", raw)
	}
	return nil
}

// FindProduct is a linear search by identifier.
func FindProduct(products []Product, id string) (Product, int, bool) {
	for i, p := range products {
		if p.ID == id {
			return p, i, true
		}
	}
	return Product{}, -1, false
}
