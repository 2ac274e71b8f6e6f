package domain

// SeedCatalog returns the built-in catalog written on first start.
func SeedCatalog() []Product {
	return []Product{
		{
			ID:    "1",
			Name:  "Basic T-Shirt",
			Image: "https://images.unsplash.com/photo-1521572163474-6864f9cf17ab?w=800",
			Price: 199.99,
			Sizes: []Size{
				{Name: "S", Stock: 5},
				{Name: "M", Stock: 8},
				{Name: "L", Stock: 3},
			},
		},
		{
			ID:    "2",
			Name:  "Slim Fit Jeans",
			Image: "https://images.unsplash.com/photo-1542272454315-4c01d7abdf4a?w=800",
			Price: 299.99,
			Sizes: []Size{
				{Name: "28", Stock: 4},
				{Name: "30", Stock: 6},
				{Name: "32", Stock: 2},
			},
		},
	}
}
