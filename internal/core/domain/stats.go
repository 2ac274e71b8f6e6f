package domain

import "github.com/shopspring/decimal"

// Summary holds the headline numbers of the admin dashboard.
type Summary struct {
	TotalOrders     int             `json:"total_orders"`
	Revenue         decimal.Decimal `json:"revenue"`
	UniqueCustomers int             `json:"unique_customers"`
}

type CustomerStat struct {
	Username   string          `json:"username"`
	OrderCount int             `json:"order_count"`
	TotalSpent decimal.Decimal `json:"total_spent"`
}

// priceIndex resolves an order's product against the current catalog. Orders are
// priced at what the product costs now; a deleted product contributes zero.
type priceIndex map[string]decimal.Decimal

func newPriceIndex(products []Product) priceIndex {
	idx := make(priceIndex, len(products))
	for _, p := range products {
		if _, ok := idx[p.ID]; !ok {
			idx[p.ID] = decimal.NewFromFloat(p.Price)
		}
	}
	return idx
}

func (idx priceIndex) price(productID string) decimal.Decimal {
	if p, ok := idx[productID]; ok {
		return p
	}
	return decimal.Zero
}

func Summarize(orders []Order, products []Product) Summary {
	idx := newPriceIndex(products)
	revenue := decimal.Zero
	customers := make(map[string]struct{})
	for _, o := range orders {
		revenue = revenue.Add(idx.price(o.ProductID))
		customers[o.InstagramUsername] = struct{}{}
	}
	return Summary{
		TotalOrders:     len(orders),
		Revenue:         revenue,
		UniqueCustomers: len(customers),
	}
}

// CustomerStats aggregates orders per handle, in order of first appearance.
func CustomerStats(orders []Order, products []Product) []CustomerStat {
	idx := newPriceIndex(products)
	pos := make(map[string]int)
	stats := make([]CustomerStat, 0)
	for _, o := range orders {
		i, ok := pos[o.InstagramUsername]
		if !ok {
			i = len(stats)
			pos[o.InstagramUsername] = i
			stats = append(stats, CustomerStat{Username: o.InstagramUsername, TotalSpent: decimal.Zero})
		}
		stats[i].OrderCount++
		stats[i].TotalSpent = stats[i].TotalSpent.Add(idx.price(o.ProductID))
	}
	return stats
}

// OrderCounts returns the number of orders per product id.
func OrderCounts(orders []Order) map[string]int {
	counts := make(map[string]int)
	for _, o := range orders {
		counts[o.ProductID]++
	}
	return counts
}
