package domain

import "time"

// Order is immutable once placed. ProductName is a snapshot so the order stays
// readable after the product is deleted.
type Order struct {
	ID                string    `json:"id"`
	ProductID         string    `json:"productId"`
	ProductName       string    `json:"productName"`
	Size              string    `json:"size"`
	InstagramUsername string    `json:"instagramUsername"`
	OrderDate         time.Time `json:"orderDate"`
}

// OrdersForProduct keeps the orders referencing productID, in stored order.
func OrdersForProduct(orders []Order, productID string) []Order {
	out := make([]Order, 0)
	for _, o := range orders {
		if o.ProductID == productID {
			out = append(out, o)
		}
	}
	return out
}
