package domain

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestSummarize(t *testing.T) {
	products := []Product{
		{ID: "1", Price: 199.99},
		{ID: "2", Price: 299.99},
	}
	orders := []Order{
		{ProductID: "1", InstagramUsername: "alice"},
		{ProductID: "2", InstagramUsername: "bob"},
		{ProductID: "1", InstagramUsername: "alice"},
		{ProductID: "gone", InstagramUsername: "carol"},
	}

	s := Summarize(orders, products)

	assert.Equal(t, 4, s.TotalOrders)
	assert.Equal(t, 3, s.UniqueCustomers)
	assert.True(t, decimal.RequireFromString("699.97").Equal(s.Revenue), "revenue %s", s.Revenue)
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil, nil)

	assert.Zero(t, s.TotalOrders)
	assert.Zero(t, s.UniqueCustomers)
	assert.True(t, s.Revenue.IsZero())
}

func TestCustomerStats(t *testing.T) {
	products := []Product{{ID: "1", Price: 10}, {ID: "2", Price: 2.5}}
	orders := []Order{
		{ProductID: "2", InstagramUsername: "zed"},
		{ProductID: "1", InstagramUsername: "amy"},
		{ProductID: "1", InstagramUsername: "zed"},
		{ProductID: "deleted", InstagramUsername: "amy"},
	}

	got := CustomerStats(orders, products)

	type row struct {
		User   string
		Count  int
		Amount string
	}
	var rows []row
	for _, s := range got {
		rows = append(rows, row{s.Username, s.OrderCount, s.TotalSpent.StringFixed(2)})
	}
	want := []row{
		{"zed", 2, "12.50"},
		{"amy", 2, "10.00"},
	}
	if diff := cmp.Diff(want, rows); diff != "" {
		t.Errorf("CustomerStats mismatch (-want +got):\n%s", diff)
	}
}

func TestOrderCountsAndFilter(t *testing.T) {
	orders := []Order{
		{ID: "a", ProductID: "1"},
		{ID: "b", ProductID: "2"},
		{ID: "c", ProductID: "1"},
	}

	assert.Equal(t, map[string]int{"1": 2, "2": 1}, OrderCounts(orders))

	filtered := OrdersForProduct(orders, "1")
	assert.Equal(t, []string{"a", "c"}, []string{filtered[0].ID, filtered[1].ID})
	assert.Empty(t, OrdersForProduct(orders, "3"))
}

func TestFormatLira(t *testing.T) {
	assert.Equal(t, "199,99", FormatLira(decimal.RequireFromString("199.99")))
	assert.Equal(t, "0", FormatLira(decimal.Zero))
}
