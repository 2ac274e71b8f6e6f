package domain

// Event is anything a view may want to react to instead of reloading.
type Event interface {
	EventType() string
}

type OrderPlaced struct {
	Order          Order `json:"order"`
	RemainingStock int   `json:"remaining_stock"`
}

func (e OrderPlaced) EventType() string { return "order.placed" }

type ProductSaved struct {
	Product Product `json:"product"`
	Created bool    `json:"created"`
}

func (e ProductSaved) EventType() string { return "product.saved" }

type ProductDeleted struct {
	ProductID string `json:"product_id"`
}

func (e ProductDeleted) EventType() string { return "product.deleted" }

type SiteConfigUpdated struct {
	Config SiteConfig `json:"config"`
}

func (e SiteConfigUpdated) EventType() string { return "site.updated" }

type CatalogSeeded struct {
	Products int `json:"products"`
}

func (e CatalogSeeded) EventType() string { return "catalog.seeded" }

// StoreChanged is raised when another writer modified a store key.
type StoreChanged struct {
	Key string `json:"key"`
}

func (e StoreChanged) EventType() string { return "store.changed" }
