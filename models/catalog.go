package models

// PersistentSnapshot is the serializable subset of the catalog saved
// across sessions: for each category, the ordered list of durable item
// projections. Category order is stored explicitly because JSON object
// key order cannot be relied on after a round trip.
type PersistentSnapshot struct {
	CategoryOrder []string                    `json:"categoryOrder"`
	Categories    map[string][]PersistentItem `json:"categories"`
}

// ViewerItem is one entry of the catalog listing served to the viewer,
// assembled server-side from the remote store's folder listing.
type ViewerItem struct {
	Name          string `json:"name"`
	Price         string `json:"price"`
	Description   string `json:"description"`
	CloudinaryURL string `json:"cloudinaryUrl"`
}

// CatalogItem represents a single item on a rendered catalog page
type CatalogItem struct {
	Category    string `json:"category"`
	Name        string `json:"name"`
	Price       string `json:"price"`
	Description string `json:"description"`
	ImageURL    string `json:"imageUrl"`
	ImageBase64 string `json:"imageBase64"` // For PDF/PNG generation
}

// CatalogData represents the data structure passed to the catalog template
type CatalogData struct {
	Title     string        `json:"title"`
	Items     []CatalogItem `json:"items"`
	PageCount int           `json:"pageCount"`
}
