package models

// CartLine is one viewer item placed in the cart, remembered together
// with the category it was picked from.
type CartLine struct {
	Category    string `json:"category"`
	Name        string `json:"name"`
	Price       string `json:"price"`
	Description string `json:"description"`
	ImageURL    string `json:"imageUrl"`
}

// Cart is the server-side cart returned to the viewer.
type Cart struct {
	Lines []CartLine `json:"lines"`
	Total string     `json:"total"` // formatted rupee total of parseable prices
}

// AddToCartRequest represents the request body for adding a viewer item
// to the cart by its position in a category listing.
type AddToCartRequest struct {
	Category string `json:"category"`
	Index    int    `json:"index"`
}
