// internal/models/product.go
package models

// Product is the canonical, normalized catalog record. Optional numeric
// fields are nil when the source value was missing or unparseable.
type Product struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Brand          string   `json:"brand"`
	Category       string   `json:"category"`
	Description    string   `json:"description"`
	Price          *float64 `json:"price"`
	Rating         *float64 `json:"rating"`
	ReviewCount    *int     `json:"review_count"`
	Image          string   `json:"image,omitempty"`
	URL            string   `json:"url,omitempty"`
	SizeHint       string   `json:"size_hint,omitempty"`
	Availability   string   `json:"availability,omitempty"`
	SearchQueries  []string `json:"search_queries,omitempty"`
	Tokens         []string `json:"tokens"`
	DepositPerUnit float64  `json:"deposit_per_unit"`
	Offers         []Offer  `json:"offers,omitempty"`
}

// Offer is one store's listing of a product in multi-store catalogs.
type Offer struct {
	Store        string   `json:"store"`
	StoreName    string   `json:"store_name"`
	ProductID    string   `json:"product_id,omitempty"`
	Price        *float64 `json:"price"`
	Availability string   `json:"availability,omitempty"`
	Link         string   `json:"link,omitempty"`
}

func (p *Product) HasOffers() bool {
	return len(p.Offers) > 0
}

// PriceOrInf returns the known price or +Inf so that unknown prices sort last.
func (p *Product) PriceOrInf() float64 {
	if p.Price == nil {
		return inf
	}
	return *p.Price
}
