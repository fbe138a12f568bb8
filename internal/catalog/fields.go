// internal/catalog/fields.go
package catalog

// Candidate source keys per normalized field, in priority order. The first
// key holding a non-empty value wins.
var (
	IDKeys          = []string{"item_id", "product_id", "usItemId", "sku", "article_number", "id"}
	NameKeys        = []string{"product_name", "title", "name"}
	BrandKeys       = []string{"brand", "brand_name", "manufacturer"}
	CategoryKeys    = []string{"category", "department", "search_query", "search_queries"}
	DescriptionKeys = []string{"description", "short_description", "shortDescription"}
	PriceKeys       = []string{"price_numeric", "price", "min_price", "current_price", "price_raw"}
	RatingKeys      = []string{"avg_rating", "rating", "averageOverallRating"}
	ReviewKeys      = []string{"review_count", "reviews", "totalReviewCount"}
	ImageKeys       = []string{"image_url", "image", "imageUrl", "thumbnail"}
	URLKeys         = []string{"url", "product_url", "link"}
	SizeKeys        = []string{"package_sizing", "size", "package_size"}
	AvailKeys       = []string{"availability", "inventory_status"}
	QueryKeys       = []string{"search_queries", "search_query"}
	OffersKey       = "offers"

	OfferStoreKeys     = []string{"store"}
	OfferStoreNameKeys = []string{"store_name"}
	OfferIDKeys        = []string{"product_id", "item_id", "article_number"}
	OfferPriceKeys     = []string{"price_numeric", "price", "price_raw"}
	OfferAvailKeys     = []string{"inventory_status", "availability"}
	OfferLinkKeys      = []string{"link", "product_url", "url"}
)

const FallbackName = "Unnamed product"
