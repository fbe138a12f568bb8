// internal/catalog/normalizer.go
package catalog

import (
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/javajoker/grocery-browser/internal/models"
)

const (
	DefaultSearchURLTemplate = "https://www.walmart.ca/en/search?q=%s"
	DefaultItemURLTemplate   = "https://www.walmart.ca/en/ip/%s"
)

type NormalizerOptions struct {
	// SearchURLTemplate receives the query-escaped product name.
	SearchURLTemplate string
	// ItemURLTemplate receives the path-escaped product id.
	ItemURLTemplate string
	StoreNames      map[string]string
}

type Normalizer struct {
	opts NormalizerOptions
}

func NewNormalizer(opts NormalizerOptions) *Normalizer {
	if opts.SearchURLTemplate == "" {
		opts.SearchURLTemplate = DefaultSearchURLTemplate
	}
	if opts.ItemURLTemplate == "" {
		opts.ItemURLTemplate = DefaultItemURLTemplate
	}
	if opts.StoreNames == nil {
		opts.StoreNames = DefaultStoreNames
	}
	return &Normalizer{opts: opts}
}

// Normalize maps a raw record onto the canonical product shape. It never
// fails: missing or wrong-typed fields degrade to empty values.
func (n *Normalizer) Normalize(raw models.RawRecord, index int) models.Product {
	if raw == nil {
		raw = models.RawRecord{}
	}

	name := lookupString(raw, NameKeys)
	namedBySource := name != ""
	if !namedBySource {
		name = FallbackName
	}
	brand := lookupString(raw, BrandKeys)

	p := models.Product{
		Name:          name,
		Brand:         brand,
		Category:      lookupString(raw, CategoryKeys),
		Description:   lookupString(raw, DescriptionKeys),
		Image:         lookupString(raw, ImageKeys),
		SizeHint:      lookupString(raw, SizeKeys),
		Availability:  lookupString(raw, AvailKeys),
		SearchQueries: n.searchQueries(raw),
		Offers:        n.offers(raw),
	}

	p.ID = lookupString(raw, IDKeys)
	if p.ID == "" {
		if namedBySource {
			p.ID = fallbackID(name, brand, index)
		} else {
			p.ID = fallbackID("", brand, index)
		}
	}

	if v, ok := lookup(raw, PriceKeys); ok {
		p.Price = ParsePrice(v)
	}
	if p.Price == nil {
		p.Price = lowestOfferPrice(p.Offers)
	}
	if v, ok := lookup(raw, RatingKeys); ok {
		p.Rating = parseRating(v)
	}
	if v, ok := lookup(raw, ReviewKeys); ok {
		p.ReviewCount = parseCount(v)
	}

	p.URL = n.resolveURL(raw, p, namedBySource)
	p.Tokens = Tokenize(p.Name + " " + p.Brand + " " + p.Category)
	p.DepositPerUnit = EstimateDeposit(p.Name + " " + p.Description + " " + p.SizeHint)

	return p
}

// NormalizeAll normalizes a catalog snapshot, suffixing repeated ids with the
// record index so that ids stay unique within the snapshot.
func (n *Normalizer) NormalizeAll(raws []models.RawRecord) []models.Product {
	products := make([]models.Product, 0, len(raws))
	seen := make(map[string]struct{}, len(raws))
	for i, raw := range raws {
		p := n.Normalize(raw, i)
		if _, dup := seen[p.ID]; dup {
			p.ID = fmt.Sprintf("%s-%d", p.ID, i)
		}
		seen[p.ID] = struct{}{}
		products = append(products, p)
	}
	return products
}

func (n *Normalizer) resolveURL(raw models.RawRecord, p models.Product, namedBySource bool) string {
	if u := lookupString(raw, URLKeys); u != "" {
		return u
	}
	for _, offer := range p.Offers {
		if offer.Link != "" {
			return offer.Link
		}
	}
	if namedBySource {
		return fmt.Sprintf(n.opts.SearchURLTemplate, url.QueryEscape(p.Name))
	}
	return fmt.Sprintf(n.opts.ItemURLTemplate, url.PathEscape(p.ID))
}

func (n *Normalizer) searchQueries(raw models.RawRecord) []string {
	var out []string
	seen := map[string]struct{}{}
	for _, key := range QueryKeys {
		for _, q := range stringList(raw[key]) {
			if _, ok := seen[q]; ok {
				continue
			}
			seen[q] = struct{}{}
			out = append(out, q)
		}
	}
	return out
}

func (n *Normalizer) offers(raw models.RawRecord) []models.Offer {
	list, ok := raw[OffersKey].([]interface{})
	if !ok {
		return nil
	}

	offers := make([]models.Offer, 0, len(list))
	for _, item := range list {
		m, ok := asMap(item)
		if !ok {
			continue
		}
		offer := models.Offer{
			Store:        lookupString(m, OfferStoreKeys),
			StoreName:    lookupString(m, OfferStoreNameKeys),
			ProductID:    lookupString(m, OfferIDKeys),
			Availability: lookupString(m, OfferAvailKeys),
			Link:         lookupString(m, OfferLinkKeys),
		}
		if v, ok := lookup(m, OfferPriceKeys); ok {
			offer.Price = ParsePrice(v)
		}
		if offer.StoreName == "" {
			offer.StoreName = n.storeName(offer.Store)
		}
		offers = append(offers, offer)
	}
	if len(offers) == 0 {
		return nil
	}
	return offers
}

func (n *Normalizer) storeName(store string) string {
	if name, ok := n.opts.StoreNames[strings.ToLower(store)]; ok {
		return name
	}
	return store
}

func lowestOfferPrice(offers []models.Offer) *float64 {
	idx := CheapestOffer(offers)
	if idx < 0 {
		return nil
	}
	return offers[idx].Price
}

// CheapestOffer returns the index of the lowest-priced offer, with unknown
// prices ordered last and ties resolved by list position. It returns -1 for an
// empty list.
func CheapestOffer(offers []models.Offer) int {
	if len(offers) == 0 {
		return -1
	}
	order := make([]int, len(offers))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		pa, pb := offers[order[a]].Price, offers[order[b]].Price
		switch {
		case pa == nil:
			return false
		case pb == nil:
			return true
		default:
			return *pa < *pb
		}
	})
	return order[0]
}
