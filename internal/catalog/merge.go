// internal/catalog/merge.go
package catalog

import (
	"fmt"
	"sort"
	"strings"

	"github.com/javajoker/grocery-browser/internal/models"
)

// StoreSource is one store's scraped records.
type StoreSource struct {
	Store   string
	Records []models.RawRecord
}

type MergeStats struct {
	Loaded     int `json:"loaded"`
	Groups     int `json:"groups"`
	MultiStore int `json:"multi_store"`
}

// MatchKey groups the same physical product across stores: normalized brand,
// title core and exact total size.
func MatchKey(brand, title, packageSizing string) string {
	sizeKey := "unknown"
	if size, unit, ok := ExtractSize(title + " " + packageSizing); ok {
		sizeKey = fmt.Sprintf("%.3f%s", size, unit)
	}
	return NormalizeBrand(brand) + "|||" + TitleCore(title, brand) + "|||" + sizeKey
}

type storeRecord struct {
	store string
	rec   models.RawRecord
}

// Merge builds one catalog record per match-key group with per-store offers,
// sorted by title then brand.
func Merge(sources []StoreSource, storeNames map[string]string) ([]models.RawRecord, MergeStats) {
	if storeNames == nil {
		storeNames = DefaultStoreNames
	}

	var stats MergeStats
	groups := make(map[string][]storeRecord)
	var order []string

	for _, src := range sources {
		for _, rec := range src.Records {
			title := lookupString(rec, []string{"title", "product_name", "name"})
			if title == "" {
				continue
			}
			key := MatchKey(lookupString(rec, BrandKeys), title, lookupString(rec, SizeKeys))
			if _, ok := groups[key]; !ok {
				order = append(order, key)
			}
			groups[key] = append(groups[key], storeRecord{store: src.Store, rec: rec})
			stats.Loaded++
		}
	}

	products := make([]models.RawRecord, 0, len(groups))
	for idx, key := range order {
		product := buildGroup(idx+1, groups[key], storeNames)
		if product == nil {
			continue
		}
		if product["store_count"].(int) > 1 {
			stats.MultiStore++
		}
		products = append(products, product)
	}
	stats.Groups = len(products)

	sort.SliceStable(products, func(i, j int) bool {
		ti, tj := foldText(products[i]["title"].(string)), foldText(products[j]["title"].(string))
		if ti != tj {
			return ti < tj
		}
		return foldText(products[i]["brand"].(string)) < foldText(products[j]["brand"].(string))
	})

	return products, stats
}

func firstNonEmpty(members []storeRecord, keys []string) string {
	for _, key := range keys {
		for _, m := range members {
			if s := stringValue(m.rec[key]); s != "" {
				return s
			}
		}
	}
	return ""
}

func buildGroup(id int, members []storeRecord, storeNames map[string]string) models.RawRecord {
	title := ""
	for _, m := range members {
		if t := lookupString(m.rec, []string{"title", "product_name"}); len(t) > len(title) {
			title = t
		}
	}

	querySet := map[string]struct{}{}
	for _, m := range members {
		for _, key := range QueryKeys {
			for _, q := range stringList(m.rec[key]) {
				querySet[q] = struct{}{}
			}
		}
	}
	queries := make([]string, 0, len(querySet))
	for q := range querySet {
		queries = append(queries, q)
	}
	sort.Strings(queries)

	type offerKey struct{ store, productID string }
	seen := map[offerKey]struct{}{}
	var offers []interface{}
	var minPrice *float64

	for _, m := range members {
		store := m.store
		if store == "" {
			store = "unknown"
		}
		productID := lookupString(m.rec, OfferIDKeys)
		k := offerKey{store, productID}
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}

		var price *float64
		if v, ok := lookup(m.rec, OfferPriceKeys); ok {
			price = ParsePrice(v)
		}
		if price != nil && (minPrice == nil || *price < *minPrice) {
			p := *price
			minPrice = &p
		}

		storeName := storeNames[strings.ToLower(store)]
		if storeName == "" {
			storeName = store
		}
		offer := map[string]interface{}{
			"store":            store,
			"store_name":       storeName,
			"product_id":       productID,
			"price_raw":        stringValue(m.rec["price_raw"]),
			"inventory_status": lookupString(m.rec, OfferAvailKeys),
			"link":             lookupString(m.rec, OfferLinkKeys),
			"image_url":        lookupString(m.rec, []string{"image_url"}),
			"review_count":     m.rec["review_count"],
			"avg_rating":       m.rec["avg_rating"],
		}
		if price != nil {
			offer["price_numeric"] = *price
		} else {
			offer["price_numeric"] = nil
		}
		offers = append(offers, offer)
	}
	if len(offers) == 0 {
		return nil
	}

	product := models.RawRecord{
		"id":             id,
		"brand":          firstNonEmpty(members, []string{"brand"}),
		"title":          title,
		"description":    firstNonEmpty(members, []string{"description", "short_description"}),
		"package_sizing": firstNonEmpty(members, []string{"package_sizing"}),
		"image_url":      firstNonEmpty(members, []string{"image_url"}),
		"search_queries": queries,
		"offers":         offers,
		"store_count":    len(offers),
		"min_price":      nil,
	}
	if minPrice != nil {
		product["min_price"] = *minPrice
		product["min_price_display"] = fmt.Sprintf("$%.2f", *minPrice)
	}
	return product
}
