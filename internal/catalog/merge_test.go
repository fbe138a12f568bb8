// internal/catalog/merge_test.go
package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/javajoker/grocery-browser/internal/models"
)

func TestExtractSize(t *testing.T) {
	cases := []struct {
		text string
		size float64
		unit string
	}{
		{"Natrel 2% Milk 4L", 4, "l"},
		{"Coke 12 x 355 mL", 4.26, "l"},
		{"Bread 675g", 0.675, "kg"},
		{"Flour 2 kg", 2, "kg"},
	}
	for _, tc := range cases {
		size, unit, ok := ExtractSize(tc.text)
		require.True(t, ok, tc.text)
		assert.InDelta(t, tc.size, size, 1e-9, tc.text)
		assert.Equal(t, tc.unit, unit, tc.text)
	}

	_, _, ok := ExtractSize("Bananas")
	assert.False(t, ok)
}

func TestNormalizeBrand(t *testing.T) {
	assert.Equal(t, "pc", NormalizeBrand("President's Choice"))
	assert.Equal(t, "great value", NormalizeBrand("Great Value"))
	assert.Equal(t, "neilson", NormalizeBrand("Nielson"))
	assert.Equal(t, "lactantia", NormalizeBrand("Lactantia"))
	assert.Equal(t, "", NormalizeBrand(""))
}

func TestTitleCoreIgnoresOrderSizeAndBrand(t *testing.T) {
	a := TitleCore("Natrel 2% Milk 4L", "Natrel")
	b := TitleCore("natrel Milk 2% 4 L", "natrel")
	assert.Equal(t, "lowfat2 milk", a)
	assert.Equal(t, a, b)

	assert.Equal(t, TitleCore("Homogenized Milk", ""), TitleCore("Homo Milk", ""))
	assert.Equal(t, TitleCore("Skimmed Milk", ""), TitleCore("Skim Milk", ""))
	assert.Equal(t, "", TitleCore("", "brand"))
}

func TestMergeGroupsAcrossStores(t *testing.T) {
	sources := []StoreSource{
		{Store: "walmart", Records: []models.RawRecord{
			{"product_id": "w1", "title": "Natrel 2% Milk 4L", "brand": "Natrel", "price_numeric": 6.47, "search_queries": []interface{}{"milk"}},
			{"product_id": "w1", "title": "Natrel 2% Milk 4L", "brand": "Natrel", "price_numeric": 6.47},
			{"product_id": "w2", "title": "Apple Juice 1.89 L", "brand": "Oasis", "price_numeric": 3.97},
			{"product_id": "w3", "brand": "Nameless"},
		}},
		{Store: "superstore", Records: []models.RawRecord{
			{"article_number": "s1", "title": "natrel Milk 2% 4 L", "brand": "natrel", "price_raw": "$5.99", "search_query": "2% milk"},
		}},
	}

	products, stats := Merge(sources, nil)

	assert.Equal(t, 4, stats.Loaded)
	assert.Equal(t, 2, stats.Groups)
	assert.Equal(t, 1, stats.MultiStore)
	require.Len(t, products, 2)

	// Sorted by title: apple before natrel.
	assert.Equal(t, "Apple Juice 1.89 L", products[0]["title"])

	milk := products[1]
	assert.Equal(t, 2, milk["store_count"])
	assert.InDelta(t, 5.99, milk["min_price"].(float64), 1e-9)
	assert.Equal(t, "$5.99", milk["min_price_display"])
	assert.Equal(t, []string{"2% milk", "milk"}, milk["search_queries"])

	offers := milk["offers"].([]interface{})
	require.Len(t, offers, 2)
	assert.Equal(t, "Walmart", offers[0].(map[string]interface{})["store_name"])
	assert.Equal(t, "s1", offers[1].(map[string]interface{})["product_id"])
}

func TestMergedCatalogNormalizes(t *testing.T) {
	products, _ := Merge([]StoreSource{
		{Store: "walmart", Records: []models.RawRecord{
			{"product_id": "w1", "title": "Cola 6 x 355 mL", "brand": "Coke", "price_numeric": 4.99, "link": "https://walmart.example/w1"},
		}},
		{Store: "superstore", Records: []models.RawRecord{
			{"product_id": "s1", "title": "Coke Cola 6x355mL", "brand": "Coke", "price_numeric": 4.49},
		}},
	}, nil)
	require.Len(t, products, 1)

	p := NewNormalizer(NormalizerOptions{}).Normalize(products[0], 0)
	assert.Equal(t, "1", p.ID)
	require.Len(t, p.Offers, 2)
	require.NotNil(t, p.Price)
	assert.InDelta(t, 4.49, *p.Price, 1e-9)
	assert.Equal(t, 1, CheapestOffer(p.Offers))
	assert.Equal(t, "https://walmart.example/w1", p.URL)
	assert.InDelta(t, 0.60, p.DepositPerUnit, 1e-9)
}
