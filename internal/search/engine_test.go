// internal/search/engine_test.go
package search

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/javajoker/grocery-browser/internal/models"
)

func scenarioCatalog() []models.Product {
	return []models.Product{
		product("Whole Milk 1L", "Dairyland", "", ptr(4.49)),
		product("Almond Beverage", "Silk", "", ptr(3.99)),
	}
}

func names(products []models.Product) []string {
	out := make([]string, len(products))
	for i, p := range products {
		out[i] = p.Name
	}
	return out
}

func TestSearchExactTerm(t *testing.T) {
	e := NewEngine(nil, 0)
	assert.Equal(t, []string{"Whole Milk 1L"}, names(e.Search(scenarioCatalog(), "milk")))
}

func TestSearchTypoTolerance(t *testing.T) {
	e := NewEngine(nil, 0)
	assert.Equal(t, []string{"Whole Milk 1L"}, names(e.Search(scenarioCatalog(), "millk")))
}

func TestSearchTieBreaksByName(t *testing.T) {
	e := NewEngine(nil, 0)
	catalog := []models.Product{
		product("Banana Bread", "", "snack", ptr(9.99)),
		product("Apple Juice", "", "snack", ptr(9.99)),
	}

	ranked := e.Rank(catalog, "snack")
	require.Len(t, ranked, 2)
	assert.Equal(t, ranked[0].Score, ranked[1].Score)
	assert.Equal(t, []string{"Apple Juice", "Banana Bread"}, names(e.Search(catalog, "snack")))
}

func TestSearchBlankQuery(t *testing.T) {
	e := NewEngine(nil, 0)
	for _, q := range []string{"", "   ", "\t\n", "--"} {
		results := e.Search(scenarioCatalog(), q)
		assert.NotNil(t, results)
		assert.Empty(t, results, "%q", q)
	}
}

func TestSearchOrdering(t *testing.T) {
	e := NewEngine(nil, 0)
	catalog := []models.Product{
		product("Skim Milk 4L", "", "", nil),
		product("Milk 2% 4L", "", "", ptr(6.49)),
		product("Milk 1% 4L", "", "", ptr(5.99)),
		product("Chocolate Milk", "", "", ptr(2.99)),
	}

	ranked := e.Rank(catalog, "milk")
	require.Len(t, ranked, 4)
	for i := 1; i < len(ranked); i++ {
		prev, cur := ranked[i-1], ranked[i]
		assert.GreaterOrEqual(t, prev.Score, cur.Score)
		if prev.Score == cur.Score {
			assert.LessOrEqual(t, prev.Product.PriceOrInf(), cur.Product.PriceOrInf())
		}
	}
	// Name-prefix matches outrank substring matches; the cheaper prefix match leads.
	assert.Equal(t, "Milk 1% 4L", ranked[0].Product.Name)
	assert.Equal(t, "Milk 2% 4L", ranked[1].Product.Name)
}

func TestSearchCapKeepsPrefix(t *testing.T) {
	var catalog []models.Product
	for i := 0; i < 10; i++ {
		catalog = append(catalog, product(fmt.Sprintf("Milk %02d", i), "", "", ptr(float64(i+1))))
	}

	full := NewEngine(nil, 0).Search(catalog, "milk")
	capped := NewEngine(nil, 3).Search(catalog, "milk")

	require.Len(t, full, 10)
	require.Len(t, capped, 3)
	assert.Equal(t, names(full[:3]), names(capped))
}

func TestSearchRelevanceFloor(t *testing.T) {
	w := DefaultWeights()
	w.RelevanceFloor = 100
	e := NewEngine(NewScorer(w), 0)

	assert.Empty(t, e.Search(scenarioCatalog(), "milk"))
}
