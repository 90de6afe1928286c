package search

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"ticketdesk/internal/models"
)

func TestBuildSearchQueryMatchAll(t *testing.T) {
	q := buildSearchQuery(Query{})
	assert.Contains(t, q, "match_all")
}

func TestBuildSearchQueryTextAndStatus(t *testing.T) {
	q := buildSearchQuery(Query{Text: "pycon", Status: models.EventStatusOpen})

	boolQuery, ok := q["bool"].(map[string]interface{})
	if assert.True(t, ok) {
		must := boolQuery["must"].([]map[string]interface{})
		filter := boolQuery["filter"].([]map[string]interface{})
		assert.Len(t, must, 1)
		assert.Len(t, filter, 1)
		assert.Equal(t, map[string]interface{}{"status": "open"}, filter[0]["term"])
	}
}

func TestBuildSearchQueryStatusOnly(t *testing.T) {
	q := buildSearchQuery(Query{Status: models.EventStatusPreRegistration})

	boolQuery := q["bool"].(map[string]interface{})
	assert.NotContains(t, boolQuery, "must")
	assert.Contains(t, boolQuery, "filter")
}

func TestBuildSearchRequestPaging(t *testing.T) {
	req := buildSearchRequest(Query{Page: 3, PageSize: 20})
	assert.Equal(t, 40, req["from"])
	assert.Equal(t, 20, req["size"])

	req = buildSearchRequest(Query{})
	assert.Equal(t, 0, req["from"])
	assert.Equal(t, 10, req["size"])
}

func TestBuildSortQuery(t *testing.T) {
	assert.Contains(t, buildSortQuery("pycon")[0], "_score")
	assert.Contains(t, buildSortQuery("")[0], "startDate")
}
