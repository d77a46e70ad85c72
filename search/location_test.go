package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractLocation(t *testing.T) {
	tests := []struct {
		name   string
		query  string
		region string
		found  bool
	}{
		{"from phrase", "ruler from alexandria", "alexandria", true},
		{"leading region", "giza ruler", "giza", true},
		{"abbreviation", "calculator from alex", "alexandria", true},
		{"in phrase", "books in cairo please", "cairo", true},
		{"at phrase", "lab coat at luxor", "luxor", true},
		{"multi-word region", "desk from port said", "port said", true},
		{"multi-word direct", "kafr el-sheikh notebook", "kafr el-sheikh", true},
		{"partial phrase contained in key", "chair from beni", "beni suef", true},
		{"case and whitespace", "  Ruler FROM Giza  ", "giza", true},
		{"no region", "graphing calculator", "", false},
		{"embedded letters do not match", "suezcanal poster", "", false},
		{"short word after preposition", "sit at a desk", "", false},
		{"empty", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			region, found := ExtractLocation(tt.query)
			assert.Equal(t, tt.found, found)
			assert.Equal(t, tt.region, region)
		})
	}
}

func TestExtractLocation_GazetteerOrder(t *testing.T) {
	// Direct scan returns the first gazetteer entry, not the first in the query.
	region, found := ExtractLocation("cairo or giza")
	assert.True(t, found)
	assert.Equal(t, "giza", region)
}

func TestRegions(t *testing.T) {
	regions := Regions()
	assert.Contains(t, regions, "alexandria")
	assert.NotContains(t, regions, "alex")
	assert.GreaterOrEqual(t, len(regions), 25)
}

func TestIndexWord(t *testing.T) {
	assert.Equal(t, 0, indexWord("alex", "alex", 0))
	assert.Equal(t, -1, indexWord("alexandria", "alex", 0))
	assert.Equal(t, 5, indexWord("from alex.", "alex", 0))
	assert.Equal(t, -1, indexWord("anything", "", 0))
}
