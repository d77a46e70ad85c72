package chat

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFallbackTerm(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"Do you have a cheap backpack?", "backpack"},
		{"I need Backpacks for school", "backpack"},
		{"looking for a geometry set", "geometry set"},
		{"any lab coat in my size", "lab coat"},
		{"a pen", "pen"},
		{"an open question", "an open question"},
		{"notes from giza", "notes"},
		{"in cairo", "in cairo"},
		{"I need a backpack for class", "backpack"},
		{fmt.Sprintf(imageContextFormat, "do you have this?", "scientific calculator"), "calculator"},
		{fmt.Sprintf(imageContextFormat, "how much", "graph paper"), "how much graph paper"},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, fallbackTerm(tt.text))
		})
	}
}

func TestFallbackText(t *testing.T) {
	assert.Equal(t, "I found 3 results for 'ruler'.", fallbackText("ruler", 3))
	assert.Equal(t, "Sorry, I couldn't find any 'ruler' right now.", fallbackText("ruler", 0))
}

func TestUnwrapImageContext(t *testing.T) {
	assert.Equal(t, "how much graph paper", unwrapImageContext(fmt.Sprintf(imageContextFormat, "how much", "graph paper")))
	assert.Equal(t, "plain text", unwrapImageContext("plain text"))
}
