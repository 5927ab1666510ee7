package kb

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContentAnalyzer(t *testing.T) {
	analyzer := NewContentAnalyzer()

	tests := []struct {
		name  string
		body  string
		text  string
		words int
	}{
		{name: "empty", body: "", text: "", words: 0},
		{name: "plain", body: "one two  three", text: "one two three", words: 3},
		{name: "adjacent blocks", body: "<p>alpha</p><p>beta</p>", text: "alpha beta", words: 2},
		{name: "line break", body: "first<br/>second", text: "first second", words: 2},
		{name: "entities", body: "<p>Fish &amp; chips</p>", text: "Fish & chips", words: 3},
		{name: "inline markup", body: "<p>very <strong>bold</strong> move</p>", text: "very bold move", words: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.text, analyzer.PlainText(tt.body))
			assert.Equal(t, tt.words, analyzer.CountWords(tt.body))
		})
	}
}
