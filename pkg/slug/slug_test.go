package slug

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMake(t *testing.T) {
	cases := map[string]string{
		"Electronics":         "electronics",
		"Home & Garden":       "home-and-garden",
		"Café Équipment":      "cafe-equipment",
		"  Spaced   Out  ":    "spaced-out",
		"Already-Slugged":     "already-slugged",
		"Symbols!@#Between":   "symbols-between",
		"MixedCASE 123":       "mixedcase-123",
		"---leading-trailing": "leading-trailing",
	}
	for input, want := range cases {
		assert.Equal(t, want, Make(input), "input %q", input)
	}
}

func TestMakeEmpty(t *testing.T) {
	assert.Equal(t, "", Make(""))
	assert.Equal(t, "", Make("!!!"))
}
