package item

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidateInput(t *testing.T) {
	valid := ItemInput{Category: "cables", Subcategory: "usb-c", Name: "1m braided cable", Amount: 12}

	tests := []struct {
		name   string
		mutate func(*ItemInput)
		wantOK bool
	}{
		{"valid", func(*ItemInput) {}, true},
		{"zero amount", func(i *ItemInput) { i.Amount = 0 }, true},
		{"missing category", func(i *ItemInput) { i.Category = "" }, false},
		{"category too long", func(i *ItemInput) { i.Category = strings.Repeat("x", 256) }, false},
		{"missing subcategory", func(i *ItemInput) { i.Subcategory = "" }, false},
		{"missing name", func(i *ItemInput) { i.Name = "" }, false},
		{"name too long", func(i *ItemInput) { i.Name = strings.Repeat("x", 256) }, false},
		{"negative amount", func(i *ItemInput) { i.Amount = -1 }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := valid
			tt.mutate(&input)

			_, ok := validateInput(input)
			require.Equal(t, tt.wantOK, ok)
		})
	}
}
