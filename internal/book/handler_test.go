package book

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidateInput(t *testing.T) {
	valid := BookInput{Title: "The Go Programming Language", Author: "Donovan & Kernighan", Price: 39.99}

	tests := []struct {
		name    string
		mutate  func(*BookInput)
		wantOK  bool
		message string
	}{
		{"valid", func(*BookInput) {}, true, ""},
		{"free book", func(b *BookInput) { b.Price = 0 }, true, ""},
		{"missing title", func(b *BookInput) { b.Title = "" }, false, "title is required"},
		{"title too long", func(b *BookInput) { b.Title = strings.Repeat("x", 101) }, false, "title is invalid"},
		{"missing author", func(b *BookInput) { b.Author = "" }, false, "author is required"},
		{"author too long", func(b *BookInput) { b.Author = strings.Repeat("x", 101) }, false, "author is invalid"},
		{"negative price", func(b *BookInput) { b.Price = -1 }, false, "price must be between 0 and 9999.99"},
		{"price too large", func(b *BookInput) { b.Price = 10000 }, false, "price must be between 0 and 9999.99"},
		{"too many decimals", func(b *BookInput) { b.Price = 9.999 }, false, "price must have at most two decimal places"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := valid
			tt.mutate(&input)

			message, ok := validateInput(input)
			require.Equal(t, tt.wantOK, ok)
			if !tt.wantOK {
				require.Equal(t, tt.message, message)
			}
		})
	}
}
