package task

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidateInput(t *testing.T) {
	valid := TaskInput{Title: "Write report", Description: "Quarterly numbers", Completed: false}

	tests := []struct {
		name   string
		mutate func(*TaskInput)
		wantOK bool
	}{
		{"valid", func(*TaskInput) {}, true},
		{"completed", func(i *TaskInput) { i.Completed = true }, true},
		{"with attachment", func(i *TaskInput) { i.AttachmentURL = "https://cdn.example.com/report.pdf" }, true},
		{"missing title", func(i *TaskInput) { i.Title = "" }, false},
		{"title too long", func(i *TaskInput) { i.Title = strings.Repeat("x", 251) }, false},
		{"missing description", func(i *TaskInput) { i.Description = "" }, false},
		{"attachment not a url", func(i *TaskInput) { i.AttachmentURL = "not a url" }, false},
		{"attachment bad scheme", func(i *TaskInput) { i.AttachmentURL = "ftp://example.com/f.txt" }, false},
		{"attachment too long", func(i *TaskInput) { i.AttachmentURL = "https://example.com/" + strings.Repeat("x", 500) }, false},
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
