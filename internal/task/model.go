package task

import "time"

type Task struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	Completed     bool      `json:"completed"`
	AttachmentURL *string   `json:"attachment_url"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type TaskInput struct {
	Title         string `json:"title"`
	Description   string `json:"description"`
	Completed     bool   `json:"completed"`
	AttachmentURL string `json:"attachment_url"`
}
