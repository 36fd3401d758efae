package task

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) List(ctx context.Context) ([]Task, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, title, description, completed, attachment_url, created_at, updated_at
		FROM tasks
		ORDER BY created_at ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query tasks: %w", err)
	}
	defer rows.Close()

	tasks := make([]Task, 0)
	for rows.Next() {
		t, err := scanTask(rows.Scan)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tasks: %w", err)
	}

	return tasks, nil
}

func (r *Repository) Get(ctx context.Context, id string) (Task, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, title, description, completed, attachment_url, created_at, updated_at
		FROM tasks
		WHERE id = $1
	`, id)

	t, err := scanTask(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Task{}, sql.ErrNoRows
		}
		return Task{}, err
	}

	return t, nil
}

func (r *Repository) Create(ctx context.Context, input TaskInput) (Task, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return Task{}, fmt.Errorf("generate task id: %w", err)
	}

	now := time.Now().UTC()
	t := Task{
		ID:          id.String(),
		Title:       input.Title,
		Description: input.Description,
		Completed:   input.Completed,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if input.AttachmentURL != "" {
		t.AttachmentURL = &input.AttachmentURL
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO tasks (id, title, description, completed, attachment_url, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, t.ID, t.Title, t.Description, t.Completed, t.AttachmentURL, t.CreatedAt, t.UpdatedAt)
	if err != nil {
		return Task{}, fmt.Errorf("insert task: %w", err)
	}

	return t, nil
}

func (r *Repository) Update(ctx context.Context, id string, input TaskInput) (Task, error) {
	var attachment *string
	if input.AttachmentURL != "" {
		attachment = &input.AttachmentURL
	}

	row := r.db.QueryRowContext(ctx, `
		UPDATE tasks
		SET title = $2, description = $3, completed = $4, attachment_url = $5, updated_at = $6
		WHERE id = $1
		RETURNING id, title, description, completed, attachment_url, created_at, updated_at
	`, id, input.Title, input.Description, input.Completed, attachment, time.Now().UTC())

	t, err := scanTask(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Task{}, sql.ErrNoRows
		}
		return Task{}, err
	}

	return t, nil
}

func (r *Repository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}

	return nil
}

// PurgeCompleted deletes completed tasks whose last update is older than the
// cutoff, in batches so a backlog cannot hold a long transaction.
func (r *Repository) PurgeCompleted(ctx context.Context, cutoff time.Time, batchSize int) (int64, error) {
	if batchSize <= 0 {
		batchSize = 500
	}

	res, err := r.db.ExecContext(ctx, `
		WITH stale AS (
			SELECT id
			FROM tasks
			WHERE completed AND updated_at < $1
			ORDER BY updated_at ASC
			LIMIT $2
		)
		DELETE FROM tasks t
		USING stale
		WHERE t.id = stale.id
	`, cutoff, batchSize)
	if err != nil {
		return 0, fmt.Errorf("purge completed tasks: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("purged tasks rows affected: %w", err)
	}

	return affected, nil
}

func scanTask(scan func(dest ...any) error) (Task, error) {
	var t Task
	var attachment sql.NullString

	if err := scan(&t.ID, &t.Title, &t.Description, &t.Completed, &attachment, &t.CreatedAt, &t.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Task{}, err
		}
		return Task{}, fmt.Errorf("scan task: %w", err)
	}
	if attachment.Valid {
		t.AttachmentURL = &attachment.String
	}

	return t, nil
}
