package item

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

var ErrDuplicateName = errors.New("item name already exists")

const uniqueViolationCode = "23505"

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) List(ctx context.Context) ([]Item, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, category, subcategory, name, amount, created_at, updated_at
		FROM items
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("query items: %w", err)
	}
	defer rows.Close()

	items := make([]Item, 0)
	for rows.Next() {
		var i Item
		if err := rows.Scan(&i.ID, &i.Category, &i.Subcategory, &i.Name, &i.Amount, &i.CreatedAt, &i.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		items = append(items, i)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate items: %w", err)
	}

	return items, nil
}

func (r *Repository) Get(ctx context.Context, id string) (Item, error) {
	var i Item
	err := r.db.QueryRowContext(ctx, `
		SELECT id, category, subcategory, name, amount, created_at, updated_at
		FROM items
		WHERE id = $1
	`, id).Scan(&i.ID, &i.Category, &i.Subcategory, &i.Name, &i.Amount, &i.CreatedAt, &i.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Item{}, err
		}
		return Item{}, fmt.Errorf("query item: %w", err)
	}

	return i, nil
}

func (r *Repository) NameExists(ctx context.Context, name string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `
		SELECT EXISTS(SELECT 1 FROM items WHERE name = $1)
	`, name).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check item name exists: %w", err)
	}

	return exists, nil
}

// Create inserts the item. The unique index on name backstops the handler's
// pre-check under concurrent creates.
func (r *Repository) Create(ctx context.Context, input ItemInput) (Item, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return Item{}, fmt.Errorf("generate item id: %w", err)
	}

	now := time.Now().UTC()
	i := Item{
		ID:          id.String(),
		Category:    input.Category,
		Subcategory: input.Subcategory,
		Name:        input.Name,
		Amount:      input.Amount,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO items (id, category, subcategory, name, amount, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, i.ID, i.Category, i.Subcategory, i.Name, i.Amount, i.CreatedAt, i.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return Item{}, ErrDuplicateName
		}
		return Item{}, fmt.Errorf("insert item: %w", err)
	}

	return i, nil
}

func (r *Repository) Update(ctx context.Context, id string, input ItemInput) (Item, error) {
	var i Item

	err := r.db.QueryRowContext(ctx, `
		UPDATE items
		SET category = $2, subcategory = $3, name = $4, amount = $5, updated_at = $6
		WHERE id = $1
		RETURNING id, category, subcategory, name, amount, created_at, updated_at
	`, id, input.Category, input.Subcategory, input.Name, input.Amount, time.Now().UTC()).
		Scan(&i.ID, &i.Category, &i.Subcategory, &i.Name, &i.Amount, &i.CreatedAt, &i.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Item{}, err
		}
		if isUniqueViolation(err) {
			return Item{}, ErrDuplicateName
		}
		return Item{}, fmt.Errorf("update item: %w", err)
	}

	return i, nil
}

func (r *Repository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM items WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete item: %w", err)
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

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}
