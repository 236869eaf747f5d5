package repository

import (
	"context"
	"errors"

	"todo_backend/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrTodoNotFound   = errors.New("todo not found")
	ErrDuplicateTitle = errors.New("todo title already exists")
)

type TodoRepository struct {
	db *pgxpool.Pool
}

func NewTodoRepository(db *pgxpool.Pool) *TodoRepository {
	return &TodoRepository{db: db}
}

// ListByEmail returns all todos owned by the given email, newest first.
func (r *TodoRepository) ListByEmail(ctx context.Context, email string) ([]*domain.Todo, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, user_email, title, COALESCE(progress, ''), COALESCE(date, '')
		 FROM todo
		 WHERE user_email = $1
		 ORDER BY date DESC, id`,
		email,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []*domain.Todo
	for rows.Next() {
		var t domain.Todo
		if err := rows.Scan(&t.ID, &t.UserEmail, &t.Title, &t.Progress, &t.Date); err != nil {
			return nil, err
		}
		res = append(res, &t)
	}
	return res, rows.Err()
}

// GetByID returns a single todo. The email filter is part of the
// predicate, so an id owned by someone else reads as not found.
func (r *TodoRepository) GetByID(ctx context.Context, id, email string) (*domain.Todo, error) {
	row := r.db.QueryRow(ctx,
		`SELECT id, user_email, title, COALESCE(progress, ''), COALESCE(date, '')
		 FROM todo
		 WHERE id = $1 AND user_email = $2`,
		id, email,
	)

	var t domain.Todo
	if err := row.Scan(&t.ID, &t.UserEmail, &t.Title, &t.Progress, &t.Date); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTodoNotFound
		}
		return nil, err
	}
	return &t, nil
}

func (r *TodoRepository) Create(ctx context.Context, t *domain.Todo) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO todo (id, user_email, title, progress, date)
		 VALUES ($1, $2, $3, $4, $5)`,
		t.ID, t.UserEmail, t.Title, t.Progress, t.Date,
	)
	if isUniqueViolation(err) {
		return ErrDuplicateTitle
	}
	return err
}

// Update replaces every field of the record, not a partial patch.
func (r *TodoRepository) Update(ctx context.Context, t *domain.Todo) error {
	result, err := r.db.Exec(ctx,
		`UPDATE todo
		 SET user_email = $1, title = $2, progress = $3, date = $4
		 WHERE id = $5`,
		t.UserEmail, t.Title, t.Progress, t.Date, t.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateTitle
		}
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrTodoNotFound
	}
	return nil
}

func (r *TodoRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.Exec(ctx, `DELETE FROM todo WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrTodoNotFound
	}
	return nil
}
