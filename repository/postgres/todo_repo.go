package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fastygo/todo/domain"
	"github.com/fastygo/todo/repository"
)

type todoRepository struct {
	pool *pgxpool.Pool
}

// NewTodoRepository returns a Postgres-backed implementation of TodoRepository.
func NewTodoRepository(pool *pgxpool.Pool) repository.TodoRepository {
	return &todoRepository{pool: pool}
}

func (r *todoRepository) Insert(ctx context.Context, content string) (repository.Row, error) {
	const query = `
	INSERT INTO todos (id, content)
	VALUES ($1, $2)
	RETURNING id, content, date, done
	`
	row, err := scanTodo(r.pool.QueryRow(ctx, query, uuid.NewString(), content))
	if err != nil {
		return nil, fmt.Errorf("insert todo: %w", err)
	}
	return row, nil
}

func (r *todoRepository) GetByID(ctx context.Context, id string) (repository.Row, error) {
	if !validID(id) {
		return nil, domain.ErrTodoNotFound
	}
	const query = `
	SELECT id, content, date, done
	FROM todos
	WHERE id = $1
	`
	return scanTodo(r.pool.QueryRow(ctx, query, id))
}

func (r *todoRepository) Update(ctx context.Context, id string, patch repository.Patch) (repository.Row, error) {
	if !validID(id) {
		return nil, domain.ErrTodoNotFound
	}
	const query = `
	UPDATE todos
	SET done = COALESCE($2::boolean, done)
	WHERE id = $1
	RETURNING id, content, date, done
	`
	return scanTodo(r.pool.QueryRow(ctx, query, id, patch.Done))
}

func (r *todoRepository) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return domain.ErrTodoNotFound
	}
	const query = `DELETE FROM todos WHERE id = $1`
	tag, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return classify(err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTodoNotFound
	}
	return nil
}

func (r *todoRepository) List(ctx context.Context, filter repository.TodoFilter) ([]repository.Row, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM todos`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count todos: %w", err)
	}

	const query = `
	SELECT id, content, date, done
	FROM todos
	ORDER BY date DESC, id DESC
	LIMIT $1 OFFSET $2
	`
	rows, err := r.pool.Query(ctx, query, filter.Limit, filter.Offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list todos: %w", err)
	}
	defer rows.Close()

	todos := make([]repository.Row, 0, filter.Limit)
	for rows.Next() {
		row, err := scanTodo(rows)
		if err != nil {
			return nil, 0, err
		}
		todos = append(todos, row)
	}
	return todos, total, rows.Err()
}

