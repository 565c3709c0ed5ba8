package postgres

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/fastygo/todo/domain"
	"github.com/fastygo/todo/repository"
)

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanTodo(row rowScanner) (repository.Row, error) {
	var (
		id      string
		content string
		date    time.Time
		done    bool
	)
	if err := row.Scan(&id, &content, &date, &done); err != nil {
		return nil, classify(err)
	}
	return repository.Row{
		repository.ColumnID:      id,
		repository.ColumnContent: content,
		repository.ColumnDate:    repository.FormatDate(date),
		repository.ColumnDone:    done,
	}, nil
}

// classify turns lookups that cannot match any row into NotFound.
func classify(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrTodoNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.InvalidTextRepresentation {
		return domain.ErrTodoNotFound
	}
	return err
}

func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
