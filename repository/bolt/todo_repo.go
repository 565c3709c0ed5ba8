// Package bolt stores todos in an embedded bbolt file.
package bolt

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	bolt "go.etcd.io/bbolt"

	"github.com/fastygo/todo/domain"
	"github.com/fastygo/todo/repository"
)

var (
	todosBucket = []byte("todos")
	dateBucket  = []byte("todos_by_date")
)

// Buckets lists the buckets the store expects to exist.
func Buckets() [][]byte {
	return [][]byte{todosBucket, dateBucket}
}

type record struct {
	ID      string `json:"id"`
	Content string `json:"content"`
	Date    string `json:"date"`
	Done    bool   `json:"done"`
}

type todoRepository struct {
	db  *bolt.DB
	now func() time.Time
}

// NewTodoRepository wraps an open bbolt database. The buckets returned by
// Buckets must already exist.
func NewTodoRepository(db *bolt.DB) repository.TodoRepository {
	return &todoRepository{db: db, now: time.Now}
}

func (r *todoRepository) Insert(_ context.Context, content string) (repository.Row, error) {
	date := r.now().UTC()
	rec := record{
		ID:      uuid.NewString(),
		Content: content,
		Date:    repository.FormatDate(date),
	}
	payload, err := json.Marshal(rec)
	if err != nil {
		return nil, err
	}

	err = r.db.Update(func(tx *bolt.Tx) error {
		if err := tx.Bucket(todosBucket).Put([]byte(rec.ID), payload); err != nil {
			return err
		}
		return tx.Bucket(dateBucket).Put(indexKey(date, rec.ID), []byte(rec.ID))
	})
	if err != nil {
		return nil, fmt.Errorf("insert todo: %w", err)
	}
	return decode(payload)
}

func (r *todoRepository) GetByID(_ context.Context, id string) (repository.Row, error) {
	var row repository.Row
	err := r.db.View(func(tx *bolt.Tx) error {
		payload := tx.Bucket(todosBucket).Get([]byte(id))
		if payload == nil {
			return domain.ErrTodoNotFound
		}
		var err error
		row, err = decode(payload)
		return err
	})
	return row, err
}

func (r *todoRepository) Update(_ context.Context, id string, patch repository.Patch) (repository.Row, error) {
	var row repository.Row
	err := r.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(todosBucket)
		payload := bucket.Get([]byte(id))
		if payload == nil {
			return domain.ErrTodoNotFound
		}

		var rec record
		if err := json.Unmarshal(payload, &rec); err != nil {
			return err
		}
		if patch.Done != nil {
			rec.Done = *patch.Done
		}

		updated, err := json.Marshal(rec)
		if err != nil {
			return err
		}
		if err := bucket.Put([]byte(id), updated); err != nil {
			return err
		}
		row, err = decode(updated)
		return err
	})
	return row, err
}

func (r *todoRepository) Delete(_ context.Context, id string) error {
	return r.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(todosBucket)
		payload := bucket.Get([]byte(id))
		if payload == nil {
			return domain.ErrTodoNotFound
		}

		var rec record
		if err := json.Unmarshal(payload, &rec); err != nil {
			return err
		}
		date, err := time.Parse(repository.DateLayout, rec.Date)
		if err != nil {
			return err
		}
		if err := tx.Bucket(dateBucket).Delete(indexKey(date, id)); err != nil {
			return err
		}
		return bucket.Delete([]byte(id))
	})
}

func (r *todoRepository) List(_ context.Context, filter repository.TodoFilter) ([]repository.Row, int, error) {
	rows := make([]repository.Row, 0, filter.Limit)
	var total int

	err := r.db.View(func(tx *bolt.Tx) error {
		todos := tx.Bucket(todosBucket)
		total = todos.Stats().KeyN

		skipped := 0
		c := tx.Bucket(dateBucket).Cursor()
		for k, id := c.Last(); k != nil && len(rows) < filter.Limit; k, id = c.Prev() {
			if skipped < filter.Offset {
				skipped++
				continue
			}
			payload := todos.Get(id)
			if payload == nil {
				return fmt.Errorf("index entry %x points at missing todo %s", k, id)
			}
			row, err := decode(payload)
			if err != nil {
				return err
			}
			rows = append(rows, row)
		}
		return nil
	})
	if err != nil {
		return nil, 0, fmt.Errorf("list todos: %w", err)
	}
	return rows, total, nil
}


// indexKey sorts by creation time, then id.
func indexKey(date time.Time, id string) []byte {
	key := make([]byte, 8, 8+len(id))
	binary.BigEndian.PutUint64(key, uint64(date.UnixNano()))
	return append(key, id...)
}

func decode(payload []byte) (repository.Row, error) {
	var row repository.Row
	if err := json.Unmarshal(payload, &row); err != nil {
		return nil, err
	}
	return row, nil
}
