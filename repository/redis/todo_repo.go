package redis

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	redislib "github.com/redis/go-redis/v9"

	"github.com/fastygo/todo/domain"
	"github.com/fastygo/todo/repository"
)

// Todos live in one hash per record; a sorted set scored by creation time
// in microseconds provides the listing order and the count.
type todoRepository struct {
	client *redislib.Client
	prefix string
	now    func() time.Time
}

// NewTodoRepository creates a Redis-backed todo repository. Keys are
// namespaced with prefix.
func NewTodoRepository(client *redislib.Client, prefix string) repository.TodoRepository {
	if prefix == "" {
		prefix = "todo:"
	}
	return &todoRepository{
		client: client,
		prefix: prefix,
		now:    time.Now,
	}
}

func (r *todoRepository) Insert(ctx context.Context, content string) (repository.Row, error) {
	id := uuid.NewString()
	date := r.now().UTC()
	fields := map[string]interface{}{
		repository.ColumnID:      id,
		repository.ColumnContent: content,
		repository.ColumnDate:    repository.FormatDate(date),
		repository.ColumnDone:    strconv.FormatBool(false),
	}

	_, err := r.client.TxPipelined(ctx, func(pipe redislib.Pipeliner) error {
		pipe.HSet(ctx, r.key(id), fields)
		pipe.ZAdd(ctx, r.indexKey(), redislib.Z{Score: float64(date.UnixMicro()), Member: id})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("insert todo: %w", err)
	}
	return toRow(fields), nil
}

func (r *todoRepository) GetByID(ctx context.Context, id string) (repository.Row, error) {
	fields, err := r.client.HGetAll(ctx, r.key(id)).Result()
	if err != nil {
		return nil, fmt.Errorf("get todo: %w", err)
	}
	if len(fields) == 0 {
		return nil, domain.ErrTodoNotFound
	}
	return stringsToRow(fields), nil
}

func (r *todoRepository) Update(ctx context.Context, id string, patch repository.Patch) (repository.Row, error) {
	row, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if patch.Done == nil {
		return row, nil
	}

	done := strconv.FormatBool(*patch.Done)
	if err := r.client.HSet(ctx, r.key(id), repository.ColumnDone, done).Err(); err != nil {
		return nil, fmt.Errorf("update todo: %w", err)
	}
	row[repository.ColumnDone] = done
	return row, nil
}

func (r *todoRepository) Delete(ctx context.Context, id string) error {
	var removed *redislib.IntCmd
	_, err := r.client.TxPipelined(ctx, func(pipe redislib.Pipeliner) error {
		removed = pipe.Del(ctx, r.key(id))
		pipe.ZRem(ctx, r.indexKey(), id)
		return nil
	})
	if err != nil {
		return fmt.Errorf("delete todo: %w", err)
	}
	if removed.Val() == 0 {
		return domain.ErrTodoNotFound
	}
	return nil
}

func (r *todoRepository) List(ctx context.Context, filter repository.TodoFilter) ([]repository.Row, int, error) {
	total, err := r.client.ZCard(ctx, r.indexKey()).Result()
	if err != nil {
		return nil, 0, fmt.Errorf("count todos: %w", err)
	}

	start := int64(filter.Offset)
	stop := start + int64(filter.Limit) - 1
	ids, err := r.client.ZRevRange(ctx, r.indexKey(), start, stop).Result()
	if err != nil {
		return nil, 0, fmt.Errorf("list todos: %w", err)
	}
	if len(ids) == 0 {
		return []repository.Row{}, int(total), nil
	}

	cmds := make([]*redislib.MapStringStringCmd, len(ids))
	_, err = r.client.Pipelined(ctx, func(pipe redislib.Pipeliner) error {
		for i, id := range ids {
			cmds[i] = pipe.HGetAll(ctx, r.key(id))
		}
		return nil
	})
	if err != nil {
		return nil, 0, fmt.Errorf("list todos: %w", err)
	}

	rows := make([]repository.Row, 0, len(cmds))
	for _, cmd := range cmds {
		fields := cmd.Val()
		if len(fields) == 0 {
			// deleted between the range and the fetch
			continue
		}
		rows = append(rows, stringsToRow(fields))
	}
	return rows, int(total), nil
}


func (r *todoRepository) key(id string) string {
	return fmt.Sprintf("%sitem:%s", r.prefix, id)
}

func (r *todoRepository) indexKey() string {
	return r.prefix + "by_date"
}

func stringsToRow(fields map[string]string) repository.Row {
	row := make(repository.Row, len(fields))
	for k, v := range fields {
		row[k] = v
	}
	return row
}

func toRow(fields map[string]interface{}) repository.Row {
	row := make(repository.Row, len(fields))
	for k, v := range fields {
		row[k] = v
	}
	return row
}
