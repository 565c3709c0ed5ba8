package redis

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"

	"github.com/fastygo/todo/internal/config"
	redisInfra "github.com/fastygo/todo/internal/infrastructure/redis"
	"github.com/fastygo/todo/repository"
	"github.com/fastygo/todo/repository/repotest"
)

func TestTodoRepository(t *testing.T) {
	url := os.Getenv("TEST_REDIS_URL")
	if url == "" {
		t.Skip("TEST_REDIS_URL not set")
	}

	client, err := redisInfra.NewClient(context.Background(), config.RedisConfig{URL: url}, nil)
	if err != nil {
		t.Fatalf("connect redis: %v", err)
	}
	t.Cleanup(func() { client.Close() })

	repotest.Run(t, func(t *testing.T) repository.TodoRepository {
		prefix := "todo-test:" + uuid.NewString() + ":"
		t.Cleanup(func() {
			ctx := context.Background()
			keys, _ := client.Keys(ctx, prefix+"*").Result()
			if len(keys) > 0 {
				client.Del(ctx, keys...)
			}
		})
		return NewTodoRepository(client, prefix)
	})
}

func TestStringRowsKeepDoneAsText(t *testing.T) {
	row := stringsToRow(map[string]string{
		repository.ColumnID:   "7b0c7c1e-8e46-4d55-9b59-1f7f0d6e0a11",
		repository.ColumnDone: "TRUE",
	})
	if row[repository.ColumnDone] != "TRUE" {
		t.Fatalf("done = %v, want the stored string", row[repository.ColumnDone])
	}
}
