// Package sqlite stores todos in SQLite through GORM.
package sqlite

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fastygo/todo/domain"
	"github.com/fastygo/todo/repository"
)

// Todo is the GORM model of the todos table.
type Todo struct {
	ID      string    `gorm:"primaryKey;type:text"`
	Content string    `gorm:"not null"`
	Date    time.Time `gorm:"not null;index:idx_todos_date"`
	Done    bool      `gorm:"not null;default:false"`
}

func (Todo) TableName() string {
	return "todos"
}

type todoRepository struct {
	db  *gorm.DB
	now func() time.Time
}

// NewTodoRepository returns a GORM-backed TodoRepository. The todos table
// must have been migrated with Todo.
func NewTodoRepository(db *gorm.DB) repository.TodoRepository {
	return &todoRepository{db: db, now: time.Now}
}

func (r *todoRepository) Insert(ctx context.Context, content string) (repository.Row, error) {
	model := Todo{
		ID:      uuid.NewString(),
		Content: content,
		Date:    r.now().UTC(),
	}
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		return nil, fmt.Errorf("insert todo: %w", err)
	}
	return toRow(model), nil
}

func (r *todoRepository) GetByID(ctx context.Context, id string) (repository.Row, error) {
	var model Todo
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		return nil, classify(err)
	}
	return toRow(model), nil
}

func (r *todoRepository) Update(ctx context.Context, id string, patch repository.Patch) (repository.Row, error) {
	var model Todo
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", id).First(&model).Error; err != nil {
			return classify(err)
		}
		if patch.Done == nil {
			return nil
		}
		model.Done = *patch.Done
		return tx.Model(&Todo{}).Where("id = ?", id).Update("done", model.Done).Error
	})
	if err != nil {
		return nil, err
	}
	return toRow(model), nil
}

func (r *todoRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&Todo{})
	if result.Error != nil {
		return fmt.Errorf("delete todo: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrTodoNotFound
	}
	return nil
}

func (r *todoRepository) List(ctx context.Context, filter repository.TodoFilter) ([]repository.Row, int, error) {
	db := r.db.WithContext(ctx)

	var total int64
	if err := db.Model(&Todo{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count todos: %w", err)
	}

	var models []Todo
	if err := db.Order("date DESC, id DESC").Offset(filter.Offset).Limit(filter.Limit).Find(&models).Error; err != nil {
		return nil, 0, fmt.Errorf("list todos: %w", err)
	}

	rows := make([]repository.Row, 0, len(models))
	for _, model := range models {
		rows = append(rows, toRow(model))
	}
	return rows, int(total), nil
}


func classify(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ErrTodoNotFound
	}
	return err
}

func toRow(model Todo) repository.Row {
	return repository.Row{
		repository.ColumnID:      model.ID,
		repository.ColumnContent: model.Content,
		repository.ColumnDate:    repository.FormatDate(model.Date),
		repository.ColumnDone:    model.Done,
	}
}
