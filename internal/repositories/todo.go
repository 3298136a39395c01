package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"log"
	"time"

	"quilltask/internal/models"
)

var (
	// ErrTodoNotFound はTODOが見つからない場合のエラーです。
	ErrTodoNotFound = errors.New("todo not found")
	// ErrTodoForbidden は他ユーザーのTODOへの操作を表すエラーです。
	ErrTodoForbidden = errors.New("todo access forbidden")
)

// TodoRepository はデータベース操作を行うための構造体です。
type TodoRepository struct {
	DB *sql.DB
}

// NewTodoRepository は新しいTodoRepositoryインスタンスを作成します。
func NewTodoRepository(db *sql.DB) *TodoRepository {
	return &TodoRepository{DB: db}
}

// Create は新しいTodoタスクをデータベースに挿入します。
func (r *TodoRepository) Create(t *models.Todo) (*models.Todo, error) {
	now := time.Now()
	query := "INSERT INTO todos (user_id, title, status, created_at, updated_at) VALUES (?, ?, ?, ?, ?)"

	result, err := r.DB.Exec(query, t.UserID, t.Title, t.Status, now, now)
	if err != nil {
		log.Printf("Failed to insert todo: %v", err)
		return nil, fmt.Errorf("could not insert todo: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("could not get last insert ID: %w", err)
	}
	t.ID = int(id)
	t.CreatedAt = now
	t.UpdatedAt = now

	return t, nil
}

// FindByID は指定されたIDのTodoタスクをデータベースから取得します。
func (r *TodoRepository) FindByID(id int) (*models.Todo, error) {
	query := "SELECT id, user_id, title, status, created_at, updated_at FROM todos WHERE id = ?"

	var t models.Todo
	err := r.DB.QueryRow(query, id).Scan(&t.ID, &t.UserID, &t.Title, &t.Status, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTodoNotFound
		}
		log.Printf("Failed to query todo by ID: %v", err)
		return nil, fmt.Errorf("could not query todo: %w", err)
	}

	return &t, nil
}

// FindByUserID は指定ユーザーのTodoタスクを挿入順で取得します。
// ダッシュボードの3分割はこの並びを保ったまま行われます。
func (r *TodoRepository) FindByUserID(userID int) ([]*models.Todo, error) {
	query := "SELECT id, user_id, title, status, created_at, updated_at FROM todos WHERE user_id = ? ORDER BY id"

	rows, err := r.DB.Query(query, userID)
	if err != nil {
		log.Printf("Failed to query todos: %v", err)
		return nil, fmt.Errorf("could not query todos: %w", err)
	}
	defer rows.Close()

	var todos []*models.Todo
	for rows.Next() {
		var t models.Todo
		err := rows.Scan(&t.ID, &t.UserID, &t.Title, &t.Status, &t.CreatedAt, &t.UpdatedAt)
		if err != nil {
			log.Printf("Failed to scan todo: %v", err)
			return nil, fmt.Errorf("could not scan todo: %w", err)
		}
		todos = append(todos, &t)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating todos: %w", err)
	}

	return todos, nil
}

// Update は指定されたIDのTodoのタイトルとステータスを更新します。
func (r *TodoRepository) Update(id int, t *models.Todo) (*models.Todo, error) {
	query := "UPDATE todos SET title = ?, status = ?, updated_at = ? WHERE id = ?"

	result, err := r.DB.Exec(query, t.Title, t.Status, time.Now(), id)
	if err != nil {
		log.Printf("Failed to update todo: %v", err)
		return nil, fmt.Errorf("could not update todo: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("could not get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return nil, ErrTodoNotFound
	}

	return r.FindByID(id)
}

// UpdateStatus は指定されたIDのTodoのステータスのみを更新します。
func (r *TodoRepository) UpdateStatus(id int, status string) (*models.Todo, error) {
	query := "UPDATE todos SET status = ?, updated_at = ? WHERE id = ?"

	result, err := r.DB.Exec(query, status, time.Now(), id)
	if err != nil {
		log.Printf("Failed to update todo status: %v", err)
		return nil, fmt.Errorf("could not update todo status: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("could not get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return nil, ErrTodoNotFound
	}

	return r.FindByID(id)
}

// Delete は指定されたIDのTodoタスクを物理削除します。
func (r *TodoRepository) Delete(id int) error {
	query := "DELETE FROM todos WHERE id = ?"

	result, err := r.DB.Exec(query, id)
	if err != nil {
		log.Printf("Failed to delete todo: %v", err)
		return fmt.Errorf("could not delete todo: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("could not get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrTodoNotFound
	}

	return nil
}
