package services

import (
	"errors"

	"quilltask/internal/models"
	"quilltask/internal/repositories"
)

// ErrInvalidStatus は認められていないステータス値を表すエラーです。
var ErrInvalidStatus = errors.New("invalid status value")

// TodoService はTodo関連のビジネスロジックを扱います。
type TodoService struct {
	todoRepo *repositories.TodoRepository
}

// NewTodoService は新しいTodoServiceを作成します。
func NewTodoService(todoRepo *repositories.TodoRepository) *TodoService {
	return &TodoService{todoRepo: todoRepo}
}

// ListGrouped はユーザーのタスクをステータスごとに3分割して返します。
// 各グループ内の並びはリポジトリの並び（挿入順）を保ちます。
func (s *TodoService) ListGrouped(userID int) (*models.GroupedTodos, error) {
	todos, err := s.todoRepo.FindByUserID(userID)
	if err != nil {
		return nil, err
	}

	grouped := &models.GroupedTodos{}
	for _, t := range todos {
		switch t.Status {
		case models.StatusInProgress:
			grouped.InProgress = append(grouped.InProgress, t)
		case models.StatusCompleted:
			grouped.Completed = append(grouped.Completed, t)
		default:
			grouped.Todo = append(grouped.Todo, t)
		}
	}
	return grouped, nil
}

// CreateTask は新しいタスクを作成します。ステータスが空の場合は "todo" になります。
func (s *TodoService) CreateTask(userID int, form models.TaskForm) (*models.Todo, error) {
	status := form.Status
	if status == "" {
		status = models.StatusTodo
	}
	if !models.ValidStatus(status) {
		return nil, ErrInvalidStatus
	}

	todo := &models.Todo{
		UserID: userID,
		Title:  form.Title,
		Status: status,
	}
	return s.todoRepo.Create(todo)
}

// GetTask は指定IDのタスクを取得し、所有者チェックを行います。
func (s *TodoService) GetTask(id, userID int) (*models.Todo, error) {
	todo, err := s.todoRepo.FindByID(id)
	if err != nil {
		return nil, err
	}
	if todo.UserID != userID {
		return nil, repositories.ErrTodoForbidden
	}
	return todo, nil
}

// EditTask はタスクのタイトルとステータスを上書きします。所有者のみ実行できます。
func (s *TodoService) EditTask(id, userID int, form models.TaskForm) (*models.Todo, error) {
	existing, err := s.todoRepo.FindByID(id)
	if err != nil {
		return nil, err
	}
	if existing.UserID != userID {
		return nil, repositories.ErrTodoForbidden
	}

	status := form.Status
	if status == "" {
		status = models.StatusTodo
	}
	if !models.ValidStatus(status) {
		return nil, ErrInvalidStatus
	}

	existing.Title = form.Title
	existing.Status = status
	return s.todoRepo.Update(id, existing)
}

// DeleteTask はタスクを物理削除します。所有者のみ実行できます。
func (s *TodoService) DeleteTask(id, userID int) error {
	existing, err := s.todoRepo.FindByID(id)
	if err != nil {
		return err
	}
	if existing.UserID != userID {
		return repositories.ErrTodoForbidden
	}
	return s.todoRepo.Delete(id)
}

// UpdateTaskStatus はタスクのステータスのみを変更します。
// 所有者チェックに加え、ステータス値のバリデーションを行います。
func (s *TodoService) UpdateTaskStatus(id, userID int, status string) (*models.Todo, error) {
	existing, err := s.todoRepo.FindByID(id)
	if err != nil {
		return nil, err
	}
	if existing.UserID != userID {
		return nil, repositories.ErrTodoForbidden
	}
	if !models.ValidStatus(status) {
		return nil, ErrInvalidStatus
	}
	return s.todoRepo.UpdateStatus(id, status)
}
