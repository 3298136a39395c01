package services_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quilltask/internal/models"
	"quilltask/internal/repositories"
	"quilltask/internal/services"
	"quilltask/testutil"
)

func TestListGrouped_PartitionsAllTasks(t *testing.T) {
	db, _, todoRepo, userRepo := testutil.SetupTestDB(t)
	defer db.Close()

	user := testutil.CreateTestUser(t, userRepo, "alice", "a@x.com", "password123")
	todoService := services.NewTodoService(todoRepo)

	statuses := []string{
		models.StatusTodo,
		models.StatusCompleted,
		models.StatusInProgress,
		models.StatusTodo,
		models.StatusCompleted,
	}
	for _, status := range statuses {
		testutil.CreateTestTodo(t, todoRepo, user.ID, "task", status)
	}

	grouped, err := todoService.ListGrouped(user.ID)
	require.NoError(t, err)

	// 各タスクはちょうど1つのグループに属する
	assert.Len(t, grouped.Todo, 2)
	assert.Len(t, grouped.InProgress, 1)
	assert.Len(t, grouped.Completed, 2)

	all, err := todoRepo.FindByUserID(user.ID)
	require.NoError(t, err)

	seen := map[int]int{}
	for _, group := range [][]*models.Todo{grouped.Todo, grouped.InProgress, grouped.Completed} {
		prevID := 0
		for _, task := range group {
			seen[task.ID]++
			// グループ内の並びはストアの並び（ID昇順）を保つ
			assert.Greater(t, task.ID, prevID)
			prevID = task.ID
		}
	}
	assert.Len(t, seen, len(all))
	for _, task := range all {
		assert.Equal(t, 1, seen[task.ID], "タスクID%dが複数グループに現れた", task.ID)
	}
}

func TestListGrouped_EmptyList(t *testing.T) {
	db, _, todoRepo, userRepo := testutil.SetupTestDB(t)
	defer db.Close()

	user := testutil.CreateTestUser(t, userRepo, "alice", "a@x.com", "password123")
	todoService := services.NewTodoService(todoRepo)

	grouped, err := todoService.ListGrouped(user.ID)
	require.NoError(t, err)
	assert.Empty(t, grouped.Todo)
	assert.Empty(t, grouped.InProgress)
	assert.Empty(t, grouped.Completed)
}

func TestCreateTask_DefaultsAndValidates(t *testing.T) {
	db, _, todoRepo, userRepo := testutil.SetupTestDB(t)
	defer db.Close()

	user := testutil.CreateTestUser(t, userRepo, "alice", "a@x.com", "password123")
	todoService := services.NewTodoService(todoRepo)

	created, err := todoService.CreateTask(user.ID, models.TaskForm{Title: "buy milk"})
	require.NoError(t, err)
	assert.Equal(t, models.StatusTodo, created.Status)
	assert.Equal(t, user.ID, created.UserID)

	_, err = todoService.CreateTask(user.ID, models.TaskForm{Title: "bad", Status: "blocked"})
	assert.ErrorIs(t, err, services.ErrInvalidStatus)
}

func TestTaskOwnership(t *testing.T) {
	db, _, todoRepo, userRepo := testutil.SetupTestDB(t)
	defer db.Close()

	alice := testutil.CreateTestUser(t, userRepo, "alice", "a@x.com", "password123")
	bob := testutil.CreateTestUser(t, userRepo, "bob", "b@x.com", "password456")
	todoService := services.NewTodoService(todoRepo)

	task := testutil.CreateTestTodo(t, todoRepo, alice.ID, "alice task", models.StatusTodo)

	_, err := todoService.EditTask(task.ID, bob.ID, models.TaskForm{Title: "stolen", Status: models.StatusTodo})
	assert.ErrorIs(t, err, repositories.ErrTodoForbidden)

	err = todoService.DeleteTask(task.ID, bob.ID)
	assert.ErrorIs(t, err, repositories.ErrTodoForbidden)

	_, err = todoService.UpdateTaskStatus(task.ID, bob.ID, models.StatusCompleted)
	assert.ErrorIs(t, err, repositories.ErrTodoForbidden)

	// どの操作でもタスクは変更されていない
	unchanged, err := todoRepo.FindByID(task.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice task", unchanged.Title)
	assert.Equal(t, models.StatusTodo, unchanged.Status)
}

func TestUpdateTaskStatus_MissingTask(t *testing.T) {
	db, _, todoRepo, userRepo := testutil.SetupTestDB(t)
	defer db.Close()

	user := testutil.CreateTestUser(t, userRepo, "alice", "a@x.com", "password123")
	todoService := services.NewTodoService(todoRepo)

	_, err := todoService.UpdateTaskStatus(12345, user.ID, models.StatusCompleted)
	assert.ErrorIs(t, err, repositories.ErrTodoNotFound)
}
