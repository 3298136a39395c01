package handlers_test

import (
	"net/http"
	"net/url"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quilltask/internal/models"
	"quilltask/internal/repositories"
	"quilltask/testutil"
)

func itoa(n int) string {
	return strconv.Itoa(n)
}

func taskForm(title, status string) url.Values {
	form := url.Values{}
	form.Set("title", title)
	if status != "" {
		form.Set("status", status)
	}
	return form
}

func TestCreateTodo_DefaultStatus(t *testing.T) {
	db, router, todoRepo, userRepo := testutil.SetupTestDB(t)
	defer db.Close()

	user := testutil.CreateTestUser(t, userRepo, "alice", "a@x.com", "password123")
	session := testutil.LoginAndGetSession(t, router, "a@x.com", "password123")

	resp := testutil.PostForm(t, router, "/dashboard", taskForm("buy milk", ""), session)

	assert.Equal(t, http.StatusSeeOther, resp.Code)
	assert.Equal(t, "/dashboard", resp.Header().Get("Location"))
	assert.Equal(t, "success|Task added!", flashMessage(t, resp))

	todos, err := todoRepo.FindByUserID(user.ID)
	require.NoError(t, err)
	require.Len(t, todos, 1)
	assert.Equal(t, "buy milk", todos[0].Title)
	assert.Equal(t, models.StatusTodo, todos[0].Status, "ステータス未指定時はtodoになること")
}

func TestCreateTodo_InvalidStatus(t *testing.T) {
	db, router, todoRepo, userRepo := testutil.SetupTestDB(t)
	defer db.Close()

	user := testutil.CreateTestUser(t, userRepo, "alice", "a@x.com", "password123")
	session := testutil.LoginAndGetSession(t, router, "a@x.com", "password123")

	resp := testutil.PostForm(t, router, "/dashboard", taskForm("bad task", "someday"), session)

	assert.Equal(t, http.StatusSeeOther, resp.Code)
	assert.Equal(t, "danger|Invalid task status.", flashMessage(t, resp))

	todos, err := todoRepo.FindByUserID(user.ID)
	require.NoError(t, err)
	assert.Empty(t, todos, "不正なステータスのタスクは作成されないこと")
}

func TestDashboard_RendersAllTasks(t *testing.T) {
	db, router, todoRepo, userRepo := testutil.SetupTestDB(t)
	defer db.Close()

	user := testutil.CreateTestUser(t, userRepo, "alice", "a@x.com", "password123")
	session := testutil.LoginAndGetSession(t, router, "a@x.com", "password123")

	testutil.CreateTestTodo(t, todoRepo, user.ID, "write report", models.StatusTodo)
	testutil.CreateTestTodo(t, todoRepo, user.ID, "review patch", models.StatusInProgress)
	testutil.CreateTestTodo(t, todoRepo, user.ID, "ship release", models.StatusCompleted)

	resp := testutil.Get(t, router, "/dashboard", session)

	assert.Equal(t, http.StatusOK, resp.Code)
	body := resp.Body.String()
	assert.Contains(t, body, "write report")
	assert.Contains(t, body, "review patch")
	assert.Contains(t, body, "ship release")
}

func TestEditTodo_Success(t *testing.T) {
	db, router, todoRepo, userRepo := testutil.SetupTestDB(t)
	defer db.Close()

	user := testutil.CreateTestUser(t, userRepo, "alice", "a@x.com", "password123")
	session := testutil.LoginAndGetSession(t, router, "a@x.com", "password123")
	todo := testutil.CreateTestTodo(t, todoRepo, user.ID, "old title", models.StatusTodo)

	resp := testutil.PostForm(t, router, "/edit/"+itoa(todo.ID), taskForm("new title", models.StatusInProgress), session)

	assert.Equal(t, http.StatusSeeOther, resp.Code)
	assert.Equal(t, "success|Task updated successfully!", flashMessage(t, resp))

	updated, err := todoRepo.FindByID(todo.ID)
	require.NoError(t, err)
	assert.Equal(t, "new title", updated.Title)
	assert.Equal(t, models.StatusInProgress, updated.Status)
}

func TestEditTodo_OtherUsersTask(t *testing.T) {
	db, router, todoRepo, userRepo := testutil.SetupTestDB(t)
	defer db.Close()

	alice := testutil.CreateTestUser(t, userRepo, "alice", "a@x.com", "password123")
	testutil.CreateTestUser(t, userRepo, "bob", "b@x.com", "password456")
	todo := testutil.CreateTestTodo(t, todoRepo, alice.ID, "alice task", models.StatusTodo)

	bobSession := testutil.LoginAndGetSession(t, router, "b@x.com", "password456")
	resp := testutil.PostForm(t, router, "/edit/"+itoa(todo.ID), taskForm("hijacked", models.StatusCompleted), bobSession)

	assert.Equal(t, http.StatusSeeOther, resp.Code)
	assert.Equal(t, "/dashboard", resp.Header().Get("Location"))
	assert.Equal(t, "danger|You are not authorized to edit this task.", flashMessage(t, resp))

	// タスクは変更されていない
	unchanged, err := todoRepo.FindByID(todo.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice task", unchanged.Title)
	assert.Equal(t, models.StatusTodo, unchanged.Status)
}

func TestDeleteTodo_Success(t *testing.T) {
	db, router, todoRepo, userRepo := testutil.SetupTestDB(t)
	defer db.Close()

	user := testutil.CreateTestUser(t, userRepo, "alice", "a@x.com", "password123")
	session := testutil.LoginAndGetSession(t, router, "a@x.com", "password123")
	todo := testutil.CreateTestTodo(t, todoRepo, user.ID, "to be removed", models.StatusTodo)

	resp := testutil.PostForm(t, router, "/delete/"+itoa(todo.ID), url.Values{}, session)

	assert.Equal(t, http.StatusSeeOther, resp.Code)
	assert.Equal(t, "success|Task deleted successfully!", flashMessage(t, resp))

	_, err := todoRepo.FindByID(todo.ID)
	assert.ErrorIs(t, err, repositories.ErrTodoNotFound)

	dashboard := testutil.Get(t, router, "/dashboard", session)
	assert.NotContains(t, dashboard.Body.String(), "to be removed")
}

func TestDeleteTodo_OtherUsersTask(t *testing.T) {
	db, router, todoRepo, userRepo := testutil.SetupTestDB(t)
	defer db.Close()

	alice := testutil.CreateTestUser(t, userRepo, "alice", "a@x.com", "password123")
	testutil.CreateTestUser(t, userRepo, "bob", "b@x.com", "password456")
	todo := testutil.CreateTestTodo(t, todoRepo, alice.ID, "alice task", models.StatusTodo)

	bobSession := testutil.LoginAndGetSession(t, router, "b@x.com", "password456")
	resp := testutil.PostForm(t, router, "/delete/"+itoa(todo.ID), url.Values{}, bobSession)

	assert.Equal(t, http.StatusSeeOther, resp.Code)
	assert.Equal(t, "danger|You are not authorized to delete this task.", flashMessage(t, resp))

	_, err := todoRepo.FindByID(todo.ID)
	assert.NoError(t, err, "他人による削除は実行されないこと")
}

func TestUpdateStatus_Success(t *testing.T) {
	db, router, todoRepo, userRepo := testutil.SetupTestDB(t)
	defer db.Close()

	user := testutil.CreateTestUser(t, userRepo, "alice", "a@x.com", "password123")
	session := testutil.LoginAndGetSession(t, router, "a@x.com", "password123")
	todo := testutil.CreateTestTodo(t, todoRepo, user.ID, "task", models.StatusTodo)

	form := url.Values{}
	form.Set("status", models.StatusCompleted)
	resp := testutil.PostForm(t, router, "/update_status/"+itoa(todo.ID), form, session)

	assert.Equal(t, http.StatusSeeOther, resp.Code)
	assert.Equal(t, "success|Task status updated!", flashMessage(t, resp))

	updated, err := todoRepo.FindByID(todo.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, updated.Status)
}

func TestUpdateStatus_InvalidValue(t *testing.T) {
	db, router, todoRepo, userRepo := testutil.SetupTestDB(t)
	defer db.Close()

	user := testutil.CreateTestUser(t, userRepo, "alice", "a@x.com", "password123")
	session := testutil.LoginAndGetSession(t, router, "a@x.com", "password123")
	todo := testutil.CreateTestTodo(t, todoRepo, user.ID, "task", models.StatusTodo)

	form := url.Values{}
	form.Set("status", "archived")
	resp := testutil.PostForm(t, router, "/update_status/"+itoa(todo.ID), form, session)

	assert.Equal(t, http.StatusSeeOther, resp.Code)
	assert.Equal(t, "danger|Invalid task status.", flashMessage(t, resp))

	unchanged, err := todoRepo.FindByID(todo.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusTodo, unchanged.Status, "不正な値ではステータスが変わらないこと")
}

func TestUpdateStatus_NotFound(t *testing.T) {
	db, router, _, userRepo := testutil.SetupTestDB(t)
	defer db.Close()

	testutil.CreateTestUser(t, userRepo, "alice", "a@x.com", "password123")
	session := testutil.LoginAndGetSession(t, router, "a@x.com", "password123")

	form := url.Values{}
	form.Set("status", models.StatusCompleted)
	resp := testutil.PostForm(t, router, "/update_status/9999", form, session)

	assert.Equal(t, http.StatusSeeOther, resp.Code)
	assert.Equal(t, "/dashboard", resp.Header().Get("Location"))
	assert.Equal(t, "danger|Task not found.", flashMessage(t, resp))
}

// 登録 → ログイン → 作成 → ステータス更新 → 削除 の一連の流れ。
func TestTaskLifecycle_EndToEnd(t *testing.T) {
	db, router, todoRepo, userRepo := testutil.SetupTestDB(t)
	defer db.Close()

	resp := testutil.PostForm(t, router, "/register", registerForm("alice", "a@x.com", "p1", "p1"), "")
	require.Equal(t, http.StatusSeeOther, resp.Code)

	session := testutil.LoginAndGetSession(t, router, "a@x.com", "p1")

	resp = testutil.PostForm(t, router, "/dashboard", taskForm("buy milk", ""), session)
	require.Equal(t, http.StatusSeeOther, resp.Code)

	user, err := userRepo.FindByEmail("a@x.com")
	require.NoError(t, err)
	todos, err := todoRepo.FindByUserID(user.ID)
	require.NoError(t, err)
	require.Len(t, todos, 1)
	require.Equal(t, models.StatusTodo, todos[0].Status)

	form := url.Values{}
	form.Set("status", models.StatusCompleted)
	resp = testutil.PostForm(t, router, "/update_status/"+itoa(todos[0].ID), form, session)
	require.Equal(t, http.StatusSeeOther, resp.Code)

	completed, err := todoRepo.FindByID(todos[0].ID)
	require.NoError(t, err)
	require.Equal(t, models.StatusCompleted, completed.Status)

	resp = testutil.PostForm(t, router, "/delete/"+itoa(todos[0].ID), url.Values{}, session)
	require.Equal(t, http.StatusSeeOther, resp.Code)

	_, err = todoRepo.FindByID(todos[0].ID)
	require.ErrorIs(t, err, repositories.ErrTodoNotFound)

	dashboard := testutil.Get(t, router, "/dashboard", session)
	require.NotContains(t, dashboard.Body.String(), "buy milk")
}
