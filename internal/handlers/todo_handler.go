package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"quilltask/internal/models"
	"quilltask/internal/repositories"
	"quilltask/internal/services"
)

// TodoHandler はTodo関連のハンドラーを管理します。
type TodoHandler struct {
	todoService *services.TodoService
}

// NewTodoHandler は新しいTodoHandlerを作成します。
func NewTodoHandler(todoService *services.TodoService) *TodoHandler {
	return &TodoHandler{todoService: todoService}
}

// DashboardHandler はステータスごとに3分割したタスクリストを描画します。
func (h *TodoHandler) DashboardHandler(c *gin.Context) {
	user, _ := currentUser(c)

	grouped, err := h.todoService.ListGrouped(user.ID)
	if err != nil {
		c.String(http.StatusInternalServerError, "Internal Server Error")
		return
	}

	c.HTML(http.StatusOK, "index.html", gin.H{
		"UserName":       user.Name,
		"TodoTasks":      grouped.Todo,
		"ProgressTasks":  grouped.InProgress,
		"CompletedTasks": grouped.Completed,
		"Flash":          getFlash(c),
	})
}

// CreateTodoHandler は新しいタスクを作成し、ダッシュボードへリダイレクトします。
func (h *TodoHandler) CreateTodoHandler(c *gin.Context) {
	user, _ := currentUser(c)

	var form models.TaskForm
	if err := c.ShouldBind(&form); err != nil {
		setFlash(c, "Task title is required.", "danger")
		c.Redirect(http.StatusSeeOther, "/dashboard")
		return
	}

	if _, err := h.todoService.CreateTask(user.ID, form); err != nil {
		if err == services.ErrInvalidStatus {
			setFlash(c, "Invalid task status.", "danger")
			c.Redirect(http.StatusSeeOther, "/dashboard")
			return
		}
		c.String(http.StatusInternalServerError, "Internal Server Error")
		return
	}

	setFlash(c, "Task added!", "success")
	c.Redirect(http.StatusSeeOther, "/dashboard")
}

// ShowEditHandler は編集対象のタスクを含めてダッシュボードを描画します。
func (h *TodoHandler) ShowEditHandler(c *gin.Context) {
	user, _ := currentUser(c)

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.String(http.StatusNotFound, "Not Found")
		return
	}

	todo, err := h.todoService.GetTask(id, user.ID)
	if err != nil {
		h.redirectWithTaskError(c, err, "edit")
		return
	}

	grouped, err := h.todoService.ListGrouped(user.ID)
	if err != nil {
		c.String(http.StatusInternalServerError, "Internal Server Error")
		return
	}

	c.HTML(http.StatusOK, "index.html", gin.H{
		"UserName":       user.Name,
		"Todo":           todo,
		"TodoTasks":      grouped.Todo,
		"ProgressTasks":  grouped.InProgress,
		"CompletedTasks": grouped.Completed,
		"Flash":          getFlash(c),
	})
}

// EditTodoHandler はタスクのタイトルとステータスを更新します。
func (h *TodoHandler) EditTodoHandler(c *gin.Context) {
	user, _ := currentUser(c)

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.String(http.StatusNotFound, "Not Found")
		return
	}

	var form models.TaskForm
	if err := c.ShouldBind(&form); err != nil {
		setFlash(c, "Task title is required.", "danger")
		c.Redirect(http.StatusSeeOther, "/dashboard")
		return
	}

	if _, err := h.todoService.EditTask(id, user.ID, form); err != nil {
		h.redirectWithTaskError(c, err, "edit")
		return
	}

	setFlash(c, "Task updated successfully!", "success")
	c.Redirect(http.StatusSeeOther, "/dashboard")
}

// DeleteTodoHandler はタスクを削除します。
func (h *TodoHandler) DeleteTodoHandler(c *gin.Context) {
	user, _ := currentUser(c)

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.String(http.StatusNotFound, "Not Found")
		return
	}

	if err := h.todoService.DeleteTask(id, user.ID); err != nil {
		h.redirectWithTaskError(c, err, "delete")
		return
	}

	setFlash(c, "Task deleted successfully!", "success")
	c.Redirect(http.StatusSeeOther, "/dashboard")
}

// UpdateStatusHandler はタスクのステータスのみを変更します。
func (h *TodoHandler) UpdateStatusHandler(c *gin.Context) {
	user, _ := currentUser(c)

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.String(http.StatusNotFound, "Not Found")
		return
	}

	var form models.StatusForm
	if err := c.ShouldBind(&form); err != nil {
		setFlash(c, "Invalid task status.", "danger")
		c.Redirect(http.StatusSeeOther, "/dashboard")
		return
	}

	if _, err := h.todoService.UpdateTaskStatus(id, user.ID, form.Status); err != nil {
		h.redirectWithTaskError(c, err, "update")
		return
	}

	setFlash(c, "Task status updated!", "success")
	c.Redirect(http.StatusSeeOther, "/dashboard")
}

// redirectWithTaskError はタスク操作のエラーをフラッシュメッセージに変換して
// ダッシュボードへリダイレクトします。ストレージ起因の障害のみ500を返します。
func (h *TodoHandler) redirectWithTaskError(c *gin.Context, err error, action string) {
	switch err {
	case repositories.ErrTodoNotFound:
		setFlash(c, "Task not found.", "danger")
	case repositories.ErrTodoForbidden:
		setFlash(c, "You are not authorized to "+action+" this task.", "danger")
	case services.ErrInvalidStatus:
		setFlash(c, "Invalid task status.", "danger")
	default:
		c.String(http.StatusInternalServerError, "Internal Server Error")
		return
	}
	c.Redirect(http.StatusSeeOther, "/dashboard")
}
