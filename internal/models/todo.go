// Package modelsはTodoとUserを定義します。
package models

import (
	"time"
)

// タスクのステータスは3つの固定値のみを認めます。
const (
	StatusTodo       = "todo"
	StatusInProgress = "in-progress"
	StatusCompleted  = "completed"
)

// ValidStatus はステータスが認められた3値のいずれかであるかを判定します。
func ValidStatus(status string) bool {
	switch status {
	case StatusTodo, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

type Todo struct {
	ID        int       `json:"id,omitempty"`             // 主キー
	UserID    int       `json:"user_id"`                  // 所有ユーザーID (必須)
	Title     string    `json:"title" binding:"required"` // タスクのタイトル（必須）
	Status    string    `json:"status"`                   // todo / in-progress / completed
	CreatedAt time.Time `json:"created_at"`               // 作成日時
	UpdatedAt time.Time `json:"updated_at,omitempty"`     // 更新日時
}

// TaskForm はダッシュボード・編集フォームの入力構造体です。
// formタグ: GinのShouldBindでのフォームバリデーション用
type TaskForm struct {
	Title  string `form:"title" binding:"required"`
	Status string `form:"status"` // 空の場合は "todo" にフォールバック
}

// StatusForm はステータス更新フォームの入力構造体です。
type StatusForm struct {
	Status string `form:"status" binding:"required"`
}

// GroupedTodos はステータスごとに3分割したタスクリストです。
// ダッシュボードのカンバン表示に使います。
type GroupedTodos struct {
	Todo       []*Todo `json:"todo"`
	InProgress []*Todo `json:"in_progress"`
	Completed  []*Todo `json:"completed"`
}
