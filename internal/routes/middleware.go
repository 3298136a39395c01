package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"quilltask/internal/models"
	"quilltask/internal/services"
)

// UserLoader はセッションに保存されたIDからユーザーを復元します。
// グローバルなコールバック登録ではなく、ミドルウェアへの注入依存にしています。
type UserLoader interface {
	LoadUserByID(id int) (*models.User, error)
}

// LoadPrincipal はセッションクッキーを検証し、ユーザーをコンテキストに設定するミドルウェアです。
// クッキーが無い・無効・ユーザーが消えている場合は匿名のままリクエストを通します。
func LoadPrincipal(sessionService *services.SessionService, loader UserLoader) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, err := c.Cookie("quilltask_session")
		if err != nil || tokenString == "" {
			c.Next()
			return
		}

		userID, err := sessionService.ValidateToken(tokenString)
		if err != nil {
			c.Next()
			return
		}

		user, err := loader.LoadUserByID(userID)
		if err != nil || user == nil {
			c.Next()
			return
		}

		c.Set("current_user", user)
		c.Next()
	}
}

// RequireAuth は認証済みユーザーのみを通すミドルウェアです。
// 匿名の場合はハンドラーを呼ばずにログイン画面へリダイレクトします。
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, exists := c.Get("current_user"); !exists {
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}
		c.Next()
	}
}
