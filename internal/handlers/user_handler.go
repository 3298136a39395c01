// Package handlers はHTTPリクエストを処理し、ビューの描画とリダイレクトを行います。
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"quilltask/internal/models"
	"quilltask/internal/services"
)

// currentUser はミドルウェアが設定した認証済みユーザーをコンテキストから取り出します。
func currentUser(c *gin.Context) (*models.User, bool) {
	val, exists := c.Get("current_user")
	if !exists {
		return nil, false
	}
	user, ok := val.(*models.User)
	return user, ok
}

// UserHandler はユーザー関連のハンドラーを管理します。
type UserHandler struct {
	userService    *services.UserService
	sessionService *services.SessionService
}

// NewUserHandler は新しいUserHandlerを作成します。
func NewUserHandler(userService *services.UserService, sessionService *services.SessionService) *UserHandler {
	return &UserHandler{userService: userService, sessionService: sessionService}
}

// IndexHandler はトップページへのアクセスを振り分けます。
func (h *UserHandler) IndexHandler(c *gin.Context) {
	if _, ok := currentUser(c); ok {
		c.Redirect(http.StatusFound, "/dashboard")
		return
	}
	c.Redirect(http.StatusFound, "/login")
}

// ShowRegisterHandler は登録フォームを表示します。認証済みならダッシュボードへ。
func (h *UserHandler) ShowRegisterHandler(c *gin.Context) {
	if _, ok := currentUser(c); ok {
		c.Redirect(http.StatusFound, "/dashboard")
		return
	}
	c.HTML(http.StatusOK, "register.html", gin.H{"Flash": getFlash(c)})
}

// RegisterHandler はユーザー登録を処理します。
// 失敗理由はフラッシュメッセージにして登録フォームへ戻します。
func (h *UserHandler) RegisterHandler(c *gin.Context) {
	if _, ok := currentUser(c); ok {
		c.Redirect(http.StatusFound, "/dashboard")
		return
	}

	var form models.RegisterForm
	if err := c.ShouldBind(&form); err != nil {
		setFlash(c, "All fields are required.", "danger")
		c.Redirect(http.StatusSeeOther, "/register")
		return
	}

	_, err := h.userService.RegisterUser(form)
	if err != nil {
		switch err {
		case services.ErrNameTaken:
			setFlash(c, "Username already exists!", "danger")
		case services.ErrEmailTaken:
			setFlash(c, "Email already registered!", "danger")
		case services.ErrPasswordMismatch:
			setFlash(c, "Passwords do not match!", "danger")
		default:
			c.String(http.StatusInternalServerError, "Internal Server Error")
			return
		}
		c.Redirect(http.StatusSeeOther, "/register")
		return
	}

	setFlash(c, "Account created successfully!", "success")
	c.Redirect(http.StatusSeeOther, "/login")
}

// ShowLoginHandler はログインフォームを表示します。認証済みならダッシュボードへ。
func (h *UserHandler) ShowLoginHandler(c *gin.Context) {
	if _, ok := currentUser(c); ok {
		c.Redirect(http.StatusFound, "/dashboard")
		return
	}
	c.HTML(http.StatusOK, "login.html", gin.H{"Flash": getFlash(c)})
}

// LoginHandler はユーザーログインを処理し、成功したらセッションクッキーを発行します。
func (h *UserHandler) LoginHandler(c *gin.Context) {
	if _, ok := currentUser(c); ok {
		c.Redirect(http.StatusFound, "/dashboard")
		return
	}

	var form models.LoginForm
	if err := c.ShouldBind(&form); err != nil {
		setFlash(c, "Invalid email or password", "danger")
		c.Redirect(http.StatusSeeOther, "/login")
		return
	}

	user, err := h.userService.AuthenticateUser(form)
	if err != nil {
		if err == services.ErrInvalidCredentials {
			setFlash(c, "Invalid email or password", "danger")
			c.Redirect(http.StatusSeeOther, "/login")
			return
		}
		c.String(http.StatusInternalServerError, "Internal Server Error")
		return
	}

	token, err := h.sessionService.GenerateToken(user.ID)
	if err != nil {
		c.String(http.StatusInternalServerError, "Internal Server Error")
		return
	}
	c.SetCookie("quilltask_session", token, int(services.SessionLifetime.Seconds()), "/", "", false, true)

	setFlash(c, "Logged in successfully!", "success")
	c.Redirect(http.StatusSeeOther, "/dashboard")
}

// LogoutHandler はセッションクッキーを破棄してログイン画面へ戻します。
func (h *UserHandler) LogoutHandler(c *gin.Context) {
	c.SetCookie("quilltask_session", "", -1, "/", "", false, true)
	setFlash(c, "You have been logged out.", "success")
	c.Redirect(http.StatusFound, "/login")
}
