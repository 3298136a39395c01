// Package routesはroutingを行います。
package routes

import (
	"database/sql"
	"os"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"quilltask/internal/handlers"
	"quilltask/internal/repositories"
	"quilltask/internal/services"
)

// SetupRouter はGinルーターをセットアップし、すべてのエンドポイントを登録します。
// templateGlob はHTMLテンプレートのglobパスです（テストからはパッケージ相対で渡す）。
func SetupRouter(db *sql.DB, templateGlob string) *gin.Engine {
	r := gin.Default()
	r.LoadHTMLGlob(templateGlob)
	r.Static("/static", "./static")

	// CORS対策（開発用フロントエンドのプロキシ経由アクセス用）
	config := cors.DefaultConfig()
	config.AllowOrigins = allowedOrigins()
	config.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	config.AllowHeaders = []string{"Origin", "Content-Type", "Accept"}
	config.AllowCredentials = true
	r.Use(cors.New(config))

	// リポジトリ
	todoRepo := repositories.NewTodoRepository(db)
	userRepo := repositories.NewUserRepository(db)

	// サービス
	todoService := services.NewTodoService(todoRepo)
	userService := services.NewUserService(userRepo)
	sessionService := services.NewSessionService()

	// ハンドラー
	userHandler := handlers.NewUserHandler(userService, sessionService)
	todoHandler := handlers.NewTodoHandler(todoService)

	// 全ルートでセッションからユーザーを復元する（匿名も通す）
	r.Use(LoadPrincipal(sessionService, userService))

	// ルーティング
	r.GET("/", userHandler.IndexHandler)
	r.GET("/register", userHandler.ShowRegisterHandler)
	r.POST("/register", userHandler.RegisterHandler)
	r.GET("/login", userHandler.ShowLoginHandler)
	r.POST("/login", userHandler.LoginHandler)

	authorized := r.Group("/")
	authorized.Use(RequireAuth())
	{
		authorized.GET("/dashboard", todoHandler.DashboardHandler)
		authorized.POST("/dashboard", todoHandler.CreateTodoHandler)
		authorized.GET("/logout", userHandler.LogoutHandler)
		authorized.GET("/edit/:id", todoHandler.ShowEditHandler)
		authorized.POST("/edit/:id", todoHandler.EditTodoHandler)
		authorized.POST("/delete/:id", todoHandler.DeleteTodoHandler)
		authorized.POST("/update_status/:id", todoHandler.UpdateStatusHandler)
	}

	return r
}

// allowedOrigins はALLOWED_ORIGINS環境変数（カンマ区切り）を読み取ります。
func allowedOrigins() []string {
	raw := os.Getenv("ALLOWED_ORIGINS")
	if raw == "" {
		return []string{"http://localhost:3000"}
	}
	var origins []string
	for _, o := range strings.Split(raw, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}
