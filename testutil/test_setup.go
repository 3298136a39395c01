// Package testutil はテスト共通のフィクスチャを提供します。
package testutil

import (
	"database/sql"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"quilltask/internal/database"
	"quilltask/internal/models"
	"quilltask/internal/repositories"
	"quilltask/internal/routes"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	_ "modernc.org/sqlite"
)

// SetupTestDB はテスト用のインメモリSQLiteデータベースとルーターをセットアップします。
// テストごとに独立したデータベースが作られるため、後片付けはdb.Close()だけで済みます。
func SetupTestDB(t *testing.T) (*sql.DB, *gin.Engine, *repositories.TodoRepository, *repositories.UserRepository) {
	t.Helper()

	_ = godotenv.Load("../../.env")
	if os.Getenv("SESSION_SECRET") == "" {
		os.Setenv("SESSION_SECRET", "test-session-secret")
	}

	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open database connection: %v", err)
	}
	// インメモリDBは接続ごとに別物になるため、プールを1本に固定する
	db.SetMaxOpenConns(1)
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		t.Fatalf("Failed to set sqlite pragmas: %v", err)
	}

	if err := database.CreateTables(db, "sqlite"); err != nil {
		db.Close()
		t.Fatalf("Failed to create tables: %v", err)
	}

	gin.SetMode(gin.TestMode)
	router := routes.SetupRouter(db, templatesGlob())

	todoRepo := repositories.NewTodoRepository(db)
	userRepo := repositories.NewUserRepository(db)

	return db, router, todoRepo, userRepo
}

// templatesGlob はテストの実行ディレクトリに依存しないテンプレートのglobパスを返します。
func templatesGlob() string {
	_, thisFile, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(thisFile), "..", "templates", "*.html")
}

// CreateTestUser はテスト用のユーザーを作成し、データベースに保存します。
func CreateTestUser(t *testing.T, userRepo *repositories.UserRepository, name, email, password string) *models.User {
	t.Helper()

	hashedPassword, err := repositories.HashPassword(password)
	require.NoError(t, err)

	newUser := &models.User{
		Name:         name,
		Email:        email,
		PasswordHash: hashedPassword,
	}

	createdUser, err := userRepo.Create(newUser)
	require.NoError(t, err)
	require.NotEqual(t, 0, createdUser.ID)
	return createdUser
}

// CreateTestTodo はテスト用のタスクをリポジトリ経由で作成します。
func CreateTestTodo(t *testing.T, todoRepo *repositories.TodoRepository, userID int, title, status string) *models.Todo {
	t.Helper()

	created, err := todoRepo.Create(&models.Todo{UserID: userID, Title: title, Status: status})
	require.NoError(t, err)
	require.NotZero(t, created.ID)
	return created
}

// LoginAndGetSession はログインフォームを送信し、セッションクッキーの値を返します。
func LoginAndGetSession(t *testing.T, router *gin.Engine, email, password string) string {
	t.Helper()

	form := url.Values{}
	form.Set("email", email)
	form.Set("password", password)

	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	require.Equal(t, http.StatusSeeOther, resp.Code, "ログインに失敗しました: %s", resp.Body.String())

	for _, cookie := range resp.Result().Cookies() {
		if cookie.Name == "quilltask_session" && cookie.Value != "" {
			return cookie.Value
		}
	}
	t.Fatal("session cookie not found in login response")
	return ""
}

// PostForm はセッションクッキー付きでフォームをPOSTします。
func PostForm(t *testing.T, router *gin.Engine, path string, form url.Values, session string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if session != "" {
		req.AddCookie(&http.Cookie{Name: "quilltask_session", Value: session})
	}
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

// Get はセッションクッキー付きでGETリクエストを送ります。
func Get(t *testing.T, router *gin.Engine, path string, session string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, path, nil)
	if session != "" {
		req.AddCookie(&http.Cookie{Name: "quilltask_session", Value: session})
	}
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}
