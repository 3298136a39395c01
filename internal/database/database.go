// Package database はデータベース接続とスキーマ作成を提供します。
package database

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "modernc.org/sqlite"
)

// Driver はDB_DRIVER環境変数を読み取ります。未設定の場合はsqliteです。
func Driver() string {
	driver := os.Getenv("DB_DRIVER")
	if driver == "" {
		return "sqlite"
	}
	return driver
}

// GetDSN はドライバーに応じた接続文字列を構築します。
// mysql: 環境変数からDSNを組み立て / sqlite: DB_PATH (既定 quilltask.db)
func GetDSN(driver string) string {
	if driver == "mysql" {
		user := os.Getenv("DB_USER")
		pass := os.Getenv("DB_PASS")
		host := os.Getenv("DB_HOST")
		port := os.Getenv("DB_PORT")
		name := os.Getenv("DB_NAME")
		return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true", user, pass, host, port, name)
	}

	path := os.Getenv("DB_PATH")
	if path == "" {
		path = "quilltask.db"
	}
	return path
}

// InitDB はデータベース接続を初期化します。
func InitDB() *sql.DB {
	driver := Driver()
	db, err := sql.Open(driver, GetDSN(driver))
	if err != nil {
		log.Fatalf("Fatal: Failed to open database connection: %v", err)
	}

	if driver == "sqlite" {
		// 外部キー制約とWALを有効にする
		if _, err := db.Exec(`
			PRAGMA foreign_keys = ON;
			PRAGMA journal_mode = WAL;
			PRAGMA busy_timeout = 5000;
		`); err != nil {
			log.Fatalf("Fatal: Failed to set sqlite pragmas: %v", err)
		}
	} else {
		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(25)
		db.SetConnMaxLifetime(5 * time.Minute)
	}

	if err := db.Ping(); err != nil {
		log.Fatalf("Fatal: Failed to ping database: %v", err)
	}
	log.Printf("Successfully connected to %s database!", driver)
	return db
}

// CreateTables はusersとtodosテーブルを作成します（存在する場合は何もしない）。
func CreateTables(db *sql.DB, driver string) error {
	var createUsers, createTodos string

	if driver == "mysql" {
		createUsers = `
		CREATE TABLE IF NOT EXISTS users (
			id INT AUTO_INCREMENT PRIMARY KEY,
			name VARCHAR(100) NOT NULL UNIQUE,
			email VARCHAR(120) NOT NULL UNIQUE,
			password_hash VARCHAR(255) NOT NULL,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		);`
		createTodos = `
		CREATE TABLE IF NOT EXISTS todos (
			id INT AUTO_INCREMENT PRIMARY KEY,
			user_id INT NOT NULL,
			title VARCHAR(200) NOT NULL,
			status VARCHAR(20) NOT NULL DEFAULT 'todo',
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL,
			FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
		);`
	} else {
		createUsers = `
		CREATE TABLE IF NOT EXISTS users (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL UNIQUE,
			email TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		);`
		createTodos = `
		CREATE TABLE IF NOT EXISTS todos (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id INTEGER NOT NULL,
			title TEXT NOT NULL,
			status TEXT NOT NULL DEFAULT 'todo',
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL,
			FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
		);`
	}

	if _, err := db.Exec(createUsers); err != nil {
		return fmt.Errorf("could not create users table: %w", err)
	}
	if _, err := db.Exec(createTodos); err != nil {
		return fmt.Errorf("could not create todos table: %w", err)
	}
	return nil
}
