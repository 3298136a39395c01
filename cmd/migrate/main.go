package main

import (
	"log"

	"github.com/joho/godotenv"

	"quilltask/internal/database"
)

// スキーマだけを作成して終了するワンショットコマンドです。
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	db := database.InitDB()
	defer db.Close()

	if err := database.CreateTables(db, database.Driver()); err != nil {
		log.Fatalf("Fatal: Failed to create tables: %v", err)
	}

	log.Println("Database and tables created successfully!")
}
