package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"

	"quilltask/internal/database"
	"quilltask/internal/routes"
)

func main() {
	// .envが無くても環境変数が直接設定されていれば動く
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	db := database.InitDB()
	defer db.Close()

	if err := database.CreateTables(db, database.Driver()); err != nil {
		log.Fatalf("Fatal: Failed to create tables: %v", err)
	}

	r := routes.SetupRouter(db, "templates/*.html")

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Server listening on port %s...", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatal(err)
	}
}
