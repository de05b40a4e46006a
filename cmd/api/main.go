package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/kobe-cb/retail/internal/app"
	"github.com/kobe-cb/retail/internal/config"
	"github.com/kobe-cb/retail/internal/database"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	cfg.Warn()

	db, err := database.Open(context.Background(), cfg.DB)
	if err != nil {
		log.Fatalf("%v\nMake sure you started postgres on this machine", err)
	}
	defer db.Close()
	fmt.Println("Successfully connected to the database!")

	router := app.New(db, cfg).Router()

	fmt.Printf("Retail API server starting on :%s\n", cfg.AppPort)
	log.Fatal(http.ListenAndServe(":"+cfg.AppPort, router))
}
