// Command retail is the interactive retail management console.
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/kobe-cb/retail/internal/app"
	"github.com/kobe-cb/retail/internal/config"
	"github.com/kobe-cb/retail/internal/console"
	"github.com/kobe-cb/retail/internal/database"
)

func main() {
	if len(os.Args) != 4 {
		fmt.Fprintln(os.Stderr, "Usage: retail <dbname> <port> <user>")
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	cfg.DB.Name, cfg.DB.Port, cfg.DB.User = os.Args[1], os.Args[2], os.Args[3]
	cfg.Warn()

	ctx := context.Background()
	fmt.Print("Connecting to database...")
	db, err := database.Open(ctx, cfg.DB)
	if err != nil {
		fmt.Println()
		log.Fatalf("Unable to connect to database: %v\nMake sure you started postgres on this machine", err)
	}
	fmt.Println("Done")

	a := app.New(db, cfg)
	if err := console.New(os.Stdin, os.Stdout, a.ConsoleServices(), a.Radius()).Run(ctx); err != nil {
		log.Printf("[ERROR] %v", err)
	}

	fmt.Print("Disconnecting from database...")
	db.Close()
	fmt.Println("Done\n\nBye !")
}
