package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/platefeed/platefeed-backend/internal/app"
)

func main() {
	// Missing .env is fine; the runtime may set everything directly.
	_ = godotenv.Load()

	application, err := app.New()
	if err != nil {
		fmt.Printf("failed to initialize app: %v\n", err)
		os.Exit(1)
	}
	defer application.Close()

	addr := ":" + application.Cfg.AppPort
	application.Log.Info("Server listening", "addr", addr)
	if err := application.Run(addr); err != nil {
		fmt.Printf("server exited: %v\n", err)
		os.Exit(1)
	}
}
