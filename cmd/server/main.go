package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"
	"github.com/solvexa/authgate/internal/server"
	"github.com/solvexa/authgate/internal/server/config"
)

func main() {

	// A missing .env file is fine; the environment still applies.
	_ = godotenv.Load()

	ctx := context.Background()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("%v", err)
	}

	app, err := server.NewApp(ctx, cfg)
	if err != nil {
		log.Fatalf("%v", err)
	}

	app.Run(ctx)

}
