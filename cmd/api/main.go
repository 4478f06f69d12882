package main

import (
	"context"
	"log"

	"book-catalog/cmd/api/app"
	"book-catalog/cmd/api/server"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("application exited with error: %v", err)
	}
}

func run() error {
	a, err := app.New()
	if err != nil {
		return err
	}

	ctx, stop := server.WithSignal(context.Background())
	defer stop()

	return a.Run(ctx)
}
