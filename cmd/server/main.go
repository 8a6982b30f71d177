// Command server runs the lexivon HTTP API.
package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/lexivon/lexivon-backend/internal/app"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx); err != nil {
		log.Fatalf("server: %v", err)
	}
}
