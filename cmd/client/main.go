package main

import (
	"context"
	"log"

	"github.com/rashid4567/recruitiq/internal/client/cli"
	"github.com/rashid4567/recruitiq/internal/client/config"
)

func main() {
	ctx := context.Background()
	cfg := config.LoadConfig()

	app, err := cli.NewApp(cfg)
	if err != nil {
		log.Printf("%v", err)
		return
	}

	app.Run(ctx)
}
