package main

import (
	"fmt"
	"log"

	"github.com/andrewchen30/at-demo-pages-sub000/internal/config"
	"github.com/andrewchen30/at-demo-pages-sub000/internal/httpapi"
	"go.uber.org/zap"
)

func main() {
	ctx, err := config.InitContext()
	if err != nil {
		log.Fatalf("Failed to initialize context: %v", err)
	}

	defer func() {
		if err := ctx.Logger.Sync(); err != nil {
			fmt.Printf("Failed to sync logger: %v\n", err)
		}
	}()

	service := httpapi.NewHTTPService(ctx)

	addr := config.Port()
	ctx.Logger.Info("starting server", zap.String("addr", addr))
	if err := service.Engine().Run(addr); err != nil {
		ctx.Logger.Fatal("Failed to start the server", zap.Error(err))
	}
}
