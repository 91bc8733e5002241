package main

import (
	"context"
	"log"

	"github.com/Apurer/go-pos-api-server/internal/app/api"
)

func main() {
	if err := api.Run(context.Background()); err != nil {
		log.Fatalf("api exited: %v", err)
	}
}
