package main

import (
	"context"
	"log"

	"github.com/MrSnakeDoc/marks/internal/cli"
)

func main() {
	if err := cli.Execute(context.Background()); err != nil {
		log.Fatalf("❌ marks failed: %v", err)
	}
}
