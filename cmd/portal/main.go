package main

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/t-sasaki1124/book-review-portal/internal/cli"
)

func main() {
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")

	if err := cli.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
