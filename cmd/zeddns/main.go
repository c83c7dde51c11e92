package main

import (
	"os"

	"github.com/joho/godotenv"
)

func main() {
	// credentials may live in a local .env file
	_ = godotenv.Load()
	os.Exit(execute(newRootCmd()))
}
