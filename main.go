package main

import (
	"log"

	"github.com/joho/godotenv"

	"imghost/cmd"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file loaded:", err)
	}

	cmd.Execute()
}
