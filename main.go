package main

import (
	"os"

	"github.com/lexziconAI/eco-dairy-bot/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
