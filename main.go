package main

import (
	"os"

	"github.com/abhisek/quizai/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
