package main

import (
	"os"

	"github.com/Arnur12345/quizmaker-task/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
