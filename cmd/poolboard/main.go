package main

import (
	"fmt"
	"os"

	"poolboard/internal/logger"
)

func main() {
	exitCode := 0
	if err := Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		exitCode = 1
	}

	logger.Sync()
	if exitCode != 0 {
		os.Exit(exitCode)
	}
}
