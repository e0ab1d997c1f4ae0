package main

import (
	"os"

	"propsort/internal/logging"
)

func main() {
	code := 0
	if err := rootCmd.Execute(); err != nil {
		code = 2
	} else {
		code = exitCode
	}
	logging.Cleanup()
	os.Exit(code)
}
