package main

import (
	"fmt"
	"os"

	"github.com/aidots/aidots/pkg/style"
)

func main() {
	rootCmd := NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", style.Render(style.Warning, "Error:"), err)
		os.Exit(1)
	}
}
