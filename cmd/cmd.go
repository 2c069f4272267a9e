// Package cmd the crumb command line
package cmd

import (
	"os"
)

// Execute main command
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
