// Package main provides the cldrsync CLI.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/mesh-intelligence/cldrsync/internal/extract"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCodeFor(err))
	}
}

// exitCodeFor distinguishes pipeline failures (some tables not written) from
// plain usage errors.
func exitCodeFor(err error) int {
	var routineErr *extract.RoutineError
	if errors.As(err, &routineErr) {
		return exitSysError
	}
	return exitUserError
}
