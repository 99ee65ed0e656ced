package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/gooosetavo/dod-prohibited/internal/adapters/driving/cli"
	"github.com/gooosetavo/dod-prohibited/internal/core/domain"
)

func main() {
	if err := cli.Execute(); err != nil {
		// check uses this sentinel to flag an unchanged list; it is an
		// exit-code signal, not a failure to report.
		if errors.Is(err, domain.ErrNoChanges) {
			os.Exit(1)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}
}
