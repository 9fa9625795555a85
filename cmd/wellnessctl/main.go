package main

// Run the consolidator and check-in rules offline:
//   go run ./cmd/wellnessctl consolidate --file batches.json
//   go run ./cmd/wellnessctl checkin --file answers.json --date 2026-01-05

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
