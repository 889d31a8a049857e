// Package main is the entry point for the wtametrics CLI tool, which loads a
// WTA match dataset and prints descriptive statistics, head-to-head records
// and player profiles.
package main

import "github.com/pable/go-wta-metrics/cmd"

func main() {
	cmd.Execute()
}
