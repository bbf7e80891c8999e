// Package main provides the entry point for cachesim.
// cachesim is a trace-driven set-associative cache simulator.
//
// For the full CLI, use: go run ./cmd/cachesim
package main

import (
	"fmt"
	"os"
)

func main() {
	fmt.Println("cachesim - trace-driven set-associative cache simulator")
	fmt.Println("")
	fmt.Println("Usage: cachesim -s <s> -E <E> -b <b> -t <tracefile>")
	fmt.Println("")
	fmt.Println("Options:")
	fmt.Println("  -s         Number of set index bits")
	fmt.Println("  -E         Number of lines per set")
	fmt.Println("  -b         Number of block offset bits")
	fmt.Println("  -t         Trace file to replay")
	fmt.Println("  -v         Print the outcome of every access")
	fmt.Println("")
	fmt.Println("Run 'go run ./cmd/cachesim' for the full CLI.")

	if len(os.Args) > 1 {
		fmt.Println("\nNote: You provided arguments. Use 'go run ./cmd/cachesim' instead.")
	}
}
