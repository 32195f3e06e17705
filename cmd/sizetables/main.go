package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/NERSC/lustre-design-analysis/app"
)

func main() {
	verbose := flag.Bool("v", false, "Print progress for each inode type")
	fast := flag.Bool("fast", false, "Disable journaling and synchronous writes (faster, unsafe on crash)")
	flag.Parse()

	if flag.NArg() != 2 {
		fmt.Fprintf(os.Stderr, "Usage: %s [-v] [-fast] <input.db> <output.db>\n", os.Args[0])
		os.Exit(1)
	}
	inputPath := flag.Arg(0)
	outputPath := flag.Arg(1)

	if _, err := os.Stat(outputPath); err == nil {
		fmt.Fprintf(os.Stderr, "Error: output file %s already exists\n", outputPath)
		os.Exit(1)
	}

	if err := app.MakeSizeTables(inputPath, outputPath, *fast, *verbose); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
