// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Command knownnames converts a hand-kept list of known names into the
// skeleton of a declared names file.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"namecat/internal/declared"
	"namecat/internal/version"
)

var (
	inputFile   = flag.String("file", "", "Known names list (default: stdin)")
	outputFile  = flag.String("output", "", "Declared names file to write (default: stdout)")
	showVersion = flag.Bool("version", false, "Show version information")
)

func main() {
	flag.Parse()
	if *showVersion {
		fmt.Println(version.Info())
		return
	}
	if err := run(*inputFile, *outputFile, os.Stdin, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(inputPath, outputPath string, stdin io.Reader, stdout io.Writer) error {
	in := stdin
	if inputPath != "" {
		file, err := os.Open(inputPath)
		if err != nil {
			return fmt.Errorf("error opening known names: %w", err)
		}
		defer file.Close()
		in = file
	}

	list, err := declared.ParseKnownList(in)
	if err != nil {
		return fmt.Errorf("error reading known names: %w", err)
	}

	if outputPath == "" {
		return list.WriteDeclared(stdout)
	}
	out, err := os.OpenFile(outputPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("error creating output file: %w", err)
	}
	if err := list.WriteDeclared(out); err != nil {
		out.Close()
		return fmt.Errorf("error writing declared names: %w", err)
	}
	return out.Close()
}
