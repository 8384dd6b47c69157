// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/confcache/lib/statefile"
	"github.com/bureau-foundation/confcache/lib/version"
)

func main() {
	os.Exit(run())
}

func run() int {
	if len(os.Args) > 1 && os.Args[1] == "--version" {
		fmt.Printf("confcache-verify %s\n", version.Info())
		return 0
	}

	flagSet := pflag.NewFlagSet("confcache-verify", pflag.ContinueOnError)
	filePath := flagSet.String("file", "", "path to the state file to verify")
	if err := flagSet.Parse(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 2
	}
	if *filePath == "" {
		fmt.Fprintf(os.Stderr, "error: --file is required\n")
		return 2
	}

	file, err := os.Open(*filePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	defer file.Close()

	info, err := statefile.Inspect(file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %s: %v\n", *filePath, err)
		return 1
	}

	fmt.Printf("version:      %d\n", info.Version)
	fmt.Printf("compression:  %s\n", info.Compression)
	fmt.Printf("payload:      %d bytes (%d compressed)\n", info.UncompressedSize, info.CompressedSize)
	fmt.Printf("checksum:     ok\n")
	return 0
}
