package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra/doc"

	"github.com/arthur-debert/modlink/cmd/modlink"
	"github.com/arthur-debert/modlink/internal/version"
)

func main() {
	rootCmd := modlink.NewRootCmd()

	header := &doc.GenManHeader{
		Title:   "MODLINK",
		Section: "1",
		Source:  "modlink " + version.Version,
		Manual:  "modlink manual",
	}

	if err := doc.GenMan(rootCmd, header, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error generating man page: %v\n", err)
		os.Exit(1)
	}
}
