package main

import (
	"fmt"
	"os"

	"github.com/arthur-debert/modlink/cmd/modlink"
	"github.com/arthur-debert/modlink/pkg/errors"
	"github.com/arthur-debert/modlink/pkg/ui/styles"
)

func main() {
	rootCmd := modlink.NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		if !modlink.IsReported(err) {
			fmt.Fprintln(os.Stderr, styles.Render("Error", "Error: "+errors.Message(err)))
		}
		os.Exit(1)
	}
}
