package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/go-kratos/quickstart"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number of quickstart",
		Run: func(cmd *cobra.Command, args []string) {
			version := strings.TrimSpace(quickstart.Version)
			if version == "" {
				version = "(devel)"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "quickstart version %s\n", version)
		},
	}
}
