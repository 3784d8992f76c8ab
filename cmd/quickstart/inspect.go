package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/go-kratos/quickstart"
)

func newInspectCmd() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Print the graph topology",
		Long:  `Builds the graph and prints its nodes and edges as a Mermaid diagram (graph TD), JSON or YAML.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			executor, err := quickstart.Build()
			if err != nil {
				return err
			}
			topology := executor.Topology()
			var out []byte
			switch format {
			case "mermaid":
				out = []byte(topology.Mermaid())
			case "json":
				out, err = topology.JSON()
				out = append(out, '\n')
			case "yaml":
				out, err = topology.YAML()
			default:
				return fmt.Errorf("unknown format %q (want mermaid, json or yaml)", format)
			}
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "mermaid", "output format: mermaid, json, yaml")
	return cmd
}
