package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/robertgauld/cmri/internal/config"
)

type validateConfigFlags struct {
	config     string
	autoCreate bool
}

func newValidateConfigCmd() *cobra.Command {
	flags := &validateConfigFlags{}

	cmd := &cobra.Command{
		Use:   "validate-config",
		Short: "Validate a CMRInet node roster configuration",
		Long: `Load a YAML node roster (connection + nodes) and check it for
errors: a recognized connection kind with the fields it needs, at
least one node, node addresses in 0-127 with no duplicates, and a
recognized sort for every node.`,
		Example: `  cmrictl validate-config --config roster.yaml
  cmrictl validate-config --config roster.yaml --create`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(flags.config, flags.autoCreate)
			if err != nil {
				fmt.Fprintf(os.Stderr, "invalid: %v\n", err)
				os.Exit(2)
			}
			fmt.Printf("OK: %s (%s), %d node(s)\n", flags.config, cfg.Connection.Kind, len(cfg.Nodes))
			for _, n := range cfg.Nodes {
				fmt.Printf("  node %3d  %-8s  %s\n", n.NodeAddress, n.Sort, n.Name)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&flags.config, "config", "roster.yaml", "path to the node roster YAML file")
	cmd.Flags().BoolVar(&flags.autoCreate, "create", false, "write a default roster if the file doesn't exist")

	return cmd
}
