package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pthm/mailpreview/internal/config"
)

func (c *cli) newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:         "init [path]",
		Short:       "Write a default config file",
		Args:        cobra.MaximumNArgs(1),
		Annotations: map[string]string{"noconfig": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			path := config.DefaultFile
			if len(args) == 1 {
				path = args[0]
			}
			if err := config.WriteDefault(path); err != nil {
				return err
			}
			fmt.Fprintf(c.out, "wrote %s\n", path)
			return nil
		},
	}
}
