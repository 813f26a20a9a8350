package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pthm/mailpreview/export"
	"github.com/pthm/mailpreview/lib/encoding"
)

func (c *cli) newExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write previews to disk as a static site",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.export(cmd.Context())
		},
	}
	cmd.Flags().StringP("out", "o", "", "output directory (default from config: previews-site)")
	cmd.Flags().String("index-format", "", "index file format: json or msgpack")
	_ = c.v.BindPFlag("out_dir", cmd.Flags().Lookup("out"))
	_ = c.v.BindPFlag("index_format", cmd.Flags().Lookup("index-format"))
	return cmd
}

func (c *cli) export(ctx context.Context) error {
	reg, err := c.registry()
	if err != nil {
		return err
	}
	format, err := encoding.ParseFormat(c.cfg.IndexFormat)
	if err != nil {
		return err
	}

	report, err := export.Run(ctx, reg, c.cfg.OutDir,
		export.WithTitle(c.cfg.Title),
		export.WithLogger(c.logger),
		export.WithIndexFormat(format),
	)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "exported %d previews (%d attachments, %d files) to %s\n",
		report.Previews, report.Attachments, len(report.Files), report.Dir)
	return nil
}
