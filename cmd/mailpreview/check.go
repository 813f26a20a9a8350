package main

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/pthm/mailpreview"
)

var (
	okStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	failStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
)

func (c *cli) newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Evaluate every preview and read every attachment",
		Long: `Check fully evaluates each preview: details, artifact and attachments.
It exits non-zero when any preview fails.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.check()
		},
	}
}

func (c *cli) check() error {
	reg, err := c.registry()
	if err != nil {
		return err
	}

	results := mailpreview.Check(reg)
	failed := 0
	for _, r := range results {
		if r.OK() {
			fmt.Fprintf(c.out, "%s %s (%d attachments)\n", okStyle.Render("ok  "), r.Path, r.Attachments)
			continue
		}
		failed++
		fmt.Fprintf(c.out, "%s %s: %v\n", failStyle.Render("FAIL"), r.Path, r.Err)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d previews failed", failed, len(results))
	}
	fmt.Fprintf(c.out, "%d previews ok\n", len(results))
	return nil
}
