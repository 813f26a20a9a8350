package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/pthm/mailpreview"
	"github.com/pthm/mailpreview/lib/encoding"
)

var headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
var cellStyle = lipgloss.NewStyle().Padding(0, 1)

func (c *cli) newListCmd() *cobra.Command {
	var group string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List previews",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.list(group, asJSON)
		},
	}
	cmd.Flags().StringVarP(&group, "group", "g", "", "only list previews in this group")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the index as JSON")
	return cmd
}

func (c *cli) list(group string, asJSON bool) error {
	reg, err := c.registry()
	if err != nil {
		return err
	}
	snap, err := reg.Get()
	if err != nil {
		return err
	}

	previews := snap.Sorted()
	if group != "" {
		group = mailpreview.NormalizePath(group)
		if !hasGroup(snap, group) {
			return fmt.Errorf("%w: group %q", mailpreview.ErrNotFound, group)
		}
		previews = snap.InGroup(group)
	}

	if asJSON {
		snap.Previews = previews
		enc, err := encoding.NewEncoder(encoding.JSON)
		if err != nil {
			return err
		}
		return enc.Encode(c.out, encoding.NewIndex(snap))
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("PATH", "GROUP", "TITLE", "TAGS").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	for _, p := range previews {
		t.Row(p.Path, p.Group, p.Title(), formatTags(p.Metadata))
	}
	fmt.Fprintln(c.out, t.Render())
	fmt.Fprintf(c.out, "%d previews\n", len(previews))
	return nil
}

func hasGroup(snap mailpreview.Snapshot, path string) bool {
	for _, g := range snap.Groups {
		if g.Path == path {
			return true
		}
	}
	return false
}

func formatTags(d *mailpreview.Details) string {
	if d == nil {
		return ""
	}
	parts := make([]string, 0, len(d.Tags))
	for _, t := range d.Tags {
		parts = append(parts, t.Key+"="+t.Value)
	}
	return strings.Join(parts, ", ")
}
