package main

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"diseasemcp/internal/server"
	"diseasemcp/internal/tracker"
)

var (
	labelStyle = lipgloss.NewStyle().Bold(true).Width(14)
	valueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#7dd3fc"))
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#f87171"))
	titleStyle = lipgloss.NewStyle().Bold(true).Underline(true).MarginBottom(1)
)

// statusCmd shows catalog and storage state
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show catalog size, submission count and next id",
	Args:  cobra.NoArgs,
	RunE:  showStatus,
}

type statusReport struct {
	CatalogPath  string
	Catalog      tracker.Stats
	CatalogErr   error
	DataDir      string
	Submissions  int
	NextID       string
	Allocator    string
	Instructions string
}

func showStatus(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	rt, err := server.Build(ctx, cfg)
	if err != nil {
		return err
	}
	defer rt.Close()

	rep := statusReport{
		CatalogPath:  cfg.Catalog.Path,
		DataDir:      rt.Store.Dir(),
		Allocator:    cfg.Data.Allocator,
		Instructions: cfg.Instructions.Path,
	}
	rep.Catalog = rt.Tracker.Stats()
	if rep.Catalog.Catalog == 0 {
		// Surface why; Build tolerates a failed load.
		rep.CatalogErr = rt.Tracker.Load(ctx)
	}

	if rep.Submissions, err = rt.Store.Count(); err != nil {
		return err
	}
	id, err := rt.Store.PeekID(ctx)
	if err != nil {
		return err
	}
	rep.NextID = string(id)

	renderStatus(cmd.OutOrStdout(), rep)
	return nil
}

func renderStatus(w io.Writer, rep statusReport) {
	row := func(label, value string) {
		fmt.Fprintln(w, lipgloss.JoinHorizontal(lipgloss.Top, labelStyle.Render(label), valueStyle.Render(value)))
	}

	fmt.Fprintln(w, titleStyle.Render("diseasemcp status"))

	catalog := fmt.Sprintf("%d diseases (%s)", rep.Catalog.Catalog, rep.CatalogPath)
	if rep.CatalogErr != nil {
		catalog = warnStyle.Render(rep.CatalogErr.Error())
	}
	row("Catalog", catalog)
	row("Submissions", fmt.Sprintf("%d in %s", rep.Submissions, rep.DataDir))
	row("Next ID", rep.NextID)
	row("Allocator", rep.Allocator)

	instr := rep.Instructions
	if instr == "" {
		instr = warnStyle.Render("not configured")
	}
	row("Instructions", instr)
}
