package main

import (
	"fmt"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"diseasemcp/internal/instructions"
)

var instructionsRaw bool

// instructionsCmd prints the document get_instructions serves
var instructionsCmd = &cobra.Command{
	Use:   "instructions",
	Short: "Print the instructions document",
	Long: `Prints the instructions file exactly as get_instructions would return it.
The file is rendered as Markdown for the terminal unless --raw is given.`,
	Args: cobra.NoArgs,
	RunE: showInstructions,
}

func init() {
	instructionsCmd.Flags().BoolVar(&instructionsRaw, "raw", false, "Print the file without Markdown rendering")
}

func showInstructions(cmd *cobra.Command, args []string) error {
	text, err := instructions.NewSource(cfg.Instructions.Path).Read(cmd.Context())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if instructionsRaw {
		_, err := fmt.Fprint(out, text)
		return err
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(80),
	)
	if err != nil {
		return fmt.Errorf("failed to create markdown renderer: %w", err)
	}
	rendered, err := renderer.Render(text)
	if err != nil {
		return fmt.Errorf("failed to render instructions: %w", err)
	}
	_, err = fmt.Fprint(out, rendered)
	return err
}
