package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"diseasemcp/internal/server"
)

// callCmd invokes one tool in-process
var callCmd = &cobra.Command{
	Use:   "call [tool] [json-arguments]",
	Short: "Invoke a tool once and print its result",
	Long: `Dispatches a single tools/call through the server without a transport.
Tracker state lives only for this invocation, so get_next_disease always
returns the first catalog entry here.

Examples:
  diseasemcp call get_instructions
  diseasemcp call submit_description '{"disease":"Dengue","description_bn":"..."}'`,
	Args: cobra.RangeArgs(1, 2),
	RunE: callTool,
}

func callTool(cmd *cobra.Command, args []string) error {
	var toolArgs map[string]any
	if len(args) == 2 {
		if err := json.Unmarshal([]byte(args[1]), &toolArgs); err != nil {
			return fmt.Errorf("arguments must be a JSON object: %w", err)
		}
	}

	rt, err := server.Build(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer rt.Close()

	res, err := server.Call(cmd.Context(), rt.Server, args[0], toolArgs)
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), res.Text())
	return nil
}
