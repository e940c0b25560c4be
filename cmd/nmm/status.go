package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	v1 "github.com/smaitlx1/Nexus-Mod-Manager/internal/api/v1"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show server status",
	Args:  cobra.NoArgs,
	RunE:  runStatusCmd,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatusCmd(cmd *cobra.Command, args []string) error {
	status, err := NewClient(serverURL).Status()
	if err != nil {
		return fmt.Errorf("status check failed: %w", err)
	}

	out := cmd.OutOrStdout()
	if jsonOutput {
		printJSON(out, status)
		return nil
	}
	printStatus(out, serverURL, status)
	return nil
}

func printStatus(w io.Writer, server string, s *v1.StatusResponse) {
	fmt.Fprintf(w, "Server:     %s (%s)\n", server, s.Status)
	fmt.Fprintf(w, "Version:    %s\n", s.Version)
	fmt.Fprintf(w, "Game:       %s\n", s.GameMode)
	fmt.Fprintf(w, "Mods dir:   %s\n", s.ModsDir)
	fmt.Fprintf(w, "Active:     %d\n", s.Active)
	fmt.Fprintf(w, "Installed:  %d\n", s.Mods)
	fmt.Fprintf(w, "Pending:    %d\n", s.Pending)
}
