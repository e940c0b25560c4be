package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	v1 "github.com/smaitlx1/Nexus-Mod-Manager/internal/api/v1"
)

var activityCmd = &cobra.Command{
	Use:   "activity",
	Short: "Show recent acquisition activity",
	Args:  cobra.NoArgs,
	RunE:  runActivityCmd,
}

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Show recent events",
	Args:  cobra.NoArgs,
	RunE:  runEventsCmd,
}

func init() {
	rootCmd.AddCommand(activityCmd, eventsCmd)
	eventsCmd.Flags().IntP("limit", "l", 20, "Number of events")
}

func runActivityCmd(cmd *cobra.Command, args []string) error {
	act, err := NewClient(serverURL).Activity()
	if err != nil {
		return fmt.Errorf("activity fetch failed: %w", err)
	}

	out := cmd.OutOrStdout()
	if jsonOutput {
		printJSON(out, act)
		return nil
	}
	printActivity(out, act)
	return nil
}

func printActivity(w io.Writer, act *v1.ActivityResponse) {
	if len(act.Items) == 0 {
		fmt.Fprintln(w, "No recent activity")
		return
	}

	fmt.Fprintf(w, "  %-11s %-40s %-24s %s\n", "STATE", "NAME", "PROGRESS", "STARTED")
	fmt.Fprintln(w, "  "+strings.Repeat("-", 90))
	for _, it := range act.Items {
		name := it.Name
		if name == "" {
			name = it.Source
		}
		fmt.Fprintf(w, "  %-11s %-40s %-24s %s\n", it.Status, truncate(name, 40), formatProgress(it.Progress), formatTimeAgo(it.StartedAt))
		if it.Error != "" {
			fmt.Fprintf(w, "              error: %s\n", it.Error)
		}
	}
}

func runEventsCmd(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")
	evs, err := NewClient(serverURL).Events(limit)
	if err != nil {
		return fmt.Errorf("events fetch failed: %w", err)
	}

	out := cmd.OutOrStdout()
	if jsonOutput {
		printJSON(out, evs)
		return nil
	}
	if len(evs.Items) == 0 {
		fmt.Fprintln(out, "No events")
		return nil
	}
	for _, e := range evs.Items {
		fmt.Fprintf(out, "  %-14s %-24s %s\n", formatTimeAgo(e.OccurredAt), e.EventType, e.EntityID)
	}
	return nil
}
