package main

import (
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	v1 "github.com/smaitlx1/Nexus-Mod-Manager/internal/api/v1"
	"github.com/smaitlx1/Nexus-Mod-Manager/internal/modinfo"
)

var getCmd = &cobra.Command{
	Use:   "get <source>",
	Short: "Queue a mod acquisition",
	Long: `Queue the acquisition of a mod file.

The source is an nxm:// link from the repository website, an http(s)
URL or a local file path. Requesting a source that is already queued
returns the existing acquisition.

Examples:
  nmm get "nxm://skyrimspecialedition/mods/12604/files/35407"
  nmm get https://example.com/SkyUI.zip --name SkyUI
  nmm get ./Downloads/SkyUI.zip`,
	Args: cobra.ExactArgs(1),
	RunE: runGetCmd,
}

var queueCmd = &cobra.Command{
	Use:   "queue",
	Short: "Show tracked acquisitions",
	Args:  cobra.NoArgs,
	RunE:  runQueueCmd,
}

var pauseCmd = &cobra.Command{
	Use:   "pause <source>",
	Short: "Pause a running acquisition",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSourceAction(cmd, args[0], "pause", NewClient(serverURL).Pause)
	},
}

var resumeCmd = &cobra.Command{
	Use:   "resume <source>",
	Short: "Resume a paused or incomplete acquisition",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSourceAction(cmd, args[0], "resume", NewClient(serverURL).Resume)
	},
}

var cancelCmd = &cobra.Command{
	Use:   "cancel <source>",
	Short: "Cancel an acquisition",
	Args:  cobra.ExactArgs(1),
	RunE:  runCancelCmd,
}

func init() {
	rootCmd.AddCommand(getCmd, queueCmd, pauseCmd, resumeCmd, cancelCmd)
	getCmd.Flags().String("name", "", "Mod name")
	getCmd.Flags().String("mod-version", "", "Mod version")
	getCmd.Flags().String("author", "", "Mod author")
	getCmd.Flags().String("category", "", "Mod category")
}

// sourceArg turns a local path into a file:// URI and leaves URIs alone.
func sourceArg(arg string) (string, error) {
	if strings.Contains(arg, "://") {
		return arg, nil
	}
	abs, err := filepath.Abs(arg)
	if err != nil {
		return "", fmt.Errorf("resolve path: %w", err)
	}
	if _, err := os.Stat(abs); err != nil {
		return "", fmt.Errorf("source %s: %w", arg, err)
	}
	return (&url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}).String(), nil
}

func runGetCmd(cmd *cobra.Command, args []string) error {
	source, err := sourceArg(args[0])
	if err != nil {
		return err
	}

	info := &modinfo.Info{}
	info.Name, _ = cmd.Flags().GetString("name")
	info.Version, _ = cmd.Flags().GetString("mod-version")
	info.Author, _ = cmd.Flags().GetString("author")
	info.Category, _ = cmd.Flags().GetString("category")

	resp, err := NewClient(serverURL).Request(source, info)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}

	out := cmd.OutOrStdout()
	if jsonOutput {
		printJSON(out, resp)
		return nil
	}
	if resp.Created {
		fmt.Fprintf(out, "Queued %s\n", resp.Source)
	} else {
		fmt.Fprintf(out, "Already queued %s (%s)\n", resp.Source, resp.Status)
	}
	fmt.Fprintf(out, "  Task: %s\n", resp.TaskID)
	return nil
}

func runQueueCmd(cmd *cobra.Command, args []string) error {
	acq, err := NewClient(serverURL).Acquisitions()
	if err != nil {
		return fmt.Errorf("queue fetch failed: %w", err)
	}

	out := cmd.OutOrStdout()
	if jsonOutput {
		printJSON(out, acq)
		return nil
	}
	printQueue(out, acq)
	return nil
}

func printQueue(w io.Writer, acq *v1.ListAcquisitionsResponse) {
	if len(acq.Items) == 0 {
		fmt.Fprintln(w, "No active acquisitions")
		return
	}

	fmt.Fprintf(w, "Acquisitions (%d):\n\n", acq.Total)
	fmt.Fprintf(w, "  %-11s %-50s %s\n", "STATE", "SOURCE", "PROGRESS")
	fmt.Fprintln(w, "  "+strings.Repeat("-", 78))
	for _, a := range acq.Items {
		name := a.Source
		if a.Info != nil && a.Info.Name != "" {
			name = a.Info.Name
		}
		fmt.Fprintf(w, "  %-11s %-50s %s\n", a.Status, truncate(name, 50), formatProgress(progressOf(a)))
	}
}

func runSourceAction(cmd *cobra.Command, arg, action string, op func(string) (*v1.AcquisitionResponse, error)) error {
	source, err := sourceArg(arg)
	if err != nil {
		return err
	}
	resp, err := op(source)
	if err != nil {
		return fmt.Errorf("%s failed: %w", action, err)
	}

	out := cmd.OutOrStdout()
	if jsonOutput {
		printJSON(out, resp)
		return nil
	}
	if resp == nil {
		fmt.Fprintf(out, "%s: acquisition already finished\n", source)
		return nil
	}
	fmt.Fprintf(out, "%s: %s\n", resp.Source, resp.Status)
	return nil
}

func runCancelCmd(cmd *cobra.Command, args []string) error {
	source, err := sourceArg(args[0])
	if err != nil {
		return err
	}
	if err := NewClient(serverURL).Cancel(source); err != nil {
		return fmt.Errorf("cancel failed: %w", err)
	}
	if !jsonOutput {
		fmt.Fprintf(cmd.OutOrStdout(), "Cancelled %s\n", source)
	}
	return nil
}
