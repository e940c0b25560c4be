package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	v1 "github.com/smaitlx1/Nexus-Mod-Manager/internal/api/v1"
)

var modsCmd = &cobra.Command{
	Use:   "mods [id]",
	Short: "List installed mods",
	Long: `List the mods in the catalog, or show one mod in detail.

Examples:
  nmm mods                 # List installed mods
  nmm mods --name skyui    # Filter by name
  nmm mods 12              # Show mod #12`,
	Args: cobra.MaximumNArgs(1),
	RunE: runModsCmd,
}

func init() {
	rootCmd.AddCommand(modsCmd)
	modsCmd.Flags().StringP("name", "n", "", "Filter by name")
	modsCmd.Flags().IntP("limit", "l", 50, "Maximum number of mods")
	modsCmd.Flags().Int("offset", 0, "Skip this many mods")
}

func runModsCmd(cmd *cobra.Command, args []string) error {
	client := NewClient(serverURL)
	out := cmd.OutOrStdout()

	if len(args) > 0 {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid mod ID: %s", args[0])
		}
		mod, err := client.Mod(id)
		if err != nil {
			return fmt.Errorf("mod fetch failed: %w", err)
		}
		if jsonOutput {
			printJSON(out, mod)
			return nil
		}
		printMod(out, mod)
		return nil
	}

	name, _ := cmd.Flags().GetString("name")
	limit, _ := cmd.Flags().GetInt("limit")
	offset, _ := cmd.Flags().GetInt("offset")

	mods, err := client.Mods(name, limit, offset)
	if err != nil {
		return fmt.Errorf("mods fetch failed: %w", err)
	}
	if jsonOutput {
		printJSON(out, mods)
		return nil
	}
	printMods(out, mods)
	return nil
}

func printMods(w io.Writer, mods *v1.ListModsResponse) {
	if len(mods.Items) == 0 {
		fmt.Fprintln(w, "No mods installed")
		return
	}

	fmt.Fprintf(w, "Mods (%d of %d):\n\n", len(mods.Items), mods.Total)
	fmt.Fprintf(w, "  %-5s %-36s %-10s %s\n", "ID", "NAME", "VERSION", "FILE")
	fmt.Fprintln(w, "  "+strings.Repeat("-", 78))
	for _, m := range mods.Items {
		name := m.Info.Name
		if name == "" {
			name = "-"
		}
		version := m.Info.Version
		if version == "" {
			version = "-"
		}
		fmt.Fprintf(w, "  %-5d %-36s %-10s %s\n", m.ID, truncate(name, 36), truncate(version, 10), m.FileName)
	}
}

func printMod(w io.Writer, m *v1.ModResponse) {
	fmt.Fprintf(w, "Mod #%d\n", m.ID)
	fmt.Fprintf(w, "  File:       %s\n", m.Path)
	printField(w, "Name", m.Info.Name)
	printField(w, "Version", m.Info.Version)
	printField(w, "Author", m.Info.Author)
	printField(w, "Category", m.Info.Category)
	printField(w, "Website", m.Info.Website)
	fmt.Fprintf(w, "  Installed:  %s\n", formatTimeAgo(m.InstalledAt))
	if m.Info.Description != "" {
		fmt.Fprintf(w, "\n%s\n", m.Info.Description)
	}
}

func printField(w io.Writer, label, value string) {
	if value == "" {
		return
	}
	fmt.Fprintf(w, "  %-11s %s\n", label+":", value)
}
