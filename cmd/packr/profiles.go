// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newProfilesCommand(app *App) *cobra.Command {
	profilesCmd := &cobra.Command{
		Use:   "profiles",
		Short: "Inspect runtime minimization profiles",
		Long: `Inspect runtime minimization profiles.

A profile is a plain text file listing one path per line, relative to the
output directory. The --minimize flag accepts either a path to such a file
or the name of a bundled profile.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	profilesCmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List bundled profiles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range app.Profiles.Bundled() {
				fmt.Fprintln(app.stdout, name)
			}
			return nil
		},
	})

	profilesCmd.AddCommand(&cobra.Command{
		Use:   "show <profile>",
		Short: "Print the entries a profile resolves to",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return showProfile(app, args[0])
		},
	})

	return profilesCmd
}

func showProfile(app *App, identifier string) error {
	entries, err := app.Profiles.Load(identifier)
	if err != nil {
		return err
	}

	count := 0
	for _, entry := range entries {
		if entry = strings.TrimSpace(entry); entry != "" {
			fmt.Fprintln(app.stdout, entry)
			count++
		}
	}
	if count == 0 {
		fmt.Fprintf(app.stderr, "%s profile %q resolves to no entries\n", WarningStyle.Render("Warning:"), identifier)
	}
	return nil
}
