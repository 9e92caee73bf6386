package cli

import (
	"runtime/debug"

	"github.com/spf13/cobra"
)

// version is stamped by the release build via -ldflags; dev builds fall back
// to module build info.
var version = ""

func newVersionCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the bazaar version",
		RunE: func(cmd *cobra.Command, args []string) error {
			v := version
			if v == "" {
				v = "devel"
				if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
					v = info.Main.Version
				}
			}
			return writeOut(cmd, app, map[string]string{"version": v})
		},
	}
}
