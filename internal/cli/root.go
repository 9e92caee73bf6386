package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"bazaar-cli/internal/api"
	"bazaar-cli/internal/format"
	"bazaar-cli/internal/prefs"
	"bazaar-cli/internal/tui"

	"github.com/spf13/cobra"
)

type App struct {
	BaseURL    string
	Token      string
	PrettyJSON bool
	Format     string
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "bazaar",
		Short:        "Bazaar marketplace admin CLI + TUI",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Start the interactive TUI
  bazaar

  # Scriptable commands
  bazaar products list --status published --search valve
  bazaar inquiries bulk markAnswered --id inq-1 --id inq-2
  bazaar categories create --field name=Valves
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive TUI.
			if cmd.HasSubCommands() && len(args) == 0 {
				return runTUI(app)
			}
			return cmd.Help()
		},
	}

	cmd.PersistentFlags().StringVar(&app.BaseURL, "base-url", envOr("BAZAAR_BASE_URL", "http://localhost:8080/api/admin"), "Admin API base URL")
	cmd.PersistentFlags().StringVar(&app.Token, "token", envOr("BAZAAR_TOKEN", ""), "Bearer token for the admin API")
	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print JSON output")
	cmd.PersistentFlags().StringVar(&app.Format, "format", envOr("BAZAAR_FORMAT", "json"), "Output format (json|table)")

	cmd.AddCommand(newCollectionCmd(app, collectionCategories))
	cmd.AddCommand(newCollectionCmd(app, collectionProducts))
	cmd.AddCommand(newCollectionCmd(app, collectionInquiries))
	cmd.AddCommand(newVersionCmd(app))

	return cmd
}

func runTUI(app *App) error {
	client, err := app.client()
	if err != nil {
		return err
	}
	return tui.Run(client, prefs.Store{Dir: os.Getenv("BAZAAR_CONFIG_DIR")})
}

func (app *App) client() (*api.Client, error) {
	if strings.TrimSpace(app.BaseURL) == "" {
		return nil, errors.New("no API base URL; pass --base-url or set BAZAAR_BASE_URL")
	}
	return api.New(app.BaseURL, app.Token), nil
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func writeOut(cmd *cobra.Command, app *App, v any) error {
	return format.Write(cmd.OutOrStdout(), v, app.Format, app.PrettyJSON)
}

// parseFieldFlags turns repeated --field name=value flags into a payload map.
func parseFieldFlags(raw []string) (map[string]string, error) {
	out := make(map[string]string, len(raw))
	for _, kv := range raw {
		name, value, ok := strings.Cut(kv, "=")
		if !ok || strings.TrimSpace(name) == "" {
			return nil, fmt.Errorf("invalid --field %q (want name=value)", kv)
		}
		out[strings.TrimSpace(name)] = value
	}
	return out, nil
}
