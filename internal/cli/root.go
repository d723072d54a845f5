package cli

import (
	"bufio"
	"errors"
	"fmt"
	"strings"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/tasksphere/tasksphere/internal/api"
	"github.com/tasksphere/tasksphere/internal/config"
	"github.com/tasksphere/tasksphere/internal/session"
	"github.com/tasksphere/tasksphere/internal/store"
	"github.com/tasksphere/tasksphere/internal/ui"
)

// Version information set via ldflags
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// App carries the wired-up client state shared by every command
type App struct {
	ConfigPath string
	APIURL     string

	settings *store.Store
	client   *api.Client
	session  *session.Store
}

// setup loads config, opens the local store, and restores any saved session
func (a *App) setup() error {
	path := a.ConfigPath
	if path == "" {
		var err error
		path, err = config.DefaultConfigPath()
		if err != nil {
			return err
		}
	}

	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	if a.APIURL != "" {
		cfg.APIURL = a.APIURL
	}

	if cfg.DBPath != "" {
		a.settings, err = store.Open(cfg.DBPath)
	} else {
		a.settings, err = store.New()
	}
	if err != nil {
		return fmt.Errorf("open local store: %w", err)
	}

	a.client = api.New(cfg.APIURL, a.settings)
	a.session = session.NewStore(a.settings, a.client)
	if err := a.session.Restore(); err != nil {
		return fmt.Errorf("restore session: %w", err)
	}
	return nil
}

func (a *App) close() {
	if a.settings != nil {
		a.settings.Close()
	}
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "tasksphere",
		Short:        "TaskSphere terminal client",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Start the interactive TUI
  tasksphere

  # Scriptable session commands
  tasksphere login --email you@example.com
  tasksphere whoami
  tasksphere logout
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive TUI.
			if len(args) > 0 {
				return cmd.Help()
			}
			return runTUI(app)
		},
	}

	cmd.PersistentFlags().StringVar(&app.ConfigPath, "config", "", "path to the config file")
	cmd.PersistentFlags().StringVar(&app.APIURL, "api", "", "backend base URL (overrides config)")

	cmd.AddCommand(
		newLoginCmd(app),
		newLogoutCmd(app),
		newWhoamiCmd(app),
		newVersionCmd(),
	)

	return cmd
}

func runTUI(app *App) error {
	if err := app.setup(); err != nil {
		return err
	}
	defer app.close()

	p := tea.NewProgram(ui.NewApp(app.settings, app.client, app.session), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func newLoginCmd(app *App) *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and store the session locally",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.setup(); err != nil {
				return err
			}
			defer app.close()

			if email == "" {
				fmt.Fprint(cmd.OutOrStdout(), "Email: ")
				reader := bufio.NewReader(cmd.InOrStdin())
				line, err := reader.ReadString('\n')
				if err != nil {
					return err
				}
				email = strings.TrimSpace(line)
			}
			if password == "" {
				fmt.Fprint(cmd.OutOrStdout(), "Password: ")
				raw, err := term.ReadPassword(int(syscall.Stdin))
				fmt.Fprintln(cmd.OutOrStdout())
				if err != nil {
					return err
				}
				password = string(raw)
			}

			if err := app.session.Login(cmd.Context(), email, password); err != nil {
				return err
			}
			user := app.session.CurrentUser()
			fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s <%s>\n", user.Name, user.Email)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password (prompted when omitted)")

	return cmd
}

func newLogoutCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Clear the stored session",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.setup(); err != nil {
				return err
			}
			defer app.close()

			app.session.Logout(cmd.Context())
			fmt.Fprintln(cmd.OutOrStdout(), "Signed out")
			return nil
		},
	}
}

func newWhoamiCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Print the signed-in user",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.setup(); err != nil {
				return err
			}
			defer app.close()

			user := app.session.CurrentUser()
			if user == nil {
				return errors.New("not signed in")
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s <%s>\n", user.Name, user.Email)
			return nil
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "tasksphere %s (commit: %s, built: %s)\n", Version, Commit, Date)
		},
	}
}
