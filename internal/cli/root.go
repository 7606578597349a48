package cli

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/octocheck/octocheck/internal/config"
)

var version = "dev"

// SetVersion sets the version reported by the version subcommand.
func SetVersion(v string) {
	version = v
}

const envPrefix = "OCTOCHECK"

var rootCmd = newRootCmd()

func Execute() error {
	rootCmd.Version = version
	return rootCmd.Execute()
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "octocheck",
		Short:         "Forward linter and test reports to GitHub checks",
		SilenceUsage:  true,
		SilenceErrors: true,
		Long: `octocheck reads the output of linters, build tools and test runners,
normalizes the findings, and submits them as one GitHub check run with
line-level annotations on the commit under review.

Report files are matched per grammar (--govet, --pep8, --cargo, --xunit);
the pattern "-" reads standard input. Settings come from flags, OCTOCHECK_*
environment variables, a .env file, or a YAML config file.`,
		Example: `  # Submit a pep8 report for the current HEAD
  octocheck --owner acme --repo api --pep8 pep8.txt

  # Mix grammars, read cargo diagnostics from stdin
  cargo build --message-format json | octocheck --owner acme --repo api --cargo - --xunit 'reports/**/*.xml'

  # Inspect the would-be report without submitting
  octocheck --pep8 pep8.txt --dry-run`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			godotenv.Load() // nolint: errcheck

			level, err := cmd.Flags().GetString("log-level")
			if err != nil {
				return err
			}
			switch level {
			case "debug":
				initLogger(slog.LevelDebug)
			case "info":
				initLogger(slog.LevelInfo)
			case "warn":
				initLogger(slog.LevelWarn)
			case "error":
				initLogger(slog.LevelError)
			default:
				initLogger(slog.LevelInfo)
			}

			initializeConfig(cmd)
			return nil
		},
		RunE: runCheck,
	}

	root.AddCommand(newVersionCmd())
	root.AddCommand(newGrammarsCmd())
	root.AddCommand(newConfigCmd())

	root.PersistentFlags().String("log-level", "info", "Log level: debug, info, warn or error")

	root.Flags().String("owner", "", "Owner of the GitHub repository")
	root.Flags().String("repo", "", "Name of the GitHub repository")
	root.Flags().String("commit", "", "Full SHA of the commit to report on (default: HEAD of the repository in the working directory)")
	root.Flags().String("token", "", "GitHub API token (usually set via OCTOCHECK_TOKEN)")
	root.Flags().String("api-url", "", "GitHub API base URL, for GitHub Enterprise instances")
	root.Flags().String("check-name", config.DefaultCheckName, "Name of the submitted check run")
	root.Flags().String("title", config.DefaultTitle, "Title of the check run output")
	root.Flags().String("details-url", "", "Details URL attached to the check run")
	root.Flags().String("add-prefix", "", "Prefix prepended to annotation paths")
	root.Flags().String("del-prefix", "", "Prefix stripped from annotation paths when present")
	root.Flags().StringArray("govet", nil, "Glob pattern of go vet reports, repeatable ('-' reads stdin)")
	root.Flags().StringArray("pep8", nil, "Glob pattern of pep8 reports, repeatable ('-' reads stdin)")
	root.Flags().StringArray("cargo", nil, "Glob pattern of cargo JSON reports, repeatable ('-' reads stdin)")
	root.Flags().StringArray("xunit", nil, "Glob pattern of xUnit XML reports, repeatable ('-' reads stdin)")
	root.Flags().String("config", "", "Path to a YAML config file (default: ./octocheck.yaml, then ~/.config/octocheck/config.yaml)")
	root.Flags().Bool("dry-run", false, "Parse and print the report without submitting it")
	root.Flags().Bool("fail-on-failure", false, "Exit non-zero when the check conclusion is failure")
	root.Flags().String("format", "table", "Output format: table or json")

	return root
}

// initLogger installs the global slog handler. tint keeps the output
// readable on a terminal.
func initLogger(level slog.Leveler) {
	w := os.Stderr

	slog.SetDefault(slog.New(
		tint.NewHandler(w, &tint.Options{
			Level:      level,
			TimeFormat: time.Kitchen,
			AddSource:  true,
		}),
	))
}

// initializeConfig makes every flag settable through an OCTOCHECK_*
// environment variable. Each execution reads the environment through its
// own viper instance.
func initializeConfig(cmd *cobra.Command) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	// Environment variables cannot carry dashes: --details-url binds to
	// OCTOCHECK_DETAILS_URL.
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	bindFlags(cmd, v)
}

// bindFlags applies the viper value to each flag the user did not set on
// the command line.
func bindFlags(cmd *cobra.Command, v *viper.Viper) {
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if f.Changed || !v.IsSet(f.Name) {
			return
		}
		if f.Value.Type() == "stringArray" {
			// Set appends one element per call on stringArray values.
			for _, item := range v.GetStringSlice(f.Name) {
				cmd.Flags().Set(f.Name, item) // nolint: errcheck
			}
			return
		}
		cmd.Flags().Set(f.Name, fmt.Sprintf("%v", v.Get(f.Name))) // nolint: errcheck
	})
}
