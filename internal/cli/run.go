package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"github.com/octocheck/octocheck/internal/checks"
	"github.com/octocheck/octocheck/internal/config"
	"github.com/octocheck/octocheck/internal/github"
	"github.com/octocheck/octocheck/internal/gitutil"
)

// submitTimeout bounds the whole submission exchange, batched annotation
// updates included.
const submitTimeout = 2 * time.Minute

// grammarFlags lists the per-grammar pattern flags in the order their
// inputs are parsed.
var grammarFlags = []string{"govet", "pep8", "cargo", "xunit"}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := loadRunConfig(cmd)
	if err != nil {
		return err
	}
	if errs := config.Validate(cfg); len(errs) > 0 {
		for _, e := range errs {
			slog.Error("invalid configuration", "field", e.Field, "problem", e.Message)
		}
		return fmt.Errorf("config has %d validation error(s)", len(errs))
	}
	applyConfigValues(cmd, cfg)

	report, err := parseInputs(cmd, cfg)
	if err != nil {
		return err
	}

	delPrefix, _ := cmd.Flags().GetString("del-prefix")
	addPrefix, _ := cmd.Flags().GetString("add-prefix")
	report.RewritePaths(delPrefix, addPrefix)

	runURL := ""
	if dryRun, _ := cmd.Flags().GetBool("dry-run"); !dryRun {
		runURL, err = submitReport(cmd, report)
		if err != nil {
			return err
		}
	}

	format, _ := cmd.Flags().GetString("format")
	if err := printReport(cmd, report, format, runURL); err != nil {
		return err
	}

	if failOnFailure, _ := cmd.Flags().GetBool("fail-on-failure"); failOnFailure && report.Conclusion() == "failure" {
		return fmt.Errorf("check concluded failure: %s", report.Summary())
	}
	return nil
}

func loadRunConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	if path != "" {
		return config.Load(path)
	}
	return config.LoadDefault()
}

// applyConfigValues fills flags the user left unset from the config file.
// Flags already set on the command line or through the environment win.
func applyConfigValues(cmd *cobra.Command, cfg *config.Config) {
	set := func(name, value string) {
		if value != "" && !cmd.Flags().Changed(name) {
			cmd.Flags().Set(name, value) // nolint: errcheck
		}
	}
	set("check-name", cfg.Check.Name)
	set("title", cfg.Check.Title)
	set("details-url", cfg.Check.DetailsURL)
	set("add-prefix", cfg.Paths.AddPrefix)
	set("del-prefix", cfg.Paths.DelPrefix)
}

// patternGroups merges the per-grammar pattern flags with the config
// file's inputs list. Flag groups come first, in fixed grammar order.
func patternGroups(cmd *cobra.Command, cfg *config.Config) []checks.PatternGroup {
	var groups []checks.PatternGroup
	for _, id := range grammarFlags {
		patterns, _ := cmd.Flags().GetStringArray(id)
		if len(patterns) > 0 {
			groups = append(groups, checks.PatternGroup{GrammarID: id, Patterns: patterns})
		}
	}
	for _, in := range cfg.Inputs {
		groups = append(groups, checks.PatternGroup{GrammarID: in.Grammar, Patterns: in.Patterns})
	}
	return groups
}

func parseInputs(cmd *cobra.Command, cfg *config.Config) (*checks.Report, error) {
	inputs, err := checks.ExpandInputs(patternGroups(cmd, cfg))
	if err != nil {
		return nil, err
	}

	report := checks.NewReport()
	for _, in := range inputs {
		res, err := checks.ParseInput(in, cmd.InOrStdin())
		if err != nil {
			return nil, err
		}
		slog.Debug("parsed report file", "grammar", in.Grammar.ID, "path", in.Path, "annotations", len(res.Annotations))
		report.Add(in.Grammar, in.Path, res)
	}
	return report, nil
}

// resolveCommit falls back to the working directory's HEAD and insists on
// a full 40 hex digit SHA, which is what the Checks API accepts.
func resolveCommit(commit string) (string, error) {
	if commit == "" {
		head, err := gitutil.HeadSHA(".")
		if err != nil {
			return "", fmt.Errorf("no --commit given and HEAD could not be resolved: %w", err)
		}
		slog.Debug("resolved commit from repository HEAD", "commit", head)
		commit = head
	}
	if !gitutil.IsCommitSHA(commit) {
		return "", fmt.Errorf("invalid commit %q: a full 40 hex digit SHA is required", commit)
	}
	return commit, nil
}

func submitReport(cmd *cobra.Command, report *checks.Report) (string, error) {
	owner, _ := cmd.Flags().GetString("owner")
	repo, _ := cmd.Flags().GetString("repo")
	if owner == "" || repo == "" {
		return "", errors.New("--owner and --repo are required to submit a check run (use --dry-run to skip submission)")
	}

	token, _ := cmd.Flags().GetString("token")
	if token == "" {
		return "", errors.New("a GitHub token is required: set --token or OCTOCHECK_TOKEN")
	}

	commit, _ := cmd.Flags().GetString("commit")
	commit, err := resolveCommit(commit)
	if err != nil {
		return "", err
	}

	apiURL, _ := cmd.Flags().GetString("api-url")
	client, err := github.NewClient(token, apiURL)
	if err != nil {
		return "", err
	}

	name, _ := cmd.Flags().GetString("check-name")
	title, _ := cmd.Flags().GetString("title")
	detailsURL, _ := cmd.Flags().GetString("details-url")

	run := github.CheckRun{
		Owner:       owner,
		Repo:        repo,
		Name:        name,
		HeadSHA:     commit,
		DetailsURL:  detailsURL,
		Title:       title,
		Summary:     report.Summary(),
		Text:        report.Details(),
		Conclusion:  report.Conclusion(),
		Annotations: report.Annotations(),
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), submitTimeout)
	defer cancel()

	slog.Debug("submitting check run", "owner", owner, "repo", repo, "commit", commit, "annotations", len(run.Annotations))
	url, err := client.Submit(ctx, run)
	if err != nil {
		return "", err
	}
	slog.Info("check run submitted", "conclusion", run.Conclusion, "url", url)
	return url, nil
}

func printReport(cmd *cobra.Command, report *checks.Report, format, runURL string) error {
	w := cmd.OutOrStdout()

	if format == "json" {
		out, err := report.JSON()
		if err != nil {
			return err
		}
		fmt.Fprintln(w, out)
		return nil
	}

	if anns := report.Annotations(); len(anns) > 0 {
		tw := table.NewWriter()
		tw.SetAllowedRowLength(130)
		tw.AppendHeader(table.Row{"Level", "Location", "Message"})
		for _, ann := range anns {
			location := fmt.Sprintf("%s:%d", ann.Path, ann.StartLine)
			tw.AppendRow(table.Row{ann.Level, location, text.WrapText(ann.Message, 80)})
		}
		fmt.Fprintln(w, tw.Render())
	}

	fmt.Fprintf(w, "%s (conclusion: %s)\n", report.Summary(), report.Conclusion())
	if runURL != "" {
		fmt.Fprintln(w, "Check run:", runURL)
	}
	return nil
}
