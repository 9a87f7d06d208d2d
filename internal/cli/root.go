// Package cli implements the projstat command-line interface.
//
// The root command gathers project metadata from every configured source
// and prints a merged, source-attributed report. Subcommands manage the
// configuration file and print version information.
package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ppiankov/projstat/internal/cache"
	"github.com/ppiankov/projstat/internal/model"
	"github.com/ppiankov/projstat/internal/pipeline"
	"github.com/ppiankov/projstat/internal/report"
	"github.com/ppiankov/projstat/internal/source"
)

const version = "0.4.0"

var (
	cfgFile     string
	verbose     bool
	listOnly    bool
	short       bool
	sortKey     string
	showSources bool
	runTimeout  time.Duration
	noCache     bool
)

// rootCmd runs the report. The optional positional argument filters project
// keys by substring.
var rootCmd = &cobra.Command{
	Use:   "projstat [query]",
	Short: "Aggregate project stats from forges, registries and local checkouts",
	Long: `projstat gathers metadata about your projects from every source each
project configures (GitHub, GitLab, local git checkouts, PyPI, bower,
Travis CI, addons.mozilla.org) and merges the answers into one report.

Conflicting reports are not resolved: every distinct value is shown,
optionally with the sources that claim it.`,
	Args:          cobra.MaximumNArgs(1),
	SilenceErrors: true,
	RunE:          runReport,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("projstat v" + version)
	},
}

func init() {
	cobra.OnInitialize(initEnv)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default: ./projects.yml, ./.projects.yml, ~/.config/projects.yml, ~/.projects.yml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	rootCmd.Flags().BoolVarP(&listOnly, "list", "l", false, "only list projects; do not show any stats")
	rootCmd.Flags().BoolVarP(&short, "short", "s", false, "show only basic stats")
	rootCmd.Flags().StringVarP(&sortKey, "sort", "z", "", "sort projects by attribute KEY")
	rootCmd.Flags().BoolVarP(&showSources, "show-sources", "S", false, "show a source for each claim")
	rootCmd.Flags().DurationVar(&runTimeout, "timeout", 5*time.Minute, "overall run timeout")
	rootCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the fetch cache (force fresh fetches)")

	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))

	rootCmd.AddCommand(versionCmd)
}

// initEnv wires PROJSTAT_* environment variables, e.g.
// PROJSTAT_GITHUB_PASSWORD overrides the github.password credential.
func initEnv() {
	viper.SetEnvPrefix("PROJSTAT")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
}

func newLogger() *charmlog.Logger {
	level := charmlog.InfoLevel
	if verbose {
		level = charmlog.DebugLevel
	}
	return charmlog.NewWithOptions(os.Stderr, charmlog.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

func runReport(cmd *cobra.Command, args []string) error {
	query := ""
	if len(args) == 1 {
		query = args[0]
	}

	path, err := model.SelectConfig(cfgFile)
	if err != nil {
		return err
	}
	cfg, err := model.LoadConfig(path)
	if err != nil {
		return err
	}
	applyEnvCredentials(cfg)

	logger := newLogger()
	logger.Debug("loaded config", "path", path, "projects", len(cfg.Projects))

	ctx, cancel := context.WithTimeout(cmd.Context(), runTimeout)
	defer cancel()

	// Query filtering happens before fetching: projects outside the
	// selection never cost a network call.
	selected := selectProjects(cfg.Projects, query)
	order := make([]string, len(selected))
	for i, p := range selected {
		order[i] = p.Key
	}

	var projects map[string]*model.ClaimSet
	if listOnly && sortKey == "" {
		// A bare list needs no claims at all.
		projects = make(map[string]*model.ClaimSet, len(selected))
		for _, p := range selected {
			projects[p.Key] = model.NewClaimSet()
		}
	} else {
		projects = fetchProjects(ctx, cfg, selected, logger)
	}

	return report.Render(os.Stdout, projects, order, report.Options{
		SortKey:     sortKey,
		List:        listOnly,
		Short:       short,
		ShowSources: showSources,
	})
}

func fetchProjects(ctx context.Context, cfg *model.Config, selected []model.Project, logger *charmlog.Logger) map[string]*model.ClaimSet {
	var store cache.Cache = cache.Nop{}
	if cfg.Cache.Enabled && !noCache {
		store = cache.NewLayeredCache(cfg.Cache.TTL, cfg.Cache.Dir, cfg.Cache.TTL)
	}

	client := source.NewClient(cfg, store)
	sources := source.Sources(client, source.ExecRunner{})
	orch := pipeline.NewOrchestrator(sources, cfg, logger)
	registry := pipeline.NewRegistry(orch, cfg.Fetch.ProjectWorkers)

	start := time.Now()
	out := registry.FetchAll(ctx, selected)
	logger.Debug("fetch cycle complete",
		"projects", len(out), "elapsed", time.Since(start).Round(time.Millisecond))
	return out
}

func selectProjects(projects []model.Project, query string) []model.Project {
	if query == "" {
		return projects
	}
	q := strings.ToLower(query)
	var selected []model.Project
	for _, p := range projects {
		if strings.Contains(strings.ToLower(p.Key), q) {
			selected = append(selected, p)
		}
	}
	return selected
}

// applyEnvCredentials overlays PROJSTAT_* environment credentials on top of
// the file-supplied ones.
func applyEnvCredentials(cfg *model.Config) {
	for _, cred := range [][2]string{
		{"github", "user"},
		{"github", "password"},
		{"gitlab", "token"},
	} {
		if v := viper.GetString(cred[0] + "." + cred[1]); v != "" {
			cfg.SetCredential(cred[0], cred[1], v)
		}
	}
}
