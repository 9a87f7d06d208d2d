package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/ppiankov/projstat/internal/model"
)

// configCmd groups configuration helpers.
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage projstat configuration",
	Long: `Manage the projects file and credentials.

Credential hierarchy (highest to lowest priority):
1. Environment variables (PROJSTAT_GITHUB_USER, PROJSTAT_GITHUB_PASSWORD, PROJSTAT_GITLAB_TOKEN)
2. Config file credential blocks
`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the resolved configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := model.SelectConfig(cfgFile)
		if err != nil {
			return err
		}
		cfg, err := model.LoadConfig(path)
		if err != nil {
			return err
		}

		fmt.Fprintf(os.Stderr, "Configuration file: %s\n\n", path)
		for _, p := range cfg.Projects {
			doc := map[string]map[string]string{p.Key: p.Sources}
			out, err := yaml.Marshal(doc)
			if err != nil {
				return fmt.Errorf("marshal project %s: %w", p.Key, err)
			}
			fmt.Print(string(out))
		}
		return nil
	},
}

const sampleConfig = `# projstat configuration
#
# Each project names the sources it should be fetched from. Credentials for
# forge APIs live in top-level blocks and can be overridden with
# PROJSTAT_GITHUB_USER / PROJSTAT_GITHUB_PASSWORD / PROJSTAT_GITLAB_TOKEN.

# github:
#   user: your-username
#   password: your-api-token
# gitlab:
#   token: your-private-token

projects:
  example:
    github: https://github.com/you/example
    pypi: https://pypi.org/project/example
    local: ~/src/example
`

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a starter projects.yml to the current directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		const path = "projects.yml"
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config file already exists: %s", path)
		}

		if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
			return fmt.Errorf("write config: %w", err)
		}

		fmt.Printf("Created %s. Edit it and run `projstat` to fetch your projects.\n", path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
}
