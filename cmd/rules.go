package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yeisme/grumpy/pkg/configs"
	"github.com/yeisme/grumpy/pkg/project"
	"github.com/yeisme/grumpy/pkg/rules"
	"github.com/yeisme/grumpy/pkg/style"
	"github.com/yeisme/grumpy/pkg/utils/schema"
)

var (
	rulesSchema bool

	ruleDescriptions = map[string]string{
		rules.NoTodoComments: `flags any "todo" in the source, case-insensitive`,
		rules.ForbidWord:     "flags the word given in option",
	}

	rulesCmd = &cobra.Command{
		Use:   "rules [file]",
		Short: "Validate and list custom rules",
		Long: strings.TrimSpace(`
Load a custom rules file, report definition errors and list the rules it contains.

Without an argument the file configured in analyzer.custom_rules is used, resolved
against the project root. Rules files may be TOML ([[rules]] tables) or YAML (a rules: list).

Examples:
  grumpy rules
  grumpy rules rules.yaml
  grumpy rules --schema > rules_schema.json
`),
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if rulesSchema {
				return schema.GenRulesSchema(out)
			}

			path, err := rulesPath(grumpyCtx.Config, args)
			if err != nil {
				return err
			}
			defs, found, err := rules.Load(path)
			if err != nil {
				return err
			}

			if !found {
				fmt.Fprintf(out, "No rules file at %s. Known rules:\n", path)
				items := make([]style.Item, 0, len(rules.KnownRules()))
				for _, name := range rules.KnownRules() {
					items = append(items, style.Item{Name: name, Description: ruleDescriptions[name], Enabled: true})
				}
				return style.PrintItemList(out, items)
			}

			if err := style.PrintHeading(out, filepath.Base(path)); err != nil {
				return err
			}
			items := make([]style.Item, 0, len(defs))
			for _, r := range defs {
				desc := ruleDescriptions[r.Name]
				if desc == "" {
					desc = "unknown rule"
				}
				if opt, ok := r.OptionValue(); ok {
					desc += fmt.Sprintf(" (option %q)", opt)
				}
				items = append(items, style.Item{Name: r.Name, Description: desc, Enabled: r.Enabled})
			}
			if err := style.PrintItemList(out, items); err != nil {
				return err
			}
			return rules.Validate(defs)
		},
	}
)

// rulesPath 返回命令行给出的路径，或按项目根目录解析配置中的规则文件
func rulesPath(config *configs.Config, args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	path := config.Analyzer.CustomRules
	if filepath.IsAbs(path) {
		return path, nil
	}
	profile, err := configs.LookupProfile(config.Toolchain.Profile)
	if err != nil {
		return "", err
	}
	root, err := project.FindRoot(config.Watch.Dir, profile.RootMarker)
	if err != nil {
		return "", err
	}
	return filepath.Join(root.Dir, path), nil
}

func init() {
	rootCmd.AddCommand(rulesCmd)
	rulesCmd.Flags().BoolVar(&rulesSchema, "schema", false, "print the JSON schema of the rules file")
}
