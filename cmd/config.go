package cmd

import (
	"fmt"
	"os/exec"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yeisme/grumpy/pkg/configs"
	"github.com/yeisme/grumpy/pkg/style"
)

var configNoColor bool

var configCmd = &cobra.Command{
	Use:     "config",
	Short:   "Manage grumpy configuration",
	Aliases: []string{"c"},
}

var configValidateCmd = &cobra.Command{
	Use:     "validate",
	Short:   "Validate the effective configuration and show the resolved toolchain",
	Aliases: []string{"check", "verify"},
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		out := cmd.OutOrStdout()
		config := grumpyCtx.Config

		source := grumpyCtx.Viper.ConfigFileUsed()
		if source == "" {
			source = "(defaults)"
		}
		log.Debug().Str("file", source).Msg("Validating configuration")

		if err := style.PrintHeading(out, "toolchain "+config.Toolchain.Profile); err != nil {
			return err
		}
		tc := config.Toolchain
		if err := style.PrintItemList(out, []style.Item{
			toolItem("formatter", tc.Formatter),
			toolItem("linter", tc.Linter),
		}); err != nil {
			return err
		}

		a := config.Analyzer
		fmt.Fprintf(out, "\nsource: %s\nwatch: %s (%s)\nthresholds: complexity %d, function size %d, tone %s\n",
			source, config.Watch.Dir, strings.Join(config.Watch.WatchFiles, ", "),
			a.MaxComplexity, a.MaxFunctionSize, a.GrumpinessLevel)

		if err := config.Validate(); err != nil {
			return err
		}
		fmt.Fprintln(out, "configuration is valid")
		return nil
	},
}

// toolItem 描述一个外部工具，不在 PATH 中时以禁用样式显示
func toolItem(role string, c configs.Command) style.Item {
	desc := strings.TrimSpace(c.Cmd + " " + strings.Join(c.Args, " "))
	_, err := exec.LookPath(c.Cmd)
	if err != nil {
		desc += " (not found in PATH)"
	}
	return style.Item{Name: role, Description: desc, Enabled: err == nil}
}

var configListCmd = &cobra.Command{
	Use:     "list [section]",
	Short:   "Print the configuration, or one section of it (app, log, watch, analyzer, toolchain)",
	Aliases: []string{"ls"},
	Example: `  grumpy config list                 # raw values from file, env and flags
  grumpy config list --all           # every value, defaults and profile filled in
  grumpy config list analyzer --json`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var section string
		if len(args) == 1 {
			section = args[0]
		}
		showAll, _ := cmd.Flags().GetBool("all")

		data, err := configs.GetConfigSection(grumpyCtx.Viper, grumpyCtx.Config, section, showAll)
		if err != nil {
			return err
		}
		return configs.OutputData(data, configs.GetOutputFormatFromFlags(cmd), cmd.OutOrStdout(), !configNoColor)
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default configuration file for a toolchain profile",
	Example: `  grumpy config init                  # .grumpy.yaml for a Go module
  grumpy config init --profile rust -f toml`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		flags := cmd.Flags()
		path, _ := flags.GetString("path")
		formatName, _ := flags.GetString("format")
		profile, _ := flags.GetString("profile")

		format, err := configs.ParseOutputFormat(formatName)
		if err != nil {
			return err
		}
		if path == "" {
			path = ".grumpy." + string(format)
		}
		if err := configs.CreateDefaultConfig(path, format, profile); err != nil {
			return fmt.Errorf("failed to create config file: %w", err)
		}
		log.Info().Str("profile", profile).Msgf("Created %s", path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configListCmd, configValidateCmd, configInitCmd)

	lf := configListCmd.Flags()
	lf.BoolVar(&configNoColor, "no-color", false, "disable JSON highlighting")
	lf.StringP("format", "f", "", "output format ("+strings.Join(configs.ValidFormats(), ", ")+")")
	lf.Bool("yaml", false, "shorthand for --format yaml")
	lf.Bool("json", false, "shorthand for --format json")
	lf.Bool("toml", false, "shorthand for --format toml")
	lf.BoolP("all", "a", false, "include defaults and profile values")

	inf := configInitCmd.Flags()
	inf.StringP("path", "p", "", "file to create (default .grumpy.<format>)")
	inf.StringP("format", "f", "yaml", "file format (yaml, json, toml)")
	inf.String("profile", "go", "toolchain profile (go, rust)")
}
