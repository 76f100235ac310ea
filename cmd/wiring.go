package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/yeisme/grumpy/pkg/analyzer"
	"github.com/yeisme/grumpy/pkg/configs"
	"github.com/yeisme/grumpy/pkg/gitmeta"
	"github.com/yeisme/grumpy/pkg/project"
	"github.com/yeisme/grumpy/pkg/utils/executor"
)

// analyzerFlags 是 watch 与 check 共享的分析参数，绑定到 viper 的配置键
var analyzerFlags = []struct {
	name, key string
}{
	{"grumpiness-level", "analyzer.grumpiness_level"},
	{"max-function-size", "analyzer.max_function_size"},
	{"max-complexity", "analyzer.max_complexity"},
	{"custom-rules", "analyzer.custom_rules"},
	{"git-integration", "analyzer.git_integration"},
	{"stale-days", "analyzer.stale_days"},
	{"profile", "toolchain.profile"},
}

// addAnalyzerFlags 在 owner 上定义分析参数，并把同一组 flag 共享给其他命令
func addAnalyzerFlags(owner *cobra.Command, others ...*cobra.Command) {
	f := owner.Flags()
	f.StringP("grumpiness-level", "g", "", "report tone: mild, sarcastic, rude")
	f.Int("max-function-size", 0, "maximum number of top-level statements in a function body")
	f.Int("max-complexity", 0, "maximum cyclomatic complexity of a function")
	f.String("custom-rules", "", "path to the custom rules file (.toml or .yaml), relative to the project root")
	f.Bool("git-integration", true, "query the version history for staleness and authorship")
	f.Int("stale-days", 0, "days without a commit before a file counts as stale")
	f.String("profile", "", "toolchain profile: go, rust")

	for _, fl := range analyzerFlags {
		flag := f.Lookup(fl.name)
		_ = viper.BindPFlag(fl.key, flag)
		for _, other := range others {
			other.Flags().AddFlag(flag)
		}
	}
}

// newAnalyzer 按配置组装分析流水线，start 是查找项目根目录的起点
func newAnalyzer(config *configs.Config, start string) (*analyzer.Analyzer, project.Root, error) {
	profile, err := configs.LookupProfile(config.Toolchain.Profile)
	if err != nil {
		return nil, project.Root{}, err
	}
	root, err := project.FindRoot(start, profile.RootMarker)
	if err != nil {
		return nil, project.Root{}, err
	}
	if root.Marker == "" {
		log.Warn().Msgf("No %s found above %s, using it as the project root", profile.RootMarker, start)
	}

	tools := &project.Tools{
		Runner:    executor.CommandRunner{Timeout: config.Toolchain.Timeout},
		Toolchain: config.Toolchain,
		Root:      root.Dir,
	}

	var inspector gitmeta.Inspector
	if config.Analyzer.GitIntegration {
		g, err := gitmeta.NewGit(grumpyCtx)
		if err != nil {
			log.Warn().Err(err).Msg("Version history queries will fail")
			inspector = gitmeta.Unavailable{Err: err}
		} else {
			inspector = g
		}
	}

	opts := analyzer.Options{
		Grumpiness:      config.Grumpiness(),
		MaxFunctionSize: config.Analyzer.MaxFunctionSize,
		MaxComplexity:   config.Analyzer.MaxComplexity,
		RulesPath:       config.Analyzer.CustomRules,
		GitIntegration:  config.Analyzer.GitIntegration,
		StaleDays:       config.Analyzer.StaleDays,
	}
	log.Debug().
		Str("root", root.Dir).
		Str("project", root.Name).
		Str("formatter", tools.FormatterName()).
		Str("linter", tools.LinterName()).
		Msg("Analyzer ready")
	return analyzer.New(opts, tools, root, inspector, log), root, nil
}
