// Package version 保存 grumpy 的构建信息
//
// 发布构建通过 -ldflags "-X" 注入变量；go install 构建时从 runtime/debug 的 vcs 设置补全
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"
	"time"
)

// 由 -ldflags 注入
var (
	Version   = "dev"
	GitCommit = ""
	BuildDate = ""
	Modified  = ""
)

// Info 是一次构建的描述
type Info struct {
	Version   string `json:"version"`
	GitCommit string `json:"git_commit"`
	BuildDate string `json:"build_date"`
	Modified  bool   `json:"modified"`
	GoVersion string `json:"go_version"`
	Platform  string `json:"platform"`
	ModSum    string `json:"mod_sum,omitempty"`
}

// GetVersion 合并 ldflags 与 debug.BuildInfo 中的信息
func GetVersion() Info {
	info := Info{
		Version:   Version,
		GitCommit: GitCommit,
		BuildDate: BuildDate,
		Modified:  Modified == "true",
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
	if bi, ok := debug.ReadBuildInfo(); ok {
		fillFromBuildInfo(&info, bi)
	}
	if info.GitCommit == "" {
		info.GitCommit = "unknown"
	}
	if info.BuildDate == "" {
		info.BuildDate = "unknown"
	}
	return info
}

// fillFromBuildInfo 只填充 ldflags 没有提供的字段
func fillFromBuildInfo(info *Info, bi *debug.BuildInfo) {
	if info.Version == "dev" && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
		info.Version = strings.TrimPrefix(bi.Main.Version, "v")
	}
	info.ModSum = bi.Main.Sum
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			if info.GitCommit == "" {
				info.GitCommit = s.Value
			}
		case "vcs.time":
			if info.BuildDate == "" {
				info.BuildDate = s.Value
			}
		case "vcs.modified":
			if Modified == "" {
				info.Modified = s.Value == "true"
			}
		}
	}
}

// shortCommit 截取前 7 位
func shortCommit(c string) string {
	if len(c) > 7 {
		return c[:7]
	}
	return c
}

// GetVersionString 返回包含构建细节的单行描述
func GetVersionString() string {
	info := GetVersion()
	commit := shortCommit(info.GitCommit)
	if info.Modified {
		commit += "-dirty"
	}
	return fmt.Sprintf("grumpy %s (commit %s, built %s) %s %s",
		info.Version, commit, info.BuildDate, info.GoVersion, info.Platform)
}

// GetShortVersionString 返回版本与构建日期，以及对应的 release 链接
func GetShortVersionString() string {
	info := GetVersion()
	date := info.BuildDate
	if t, err := time.Parse(time.RFC3339, date); err == nil {
		date = t.Format(time.DateOnly)
	}
	return fmt.Sprintf("grumpy version %s (%s)\nhttps://github.com/yeisme/grumpy/releases/tag/v%s",
		info.Version, date, info.Version)
}
