package gitmeta

import (
	"bufio"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"
	"time"
)

// Hunk 是 blame 输出中归属于同一提交的一组连续行
type Hunk struct {
	Commit     string
	Author     string
	AuthorTime time.Time
	Lines      int
}

// Blame 是单个文件的 blame 结果
type Blame struct {
	Hunks []Hunk
}

type commitInfo struct {
	author string
	time   time.Time
}

// ParseBlame 解析 git blame --porcelain 的输出
//
// 每个 4 字段的头部行开始一个新的 hunk；作者信息只在提交第一次出现时给出
func ParseBlame(r io.Reader) (*Blame, error) {
	commits := make(map[string]*commitInfo)
	var hunks []Hunk
	var current string

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, "\t") {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}

		if isCommitHash(fields[0]) && (len(fields) == 3 || len(fields) == 4) {
			current = fields[0]
			if _, ok := commits[current]; !ok {
				commits[current] = &commitInfo{}
			}
			if len(fields) == 4 {
				n, err := strconv.Atoi(fields[3])
				if err != nil {
					return nil, fmt.Errorf("invalid blame header %q: %w", line, err)
				}
				hunks = append(hunks, Hunk{Commit: current, Lines: n})
			}
			continue
		}

		info := commits[current]
		if info == nil {
			continue
		}
		switch fields[0] {
		case "author":
			info.author = strings.TrimSpace(strings.TrimPrefix(line, "author"))
		case "author-time":
			if len(fields) < 2 {
				continue
			}
			sec, err := strconv.ParseInt(fields[1], 10, 64)
			if err != nil {
				return nil, fmt.Errorf("invalid author-time %q: %w", line, err)
			}
			info.time = time.Unix(sec, 0)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read blame output: %w", err)
	}

	committed := hunks[:0]
	for _, h := range hunks {
		if isUncommitted(h.Commit) {
			continue
		}
		info := commits[h.Commit]
		h.Author = info.author
		h.AuthorTime = info.time
		committed = append(committed, h)
	}
	return &Blame{Hunks: committed}, nil
}

func isCommitHash(s string) bool {
	if len(s) != 40 && len(s) != 64 {
		return false
	}
	for _, c := range s {
		if !strings.ContainsRune("0123456789abcdef", c) {
			return false
		}
	}
	return true
}

// isUncommitted 报告是否为工作区行使用的全零哈希
func isUncommitted(hash string) bool {
	return strings.Trim(hash, "0") == ""
}

// Latest 返回最新一次提交的时间，没有 hunk 时返回零值
func (b *Blame) Latest() time.Time {
	var latest time.Time
	for _, h := range b.Hunks {
		if h.AuthorTime.After(latest) {
			latest = h.AuthorTime
		}
	}
	return latest
}

// AgeDays 返回距最新提交的整天数
func (b *Blame) AgeDays(now time.Time) int64 {
	latest := b.Latest()
	if latest.IsZero() {
		return now.Unix() / 86400
	}
	return (now.Unix() - latest.Unix()) / 86400
}

// MostFrequentAuthor 返回拥有最多 hunk 的作者，数量相同时按名称排序取第一个
func (b *Blame) MostFrequentAuthor() string {
	counts := make(map[string]int)
	for _, h := range b.Hunks {
		counts[h.Author]++
	}
	authors := make([]string, 0, len(counts))
	for a := range counts {
		authors = append(authors, a)
	}
	slices.Sort(authors)

	best, bestCount := "", 0
	for _, a := range authors {
		if counts[a] > bestCount {
			best, bestCount = a, counts[a]
		}
	}
	return best
}
