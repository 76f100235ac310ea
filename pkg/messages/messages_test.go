package messages

import (
	"strings"
	"testing"

	"github.com/yeisme/grumpy/pkg/models"
)

func TestEveryKindHasEveryTone(t *testing.T) {
	for kind := LintSuccess; kind <= Author; kind++ {
		for _, tone := range []models.GrumpinessLevel{models.Mild, models.Sarcastic, models.Rude} {
			if _, ok := table[key{kind, tone}]; !ok {
				t.Errorf("missing text for kind %d tone %s", kind, tone)
			}
		}
	}
}

func TestText(t *testing.T) {
	cases := []struct {
		kind Kind
		tone models.GrumpinessLevel
		args []any
		want string
	}{
		{LintSuccess, models.Mild, []any{"go vet"}, "✅ go vet successful"},
		{LintSuccess, models.Sarcastic, []any{"go vet"}, "✅🙈 Oh, you did not break anything. Strange!"},
		{Complexity, models.Mild, []any{"f", 12, 10}, "Function 'f': Cyclomatic complexity too high (12 > 10). Consider simplifying it."},
		{FunctionSize, models.Rude, []any{"f", 40, 32}, "Function 'f': 40 lines (40 > 32)? This is absurd!"},
		{Author, models.Rude, []any{"alice"}, "Git: Looks like here is alice's personal playground."},
		{Author, models.Mild, []any{""}, "Git: file mostly edited by our star ``!"},
	}
	for _, c := range cases {
		if got := Text(c.kind, c.tone, c.args...); got != c.want {
			t.Errorf("Text(%d, %s) = %q, want %q", c.kind, c.tone, got, c.want)
		}
	}
}

func TestTextNeverLeaksFormatErrors(t *testing.T) {
	args := map[Kind][]any{
		LintSuccess:  {"clippy"},
		LintFailure:  {"clippy"},
		Complexity:   {"f", 12, 10},
		FunctionSize: {"f", 40, 32},
		Stale:        nil,
		Author:       {"bob"},
	}
	for k, tmpl := range table {
		got := Text(k.kind, k.tone, args[k.kind]...)
		if strings.Contains(got, "%!") {
			t.Errorf("template %q produced %q", tmpl, got)
		}
	}
}
