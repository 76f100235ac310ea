// Package main provides the entry point for the grumpy schema generation.
package main

import (
	"io"
	"os"
	"path/filepath"

	"github.com/yeisme/grumpy/pkg/utils/schema"
)

const docsDir = "../../docs"

func generate(name string, gen func(io.Writer) error) {
	f, err := os.Create(filepath.Join(docsDir, name))
	if err != nil {
		panic(err)
	}
	defer func() {
		_ = f.Close()
	}()
	if err := gen(f); err != nil {
		panic(err)
	}
}

//go:generate go run github.com/yeisme/grumpy/cmd/schema
func main() {
	if err := os.MkdirAll(docsDir, 0755); err != nil {
		panic(err)
	}
	generate("config_schema.json", schema.GenConfigSchema)
	generate("rules_schema.json", schema.GenRulesSchema)
}
