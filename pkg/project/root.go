package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
	"golang.org/x/mod/modfile"
)

// Root 描述项目根目录
type Root struct {
	Dir  string // 根目录绝对路径
	Name string // go 模块路径或 crate 名称，未知时为目录名
	// Marker 为找到的标识文件名，未找到时为空
	Marker string
}

// FindRoot 从 start 开始向上查找包含 marker 文件的目录
// 没有找到时返回 start 本身
func FindRoot(start, marker string) (Root, error) {
	abs, err := filepath.Abs(start)
	if err != nil {
		return Root{}, fmt.Errorf("failed to resolve %s: %w", start, err)
	}
	if info, err := os.Stat(abs); err == nil && !info.IsDir() {
		abs = filepath.Dir(abs)
	}

	for dir := abs; ; {
		candidate := filepath.Join(dir, marker)
		data, err := os.ReadFile(candidate)
		if err == nil {
			name, err := projectName(marker, data)
			if err != nil {
				return Root{}, fmt.Errorf("failed to parse %s: %w", candidate, err)
			}
			if name == "" {
				name = filepath.Base(dir)
			}
			return Root{Dir: dir, Name: name, Marker: marker}, nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			return Root{}, fmt.Errorf("failed to read %s: %w", candidate, err)
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return Root{Dir: abs, Name: filepath.Base(abs)}, nil
}

func projectName(marker string, data []byte) (string, error) {
	switch marker {
	case "go.mod":
		return modfile.ModulePath(data), nil
	case "Cargo.toml":
		var manifest struct {
			Package struct {
				Name string `toml:"name"`
			} `toml:"package"`
		}
		if err := toml.Unmarshal(data, &manifest); err != nil {
			return "", err
		}
		return manifest.Package.Name, nil
	default:
		return "", nil
	}
}

// Rel 返回 path 相对于根目录的路径，无法计算时原样返回
func (r Root) Rel(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	rel, err := filepath.Rel(r.Dir, abs)
	if err != nil || rel == ".." || len(rel) > 2 && rel[:3] == ".."+string(filepath.Separator) {
		return path
	}
	return filepath.ToSlash(rel)
}
