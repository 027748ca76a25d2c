package config

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
)

// Project is the optional per-project YAML file (renloc.yml) controlling
// how a game directory is scanned.
type Project struct {
	// ScriptExt is the script file extension.
	ScriptExt string `yaml:"script_ext"`
	// SkipDirs are directory names excluded from scans.
	SkipDirs []string `yaml:"skip_dirs"`
	// TranslationsDir is the translation-output folder name.
	TranslationsDir string `yaml:"translations_dir"`
	// Language is the default target language code.
	Language string `yaml:"language"`
}

// DefaultProject returns the conventions of a stock game layout.
func DefaultProject() *Project {
	return &Project{
		ScriptExt:       ".rpy",
		SkipDirs:        []string{"renpy"},
		TranslationsDir: "tl",
	}
}

// LoadProject reads a project file, filling unset fields with defaults.
// A missing file is not an error; the defaults apply.
func LoadProject(path string) (*Project, error) {
	p := DefaultProject()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return p, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read project file: %w", err)
	}
	if err := yaml.Unmarshal(data, p); err != nil {
		return nil, fmt.Errorf("parse project file: %w", err)
	}

	if p.ScriptExt == "" {
		p.ScriptExt = ".rpy"
	}
	return p, nil
}
