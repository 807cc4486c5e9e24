package sampler

import (
	"fmt"
	"os"
	"path"
	"strings"

	"gopkg.in/yaml.v3"
)

// Match modes for an IDE table entry.
const (
	MatchExact     = "exact"
	MatchSubstring = "substring"
)

// IDE maps a process or application name pattern to the IDE's display name.
type IDE struct {
	Pattern string `yaml:"pattern"`
	Name    string `yaml:"name"`
	Match   string `yaml:"match,omitempty"`
}

// Matches reports whether a single process entry names this IDE. Entries are
// compared by their base name, so "/usr/bin/code" matches "code".
func (e IDE) Matches(process string) bool {
	candidate := baseName(process)
	if candidate == "" {
		return false
	}
	if e.Match == MatchSubstring {
		return strings.Contains(candidate, e.Pattern)
	}
	return candidate == e.Pattern
}

func baseName(process string) string {
	p := strings.ReplaceAll(strings.TrimSpace(process), `\`, "/")
	if p == "" {
		return ""
	}
	return strings.TrimSpace(path.Base(p))
}

// Table is an ordered list of IDE entries. Earlier entries take priority.
type Table []IDE

// Recognize returns the display name of the first table entry matched by any
// process, or "" when none is recognized.
func (t Table) Recognize(processes []string) string {
	for _, e := range t {
		for _, p := range processes {
			if e.Matches(p) {
				return e.Name
			}
		}
	}
	return ""
}

// UnixTable covers macOS and Linux process and application names.
var UnixTable = Table{
	{Pattern: "Electron", Name: "VS Code"},
	{Pattern: "Code Helper", Name: "VS Code", Match: MatchSubstring},
	{Pattern: "Code - Insiders", Name: "VS Code Insiders"},
	{Pattern: "code", Name: "VS Code"},
	{Pattern: "Code", Name: "VS Code"},
	{Pattern: "idea", Name: "IntelliJ IDEA"},
	{Pattern: "IntelliJ IDEA", Name: "IntelliJ IDEA", Match: MatchSubstring},
	{Pattern: "webstorm", Name: "WebStorm"},
	{Pattern: "WebStorm", Name: "WebStorm"},
	{Pattern: "pycharm", Name: "PyCharm"},
	{Pattern: "PyCharm", Name: "PyCharm", Match: MatchSubstring},
	{Pattern: "goland", Name: "GoLand"},
	{Pattern: "GoLand", Name: "GoLand"},
	{Pattern: "clion", Name: "CLion"},
	{Pattern: "CLion", Name: "CLion"},
	{Pattern: "rustrover", Name: "RustRover"},
	{Pattern: "RustRover", Name: "RustRover"},
	{Pattern: "Xcode", Name: "Xcode"},
	{Pattern: "Cursor", Name: "Cursor"},
	{Pattern: "cursor", Name: "Cursor"},
	{Pattern: "Windsurf", Name: "Windsurf"},
	{Pattern: "zed", Name: "Zed"},
	{Pattern: "Zed", Name: "Zed"},
}

// WindowsTable covers Windows executable names.
var WindowsTable = Table{
	{Pattern: "Code.exe", Name: "VS Code"},
	{Pattern: "devenv.exe", Name: "Visual Studio"},
	{Pattern: "idea64.exe", Name: "IntelliJ IDEA"},
	{Pattern: "webstorm64.exe", Name: "WebStorm"},
	{Pattern: "pycharm64.exe", Name: "PyCharm"},
	{Pattern: "goland64.exe", Name: "GoLand"},
	{Pattern: "clion64.exe", Name: "CLion"},
	{Pattern: "rustrover64.exe", Name: "RustRover"},
	{Pattern: "Cursor.exe", Name: "Cursor"},
}

// DefaultTable returns the built-in table for goos.
func DefaultTable(goos string) Table {
	if goos == "windows" {
		return append(Table(nil), WindowsTable...)
	}
	return append(Table(nil), UnixTable...)
}

type tableFile struct {
	IDEs []IDE `yaml:"ides"`
}

// LoadTable reads user IDE entries from a YAML file and returns them ahead of
// base, so user entries win. The file looks like:
//
//	ides:
//	  - pattern: nvim
//	    name: Neovim
//	  - pattern: Sublime Text
//	    name: Sublime Text
//	    match: substring
func LoadTable(filePath string, base Table) (Table, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("read ide table: %w", err)
	}
	var f tableFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse ide table: %w", err)
	}

	out := make(Table, 0, len(f.IDEs)+len(base))
	for i, e := range f.IDEs {
		e.Pattern = strings.TrimSpace(e.Pattern)
		e.Name = strings.TrimSpace(e.Name)
		if e.Pattern == "" || e.Name == "" {
			return nil, fmt.Errorf("ide table entry %d: pattern and name are required", i+1)
		}
		switch e.Match {
		case "", MatchExact, MatchSubstring:
		default:
			return nil, fmt.Errorf("ide table entry %d: unknown match mode %q", i+1, e.Match)
		}
		out = append(out, e)
	}
	return append(out, base...), nil
}
