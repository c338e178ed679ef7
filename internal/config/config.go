// Package config loads the lexer tables: the DFA states, its transitions and
// the token maps. Each table is a separate file in YAML, JSON or TOML,
// selected by extension.
package config

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/pascals-lang/pascals/internal/compiler/dfa"
	"github.com/pascals-lang/pascals/internal/compiler/lexer"
)

//go:embed defaults/*.yaml
var defaults embed.FS

// Format is a table file encoding.
type Format int

const (
	FormatYAML Format = iota
	FormatJSON
	FormatTOML
)

func (f Format) String() string {
	switch f {
	case FormatYAML:
		return "yaml"
	case FormatJSON:
		return "json"
	case FormatTOML:
		return "toml"
	default:
		return "unknown"
	}
}

// extensions are tried in this order for each table.
var extensions = []struct {
	ext    string
	format Format
}{
	{".yaml", FormatYAML},
	{".yml", FormatYAML},
	{".json", FormatJSON},
	{".toml", FormatTOML},
}

// States is the states table.
type States struct {
	StartState  string   `yaml:"start_state" toml:"start_state"`
	FinalStates []string `yaml:"final_states" toml:"final_states"`
}

// TokenMaps is the token-map table.
type TokenMaps struct {
	Keywords      []string          `yaml:"keywords" toml:"keywords"`
	OperatorsMap  map[string]string `yaml:"operators_map" toml:"operators_map"`
	StateTokenMap map[string]string `yaml:"state_token_map" toml:"state_token_map"`
}

// Tables is everything the lexer needs, as read from disk.
type Tables struct {
	States      States
	Transitions map[string]map[string]string
	TokenMaps   TokenMaps
}

// ErrNotFound is returned when a table file is absent in every format.
var ErrNotFound = errors.New("config: table not found")

// Default returns the built-in tables.
func Default() (*Tables, error) {
	sub, err := fs.Sub(defaults, "defaults")
	if err != nil {
		return nil, err
	}
	return LoadFS(sub)
}

// LoadDir reads states.*, transitions.* and token_maps.* from dir.
func LoadDir(dir string) (*Tables, error) {
	return LoadFS(os.DirFS(dir))
}

// LoadFS reads the three tables from the root of fsys.
func LoadFS(fsys fs.FS) (*Tables, error) {
	t := &Tables{}
	if err := loadTable(fsys, "states", &t.States); err != nil {
		return nil, err
	}
	if err := loadTable(fsys, "transitions", &t.Transitions); err != nil {
		return nil, err
	}
	if err := loadTable(fsys, "token_maps", &t.TokenMaps); err != nil {
		return nil, err
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

func loadTable(fsys fs.FS, name string, out any) error {
	for _, e := range extensions {
		file := name + e.ext
		content, err := fs.ReadFile(fsys, file)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return fmt.Errorf("config: read %s: %w", file, err)
		}
		if err := decode(content, e.format, out); err != nil {
			return fmt.Errorf("config: parse %s: %w", file, err)
		}
		return nil
	}
	return fmt.Errorf("%w: %s.{yaml,yml,json,toml}", ErrNotFound, name)
}

// decode unmarshals one table. JSON is a subset of YAML and goes through
// the YAML decoder.
func decode(content []byte, format Format, out any) error {
	switch format {
	case FormatTOML:
		_, err := toml.Decode(string(content), out)
		return err
	case FormatYAML, FormatJSON:
		return yaml.Unmarshal(content, out)
	default:
		return fmt.Errorf("unsupported format %s", format)
	}
}

// DetectFormat maps a file name to its table format by extension.
func DetectFormat(file string) (Format, bool) {
	ext := strings.ToLower(path.Ext(file))
	for _, e := range extensions {
		if e.ext == ext {
			return e.format, true
		}
	}
	return 0, false
}

// Validate reports every missing required key at once.
func (t *Tables) Validate() error {
	var missing []string
	if t.States.StartState == "" {
		missing = append(missing, "states.start_state")
	}
	if t.States.FinalStates == nil {
		missing = append(missing, "states.final_states")
	}
	if len(t.Transitions) == 0 {
		missing = append(missing, "transitions")
	}
	if t.TokenMaps.Keywords == nil {
		missing = append(missing, "token_maps.keywords")
	}
	if t.TokenMaps.OperatorsMap == nil {
		missing = append(missing, "token_maps.operators_map")
	}
	if t.TokenMaps.StateTokenMap == nil {
		missing = append(missing, "token_maps.state_token_map")
	}
	if len(missing) > 0 {
		return fmt.Errorf("config: missing keys: %s", strings.Join(missing, ", "))
	}

	var unmapped []string
	for _, s := range t.States.FinalStates {
		if _, ok := t.TokenMaps.StateTokenMap[s]; !ok {
			unmapped = append(unmapped, s)
		}
	}
	if len(unmapped) > 0 {
		sort.Strings(unmapped)
		return fmt.Errorf("config: final states without a token kind: %s", strings.Join(unmapped, ", "))
	}
	return nil
}

// Build converts the tables into the DFA description and the lexer's
// classification tables.
func (t *Tables) Build() (*dfa.Config, lexer.Config, error) {
	d, err := dfa.NewConfig(t.States.StartState, t.States.FinalStates, t.Transitions)
	if err != nil {
		return nil, lexer.Config{}, err
	}
	lc, err := lexer.NewConfig(t.TokenMaps.Keywords, t.TokenMaps.OperatorsMap, t.TokenMaps.StateTokenMap)
	if err != nil {
		return nil, lexer.Config{}, fmt.Errorf("config: %w", err)
	}
	return d, lc, nil
}
