// Package driver loads the inputs of a run from disk: keyword tables written
// as YAML and program text, optionally taken from a git revision.
package driver

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Hirooo17/ownGRAHs/pkg/config"
	"github.com/Hirooo17/ownGRAHs/pkg/runtime"
)

// KeywordFileName is the keyword table discovered by FindKeywordFile.
const KeywordFileName = "grah.yml"

type keywordFile struct {
	Declare stringList `yaml:"declare"`
	Display stringList `yaml:"display"`
	Print   string     `yaml:"print"`
	Int     string     `yaml:"int"`
	String  string     `yaml:"string"`
	For     string     `yaml:"for"`
	If      string     `yaml:"if"`
	Else    string     `yaml:"else"`
	Switch  string     `yaml:"switch"`
	Case    string     `yaml:"case"`
	Default string     `yaml:"default"`
}

// LoadKeywordTable parses a keyword file from disk. Roles the file leaves
// out keep their stock keywords.
func LoadKeywordTable(path string) (*config.Table, error) {
	if path == "" {
		return nil, fmt.Errorf("keywords: empty path")
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("keywords: resolve %s: %w", path, err)
	}
	file, err := os.Open(absPath)
	if err != nil {
		return nil, fmt.Errorf("keywords: open %s: %w", absPath, err)
	}
	defer file.Close()

	table, err := DecodeKeywordTable(file)
	if err != nil {
		return nil, fmt.Errorf("keywords: %s: %w", absPath, err)
	}
	return table, nil
}

// DecodeKeywordTable reads one YAML keyword document from r.
func DecodeKeywordTable(r io.Reader) (*config.Table, error) {
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)

	var raw keywordFile
	if err := decoder.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("file is empty")
		}
		return nil, fmt.Errorf("parse: %w", err)
	}
	return config.NewTable(raw.toKeywords())
}

func (kf keywordFile) toKeywords() config.Keywords {
	k := config.Default()
	if items := kf.Declare.Clone(); items != nil {
		k.Declare = items
	}
	if items := kf.Display.Clone(); items != nil {
		k.Display = items
	}
	override := func(dst *string, value string) {
		if value = strings.TrimSpace(value); value != "" {
			*dst = value
		}
	}
	override(&k.Print, kf.Print)
	override(&k.Int, kf.Int)
	override(&k.String, kf.String)
	override(&k.For, kf.For)
	override(&k.If, kf.If)
	override(&k.Else, kf.Else)
	override(&k.Switch, kf.Switch)
	override(&k.Case, kf.Case)
	override(&k.Default, kf.Default)
	return k
}

// FindKeywordFile walks from start towards the filesystem root and returns
// the first grah.yml it finds, or "" when there is none.
func FindKeywordFile(start string) (string, error) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", fmt.Errorf("keywords: resolve %s: %w", start, err)
	}
	if info, err := os.Stat(dir); err == nil && !info.IsDir() {
		dir = filepath.Dir(dir)
	}
	for {
		candidate := filepath.Join(dir, KeywordFileName)
		info, err := os.Stat(candidate)
		if err == nil && !info.IsDir() {
			return candidate, nil
		}
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("keywords: stat %s: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}
		dir = parent
	}
}

// ResolveKeywordTable picks the table for a run: the explicit path when
// given, else a grah.yml found from searchFrom, else the stock table. The
// second result names where the table came from.
func ResolveKeywordTable(explicit, searchFrom string) (*config.Table, string, error) {
	if explicit != "" {
		table, err := LoadKeywordTable(explicit)
		return table, explicit, err
	}
	found, err := FindKeywordFile(searchFrom)
	if err != nil {
		return nil, "", err
	}
	if found == "" {
		return config.DefaultTable(), "", nil
	}
	table, err := LoadKeywordTable(found)
	return table, found, err
}

// MarshalKeywords renders table as a keyword file that LoadKeywordTable
// reads back to an identical table.
func MarshalKeywords(table *config.Table) ([]byte, error) {
	k := table.Keywords()
	kf := keywordFile{
		Declare: stringList(k.Declare),
		Display: stringList(k.Display),
		Print:   k.Print,
		Int:     k.Int,
		String:  k.String,
		For:     k.For,
		If:      k.If,
		Else:    k.Else,
		Switch:  k.Switch,
		Case:    k.Case,
		Default: k.Default,
	}
	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(kf); err != nil {
		return nil, fmt.Errorf("keywords: encode: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return nil, fmt.Errorf("keywords: encode: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteEnvironment writes the bindings of env as a YAML mapping in name
// order.
func WriteEnvironment(w io.Writer, env *runtime.Environment) error {
	doc := &yaml.Node{Kind: yaml.MappingNode}
	env.Each(func(name string, value runtime.Value) bool {
		doc.Content = append(doc.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: name},
			valueNode(value),
		)
		return true
	})
	if len(doc.Content) == 0 {
		doc.Style = yaml.FlowStyle
	}
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(doc); err != nil {
		return fmt.Errorf("environment: encode: %w", err)
	}
	return encoder.Close()
}

func valueNode(v runtime.Value) *yaml.Node {
	node := &yaml.Node{Kind: yaml.ScalarNode, Value: runtime.Format(v)}
	switch v.(type) {
	case runtime.IntegerValue:
		node.Tag = "!!int"
	case runtime.FloatValue:
		node.Tag = "!!float"
	case runtime.BoolValue:
		node.Tag = "!!bool"
	default:
		node.Tag = "!!str"
	}
	return node
}

type stringList []string

func (l stringList) Clone() []string {
	if len(l) == 0 {
		return nil
	}
	out := make([]string, 0, len(l))
	for _, item := range l {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		out = append(out, item)
	}
	return out
}

// UnmarshalYAML accepts either a single keyword or a sequence of them.
func (l *stringList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		if value.Tag == "!!null" || strings.TrimSpace(value.Value) == "" {
			*l = nil
			return nil
		}
		*l = stringList{strings.TrimSpace(value.Value)}
		return nil
	case yaml.SequenceNode:
		items := make([]string, 0, len(value.Content))
		for _, node := range value.Content {
			var str string
			if err := node.Decode(&str); err != nil {
				return err
			}
			items = append(items, strings.TrimSpace(str))
		}
		*l = stringList(items)
		return nil
	case yaml.AliasNode:
		return l.UnmarshalYAML(value.Alias)
	default:
		return fmt.Errorf("expected a keyword or a list of keywords but found %s", value.ShortTag())
	}
}
