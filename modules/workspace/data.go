package workspace

import (
	"bytes"
	_ "embed"
	"errors"
	"slices"

	"gopkg.in/yaml.v3"
)

//go:embed fixtures/workspace.yaml
var fixtures []byte

type NavItem struct {
	ID    string `yaml:"id" json:"id"`
	Label string `yaml:"label" json:"label"`
	Path  string `yaml:"path" json:"path"`
}

type LogEntry struct {
	Time    string `yaml:"time" json:"time"`
	Message string `yaml:"message" json:"message"`
}

type TimelineEvent struct {
	Date        string `yaml:"date" json:"date"`
	Title       string `yaml:"title" json:"title"`
	Description string `yaml:"description" json:"description"`
}

type Commit struct {
	Hash    string `yaml:"hash" json:"hash"`
	Message string `yaml:"message" json:"message"`
	Author  string `yaml:"author" json:"author"`
}

// File is one code snippet shown in the editor.
type File struct {
	Name    string `json:"name"`
	Content string `json:"content"`
}

// Data is the mock workspace shown on the dashboard.
type Data struct {
	Nav      []NavItem         `yaml:"nav"`
	Snippets map[string]string `yaml:"snippets"`
	Logs     []LogEntry        `yaml:"logs"`
	Timeline []TimelineEvent   `yaml:"timeline"`
	Commits  []Commit          `yaml:"commits"`
}

// Load parses the fixtures embedded in the binary.
func Load() (*Data, error) {
	return Parse(fixtures)
}

// Parse decodes workspace fixtures. Unknown keys are rejected.
func Parse(b []byte) (*Data, error) {
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)

	var d Data
	if err := dec.Decode(&d); err != nil {
		return nil, errors.Join(ErrInvalidFixtures, err)
	}
	return &d, nil
}

// File returns the snippet called name.
func (d *Data) File(name string) (File, bool) {
	content, ok := d.Snippets[name]
	if !ok {
		return File{}, false
	}
	return File{Name: name, Content: content}, true
}

// FileNames lists the snippets in name order.
func (d *Data) FileNames() []string {
	names := make([]string, 0, len(d.Snippets))
	for name := range d.Snippets {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
