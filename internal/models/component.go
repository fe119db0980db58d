package models

import "strings"

// Kind identifies the source-control tool a component is hosted in.
type Kind string

const (
	KindHg  Kind = "hg"
	KindGit Kind = "git"
)

// Valid reports whether k is one of the known kinds.
func (k Kind) Valid() bool {
	return k == KindHg || k == KindGit
}

// InferKind guesses the source-control kind from a repository URL.
func InferKind(url string) Kind {
	u := strings.ToLower(strings.TrimSpace(url))
	switch {
	case strings.HasSuffix(u, ".git"),
		strings.HasPrefix(u, "git://"),
		strings.HasPrefix(u, "git@"),
		strings.HasPrefix(u, "git+"),
		strings.Contains(u, "github.com"),
		strings.Contains(u, "gitlab.com"):
		return KindGit
	default:
		return KindHg
	}
}

// ComponentConfig describes one participant of the matrix as read from config.
type ComponentConfig struct {
	ID            string   `yaml:"id" toml:"id" json:"id"`
	URL           string   `yaml:"url" toml:"url" json:"url"`
	Kind          Kind     `yaml:"kind,omitempty" toml:"kind,omitempty" json:"kind,omitempty"`
	VersionFormat string   `yaml:"version_format,omitempty" toml:"version_format,omitempty" json:"version_format,omitempty"`
	Build         []string `yaml:"build,omitempty" toml:"build,omitempty" json:"build,omitempty"`
	Fixups        []Fixup  `yaml:"fixups,omitempty" toml:"fixups,omitempty" json:"fixups,omitempty"`
}

// EffectiveKind returns the explicit kind, or the one inferred from the URL.
func (c ComponentConfig) EffectiveKind() Kind {
	if c.Kind != "" {
		return c.Kind
	}
	return InferKind(c.URL)
}

// Fixup is a post-checkout repair applied to versions inside [Since, Before).
// Exactly one of Patch, WriteFile or Command is set.
type Fixup struct {
	Name      string   `yaml:"name,omitempty" toml:"name,omitempty" json:"name,omitempty"`
	Since     string   `yaml:"since,omitempty" toml:"since,omitempty" json:"since,omitempty"`
	Before    string   `yaml:"before,omitempty" toml:"before,omitempty" json:"before,omitempty"`
	Patch     string   `yaml:"patch,omitempty" toml:"patch,omitempty" json:"patch,omitempty"`
	WriteFile string   `yaml:"write_file,omitempty" toml:"write_file,omitempty" json:"write_file,omitempty"`
	Content   string   `yaml:"content,omitempty" toml:"content,omitempty" json:"content,omitempty"`
	Command   []string `yaml:"command,omitempty" toml:"command,omitempty" json:"command,omitempty"`
}

// Label returns a human readable identifier for logs.
func (f Fixup) Label() string {
	switch {
	case f.Name != "":
		return f.Name
	case f.Patch != "":
		return "patch " + f.Patch
	case f.WriteFile != "":
		return "write " + f.WriteFile
	case len(f.Command) > 0:
		return strings.Join(f.Command, " ")
	default:
		return "empty fixup"
	}
}
