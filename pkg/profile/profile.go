// Package profile loads the career profile the chatbot answers from.
package profile

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"dario.cat/mergo"
	"gopkg.in/yaml.v3"
)

// Profile is the person's career document.
type Profile struct {
	Name       string            `yaml:"name"`
	Headline   string            `yaml:"headline"`
	Location   string            `yaml:"location"`
	Summary    string            `yaml:"summary"`
	Links      map[string]string `yaml:"links"`
	Skills     []string          `yaml:"skills"`
	Experience []Experience      `yaml:"experience"`
	ResumePath string            `yaml:"resume_path"`

	// Resume is the text of ResumePath, if it could be read.
	Resume string `yaml:"-"`
	// Source is the file the profile was read from; empty for the default profile.
	Source string `yaml:"-"`
}

// Experience is one position in the career history.
type Experience struct {
	Company    string   `yaml:"company"`
	Role       string   `yaml:"role"`
	Period     string   `yaml:"period"`
	Highlights []string `yaml:"highlights"`
}

// Default returns the minimal profile used when no profile file exists.
func Default(name string) Profile {
	return Profile{
		Name:    name,
		Summary: fmt.Sprintf("%s is a software engineer.", name),
	}
}

// Load reads the YAML profile at path. A missing file yields Default(fallbackName);
// a malformed one is an error. Empty fields are filled from the default profile.
func Load(path, fallbackName string) (Profile, error) {
	def := Default(fallbackName)
	if strings.TrimSpace(path) == "" {
		return def, nil
	}

	content, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return def, nil
	}
	if err != nil {
		return Profile{}, fmt.Errorf("read profile: %w", err)
	}

	var p Profile
	if err := yaml.Unmarshal(content, &p); err != nil {
		return Profile{}, fmt.Errorf("parse profile %s: %w", path, err)
	}
	if err := mergo.Merge(&p, def); err != nil {
		return Profile{}, fmt.Errorf("merge profile defaults: %w", err)
	}
	p.Source = path

	if p.ResumePath != "" {
		resumePath := p.ResumePath
		if !filepath.IsAbs(resumePath) {
			resumePath = filepath.Join(filepath.Dir(path), resumePath)
		}
		if data, err := os.ReadFile(resumePath); err == nil {
			p.Resume = strings.TrimSpace(string(data))
		} else if !errors.Is(err, fs.ErrNotExist) {
			return Profile{}, fmt.Errorf("read resume: %w", err)
		}
	}

	return p, nil
}

// Markdown renders the profile as a prompt context block.
func (p Profile) Markdown() string {
	var sb strings.Builder
	sb.WriteString("## Profile\n")
	fmt.Fprintf(&sb, "- Name: %s\n", singleLine(p.Name))
	if p.Headline != "" {
		fmt.Fprintf(&sb, "- Headline: %s\n", singleLine(p.Headline))
	}
	if p.Location != "" {
		fmt.Fprintf(&sb, "- Location: %s\n", singleLine(p.Location))
	}
	if len(p.Links) > 0 {
		keys := make([]string, 0, len(p.Links))
		for k := range p.Links {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(&sb, "- %s: %s\n", singleLine(k), singleLine(p.Links[k]))
		}
	}

	if s := strings.TrimSpace(p.Summary); s != "" {
		sb.WriteString("\n### Summary\n")
		sb.WriteString(s)
		sb.WriteString("\n")
	}

	if len(p.Skills) > 0 {
		sb.WriteString("\n### Skills\n")
		sb.WriteString(strings.Join(p.Skills, ", "))
		sb.WriteString("\n")
	}

	if len(p.Experience) > 0 {
		sb.WriteString("\n### Experience\n")
		for _, e := range p.Experience {
			fmt.Fprintf(&sb, "- **%s**, %s", singleLine(e.Role), singleLine(e.Company))
			if e.Period != "" {
				fmt.Fprintf(&sb, " (%s)", singleLine(e.Period))
			}
			sb.WriteString("\n")
			for _, h := range e.Highlights {
				fmt.Fprintf(&sb, "  - %s\n", singleLine(h))
			}
		}
	}

	if p.Resume != "" {
		sb.WriteString("\n### Resume\n")
		sb.WriteString(p.Resume)
		sb.WriteString("\n")
	}

	return strings.TrimSpace(sb.String())
}

// singleLine keeps markdown fields single-line and trimmed.
func singleLine(value string) string {
	value = strings.ReplaceAll(value, "\n", " ")
	value = strings.ReplaceAll(value, "\r", " ")
	return strings.TrimSpace(value)
}
