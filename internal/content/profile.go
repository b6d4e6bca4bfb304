// Package content holds the portfolio profile and loads it from a markdown
// file with YAML front matter.
package content

import (
	"bytes"
	_ "embed"
	"fmt"
	"html/template"
	"io"
	"os"
	"strings"

	"github.com/adrg/frontmatter"
	"github.com/yuin/goldmark"
)

// Experience is one entry of the work history.
type Experience struct {
	Title       string `yaml:"title" json:"title"`
	Company     string `yaml:"company" json:"company"`
	Duration    string `yaml:"duration" json:"duration"`
	Description string `yaml:"description" json:"description"`
}

// Education is one degree or certification.
type Education struct {
	Degree      string `yaml:"degree" json:"degree"`
	Institution string `yaml:"institution" json:"institution"`
	Duration    string `yaml:"duration" json:"duration"`
	Description string `yaml:"description" json:"description"`
}

type Project struct {
	Title        string   `yaml:"title" json:"title"`
	Description  string   `yaml:"description" json:"description"`
	Technologies []string `yaml:"technologies" json:"technologies"`
	Image        string   `yaml:"image" json:"image,omitempty"`
	Link         string   `yaml:"link" json:"link,omitempty"`
}

// Skill level is a percentage in [0, 100].
type Skill struct {
	Name  string `yaml:"name" json:"name"`
	Level int    `yaml:"level" json:"level"`
}

type Links struct {
	GitHub   string `yaml:"github" json:"github,omitempty"`
	LinkedIn string `yaml:"linkedin" json:"linkedin,omitempty"`
	Email    string `yaml:"email" json:"email,omitempty"`
	Phone    string `yaml:"phone" json:"phone,omitempty"`
}

// CV points at the downloadable document. Filename is the name suggested
// to the browser, independent of the file on disk.
type CV struct {
	Path     string `yaml:"path" json:"-"`
	Filename string `yaml:"filename" json:"filename"`
}

// Profile is everything rendered on the page.
type Profile struct {
	Name        string       `yaml:"name" json:"name"`
	Headline    string       `yaml:"headline" json:"headline"`
	Links       Links        `yaml:"links" json:"links"`
	Experiences []Experience `yaml:"experience" json:"experience"`
	Education   []Education  `yaml:"education" json:"education"`
	Skills      []Skill      `yaml:"skills" json:"skills"`
	Projects    []Project    `yaml:"projects" json:"projects"`
	CV          CV           `yaml:"cv" json:"cv"`

	// Bio is the markdown body following the front matter.
	Bio string `yaml:"-" json:"bio"`
}

//go:embed default_profile.md
var defaultProfile []byte

// Default returns the embedded profile.
func Default() *Profile {
	p, err := Parse(bytes.NewReader(defaultProfile))
	if err != nil {
		panic(fmt.Sprintf("embedded profile is invalid: %v", err))
	}
	return p
}

// Load reads a profile file from disk.
func Load(path string) (*Profile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening profile: %w", err)
	}
	defer f.Close()

	p, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parsing profile %s: %w", path, err)
	}
	return p, nil
}

// Parse decodes front matter and body from r and validates the result.
func Parse(r io.Reader) (*Profile, error) {
	var p Profile
	body, err := frontmatter.MustParse(r, &p)
	if err != nil {
		return nil, err
	}
	p.Bio = strings.TrimSpace(string(body))
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// Validate checks the fields the page cannot render without.
func (p *Profile) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("profile name is required")
	}
	for _, s := range p.Skills {
		if s.Level < 0 || s.Level > 100 {
			return fmt.Errorf("skill %q: level %d out of range 0-100", s.Name, s.Level)
		}
	}
	return nil
}

// BioHTML renders the biography markdown.
func (p *Profile) BioHTML() (template.HTML, error) {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(p.Bio), &buf); err != nil {
		return "", fmt.Errorf("rendering bio: %w", err)
	}
	return template.HTML(buf.String()), nil
}

// Source resolves the profile: the file at path when set, the embedded
// default otherwise.
func Source(path string) (*Profile, error) {
	if path == "" {
		return Default(), nil
	}
	return Load(path)
}
