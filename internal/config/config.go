// Package config decodes project configuration, directory overrides and
// document front matter.
package config

import (
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/alnah/go-codex/internal/dateutil"
	"github.com/alnah/go-codex/internal/yamlutil"
)

// File names recognized in a project tree.
const (
	ProjectFile      = "codex.yml"
	GroupFile        = "group.yml"
	DefaultBuildPath = "dist"
)

// ErrConfig is the kind shared by every configuration error.
var ErrConfig = errors.New("configuration error")

// Sentinel errors for config operations.
var (
	ErrConfigNotFound = fmt.Errorf("%w: %s not found", ErrConfig, ProjectFile)
	ErrConfigParse    = fmt.Errorf("%w: failed to parse", ErrConfig)
	ErrMissingName    = fmt.Errorf("%w: name is required", ErrConfig)
	ErrFieldTooLong   = fmt.Errorf("%w: field exceeds maximum length", ErrConfig)
	ErrInvalidField   = fmt.Errorf("%w: invalid field", ErrConfig)
)

// Field length limits.
const (
	MaxNameLength     = 200  // Project and group display names
	MaxURLLength      = 2048 // Browser limit
	MaxAuthorLength   = 200
	MaxPathLength     = 1024
	MaxTitleLength    = 300
	MaxSubtitleLength = 500
	MaxTagLength      = 100
	MaxTags           = 50
)

// Project holds the per-project configuration read from codex.yml.
type Project struct {
	Name       string `yaml:"name"`
	BuildPath  string `yaml:"build_path,omitempty"`
	RepoURL    string `yaml:"repo_url,omitempty"`
	ProjectURL string `yaml:"project_url,omitempty"`
	BaseURL    string `yaml:"base_url,omitempty"`
	Author     string `yaml:"author,omitempty"`
	DateFormat string `yaml:"date_format,omitempty"`
}

// Validate checks required fields, lengths and path safety.
// Callers constructing Project manually should call this.
func (p *Project) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return ErrMissingName
	}

	fields := []struct {
		name  string
		value string
		max   int
	}{
		{"name", p.Name, MaxNameLength},
		{"build_path", p.BuildPath, MaxPathLength},
		{"repo_url", p.RepoURL, MaxURLLength},
		{"project_url", p.ProjectURL, MaxURLLength},
		{"base_url", p.BaseURL, MaxURLLength},
		{"author", p.Author, MaxAuthorLength},
	}
	for _, f := range fields {
		if err := validateFieldLength(f.name, f.value, f.max); err != nil {
			return err
		}
	}

	if p.BuildPath != "" {
		clean := path.Clean(strings.ReplaceAll(p.BuildPath, "\\", "/"))
		if strings.HasPrefix(clean, "/") || clean == "." || clean == ".." || strings.HasPrefix(clean, "../") {
			return fmt.Errorf("%w: build_path %q must be a directory inside the project", ErrInvalidField, p.BuildPath)
		}
	}

	if p.DateFormat != "" {
		if _, err := dateutil.Compile(p.DateFormat); err != nil {
			return fmt.Errorf("%w: date_format: %v", ErrInvalidField, err)
		}
	}

	return nil
}

// BuildDir returns the build path relative to the project root, cleaned.
func (p *Project) BuildDir() string {
	if p.BuildPath == "" {
		return DefaultBuildPath
	}
	return path.Clean(strings.ReplaceAll(p.BuildPath, "\\", "/"))
}

// ParseProject decodes and validates codex.yml content.
// Unknown keys are rejected so typos surface as configuration errors.
func ParseProject(data []byte) (*Project, error) {
	var p Project
	if err := yamlutil.UnmarshalOptional(data, &p, true); err != nil {
		return nil, fmt.Errorf("%w %s: %v", ErrConfigParse, ProjectFile, err)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if p.BuildPath == "" {
		p.BuildPath = DefaultBuildPath
	}
	return &p, nil
}

// Menu is the directory- or file-derived presentation metadata that
// overrides patch.
type Menu struct {
	Name     string
	Position int
	Exclude  bool
}

// GroupOverride is the optional per-directory group.yml.
// Every field is optional; only present fields replace defaults.
type GroupOverride struct {
	Name         *string `yaml:"name"`
	MenuPosition *int    `yaml:"menu_position"`
	MenuExclude  *bool   `yaml:"menu_exclude"`
}

// ParseGroup decodes group.yml content. A blank file is an empty override.
func ParseGroup(data []byte) (GroupOverride, error) {
	var o GroupOverride
	if err := yamlutil.UnmarshalOptional(data, &o, true); err != nil {
		return GroupOverride{}, fmt.Errorf("%w %s: %v", ErrConfigParse, GroupFile, err)
	}
	if o.Name != nil {
		if err := validateFieldLength("name", *o.Name, MaxNameLength); err != nil {
			return GroupOverride{}, err
		}
	}
	return o, nil
}

// Apply patches m with the fields present in o.
func (o GroupOverride) Apply(m Menu) Menu {
	patch(&m.Name, o.Name)
	patch(&m.Position, o.MenuPosition)
	patch(&m.Exclude, o.MenuExclude)
	return m
}

// FrontMatter is the leading YAML block of a document.
// Unknown keys are tolerated so authors can keep their own metadata.
type FrontMatter struct {
	Title        *string  `yaml:"title"`
	Subtitle     *string  `yaml:"subtitle"`
	Tags         []string `yaml:"tags"`
	MenuPosition *int     `yaml:"menu_position"`
	MenuExclude  *bool    `yaml:"menu_exclude"`
	JSONSchema   *string  `yaml:"json_schema"`
	Date         *string  `yaml:"date"`
	PDFExclude   *bool    `yaml:"pdf_exclude"`
}

// Validate checks field lengths.
func (f *FrontMatter) Validate() error {
	if f.Title != nil {
		if err := validateFieldLength("title", *f.Title, MaxTitleLength); err != nil {
			return err
		}
	}
	if f.Subtitle != nil {
		if err := validateFieldLength("subtitle", *f.Subtitle, MaxSubtitleLength); err != nil {
			return err
		}
	}
	if len(f.Tags) > MaxTags {
		return fmt.Errorf("%w: tags (%d entries, max %d)", ErrFieldTooLong, len(f.Tags), MaxTags)
	}
	for _, tag := range f.Tags {
		if err := validateFieldLength("tags", tag, MaxTagLength); err != nil {
			return err
		}
	}
	return nil
}

// Apply patches the menu metadata m with the fields present in f.
// The title maps onto the menu name.
func (f *FrontMatter) Apply(m Menu) Menu {
	patch(&m.Name, f.Title)
	patch(&m.Position, f.MenuPosition)
	patch(&m.Exclude, f.MenuExclude)
	return m
}

// patch overwrites *dst with *src when src is present.
func patch[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

// validateFieldLength returns an error if value exceeds maxLength.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}
