// Package manifest declares previews in HCL or YAML files instead of Go.
//
// Every preview in a manifest is a fixture: an email whose subject, bodies
// and attachments come from the manifest and files next to it. Subject and
// bodies are text/template sources rendered with the preview's merged
// options; a preview with no options shows them unrendered.
//
//	group "auth" {
//	  title   = "Authentication"
//	  options = { name = "Ada" }
//
//	  preview "reset_password" {
//	    details = { title = "Reset password" }
//	    email {
//	      subject   = "Reset your password, {{.name}}"
//	      html_file = "reset_password.html"
//	    }
//	  }
//	}
package manifest

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pthm/mailpreview"
)

// Manifest is a decoded manifest file.
type Manifest struct {
	// Dir resolves relative file paths. LoadFile sets it to the manifest's
	// directory; empty means the working directory.
	Dir   string
	Sort  string // "alpha", "none" or empty
	Items []Item
}

// Item is a top-level declaration. Exactly one field is set.
type Item struct {
	Group   *GroupDecl
	Preview *PreviewDecl
}

// GroupDecl declares a group.
type GroupDecl struct {
	Path     string
	Title    string
	Options  mailpreview.Options
	Previews []PreviewDecl
	// Groups holds groups declared inside this one. They are rejected
	// when the manifest is applied.
	Groups []GroupDecl
}

// PreviewDecl declares a fixture preview.
type PreviewDecl struct {
	Path    string
	Options mailpreview.Options
	// Details is the raw details mapping, validated on evaluation.
	Details any
	Email   EmailDecl
}

// EmailDecl is the content of a fixture email.
type EmailDecl struct {
	Subject     string
	From        string
	To          []string
	Cc          []string
	Bcc         []string
	ReplyTo     string
	Headers     map[string]string
	HTML        string
	HTMLFile    string
	Text        string
	TextFile    string
	Attachments []AttachmentDecl
}

// AttachmentDecl is a fixture attachment: inline Content or a file Path.
type AttachmentDecl struct {
	Filename    string
	ContentType string
	Content     string
	Path        string
}

// LoadFile reads a manifest and builds a registry from it. The format is
// chosen by extension: .hcl, or .yaml/.yml.
func LoadFile(path string) (*mailpreview.Registry, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("manifest: reading %s: %w", path, err)
	}

	var m *Manifest
	switch strings.ToLower(filepath.Ext(path)) {
	case ".hcl":
		m, err = DecodeHCL(src, path)
	case ".yaml", ".yml":
		m, err = DecodeYAML(src)
	default:
		return nil, fmt.Errorf("manifest: %s: unsupported extension %q (want .hcl, .yaml or .yml)", path, filepath.Ext(path))
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	m.Dir = filepath.Dir(path)

	reg, err := m.Apply(mailpreview.NewBuilder()).Build()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return reg, nil
}

// Apply declares the manifest's groups and previews on b in manifest order.
func (m *Manifest) Apply(b *mailpreview.Builder) *mailpreview.Builder {
	switch m.Sort {
	case "none":
		b.Sort(mailpreview.SortNone)
	case "alpha":
		b.Sort(mailpreview.SortAlpha)
	}

	for _, item := range m.Items {
		switch {
		case item.Group != nil:
			m.applyGroup(b, *item.Group)
		case item.Preview != nil:
			m.applyPreview(b, *item.Preview)
		}
	}
	return b
}

func (m *Manifest) applyGroup(b *mailpreview.Builder, g GroupDecl) {
	b.Group(g.Path, g.Title, g.Options, func(b *mailpreview.Builder) {
		for _, nested := range g.Groups {
			m.applyGroup(b, nested)
		}
		for _, p := range g.Previews {
			m.applyPreview(b, p)
		}
	})
}

func (m *Manifest) applyPreview(b *mailpreview.Builder, p PreviewDecl) {
	b.Preview(p.Path, &fixture{dir: m.Dir, email: p.Email, details: p.Details}, p.Options...)
}

func definitionErrorf(format string, args ...any) error {
	return fmt.Errorf("%w: manifest: %s", mailpreview.ErrDefinition, fmt.Sprintf(format, args...))
}

func parseSort(s string) (string, error) {
	switch s {
	case "", "alpha", "none":
		return s, nil
	}
	return "", definitionErrorf("sort must be \"alpha\" or \"none\", got %q", s)
}
