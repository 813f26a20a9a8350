package manifest

import (
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"text/template"

	"github.com/pthm/mailpreview"
)

// fixture is the preview target behind every manifest preview.
type fixture struct {
	dir     string
	email   EmailDecl
	details any
}

// Preview returns the email with its templates unrendered.
func (f *fixture) Preview() (any, error) {
	return f.build(nil)
}

// PreviewWith renders the subject and bodies with opts as template data.
func (f *fixture) PreviewWith(opts mailpreview.Options) (any, error) {
	return f.build(opts.Map())
}

func (f *fixture) PreviewDetails() (mailpreview.Details, error) {
	return mailpreview.DecodeDetails(f.details)
}

func (f *fixture) build(data map[string]any) (mailpreview.Email, error) {
	e := mailpreview.Email{
		From:    f.email.From,
		To:      slices.Clone(f.email.To),
		Cc:      slices.Clone(f.email.Cc),
		Bcc:     slices.Clone(f.email.Bcc),
		ReplyTo: f.email.ReplyTo,
		Headers: maps.Clone(f.email.Headers),
	}

	var err error
	if e.Subject, err = render("subject", f.email.Subject, data); err != nil {
		return mailpreview.Email{}, err
	}
	if e.HTMLBody, err = f.body("html", f.email.HTML, f.email.HTMLFile, data); err != nil {
		return mailpreview.Email{}, err
	}
	if e.TextBody, err = f.body("text", f.email.Text, f.email.TextFile, data); err != nil {
		return mailpreview.Email{}, err
	}

	for _, a := range f.email.Attachments {
		att := mailpreview.Attachment{
			Filename:    a.Filename,
			ContentType: a.ContentType,
		}
		switch {
		case a.Path != "":
			att.Path = f.resolve(a.Path)
		case a.Content != "":
			att.Data = []byte(a.Content)
		}
		e.Attachments = append(e.Attachments, att)
	}
	return e, nil
}

func (f *fixture) body(name, inline, file string, data map[string]any) (string, error) {
	src := inline
	if file != "" {
		b, err := os.ReadFile(f.resolve(file))
		if err != nil {
			return "", fmt.Errorf("manifest: reading %s body: %w", name, err)
		}
		src = string(b)
	}
	return render(name, src, data)
}

func (f *fixture) resolve(path string) string {
	if f.dir == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(f.dir, path)
}

// render executes src as a template with data. A nil data map leaves src
// as is. Keys missing from data are an error.
func render(name, src string, data map[string]any) (string, error) {
	if data == nil || !strings.Contains(src, "{{") {
		return src, nil
	}
	t, err := template.New(name).Option("missingkey=error").Parse(src)
	if err != nil {
		return "", fmt.Errorf("manifest: parsing %s template: %w", name, err)
	}
	var sb strings.Builder
	if err := t.Execute(&sb, data); err != nil {
		return "", fmt.Errorf("manifest: rendering %s template: %w", name, err)
	}
	return sb.String(), nil
}
