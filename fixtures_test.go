package mailpreview

import "errors"

// simpleEmail implements only the zero-argument forms.
type simpleEmail struct {
	subject      string
	title        string
	previewCalls *int
	detailCalls  *int
}

func (s simpleEmail) Preview() (any, error) {
	if s.previewCalls != nil {
		*s.previewCalls++
	}
	return Email{Subject: s.subject}, nil
}

func (s simpleEmail) PreviewDetails() (Details, error) {
	if s.detailCalls != nil {
		*s.detailCalls++
	}
	return Details{Title: s.title}, nil
}

// localizedEmail implements both forms.
type localizedEmail struct{}

func (localizedEmail) Preview() (any, error) {
	return Email{Subject: "Welcome"}, nil
}

func (localizedEmail) PreviewWith(opts Options) (any, error) {
	locale, _ := opts.Get("locale")
	if locale == "fr" {
		return Email{Subject: "Bienvenue"}, nil
	}
	return Email{Subject: "Welcome"}, nil
}

func (localizedEmail) PreviewDetails() (Details, error) {
	return Details{Title: "Welcome"}, nil
}

func (localizedEmail) PreviewDetailsWith(opts Options) (Details, error) {
	locale, _ := opts.Get("locale")
	s, _ := locale.(string)
	return Details{Title: "Welcome", Tags: Tags{{Key: "locale", Value: s}}}, nil
}

var errBroken = errors.New("fixture exploded")

// brokenEmail fails in both roles.
type brokenEmail struct{}

func (brokenEmail) Preview() (any, error)            { return nil, errBroken }
func (brokenEmail) PreviewDetails() (Details, error) { return Details{}, errBroken }

// untitledEmail returns details without a title.
type untitledEmail struct{}

func (untitledEmail) Preview() (any, error) { return Email{}, nil }
func (untitledEmail) PreviewDetails() (Details, error) {
	return Details{Description: "no title here"}, nil
}

func mustPreview(t interface{ Fatalf(string, ...any) }, path string, target any, opts ...Option) Preview {
	reg, err := NewBuilder().Preview(path, target, opts...).Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	p, ok := reg.Lookup(NormalizePath(path))
	if !ok {
		t.Fatalf("preview %q not registered", path)
	}
	return p
}
