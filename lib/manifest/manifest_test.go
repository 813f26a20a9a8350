package manifest

import (
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/pthm/mailpreview"
	"github.com/pthm/mailpreview/lib/encoding"
)

func mustLoad(t *testing.T, name string) *mailpreview.Registry {
	t.Helper()
	reg, err := LoadFile(filepath.Join("testdata", name))
	if err != nil {
		t.Fatalf("LoadFile(%s) error = %v", name, err)
	}
	return reg
}

func mustEvaluate(t *testing.T, reg *mailpreview.Registry, path string) mailpreview.Preview {
	t.Helper()
	p, err := mailpreview.Evaluate(reg, path)
	if err != nil {
		t.Fatalf("Evaluate(%s) error = %v", path, err)
	}
	return p
}

func build(t *testing.T, m *Manifest) (*mailpreview.Registry, error) {
	t.Helper()
	return m.Apply(mailpreview.NewBuilder()).Build()
}

func TestFormatsProduceEqualRegistries(t *testing.T) {
	fromHCL := mustLoad(t, "previews.hcl")
	fromYAML := mustLoad(t, "previews.yaml")

	hclSnap, err := fromHCL.Get()
	if err != nil {
		t.Fatalf("hcl Get() error = %v", err)
	}
	yamlSnap, err := fromYAML.Get()
	if err != nil {
		t.Fatalf("yaml Get() error = %v", err)
	}
	if h, y := encoding.NewIndex(hclSnap), encoding.NewIndex(yamlSnap); !reflect.DeepEqual(h, y) {
		t.Errorf("indexes differ:\nhcl:  %+v\nyaml: %+v", h, y)
	}

	for _, path := range []string{"auth.reset_password", "welcome"} {
		h := mustEvaluate(t, fromHCL, path)
		y := mustEvaluate(t, fromYAML, path)
		if !reflect.DeepEqual(h.Artifact, y.Artifact) {
			t.Errorf("%s artifacts differ:\nhcl:  %+v\nyaml: %+v", path, h.Artifact, y.Artifact)
		}
		if !reflect.DeepEqual(h.Options, y.Options) {
			t.Errorf("%s options differ:\nhcl:  %v\nyaml: %v", path, h.Options, y.Options)
		}
	}
}

func TestLoadFileStructure(t *testing.T) {
	for _, name := range []string{"previews.hcl", "previews.yaml"} {
		t.Run(name, func(t *testing.T) {
			snap, err := mustLoad(t, name).Get()
			if err != nil {
				t.Fatalf("Get() error = %v", err)
			}
			if !snap.Sort.IsNone() {
				t.Error("sort = none was not applied")
			}
			if len(snap.Groups) != 1 || snap.Groups[0].Title != "Authentication" {
				t.Fatalf("groups = %+v", snap.Groups)
			}

			reset, ok := snap.Find("auth.reset_password")
			if !ok {
				t.Fatal("auth.reset_password missing")
			}
			if reset.Group != "auth" {
				t.Errorf("group = %q", reset.Group)
			}
			want := mailpreview.Options{
				mailpreview.Opt("name", "Ada"),
				mailpreview.Opt("locale", "en"),
				mailpreview.Opt("token", "abc123"),
			}
			if !reflect.DeepEqual(reset.Options, want) {
				t.Errorf("options = %v, want %v", reset.Options, want)
			}
			if v, _ := reset.Metadata.Tags.Get("audience"); v != "customers" {
				t.Errorf("tags = %v", reset.Metadata.Tags)
			}
		})
	}
}

func TestFixtureRendersTemplatesWithOptions(t *testing.T) {
	p := mustEvaluate(t, mustLoad(t, "previews.hcl"), "auth.reset_password")
	email, ok := p.Artifact.(mailpreview.Email)
	if !ok {
		t.Fatalf("artifact = %T, want Email", p.Artifact)
	}

	if email.Subject != "Reset your password, Ada" {
		t.Errorf("Subject = %q", email.Subject)
	}
	if email.TextBody != "Use token abc123 to reset your password." {
		t.Errorf("TextBody = %q", email.TextBody)
	}
	if email.HTMLBody != "<p>Hi Ada, your token is <code>abc123</code>.</p>\n" {
		t.Errorf("HTMLBody = %q", email.HTMLBody)
	}
}

func TestFixtureWithoutOptionsFallsBackToSimpleForm(t *testing.T) {
	p := mustEvaluate(t, mustLoad(t, "previews.yaml"), "welcome")
	email := p.Artifact.(mailpreview.Email)

	if email.Subject != "Welcome, {{.name}}" {
		t.Errorf("Subject = %q, want template source", email.Subject)
	}
}

func TestFixtureAttachments(t *testing.T) {
	p := mustEvaluate(t, mustLoad(t, "previews.hcl"), "welcome")

	inline, err := mailpreview.ReadAttachmentAt(p, 0)
	if err != nil {
		t.Fatalf("ReadAttachmentAt(0) error = %v", err)
	}
	if string(inline.Data) != "Getting started" || inline.Filename != "guide.txt" {
		t.Errorf("inline = %+v", inline)
	}

	file, err := mailpreview.ReadAttachmentAt(p, 1)
	if err != nil {
		t.Fatalf("ReadAttachmentAt(1) error = %v", err)
	}
	if file.Filename != "logo.png" || !strings.HasPrefix(string(file.Data), "\x89PNG") {
		t.Errorf("file = %+v", file)
	}
}

func TestNestedGroupRejected(t *testing.T) {
	hclSrc := `
group "outer" {
  title = "Outer"

  group "inner" {
    title = "Inner"
  }
}
`
	yamlSrc := `
previews:
  - group: outer
    title: Outer
    previews:
      - group: inner
        title: Inner
`
	fromHCL, err := DecodeHCL([]byte(hclSrc), "nested.hcl")
	if err != nil {
		t.Fatalf("DecodeHCL() error = %v", err)
	}
	fromYAML, err := DecodeYAML([]byte(yamlSrc))
	if err != nil {
		t.Fatalf("DecodeYAML() error = %v", err)
	}

	for name, m := range map[string]*Manifest{"hcl": fromHCL, "yaml": fromYAML} {
		_, err := build(t, m)
		if !mailpreview.IsDefinitionError(err) {
			t.Errorf("%s: Build() error = %v, want definition error", name, err)
		}
		if err != nil && !strings.Contains(err.Error(), "nested") {
			t.Errorf("%s: error %q does not mention nesting", name, err)
		}
	}
}

func TestNonStringPathRejected(t *testing.T) {
	tests := []string{
		"previews:\n  - preview: 42\n",
		"previews:\n  - preview: [a, b]\n",
		"previews:\n  - group: true\n    title: T\n",
	}
	for _, src := range tests {
		_, err := DecodeYAML([]byte(src))
		if !mailpreview.IsDefinitionError(err) {
			t.Errorf("DecodeYAML(%q) error = %v, want definition error", src, err)
		}
	}

	if _, err := DecodeYAML([]byte("previews:\n  - preview: \"42\"\n")); err != nil {
		t.Errorf("quoted numeric path rejected: %v", err)
	}
}

func TestUnknownAttributesRejected(t *testing.T) {
	hclTests := map[string]string{
		"top level attribute": `colour = "red"`,
		"group attribute":     "group \"g\" {\n  title = \"G\"\n  colour = \"red\"\n}\n",
		"email attribute":     "preview \"p\" {\n  email {\n    colour = \"red\"\n  }\n}\n",
		"unknown block":       `template "x" {}`,
		"missing label":       `preview { }`,
	}
	for name, src := range hclTests {
		t.Run("hcl/"+name, func(t *testing.T) {
			if _, err := DecodeHCL([]byte(src), "test.hcl"); !mailpreview.IsDefinitionError(err) {
				t.Errorf("DecodeHCL() error = %v, want definition error", err)
			}
		})
	}

	yamlTests := map[string]string{
		"top level key": "colour: red\n",
		"entry key":     "previews:\n  - preview: p\n    colour: red\n",
		"email key":     "previews:\n  - preview: p\n    email: {colour: red}\n",
		"empty entry":   "previews:\n  - {}\n",
		"both keys":     "previews:\n  - preview: p\n    group: g\n",
		"group email":   "previews:\n  - group: g\n    title: G\n    email: {}\n",
		"bad sort":      "sort: random\n",
	}
	for name, src := range yamlTests {
		t.Run("yaml/"+name, func(t *testing.T) {
			if _, err := DecodeYAML([]byte(src)); !mailpreview.IsDefinitionError(err) {
				t.Errorf("DecodeYAML() error = %v, want definition error", err)
			}
		})
	}
}

func TestDetailsValidatedOnEvaluation(t *testing.T) {
	src := `
preview "p" {
  details = { title = "P", colour = "red" }
  email { subject = "hi" }
}

preview "q" {
  details = "just a title"
  email { subject = "hi" }
}
`
	m, err := DecodeHCL([]byte(src), "details.hcl")
	if err != nil {
		t.Fatalf("DecodeHCL() error = %v", err)
	}
	reg, err := build(t, m)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	for _, path := range []string{"p", "q"} {
		if _, err := mailpreview.Evaluate(reg, path); !mailpreview.IsValidationError(err) {
			t.Errorf("Evaluate(%s) error = %v, want validation error", path, err)
		}
	}
}

func TestOptionValueTypes(t *testing.T) {
	hclSrc := `
preview "p" {
  options = { count = 2, ratio = 1.5, enabled = true, names = ["a", "b"] }
  details = { title = "P" }
  email { subject = "{{.count}} {{.ratio}} {{.enabled}} {{index .names 1}}" }
}
`
	yamlSrc := `
previews:
  - preview: p
    options: {count: 2, ratio: 1.5, enabled: true, names: [a, b]}
    details: {title: P}
    email: {subject: "{{.count}} {{.ratio}} {{.enabled}} {{index .names 1}}"}
`
	fromHCL, err := DecodeHCL([]byte(hclSrc), "types.hcl")
	if err != nil {
		t.Fatalf("DecodeHCL() error = %v", err)
	}
	fromYAML, err := DecodeYAML([]byte(yamlSrc))
	if err != nil {
		t.Fatalf("DecodeYAML() error = %v", err)
	}

	for name, m := range map[string]*Manifest{"hcl": fromHCL, "yaml": fromYAML} {
		reg, err := build(t, m)
		if err != nil {
			t.Fatalf("%s: Build() error = %v", name, err)
		}
		p := mustEvaluate(t, reg, "p")
		if v, _ := p.Options.Get("count"); v != 2 {
			t.Errorf("%s: count = %#v, want int 2", name, v)
		}
		if got := p.Artifact.(mailpreview.Email).Subject; got != "2 1.5 true b" {
			t.Errorf("%s: Subject = %q", name, got)
		}
	}
}

func TestMissingTemplateKeyFails(t *testing.T) {
	src := `
preview "p" {
  options = { locale = "fr" }
  details = { title = "P" }
  email { subject = "Hello {{.name}}" }
}
`
	m, err := DecodeHCL([]byte(src), "missing.hcl")
	if err != nil {
		t.Fatalf("DecodeHCL() error = %v", err)
	}
	reg, err := build(t, m)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if _, err := mailpreview.Evaluate(reg, "p"); err == nil || !strings.Contains(err.Error(), "name") {
		t.Errorf("Evaluate() error = %v, want missing key error", err)
	}
}

func TestMissingBodyFile(t *testing.T) {
	m, err := DecodeYAML([]byte("previews:\n  - preview: p\n    details: {title: P}\n    email: {html_file: nope.html}\n"))
	if err != nil {
		t.Fatalf("DecodeYAML() error = %v", err)
	}
	m.Dir = t.TempDir()
	reg, err := build(t, m)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	_, err = mailpreview.Evaluate(reg, "p")
	if err == nil || mailpreview.IsNotFound(err) {
		t.Errorf("Evaluate() error = %v, want IO error", err)
	}
}

func TestLoadFileErrors(t *testing.T) {
	if _, err := LoadFile(filepath.Join("testdata", "logo.png")); err == nil {
		t.Error("LoadFile(.png) error = nil")
	}
	if _, err := LoadFile(filepath.Join("testdata", "missing.hcl")); err == nil {
		t.Error("LoadFile(missing) error = nil")
	}
}

func TestEmptyYAML(t *testing.T) {
	m, err := DecodeYAML(nil)
	if err != nil {
		t.Fatalf("DecodeYAML(nil) error = %v", err)
	}
	reg, err := build(t, m)
	if err != nil || reg.Len() != 0 {
		t.Errorf("empty manifest: reg = %v, err = %v", reg, err)
	}
}
