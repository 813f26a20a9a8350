package mailpreview

import (
	"errors"
	"strings"
	"testing"
)

func TestRegistryEndToEnd(t *testing.T) {
	reg, err := NewBuilder().
		Group("auth", "Auth", nil, func(b *Builder) {
			b.Preview("/reset_password", simpleEmail{title: "Reset password"})
		}).
		Preview("/welcome", simpleEmail{title: "Welcome"}).
		Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	snap, err := reg.Get()
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}

	if len(snap.Previews) != 2 {
		t.Fatalf("len(Previews) = %d, want 2", len(snap.Previews))
	}
	if snap.Previews[0].Path != "auth.reset_password" {
		t.Errorf("Previews[0].Path = %q, want auth.reset_password", snap.Previews[0].Path)
	}
	if snap.Previews[0].Group != "auth" {
		t.Errorf("Previews[0].Group = %q, want auth", snap.Previews[0].Group)
	}
	if snap.Previews[1].Path != "welcome" {
		t.Errorf("Previews[1].Path = %q, want welcome", snap.Previews[1].Path)
	}
	if len(snap.Groups) != 1 || snap.Groups[0].Path != "auth" || snap.Groups[0].Title != "Auth" {
		t.Errorf("Groups = %+v, want one auth group", snap.Groups)
	}
	for _, p := range snap.Previews {
		if p.Metadata == nil {
			t.Errorf("preview %q has no metadata", p.Path)
		}
		if p.HasArtifact() {
			t.Errorf("preview %q artifact resolved by Get", p.Path)
		}
	}
	if !snap.Sort.IsAlpha() {
		t.Error("default sort should be alphabetical")
	}
}

func TestGroupOptionsInherited(t *testing.T) {
	groupOpts := Options{Opt("brand", "acme"), Opt("locale", "en")}
	reg := NewBuilder().
		Group("billing", "Billing", groupOpts, func(b *Builder) {
			b.Preview("invoice", simpleEmail{title: "Invoice"})
			b.Preview("receipt", simpleEmail{title: "Receipt"}, Opt("locale", "fr"))
		}).
		MustBuild()

	invoice, _ := reg.Lookup("billing.invoice")
	if len(invoice.Options) != 2 || invoice.Options[0] != groupOpts[0] || invoice.Options[1] != groupOpts[1] {
		t.Errorf("invoice options = %v, want %v", invoice.Options, groupOpts)
	}

	receipt, _ := reg.Lookup("billing.receipt")
	want := Options{Opt("brand", "acme"), Opt("locale", "en"), Opt("locale", "fr")}
	if len(receipt.Options) != len(want) {
		t.Fatalf("receipt options = %v, want %v", receipt.Options, want)
	}
	for i := range want {
		if receipt.Options[i] != want[i] {
			t.Errorf("receipt option %d = %v, want %v", i, receipt.Options[i], want[i])
		}
	}
}

func TestPreviewOptionOverridesGroupOption(t *testing.T) {
	locale := func(opts Options) string {
		v, _ := opts.Get("locale")
		s, _ := v.(string)
		return s
	}
	target := Target{
		Producer: PreviewWithFunc(func(opts Options) (any, error) {
			return locale(opts), nil
		}),
		Details: DetailsWithFunc(func(opts Options) (Details, error) {
			return Details{Title: "Reset (" + locale(opts) + ")"}, nil
		}),
	}
	reg := NewBuilder().
		Group("auth", "Auth", Options{Opt("locale", "en")}, func(b *Builder) {
			b.Preview("reset", target)
			b.Preview("reset_fr", target, Opt("locale", "fr"))
		}).
		MustBuild()

	tests := []struct {
		path, artifact, title string
	}{
		{"auth.reset", "en", "Reset (en)"},
		{"auth.reset_fr", "fr", "Reset (fr)"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			p, err := Evaluate(reg, tt.path)
			if err != nil {
				t.Fatalf("Evaluate: %v", err)
			}
			if p.Artifact != tt.artifact {
				t.Errorf("artifact = %v, want %s", p.Artifact, tt.artifact)
			}
			if p.Metadata.Title != tt.title {
				t.Errorf("title = %q, want %q", p.Metadata.Title, tt.title)
			}
		})
	}
}

func TestScopeResetsAfterGroup(t *testing.T) {
	reg := NewBuilder().
		Group("auth", "Auth", Options{Opt("brand", "acme")}, func(b *Builder) {
			b.Preview("login", simpleEmail{title: "Login"})
		}).
		Preview("welcome", simpleEmail{title: "Welcome"}).
		MustBuild()

	p, ok := reg.Lookup("welcome")
	if !ok {
		t.Fatal("welcome not registered at top level")
	}
	if p.Group != "" || len(p.Options) != 0 {
		t.Errorf("welcome leaked group scope: group=%q options=%v", p.Group, p.Options)
	}
}

func TestDefinitionErrors(t *testing.T) {
	tests := []struct {
		name    string
		build   func(b *Builder)
		message string
	}{
		{
			name: "nested group",
			build: func(b *Builder) {
				b.Group("auth", "Auth", nil, func(b *Builder) {
					b.Group("inner", "Inner", nil, nil)
				})
			},
			message: "cannot be nested",
		},
		{
			name: "deeply nested group",
			build: func(b *Builder) {
				b.Group("a", "A", nil, func(b *Builder) {
					b.Preview("x", simpleEmail{title: "X"})
					b.Group("b", "B", nil, func(b *Builder) {
						b.Group("c", "C", nil, nil)
					})
				})
			},
			message: "cannot be nested",
		},
		{
			name:    "empty preview path",
			build:   func(b *Builder) { b.Preview("/", simpleEmail{title: "X"}) },
			message: "is empty",
		},
		{
			name:    "nil target",
			build:   func(b *Builder) { b.Preview("x", nil) },
			message: "no target",
		},
		{
			name:    "target without producer",
			build:   func(b *Builder) { b.Preview("x", struct{}{}) },
			message: "neither Preview()",
		},
		{
			name: "target without details",
			build: func(b *Builder) {
				b.Preview("x", PreviewFunc(func() (any, error) { return nil, nil }))
			},
			message: "neither PreviewDetails()",
		},
		{
			name: "duplicate path",
			build: func(b *Builder) {
				b.Preview("welcome", simpleEmail{title: "A"})
				b.Preview("/welcome", simpleEmail{title: "B"})
			},
			message: "declared twice",
		},
		{
			name: "duplicate group",
			build: func(b *Builder) {
				b.Group("auth", "Auth", nil, nil)
				b.Group("auth", "Auth again", nil, nil)
			},
			message: "declared twice",
		},
		{
			name:    "group without title",
			build:   func(b *Builder) { b.Group("auth", "", nil, nil) },
			message: "no title",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBuilder()
			tt.build(b)
			reg, err := b.Build()
			if err == nil {
				t.Fatal("Build() should fail")
			}
			if reg != nil {
				t.Error("Build() should not return a registry on error")
			}
			if !IsDefinitionError(err) {
				t.Errorf("error %v is not a definition error", err)
			}
			if !strings.Contains(err.Error(), tt.message) {
				t.Errorf("error %q should contain %q", err.Error(), tt.message)
			}
		})
	}
}

func TestFirstDefinitionErrorWins(t *testing.T) {
	b := NewBuilder().
		Preview("", simpleEmail{title: "X"}).
		Preview("ok", nil)

	_, err := b.Build()
	if err == nil || !strings.Contains(err.Error(), "is empty") {
		t.Errorf("Build() error = %v, want the empty path error", err)
	}
	if b.Err() != err {
		t.Error("Err() should return the recorded error")
	}
}

func TestMustBuildPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("MustBuild should panic on a definition error")
		}
	}()
	NewBuilder().Preview("x", nil).MustBuild()
}

func TestGetPropagatesDetailsErrors(t *testing.T) {
	reg := NewBuilder().
		Preview("ok", simpleEmail{title: "OK"}).
		Preview("broken", brokenEmail{}).
		MustBuild()

	_, err := reg.Get()
	if !errors.Is(err, errBroken) {
		t.Errorf("Get() error = %v, want %v", err, errBroken)
	}
}

func TestGetReevaluatesDetails(t *testing.T) {
	calls := 0
	reg := NewBuilder().Preview("x", simpleEmail{title: "X", detailCalls: &calls}).MustBuild()

	for i := 0; i < 3; i++ {
		if _, err := reg.Get(); err != nil {
			t.Fatalf("Get() error = %v", err)
		}
	}
	if calls != 3 {
		t.Errorf("details called %d times, want 3", calls)
	}
}

func TestTargetStruct(t *testing.T) {
	reg := NewBuilder().Preview("split", Target{
		Producer: PreviewFunc(func() (any, error) { return Email{Subject: "Split"}, nil }),
		Details:  DetailsFunc(func() (Details, error) { return Details{Title: "Split"}, nil }),
	}).MustBuild()

	p, _ := reg.Lookup("split")
	p, err := Resolve(p)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if p.Artifact.(Email).Subject != "Split" || p.Metadata.Title != "Split" {
		t.Errorf("unexpected resolution: %+v %+v", p.Artifact, p.Metadata)
	}
}

func TestSnapshotSorting(t *testing.T) {
	build := func(s Sort) Snapshot {
		reg := NewBuilder().
			Sort(s).
			Preview("charlie", simpleEmail{title: "Charlie"}).
			Preview("alpha", simpleEmail{title: "Alpha"}).
			Preview("bravo", simpleEmail{title: "Bravo"}).
			MustBuild()
		snap, err := reg.Get()
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		return snap
	}
	paths := func(ps []Preview) string {
		var out []string
		for _, p := range ps {
			out = append(out, p.Path)
		}
		return strings.Join(out, ",")
	}

	tests := []struct {
		name string
		sort Sort
		want string
	}{
		{"alpha", SortAlpha, "alpha,bravo,charlie"},
		{"none", SortNone, "charlie,alpha,bravo"},
		{"custom", SortFunc(func(a, b Preview) int { return strings.Compare(b.Path, a.Path) }), "charlie,bravo,alpha"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap := build(tt.sort)
			if got := paths(snap.Sorted()); got != tt.want {
				t.Errorf("Sorted() = %s, want %s", got, tt.want)
			}
			if got := paths(snap.Previews); got != "charlie,alpha,bravo" {
				t.Errorf("Previews reordered: %s", got)
			}
		})
	}
}

func TestSnapshotGroupHelpers(t *testing.T) {
	reg := NewBuilder().
		Group("auth", "Auth", nil, func(b *Builder) {
			b.Preview("reset", simpleEmail{title: "Reset"})
			b.Preview("login", simpleEmail{title: "Login"})
		}).
		Preview("welcome", simpleEmail{title: "Welcome"}).
		MustBuild()
	snap, err := reg.Get()
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}

	auth := snap.InGroup("auth")
	if len(auth) != 2 || auth[0].Path != "auth.login" || auth[1].Path != "auth.reset" {
		t.Errorf("InGroup(auth) = %v", auth)
	}
	if auth[0].LocalPath() != "login" {
		t.Errorf("LocalPath() = %q, want login", auth[0].LocalPath())
	}
	ungrouped := snap.Ungrouped()
	if len(ungrouped) != 1 || ungrouped[0].Path != "welcome" {
		t.Errorf("Ungrouped() = %v", ungrouped)
	}
	if p, ok := snap.Find("auth.reset"); !ok || p.Title() != "Reset" {
		t.Errorf("Find(auth.reset) = %v, %v", p, ok)
	}
	if _, ok := snap.Find("missing"); ok {
		t.Error("Find(missing) should report false")
	}
	if reg.Len() != 3 {
		t.Errorf("Len() = %d, want 3", reg.Len())
	}
}
