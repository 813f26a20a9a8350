package mailpreview

import (
	"fmt"
	"slices"
)

// Builder collects group and preview declarations in source order.
//
// Declarations are checked as they are made. The first invalid declaration
// is recorded and every later call becomes a no-op, so Build reports the
// earliest problem:
//
//	b := mailpreview.NewBuilder()
//	b.Group("auth", "Auth", nil, func(b *mailpreview.Builder) {
//	    b.Preview("/reset_password", emails.ResetPassword{})
//	})
//	b.Preview("/welcome", emails.Welcome{}, mailpreview.Opt("locale", "fr"))
//	reg, err := b.Build()
//
// A Builder is not safe for concurrent use.
type Builder struct {
	previews []Preview
	groups   []Group
	sort     Sort
	paths    map[string]bool

	current *Group // active group scope
	err     error
}

// NewBuilder creates an empty builder with alphabetical sorting.
func NewBuilder() *Builder {
	return &Builder{
		sort:  SortAlpha,
		paths: make(map[string]bool),
	}
}

// Group declares a group and runs fn with the group scope active. Previews
// declared inside fn get the group's path as prefix and inherit its
// options. Groups cannot be nested.
func (b *Builder) Group(path, title string, opts Options, fn func(*Builder)) *Builder {
	if b.err != nil {
		return b
	}
	if b.current != nil {
		b.fail(definitionErrorf("group %q declared inside group %q: groups cannot be nested", path, b.current.Path))
		return b
	}

	path = NormalizePath(path)
	if path == "" {
		b.fail(definitionErrorf("group path is empty"))
		return b
	}
	if title == "" {
		b.fail(definitionErrorf("group %q has no title", path))
		return b
	}
	for _, g := range b.groups {
		if g.Path == path {
			b.fail(definitionErrorf("group %q declared twice", path))
			return b
		}
	}

	g := Group{Path: path, Title: title, Options: slices.Clone(opts)}
	b.groups = append(b.groups, g)

	b.current = &g
	defer func() { b.current = nil }()
	if fn != nil {
		fn(b)
	}
	return b
}

// Preview declares a preview. target must implement Previewer or
// ConfigurablePreviewer, and Describer or ConfigurableDescriber; a Target
// value can combine separate producer and details values.
func (b *Builder) Preview(path string, target any, opts ...Option) *Builder {
	if b.err != nil {
		return b
	}

	local := NormalizePath(path)
	if local == "" {
		b.fail(definitionErrorf("preview path %q is empty", path))
		return b
	}
	if target == nil {
		b.fail(definitionErrorf("preview %q has no target", local))
		return b
	}

	producerTarget, detailsTarget := splitTarget(target)
	producer := producerVariants(producerTarget)
	if !producer.declared() {
		b.fail(definitionErrorf("preview %q: %T implements neither Preview() nor PreviewWith(Options)", local, producerTarget))
		return b
	}
	details := detailsVariants(detailsTarget)
	if !details.declared() {
		b.fail(definitionErrorf("preview %q: %T implements neither PreviewDetails() nor PreviewDetailsWith(Options)", local, detailsTarget))
		return b
	}

	var groupPath string
	var groupOpts Options
	if b.current != nil {
		groupPath = b.current.Path
		groupOpts = b.current.Options
	}

	full := BuildPath(groupPath, local)
	if b.paths[full] {
		b.fail(definitionErrorf("preview path %q declared twice", full))
		return b
	}
	b.paths[full] = true

	merged := MergeOptions(groupOpts, opts)
	b.previews = append(b.previews, Preview{
		Group:   groupPath,
		Path:    full,
		Options: merged,
		producer: callRef[any]{
			target:   producerTarget,
			name:     "preview",
			options:  merged,
			variants: producer,
		},
		details: callRef[Details]{
			target:   detailsTarget,
			name:     "preview_details",
			options:  merged,
			variants: details,
		},
	})
	return b
}

// Sort sets how consumers order previews. The default is SortAlpha.
func (b *Builder) Sort(s Sort) *Builder {
	if b.err == nil {
		b.sort = s
	}
	return b
}

// Err returns the first definition error, if any.
func (b *Builder) Err() error {
	return b.err
}

// Build freezes the declarations into a Registry.
func (b *Builder) Build() (*Registry, error) {
	if b.err != nil {
		return nil, b.err
	}
	return &Registry{
		previews: slices.Clone(b.previews),
		groups:   slices.Clone(b.groups),
		sort:     b.sort,
	}, nil
}

// MustBuild is like Build but panics on a definition error. It suits
// registries declared in package-level variables.
func (b *Builder) MustBuild() *Registry {
	reg, err := b.Build()
	if err != nil {
		panic(fmt.Sprintf("mailpreview: %v", err))
	}
	return reg
}

func (b *Builder) fail(err error) {
	if b.err == nil {
		b.err = err
	}
}

// Registry is an immutable set of previews and groups. It is safe for
// concurrent use.
type Registry struct {
	previews []Preview
	groups   []Group
	sort     Sort
}

// Get returns a snapshot of the registry with metadata resolved for every
// preview. Artifacts are not produced. Details functions run on every call.
func (reg *Registry) Get() (Snapshot, error) {
	previews := make([]Preview, 0, len(reg.previews))
	for _, p := range reg.previews {
		resolved, err := ResolveMetadata(p)
		if err != nil {
			return Snapshot{}, err
		}
		previews = append(previews, resolved)
	}
	return Snapshot{
		Previews: previews,
		Groups:   slices.Clone(reg.groups),
		Sort:     reg.sort,
	}, nil
}

// Lookup returns the unresolved preview with the given path.
func (reg *Registry) Lookup(path string) (Preview, bool) {
	for _, p := range reg.previews {
		if p.Path == path {
			return p, true
		}
	}
	return Preview{}, false
}

// Len returns the number of registered previews.
func (reg *Registry) Len() int {
	return len(reg.previews)
}
