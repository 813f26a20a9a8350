package mailpreview

import (
	"slices"
	"strings"
)

// Group is a non-nestable namespace for previews. Its path prefixes the
// paths of contained previews and its options are inherited by them.
type Group struct {
	Path    string
	Title   string
	Options Options
}

// callRef is a deferred call of one role ("preview" or "preview_details")
// on a target.
type callRef[T any] struct {
	target   any
	name     string
	options  Options
	variants variants[T]
}

// Preview is a registered preview entry.
//
// Previews are values: the resolve functions return an updated copy and
// never modify the preview stored in a Registry.
type Preview struct {
	Group   string // group path, empty when ungrouped
	Path    string
	Options Options

	// Artifact is the producer output, set by ResolveArtifact.
	Artifact any
	// Metadata is set by ResolveMetadata.
	Metadata *Details

	hasArtifact bool
	producer    callRef[any]
	details     callRef[Details]
}

// HasArtifact reports whether the artifact has been resolved.
func (p Preview) HasArtifact() bool {
	return p.hasArtifact
}

// Title returns the resolved title, or the path when metadata has not been
// resolved.
func (p Preview) Title() string {
	if p.Metadata != nil {
		return p.Metadata.Title
	}
	return p.Path
}

// LocalPath returns the path without the group prefix.
func (p Preview) LocalPath() string {
	if p.Group == "" {
		return p.Path
	}
	return strings.TrimPrefix(p.Path, p.Group+PathSeparator)
}

// Target returns the value the preview was registered with.
func (p Preview) Target() any {
	return p.producer.target
}

// Sort controls the order in which consumers list previews.
type Sort struct {
	preserve bool
	cmp      func(a, b Preview) int
}

var (
	// SortAlpha orders previews by path. It is the default.
	SortAlpha = Sort{}
	// SortNone keeps declaration order.
	SortNone = Sort{preserve: true}
)

// SortFunc orders previews with a custom comparison following the
// slices.SortFunc convention.
func SortFunc(cmp func(a, b Preview) int) Sort {
	return Sort{cmp: cmp}
}

// IsAlpha reports whether s is the default alphabetical sort.
func (s Sort) IsAlpha() bool {
	return !s.preserve && s.cmp == nil
}

// IsNone reports whether s preserves declaration order.
func (s Sort) IsNone() bool {
	return s.preserve
}

// Apply returns a sorted copy of previews.
func (s Sort) Apply(previews []Preview) []Preview {
	out := slices.Clone(previews)
	switch {
	case s.preserve:
	case s.cmp != nil:
		slices.SortStableFunc(out, s.cmp)
	default:
		slices.SortStableFunc(out, func(a, b Preview) int {
			return strings.Compare(a.Path, b.Path)
		})
	}
	return out
}

// Snapshot is the read-only view of a registry returned by Registry.Get.
// Every preview in it has Metadata resolved.
type Snapshot struct {
	Previews []Preview
	Groups   []Group
	Sort     Sort
}

// Sorted returns the previews ordered by the snapshot's Sort.
func (s Snapshot) Sorted() []Preview {
	return s.Sort.Apply(s.Previews)
}

// Find returns the preview with the given path.
func (s Snapshot) Find(path string) (Preview, bool) {
	for _, p := range s.Previews {
		if p.Path == path {
			return p, true
		}
	}
	return Preview{}, false
}

// InGroup returns the sorted previews belonging to the group with the
// given path.
func (s Snapshot) InGroup(groupPath string) []Preview {
	var out []Preview
	for _, p := range s.Sorted() {
		if p.Group == groupPath && groupPath != "" {
			out = append(out, p)
		}
	}
	return out
}

// Ungrouped returns the sorted previews declared outside any group.
func (s Snapshot) Ungrouped() []Preview {
	var out []Preview
	for _, p := range s.Sorted() {
		if p.Group == "" {
			out = append(out, p)
		}
	}
	return out
}
