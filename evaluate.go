package mailpreview

import "fmt"

// ResolveArtifact produces the preview's artifact. A preview that already
// has an artifact is returned unchanged.
//
// Errors returned by the producer are passed through unwrapped.
func ResolveArtifact(p Preview) (Preview, error) {
	if p.hasArtifact {
		return p, nil
	}
	artifact, err := call(p.producer)
	if err != nil {
		return p, err
	}
	p.Artifact = artifact
	p.hasArtifact = true
	return p, nil
}

// ResolveMetadata evaluates the preview's details and validates them. A
// preview that already has metadata is returned unchanged.
//
// Details without a title fail with ErrMissingTitle. Errors returned by the
// details function are passed through unwrapped.
func ResolveMetadata(p Preview) (Preview, error) {
	if p.Metadata != nil {
		return p, nil
	}
	details, err := call(p.details)
	if err != nil {
		return p, err
	}
	if details.Title == "" {
		return p, missingTitleError(p.Path)
	}
	if details.Tags == nil {
		details.Tags = Tags{}
	}
	p.Metadata = &details
	return p, nil
}

// Resolve resolves metadata, then the artifact.
func Resolve(p Preview) (Preview, error) {
	p, err := ResolveMetadata(p)
	if err != nil {
		return p, err
	}
	return ResolveArtifact(p)
}

// call invokes a deferred call, preferring the configurable form when
// options are present and the simple form otherwise. Whichever form the
// target declared is used when the preferred one is absent.
func call[T any](ref callRef[T]) (T, error) {
	v := ref.variants
	if len(ref.options) > 0 && v.configurable != nil {
		return v.configurable(ref.options)
	}
	if v.simple != nil {
		return v.simple()
	}
	if v.configurable != nil {
		return v.configurable(ref.options)
	}
	var zero T
	return zero, fmt.Errorf("%w: %T has no %s function", ErrDefinition, ref.target, ref.name)
}
