package mailpreview

// Previewer produces a preview artifact without configuration.
type Previewer interface {
	Preview() (any, error)
}

// ConfigurablePreviewer produces a preview artifact from the preview's
// merged options.
type ConfigurablePreviewer interface {
	PreviewWith(opts Options) (any, error)
}

// Describer returns descriptive details for a preview.
type Describer interface {
	PreviewDetails() (Details, error)
}

// ConfigurableDescriber returns descriptive details from the preview's
// merged options.
type ConfigurableDescriber interface {
	PreviewDetailsWith(opts Options) (Details, error)
}

// PreviewFunc adapts a function to Previewer.
type PreviewFunc func() (any, error)

// Preview calls f.
func (f PreviewFunc) Preview() (any, error) { return f() }

// PreviewWithFunc adapts a function to ConfigurablePreviewer.
type PreviewWithFunc func(opts Options) (any, error)

// PreviewWith calls f.
func (f PreviewWithFunc) PreviewWith(opts Options) (any, error) { return f(opts) }

// DetailsFunc adapts a function to Describer.
type DetailsFunc func() (Details, error)

// PreviewDetails calls f.
func (f DetailsFunc) PreviewDetails() (Details, error) { return f() }

// DetailsWithFunc adapts a function to ConfigurableDescriber.
type DetailsWithFunc func(opts Options) (Details, error)

// PreviewDetailsWith calls f.
func (f DetailsWithFunc) PreviewDetailsWith(opts Options) (Details, error) { return f(opts) }

// Target combines a producer and a details function into a value that can
// be passed to Builder.Preview. Producer must be a Previewer or
// ConfigurablePreviewer (or both); Details a Describer or
// ConfigurableDescriber (or both).
//
//	b.Preview("welcome", mailpreview.Target{
//	    Producer: mailpreview.PreviewFunc(welcomeEmail),
//	    Details:  mailpreview.DetailsFunc(welcomeDetails),
//	})
type Target struct {
	Producer any
	Details  any
}

// variants holds the forms a target declared for one role. Either may be
// nil, never both once registration succeeded.
type variants[T any] struct {
	simple       func() (T, error)
	configurable func(Options) (T, error)
}

func (v variants[T]) declared() bool {
	return v.simple != nil || v.configurable != nil
}

// producerVariants extracts the producer forms implemented by target.
func producerVariants(target any) variants[any] {
	var v variants[any]
	if p, ok := target.(Previewer); ok {
		v.simple = p.Preview
	}
	if p, ok := target.(ConfigurablePreviewer); ok {
		v.configurable = p.PreviewWith
	}
	return v
}

// detailsVariants extracts the details forms implemented by target.
func detailsVariants(target any) variants[Details] {
	var v variants[Details]
	if d, ok := target.(Describer); ok {
		v.simple = d.PreviewDetails
	}
	if d, ok := target.(ConfigurableDescriber); ok {
		v.configurable = d.PreviewDetailsWith
	}
	return v
}

// splitTarget returns the values queried for the producer and details
// roles. A Target splits into its two fields; anything else plays both.
func splitTarget(target any) (producer, details any) {
	switch t := target.(type) {
	case Target:
		return t.Producer, t.Details
	case *Target:
		if t == nil {
			return nil, nil
		}
		return t.Producer, t.Details
	}
	return target, target
}
