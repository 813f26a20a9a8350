// Package mailpreview registers previews of generated emails and evaluates
// them lazily against fixture data.
//
// A preview pairs a producer, which builds the email, with a details
// function, which describes it. Previews can be organized into groups that
// prefix their paths and pass down configuration options.
//
// # Declaring previews
//
// Previews are declared on a Builder at startup and frozen into a Registry:
//
//	var Previews = mailpreview.NewBuilder().
//	    Group("auth", "Authentication", mailpreview.Options{mailpreview.Opt("brand", "acme")}, func(b *mailpreview.Builder) {
//	        b.Preview("/reset_password", emails.ResetPassword{})
//	    }).
//	    Preview("/welcome", emails.Welcome{}).
//	    MustBuild()
//
// The paths above are "auth.reset_password" and "welcome". Groups cannot be
// nested and paths must be unique; violations are reported by Build.
//
// # Targets
//
// A target declares which call forms it supports by the interfaces it
// implements:
//   - Previewer: Preview() (any, error)
//   - ConfigurablePreviewer: PreviewWith(Options) (any, error)
//   - Describer: PreviewDetails() (Details, error)
//   - ConfigurableDescriber: PreviewDetailsWith(Options) (Details, error)
//
// When a preview has options the configurable form is preferred, and the
// simple form is used when the target does not implement it. Without
// options the simple form is preferred. Errors from targets are returned
// unchanged.
//
// # Evaluation
//
// Registry.Get returns a Snapshot with every preview's Metadata resolved, so
// listings never run producers. ResolveArtifact runs the producer for a
// single preview and ReadAttachmentAt returns one attachment's bytes.
// Nothing is cached between calls.
//
// The server and export packages serve a registry over HTTP and write it as
// a static site.
package mailpreview
