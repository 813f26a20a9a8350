package mailpreview

import (
	"fmt"
	"os"
	"path/filepath"
)

// Content is the body of a single attachment.
type Content struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ReadAttachmentAt resolves the preview's artifact and returns the
// attachment at index.
//
// It fails with ErrNotFound when the artifact has no attachments or index
// is out of range, and with ErrInvalidAttachment when the attachment has
// neither Data nor Path. A file that cannot be read is reported as the
// underlying I/O error.
func ReadAttachmentAt(p Preview, index int) (Content, error) {
	p, err := ResolveArtifact(p)
	if err != nil {
		return Content{}, err
	}

	attachments, ok := attachmentsOf(p.Artifact)
	if !ok {
		return Content{}, fmt.Errorf("%w: preview %q has no attachments", ErrNotFound, p.Path)
	}
	if index < 0 || index >= len(attachments) {
		return Content{}, fmt.Errorf("%w: preview %q has no attachment %d", ErrNotFound, p.Path, index)
	}

	a := attachments[index]
	switch {
	case a.Data != nil:
		return Content{Filename: a.Filename, ContentType: a.ContentType, Data: a.Data}, nil
	case a.Path != "":
		data, err := os.ReadFile(a.Path)
		if err != nil {
			return Content{}, fmt.Errorf("mailpreview: reading attachment %d of %q: %w", index, p.Path, err)
		}
		name := a.Filename
		if name == "" {
			name = filepath.Base(a.Path)
		}
		return Content{Filename: name, ContentType: a.ContentType, Data: data}, nil
	default:
		return Content{}, fmt.Errorf("%w: preview %q attachment %d", ErrInvalidAttachment, p.Path, index)
	}
}

// attachmentsOf returns the attachments of an artifact. A nil *Email has
// none.
func attachmentsOf(artifact any) ([]Attachment, bool) {
	if e, ok := artifact.(*Email); ok && e == nil {
		return nil, false
	}
	provider, ok := artifact.(AttachmentProvider)
	if !ok {
		return nil, false
	}
	return provider.PreviewAttachments(), true
}
