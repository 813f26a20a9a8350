package mailpreview

// Email is the standard preview artifact: a rendered email as it would be
// handed to a mailer.
type Email struct {
	Subject     string
	From        string
	To          []string
	Cc          []string
	Bcc         []string
	ReplyTo     string
	Headers     map[string]string
	HTMLBody    string
	TextBody    string
	Attachments []Attachment
}

// PreviewAttachments returns the email's attachments.
func (e Email) PreviewAttachments() []Attachment {
	return e.Attachments
}

// Attachment is a file attached to an artifact. It carries either inline
// Data or the Path of a file to read on demand.
type Attachment struct {
	Filename    string
	ContentType string
	Data        []byte
	Path        string
}

// IsInline reports whether the attachment carries its data.
func (a Attachment) IsInline() bool {
	return a.Data != nil
}

// AttachmentProvider is implemented by artifacts that carry attachments.
type AttachmentProvider interface {
	PreviewAttachments() []Attachment
}
