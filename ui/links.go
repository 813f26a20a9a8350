package ui

import (
	"fmt"
	"net/url"
	"path"
	"strings"
)

// Links builds the URLs rendered into pages.
type Links interface {
	Index() string
	Preview(previewPath string) string
	HTML(previewPath string) string
	Text(previewPath string) string
	Attachment(previewPath string, index int, filename string) string
}

// ServerLinks returns links for a preview server mounted at base
// (for example "/_previews"). An empty base mounts at the root.
func ServerLinks(base string) Links {
	return serverLinks{base: strings.TrimSuffix(base, "/")}
}

type serverLinks struct {
	base string
}

func (l serverLinks) Index() string { return l.base + "/" }

func (l serverLinks) Preview(p string) string {
	return l.base + "/" + url.PathEscape(p)
}

func (l serverLinks) HTML(p string) string { return l.Preview(p) + "/html" }

func (l serverLinks) Text(p string) string { return l.Preview(p) + "/text" }

func (l serverLinks) Attachment(p string, index int, _ string) string {
	return fmt.Sprintf("%s/attachments/%d", l.Preview(p), index)
}

// StaticLinks returns relative links for an exported site. prefix is the
// path from the current page back to the site root ("" for the index,
// "../" for preview pages).
func StaticLinks(prefix string) Links {
	return staticLinks{prefix: prefix}
}

type staticLinks struct {
	prefix string
}

func (l staticLinks) Index() string { return l.prefix + "index.html" }

func (l staticLinks) Preview(p string) string {
	return l.prefix + url.PathEscape(p) + "/index.html"
}

func (l staticLinks) HTML(p string) string {
	return l.prefix + url.PathEscape(p) + "/email.html"
}

func (l staticLinks) Text(p string) string {
	return l.prefix + url.PathEscape(p) + "/email.txt"
}

func (l staticLinks) Attachment(p string, index int, filename string) string {
	return l.prefix + url.PathEscape(p) + "/attachments/" + url.PathEscape(AttachmentFile(index, filename))
}

// AttachmentFile is the file name an exported attachment is written under.
func AttachmentFile(index int, filename string) string {
	name := path.Base(strings.ReplaceAll(filename, "\\", "/"))
	if name == "." || name == "/" || name == "" {
		name = "attachment"
	}
	return fmt.Sprintf("%d-%s", index, name)
}
