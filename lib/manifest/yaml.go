package manifest

import (
	"bytes"
	"errors"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/pthm/mailpreview"
)

// yamlFile mirrors the HCL layout: a group or preview entry carries its
// path under the group or preview key.
//
//	sort: alpha
//	previews:
//	  - group: auth
//	    title: Authentication
//	    options: {name: Ada}
//	    previews:
//	      - preview: reset_password
//	        details: {title: Reset password}
//	        email:
//	          subject: "Reset your password, {{.name}}"
//	  - preview: welcome
//	    ...
type yamlFile struct {
	Sort     string      `yaml:"sort"`
	Previews []yamlEntry `yaml:"previews"`
}

type yamlEntry struct {
	Group    yaml.Node   `yaml:"group"`
	Preview  yaml.Node   `yaml:"preview"`
	Title    string      `yaml:"title"`
	Options  yaml.Node   `yaml:"options"`
	Previews []yamlEntry `yaml:"previews"`
	Details  any         `yaml:"details"`
	Email    *yamlEmail  `yaml:"email"`
}

type yamlEmail struct {
	Subject     string            `yaml:"subject"`
	From        string            `yaml:"from"`
	To          []string          `yaml:"to"`
	Cc          []string          `yaml:"cc"`
	Bcc         []string          `yaml:"bcc"`
	ReplyTo     string            `yaml:"reply_to"`
	Headers     map[string]string `yaml:"headers"`
	HTML        string            `yaml:"html"`
	HTMLFile    string            `yaml:"html_file"`
	Text        string            `yaml:"text"`
	TextFile    string            `yaml:"text_file"`
	Attachments []yamlAttachment  `yaml:"attachments"`
}

type yamlAttachment struct {
	Filename    string `yaml:"filename"`
	ContentType string `yaml:"content_type"`
	Content     string `yaml:"content"`
	Path        string `yaml:"path"`
}

// DecodeYAML parses a YAML manifest. Unknown keys are rejected.
func DecodeYAML(src []byte) (*Manifest, error) {
	dec := yaml.NewDecoder(bytes.NewReader(src))
	dec.KnownFields(true)

	var f yamlFile
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, definitionErrorf("parsing yaml: %v", err)
	}

	sort, err := parseSort(f.Sort)
	if err != nil {
		return nil, err
	}
	m := &Manifest{Sort: sort}
	for _, e := range f.Previews {
		item, err := e.item()
		if err != nil {
			return nil, err
		}
		m.Items = append(m.Items, item)
	}
	return m, nil
}

func (e *yamlEntry) item() (Item, error) {
	isGroup := e.Group.Kind != 0
	isPreview := e.Preview.Kind != 0
	switch {
	case isGroup && isPreview:
		return Item{}, definitionErrorf("line %d: entry declares both group and preview", e.Group.Line)
	case isGroup:
		g, err := e.group()
		return Item{Group: g}, err
	case isPreview:
		p, err := e.preview()
		return Item{Preview: p}, err
	}
	return Item{}, definitionErrorf("entry needs a group or preview key")
}

func (e *yamlEntry) group() (*GroupDecl, error) {
	path, err := stringPath(&e.Group)
	if err != nil {
		return nil, err
	}
	if e.Details != nil || e.Email != nil {
		return nil, definitionErrorf("group %q: details and email belong on previews", path)
	}
	opts, err := optionsFromNode(&e.Options)
	if err != nil {
		return nil, err
	}

	g := &GroupDecl{Path: path, Title: e.Title, Options: opts}
	for _, child := range e.Previews {
		item, err := child.item()
		if err != nil {
			return nil, err
		}
		if item.Group != nil {
			g.Groups = append(g.Groups, *item.Group)
			continue
		}
		g.Previews = append(g.Previews, *item.Preview)
	}
	return g, nil
}

func (e *yamlEntry) preview() (*PreviewDecl, error) {
	path, err := stringPath(&e.Preview)
	if err != nil {
		return nil, err
	}
	if e.Title != "" || len(e.Previews) > 0 {
		return nil, definitionErrorf("preview %q: title belongs in details and previews cannot contain previews", path)
	}
	opts, err := optionsFromNode(&e.Options)
	if err != nil {
		return nil, err
	}

	p := &PreviewDecl{Path: path, Options: opts, Details: e.Details}
	if em := e.Email; em != nil {
		p.Email = EmailDecl{
			Subject:  em.Subject,
			From:     em.From,
			To:       em.To,
			Cc:       em.Cc,
			Bcc:      em.Bcc,
			ReplyTo:  em.ReplyTo,
			Headers:  em.Headers,
			HTML:     em.HTML,
			HTMLFile: em.HTMLFile,
			Text:     em.Text,
			TextFile: em.TextFile,
		}
		for _, a := range em.Attachments {
			p.Email.Attachments = append(p.Email.Attachments, AttachmentDecl(a))
		}
	}
	return p, nil
}

// stringPath rejects paths that YAML resolves to anything but a string,
// such as `preview: 42`.
func stringPath(n *yaml.Node) (string, error) {
	if n.Kind != yaml.ScalarNode || n.Tag != "!!str" {
		return "", definitionErrorf("line %d: path must be a string, got %s", n.Line, n.Tag)
	}
	return n.Value, nil
}

// optionsFromNode reads an options mapping in document order.
func optionsFromNode(n *yaml.Node) (mailpreview.Options, error) {
	if n.Kind == 0 || n.Tag == "!!null" {
		return nil, nil
	}
	if n.Kind != yaml.MappingNode {
		return nil, definitionErrorf("line %d: options must be a mapping", n.Line)
	}
	opts := make(mailpreview.Options, 0, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		key, val := n.Content[i], n.Content[i+1]
		var v any
		if err := val.Decode(&v); err != nil {
			return nil, definitionErrorf("line %d: option %q: %v", val.Line, key.Value, err)
		}
		opts = append(opts, mailpreview.Opt(key.Value, v))
	}
	return opts, nil
}
