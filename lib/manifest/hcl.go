package manifest

import (
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"

	"github.com/pthm/mailpreview"
)

// hclGroup is the body of a group block.
type hclGroup struct {
	Title    string         `hcl:"title"`
	Options  hcl.Expression `hcl:"options,optional"`
	Previews []*hclPreview  `hcl:"preview,block"`
	Groups   []*hclNested   `hcl:"group,block"`
}

// hclNested is a group block inside a group. It is decoded only so the
// nesting can be reported as a definition error.
type hclNested struct {
	Path string   `hcl:"path,label"`
	Body hcl.Body `hcl:",remain"`
}

type hclPreview struct {
	Path    string         `hcl:"path,label"`
	Options hcl.Expression `hcl:"options,optional"`
	Details hcl.Expression `hcl:"details,optional"`
	Email   *hclEmail      `hcl:"email,block"`
}

type hclEmail struct {
	Subject     string            `hcl:"subject,optional"`
	From        string            `hcl:"from,optional"`
	To          []string          `hcl:"to,optional"`
	Cc          []string          `hcl:"cc,optional"`
	Bcc         []string          `hcl:"bcc,optional"`
	ReplyTo     string            `hcl:"reply_to,optional"`
	Headers     map[string]string `hcl:"headers,optional"`
	HTML        string            `hcl:"html,optional"`
	HTMLFile    string            `hcl:"html_file,optional"`
	Text        string            `hcl:"text,optional"`
	TextFile    string            `hcl:"text_file,optional"`
	Attachments []*hclAttachment  `hcl:"attachment,block"`
}

type hclAttachment struct {
	Filename    string `hcl:"filename,optional"`
	ContentType string `hcl:"content_type,optional"`
	Content     string `hcl:"content,optional"`
	Path        string `hcl:"path,optional"`
}

// DecodeHCL parses an HCL manifest. filename is used in diagnostics.
//
// The top level accepts a sort attribute and group and preview blocks,
// kept in source order. Unknown attributes and blocks are rejected.
func DecodeHCL(src []byte, filename string) (*Manifest, error) {
	file, diags := hclsyntax.ParseConfig(src, filename, hcl.InitialPos)
	if diags.HasErrors() {
		return nil, definitionErrorf("parsing %s: %s", filename, diags.Error())
	}
	body, ok := file.Body.(*hclsyntax.Body)
	if !ok {
		return nil, definitionErrorf("%s: unexpected body type %T", filename, file.Body)
	}

	m := &Manifest{}
	for name, attr := range body.Attributes {
		if name != "sort" {
			return nil, definitionErrorf("%s: unsupported argument %q", attr.SrcRange, name)
		}
		val, diags := attr.Expr.Value(nil)
		if diags.HasErrors() {
			return nil, definitionErrorf("%s", diags.Error())
		}
		if val.Type() != cty.String || val.IsNull() {
			return nil, definitionErrorf("%s: sort must be a string", attr.SrcRange)
		}
		sort, err := parseSort(val.AsString())
		if err != nil {
			return nil, err
		}
		m.Sort = sort
	}

	for _, block := range body.Blocks {
		if len(block.Labels) != 1 {
			return nil, definitionErrorf("%s: %s block needs exactly one label, the path", block.DefRange(), block.Type)
		}
		switch block.Type {
		case "group":
			g, err := decodeHCLGroup(block)
			if err != nil {
				return nil, err
			}
			m.Items = append(m.Items, Item{Group: g})
		case "preview":
			var p hclPreview
			if diags := gohcl.DecodeBody(block.Body, nil, &p); diags.HasErrors() {
				return nil, definitionErrorf("%s", diags.Error())
			}
			p.Path = label(block)
			decl, err := p.decl()
			if err != nil {
				return nil, err
			}
			m.Items = append(m.Items, Item{Preview: &decl})
		default:
			return nil, definitionErrorf("%s: unsupported block type %q", block.DefRange(), block.Type)
		}
	}
	return m, nil
}

func decodeHCLGroup(block *hclsyntax.Block) (*GroupDecl, error) {
	var hg hclGroup
	if diags := gohcl.DecodeBody(block.Body, nil, &hg); diags.HasErrors() {
		return nil, definitionErrorf("%s", diags.Error())
	}
	opts, err := optionsFromExpr(hg.Options)
	if err != nil {
		return nil, err
	}

	g := &GroupDecl{Path: label(block), Title: hg.Title, Options: opts}
	for _, n := range hg.Groups {
		g.Groups = append(g.Groups, GroupDecl{Path: n.Path, Title: n.Path})
	}
	for _, hp := range hg.Previews {
		decl, err := hp.decl()
		if err != nil {
			return nil, err
		}
		g.Previews = append(g.Previews, decl)
	}
	return g, nil
}

func (p *hclPreview) decl() (PreviewDecl, error) {
	opts, err := optionsFromExpr(p.Options)
	if err != nil {
		return PreviewDecl{}, err
	}
	details, err := nativeFromExpr(p.Details)
	if err != nil {
		return PreviewDecl{}, err
	}

	decl := PreviewDecl{Path: p.Path, Options: opts, Details: details}
	if e := p.Email; e != nil {
		decl.Email = EmailDecl{
			Subject:  e.Subject,
			From:     e.From,
			To:       e.To,
			Cc:       e.Cc,
			Bcc:      e.Bcc,
			ReplyTo:  e.ReplyTo,
			Headers:  e.Headers,
			HTML:     e.HTML,
			HTMLFile: e.HTMLFile,
			Text:     e.Text,
			TextFile: e.TextFile,
		}
		for _, a := range e.Attachments {
			decl.Email.Attachments = append(decl.Email.Attachments, AttachmentDecl(*a))
		}
	}
	return decl, nil
}

func label(block *hclsyntax.Block) string {
	if len(block.Labels) == 0 {
		return ""
	}
	return block.Labels[0]
}

// optionsFromExpr evaluates an options object. Object constructors keep
// their source order; any other object value is read in key order.
func optionsFromExpr(expr hcl.Expression) (mailpreview.Options, error) {
	if expr == nil {
		return nil, nil
	}
	if cons, ok := expr.(*hclsyntax.ObjectConsExpr); ok {
		opts := make(mailpreview.Options, 0, len(cons.Items))
		for _, item := range cons.Items {
			key, diags := item.KeyExpr.Value(nil)
			if diags.HasErrors() {
				return nil, definitionErrorf("%s", diags.Error())
			}
			if key.Type() != cty.String || key.IsNull() {
				return nil, definitionErrorf("%s: option keys must be strings", item.KeyExpr.Range())
			}
			val, diags := item.ValueExpr.Value(nil)
			if diags.HasErrors() {
				return nil, definitionErrorf("%s", diags.Error())
			}
			native, err := ctyToNative(val)
			if err != nil {
				return nil, definitionErrorf("%s: option %q: %v", item.ValueExpr.Range(), key.AsString(), err)
			}
			opts = append(opts, mailpreview.Opt(key.AsString(), native))
		}
		return opts, nil
	}

	native, err := nativeFromExpr(expr)
	if err != nil {
		return nil, err
	}
	if native == nil {
		return nil, nil
	}
	m, ok := native.(map[string]any)
	if !ok {
		return nil, definitionErrorf("%s: options must be an object", expr.Range())
	}
	opts := make(mailpreview.Options, 0, len(m))
	for _, k := range sortedKeys(m) {
		opts = append(opts, mailpreview.Opt(k, m[k]))
	}
	return opts, nil
}

func nativeFromExpr(expr hcl.Expression) (any, error) {
	if expr == nil {
		return nil, nil
	}
	val, diags := expr.Value(nil)
	if diags.HasErrors() {
		return nil, definitionErrorf("%s", diags.Error())
	}
	native, err := ctyToNative(val)
	if err != nil {
		return nil, definitionErrorf("%s: %v", expr.Range(), err)
	}
	return native, nil
}
