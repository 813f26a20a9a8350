// Package ui renders the preview listing and detail pages as templ
// components. The same components back the HTTP server and the static
// export; only the Links differ.
package ui

import (
	"bytes"
	"context"
	"fmt"
	"html"
	"io"
	"sort"
	"strings"

	"github.com/a-h/templ"
	"github.com/yuin/goldmark"

	"github.com/pthm/mailpreview"
)

// DefaultTitle is used when no page title is configured.
const DefaultTitle = "Email previews"

const styles = `body{font-family:system-ui,sans-serif;margin:0;display:flex;min-height:100vh}
nav{width:18rem;border-right:1px solid #ddd;padding:1rem;background:#fafafa}
main{flex:1;padding:1rem 2rem}
nav h2{font-size:.8rem;text-transform:uppercase;color:#666;margin:1.2rem 0 .4rem}
nav ul{list-style:none;padding:0;margin:0}
nav li a{display:block;padding:.2rem 0;color:#0645ad;text-decoration:none}
.tag{display:inline-block;background:#eef;border-radius:3px;padding:0 .4rem;margin-right:.3rem;font-size:.8rem}
table.headers td{padding:.15rem .8rem .15rem 0;vertical-align:top}
iframe{width:100%;height:70vh;border:1px solid #ddd}
pre.text{white-space:pre-wrap;border:1px solid #ddd;padding:1rem}
.error{color:#b00}`

// Layout wraps body in a full HTML document.
func Layout(title string, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := fmt.Fprintf(w, "<!DOCTYPE html>\n<html><head><meta charset=\"utf-8\"><title>%s</title><style>%s</style></head><body>",
			esc(orDefault(title)), styles); err != nil {
			return err
		}
		if err := body.Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, "</body></html>\n")
		return err
	})
}

// Nav renders the sidebar listing: each group with its previews, then the
// ungrouped previews.
func Nav(title string, snap mailpreview.Snapshot, links Links) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var sb strings.Builder
		sb.WriteString(`<nav><h1><a href="` + esc(links.Index()) + `">` + esc(orDefault(title)) + `</a></h1>`)
		for _, g := range snap.Groups {
			sb.WriteString(`<h2>` + esc(g.Title) + `</h2><ul>`)
			for _, p := range snap.InGroup(g.Path) {
				writeNavItem(&sb, p, links)
			}
			sb.WriteString(`</ul>`)
		}
		if ungrouped := snap.Ungrouped(); len(ungrouped) > 0 {
			sb.WriteString(`<h2>Other</h2><ul>`)
			for _, p := range ungrouped {
				writeNavItem(&sb, p, links)
			}
			sb.WriteString(`</ul>`)
		}
		sb.WriteString(`</nav>`)
		_, err := io.WriteString(w, sb.String())
		return err
	})
}

func writeNavItem(sb *strings.Builder, p mailpreview.Preview, links Links) {
	sb.WriteString(`<li><a href="` + esc(links.Preview(p.Path)) + `">` + esc(p.Title()) + `</a></li>`)
}

// IndexPage renders the listing of all previews.
func IndexPage(title string, snap mailpreview.Snapshot, links Links) templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if err := Nav(title, snap, links).Render(ctx, w); err != nil {
			return err
		}
		var sb strings.Builder
		sb.WriteString(`<main><h1>` + esc(orDefault(title)) + `</h1>`)
		fmt.Fprintf(&sb, `<p>%d previews</p><ul class="previews">`, len(snap.Previews))
		for _, p := range snap.Sorted() {
			sb.WriteString(`<li><a href="` + esc(links.Preview(p.Path)) + `">` + esc(p.Title()) + `</a> <code>` + esc(p.Path) + `</code>`)
			if p.Metadata != nil {
				writeTags(&sb, p.Metadata.Tags)
			}
			sb.WriteString(`</li>`)
		}
		sb.WriteString(`</ul></main>`)
		_, err := io.WriteString(w, sb.String())
		return err
	})
	return Layout(title, body)
}

// DetailPage renders a single resolved preview. p must have its metadata
// and artifact resolved.
func DetailPage(title string, snap mailpreview.Snapshot, p mailpreview.Preview, links Links) templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if err := Nav(title, snap, links).Render(ctx, w); err != nil {
			return err
		}
		if _, err := io.WriteString(w, `<main><h1>`+esc(p.Title())+`</h1>`); err != nil {
			return err
		}
		if p.Metadata != nil {
			var sb strings.Builder
			writeTags(&sb, p.Metadata.Tags)
			if _, err := io.WriteString(w, sb.String()); err != nil {
				return err
			}
			if p.Metadata.Description != "" {
				if err := Markdown(p.Metadata.Description).Render(ctx, w); err != nil {
					return err
				}
			}
		}
		if err := Artifact(p, links).Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, `</main>`)
		return err
	})
	return Layout(p.Title()+" · "+orDefault(title), body)
}

// Artifact renders the preview's artifact. Emails get their headers, an
// iframe with the HTML body, the text body and attachment links; other
// artifacts are printed with %v.
func Artifact(p mailpreview.Preview, links Links) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var email *mailpreview.Email
		switch a := p.Artifact.(type) {
		case mailpreview.Email:
			email = &a
		case *mailpreview.Email:
			if a == nil {
				return nil
			}
			email = a
		default:
			_, err := io.WriteString(w, `<pre class="artifact">`+esc(fmt.Sprintf("%+v", p.Artifact))+`</pre>`)
			return err
		}

		var sb strings.Builder
		sb.WriteString(`<table class="headers">`)
		writeHeader(&sb, "Subject", email.Subject)
		writeHeader(&sb, "From", email.From)
		writeHeader(&sb, "To", strings.Join(email.To, ", "))
		writeHeader(&sb, "Cc", strings.Join(email.Cc, ", "))
		writeHeader(&sb, "Bcc", strings.Join(email.Bcc, ", "))
		writeHeader(&sb, "Reply-To", email.ReplyTo)
		for _, k := range sortedKeys(email.Headers) {
			writeHeader(&sb, k, email.Headers[k])
		}
		sb.WriteString(`</table>`)

		if email.HTMLBody != "" {
			sb.WriteString(`<h2>HTML</h2><iframe sandbox src="` + esc(links.HTML(p.Path)) + `"></iframe>`)
		}
		if email.TextBody != "" {
			sb.WriteString(`<h2>Text</h2><pre class="text">` + esc(email.TextBody) + `</pre>`)
		}
		if len(email.Attachments) > 0 {
			sb.WriteString(`<h2>Attachments</h2><ul class="attachments">`)
			for i, a := range email.Attachments {
				name := a.Filename
				if name == "" {
					name = fmt.Sprintf("attachment %d", i)
				}
				sb.WriteString(`<li><a href="` + esc(links.Attachment(p.Path, i, a.Filename)) + `">` + esc(name) + `</a> <small>` + esc(a.ContentType) + `</small></li>`)
			}
			sb.WriteString(`</ul>`)
		}
		_, err := io.WriteString(w, sb.String())
		return err
	})
}

// Markdown renders a preview description. Raw HTML in the source is not
// passed through.
func Markdown(src string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var buf bytes.Buffer
		if err := goldmark.Convert([]byte(src), &buf); err != nil {
			return fmt.Errorf("ui: rendering description: %w", err)
		}
		if _, err := io.WriteString(w, `<div class="description">`); err != nil {
			return err
		}
		if _, err := w.Write(buf.Bytes()); err != nil {
			return err
		}
		_, err := io.WriteString(w, `</div>`)
		return err
	})
}

// ErrorPage renders an error message for a failed preview.
func ErrorPage(title string, status int, err error) templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, werr := fmt.Fprintf(w, `<main><h1>%d</h1><p class="error">%s</p></main>`, status, esc(err.Error()))
		return werr
	})
	return Layout(title, body)
}

func writeTags(sb *strings.Builder, tags mailpreview.Tags) {
	for _, t := range tags {
		sb.WriteString(` <span class="tag">` + esc(t.Key) + `: ` + esc(t.Value) + `</span>`)
	}
}

func writeHeader(sb *strings.Builder, name, value string) {
	if value == "" {
		return
	}
	sb.WriteString(`<tr><td><strong>` + esc(name) + `</strong></td><td>` + esc(value) + `</td></tr>`)
}

func esc(s string) string {
	return html.EscapeString(s)
}

func orDefault(title string) string {
	if title == "" {
		return DefaultTitle
	}
	return title
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
