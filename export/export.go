// Package export writes a preview registry to disk as a static site.
//
// The layout mirrors the server routes:
//
//	index.html                                 listing
//	index.json                                 snapshot index
//	<path>/index.html                          preview page
//	<path>/email.html, <path>/email.txt        raw bodies (emails only)
//	<path>/attachments/<index>-<filename>      attachment bytes
//
// Pages link to each other with relative URLs, so the output can be opened
// from the file system or served from any prefix.
package export

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/a-h/templ"

	"github.com/pthm/mailpreview"
	"github.com/pthm/mailpreview/internal/ctxlog"
	"github.com/pthm/mailpreview/lib/encoding"
	"github.com/pthm/mailpreview/ui"
)

// Option configures Run.
type Option func(*exporter)

// WithTitle sets the title shown on every page.
func WithTitle(title string) Option {
	return func(e *exporter) {
		e.title = title
	}
}

// WithLogger sets the logger. Without it Run logs to the logger in ctx.
func WithLogger(logger *slog.Logger) Option {
	return func(e *exporter) {
		e.logger = logger
	}
}

// WithIndexFormat selects the encoding of the index file. The file is named
// index.json or index.msgpack accordingly.
func WithIndexFormat(f encoding.Format) Option {
	return func(e *exporter) {
		e.format = f
	}
}

// Report summarizes an export.
type Report struct {
	Dir         string
	Previews    int
	Attachments int
	// Files lists written files relative to Dir, in write order.
	Files []string
}

type exporter struct {
	dir    string
	title  string
	format encoding.Format
	logger *slog.Logger
	report Report
}

// Run resolves every preview in reg and writes the site to dir, creating
// it if needed. The first preview that fails to resolve aborts the export;
// the returned error names its path. Files written before the failure are
// left in place.
func Run(ctx context.Context, reg *mailpreview.Registry, dir string, opts ...Option) (Report, error) {
	e := &exporter{
		dir:    dir,
		title:  ui.DefaultTitle,
		format: encoding.JSON,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		e.logger = ctxlog.FromContext(ctx)
	}
	e.report.Dir = dir

	snap, err := reg.Get()
	if err != nil {
		return e.report, fmt.Errorf("export: listing previews: %w", err)
	}

	if err := e.writePage(ctx, "index.html", ui.IndexPage(e.title, snap, ui.StaticLinks(""))); err != nil {
		return e.report, err
	}
	if err := e.writeIndex(snap); err != nil {
		return e.report, err
	}

	for _, p := range snap.Sorted() {
		if err := ctx.Err(); err != nil {
			return e.report, err
		}
		if err := e.writePreview(ctx, snap, p); err != nil {
			return e.report, fmt.Errorf("export: preview %q: %w", p.Path, err)
		}
		e.report.Previews++
	}

	e.logger.Info("export complete",
		"dir", dir,
		"previews", e.report.Previews,
		"attachments", e.report.Attachments,
		"files", len(e.report.Files),
	)
	return e.report, nil
}

func (e *exporter) writePreview(ctx context.Context, snap mailpreview.Snapshot, p mailpreview.Preview) error {
	if err := checkDirName(p.Path); err != nil {
		return err
	}
	p, err := mailpreview.ResolveArtifact(p)
	if err != nil {
		return err
	}

	page := ui.DetailPage(e.title, snap, p, ui.StaticLinks("../"))
	if err := e.writePage(ctx, filepath.Join(p.Path, "index.html"), page); err != nil {
		return err
	}

	email, ok := asEmail(p.Artifact)
	if !ok {
		return nil
	}
	if err := e.writeFile(filepath.Join(p.Path, "email.html"), []byte(email.HTMLBody)); err != nil {
		return err
	}
	if err := e.writeFile(filepath.Join(p.Path, "email.txt"), []byte(email.TextBody)); err != nil {
		return err
	}
	for i, a := range email.Attachments {
		content, err := mailpreview.ReadAttachmentAt(p, i)
		if err != nil {
			return err
		}
		// Same name the page links to.
		name := ui.AttachmentFile(i, a.Filename)
		if err := e.writeFile(filepath.Join(p.Path, "attachments", name), content.Data); err != nil {
			return err
		}
		e.report.Attachments++
	}
	return nil
}

func (e *exporter) writeIndex(snap mailpreview.Snapshot) error {
	enc, err := encoding.NewEncoder(e.format)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := enc.Encode(&buf, encoding.NewIndex(snap)); err != nil {
		return fmt.Errorf("export: encoding index: %w", err)
	}
	return e.writeFile("index."+string(e.format), buf.Bytes())
}

func (e *exporter) writePage(ctx context.Context, rel string, c templ.Component) error {
	var buf bytes.Buffer
	if err := c.Render(ctx, &buf); err != nil {
		return fmt.Errorf("export: rendering %s: %w", rel, err)
	}
	return e.writeFile(rel, buf.Bytes())
}

func (e *exporter) writeFile(rel string, data []byte) error {
	full := filepath.Join(e.dir, rel)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return fmt.Errorf("export: creating directory: %w", err)
	}
	if err := os.WriteFile(full, data, 0o644); err != nil {
		return fmt.Errorf("export: writing %s: %w", rel, err)
	}
	e.report.Files = append(e.report.Files, filepath.ToSlash(rel))
	e.logger.Debug("wrote file", "file", rel, "bytes", len(data))
	return nil
}

// checkDirName rejects preview paths that cannot be used as a single
// directory name.
func checkDirName(path string) error {
	if path == "." || path == ".." || strings.ContainsAny(path, `/\`) {
		return fmt.Errorf("export: path %q cannot be used as a directory name", path)
	}
	return nil
}

func asEmail(artifact any) (*mailpreview.Email, bool) {
	switch a := artifact.(type) {
	case mailpreview.Email:
		return &a, true
	case *mailpreview.Email:
		return a, a != nil
	}
	return nil, false
}
