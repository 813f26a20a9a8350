// Package server serves a preview registry over HTTP.
//
//	reg := emails.Previews
//	http.Handle("/_previews/", server.New(reg, server.WithBasePath("/_previews")))
//
// Routes, relative to the base path:
//
//	GET /                              listing of all previews
//	GET /_index.json, /_index.msgpack  snapshot index
//	GET /{path}                        preview page
//	GET /{path}/html                   raw HTML body
//	GET /{path}/text                   raw text body
//	GET /{path}/attachments/{index}    attachment bytes
package server

import (
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/a-h/templ"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/pthm/mailpreview"
	"github.com/pthm/mailpreview/internal/ctxlog"
	"github.com/pthm/mailpreview/lib/encoding"
	"github.com/pthm/mailpreview/ui"
)

// Option configures a Handler.
type Option func(*Handler)

// WithLogger sets the logger for request and error logs.
func WithLogger(logger *slog.Logger) Option {
	return func(h *Handler) {
		h.logger = logger
	}
}

// WithBasePath mounts the routes under base, e.g. "/_previews".
func WithBasePath(base string) Option {
	return func(h *Handler) {
		h.base = base
	}
}

// WithTitle sets the title shown on every page.
func WithTitle(title string) Option {
	return func(h *Handler) {
		h.title = title
	}
}

// Handler serves previews from a registry. It is safe for concurrent use.
type Handler struct {
	reg    *mailpreview.Registry
	router chi.Router
	logger *slog.Logger
	base   string
	title  string
	links  ui.Links

	// OnError is called when a preview fails to resolve or render.
	// Customize this to handle errors appropriately for your application.
	OnError func(http.ResponseWriter, *http.Request, error)
}

// New creates a handler for reg.
func New(reg *mailpreview.Registry, opts ...Option) *Handler {
	h := &Handler{
		reg:    reg,
		logger: slog.Default(),
		title:  ui.DefaultTitle,
	}
	for _, opt := range opts {
		opt(h)
	}
	h.base = strings.TrimSuffix(h.base, "/")
	if h.base != "" && !strings.HasPrefix(h.base, "/") {
		h.base = "/" + h.base
	}
	h.links = ui.ServerLinks(h.base)
	h.OnError = h.defaultOnError

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(h.requestLogger)
	r.Use(middleware.Recoverer)
	if h.base == "" {
		h.routes(r)
	} else {
		r.Route(h.base, h.routes)
	}
	h.router = r
	return h
}

func (h *Handler) routes(r chi.Router) {
	r.Get("/", h.handleIndex)
	r.Get("/_index.json", h.handleIndexData(encoding.JSON))
	r.Get("/_index.msgpack", h.handleIndexData(encoding.Msgpack))
	r.Get("/{path}", h.handlePreview)
	r.Get("/{path}/html", h.handleHTML)
	r.Get("/{path}/text", h.handleText)
	r.Get("/{path}/attachments/{index}", h.handleAttachment)
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

// Links returns the URL builder used for rendered pages.
func (h *Handler) Links() ui.Links {
	return h.links
}

func (h *Handler) handleIndex(w http.ResponseWriter, r *http.Request) {
	snap, err := h.reg.Get()
	if err != nil {
		h.OnError(w, r, err)
		return
	}
	h.render(w, r, http.StatusOK, ui.IndexPage(h.title, snap, h.links))
}

func (h *Handler) handleIndexData(format encoding.Format) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap, err := h.reg.Get()
		if err != nil {
			h.OnError(w, r, err)
			return
		}
		enc, err := encoding.NewEncoder(format)
		if err != nil {
			h.OnError(w, r, err)
			return
		}
		w.Header().Set("Content-Type", format.ContentType())
		if err := enc.Encode(w, encoding.NewIndex(snap)); err != nil {
			ctxlog.FromContext(r.Context()).Error("encoding index", "format", format, "error", err)
		}
	}
}

// handlePreview renders one preview. A failure in another preview's
// details only trims the sidebar down to the requested preview.
func (h *Handler) handlePreview(w http.ResponseWriter, r *http.Request) {
	p, err := h.lookup(r)
	if err != nil {
		h.OnError(w, r, err)
		return
	}
	p, err = mailpreview.Resolve(p)
	if err != nil {
		h.OnError(w, r, err)
		return
	}
	snap, err := h.reg.Get()
	if err != nil {
		ctxlog.FromContext(r.Context()).Warn("building preview listing", "path", p.Path, "error", err)
		snap = mailpreview.Snapshot{Previews: []mailpreview.Preview{p}}
		if p.Group != "" {
			snap.Groups = []mailpreview.Group{{Path: p.Group, Title: p.Group}}
		}
	}
	h.render(w, r, http.StatusOK, ui.DetailPage(h.title, snap, p, h.links))
}

func (h *Handler) handleHTML(w http.ResponseWriter, r *http.Request) {
	email, err := h.email(r)
	if err != nil {
		h.OnError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(email.HTMLBody))
}

func (h *Handler) handleText(w http.ResponseWriter, r *http.Request) {
	email, err := h.email(r)
	if err != nil {
		h.OnError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(email.TextBody))
}

func (h *Handler) handleAttachment(w http.ResponseWriter, r *http.Request) {
	p, err := h.lookup(r)
	if err != nil {
		h.OnError(w, r, err)
		return
	}
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		h.OnError(w, r, fmt.Errorf("%w: attachment index %q", mailpreview.ErrNotFound, chi.URLParam(r, "index")))
		return
	}
	content, err := mailpreview.ReadAttachmentAt(p, index)
	if err != nil {
		h.OnError(w, r, err)
		return
	}

	contentType := content.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(content.Data)))
	if content.Filename != "" {
		w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", content.Filename))
	}
	_, _ = w.Write(content.Data)
}

func (h *Handler) lookup(r *http.Request) (mailpreview.Preview, error) {
	path := previewPath(r)
	p, ok := h.reg.Lookup(path)
	if !ok {
		return mailpreview.Preview{}, fmt.Errorf("%w: preview %q", mailpreview.ErrNotFound, path)
	}
	return p, nil
}

// email resolves the requested preview and returns its artifact as an email.
func (h *Handler) email(r *http.Request) (*mailpreview.Email, error) {
	p, err := h.lookup(r)
	if err != nil {
		return nil, err
	}
	p, err = mailpreview.ResolveArtifact(p)
	if err != nil {
		return nil, err
	}
	switch a := p.Artifact.(type) {
	case mailpreview.Email:
		return &a, nil
	case *mailpreview.Email:
		if a != nil {
			return a, nil
		}
	}
	return nil, fmt.Errorf("%w: preview %q is not an email", mailpreview.ErrNotFound, p.Path)
}

// Render writes a templ component to the HTTP response with the given
// status, using the request's context.
//
//	func handler(w http.ResponseWriter, r *http.Request) {
//	    server.Render(w, r, http.StatusOK, ui.IndexPage(title, snap, links))
//	}
func Render(w http.ResponseWriter, r *http.Request, status int, component templ.Component) error {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	return component.Render(r.Context(), w)
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, status int, c templ.Component) {
	if err := Render(w, r, status, c); err != nil {
		ctxlog.FromContext(r.Context()).Error("rendering page", "path", r.URL.Path, "error", err)
	}
}

func (h *Handler) defaultOnError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	if mailpreview.IsNotFound(err) {
		status = http.StatusNotFound
	}
	ctxlog.FromContext(r.Context()).Error("preview request failed", "path", r.URL.Path, "status", status, "error", err)
	h.render(w, r, status, ui.ErrorPage(h.title, status, err))
}

// requestLogger logs every request and puts a request-scoped logger into
// the context.
func (h *Handler) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		logger := h.logger.With("request_id", middleware.GetReqID(r.Context()))
		r = r.WithContext(ctxlog.WithLogger(r.Context(), logger))

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		logger.Info("preview request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start).Round(time.Microsecond),
		)
	})
}

func previewPath(r *http.Request) string {
	raw := chi.URLParam(r, "path")
	if p, err := url.PathUnescape(raw); err == nil {
		return p
	}
	return raw
}
