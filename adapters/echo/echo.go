// Package previewecho mounts a preview registry on an Echo instance or group.
//
//	e := echo.New()
//	previewecho.Mount(e, emails.Previews)
//
// Or mount on a group with middleware:
//
//	g := e.Group("/admin", authMiddleware)
//	previewecho.MountGroup(g, emails.Previews)
package previewecho

import (
	"log/slog"
	"strings"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"

	"github.com/pthm/mailpreview"
	"github.com/pthm/mailpreview/server"
)

// DefaultPath is where previews are mounted unless WithPath is given.
const DefaultPath = "/_previews/"

// Option configures the Mount and MountGroup functions.
type Option func(*options)

type options struct {
	path   string
	title  string
	logger *slog.Logger
}

// WithPath sets the URL path prefix for preview routes.
// Defaults to "/_previews/".
func WithPath(path string) Option {
	return func(o *options) {
		o.path = path
	}
}

// WithTitle sets the title shown on preview pages.
func WithTitle(title string) Option {
	return func(o *options) {
		o.title = title
	}
}

// WithLogger sets the logger used by the preview handler.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// Mount serves reg on an Echo instance and returns the handler.
//
//	e := echo.New()
//	previewecho.Mount(e, reg, previewecho.WithPath("/mail/"))
func Mount(e *echo.Echo, reg *mailpreview.Registry, opts ...Option) *server.Handler {
	o := newOptions(opts)
	h := newHandler(reg, o, o.path)
	e.Any(o.path+"*", echo.WrapHandler(h))
	e.Any(strings.TrimSuffix(o.path, "/"), echo.WrapHandler(h))
	return h
}

// MountGroup serves reg on an Echo group so previews share the group's
// middleware (auth, logging, etc.). prefix must be the group's prefix as
// passed to e.Group.
//
//	g := e.Group("/admin", authMiddleware)
//	previewecho.MountGroup(g, "/admin", reg)
func MountGroup(g *echo.Group, prefix string, reg *mailpreview.Registry, opts ...Option) *server.Handler {
	o := newOptions(opts)
	h := newHandler(reg, o, strings.TrimSuffix(prefix, "/")+o.path)
	g.Any(o.path+"*", echo.WrapHandler(h))
	return h
}

func newOptions(opts []Option) *options {
	o := &options{path: DefaultPath}
	for _, opt := range opts {
		opt(o)
	}
	if !strings.HasSuffix(o.path, "/") {
		o.path += "/"
	}
	if !strings.HasPrefix(o.path, "/") {
		o.path = "/" + o.path
	}
	return o
}

func newHandler(reg *mailpreview.Registry, o *options, base string) *server.Handler {
	serverOpts := []server.Option{server.WithBasePath(base)}
	if o.title != "" {
		serverOpts = append(serverOpts, server.WithTitle(o.title))
	}
	if o.logger != nil {
		serverOpts = append(serverOpts, server.WithLogger(o.logger))
	}
	return server.New(reg, serverOpts...)
}

// Render writes a templ component to the Echo response.
//
//	func handler(c echo.Context) error {
//	    return previewecho.Render(c, ui.IndexPage(title, snap, links))
//	}
func Render(c echo.Context, component templ.Component) error {
	c.Response().Header().Set("Content-Type", "text/html; charset=utf-8")
	return component.Render(c.Request().Context(), c.Response())
}
