package fiber

import (
	"context"
	"fmt"
	"io/fs"
	"time"

	"github.com/dcvalino/mysite/core"
	"github.com/dcvalino/mysite/services"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/static"
)

const (
	DefaultCookieName = "mysite_session"

	// StaticPrefix is where the embedded images are served
	StaticPrefix = "/static"

	// localsSession is the request-local key the session gate stores the verified session under
	localsSession = "session"
)

// Config controls how the adapter issues the session cookie
type Config struct {
	CookieName   string
	CookieSecure bool
}

type Adapter struct {
	app      *fiber.App
	config   Config
	registry *services.EndpointRegistry
	views    *views
}

var _ core.HTTPAdapter = (*Adapter)(nil)

func New(app *fiber.App, config ...Config) *Adapter {
	cfg := Config{}
	if len(config) > 0 {
		cfg = config[0]
	}
	if cfg.CookieName == "" {
		cfg.CookieName = DefaultCookieName
	}
	return &Adapter{
		app:      app,
		config:   cfg,
		registry: services.NewEndpointRegistry(),
		views:    newViews(),
	}
}

// RegisterRoutes binds a handler to every endpoint of the route table.
// Protected endpoints run behind the session gate.
func (a *Adapter) RegisterRoutes(site *core.Site) error {
	h := &handlers{site: site, config: a.config, views: a.views}

	byOperation := map[string]fiber.Handler{
		services.OpRegisterForm:   h.registerForm,
		services.OpRegisterSubmit: h.registerSubmit,
		services.OpListGames:      h.listGames,
		services.OpGameDetail:     h.gameDetail,
		services.OpLogout:         h.logout,
		services.OpHealth:         h.health,
	}

	for _, ep := range a.registry.Endpoints() {
		handler, ok := byOperation[ep.Metadata.OperationID]
		if !ok {
			return fmt.Errorf("no handler for operation %q (%s %s)", ep.Metadata.OperationID, ep.Method, ep.Path)
		}

		methods := []string{ep.Method}
		if ep.Protected {
			a.app.Add(methods, ep.Path, h.requireSession, handler)
		} else {
			a.app.Add(methods, ep.Path, handler)
		}
	}

	assets, err := fs.Sub(staticFS, "static")
	if err != nil {
		return fmt.Errorf("static assets: %w", err)
	}
	a.app.Get(StaticPrefix+"*", static.New("", static.Config{FS: assets, MaxAge: 3600}))

	return nil
}

// requestContext bounds store calls made while serving c
func requestContext(c fiber.Ctx, timeout time.Duration) (context.Context, context.CancelFunc) {
	ctx := c.Context()
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}
