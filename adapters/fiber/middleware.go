package fiber

import (
	"errors"

	"github.com/dcvalino/mysite/core"
	"github.com/gofiber/fiber/v3"
)

const registerPath = "/register"

// requireSession is the session gate: it verifies the session cookie and stores
// the session in request locals. Visitors without a valid session are sent to
// the registration page.
func (h *handlers) requireSession(c fiber.Ctx) error {
	token := c.Cookies(h.config.CookieName)
	if token == "" {
		return c.Redirect().Status(fiber.StatusSeeOther).To(registerPath)
	}

	ctx, cancel := requestContext(c, h.site.RequestTimeout)
	defer cancel()

	session, err := h.site.Sessions.Verify(ctx, token)
	if err != nil {
		if errors.Is(err, core.ErrStorageUnavailable) {
			return err
		}
		h.clearSessionCookie(c)
		return c.Redirect().Status(fiber.StatusSeeOther).To(registerPath)
	}

	c.Locals(localsSession, session)

	return c.Next()
}

// sessionFrom returns the session stored by requireSession, or an empty one
func sessionFrom(c fiber.Ctx) *core.Session {
	if s, ok := c.Locals(localsSession).(*core.Session); ok && s != nil {
		return s
	}
	return &core.Session{}
}
