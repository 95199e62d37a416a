package fiber

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/dcvalino/mysite/core"
	"github.com/gofiber/fiber/v3"
)

type handlers struct {
	site   *core.Site
	config Config
	views  *views
}

func (h *handlers) registerForm(c fiber.Ctx) error {
	return h.views.render(c, http.StatusOK, pageRegister, registerPage{})
}

// registerSubmit runs one registration attempt. On success it opens a session,
// sets the cookie and redirects; on failure it re-renders the form.
func (h *handlers) registerSubmit(c fiber.Ctx) error {
	var input core.RegistrationRequest
	if err := c.Bind().Body(&input); err != nil {
		return h.registerFailed(c, input, core.ErrInvalidInput)
	}

	ctx, cancel := requestContext(c, h.site.RequestTimeout)
	defer cancel()

	identity, err := h.site.Registration.Register(ctx, input)
	if err != nil {
		return h.registerFailed(c, input, err)
	}

	result, err := h.site.Sessions.Create(ctx, identity, c.IP(), c.Get(fiber.HeaderUserAgent))
	if err != nil {
		h.site.Logger.ErrorContext(ctx, "session creation after registration failed",
			"identity_id", identity.ID, "error", err)
		return h.registerFailed(c, core.RegistrationRequest{Email: identity.Email}, err)
	}

	h.setSessionCookie(c, result.Token, result.Session.ExpiresAt)

	if c.Is("json") {
		return c.Status(http.StatusCreated).JSON(fiber.Map{
			"identity": identity,
			"redirect": h.site.SuccessRedirect,
		})
	}
	return c.Redirect().Status(fiber.StatusSeeOther).To(h.site.SuccessRedirect)
}

func (h *handlers) registerFailed(c fiber.Ctx, input core.RegistrationRequest, err error) error {
	status := mapErrorToStatus(err)
	if status >= http.StatusInternalServerError {
		h.site.Logger.ErrorContext(c.Context(), "registration failed", "status", status, "error", err)
	}

	if c.Is("json") {
		return c.Status(status).JSON(core.ErrorResponse{
			Error:   errorCode(err),
			Message: userMessage(err),
			Code:    status,
		})
	}
	return h.views.render(c, status, pageRegister, registerPage{
		Email: input.Email,
		Error: userMessage(err),
	})
}

func (h *handlers) listGames(c fiber.Ctx) error {
	ctx, cancel := requestContext(c, h.site.RequestTimeout)
	defer cancel()

	games, err := h.site.Catalog.List(ctx)
	if err != nil {
		return err
	}

	if wantsJSON(c) {
		return c.JSON(games)
	}
	return h.views.render(c, http.StatusOK, pageMain, mainPage{
		Email: sessionFrom(c).Email,
		Games: games,
	})
}

func (h *handlers) gameDetail(c fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Query("juego_id"), 10, 64)
	if err != nil {
		return h.gameNotFound(c)
	}

	ctx, cancel := requestContext(c, h.site.RequestTimeout)
	defer cancel()

	game, err := h.site.Catalog.Get(ctx, id)
	if errors.Is(err, core.ErrGameNotFound) {
		return h.gameNotFound(c)
	}
	if err != nil {
		return err
	}

	if wantsJSON(c) {
		return c.JSON(game)
	}
	return h.views.render(c, http.StatusOK, pageDetail, detailPage{Email: sessionFrom(c).Email, Game: game})
}

func (h *handlers) gameNotFound(c fiber.Ctx) error {
	if wantsJSON(c) {
		return c.Status(http.StatusNotFound).JSON(core.ErrorResponse{
			Error:   "game_not_found",
			Message: userMessage(core.ErrGameNotFound),
			Code:    http.StatusNotFound,
		})
	}
	return h.views.render(c, http.StatusNotFound, pageDetail, detailPage{Email: sessionFrom(c).Email})
}

// logout destroys the session when there is one and always clears the cookie
func (h *handlers) logout(c fiber.Ctx) error {
	if token := c.Cookies(h.config.CookieName); token != "" {
		ctx, cancel := requestContext(c, h.site.RequestTimeout)
		defer cancel()

		if err := h.site.Sessions.Destroy(ctx, token); err != nil {
			h.site.Logger.WarnContext(ctx, "session destroy failed", "error", err)
		}
	}

	h.clearSessionCookie(c)
	return c.Redirect().Status(fiber.StatusSeeOther).To(registerPath)
}

func (h *handlers) health(c fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

func (h *handlers) setSessionCookie(c fiber.Ctx, token string, expiresAt time.Time) {
	c.Cookie(&fiber.Cookie{
		Name:     h.config.CookieName,
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		HTTPOnly: true,
		Secure:   h.config.CookieSecure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

func (h *handlers) clearSessionCookie(c fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     h.config.CookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HTTPOnly: true,
		Secure:   h.config.CookieSecure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

// wantsJSON reports whether a read request prefers JSON over the HTML page
func wantsJSON(c fiber.Ctx) bool {
	if c.Get(fiber.HeaderAccept) == "" {
		return false
	}
	return c.Accepts(fiber.MIMETextHTML, fiber.MIMEApplicationJSON) == fiber.MIMEApplicationJSON
}

// mapErrorToStatus maps core error types to HTTP status codes
func mapErrorToStatus(err error) int {
	if err == nil {
		return http.StatusOK
	}

	var fiberErr *fiber.Error
	switch {
	case errors.Is(err, core.ErrInvalidInput),
		errors.Is(err, core.ErrPasswordMismatch):
		return http.StatusBadRequest

	case errors.Is(err, core.ErrDuplicateIdentity):
		return http.StatusConflict

	case errors.Is(err, core.ErrStorageUnavailable):
		return http.StatusServiceUnavailable

	case errors.Is(err, core.ErrInvalidToken),
		errors.Is(err, core.ErrSessionNotFound),
		errors.Is(err, core.ErrSessionExpired):
		return http.StatusUnauthorized

	case errors.Is(err, core.ErrGameNotFound):
		return http.StatusNotFound

	case errors.As(err, &fiberErr):
		return fiberErr.Code

	default:
		return http.StatusInternalServerError
	}
}

// errorCode is the stable machine-readable error name for JSON clients
func errorCode(err error) string {
	switch {
	case errors.Is(err, core.ErrPasswordMismatch):
		return "password_mismatch"
	case errors.Is(err, core.ErrInvalidInput):
		return "invalid_input"
	case errors.Is(err, core.ErrDuplicateIdentity):
		return "duplicate_identity"
	case errors.Is(err, core.ErrStorageUnavailable):
		return "storage_unavailable"
	case errors.Is(err, core.ErrGameNotFound):
		return "game_not_found"
	default:
		return "internal_error"
	}
}

// userMessage never exposes internal detail: storage and hashing failures get a generic text
func userMessage(err error) string {
	switch {
	case errors.Is(err, core.ErrPasswordMismatch):
		return "Las contraseñas no coinciden."
	case errors.Is(err, core.ErrDuplicateIdentity):
		return "El correo ya está registrado."
	case errors.Is(err, core.ErrEmailRequired):
		return "Introduce un correo electrónico."
	case errors.Is(err, core.ErrInvalidEmail):
		return "El correo electrónico no es válido."
	case errors.Is(err, core.ErrPasswordRequired):
		return "Introduce una contraseña."
	case errors.Is(err, core.ErrPasswordTooLong):
		return "La contraseña es demasiado larga (máximo 72 bytes)."
	case errors.Is(err, core.ErrInvalidInput):
		return "Los datos del formulario no son válidos."
	case errors.Is(err, core.ErrStorageUnavailable):
		return "El servicio no está disponible. Inténtalo de nuevo más tarde."
	case errors.Is(err, core.ErrGameNotFound):
		return "No se encontraron resultados."
	default:
		return "Se ha producido un error interno."
	}
}

// ErrorHandler renders errors that escape a handler. Pass it as fiber.Config.ErrorHandler.
func ErrorHandler(c fiber.Ctx, err error) error {
	status := mapErrorToStatus(err)
	if status >= http.StatusInternalServerError {
		slog.ErrorContext(c.Context(), "request failed", "method", c.Method(), "path", c.Path(), "status", status, "error", err)
	}
	if c.Is("json") || wantsJSON(c) {
		return c.Status(status).JSON(core.ErrorResponse{Error: errorCode(err), Message: userMessage(err), Code: status})
	}

	message := userMessage(err)
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		message = fiberErr.Message
	}
	c.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)
	return c.Status(status).SendString(message)
}
