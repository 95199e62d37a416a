package fiber

import (
	"bytes"
	"embed"
	"html/template"

	"github.com/dcvalino/mysite/core"
	"github.com/gofiber/fiber/v3"
)

//go:embed templates/*.html
var templateFS embed.FS

// staticFS holds the catalog images referenced by core.DemoGames
//
//go:embed static
var staticFS embed.FS

const (
	pageRegister = "register.html"
	pageMain     = "main.html"
	pageDetail   = "detail.html"
)

type registerPage struct {
	Email string
	Error string
}

type mainPage struct {
	Email string
	Games []*core.Game
}

type detailPage struct {
	Email string
	Game  *core.Game
}

type views struct {
	pages map[string]*template.Template
}

func newViews() *views {
	funcs := template.FuncMap{"price": formatPrice}

	v := &views{pages: make(map[string]*template.Template)}
	for _, page := range []string{pageRegister, pageMain, pageDetail} {
		v.pages[page] = template.Must(
			template.New(page).Funcs(funcs).ParseFS(templateFS, "templates/layout.html", "templates/"+page),
		)
	}
	return v
}

func (v *views) render(c fiber.Ctx, status int, page string, data any) error {
	var buf bytes.Buffer
	if err := v.pages[page].ExecuteTemplate(&buf, "layout", data); err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return c.Status(status).Send(buf.Bytes())
}
