package handlers

import (
	"bytes"
	"embed"
	"html/template"

	"github.com/gofiber/fiber/v2"
)

//go:embed templates/*.html
var templateFS embed.FS

// pageData is passed to every page template
type pageData struct {
	User        string
	Error       string
	Username    string
	AuthEnabled bool
}

// pageRenderer renders the login and forecasting pages
type pageRenderer struct {
	templates *template.Template
}

func newPageRenderer() *pageRenderer {
	return &pageRenderer{
		templates: template.Must(template.ParseFS(templateFS, "templates/*.html")),
	}
}

// render writes the named template with status
func (p *pageRenderer) render(c *fiber.Ctx, status int, name string, data pageData) error {
	var buf bytes.Buffer
	if err := p.templates.ExecuteTemplate(&buf, name, data); err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	c.Set(fiber.HeaderCacheControl, "no-store")
	return c.Status(status).Send(buf.Bytes())
}
