// Package webui serves the dashboard page and the debug data dumps.
package webui

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"happydash.dev/internal/app"
	"happydash.dev/internal/logging"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

type WebUI struct {
	*app.Application
	templates *template.Template
}

// NewWebUI parses the embedded templates.
func NewWebUI(application *app.Application) (*WebUI, error) {
	funcMap := template.FuncMap{
		"add": func(a, b int) int { return a + b },
		"query": func(pairs ...string) template.URL {
			values := url.Values{}
			for i := 0; i+1 < len(pairs); i += 2 {
				if pairs[i+1] != "" {
					values.Set(pairs[i], pairs[i+1])
				}
			}
			return template.URL(values.Encode())
		},
		"number": func(v *float64) string {
			if v == nil {
				return "-"
			}
			return strconv.FormatFloat(*v, 'f', -1, 64)
		},
	}

	templates, err := template.New("").Funcs(funcMap).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parsing templates: %w", err)
	}
	return &WebUI{Application: application, templates: templates}, nil
}

func staticFiles() http.FileSystem {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return http.FS(sub)
}

func (webUI *WebUI) render(w http.ResponseWriter, name string, data interface{}) {
	var buf bytes.Buffer
	if err := webUI.templates.ExecuteTemplate(&buf, name, data); err != nil {
		logging.LogError(webUI.Logger, "failed to render template", err, slog.String("template", name))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}
