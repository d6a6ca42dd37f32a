package web

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/siteoptz/siteoptz/internal/catalog"
	"github.com/siteoptz/siteoptz/internal/pricing"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

const layout = "templates/layout.html"

// Templates parses every page together with the shared layout. The result is
// keyed by page file name, e.g. "calculator.html".
func Templates() (map[string]*template.Template, error) {
	pages, err := fs.Glob(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}

	out := make(map[string]*template.Template, len(pages))
	for _, page := range pages {
		if page == layout {
			continue
		}
		t, err := template.New("layout.html").Funcs(funcMap()).ParseFS(templateFS, layout, page)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", page, err)
		}
		out[strings.TrimPrefix(page, "templates/")] = t
	}
	return out, nil
}

// Static serves the embedded assets under /static/.
func Static() http.Handler {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
}

func funcMap() template.FuncMap {
	return template.FuncMap{
		"money":      pricing.FormatMoney,
		"price":      func(p catalog.Price) string { return p.String() },
		"cents":      formatCents,
		"stars":      func(r float64) string { return fmt.Sprintf("%.1f", r) },
		"add":        func(a, b int) int { return a + b },
		"contains":   contains,
		"usageSteps": usageSteps,
	}
}

func formatCents(c int64) string {
	return pricing.FormatMoney(decimal.New(c, -2))
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func usageSteps() []int {
	steps := make([]int, 0, 10)
	for u := 10; u <= 100; u += 10 {
		steps = append(steps, u)
	}
	return steps
}
