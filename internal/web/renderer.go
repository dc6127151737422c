package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"net/url"
	"os"
	"path"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/sebuszqo/PersonalFinance/internal/session"
)

const (
	layoutTemplate = "layout.html"

	PageLogin          = "login.html"
	PageRegister       = "register.html"
	PageDashboard      = "dashboard.html"
	PageAddTransaction = "add_transaction.html"
	PageAddBudget      = "add_budget.html"
	PageAddSavingsGoal = "add_savings_goal.html"
	PageNotFound       = "404.html"
	PageInternalError  = "500.html"
)

//go:embed templates/*.html
var embeddedTemplates embed.FS

// Page is the data every template receives.
type Page struct {
	Title         string
	Flashes       []session.Flash
	Authenticated bool
	Form          url.Values
	Data          interface{}
}

type Renderer struct {
	pages    map[string]*template.Template
	sessions session.Store
	log      logrus.FieldLogger
}

// NewRenderer parses the page templates. An empty templatesDir selects the
// templates compiled into the binary.
func NewRenderer(templatesDir string, sessions session.Store, log logrus.FieldLogger) (*Renderer, error) {
	var fsys fs.FS
	if templatesDir != "" {
		fsys = os.DirFS(templatesDir)
	} else {
		sub, err := fs.Sub(embeddedTemplates, "templates")
		if err != nil {
			return nil, err
		}
		fsys = sub
	}

	layout, err := template.New(layoutTemplate).Funcs(templateFuncs).ParseFS(fsys, layoutTemplate)
	if err != nil {
		return nil, fmt.Errorf("failed to parse layout template: %w", err)
	}

	names, err := fs.Glob(fsys, "*.html")
	if err != nil {
		return nil, err
	}

	pages := make(map[string]*template.Template, len(names))
	for _, name := range names {
		if name == layoutTemplate {
			continue
		}
		page, err := layout.Clone()
		if err != nil {
			return nil, err
		}
		if _, err := page.ParseFS(fsys, name); err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", name, err)
		}
		pages[path.Base(name)] = page
	}

	for _, required := range []string{PageNotFound, PageInternalError} {
		if _, ok := pages[required]; !ok {
			return nil, fmt.Errorf("template %s is missing", required)
		}
	}

	return &Renderer{pages: pages, sessions: sessions, log: log}, nil
}

var templateFuncs = template.FuncMap{
	"money": func(d decimal.Decimal) string {
		return d.StringFixed(2)
	},
	"date": func(t time.Time) string {
		return t.Format("2006-01-02 15:04")
	},
	"title": func(s string) string {
		if s == "" {
			return s
		}
		return strings.ToUpper(s[:1]) + s[1:]
	},
}

// Render executes the named page inside the layout. Pending flashes of the
// request's session are consumed.
func (rd *Renderer) Render(w http.ResponseWriter, r *http.Request, status int, name string, page Page) {
	tmpl, ok := rd.pages[name]
	if !ok {
		rd.log.WithField("template", name).Error("unknown template")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	if s, ok := session.FromContext(r.Context()); ok {
		page.Authenticated = s.Authenticated()
		page.Flashes = append(page.Flashes, rd.sessions.PopFlashes(s.Token)...)
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, layoutTemplate, page); err != nil {
		rd.log.WithError(err).WithField("template", name).Error("failed to render template")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func (rd *Renderer) NotFound(w http.ResponseWriter, r *http.Request) {
	rd.Render(w, r, http.StatusNotFound, PageNotFound, Page{Title: "Page not found"})
}

func (rd *Renderer) InternalError(w http.ResponseWriter, r *http.Request) {
	rd.Render(w, r, http.StatusInternalServerError, PageInternalError, Page{Title: "Server error"})
}

// Redirect sends a 302 to target.
func Redirect(w http.ResponseWriter, r *http.Request, target string) {
	http.Redirect(w, r, target, http.StatusFound)
}
