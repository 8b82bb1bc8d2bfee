package screens

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"strings"
)

//go:embed templates/*.html
var templateFS embed.FS

// Page templates, each rendered inside base.html
const (
	TmplLanding     = "landing.html"
	TmplMatchup     = "matchup.html"
	TmplCongrats    = "congrats.html"
	TmplShare       = "share.html"
	TmplLeaderboard = "leaderboard.html"
	TmplBracket     = "bracket.html"
	TmplDrip        = "drip.html"
	TmplScores      = "scores.html"
	TmplAccount     = "account.html"
	TmplGroups      = "groups.html"
	TmplRecap       = "recap.html"
	TmplEnd         = "end.html"
	TmplNotFound    = "notfound.html"
)

var pageTemplates = []string{
	TmplLanding, TmplMatchup, TmplCongrats, TmplShare, TmplLeaderboard, TmplBracket,
	TmplDrip, TmplScores, TmplAccount, TmplGroups, TmplRecap, TmplEnd, TmplNotFound,
}

var funcs = template.FuncMap{
	"upper": strings.ToUpper,
	"pct":   func(f float64) string { return fmt.Sprintf("%.0f%%", f) },
	"sides": func(a, b SideView) []SideView { return []SideView{a, b} },
	// smsURL marks a link built by share.SMSLink as safe to emit
	"smsURL": func(s string) template.URL {
		if !strings.HasPrefix(s, "sms:") {
			return "#"
		}
		return template.URL(s)
	},
	// thousands formats 13480 as 13,480
	"thousands": func(n int) string {
		s := fmt.Sprint(n)
		if n < 0 {
			return "-" + groupDigits(s[1:])
		}
		return groupDigits(s)
	},
}

func groupDigits(s string) string {
	if len(s) <= 3 {
		return s
	}
	head := len(s) % 3
	if head == 0 {
		head = 3
	}
	var b strings.Builder
	b.WriteString(s[:head])
	for i := head; i < len(s); i += 3 {
		b.WriteByte(',')
		b.WriteString(s[i : i+3])
	}
	return b.String()
}

// Renderer holds one parsed template set per page
type Renderer struct {
	pages map[string]*template.Template
}

// NewRenderer parses the embedded templates
func NewRenderer() (*Renderer, error) {
	r := &Renderer{pages: make(map[string]*template.Template, len(pageTemplates))}
	for _, name := range pageTemplates {
		tmpl, err := template.New("base.html").Funcs(funcs).ParseFS(templateFS, "templates/base.html", "templates/"+name)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		r.pages[name] = tmpl
	}
	return r, nil
}

// Render writes page laid out in base.html
func (r *Renderer) Render(w io.Writer, page Page) error {
	tmpl, ok := r.pages[page.Template]
	if !ok {
		return fmt.Errorf("unknown template %q", page.Template)
	}
	return tmpl.ExecuteTemplate(w, "base.html", page)
}

// NotFound is the page for any unknown path
func NotFound(env Env, path string) Page {
	p := NewPage(env, path, TmplNotFound, "Page not found", NotFoundView{Path: path})
	p.ShowNav = false
	p.Nav = nil
	return p
}
