package pages

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"net/http"

	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"

	"github.com/ziadkadry99/direktor/internal/state"
	"github.com/ziadkadry99/direktor/internal/theme"
)

// Page is what a view is rendered from.
type Page struct {
	Path  string
	State state.Snapshot
	Mode  theme.Mode
}

// View is one presentational page.
type View interface {
	Name() string
	Title() string
	Status() int
	Render(w io.Writer, p Page) error
}

type navItem struct {
	Label  string
	Path   string
	Active bool
}

// viewData is the template input. The layout reads the chrome fields; each
// view's content block reads only what its input func fills in.
type viewData struct {
	View     string
	Title    string
	Path     string
	Mode     string
	Version  uint64
	Nav      []navItem
	Error    string
	HasError bool

	Domains []state.Domain
	Body    template.HTML
}

type view struct {
	name   string
	title  string
	status int
	tmpl   *template.Template
	input  func(p Page, d *viewData)
}

func (v *view) Name() string  { return v.name }
func (v *view) Title() string { return v.title }
func (v *view) Status() int   { return v.status }

// Render executes the view into w. Output is buffered so a template error
// never leaves a half-written page.
func (v *view) Render(w io.Writer, p Page) error {
	d := viewData{
		View:     v.name,
		Title:    v.title,
		Path:     p.Path,
		Mode:     p.Mode.String(),
		Version:  p.State.Version,
		Nav:      navFor(p.Path),
		Error:    p.State.Error,
		HasError: p.State.HasError,
	}
	if v.input != nil {
		v.input(p, &d)
	}

	var buf bytes.Buffer
	if err := v.tmpl.ExecuteTemplate(&buf, "layout", d); err != nil {
		return fmt.Errorf("rendering %s: %w", v.name, err)
	}
	_, err := buf.WriteTo(w)
	return err
}

var navLinks = []navItem{
	{Label: "Home", Path: PathHome},
	{Label: "Search", Path: PathSearch},
	{Label: "About", Path: PathAbout},
}

func navFor(path string) []navItem {
	items := make([]navItem, len(navLinks))
	for i, n := range navLinks {
		n.Active = n.Path == path
		items[i] = n
	}
	return items
}

func parseView(name, file string) (*template.Template, error) {
	t, err := template.New(name).ParseFS(templateFS, "templates/layout.html", "templates/"+file)
	if err != nil {
		return nil, fmt.Errorf("parsing %s template: %w", name, err)
	}
	return t, nil
}

func newHome() (*view, error) {
	t, err := parseView("home", "home.html")
	if err != nil {
		return nil, err
	}
	return &view{
		name:   "home",
		title:  "Home",
		status: http.StatusOK,
		tmpl:   t,
		input: func(p Page, d *viewData) {
			d.Domains = p.State.Domains
		},
	}, nil
}

func newSearch() (*view, error) {
	t, err := parseView("search", "search.html")
	if err != nil {
		return nil, err
	}
	return &view{name: "search", title: "Search", status: http.StatusOK, tmpl: t}, nil
}

func newAbout() (*view, error) {
	t, err := parseView("about", "about.html")
	if err != nil {
		return nil, err
	}

	src, err := contentFS.ReadFile("content/about.md")
	if err != nil {
		return nil, fmt.Errorf("reading about content: %w", err)
	}
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			highlighting.NewHighlighting(
				highlighting.WithStyle("github"),
			),
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
	)
	var buf bytes.Buffer
	if err := md.Convert(src, &buf); err != nil {
		return nil, fmt.Errorf("converting about content: %w", err)
	}
	body := template.HTML(buf.String())

	return &view{
		name:   "about",
		title:  "About",
		status: http.StatusOK,
		tmpl:   t,
		input: func(_ Page, d *viewData) {
			d.Body = body
		},
	}, nil
}

func newNotFound() (*view, error) {
	t, err := parseView("notfound", "notfound.html")
	if err != nil {
		return nil, err
	}
	return &view{name: "notfound", title: "Not Found", status: http.StatusNotFound, tmpl: t}, nil
}
