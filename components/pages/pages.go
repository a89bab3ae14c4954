// components/pages/pages.go
//
// Server-rendered detail pages for articles, fatawa, and books.
//
/*
Context
--------
The public site is a JS app, but crawlers and link unfurlers need real
HTML with Open Graph, Twitter, canonical, and JSON-LD tags.  These three
routes render a minimal readable page per entity with a fully populated
<head> built through internal/head.

Routes
------
  GET /article/{id}
  GET /fatwa/{id}
  GET /book/{id}

Only active (and for fatawa, answered) rows render; everything else is a
plain 404 so crawlers drop the URL.
*/
package pages

import (
	"html/template"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/masailworld/masail-server/components/article"
	"github.com/masailworld/masail-server/components/book"
	"github.com/masailworld/masail-server/components/fatwa"
	"github.com/masailworld/masail-server/internal/head"
	"github.com/masailworld/masail-server/internal/web"
)

// Comp renders the public detail pages.
type Comp struct {
	articles *article.Repo
	fatawa   *fatwa.Repo
	books    *book.Repo

	siteName string
	origin   string
}

// New builds the component.  origin is the public scheme+host, no
// trailing slash.
func New(articles *article.Repo, fatawa *fatwa.Repo, books *book.Repo, siteName, origin string) *Comp {
	return &Comp{
		articles: articles,
		fatawa:   fatawa,
		books:    books,
		siteName: siteName,
		origin:   origin,
	}
}

func (c *Comp) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/article/{id}", c.articlePage)
	r.Get("/fatwa/{id}", c.fatwaPage)
	r.Get("/book/{id}", c.bookPage)
	return r
}

var pageTpl = template.Must(template.New("page").Parse(`<!doctype html>
<html lang="ur" dir="rtl">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
{{.Head.Title}}{{.Head.Metas}}{{.Head.Links}}{{.Head.JSON}}
</head>
<body>
<article>
  <h1>{{.Title}}</h1>
  {{if .Byline}}<p class="byline">{{.Byline}}</p>{{end}}
  {{if .Date}}<time>{{.Date}}</time>{{end}}
  <div class="body">{{.Body}}</div>
</article>
</body>
</html>`))

// pageData feeds pageTpl.  Body is stored HTML authored in the dashboard
// editor, rendered as-is.
type pageData struct {
	Head   *head.Builder
	Title  string
	Byline string
	Date   string
	Body   template.HTML
}

func (c *Comp) render(w http.ResponseWriter, data pageData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pageTpl.Execute(w, data); err != nil {
		zap.L().Error("page render failed", zap.Error(err))
	}
}

func (c *Comp) articlePage(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	a, err := c.articles.GetByID(r.Context(), id)
	if err != nil || !a.IsActive {
		c.notFound(w, r, err)
		return
	}

	url := c.origin + "/article/" + strconv.FormatInt(a.ID, 10)
	desc := descriptionOf(a.Text)

	h := head.New()
	h.SetTitle(a.Title + " | " + c.siteName)
	h.Description(desc)
	h.Canonical(url)
	h.OpenGraph("article", a.Title, desc, url, c.origin+"/api/article/"+strconv.FormatInt(a.ID, 10)+"/cover")
	h.TwitterCard(a.Title, desc, "")
	h.JSONLD(articleJSONLD(a.Title, desc, url, a.Writer))

	c.render(w, pageData{
		Head:   h,
		Title:  a.Title,
		Byline: a.Writer,
		Date:   urduDate(a.CreatedAt),
		Body:   template.HTML(a.Text),
	})
}

func (c *Comp) fatwaPage(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	f, err := c.fatawa.GetByID(r.Context(), id)
	if err != nil || !f.IsActive || f.Status != fatwa.StatusAnswered {
		c.notFound(w, r, err)
		return
	}

	url := c.origin + "/fatwa/" + strconv.FormatInt(f.ID, 10)
	desc := descriptionOf(f.Answer)
	if desc == "" {
		desc = descriptionOf(f.DetailQuestion)
	}

	h := head.New()
	h.SetTitle(f.Title + " | " + c.siteName)
	h.Description(desc)
	h.Canonical(url)
	h.OpenGraph("article", f.Title, desc, url, "")
	h.TwitterCard(f.Title, desc, "")
	h.JSONLD(qaJSONLD(f.Title, descriptionOf(f.DetailQuestion), desc, url, f.MuftiSahab))

	c.render(w, pageData{
		Head:   h,
		Title:  f.Title,
		Byline: f.MuftiSahab,
		Date:   urduDate(f.CreatedAt),
		Body:   template.HTML(f.Answer),
	})
}

func (c *Comp) bookPage(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	b, err := c.books.GetByID(r.Context(), id)
	if err != nil || !b.IsActive {
		c.notFound(w, r, err)
		return
	}

	url := c.origin + "/book/" + strconv.FormatInt(b.ID, 10)
	desc := descriptionOf(b.Description)

	h := head.New()
	h.SetTitle(b.Name + " | " + c.siteName)
	h.Description(desc)
	h.Canonical(url)
	h.OpenGraph("book", b.Name, desc, url, c.origin+"/api/book/"+strconv.FormatInt(b.ID, 10)+"/cover")
	h.TwitterCard(b.Name, desc, c.origin+"/api/book/"+strconv.FormatInt(b.ID, 10)+"/cover")
	h.JSONLD(bookJSONLD(b.Name, desc, url, b.Writer))

	c.render(w, pageData{
		Head:   h,
		Title:  b.Name,
		Byline: b.Writer,
		Date:   urduDate(b.InsertedDate),
		Body:   template.HTML(b.Description),
	})
}

// notFound renders a plain 404 for missing or hidden rows; real storage
// failures are logged first.
func (c *Comp) notFound(w http.ResponseWriter, r *http.Request, err error) {
	if err != nil && !web.IsNotFoundError(err) {
		zap.L().Error("page load failed", zap.String("path", r.URL.Path), zap.Error(err))
	}
	http.NotFound(w, r)
}

func idParam(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}
