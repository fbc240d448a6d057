package http

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/gymlife/internal/pagination"
)

const defaultTitle = "Gym Life"

// views renders pages with the shared layout data and records flashes.
type views struct {
	flashes Flasher
}

func newViews(flashes Flasher) *views {
	return &views{flashes: flashes}
}

// render fills in Title, Auth and Flashes and writes the named template.
// Flashes are popped here, so a message is shown on exactly one page.
func (v *views) render(c *gin.Context, status int, name string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	if _, ok := data["Title"]; !ok {
		data["Title"] = defaultTitle
	}
	data["Auth"] = GetAuthTemplateData(c)

	var flashes []string
	if v.flashes != nil {
		flashes = v.flashes.PopFlashes(c.Request.Context())
	}
	data["Flashes"] = flashes

	c.HTML(status, name, data)
}

// flash queues a message for the next rendered page.
func (v *views) flash(c *gin.Context, message string) {
	if v.flashes == nil {
		return
	}
	v.flashes.AddFlash(c.Request.Context(), message)
}

// redirectWithFlash queues a message and sends the visitor to location.
func (v *views) redirectWithFlash(c *gin.Context, location, message string) {
	v.flash(c, message)
	c.Redirect(http.StatusFound, location)
}

// notFound renders the 404 page.
func (v *views) notFound(c *gin.Context) {
	v.render(c, http.StatusNotFound, "404.html", gin.H{"Title": "Page not found"})
}

// internalError logs the error and renders the generic 500 page.
// The actual error is logged but not exposed to the client.
func (v *views) internalError(c *gin.Context, err error, context string) {
	log.Printf("Internal error (%s): %v", context, err)
	v.render(c, http.StatusInternalServerError, "500.html", gin.H{"Title": "Error"})
}

// PageLink is one numbered link of a pager.
type PageLink struct {
	Number  int
	URL     string
	Current bool
}

// Pager is a page window together with the links that select its neighbours.
type Pager struct {
	Page  pagination.Page
	Links []PageLink
	Prev  string
	Next  string
}

// buildPager links every valid page by rewriting param in the current query
// string. Other query parameters are kept, so two pagers on one page move
// independently.
func buildPager(c *gin.Context, page pagination.Page, param string) Pager {
	link := func(n int) string {
		query := c.Request.URL.Query()
		query.Set(param, strconv.Itoa(n))
		return c.Request.URL.Path + "?" + query.Encode()
	}

	pager := Pager{Page: page, Links: make([]PageLink, 0, len(page.Pages))}
	for _, n := range page.Pages {
		pager.Links = append(pager.Links, PageLink{Number: n, URL: link(n), Current: n == page.Number})
	}
	if page.HasPrev() && page.InRange() {
		pager.Prev = link(page.Number - 1)
	}
	if page.HasNext() {
		pager.Next = link(page.Number + 1)
	}
	return pager
}

// requestPage builds the window selected by the query parameter param.
func requestPage(c *gin.Context, param string, size int) pagination.Page {
	return pagination.Paginate(0, size, pagination.ParsePage(c.Query(param)))
}
