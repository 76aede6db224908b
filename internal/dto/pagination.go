package dto

import (
	"net/url"
	"strconv"
)

// PageMeta describes one page of an ordered result set.
// From/To are 1-based item positions; both are 0 for an empty page.
type PageMeta struct {
	CurrentPage int   `json:"current_page"`
	PerPage     int   `json:"per_page"`
	Total       int64 `json:"total"`
	LastPage    int   `json:"last_page"`
	From        int64 `json:"from"`
	To          int64 `json:"to"`
}

// PageLink is one numbered pagination control.
type PageLink struct {
	Page   int    `json:"page"`
	URL    string `json:"url"`
	Active bool   `json:"active"`
}

// PageLinks carries navigational URLs. Prev/Next are empty strings at the
// edges. Every URL keeps the active search and filter query parameters, so
// navigating pages never changes the result scope being browsed.
type PageLinks struct {
	First string     `json:"first"`
	Last  string     `json:"last"`
	Prev  string     `json:"prev"`
	Next  string     `json:"next"`
	Pages []PageLink `json:"pages"`
}

// NewPageMeta computes pagination metadata for a page of a result set of
// total items. An empty result set still has LastPage 1 so that page 1 is
// always addressable.
func NewPageMeta(total int64, page, perPage int) PageMeta {
	last := int((total + int64(perPage) - 1) / int64(perPage))
	if last < 1 {
		last = 1
	}
	m := PageMeta{
		CurrentPage: page,
		PerPage:     perPage,
		Total:       total,
		LastPage:    last,
	}
	from := int64(page-1)*int64(perPage) + 1
	if from <= total {
		m.From = from
		to := from + int64(perPage) - 1
		if to > total {
			to = total
		}
		m.To = to
	}
	return m
}

// NewPageLinks builds the link set for basePath, carrying over filters
// (search/status/priority) into every generated URL.
func NewPageLinks(basePath string, filters ListFilters, meta PageMeta) PageLinks {
	links := PageLinks{
		First: pageURL(basePath, filters, 1),
		Last:  pageURL(basePath, filters, meta.LastPage),
	}
	if meta.CurrentPage > 1 {
		links.Prev = pageURL(basePath, filters, meta.CurrentPage-1)
	}
	if meta.CurrentPage < meta.LastPage {
		links.Next = pageURL(basePath, filters, meta.CurrentPage+1)
	}
	links.Pages = make([]PageLink, 0, meta.LastPage)
	for p := 1; p <= meta.LastPage; p++ {
		links.Pages = append(links.Pages, PageLink{
			Page:   p,
			URL:    pageURL(basePath, filters, p),
			Active: p == meta.CurrentPage,
		})
	}
	return links
}

func pageURL(basePath string, filters ListFilters, page int) string {
	q := url.Values{}
	if filters.Search != "" {
		q.Set("search", filters.Search)
	}
	if filters.Status != "" && filters.Status != "all" {
		q.Set("status", filters.Status)
	}
	if filters.Priority != "" && filters.Priority != "all" {
		q.Set("priority", filters.Priority)
	}
	q.Set("page", strconv.Itoa(page))
	return basePath + "?" + q.Encode()
}
