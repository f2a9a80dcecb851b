// Package toc extracts table-of-contents entries from site pages.
package toc

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Entry is one (title, link) pair from a table of contents. Column is empty
// for root-level entries and set to the owning column title on sub-entries.
type Entry struct {
	Title  string
	Href   string
	Column string
}

// Parse extracts the ordered entries from the first list inside the first
// "book-post" container of body. Pages without the container or the list
// simply have no TOC, so Parse returns an empty slice rather than an error.
func Parse(body string) ([]Entry, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse toc document: %w", err)
	}

	post := doc.Find(".book-post").First()
	if post.Length() == 0 {
		return []Entry{}, nil
	}
	list := post.Find("ul").First()
	if list.Length() == 0 {
		return []Entry{}, nil
	}

	entries := []Entry{}
	list.ChildrenFiltered("li").Each(func(_ int, li *goquery.Selection) {
		link := li.Find("a").First()
		if link.Length() == 0 {
			return
		}
		href, _ := link.Attr("href")
		entries = append(entries, Entry{
			Title: strings.TrimSpace(link.Text()),
			Href:  href,
		})
	})
	return entries, nil
}
