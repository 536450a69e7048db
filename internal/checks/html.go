package checks

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// parseArticleHTML parses generated article body HTML into a queryable
// document. Article bodies are fragments, not full pages; goquery wraps
// them in html/body for us.
func parseArticleHTML(content string) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("failed to parse article HTML: %w", err)
	}
	return doc, nil
}

// headingIDs collects the id attributes of all headings in the article.
// TOC anchors must resolve against this set.
func headingIDs(doc *goquery.Document) map[string]bool {
	ids := make(map[string]bool)
	doc.Find("h1, h2, h3, h4, h5, h6").Each(func(_ int, s *goquery.Selection) {
		if id, ok := s.Attr("id"); ok && id != "" {
			ids[id] = true
		}
	})
	return ids
}

// brokenAnchors returns the fragment targets of in-page anchor links that do
// not resolve to a heading id or any element id in the article.
func brokenAnchors(doc *goquery.Document) []string {
	ids := headingIDs(doc)
	doc.Find("[id]").Each(func(_ int, s *goquery.Selection) {
		if id, ok := s.Attr("id"); ok && id != "" {
			ids[id] = true
		}
	})

	var broken []string
	doc.Find("a[href^='#']").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		target := strings.TrimPrefix(href, "#")
		if target == "" {
			return
		}
		if !ids[target] {
			broken = append(broken, target)
		}
	})
	return broken
}

// h1Count returns the number of <h1> elements in the article body.
// Generated articles carry their title in metadata; body H1s indicate the
// generator failed to demote source headings.
func h1Count(doc *goquery.Document) int {
	return doc.Find("h1").Length()
}

// bareCodeBlocks returns the number of <pre> elements that do not wrap a
// <code> child, plus the number of multi-line <code> elements outside <pre>.
// Either shape loses semantics that downstream renderers depend on.
func bareCodeBlocks(doc *goquery.Document) int {
	count := 0
	doc.Find("pre").Each(func(_ int, s *goquery.Selection) {
		if s.Find("code").Length() == 0 {
			count++
		}
	})
	doc.Find("code").Each(func(_ int, s *goquery.Selection) {
		if s.ParentsFiltered("pre").Length() > 0 {
			return
		}
		if strings.Contains(s.Text(), "\n") {
			count++
		}
	})
	return count
}

// orderedListCount returns the number of <ol> elements with at least one
// <li> child.
func orderedListCount(doc *goquery.Document) int {
	count := 0
	doc.Find("ol").Each(func(_ int, s *goquery.Selection) {
		if s.Find("li").Length() > 0 {
			count++
		}
	})
	return count
}

// unwrappedImages returns the number of <img> elements that are not inside
// a <figure>, and the number of figures lacking a <figcaption>.
func unwrappedImages(doc *goquery.Document) (bareImgs, captionless int) {
	doc.Find("img").Each(func(_ int, s *goquery.Selection) {
		if s.ParentsFiltered("figure").Length() == 0 {
			bareImgs++
		}
	})
	doc.Find("figure").Each(func(_ int, s *goquery.Selection) {
		if s.Find("figcaption").Length() == 0 {
			captionless++
		}
	})
	return bareImgs, captionless
}
