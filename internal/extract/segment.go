package extract

import (
	"bytes"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// candidateSelector lists the structural cues mined for candidate phrases:
// headings, list items, navigation links, and card-style service blocks.
// Matches come back in document order, which preserves first-seen ordering.
const candidateSelector = "h1, h2, h3, h4, li, nav a, " +
	".service, .card, .box, .item, .feature, .treatment, .procedure"

// maxStandaloneWords bounds the short standalone sentences considered from
// paragraph text. Longer prose is never a service name.
const maxStandaloneWords = 12

// Segment splits a page body into candidate phrases. It is a heuristic pass
// over structural cues, not a parser: long prose is ignored and nested
// containers contribute their title text only.
func Segment(body []byte) []string {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil
	}

	var candidates []string
	push := func(text string) {
		text = strings.TrimSpace(text)
		if text != "" {
			candidates = append(candidates, text)
		}
	}

	doc.Find(candidateSelector).Each(func(_ int, sel *goquery.Selection) {
		node := goquery.NodeName(sel)
		switch node {
		case "h1", "h2", "h3", "h4", "a":
			push(sel.Text())
		case "li":
			// Take the item's own line, not any nested sublist.
			push(ownText(sel))
		default:
			// Card-style blocks: use the block title when present.
			title := sel.Find("h2, h3, h4, .title, .heading, .service-title").First()
			if title.Length() > 0 {
				push(title.Text())
			}
		}
	})

	doc.Find("p").Each(func(_ int, sel *goquery.Selection) {
		text := strings.TrimSpace(sel.Text())
		if text == "" || len(strings.Fields(text)) > maxStandaloneWords {
			return
		}
		push(text)
	})

	return candidates
}

// ownText returns the selection's text with nested list content removed.
func ownText(sel *goquery.Selection) string {
	clone := sel.Clone()
	clone.Find("ul, ol").Remove()
	return clone.Text()
}

// collapseSpace flattens runs of whitespace in a surface phrase while keeping
// its original casing and punctuation.
func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
