package extractor

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Parse parses html exactly once and runs the single-pass visitor,
// returning the filled facts record. Never returns an error to its
// caller: on malformed input it returns an empty RawFacts, matching
// the extractor's "never throws past its boundary" contract.
func Parse(html, baseURL string) *RawFacts {
	facts := &RawFacts{BaseURL: baseURL, HTML: html}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return facts
	}

	facts.PageTitle = strings.TrimSpace(doc.Find("title").First().Text())
	visitMeta(doc, facts)
	visitLinks(doc, facts)
	visitJSONLD(doc, facts)
	visitHeadings(doc, facts)
	visitImages(doc, facts)
	visitDateAndAuthorCandidates(doc, facts)
	visitTOC(doc, facts)
	facts.RawText = visitText(doc)

	return facts
}

func visitMeta(doc *goquery.Document, facts *RawFacts) {
	doc.Find("meta").Each(func(_ int, s *goquery.Selection) {
		content, _ := s.Attr("content")
		if content == "" {
			return
		}
		if name, ok := s.Attr("name"); ok && name != "" {
			facts.MetaTags = append(facts.MetaTags, MetaTag{Key: "name:" + name, Content: content})
		}
		if prop, ok := s.Attr("property"); ok && prop != "" {
			facts.MetaTags = append(facts.MetaTags, MetaTag{Key: "property:" + prop, Content: content})
		}
		if he, ok := s.Attr("http-equiv"); ok && he != "" {
			facts.MetaTags = append(facts.MetaTags, MetaTag{Key: "http-equiv:" + he, Content: content})
		}
	})
}

func visitLinks(doc *goquery.Document, facts *RawFacts) {
	doc.Find("link").Each(func(_ int, s *goquery.Selection) {
		rel, _ := s.Attr("rel")
		href, _ := s.Attr("href")
		typ, _ := s.Attr("type")
		if href == "" {
			return
		}
		facts.LinkTags = append(facts.LinkTags, LinkTag{Rel: rel, Href: href, Type: typ})
	})
}

func visitJSONLD(doc *goquery.Document, facts *RawFacts) {
	doc.Find(`script[type="application/ld+json"]`).Each(func(_ int, s *goquery.Selection) {
		body := strings.TrimSpace(s.Text())
		if body == "" {
			return
		}
		var single map[string]any
		if err := json.Unmarshal([]byte(body), &single); err == nil {
			facts.JSONLD = append(facts.JSONLD, single)
			return
		}
		var multi []map[string]any
		if err := json.Unmarshal([]byte(body), &multi); err == nil {
			facts.JSONLD = append(facts.JSONLD, multi...)
		}
		// best-effort: malformed JSON-LD is silently dropped, never aborts.
	})
}

func visitHeadings(doc *goquery.Document, facts *RawFacts) {
	doc.Find("h1,h2,h3,h4,h5,h6").Each(func(_ int, s *goquery.Selection) {
		level, _ := strconv.Atoi(strings.TrimPrefix(goquery.NodeName(s), "h"))
		text := strings.TrimSpace(s.Text())
		if text == "" {
			return
		}
		id, _ := s.Attr("id")
		facts.Headings = append(facts.Headings, HeadingFact{Level: level, Text: text, ID: id})
	})
}

func visitImages(doc *goquery.Document, facts *RawFacts) {
	doc.Find("img").Each(func(_ int, s *goquery.Selection) {
		src, ok := s.Attr("src")
		if !ok || src == "" {
			return
		}
		alt, _ := s.Attr("alt")
		title, _ := s.Attr("title")
		w, _ := strconv.Atoi(attrOr(s, "width", ""))
		h, _ := strconv.Atoi(attrOr(s, "height", ""))
		facts.Images = append(facts.Images, ImageFact{Src: src, Alt: alt, Title: title, Width: w, Height: h})
	})
}

func attrOr(s *goquery.Selection, key, fallback string) string {
	if v, ok := s.Attr(key); ok {
		return v
	}
	return fallback
}

var dateClassHints = []string{"date", "published", "timestamp", "post-date", "entry-date"}
var authorClassHints = []string{"author", "byline", "writer", "posted-by"}

func visitDateAndAuthorCandidates(doc *goquery.Document, facts *RawFacts) {
	doc.Find("time").Each(func(_ int, s *goquery.Selection) {
		if dt, ok := s.Attr("datetime"); ok && dt != "" {
			facts.DateCandidates = append(facts.DateCandidates, DateCandidate{Source: "time_tag", Value: dt})
			return
		}
		if txt := strings.TrimSpace(s.Text()); txt != "" {
			facts.DateCandidates = append(facts.DateCandidates, DateCandidate{Source: "time_tag", Value: txt})
		}
	})

	doc.Find("[class],[itemprop],[rel]").Each(func(_ int, s *goquery.Selection) {
		class, _ := s.Attr("class")
		itemprop, _ := s.Attr("itemprop")
		rel, _ := s.Attr("rel")
		lc := strings.ToLower(class + " " + itemprop + " " + rel)

		text := strings.TrimSpace(s.Text())
		if text == "" || len(text) > 120 {
			return
		}

		for _, hint := range dateClassHints {
			if strings.Contains(lc, hint) {
				facts.DateCandidates = append(facts.DateCandidates, DateCandidate{Source: "class", Value: text})
				break
			}
		}
		for _, hint := range authorClassHints {
			if strings.Contains(lc, hint) {
				facts.AuthorCandidates = append(facts.AuthorCandidates, AuthorCandidate{Source: "class", Value: text})
				break
			}
		}
		if strings.Contains(itemprop, "author") {
			facts.AuthorCandidates = append(facts.AuthorCandidates, AuthorCandidate{Source: "itemprop", Value: text})
		}
		if strings.Contains(rel, "author") {
			facts.AuthorCandidates = append(facts.AuthorCandidates, AuthorCandidate{Source: "rel", Value: text})
		}
	})
}

func visitTOC(doc *goquery.Document, facts *RawFacts) {
	doc.Find(`nav`).Each(func(_ int, s *goquery.Selection) {
		class, _ := s.Attr("class")
		id, _ := s.Attr("id")
		lc := strings.ToLower(class + " " + id)
		if strings.Contains(lc, "toc") || strings.Contains(lc, "table-of-contents") || strings.Contains(lc, "contents") {
			s.Find("a").Each(func(_ int, a *goquery.Selection) {
				text := strings.TrimSpace(a.Text())
				if text != "" {
					facts.TOCNavText = append(facts.TOCNavText, text)
				}
			})
		}
	})
}

// visitText walks the body, stripping script/style/noscript elements,
// and joins the remaining text nodes with whitespace — one traversal,
// no intermediate string-concatenation passes.
func visitText(doc *goquery.Document) string {
	body := doc.Find("body")
	if body.Length() == 0 {
		body = doc.Selection
	}
	body.Find("script,style,noscript,iframe,embed,object").Remove()

	var sb strings.Builder
	body.Find("*").Each(func(_ int, s *goquery.Selection) {
		if s.Children().Length() > 0 {
			return // only leaf-bearing nodes contribute text directly
		}
		text := strings.TrimSpace(s.Text())
		if text == "" {
			return
		}
		sb.WriteString(text)
		sb.WriteString(" ")
	})
	return strings.TrimSpace(sb.String())
}
