// Package extractor parses raw HTML exactly once into a typed facts
// record; every downstream transformation is a pure function over
// that record rather than another pass over the tree.
package extractor

import "time"

// MetaTag is one meta-tag entry keyed by name:*, property:*, or
// http-equiv:*.
type MetaTag struct {
	Key     string
	Content string
}

// LinkTag is one retained <link> element (canonical, icon, manifest).
type LinkTag struct {
	Rel  string
	Href string
	Type string
}

// HeadingFact is a raw h1-h6 element with its DOM order preserved.
type HeadingFact struct {
	Level int
	Text  string
	ID    string
}

// ImageFact is a raw <img> element before URL resolution/top-10 cap.
type ImageFact struct {
	Src    string
	Alt    string
	Title  string
	Width  int
	Height int
}

// DateCandidate is one date-bearing element found during the single
// traversal, ranked later by the pattern priority in Dates.
type DateCandidate struct {
	Source string // meta_property | meta_name | structured | time_tag | class | relative
	Value  string
}

// AuthorCandidate mirrors DateCandidate for author attribution.
type AuthorCandidate struct {
	Source string // meta | structured | class | itemprop | cms
	Value  string
}

// RawFacts is the single typed record the visitor fills during its
// one traversal of the parsed tree. All later steps read this record
// only — they never touch the DOM again.
type RawFacts struct {
	BaseURL string

	PageTitle       string // <title> element text
	MetaTags        []MetaTag
	LinkTags        []LinkTag
	JSONLD          []map[string]any
	Headings        []HeadingFact
	Images          []ImageFact
	DateCandidates  []DateCandidate
	AuthorCandidates []AuthorCandidate
	RawText         string // whitespace-joined full-page text
	HTML            string // original html, retained for fallback extraction

	TOCNavText []string // text of an explicit <nav> TOC, if present

	ParsedAt time.Time
}

func (f *RawFacts) metaValue(keys ...string) string {
	for _, k := range keys {
		for _, m := range f.MetaTags {
			if m.Key == k && m.Content != "" {
				return m.Content
			}
		}
	}
	return ""
}
