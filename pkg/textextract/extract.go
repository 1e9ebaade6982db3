// Package textextract pulls human-visible strings out of HTML templates and
// keeps them in a CSV catalog awaiting manual translation.
//
// Matching is done with regular expressions over the raw template source:
// templates carry Jinja markup and are not well-formed HTML documents.
package textextract

import (
	"regexp"
	"strings"
	"unicode"
)

// Pattern classes, applied in this order.
var (
	// Text between two tags, without nested tags.
	tagTextPattern = regexp.MustCompile(`>\s*([^<>{}\n]+?)\s*<`)

	attributePatterns = []*regexp.Regexp{
		regexp.MustCompile(`placeholder=["']([^"']+)["']`),
		regexp.MustCompile(`title=["']([^"']+)["']`),
		regexp.MustCompile(`alt=["']([^"']+)["']`),
		regexp.MustCompile(`label=["']([^"']+)["']`),
		regexp.MustCompile(`aria-label=["']([^"']+)["']`),
	}

	elementPatterns = leafElementPatterns(
		"button", "a", "label", "option", "th", "td", "li",
		"span", "div", "p", "h1", "h2", "h3", "h4", "h5", "h6",
	)
)

func leafElementPatterns(tags ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, 0, len(tags))
	for _, tag := range tags {
		open := `<` + tag + `[^>]*>`
		if tag == "a" {
			// <a> needs a space so that <abbr>, <article>... do not match.
			open = `<a [^>]*>`
		}
		out = append(out, regexp.MustCompile(open+`([^<]+)</`+tag+`>`))
	}
	return out
}

// Extract returns the distinct translatable fragments of an HTML document,
// in first-seen order.
func Extract(html string) []string {
	var candidates []string
	collect := func(re *regexp.Regexp) {
		for _, m := range re.FindAllStringSubmatch(html, -1) {
			candidates = append(candidates, strings.TrimSpace(m[1]))
		}
	}

	collect(tagTextPattern)
	for _, re := range attributePatterns {
		collect(re)
	}
	for _, re := range elementPatterns {
		collect(re)
	}

	seen := make(map[string]struct{}, len(candidates))
	texts := []string{}
	for _, text := range candidates {
		if !Translatable(text) {
			continue
		}
		if _, ok := seen[text]; ok {
			continue
		}
		seen[text] = struct{}{}
		texts = append(texts, text)
	}
	return texts
}

// Translatable reports whether a trimmed fragment looks like human text:
// longer than one character, free of template or code markers, not a bare
// number and not a URL.
func Translatable(text string) bool {
	if len([]rune(text)) <= 1 {
		return false
	}
	if strings.ContainsAny(text, "{}%$@") {
		return false
	}
	if isDigits(text) {
		return false
	}
	return !strings.HasPrefix(text, "http")
}

// isDigits also accepts superscript and circled digits (category No).
func isDigits(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) && !unicode.Is(unicode.No, r) {
			return false
		}
	}
	return s != ""
}
