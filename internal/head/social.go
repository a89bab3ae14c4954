// internal/head/social.go
//
// Convenience wrappers for the social/share tags the public pages emit:
// description, canonical link, Open Graph, and Twitter cards.  Each helper
// escapes its values and funnels through the deduplicating Meta/Link
// primitives in builder.go.

package head

import "html/template"

func esc(s string) string { return template.HTMLEscapeString(s) }

// Description sets the standard meta description.
func (b *Builder) Description(text string) {
	b.Meta(`<meta name="description" content="` + esc(text) + `">`)
}

// Canonical points search engines at the preferred URL for this page.
func (b *Builder) Canonical(url string) {
	b.Link(`<link rel="canonical" href="` + esc(url) + `">`)
}

// OpenGraph emits the og: property set shared by all content pages.
// Empty values are skipped.
func (b *Builder) OpenGraph(ogType, title, description, url, image string) {
	prop := func(p, v string) {
		if v != "" {
			b.Meta(`<meta property="og:` + p + `" content="` + esc(v) + `">`)
		}
	}
	prop("type", ogType)
	prop("title", title)
	prop("description", description)
	prop("url", url)
	prop("image", image)
}

// TwitterCard emits the twitter: name set.  Image-less pages fall back to
// the summary card.
func (b *Builder) TwitterCard(title, description, image string) {
	card := "summary_large_image"
	if image == "" {
		card = "summary"
	}
	name := func(n, v string) {
		if v != "" {
			b.Meta(`<meta name="twitter:` + n + `" content="` + esc(v) + `">`)
		}
	}
	name("card", card)
	name("title", title)
	name("description", description)
	name("image", image)
}
