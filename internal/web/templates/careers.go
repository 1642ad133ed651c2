package templates

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

// Careers renders the job listing.
func Careers(page CareersPage) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw(`<main class="container">`)
		h.raw(`<h1>Careers</h1><p class="lead">Join us in building the future of health. Browse our open positions below.</p>`)
		h.raw(`<div class="rule"></div>`)

		if page.Featured == nil {
			h.raw(`<p class="lead">There are no open positions right now. Check back soon.</p></main>`)
			return h.err
		}

		h.raw(`<div class="grid grid-2">`)
		card(h, *page.Featured, true)
		if len(page.Secondary) > 0 {
			h.raw(`<div class="grid">`)
			for _, c := range page.Secondary {
				card(h, c, false)
			}
			h.raw(`</div>`)
		}
		h.raw(`</div>`)

		h.raw(`<div class="rule"></div><div class="grid grid-3">`)
		for _, col := range page.Columns {
			h.raw(`<div class="grid">`)
			for _, c := range col {
				card(h, c, false)
			}
			h.raw(`</div>`)
		}
		h.raw(`</div></main>`)
		return h.err
	})
}

func card(h *htmlWriter, c JobCard, featured bool) {
	if featured {
		h.raw(`<a class="card featured" href="`)
	} else {
		h.raw(`<a class="card" href="`)
	}
	h.attrURL("/careers/" + c.Shortcode)
	h.raw(`" data-shortcode="`)
	h.text(c.Shortcode)
	h.raw(`"><div class="meta"><time>`)
	h.text(c.Date)
	h.raw(`</time><span class="views" title="`)
	h.text(c.ViewsTitle)
	h.raw(`">`)
	h.text(c.Views)
	h.raw(` views</span></div><h2>`)
	h.text(c.Title)
	h.raw(`</h2><p class="subtitle">`)
	h.text(c.Subtitle)
	h.raw(`</p></a>`)
}
