package templates

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

// htmlWriter accumulates the first write error so components can emit markup
// without checking every call.
type htmlWriter struct {
	w   io.Writer
	err error
}

// raw writes s as-is.
func (h *htmlWriter) raw(s string) {
	if h.err == nil {
		_, h.err = io.WriteString(h.w, s)
	}
}

// text writes s HTML-escaped.
func (h *htmlWriter) text(s string) {
	h.raw(templ.EscapeString(s))
}

// attrURL writes a sanitised URL for an href attribute.
func (h *htmlWriter) attrURL(u string) {
	h.text(string(templ.URL(u)))
}

const styles = `
body{margin:0;font-family:system-ui,-apple-system,sans-serif;background:#000;color:#f4f4f5}
a{color:inherit;text-decoration:none}
.container{max-width:80rem;margin:0 auto;padding:4rem 1.5rem}
.lead{color:#a1a1aa}
.rule{height:1px;background:#27272a;margin:2rem 0}
.grid{display:grid;gap:2rem}
@media(min-width:1024px){.grid-2{grid-template-columns:1fr 1fr}.grid-3{grid-template-columns:1fr 1fr 1fr}}
.card{border:1px solid #3f3f46;border-radius:1rem;padding:1.5rem;display:block}
.card:hover{border-color:#71717a}
.meta{display:flex;justify-content:space-between;font-size:.75rem;color:#a1a1aa}
.featured h2{font-size:2rem}
.subtitle{color:#a1a1aa}
.job-header{background:linear-gradient(to top left,#000,#18181b,#000);padding:6rem 1.5rem;text-align:center}
.job-header nav{position:fixed;inset:0 0 auto 0;display:flex;justify-content:space-between;padding:1.5rem;transition:background .2s}
.job-header nav.stuck{background:rgba(255,255,255,.1);backdrop-filter:blur(8px)}
.apply{display:inline-block;margin-top:2rem;border:1px solid #f4f4f5;border-radius:.5rem;padding:.5rem 1.5rem}
article.prose{background:#fafafa;color:#27272a;max-width:48rem;margin:0 auto;padding:3rem 1rem}
`

// Layout wraps body in the common page shell.
func Layout(title string, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">`)
		h.raw(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
		h.raw(`<title>`)
		h.text(title)
		h.raw(`</title><style>`)
		h.raw(styles)
		h.raw(`</style></head><body>`)
		if h.err != nil {
			return h.err
		}
		if err := body.Render(ctx, w); err != nil {
			return err
		}
		h.raw(`</body></html>`)
		return h.err
	})
}

// Message renders a simple heading + paragraph page, used for not-found and
// error states.
func Message(heading, detail string) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw(`<main class="container"><h1>`)
		h.text(heading)
		h.raw(`</h1><p class="lead">`)
		h.text(detail)
		h.raw(`</p><p><a href="/careers">&larr; All open positions</a></p></main>`)
		return h.err
	})
}
