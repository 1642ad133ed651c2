package templates

import (
	"context"
	"io"
	"strconv"

	"github.com/a-h/templ"
)

// viewPollMillis is how often the detail page refreshes its view count.
const viewPollMillis = 60_000

// Job renders the detail page for one posting, including the script that
// records the view and keeps the counter fresh.
func Job(d JobDetail) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}

		h.raw(`<header class="job-header"><nav id="job-nav"><a href="/careers">&larr; Careers</a>`)
		h.raw(`<span title="`)
		h.text(d.ViewsTitle)
		h.raw(`" id="view-title"><span id="view-count" data-shortcode="`)
		h.text(d.Shortcode)
		h.raw(`">`)
		h.text(d.Views)
		h.raw(`</span> views</span></nav>`)
		h.raw(`<h1>`)
		h.text(d.Title)
		h.raw(`</h1>`)
		if d.Teaser != "" {
			h.raw(`<p class="lead">`)
			h.text(d.Teaser)
			h.raw(`</p>`)
		}
		if d.ApplicationURL != "" {
			h.raw(`<a class="apply" target="_blank" rel="noopener" href="`)
			h.attrURL(d.ApplicationURL)
			h.raw(`">Apply &rarr;</a>`)
		}
		h.raw(`</header>`)

		h.raw(`<article class="prose">`)
		section(h, "", d.DescriptionHTML)

		h.raw(`<h2>Job details</h2><ul>`)
		detail(h, "Department", d.Department)
		detail(h, "Location", d.Location)
		detail(h, "Country", d.Country)
		detail(h, "Employment type", d.EmploymentType)
		h.raw(`</ul>`)

		section(h, "Requirements", d.RequirementsHTML)
		section(h, "Benefits", d.BenefitsHTML)
		section(h, "Full description", d.FullDescriptionHTML)
		h.raw(`</article>`)

		h.raw(`<script>`)
		h.raw(jobScript(d.Shortcode))
		h.raw(`</script>`)
		return h.err
	})
}

func section(h *htmlWriter, heading, body string) {
	if body == "" {
		return
	}
	h.raw(`<section>`)
	if heading != "" {
		h.raw(`<h2>`)
		h.text(heading)
		h.raw(`</h2>`)
	}
	h.raw(body)
	h.raw(`</section>`)
}

func detail(h *htmlWriter, label, value string) {
	if value == "" {
		return
	}
	h.raw(`<li><strong>`)
	h.text(label)
	h.raw(`:</strong> `)
	h.text(value)
	h.raw(`</li>`)
}

// jobScript posts one view, polls the count and toggles the sticky header.
// The shortcode is embedded as a JS string literal; shortcodes are limited to
// [A-Za-z0-9_-] before a page is rendered.
func jobScript(shortcode string) string {
	sc := strconv.Quote(shortcode)
	return `(function(){
var sc=` + sc + `;
var el=document.getElementById("view-count");
var fmt=new Intl.NumberFormat("en-US",{notation:"compact"});
var full=new Intl.NumberFormat("en-US");
var tip=document.getElementById("view-title");
fetch("/api/incr",{method:"POST",headers:{"Content-Type":"application/json"},body:JSON.stringify({shortcode:sc})}).catch(function(){});
function refresh(){
fetch("/api/views/"+encodeURIComponent(sc)).then(function(r){return r.ok?r.json():null}).then(function(d){
if(d&&typeof d.views==="number"){el.textContent=fmt.format(d.views);tip.title=full.format(d.views)+(d.views===1?" view":" views")}
}).catch(function(){});
}
setInterval(refresh,` + strconv.Itoa(viewPollMillis) + `);
var nav=document.getElementById("job-nav");
var hdr=document.querySelector(".job-header h1");
if(nav&&hdr&&"IntersectionObserver" in window){
new IntersectionObserver(function(es){nav.classList.toggle("stuck",!es[0].isIntersecting)}).observe(hdr);
}
})();`
}
