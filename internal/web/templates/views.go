// Package templates renders the careers pages as templ components.
//
// View data is fully formatted by the web handlers; components only escape
// and lay it out.
package templates

// JobCard holds formatted job data for the listing page.
type JobCard struct {
	// Shortcode is the Workable shortcode used in the detail link.
	Shortcode string
	// Title is the job title.
	Title string
	// Date is the formatted creation date.
	Date string
	// Views is the compact view count.
	Views string
	// ViewsTitle is the full grouped count shown on hover.
	ViewsTitle string
	// Subtitle is "department • workplace • city".
	Subtitle string
}

// CareersPage holds the listing page layout: one featured card, up to two
// secondary cards and the remaining cards split into three columns.
type CareersPage struct {
	Featured  *JobCard
	Secondary []JobCard
	Columns   [3][]JobCard
}

// JobDetail holds formatted job data for the detail page.
type JobDetail struct {
	Shortcode      string
	Title          string
	Teaser         string
	Views          string
	ViewsTitle     string
	ApplicationURL string
	Department     string
	Location       string
	Country        string
	EmploymentType string

	// Upstream HTML, rendered unescaped.
	DescriptionHTML     string
	RequirementsHTML    string
	BenefitsHTML        string
	FullDescriptionHTML string
}
