// Package model defines shared data structures for the careers service.
package model

// Location is the normalised location block of a Workable job.
// Fields Workable omits stay empty; display defaults are applied by the pages.
type Location struct {
	Country       string `json:"country"`
	CountryCode   string `json:"country_code,omitempty"`
	Region        string `json:"region,omitempty"`
	RegionCode    string `json:"region_code,omitempty"`
	City          string `json:"city"`
	ZipCode       string `json:"zip_code,omitempty"`
	Telecommuting bool   `json:"telecommuting"`
	WorkplaceType string `json:"workplace_type,omitempty"`
}

// JobPosting is a job fetched from Workable. It is never stored locally;
// the same shape is returned by the list and the single-job endpoints.
//
// Description, Requirements, Benefits and FullDescription hold upstream HTML
// and are rendered without sanitisation.
type JobPosting struct {
	ID              string   `json:"id"`
	Title           string   `json:"title"`
	FullTitle       string   `json:"full_title,omitempty"`
	Shortcode       string   `json:"shortcode"`
	Code            *string  `json:"code"`
	State           string   `json:"state,omitempty"`
	Department      string   `json:"department"`
	URL             string   `json:"url,omitempty"`
	ApplicationURL  string   `json:"application_url"`
	Shortlink       string   `json:"shortlink,omitempty"`
	Description     string   `json:"description,omitempty"`
	Requirements    string   `json:"requirements,omitempty"`
	Benefits        string   `json:"benefits,omitempty"`
	FullDescription string   `json:"full_description,omitempty"`
	EmploymentType  string   `json:"employment_type,omitempty"`
	CreatedAt       string   `json:"created_at"`
	Location        Location `json:"location"`
}
