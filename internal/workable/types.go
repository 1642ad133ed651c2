package workable

import "jobmate/careers-service/internal/model"

// listResponse mirrors GET /spi/v3/jobs. Jobs is a pointer so a missing
// field can be told apart from an empty list.
type listResponse struct {
	Jobs *[]rawJob `json:"jobs"`
}

// rawJob mirrors a Workable job as returned by both the list and the
// single-job endpoints; the list omits the HTML fields.
type rawJob struct {
	ID              string       `json:"id"`
	Title           string       `json:"title"`
	FullTitle       string       `json:"full_title"`
	Shortcode       string       `json:"shortcode"`
	Code            *string      `json:"code"`
	State           string       `json:"state"`
	Department      string       `json:"department"`
	URL             string       `json:"url"`
	ApplicationURL  string       `json:"application_url"`
	Shortlink       string       `json:"shortlink"`
	Description     string       `json:"description"`
	Requirements    string       `json:"requirements"`
	Benefits        string       `json:"benefits"`
	FullDescription string       `json:"full_description"`
	EmploymentType  string       `json:"employment_type"`
	CreatedAt       string       `json:"created_at"`
	Location        *rawLocation `json:"location"`
}

type rawLocation struct {
	Country       string `json:"country"`
	CountryCode   string `json:"country_code"`
	Region        string `json:"region"`
	RegionCode    string `json:"region_code"`
	City          string `json:"city"`
	ZipCode       string `json:"zip_code"`
	Telecommuting bool   `json:"telecommuting"`
	WorkplaceType string `json:"workplace_type"`
}

func (r rawJob) toModel() model.JobPosting {
	job := model.JobPosting{
		ID:              r.ID,
		Title:           r.Title,
		FullTitle:       r.FullTitle,
		Shortcode:       r.Shortcode,
		Code:            r.Code,
		State:           r.State,
		Department:      r.Department,
		URL:             r.URL,
		ApplicationURL:  r.ApplicationURL,
		Shortlink:       r.Shortlink,
		Description:     r.Description,
		Requirements:    r.Requirements,
		Benefits:        r.Benefits,
		FullDescription: r.FullDescription,
		EmploymentType:  r.EmploymentType,
		CreatedAt:       r.CreatedAt,
	}
	if r.Location != nil {
		job.Location = model.Location{
			Country:       r.Location.Country,
			CountryCode:   r.Location.CountryCode,
			Region:        r.Location.Region,
			RegionCode:    r.Location.RegionCode,
			City:          r.Location.City,
			ZipCode:       r.Location.ZipCode,
			Telecommuting: r.Location.Telecommuting,
			WorkplaceType: r.Location.WorkplaceType,
		}
	}
	return job
}
