// Package cards defines the business-card record and the rules that turn
// raw decoded JSON into a [Record].
//
// Every optional field of a validated Record is a plain string that is empty
// when absent, so layout code branches on emptiness only.
package cards

import "strings"

// Record is one person's printable card data. It is immutable after
// validation.
type Record struct {
	Name         string `json:"name"`
	Title        string `json:"title,omitempty"`
	Company      string `json:"company,omitempty"`
	Professional string `json:"professional,omitempty"`
	CRMNumber    string `json:"crmNumber,omitempty"`
	CRMRegion    string `json:"crmRegion,omitempty"`
	Phone        string `json:"phone,omitempty"`
	Email        string `json:"email,omitempty"`
	Website      string `json:"website,omitempty"`
	LogoPath     string `json:"logoPath,omitempty"`
}

// HasCRM reports whether the record carries a complete medical registration.
func (r Record) HasCRM() bool {
	return r.CRMNumber != "" && r.CRMRegion != ""
}

// Identity returns the secondary identity text: professional wins over title.
func (r Record) Identity() string {
	if r.Professional != "" {
		return r.Professional
	}
	return r.Title
}

// WebsiteURL returns the website with an https:// scheme added when it has
// none. It returns "" for records without a website.
func (r Record) WebsiteURL() string {
	return withScheme(r.Website)
}

func withScheme(site string) string {
	if site == "" {
		return ""
	}
	if strings.HasPrefix(site, "http://") || strings.HasPrefix(site, "https://") {
		return site
	}
	return "https://" + site
}
