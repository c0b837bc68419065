package profile

import (
	"strconv"
	"strings"
)

// CompanyProfile is the bidder's profile matched against tender eligibility
// criteria. It is opaque to the pipeline beyond being serialized into the
// eligibility stage prompt.
type CompanyProfile struct {
	Name              string   `json:"name"`
	AnnualTurnoverCr  float64  `json:"annual_turnover_cr"`
	YearsInOperation  int      `json:"years_in_operation"`
	Certifications    []string `json:"certifications"`
	PriorGovtProjects int      `json:"prior_govt_projects"`
	TechnicalTeamSize int      `json:"technical_team_size"`
	DomainExpertise   []string `json:"domain_expertise"`
	RegisteredAs      string   `json:"registered_as"`
	MSMERegistered    bool     `json:"msme_registered"`
}

// Default returns the profile used when the caller supplies no fields.
func Default() CompanyProfile {
	return CompanyProfile{
		Name:              "My Company",
		AnnualTurnoverCr:  15,
		YearsInOperation:  8,
		Certifications:    []string{"ISO 9001:2015"},
		PriorGovtProjects: 2,
		TechnicalTeamSize: 30,
		DomainExpertise:   []string{"software development", "AI/ML"},
		RegisteredAs:      "Pvt Ltd",
		MSMERegistered:    true,
	}
}

// FromForm builds a profile from free-form key/value fields, falling back to
// defaults per field. get is typically (*http.Request).FormValue.
func FromForm(get func(string) string) CompanyProfile {
	p := Default()
	if v := strings.TrimSpace(get("company_name")); v != "" {
		p.Name = v
	}
	if v := strings.TrimSpace(get("domain_expertise")); v != "" {
		p.DomainExpertise = splitCSV(v)
	}
	if v := get("annual_turnover_cr"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			p.AnnualTurnoverCr = f
		}
	}
	if v := get("years_in_operation"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			p.YearsInOperation = n
		}
	}
	if v := strings.TrimSpace(get("certifications")); v != "" {
		p.Certifications = splitCSV(v)
	}
	if v := get("prior_govt_projects"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			p.PriorGovtProjects = n
		}
	}
	if v := get("technical_team_size"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			p.TechnicalTeamSize = n
		}
	}
	if v := strings.TrimSpace(get("registered_as")); v != "" {
		p.RegisteredAs = v
	}
	if v := get("msme_registered"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			p.MSMERegistered = b
		}
	}
	return p
}

func splitCSV(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
