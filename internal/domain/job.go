package domain

import "time"

type Category string

const (
	CategorySoftware Category = "software"
	CategoryHardware Category = "hardware"
)

func (c Category) Valid() bool {
	return c == CategorySoftware || c == CategoryHardware
}

// Job mirrors one listing from the remote aggregation API. IsNew is a
// derived UI flag recomputed on every sync, not a stored fact from the
// server: a job ages out of new-ness only when it is synced again.
type Job struct {
	ID                  int64     `json:"id"`
	CompanyID           int64     `json:"company_id"`
	CompanyName         string    `json:"company_name"`
	Title               string    `json:"title"`
	Link                string    `json:"link"`
	PostingDate         time.Time `json:"posting_date"`
	DiscoveryDate       time.Time `json:"discovery_date"`
	Category            Category  `json:"category"`
	Description         string    `json:"description"`
	RequirementsSummary string    `json:"requirements_summary"`
	Location            string    `json:"location"`
	SalaryInfo          string    `json:"salary_info"`
	IsActive            bool      `json:"is_active"`
	IsNew               bool      `json:"is_new"`
}
