package remote

import "jobsync-engine/internal/domain"

// Page is the wire shape of GET /api/jobs.
type Page struct {
	Items      []domain.Job `json:"items"`
	Total      int          `json:"total"`
	Page       int          `json:"page"`
	PageSize   int          `json:"page_size"`
	TotalPages int          `json:"total_pages"`
}

// Stats is the wire shape of GET /api/stats. "New" on the server side means
// posted within the last week.
type Stats struct {
	TotalJobs      int    `json:"total_jobs"`
	SoftwareJobs   int    `json:"software_jobs"`
	HardwareJobs   int    `json:"hardware_jobs"`
	NewJobs        int    `json:"new_jobs"`
	LastUpdateTime string `json:"last_update_time"`
}
