package runstore

import "time"

// TierCount summarizes one confidence tier of a run.
type TierCount struct {
	Tier     string `json:"tier"`
	Direct   int    `json:"direct"`
	Network  int    `json:"network"`
	Clusters int    `json:"clusters"`
}

// Run is one completed annotation.
type Run struct {
	ID           string      `json:"id"`
	StartedAt    time.Time   `json:"started_at"`
	FinishedAt   time.Time   `json:"finished_at"`
	FeaturesPath string      `json:"features_path"`
	NPAtlasPath  string      `json:"npatlas_path"`
	MIBiGPath    string      `json:"mibig_path"`
	OutputPath   string      `json:"output_path"`
	Rows         int         `json:"rows"`
	ConfigPath   string      `json:"config_path,omitempty"`
	Tiers        []TierCount `json:"tiers"`
}

// Duration returns the wall time of the run.
func (r Run) Duration() time.Duration {
	if r.FinishedAt.Before(r.StartedAt) {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}
