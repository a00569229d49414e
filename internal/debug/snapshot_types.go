package debug

// Snapshot is what we expose over /_debug/runtime.
// MUST NOT put secrets here.
type Snapshot struct {
	Mode              string           `json:"mode"`
	MediaTypes        []MediaTypeView  `json:"mediaTypes"`
	Isolator          IsolatorView     `json:"isolator"`
	RecentResolutions []ResolutionView `json:"recentResolutions"`
	LiveSecretBuffers int64            `json:"liveSecretBuffers"`
}

// MediaTypeView is one registry entry.
type MediaTypeView struct {
	MediaType string `json:"mediaType"`
	Kind      string `json:"kind"`
}

// IsolatorView reports the long-running task isolator's load.
type IsolatorView struct {
	MaxWorkers int `json:"maxWorkers"`
	Running    int `json:"running"`
	Pending    int `json:"pending"`
}

// ResolutionView records one command URI resolution.
type ResolutionView struct {
	CommandID string `json:"commandId"`
	From      string `json:"from"`
	URI       string `json:"uri"`
	Resolved  string `json:"resolved,omitempty"`
	Error     string `json:"error,omitempty"`
}
