package domain

// ImageJobState is the lifecycle state of an image job. Done and Failed are
// terminal.
type ImageJobState string

const (
	ImageJobSubmitted  ImageJobState = "submitted"
	ImageJobQueued     ImageJobState = "queued"
	ImageJobProcessing ImageJobState = "processing"
	ImageJobDone       ImageJobState = "done"
	ImageJobFailed     ImageJobState = "failed"
)

// Terminal reports whether no further transition is possible.
func (s ImageJobState) Terminal() bool {
	return s == ImageJobDone || s == ImageJobFailed
}

// ImageJob is a submitted generation job. The worker pool owns its lifecycle.
type ImageJob struct {
	ID     string        `json:"id"`
	Prompt string        `json:"prompt"`
	State  ImageJobState `json:"state"`
}

// ImageReference points at a generated image, either a remote URL or an
// inline data URI.
type ImageReference struct {
	URL    string `json:"url"`
	Inline bool   `json:"inline"`
}

// ImageStatus is the result of polling an image job.
type ImageStatus struct {
	JobID         string          `json:"job_id"`
	State         ImageJobState   `json:"state"`
	Done          bool            `json:"done"`
	Image         *ImageReference `json:"image,omitempty"`
	QueuePosition int             `json:"queue_position,omitempty"`
	WaitSeconds   int             `json:"wait_seconds,omitempty"`
}
