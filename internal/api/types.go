package api

import "time"

// JobStatus is the backend-reported lifecycle state of a transcription job.
// The backend is the only source of transitions; the client never infers a
// status locally.
type JobStatus string

const (
	JobStatusPending    JobStatus = "pending"
	JobStatusProcessing JobStatus = "processing"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusFailed     JobStatus = "failed"
)

// Terminal reports whether no further transitions can occur.
func (s JobStatus) Terminal() bool {
	return s == JobStatusCompleted || s == JobStatusFailed
}

// Job is one transcription request's server-tracked lifecycle record.
// ResultObjectKey is set only on completed jobs, ErrorMessage only on failed
// ones.
type Job struct {
	ID              string    `json:"id"`
	Status          JobStatus `json:"status"`
	Language        string    `json:"language"`
	Mode            string    `json:"mode"`
	ResultObjectKey string    `json:"result_object_key,omitempty"`
	ErrorMessage    string    `json:"error_message,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// JobRequest creates a new transcription job for an uploaded object.
type JobRequest struct {
	ObjectKey string `json:"object_key"`
	Language  string `json:"language"`
	Mode      string `json:"mode"`
}

// UploadTarget is a presigned upload destination, consumed exactly once per
// submission.
type UploadTarget struct {
	UploadURL string `json:"upload_url"`
	ObjectKey string `json:"object_key"`
}

// DownloadTarget is a short-lived location for fetching a finished
// transcript.
type DownloadTarget struct {
	DownloadURL string `json:"download_url"`
	ObjectKey   string `json:"object_key,omitempty"`
}

// HistoryEntry is a read view of a finished job, possibly with a display
// title. The backend returns entries reverse-chronologically; the client
// preserves that order.
type HistoryEntry struct {
	ID              string    `json:"id"`
	JobID           string    `json:"job_id"`
	Title           string    `json:"title,omitempty"`
	Status          JobStatus `json:"status,omitempty"`
	ResultObjectKey string    `json:"result_object_key,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// HistoryDetail is a history entry with its transcript text inlined.
type HistoryDetail struct {
	HistoryEntry
	TranscriptText string `json:"transcript_text"`
}

// Token is the bearer credential returned by a successful login.
type Token struct {
	AccessToken string `json:"access_token"`
}

// User identifies the authenticated principal.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}
