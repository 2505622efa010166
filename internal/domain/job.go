package domain

import "time"

type JobType string

const (
	JobTypeEdition JobType = "edition"
	JobTypeDelete  JobType = "delete"
	JobTypeUpdate  JobType = "update"
	JobTypeImport  JobType = "import"
)

type JobStatus string

const (
	JobStatusPending JobStatus = "pending"
	JobStatusRunning JobStatus = "running"
	JobStatusDone    JobStatus = "done"
	JobStatusFailed  JobStatus = "failed"
)

// Job is the bookkeeping side of one asynchronous library operation.
type Job struct {
	ID           int64
	Type         JobType
	Subject      string
	Status       JobStatus
	ErrorMessage string
	CreatedAt    time.Time
	StartedAt    time.Time
	CompletedAt  time.Time
}
