package entity

import "time"

// ActivityLogEntry and ExecutionRecord are append-only; the admin surface reads or bulk-clears them.

type ActivityLogEntry struct {
	ID         string    `json:"id" bson:"id"`
	TelegramID int64     `json:"telegram_id" bson:"telegram_id"`
	Username   string    `json:"username,omitempty" bson:"username,omitempty"`
	Action     string    `json:"action" bson:"action"`
	Message    string    `json:"message" bson:"message"`
	Timestamp  time.Time `json:"timestamp" bson:"timestamp"`
}

const ExecutionSuccess = "success"

type ExecutionRecord struct {
	ID            string    `json:"id" bson:"id"`
	TelegramID    int64     `json:"telegram_id" bson:"telegram_id"`
	LicenseKey    string    `json:"license_key,omitempty" bson:"license_key,omitempty"`
	Status        string    `json:"status" bson:"status"`
	ExecutionTime time.Time `json:"execution_time" bson:"execution_time"`
}

func (e *ExecutionRecord) Succeeded() bool {
	return e.Status == ExecutionSuccess
}

// LogKind names a bulk-clearable log.
type LogKind string

const (
	LogActivities LogKind = "activities"
	LogExecutions LogKind = "executions"
)

func (k LogKind) Valid() bool {
	return k == LogActivities || k == LogExecutions
}
