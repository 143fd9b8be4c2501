// Package scheduler runs background maintenance for the conversation store.
package scheduler

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

// TaskRetentionSweep removes stale conversations without stored consent.
const TaskRetentionSweep = "conversations.retention.sweep"

// RetentionSweepPayload parameterizes one sweep run.
type RetentionSweepPayload struct {
	RetentionDays int `json:"retentionDays"`
}

// NewRetentionSweepTask builds the periodic sweep task.
func NewRetentionSweepTask(payload RetentionSweepPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskRetentionSweep, data), nil
}

// ParseRetentionSweepPayload decodes the sweep task payload.
func ParseRetentionSweepPayload(task *asynq.Task) (RetentionSweepPayload, error) {
	var payload RetentionSweepPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return RetentionSweepPayload{}, err
	}
	return payload, nil
}
