package scheduler

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

const TaskUnmatchedDigest = "procurement.unmatched.digest"

type UnmatchedDigestPayload struct {
	RequestedAt time.Time `json:"requestedAt"`
}

func NewUnmatchedDigestTask(payload UnmatchedDigestPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskUnmatchedDigest, data), nil
}

func ParseUnmatchedDigestPayload(task *asynq.Task) (UnmatchedDigestPayload, error) {
	var payload UnmatchedDigestPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return UnmatchedDigestPayload{}, err
	}
	return payload, nil
}
