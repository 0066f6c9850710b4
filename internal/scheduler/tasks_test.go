package scheduler

import (
	"testing"
	"time"

	"github.com/hibiken/asynq"
)

func TestUnmatchedDigestPayloadCarriesRequestedTime(t *testing.T) {
	runAt := time.Date(2026, 9, 1, 6, 30, 0, 0, time.UTC)

	task, err := NewUnmatchedDigestTask(UnmatchedDigestPayload{RequestedAt: runAt})
	if err != nil {
		t.Fatalf("build task: %v", err)
	}
	if task.Type() != TaskUnmatchedDigest {
		t.Fatalf("task type = %q, want %q", task.Type(), TaskUnmatchedDigest)
	}

	payload, err := ParseUnmatchedDigestPayload(task)
	if err != nil {
		t.Fatalf("parse payload: %v", err)
	}
	if !payload.RequestedAt.Equal(runAt) {
		t.Fatalf("requested at = %v, want %v", payload.RequestedAt, runAt)
	}
}

func TestParseUnmatchedDigestPayloadRejectsGarbage(t *testing.T) {
	task := asynq.NewTask(TaskUnmatchedDigest, []byte("{not json"))
	if _, err := ParseUnmatchedDigestPayload(task); err == nil {
		t.Fatalf("expected error for malformed payload")
	}
}
