package protocol

import (
	"context"

	"protobench/internal/core"
	"protobench/internal/worker"
)

// A2A sends each item to the agent worker as one combined task.
type A2A struct {
	URL    string // full URL of the agent's process_task endpoint
	Poster Poster
	Clock  core.Clock
	NewID  IDFunc
}

// NewA2A creates an A2A driver with a real clock and UUID task ids.
func NewA2A(url string, poster Poster) *A2A {
	return &A2A{
		URL:    url,
		Poster: poster,
		Clock:  core.RealClock{},
		NewID:  NewUUID,
	}
}

// Exchange issues one process_task call and records the outcome. The
// duration covers dispatch through reply validation.
func (a *A2A) Exchange(ctx context.Context, index int, numbers []int) core.Record {
	taskID := a.NewID()
	ctx = core.ContextWithRequestID(ctx, taskID)

	start := a.Clock.Now()
	summary, err := a.call(ctx, taskID, numbers)
	elapsed := a.Clock.Since(start)

	return core.NewRecord(NameA2A, index, taskID, start, elapsed, summary, err)
}

func (a *A2A) call(ctx context.Context, taskID string, numbers []int) (string, error) {
	const call = "process_task"
	reply := a.Poster.PostJSON(ctx, call, a.URL, worker.TaskRequest{
		TaskID:    taskID,
		Operation: worker.OperationAnalyzeAndSummarize,
		Data:      numbers,
	})
	if err := checkReply(call, reply); err != nil {
		return "", err
	}
	return requireSummary(call, reply)
}
