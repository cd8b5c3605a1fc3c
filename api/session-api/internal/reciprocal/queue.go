// Copyright (c) 2024-2026 Delloop Lab
//
// Licensed under GPL-2.0. See LICENSE.md for details.
package internal_reciprocal

import (
	"context"
	"sync"

	internal_pool "github.com/delloop-lab/mypracticehelper-sub000/api/session-api/internal/pool"
	"github.com/delloop-lab/mypracticehelper-sub000/pkg/commons"
	"github.com/delloop-lab/mypracticehelper-sub000/pkg/types"
)

// Queue reconciles one-directional client relationships into confirmed
// two-directional links. Tasks drain strictly one at a time: a dequeued task
// must be confirmed or skipped before the next is handed out, and tasks
// discovered meanwhile join the tail, never the front.
type Queue struct {
	logger  commons.Logger
	backend *internal_pool.BackendClient

	mu     sync.Mutex
	tasks  []types.ReciprocalTask
	active *types.ReciprocalTask
}

func NewQueue(logger commons.Logger, backend *internal_pool.BackendClient) *Queue {
	return &Queue{logger: logger, backend: backend}
}

// EnqueueChecks inspects each outgoing edge of a just-saved client. If the
// related client has no back-reference yet, a task with the suggested
// reciprocal type is appended. Returns the tasks this call enqueued.
func (q *Queue) EnqueueChecks(ctx context.Context, saved types.Client) ([]types.ReciprocalTask, error) {
	var enqueued []types.ReciprocalTask
	for _, rel := range saved.Relationships {
		if rel.RelatedClientID == "" || rel.RelatedClientID == saved.ID {
			continue
		}
		target, err := q.backend.Client(ctx, rel.RelatedClientID)
		if err != nil {
			return enqueued, err
		}
		if target.References(saved.ID) {
			continue
		}
		task := types.ReciprocalTask{
			SourceID:      saved.ID,
			SourceName:    saved.Name,
			TargetID:      target.ID,
			TargetName:    target.Name,
			SuggestedType: ReciprocalType(rel.Type),
		}
		if q.append(task) {
			enqueued = append(enqueued, task)
		}
	}
	return enqueued, nil
}

// append adds the task to the tail unless the same pair is already pending
// or being processed.
func (q *Queue) append(task types.ReciprocalTask) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.active != nil && q.active.SourceID == task.SourceID && q.active.TargetID == task.TargetID {
		return false
	}
	for _, pending := range q.tasks {
		if pending.SourceID == task.SourceID && pending.TargetID == task.TargetID {
			return false
		}
	}
	q.tasks = append(q.tasks, task)
	return true
}

// Next dequeues the head task for processing. It returns nil when the queue
// is empty, and an error while a previous task is still unresolved.
func (q *Queue) Next() (*types.ReciprocalTask, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.active != nil {
		return nil, commons.NewStateError("a reciprocal task is already being processed")
	}
	if len(q.tasks) == 0 {
		return nil, nil
	}
	task := q.tasks[0]
	q.tasks = q.tasks[1:]
	q.active = &task
	return &task, nil
}

// Confirm appends the suggested reverse edge to the target client.
// Idempotent: if the target gained a reference to the source since the task
// was enqueued, nothing is written. On a transport failure the task stays
// active so the caller can retry or skip.
func (q *Queue) Confirm(ctx context.Context) error {
	q.mu.Lock()
	if q.active == nil {
		q.mu.Unlock()
		return commons.NewStateError("no reciprocal task is being processed")
	}
	task := *q.active
	q.mu.Unlock()

	target, err := q.backend.Client(ctx, task.TargetID)
	if err != nil {
		return err
	}
	if !target.References(task.SourceID) {
		err = q.backend.AppendRelationship(ctx, task.TargetID, types.Relationship{
			RelatedClientID: task.SourceID,
			Type:            task.SuggestedType,
		})
		if err != nil {
			return err
		}
		q.logger.Infof("reciprocal: linked %s back to %s as %q", task.TargetID, task.SourceID, task.SuggestedType)
	}

	q.mu.Lock()
	q.active = nil
	q.mu.Unlock()
	return nil
}

// Skip discards the active task without any mutation.
func (q *Queue) Skip() error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.active == nil {
		return commons.NewStateError("no reciprocal task is being processed")
	}
	q.active = nil
	return nil
}

// Pending reports how many tasks are waiting behind the active one.
func (q *Queue) Pending() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.tasks)
}
