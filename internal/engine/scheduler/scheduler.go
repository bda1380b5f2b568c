// Package scheduler runs a task graph with bounded parallelism.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.trai.ch/gild/internal/core/domain"
	"go.trai.ch/gild/internal/core/ports"
	"go.trai.ch/zerr"
)

// TaskStatus represents the status of a task.
type TaskStatus string

const (
	// StatusPending indicates the task is waiting to be executed.
	StatusPending TaskStatus = "Pending"
	// StatusRunning indicates the task is currently executing.
	StatusRunning TaskStatus = "Running"
	// StatusCompleted indicates the task has finished successfully.
	StatusCompleted TaskStatus = "Completed"
	// StatusFailed indicates the task execution failed.
	StatusFailed TaskStatus = "Failed"
	// StatusBlocked indicates a dependency failed, so the task never ran.
	StatusBlocked TaskStatus = "Blocked"
)

// Scheduler executes tasks in dependency order.
type Scheduler struct {
	executor ports.Executor
	logger   ports.Logger

	mu         sync.RWMutex
	taskStatus map[string]TaskStatus
}

// NewScheduler creates a Scheduler running tasks through executor.
// logger receives the start and finish line of every task and may be nil.
func NewScheduler(executor ports.Executor, logger ports.Logger) *Scheduler {
	return &Scheduler{
		executor:   executor,
		logger:     logger,
		taskStatus: make(map[string]TaskStatus),
	}
}

// Status returns the status of a task in the last run.
func (s *Scheduler) Status(name string) TaskStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.taskStatus[name]
}

func (s *Scheduler) updateStatus(name string, status TaskStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.taskStatus[name] = status
}

// Run executes targets and their transitive dependencies, at most parallelism
// at a time. Empty targets run the whole graph. A failed task blocks its
// dependents while unrelated tasks keep going; all failures are joined.
func (s *Scheduler) Run(ctx context.Context, graph *domain.Graph, targets []string, parallelism int) error {
	if err := graph.Validate(); err != nil {
		return err
	}
	if len(targets) == 0 {
		targets = graph.Names()
	}
	selected, err := graph.Closure(targets)
	if err != nil {
		return err
	}
	if parallelism < 1 {
		parallelism = 1
	}

	state := s.newRunState(ctx, graph, selected, parallelism)
	cancelled := state.ctx.Done()

	for !state.isDone() {
		state.schedule()

		if state.isDone() {
			break
		}

		if state.ctx.Err() != nil && state.active == 0 {
			return errors.Join(state.errs, state.ctx.Err())
		}

		select {
		case res := <-state.resultsCh:
			state.handleResult(res)
		case <-cancelled:
			// Only results of running tasks are left to collect.
			cancelled = nil
		}
	}

	if state.ctx.Err() != nil {
		state.errs = errors.Join(state.errs, state.ctx.Err())
	}

	return state.errs
}

type result struct {
	task     string
	err      error
	duration time.Duration
}

type runState struct {
	graph       *domain.Graph
	inDegree    map[string]int
	tasks       map[string]domain.Task
	ready       []string
	active      int
	resultsCh   chan result
	errs        error
	ctx         context.Context
	parallelism int
	s           *Scheduler
}

func (s *Scheduler) newRunState(
	ctx context.Context,
	graph *domain.Graph,
	selected map[string]bool,
	parallelism int,
) *runState {
	s.mu.Lock()
	clear(s.taskStatus)
	s.mu.Unlock()

	inDegree := make(map[string]int, len(selected))
	tasks := make(map[string]domain.Task, len(selected))
	var ready []string

	// Walk yields dependencies first, so ready starts in a stable order.
	for task := range graph.Walk() {
		if !selected[task.Name] {
			continue
		}
		tasks[task.Name] = task
		inDegree[task.Name] = len(task.Dependencies)
		s.updateStatus(task.Name, StatusPending)
		if len(task.Dependencies) == 0 {
			ready = append(ready, task.Name)
		}
	}

	return &runState{
		graph:       graph,
		inDegree:    inDegree,
		tasks:       tasks,
		ready:       ready,
		resultsCh:   make(chan result, parallelism),
		ctx:         ctx,
		parallelism: parallelism,
		s:           s,
	}
}

func (state *runState) isDone() bool {
	return state.active == 0 && len(state.ready) == 0
}

func (state *runState) schedule() {
	for len(state.ready) > 0 && state.active < state.parallelism && state.ctx.Err() == nil {
		name := state.ready[0]
		state.ready = state.ready[1:]

		state.active++
		state.s.updateStatus(name, StatusRunning)
		state.s.info(fmt.Sprintf("Starting '%s'...", name))

		go func(t domain.Task) {
			start := time.Now()
			err := state.s.executor.Execute(state.ctx, &t)
			state.resultsCh <- result{task: t.Name, err: err, duration: time.Since(start)}
		}(state.tasks[name])
	}
}

func (state *runState) handleResult(res result) {
	state.active--
	if res.err != nil {
		wrapped := zerr.With(domain.Wrap(res.err, domain.ErrTaskExecutionFailed), "task", res.task)
		state.errs = errors.Join(state.errs, wrapped)
		state.s.updateStatus(res.task, StatusFailed)
		state.block(res.task)
		return
	}

	state.s.updateStatus(res.task, StatusCompleted)
	state.s.info(fmt.Sprintf("Finished '%s' after %s", res.task, res.duration.Round(time.Millisecond)))
	for _, dep := range state.graph.Dependents(res.task) {
		if _, ok := state.inDegree[dep]; !ok {
			continue
		}
		state.inDegree[dep]--
		if state.inDegree[dep] == 0 {
			state.ready = append(state.ready, dep)
		}
	}
}

// block marks every selected transitive dependent of name as blocked.
func (state *runState) block(name string) {
	for _, dep := range state.graph.Dependents(name) {
		if _, ok := state.inDegree[dep]; !ok || state.s.Status(dep) == StatusBlocked {
			continue
		}
		state.s.updateStatus(dep, StatusBlocked)
		delete(state.inDegree, dep)
		state.block(dep)
	}
}

func (s *Scheduler) info(msg string) {
	if s.logger != nil {
		s.logger.Info(msg)
	}
}
