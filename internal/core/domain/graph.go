package domain

import (
	"iter"
	"slices"
	"strings"
)

// Graph represents a dependency graph of tasks.
type Graph struct {
	tasks          map[string]Task
	dependents     map[string][]string
	executionOrder []string
}

// NewGraph creates a new empty Graph.
func NewGraph() *Graph {
	return &Graph{
		tasks:      make(map[string]Task),
		dependents: make(map[string][]string),
	}
}

// AddTask adds a task to the graph.
// It returns an error if a task with the same name already exists.
func (g *Graph) AddTask(t *Task) error {
	if _, exists := g.tasks[t.Name]; exists {
		return Mark(ErrTaskAlreadyExists, "task_name", t.Name)
	}
	g.tasks[t.Name] = *t
	for _, dep := range t.Dependencies {
		g.dependents[dep] = append(g.dependents[dep], t.Name)
	}
	return nil
}

// GetTask returns the task with the given name.
func (g *Graph) GetTask(name string) (Task, bool) {
	t, ok := g.tasks[name]
	return t, ok
}

// TaskCount returns the number of tasks in the graph.
func (g *Graph) TaskCount() int {
	return len(g.tasks)
}

// Dependents returns the names of the tasks that depend on name.
func (g *Graph) Dependents(name string) []string {
	return g.dependents[name]
}

// Names returns all task names, sorted.
func (g *Graph) Names() []string {
	names := make([]string, 0, len(g.tasks))
	for name := range g.tasks {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Validate checks for missing dependencies and cycles using a topological sort.
// It populates the execution order used by Walk. Tasks are visited in name
// order so the resulting order is deterministic.
func (g *Graph) Validate() error {
	g.executionOrder = make([]string, 0, len(g.tasks))
	visited := make(map[string]int) // 0: unvisited, 1: visiting, 2: visited
	var path []string

	var visit func(u string) error
	visit = func(u string) error {
		visited[u] = 1
		path = append(path, u)

		task, exists := g.tasks[u]
		if !exists {
			return Mark(ErrMissingDependency, "dependency", u)
		}

		for _, dep := range task.Dependencies {
			if visited[dep] == 1 {
				return buildCycleError(path, dep)
			}
			if visited[dep] == 0 {
				if err := visit(dep); err != nil {
					return err
				}
			}
		}

		visited[u] = 2
		path = path[:len(path)-1]
		g.executionOrder = append(g.executionOrder, u)
		return nil
	}

	for _, name := range g.Names() {
		if visited[name] == 0 {
			if err := visit(name); err != nil {
				return err
			}
		}
	}

	return nil
}

// buildCycleError constructs an error with cycle path metadata.
func buildCycleError(path []string, dep string) error {
	start := slices.Index(path, dep)
	cycle := append(slices.Clone(path[start:]), dep)
	return Mark(ErrCycleDetected, "cycle", strings.Join(cycle, " -> "))
}

// Walk returns an iterator that yields tasks in execution order.
// It assumes Validate() has been called and returned nil.
func (g *Graph) Walk() iter.Seq[Task] {
	return func(yield func(Task) bool) {
		for _, name := range g.executionOrder {
			if !yield(g.tasks[name]) {
				return
			}
		}
	}
}

// Closure returns the targets and all of their transitive dependencies.
func (g *Graph) Closure(targets []string) (map[string]bool, error) {
	set := make(map[string]bool)
	var add func(name string) error
	add = func(name string) error {
		if set[name] {
			return nil
		}
		task, ok := g.tasks[name]
		if !ok {
			return Mark(ErrTaskNotFound, "task", name)
		}
		set[name] = true
		for _, dep := range task.Dependencies {
			if err := add(dep); err != nil {
				return err
			}
		}
		return nil
	}

	for _, target := range targets {
		if err := add(target); err != nil {
			return nil, err
		}
	}
	return set, nil
}
