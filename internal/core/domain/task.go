package domain

// Well-known task names.
const (
	TaskStylesDev  = "styles:dev"
	TaskStylesProd = "styles:prod"
	TaskScripts    = "scripts"
	TaskBuild      = "build"
	TaskDefault    = "default"
)

// Task is a named unit of work in the task graph.
// Tasks without an action of their own only aggregate their dependencies.
type Task struct {
	Name         string
	Description  string
	Dependencies []string
}
