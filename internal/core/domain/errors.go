package domain

import "go.trai.ch/zerr"

var (
	// ErrTaskAlreadyExists is returned when attempting to add a task with a name that already exists.
	ErrTaskAlreadyExists = zerr.New("task already exists")

	// ErrMissingDependency is returned when a task references a dependency that doesn't exist in the graph.
	ErrMissingDependency = zerr.New("missing dependency")

	// ErrCycleDetected is returned when a cycle is detected in the task dependency graph.
	ErrCycleDetected = zerr.New("cycle detected")

	// ErrTaskNotFound is returned when a requested task is not found in the graph.
	ErrTaskNotFound = zerr.New("task not found")

	// ErrTaskExecutionFailed is returned when a task execution fails.
	ErrTaskExecutionFailed = zerr.New("task execution failed")

	// ErrBuildExecutionFailed is returned when one or more tasks of a run failed.
	ErrBuildExecutionFailed = zerr.New("build execution failed")

	// ErrConfigNotFound is returned when no gild.yaml can be found.
	ErrConfigNotFound = zerr.New("could not find gild.yaml")

	// ErrConfigReadFailed is returned when the config file cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read config file")

	// ErrConfigParseFailed is returned when the config file cannot be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse config file")

	// ErrConfigMissingField is returned when a required config field is empty.
	ErrConfigMissingField = zerr.New("missing required config field")

	// ErrOptionsDecodeFailed is returned when an options bag cannot be decoded into its typed form.
	ErrOptionsDecodeFailed = zerr.New("failed to decode options")

	// ErrConfigMergeFailed is returned when user overrides cannot be merged into the bundler config.
	ErrConfigMergeFailed = zerr.New("failed to merge bundler config overrides")

	// ErrEntryDiscoveryFailed is returned when the entry glob cannot be evaluated.
	ErrEntryDiscoveryFailed = zerr.New("failed to discover entry points")

	// ErrStyleSourceFailed is returned when the style source glob cannot be evaluated.
	ErrStyleSourceFailed = zerr.New("failed to resolve style sources")

	// ErrStyleReadFailed is returned when a style source cannot be read.
	ErrStyleReadFailed = zerr.New("failed to read style source")

	// ErrStyleCompileFailed is returned when the preprocessor rejects a style source.
	ErrStyleCompileFailed = zerr.New("failed to compile style")

	// ErrStyleTransformFailed is returned when a post-processing transform fails.
	ErrStyleTransformFailed = zerr.New("failed to post-process style")

	// ErrStyleWriteFailed is returned when a compiled style or its source map cannot be written.
	ErrStyleWriteFailed = zerr.New("failed to write style output")

	// ErrCompilerStartFailed is returned when the style compiler process cannot be started.
	ErrCompilerStartFailed = zerr.New("failed to start style compiler")

	// ErrBundlerSetupFailed is returned when the bundler config cannot be translated or prepared.
	ErrBundlerSetupFailed = zerr.New("failed to set up bundler")

	// ErrUnknownLoader is returned when a module rule names a loader with no bundler equivalent.
	ErrUnknownLoader = zerr.New("unknown loader")

	// ErrInvalidRuleTest is returned when a module rule test is not a valid regular expression.
	ErrInvalidRuleTest = zerr.New("invalid module rule test")

	// ErrUnknownEngine is returned when a browser target cannot be mapped to an engine.
	ErrUnknownEngine = zerr.New("unknown browser engine")

	// ErrNotifyFailed is returned when a desktop notification cannot be dispatched.
	ErrNotifyFailed = zerr.New("failed to dispatch desktop notification")

	// ErrReloadServerFailed is returned when the live-reload server cannot listen.
	ErrReloadServerFailed = zerr.New("live-reload server failed")

	// ErrWatcherStartFailed is returned when the file watcher cannot be started.
	ErrWatcherStartFailed = zerr.New("failed to start file watcher")

	// ErrCleanFailed is returned when an output directory cannot be removed.
	ErrCleanFailed = zerr.New("failed to clean output directory")
)

// Wrap marks cause with sentinel. errors.Is matches either one and the error
// reads "<sentinel>: <cause>".
func Wrap(cause, sentinel error) error {
	if cause == nil {
		return nil
	}
	return &markedError{sentinel: sentinel, cause: cause}
}

// Mark returns sentinel annotated with one metadata pair. zerr.With copies the
// error it is given, so it must never be applied to a sentinel directly.
func Mark(sentinel error, key string, value any) error {
	return zerr.With(zerr.Wrap(sentinel, ""), key, value)
}

type markedError struct {
	sentinel error
	cause    error
}

func (e *markedError) Error() string {
	return e.sentinel.Error() + ": " + e.cause.Error()
}

// Message is the link's own text, without its cause.
func (e *markedError) Message() string { return e.sentinel.Error() }

func (e *markedError) Unwrap() error { return e.cause }

func (e *markedError) Is(target error) bool { return target == e.sentinel }
