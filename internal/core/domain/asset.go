package domain

import (
	"path"
	"path/filepath"
	"strings"
)

// Asset is a single style file travelling through a style pipeline.
// Stages mutate it in place; it never outlives one pipeline run.
type Asset struct {
	// Root is the project root; compilers resolve relative imports against it.
	Root string
	// Path is the source path relative to the project root, slash separated.
	Path string
	// Base is the glob base Path is anchored to.
	Base string
	// Contents holds the current bytes of the file.
	Contents []byte
	// SourceMap holds the accumulated source map when TrackMap is set.
	SourceMap []byte
	// TrackMap is switched on by the source map init stage.
	TrackMap bool
}

// Abs returns the OS path of the source file.
func (a *Asset) Abs() string {
	return filepath.Join(a.Root, filepath.FromSlash(a.Path))
}

// Rel returns Path relative to Base.
func (a *Asset) Rel() string {
	if a.Base == "" || a.Base == "." {
		return a.Path
	}
	return strings.TrimPrefix(a.Path, strings.TrimSuffix(a.Base, "/")+"/")
}

// OutName returns the output path relative to the destination directory,
// with preprocessor extensions replaced by .css.
func (a *Asset) OutName() string {
	rel := a.Rel()
	switch path.Ext(rel) {
	case ".scss", ".sass":
		return strings.TrimSuffix(rel, path.Ext(rel)) + ".css"
	default:
		return rel
	}
}

// IsPartial reports whether the file is a preprocessor partial (leading underscore).
func (a *Asset) IsPartial() bool {
	return strings.HasPrefix(path.Base(a.Path), "_")
}
