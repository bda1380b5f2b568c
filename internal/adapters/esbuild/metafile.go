package esbuild

import (
	"encoding/json"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"go.trai.ch/gild/internal/core/domain"
)

// Metafile is the subset of the esbuild metafile used for build stats.
type Metafile struct {
	Inputs  map[string]MetafileInput  `json:"inputs"`
	Outputs map[string]MetafileOutput `json:"outputs"`
}

// MetafileInput is an input file of the build.
type MetafileInput struct {
	Bytes   int              `json:"bytes"`
	Imports []MetafileImport `json:"imports"`
}

// MetafileImport is one import edge.
type MetafileImport struct {
	Path     string `json:"path"`
	Kind     string `json:"kind"`
	External bool   `json:"external,omitempty"`
}

// MetafileOutput is an emitted file.
type MetafileOutput struct {
	Bytes      int              `json:"bytes"`
	Imports    []MetafileImport `json:"imports"`
	EntryPoint string           `json:"entryPoint,omitempty"`
}

func parseMetafile(raw string) (*Metafile, error) {
	var m Metafile
	if raw == "" {
		return &m, nil
	}
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// collectAssets derives the emitted assets and, per entry name, the files
// a page has to load: the entry output plus the chunks it statically imports.
// Paths are relative to workDir in the metafile and relative to outdir in the result.
func collectAssets(m *Metafile, bc *domain.BundlerConfig, workDir, outdir string) ([]domain.AssetStat, map[string][]string) {
	entryNames := make(map[string]string, len(bc.Entry))
	for name, p := range bc.Entry {
		entryNames[path.Clean(filepath.ToSlash(p))] = name
	}

	rel := func(p string) string {
		r, err := filepath.Rel(outdir, filepath.Join(workDir, filepath.FromSlash(p)))
		if err != nil {
			return p
		}
		return filepath.ToSlash(r)
	}

	var assets []domain.AssetStat
	entrypoints := make(map[string][]string)

	for outPath, out := range m.Outputs {
		if strings.HasSuffix(outPath, ".map") {
			continue
		}
		stat := domain.AssetStat{Name: rel(outPath), Size: out.Bytes}
		if out.EntryPoint != "" {
			stat.EntryPoint = entryNames[path.Clean(out.EntryPoint)]
		}
		assets = append(assets, stat)

		if stat.EntryPoint == "" {
			continue
		}
		files := []string{stat.Name}
		seen := map[string]bool{outPath: true}
		queue := slices.Clone(out.Imports)
		for len(queue) > 0 {
			imp := queue[0]
			queue = queue[1:]
			if imp.External || imp.Kind != "import-statement" || seen[imp.Path] {
				continue
			}
			seen[imp.Path] = true
			files = append(files, rel(imp.Path))
			queue = append(queue, m.Outputs[imp.Path].Imports...)
		}
		entrypoints[stat.EntryPoint] = files
	}

	slices.SortFunc(assets, func(a, b domain.AssetStat) int { return strings.Compare(a.Name, b.Name) })
	return assets, entrypoints
}
