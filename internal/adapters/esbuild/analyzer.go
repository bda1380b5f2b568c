package esbuild

import (
	"os"
	"path/filepath"

	"github.com/evanw/esbuild/pkg/api"
	"go.trai.ch/gild/internal/core/domain"
	"go.trai.ch/zerr"
)

// writeAnalysis stores the raw metafile and a size report next to the bundles.
func writeAnalysis(outdir, metafile string) error {
	report := api.AnalyzeMetafile(metafile, api.AnalyzeMetafileOptions{Verbose: true})

	if err := os.MkdirAll(outdir, domain.DirPerm); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to write bundle analysis"), "path", outdir)
	}

	files := map[string]string{
		domain.MetafileName:     metafile,
		domain.BundleReportFile: report,
	}
	for name, content := range files {
		path := filepath.Join(outdir, name)
		if err := os.WriteFile(path, []byte(content), domain.FilePerm); err != nil {
			return zerr.With(zerr.Wrap(err, "failed to write bundle analysis"), "path", path)
		}
	}
	return nil
}
