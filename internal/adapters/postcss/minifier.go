package postcss

import (
	"context"

	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/css"
	"go.trai.ch/gild/internal/core/domain"
	"go.trai.ch/gild/internal/core/ports"
	"go.trai.ch/zerr"
)

const mediaTypeCSS = "text/css"

var _ ports.CSSTransform = (*Minifier)(nil)

// Minifier compresses stylesheets for production.
type Minifier struct {
	m *minify.M
}

// NewMinifier decodes the cssnano options bag.
func NewMinifier(bag map[string]any) (*Minifier, error) {
	var opts domain.CssnanoOptions
	if err := domain.DecodeOptions(bag, &opts); err != nil {
		return nil, zerr.With(err, "options", "cssnano")
	}

	m := minify.New()
	m.Add(mediaTypeCSS, &css.Minifier{
		Precision: opts.Precision,
		KeepCSS2:  opts.KeepCSS2,
	})
	return &Minifier{m: m}, nil
}

// Name identifies the transform.
func (n *Minifier) Name() string { return "cssnano" }

// Transform minifies asset.Contents. Source maps are dropped: production
// builds do not write them.
func (n *Minifier) Transform(_ context.Context, asset *domain.Asset) error {
	out, err := n.m.Bytes(mediaTypeCSS, asset.Contents)
	if err != nil {
		return zerr.Wrap(err, "failed to minify stylesheet")
	}
	asset.Contents = out
	asset.SourceMap = nil
	return nil
}
