// Package texture is the boundary to the facade texture synthesizer. The
// core supplies UV-derived sizing, mask bitmaps and an open string mapping
// of prompt metadata; it never performs synthesis itself.
package texture

import (
	"context"
	"errors"

	"github.com/cityforge/meshgen/internal/masks"
)

// ErrTextureUnavailable reports that no synthesizer could produce textures
// for a request.
var ErrTextureUnavailable = errors.New("texture synthesis unavailable")

// Request carries everything a synthesizer needs for one wall strip. The
// metadata mapping is deliberately untyped; it exists only at this boundary.
type Request struct {
	WallWidth  int
	WallHeight int
	Masks      masks.Bundle
	Metadata   map[string]string
}

// Result holds synthesized texture channel paths. BaseColor is always set;
// roughness and normal are optional.
type Result struct {
	BaseColor string
	Roughness string
	Normal    string
}

// Synthesizer produces facade textures for a wall strip.
type Synthesizer interface {
	Synthesize(ctx context.Context, req Request) (*Result, error)
}

// unavailable refuses every request. It backs dry-run mode: no placeholder
// textures are fabricated, features without cached textures are skipped.
type unavailable struct{}

func (unavailable) Synthesize(context.Context, Request) (*Result, error) {
	return nil, ErrTextureUnavailable
}

// Unavailable returns a Synthesizer that always refuses.
func Unavailable() Synthesizer {
	return unavailable{}
}
