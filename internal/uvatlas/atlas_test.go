package uvatlas

import (
	"errors"
	"math"
	"testing"

	"github.com/paulmach/orb"

	"github.com/cityforge/meshgen/internal/geometry"
	"github.com/cityforge/meshgen/internal/mesh"
)

func squareFootprint(size float64) orb.Polygon {
	return orb.Polygon{{
		{0, 0},
		{size, 0},
		{size, size},
		{0, size},
		{0, 0},
	}}
}

func buildSquare(t *testing.T, size, height float64) (orb.Polygon, *mesh.Mesh) {
	t.Helper()
	poly := squareFootprint(size)
	m, err := mesh.Extrude(poly, geometry.BuildingProperties{
		FloorsCount: 1, FloorHeight: 3.0, BuildingHeight: height,
	})
	if err != nil {
		t.Fatalf("extrude failed: %v", err)
	}
	return poly, m
}

func TestWallStripDimensions(t *testing.T) {
	tests := []struct {
		name       string
		density    float64
		perimeter  float64
		height     float64
		wantWidth  int
		wantHeight int
	}{
		{
			name:      "round trip without clamping",
			density:   10,
			perimeter: 10, height: 6,
			wantWidth: 100, wantHeight: 60,
		},
		{
			name:      "floor guards degenerate size",
			density:   10,
			perimeter: 0.5, height: 0.5,
			wantWidth: MinTextureDim, wantHeight: MinTextureDim,
		},
		{
			name:      "zero clamps to floor",
			density:   10,
			perimeter: 0, height: 0,
			wantWidth: MinTextureDim, wantHeight: MinTextureDim,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewGenerator(tt.density)
			w, h := g.WallStripDimensions(tt.perimeter, tt.height)
			if w != tt.wantWidth || h != tt.wantHeight {
				t.Errorf("expected (%d,%d), got (%d,%d)", tt.wantWidth, tt.wantHeight, w, h)
			}
		})
	}
}

func TestMapWallUVsSeamless(t *testing.T) {
	poly, m := buildSquare(t, 10, 6)
	g := NewGenerator(10)

	atlas, err := g.MapWallUVs(poly, m)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Perimeter 40m at 10 texels/m.
	if atlas.WallWidth != 400 || atlas.WallHeight != 60 {
		t.Errorf("expected wall strip 400x60, got %dx%d", atlas.WallWidth, atlas.WallHeight)
	}

	// Four edges, four UVs per edge.
	if len(atlas.WallUVs) != 16 {
		t.Fatalf("expected 16 wall UVs, got %d", len(atlas.WallUVs))
	}

	// Each quad must start where the previous one ended and the strip must
	// span [0,1] overall.
	if atlas.WallUVs[0][0] != 0 {
		t.Errorf("expected first U to be 0, got %f", atlas.WallUVs[0][0])
	}
	for edge := 1; edge < 4; edge++ {
		prevEnd := atlas.WallUVs[(edge-1)*4+1][0]
		start := atlas.WallUVs[edge*4][0]
		if prevEnd != start {
			t.Errorf("edge %d starts at %f, previous ended at %f", edge, start, prevEnd)
		}
	}
	last := atlas.WallUVs[len(atlas.WallUVs)-3][0]
	if math.Abs(last-1) > 1e-12 {
		t.Errorf("expected final U 1.0, got %f", last)
	}

	// Equal edges, equal spans.
	for edge := 0; edge < 4; edge++ {
		span := atlas.WallUVs[edge*4+1][0] - atlas.WallUVs[edge*4][0]
		if math.Abs(span-0.25) > 1e-12 {
			t.Errorf("edge %d has span %f, want 0.25", edge, span)
		}
	}
}

func TestMapWallUVsRoofAllocation(t *testing.T) {
	poly, m := buildSquare(t, 10, 6)
	g := NewGenerator(10)

	atlas, err := g.MapWallUVs(poly, m)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Square roof fan has 2 faces, 3 collapsed UVs each.
	if len(atlas.RoofUVs) != 6 {
		t.Errorf("expected 6 roof UVs, got %d", len(atlas.RoofUVs))
	}
	for i, uv := range atlas.RoofUVs {
		if uv != (mesh.UV{0.5, 0.5}) {
			t.Errorf("roof UV %d is %v, want collapsed center", i, uv)
		}
	}
}

func TestMapWallUVsZeroPerimeter(t *testing.T) {
	g := NewGenerator(10)
	m := &mesh.Mesh{}

	_, err := g.MapWallUVs(orb.Polygon{{{1, 1}, {1, 1}, {1, 1}}}, m)
	if !errors.Is(err, mesh.ErrDegeneratePolygon) {
		t.Errorf("expected ErrDegeneratePolygon, got %v", err)
	}

	_, err = g.MapWallUVs(orb.Polygon{}, m)
	if !errors.Is(err, mesh.ErrDegeneratePolygon) {
		t.Errorf("expected ErrDegeneratePolygon for empty polygon, got %v", err)
	}
}

func TestAnnotateAlignsWithLabels(t *testing.T) {
	poly, m := buildSquare(t, 10, 6)
	g := NewGenerator(10)

	atlas, err := g.MapWallUVs(poly, m)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := g.Annotate(m, atlas); err != nil {
		t.Fatalf("annotation failed: %v", err)
	}

	if len(m.UVIndices) != len(m.Faces) {
		t.Fatalf("expected %d UV triples, got %d", len(m.Faces), len(m.UVIndices))
	}
	for fi, label := range m.FaceLabels {
		tri := m.UVIndices[fi]
		for _, ui := range tri {
			if ui < 0 || ui >= len(m.UVs) {
				t.Fatalf("face %d UV index %d out of range", fi, ui)
			}
		}
		if edge, ok := mesh.WallEdge(label); ok {
			base := edge * 4
			if tri[0] != base {
				t.Errorf("wall face %d starts at UV %d, want %d", fi, tri[0], base)
			}
		} else {
			if tri[0] < len(atlas.WallUVs) {
				t.Errorf("roof face %d indexes wall UV region at %d", fi, tri[0])
			}
		}
	}
}

func TestAnnotateIdempotent(t *testing.T) {
	poly, m := buildSquare(t, 10, 6)
	g := NewGenerator(10)

	atlas, err := g.MapWallUVs(poly, m)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := g.Annotate(m, atlas); err != nil {
		t.Fatalf("first annotation failed: %v", err)
	}
	first := make([]mesh.Triangle, len(m.UVIndices))
	copy(first, m.UVIndices)

	if err := g.Annotate(m, atlas); err != nil {
		t.Fatalf("second annotation failed: %v", err)
	}
	for i := range first {
		if first[i] != m.UVIndices[i] {
			t.Errorf("face %d UV triple changed from %v to %v", i, first[i], m.UVIndices[i])
		}
	}
}

func TestNewGeneratorDefault(t *testing.T) {
	g := NewGenerator(0)
	w, _ := g.WallStripDimensions(1, 1)
	if w != int(DefaultTexelDensity) {
		t.Errorf("expected default density %v to apply, got width %d", DefaultTexelDensity, w)
	}
}
