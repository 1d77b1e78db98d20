// Package pipeline orchestrates footprint features through validation,
// extrusion, UV mapping, texture resolution and export, isolating
// per-feature failures so a bad polygon never aborts the batch.
package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/orb/planar"
	"go.uber.org/zap"

	"github.com/cityforge/meshgen/internal/config"
	"github.com/cityforge/meshgen/internal/export"
	"github.com/cityforge/meshgen/internal/geometry"
	"github.com/cityforge/meshgen/internal/logger"
	"github.com/cityforge/meshgen/internal/masks"
	"github.com/cityforge/meshgen/internal/mesh"
	"github.com/cityforge/meshgen/internal/texture"
	"github.com/cityforge/meshgen/internal/uvatlas"
)

// FeatureState tracks a footprint's progress through the pipeline.
type FeatureState int

// Pipeline states, in processing order.
const (
	StatePending FeatureState = iota
	StateGeometryPrepared
	StateMeshBuilt
	StateUVMapped
	StateTextureResolved
	StateExported
	StateRecorded
	StateFailed
)

// String returns the state name.
func (s FeatureState) String() string {
	switch s {
	case StatePending:
		return "Pending"
	case StateGeometryPrepared:
		return "GeometryPrepared"
	case StateMeshBuilt:
		return "MeshBuilt"
	case StateUVMapped:
		return "UVMapped"
	case StateTextureResolved:
		return "TextureResolved"
	case StateExported:
		return "Exported"
	case StateRecorded:
		return "Recorded"
	case StateFailed:
		return "Failed"
	default:
		return "Unknown"
	}
}

// Centroid is a feature centroid in local projected meters.
type Centroid struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// FeatureRecord is the externally visible summary of a processed feature,
// appended to the batch index in input order.
type FeatureRecord struct {
	ID       string   `json:"id"`
	GLB      string   `json:"glb"`
	Centroid Centroid `json:"centroid"`
	Height   float64  `json:"height"`
}

// PreparedGeometry is a validated, reprojected footprint plus the chosen
// local projection. Owned by one feature-processing pass.
type PreparedGeometry struct {
	Polygon    orb.Polygon
	Projection geometry.Projection
}

// Pipeline drives building footprints into textured, exported meshes.
type Pipeline struct {
	cfg     *config.Config
	uv      *uvatlas.Generator
	masks   *masks.Generator
	synth   texture.Synthesizer
	shapes  *ShapeCache
	prompts *texture.PromptLibrary
}

// New assembles a pipeline. The synthesizer is decorated with the on-disk
// texture cache; in dry-run mode a refusing synthesizer replaces it, so only
// previously cached textures resolve.
func New(cfg *config.Config, synth texture.Synthesizer) *Pipeline {
	if cfg.Pipeline.DryRunGeometry || synth == nil {
		synth = texture.Unavailable()
	}
	textureDir := filepath.Join(cfg.Pipeline.CacheDir, "textures")

	var prompts *texture.PromptLibrary
	if cfg.Texture.PromptLibrary != "" {
		lib, err := texture.LoadPromptLibrary(cfg.Texture.PromptLibrary)
		if err != nil {
			logger.Warn("failed to load prompt library",
				zap.String("path", cfg.Texture.PromptLibrary), zap.Error(err))
		} else {
			prompts = lib
			logger.Info("loaded prompt library",
				zap.String("path", cfg.Texture.PromptLibrary),
				zap.Strings("recipes", lib.RecipeNames()))
		}
	}

	return &Pipeline{
		cfg: cfg,
		uv:  uvatlas.NewGenerator(cfg.Pipeline.TexelDensity),
		masks: masks.NewGenerator(cfg.Pipeline.TexelDensity, masks.Config{
			PlinthHeight:     cfg.Facade.PlinthHeight,
			DoorHeight:       cfg.Facade.DoorHeight,
			WindowWidth:      cfg.Facade.WindowWidth,
			WindowHeight:     cfg.Facade.WindowHeight,
			HorizontalMargin: cfg.Facade.HorizontalMargin,
			VerticalMargin:   cfg.Facade.VerticalMargin,
		}),
		synth:   texture.NewDiskCache(textureDir, synth),
		shapes:  NewShapeCache(),
		prompts: prompts,
	}
}

// Run processes every feature in the GeoJSON collection at inputPath and
// writes assets plus an index file under outputDir. Individual feature
// failures are logged and skipped; the index is always written. Only
// malformed top-level input is a hard failure.
func (p *Pipeline) Run(ctx context.Context, inputPath, outputDir string) (string, error) {
	data, err := os.ReadFile(inputPath)
	if err != nil {
		return "", fmt.Errorf("reading input: %w", err)
	}
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return "", fmt.Errorf("input must be a FeatureCollection: %w", err)
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return "", fmt.Errorf("creating output dir: %w", err)
	}

	logger.Info("starting batch", zap.Int("features", len(fc.Features)))

	records := make([]FeatureRecord, 0, len(fc.Features))
	seen := make(map[string]struct{}, len(fc.Features))
	skipped := 0
	for i, f := range fc.Features {
		id := uniqueID(featureID(f, i), seen)
		record, err := p.processFeature(ctx, id, f, outputDir)
		if err != nil {
			logger.Warn("feature skipped", zap.String("feature", id), zap.Error(err))
			skipped++
			continue
		}
		records = append(records, record)
	}

	indexPath := filepath.Join(outputDir, "index.json")
	if err := writeIndex(records, indexPath); err != nil {
		return "", fmt.Errorf("writing index: %w", err)
	}

	logger.Info("batch complete",
		zap.Int("processed", len(records)),
		zap.Int("skipped", skipped),
		zap.Int("shape_signatures", p.shapes.Len()),
		zap.String("index", indexPath))
	return indexPath, nil
}

// processFeature runs a single footprint through the state machine. Any
// error leaves the feature in StateFailed and is reported to the caller.
func (p *Pipeline) processFeature(ctx context.Context, id string, f *geojson.Feature, outputDir string) (FeatureRecord, error) {
	state := StatePending
	fail := func(err error) (FeatureRecord, error) {
		failedAt := state
		state = StateFailed
		return FeatureRecord{}, fmt.Errorf("in state %s: %w", failedAt, err)
	}

	prepared, err := p.prepareGeometry(f)
	if err != nil {
		return fail(err)
	}
	state = StateGeometryPrepared

	props := geometry.PropertiesFromFeature(f.Properties)
	logger.Debug("extruding building",
		zap.String("feature", id),
		zap.Int("floors", props.FloorsCount),
		zap.Float64("height_m", props.Height()))

	m, err := mesh.Extrude(prepared.Polygon, props)
	if err != nil {
		return fail(err)
	}
	state = StateMeshBuilt

	atlas, err := p.uv.MapWallUVs(prepared.Polygon, m)
	if err != nil {
		return fail(err)
	}
	if err := p.uv.Annotate(m, atlas); err != nil {
		return fail(err)
	}
	state = StateUVMapped

	key := ShapeKeyFor(m)
	result, hit, err := p.shapes.GetOrCreate(key, func() (*texture.Result, error) {
		return p.resolveTexture(ctx, atlas, props, outputDir, key)
	})
	if err != nil {
		return fail(err)
	}
	state = StateTextureResolved
	logger.Debug("texture resolved",
		zap.String("feature", id), zap.Stringer("shape", key), zap.Bool("cache_hit", hit))

	glbPath := filepath.Join(outputDir, id+".glb")
	channels := map[string]string{"baseColor": result.BaseColor}
	if result.Roughness != "" {
		channels["roughness"] = result.Roughness
	}
	if result.Normal != "" {
		channels["normal"] = result.Normal
	}
	if err := export.WriteGLB(m, channels, glbPath); err != nil {
		return fail(err)
	}
	state = StateExported

	centroid, _ := planar.CentroidArea(prepared.Polygon)
	record := FeatureRecord{
		ID:       id,
		GLB:      glbPath,
		Centroid: Centroid{X: centroid[0], Y: centroid[1]},
		Height:   props.Height(),
	}
	state = StateRecorded
	logger.Info("feature processed", zap.String("feature", id), zap.Stringer("state", state))
	return record, nil
}

// prepareGeometry validates the raw footprint and reprojects it into local
// planar meters.
func (p *Pipeline) prepareGeometry(f *geojson.Feature) (*PreparedGeometry, error) {
	if f.Geometry == nil {
		return nil, geometry.ErrInvalidGeometryKind
	}
	poly, err := geometry.ValidatePolygon(f.Geometry)
	if err != nil {
		return nil, err
	}
	proj, err := geometry.SelectLocalProjection(poly)
	if err != nil {
		return nil, err
	}
	projected, err := geometry.ProjectPolygon(poly, proj)
	if err != nil {
		return nil, err
	}
	return &PreparedGeometry{Polygon: projected, Projection: proj}, nil
}

// resolveTexture rasterizes facade masks and requests synthesis for one
// shape signature. Masks land in a per-signature directory so concurrent
// signatures never clobber each other.
func (p *Pipeline) resolveTexture(ctx context.Context, atlas *uvatlas.Atlas, props geometry.BuildingProperties, outputDir string, key ShapeKey) (*texture.Result, error) {
	maskDir := filepath.Join(outputDir, "masks", key.String())
	bundle, err := p.masks.Generate(atlas.WallWidth, atlas.WallHeight, props, maskDir)
	if err != nil {
		return nil, err
	}

	md := texture.Metadata(p.cfg.Texture, props)
	md["recipe"] = texture.SelectRecipe(p.prompts, md)
	md["seed"] = strconv.FormatInt(p.cfg.Pipeline.Seed, 10)

	return p.synth.Synthesize(ctx, texture.Request{
		WallWidth:  atlas.WallWidth,
		WallHeight: atlas.WallHeight,
		Masks:      bundle,
		Metadata:   md,
	})
}

// featureID formats the GeoJSON feature id, falling back to a positional
// name so exported filenames never collide within a batch.
func featureID(f *geojson.Feature, index int) string {
	switch id := f.ID.(type) {
	case string:
		if id != "" {
			return id
		}
	case float64:
		return strconv.FormatFloat(id, 'f', -1, 64)
	case int:
		return strconv.Itoa(id)
	}
	return fmt.Sprintf("building_%d", index)
}

// uniqueID reserves id within the batch, suffixing duplicates so two features
// sharing an id never overwrite each other's exported assets.
func uniqueID(id string, seen map[string]struct{}) string {
	candidate := id
	for n := 1; ; n++ {
		if _, taken := seen[candidate]; !taken {
			break
		}
		candidate = fmt.Sprintf("%s_%d", id, n)
	}
	if candidate != id {
		logger.Warn("duplicate feature id", zap.String("id", id), zap.String("renamed", candidate))
	}
	seen[candidate] = struct{}{}
	return candidate
}

// writeIndex writes the batch index, even when no feature succeeded.
func writeIndex(records []FeatureRecord, path string) error {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
