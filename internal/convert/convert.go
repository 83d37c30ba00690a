// Package convert turns an interchange scene into packed BMD shape batches.
package convert

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Faultbox/bmdcubed/internal/config"
	"github.com/Faultbox/bmdcubed/internal/logger"
	"github.com/Faultbox/bmdcubed/pkg/bmd/geometry"
	"github.com/Faultbox/bmdcubed/pkg/bmd/joint"
	"github.com/Faultbox/bmdcubed/pkg/bmd/skinning"
	"github.com/Faultbox/bmdcubed/pkg/interchange"
)

// Converter builds batches with a fixed packing configuration.
type Converter struct {
	packing config.PackingConfig
	log     *zap.Logger
}

// New creates a converter. cfg must already be validated.
func New(cfg *config.Config) *Converter {
	return &Converter{
		packing: cfg.Packing,
		log:     logger.Named("convert"),
	}
}

// Result is everything the shape section needs.
type Result struct {
	Skeleton *joint.Bone        // nil when the scene has no nodes
	DrawData *skinning.DrawData // nil for unskinned scenes
	Batches  []*geometry.Batch  // one per triangle group, in scene order
}

// Convert builds the bone tree, the weight tables and one batch per triangle
// group. Any failing batch fails the whole conversion.
func (c *Converter) Convert(ctx context.Context, scene *interchange.Scene) (*Result, error) {
	start := time.Now()
	res := &Result{
		Batches: make([]*geometry.Batch, len(scene.Triangles)),
	}

	if scene.Skeleton != nil {
		res.Skeleton = joint.NewBone(scene.Skeleton)
	}
	if scene.Skinned() {
		res.DrawData = skinning.NewDrawData(scene.Weights)
		c.log.Debug("weights deduplicated",
			zap.Int("positions", len(scene.Weights)),
			zap.Int("unique", len(res.DrawData.AllDrw1Weights)),
			zap.Int("rigid", res.DrawData.RigidCount()))
	}

	var err error
	if c.packing.Parallel && len(scene.Triangles) > 1 {
		err = c.buildParallel(ctx, scene, res)
	} else {
		err = c.buildSequential(ctx, scene, res)
	}
	if err != nil {
		return nil, err
	}

	c.log.Info("conversion finished",
		zap.Int("batches", len(res.Batches)),
		zap.Int("packets", res.PacketCount()),
		zap.Bool("skinned", res.DrawData != nil),
		zap.Duration("elapsed", time.Since(start)))
	return res, nil
}

func (c *Converter) buildSequential(ctx context.Context, scene *interchange.Scene, res *Result) error {
	for i, tri := range scene.Triangles {
		if err := ctx.Err(); err != nil {
			return err
		}
		b, err := c.buildBatch(tri, scene.Positions, res.DrawData)
		if err != nil {
			return err
		}
		res.Batches[i] = b
	}
	return nil
}

// buildParallel gives every goroutine its own slot in res.Batches. The bone
// tree and draw data are only read.
func (c *Converter) buildParallel(ctx context.Context, scene *interchange.Scene, res *Result) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(c.workers())

	for i, tri := range scene.Triangles {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			b, err := c.buildBatch(tri, scene.Positions, res.DrawData)
			if err != nil {
				return err
			}
			res.Batches[i] = b
			return nil
		})
	}
	return g.Wait()
}

func (c *Converter) workers() int {
	if c.packing.Workers > 0 {
		return c.packing.Workers
	}
	return runtime.GOMAXPROCS(0)
}

func (c *Converter) buildBatch(tri *interchange.Triangles, positions []mgl32.Vec3, drw *skinning.DrawData) (*geometry.Batch, error) {
	b, err := geometry.NewBatch(tri, drw, c.packing.MatrixCapacity)
	if err != nil {
		return nil, err
	}
	if err := b.ComputeBounds(positions); err != nil {
		return nil, err
	}

	c.log.Debug("batch packed",
		zap.String("material", b.MaterialName),
		zap.Int("triangles", b.TriangleCount()),
		zap.Int("packets", len(b.Packets)),
		zap.Stringers("attributes", b.ActiveAttributes))
	return b, nil
}

// PacketCount returns the number of packets across all batches.
func (r *Result) PacketCount() int {
	n := 0
	for _, b := range r.Batches {
		n += len(b.Packets)
	}
	return n
}

// WriteShapes encodes the batches into w.
func (r *Result) WriteShapes(w io.Writer) (*geometry.Layout, error) {
	return geometry.Encode(w, r.Batches)
}

// ConvertFile converts a glTF file and writes the encoded shapes to out.
// Nothing is written unless the whole conversion succeeds.
func (c *Converter) ConvertFile(ctx context.Context, in, out string) (*Result, error) {
	scene, err := interchange.OpenGLTF(in)
	if err != nil {
		return nil, err
	}

	res, err := c.Convert(ctx, scene)
	if err != nil {
		return nil, fmt.Errorf("converting %s: %w", in, err)
	}

	var buf bytes.Buffer
	if _, err := res.WriteShapes(&buf); err != nil {
		return nil, fmt.Errorf("encoding %s: %w", in, err)
	}

	if dir := filepath.Dir(out); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, err
		}
	}
	if err := os.WriteFile(out, buf.Bytes(), 0644); err != nil {
		return nil, err
	}

	c.log.Info("shapes written", zap.String("path", out), zap.Int("bytes", buf.Len()))
	return res, nil
}
