// Package gpu runs the narrow phase's point-triangle distance kernel on a
// compute shader instead of the CPU tile executor, mirroring how
// gleval.NewComputeGPUSDF3 runs an SDF evaluation on the GPU: upload
// inputs as textures, dispatch a compute program, read the result texture
// back.
//
// This backend only ever evaluates the distance kernel over a batch of
// (point, triangle) pairs — it does not reimplement the broad-phase tile
// compaction or the repIdx/collide reduction, which stay on the CPU
// (package raster) regardless of Config.Backend; only the inner distance
// evaluation benefits from GPU parallelism at the scale this kernel runs.
package gpu

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/go-gl/gl/all-core/gl"
	"github.com/soypat/glgl/math/ms3"
	"github.com/soypat/glgl/v4.6-core/glgl"
)

// Evaluator runs point_tri_dist2 for many (point, triangle) pairs on the
// GPU in a single dispatch. It is not safe for concurrent use: mirroring
// gleval's computeSDF, a single GL program is bound and rebound per call.
type Evaluator struct {
	prog glgl.Program
}

// New compiles the distance compute shader and returns an Evaluator bound
// to the current GL context. The caller must have already created a GL
// context (e.g. via glgl.InitWithCurrentWindow33) on the calling
// goroutine's locked OS thread, which must stay locked for the lifetime
// of the context (see runtime.LockOSThread).
func New() (*Evaluator, error) {
	combined, err := glgl.ParseCombined(bytes.NewReader([]byte(distanceShaderSource)))
	if err != nil {
		return nil, fmt.Errorf("voxsdf/gpu: parse shader: %w", err)
	}
	prog, err := glgl.CompileProgram(combined)
	if err != nil {
		return nil, fmt.Errorf("voxsdf/gpu: compile shader: %s: %w", combined.Compute, err)
	}
	return &Evaluator{prog: prog}, nil
}

// EvaluatePairs computes, for each i, the squared distance from points[i]
// to the closed triangle tris[i]. len(points), len(tris), and len(dist2)
// must all be equal.
func (e *Evaluator) EvaluatePairs(points []ms3.Vec, tris []ms3.Triangle, dist2 []float32) error {
	if len(points) != len(tris) || len(points) != len(dist2) {
		return errors.New("voxsdf/gpu: mismatched points/tris/dist2 lengths")
	}
	if len(points) == 0 {
		return nil
	}
	e.prog.Bind()

	pointsCfg := glgl.TextureImgConfig{
		Type:           glgl.Texture2D,
		Width:          len(points),
		Height:         1,
		Access:         glgl.ReadOnly,
		Format:         gl.RGB,
		MinFilter:      gl.NEAREST,
		MagFilter:      gl.NEAREST,
		Xtype:          gl.FLOAT,
		InternalFormat: gl.RGBA32F,
		ImageUnit:      0,
	}
	if _, err := glgl.NewTextureFromImage(pointsCfg, points); err != nil {
		return fmt.Errorf("voxsdf/gpu: upload points: %w", err)
	}

	flatTris := flattenTriangles(tris)
	trisCfg := glgl.TextureImgConfig{
		Type:           glgl.Texture2D,
		Width:          len(flatTris),
		Height:         1,
		Access:         glgl.ReadOnly,
		Format:         gl.RGB,
		MinFilter:      gl.NEAREST,
		MagFilter:      gl.NEAREST,
		Xtype:          gl.FLOAT,
		InternalFormat: gl.RGBA32F,
		ImageUnit:      1,
	}
	if _, err := glgl.NewTextureFromImage(trisCfg, flatTris); err != nil {
		return fmt.Errorf("voxsdf/gpu: upload triangles: %w", err)
	}

	distCfg := glgl.TextureImgConfig{
		Type:           glgl.Texture2D,
		Width:          len(dist2),
		Height:         1,
		Access:         glgl.WriteOnly,
		Format:         gl.RED,
		MinFilter:      gl.NEAREST,
		MagFilter:      gl.NEAREST,
		Xtype:          gl.FLOAT,
		InternalFormat: gl.R32F,
		ImageUnit:      2,
	}
	distTex, err := glgl.NewTextureFromImage(distCfg, dist2)
	if err != nil {
		return fmt.Errorf("voxsdf/gpu: allocate output: %w", err)
	}

	if err := e.prog.RunCompute(len(dist2), 1, 1); err != nil {
		return fmt.Errorf("voxsdf/gpu: dispatch: %w", err)
	}
	if err := glgl.GetImage(dist2, distTex, distCfg); err != nil {
		return fmt.Errorf("voxsdf/gpu: readback: %w", err)
	}
	return nil
}

// flattenTriangles lays out each triangle's three vertices consecutively,
// matching the point-per-texel convention the shader indexes with
// 3*gl_GlobalInvocationID.x, 3*i+1, 3*i+2.
func flattenTriangles(tris []ms3.Triangle) []ms3.Vec {
	out := make([]ms3.Vec, 0, len(tris)*3)
	for _, t := range tris {
		out = append(out, t[0], t[1], t[2])
	}
	return out
}
