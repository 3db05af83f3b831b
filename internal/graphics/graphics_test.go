package graphics_test

import (
	"image/color"
	"testing"

	"circlegl/internal/assets"
	"circlegl/internal/geometry"
	"circlegl/internal/graphics"
	"circlegl/internal/graphics/software"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const brokenFragment = `#version 330 core
out vec4 FragColor;
void main()
{
    FragColor = vec4(1.0
`

func newContext(t *testing.T, policy graphics.FailurePolicy) (*graphics.Context, *software.Device) {
	t.Helper()
	dev := software.New(software.Options{Width: 200, Height: 100})
	return graphics.NewContext(dev, policy, nil), dev
}

func buildDefaultProgram(t *testing.T, ctx *graphics.Context) *graphics.Program {
	t.Helper()
	vs, fs, err := assets.ShaderSources("", "")
	require.NoError(t, err)
	p, err := ctx.BuildProgram(vs, fs)
	require.NoError(t, err)
	require.True(t, p.Linked())
	return p
}

func TestUploadRoundTrip(t *testing.T) {
	for _, topo := range []geometry.Topology{geometry.TopologyIndexed, geometry.TopologyDuplicated} {
		t.Run(topo.String(), func(t *testing.T) {
			ctx, _ := newContext(t, graphics.FailFast)
			mesh, err := geometry.Circle(16, topo)
			require.NoError(t, err)

			d, err := ctx.Upload(mesh, graphics.PositionLayout())
			require.NoError(t, err)
			assert.Equal(t, mesh.VertexCount(), d.VertexCount)
			assert.Equal(t, 16, d.TriangleCount)
			assert.Equal(t, topo, d.Topology)

			got, err := ctx.ReadVertices(d)
			require.NoError(t, err)
			assert.Equal(t, mesh.Floats(), got)

			idx, err := ctx.ReadIndices(d)
			require.NoError(t, err)
			if topo == geometry.TopologyIndexed {
				assert.True(t, d.Indexed())
				assert.Equal(t, 48, d.IndexCount)
				assert.Equal(t, mesh.IndexData(), idx)
			} else {
				assert.False(t, d.Indexed())
				assert.Zero(t, d.IndexBuffer)
				assert.Nil(t, idx)
			}
		})
	}
}

func TestUploadAllocationFailure(t *testing.T) {
	dev := software.New(software.Options{MaxBufferBytes: 64})
	ctx := graphics.NewContext(dev, graphics.FailFast, nil)

	mesh, err := geometry.IndexedFan(64)
	require.NoError(t, err)
	_, err = ctx.Upload(mesh, graphics.PositionLayout())
	assert.ErrorIs(t, err, graphics.ErrBufferAllocation)

	_, _, buffers, vaos := dev.Live()
	assert.Zero(t, buffers)
	assert.Zero(t, vaos)
}

func TestUploadRejectsBadInput(t *testing.T) {
	ctx, dev := newContext(t, graphics.FailFast)

	_, err := ctx.Upload(&geometry.Mesh{}, graphics.PositionLayout())
	assert.ErrorIs(t, err, geometry.ErrInvalidMesh)

	bad := graphics.PositionLayout()
	bad.Stride = 8
	_, err = ctx.Upload(geometry.Quad(), bad)
	assert.ErrorIs(t, err, graphics.ErrInvalidLayout)

	_, _, buffers, _ := dev.Live()
	assert.Zero(t, buffers, "nothing reaches the device before validation passes")
}

func TestRelease(t *testing.T) {
	ctx, dev := newContext(t, graphics.FailFast)
	d, err := ctx.Upload(geometry.Quad(), graphics.PositionLayout())
	require.NoError(t, err)

	_, _, buffers, vaos := dev.Live()
	assert.Equal(t, 2, buffers)
	assert.Equal(t, 1, vaos)

	ctx.Release(d)
	_, _, buffers, vaos = dev.Live()
	assert.Zero(t, buffers)
	assert.Zero(t, vaos)
}

func TestBuildProgramReleasesStages(t *testing.T) {
	ctx, dev := newContext(t, graphics.FailFast)
	p := buildDefaultProgram(t, ctx)

	shaders, programs, _, _ := dev.Live()
	assert.Zero(t, shaders, "stage objects are deleted once linked")
	assert.Equal(t, 1, programs)

	ctx.Activate(p)
	assert.Same(t, p, ctx.Active())
	assert.Equal(t, p.Handle(), dev.CurrentProgram())

	ctx.DeleteProgram(p)
	assert.Nil(t, ctx.Active())
	assert.Zero(t, dev.CurrentProgram())
}

func TestCompileError(t *testing.T) {
	ctx, dev := newContext(t, graphics.FailFast)
	vs, _, err := assets.ShaderSources("", "")
	require.NoError(t, err)

	p, err := ctx.BuildProgram(vs, brokenFragment)
	assert.Nil(t, p)
	var ce *graphics.CompileError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, graphics.StageFragment, ce.Stage)
	assert.Contains(t, ce.Log, "unbalanced braces")

	shaders, programs, _, _ := dev.Live()
	assert.Zero(t, shaders)
	assert.Zero(t, programs)
}

func TestLinkError(t *testing.T) {
	ctx, _ := newContext(t, graphics.FailFast)
	vs, fs, err := assets.ShaderSources("", "")
	require.NoError(t, err)

	v, err := ctx.Compile(graphics.StageVertex, vs)
	require.NoError(t, err)
	f, err := ctx.Compile(graphics.StageFragment, "void main() {}")
	require.Error(t, err)
	require.False(t, f.OK())

	p, err := ctx.Link(v, f)
	var le *graphics.LinkError
	require.ErrorAs(t, err, &le)
	assert.False(t, p.Linked())

	_, err = ctx.Link(f, v)
	assert.Error(t, err, "stages in the wrong order")

	good, err := ctx.Compile(graphics.StageFragment, fs)
	require.NoError(t, err)
	p, err = ctx.Link(v, good)
	require.NoError(t, err)
	assert.True(t, p.Linked())
}

func TestPermissivePolicy(t *testing.T) {
	ctx, dev := newContext(t, graphics.Permissive)
	vs, _, err := assets.ShaderSources("", "")
	require.NoError(t, err)

	p, err := ctx.BuildProgram(vs, brokenFragment)
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.False(t, p.Linked())

	d, err := ctx.Upload(geometry.TriangleShape(), graphics.PositionLayout())
	require.NoError(t, err)
	ctx.Clear(mgl32.Vec4{0, 0, 0, 1})
	ctx.Activate(p)
	require.NoError(t, ctx.Draw(d))

	// a broken program produces no fragments
	assert.Equal(t, 1, dev.Stats().DrawCalls)
	assert.Zero(t, dev.Stats().Triangles)
}

func TestDrawNeedsActiveProgram(t *testing.T) {
	ctx, _ := newContext(t, graphics.FailFast)
	d, err := ctx.Upload(geometry.Quad(), graphics.PositionLayout())
	require.NoError(t, err)
	assert.ErrorIs(t, ctx.Draw(d), graphics.ErrNoActiveProgram)
}

func TestDrawUsesTopology(t *testing.T) {
	ctx, dev := newContext(t, graphics.FailFast)
	ctx.Activate(buildDefaultProgram(t, ctx))

	indexed, err := geometry.IndexedFan(8)
	require.NoError(t, err)
	d, err := ctx.Upload(indexed, graphics.PositionLayout())
	require.NoError(t, err)
	require.NoError(t, ctx.Draw(d))
	assert.True(t, dev.Stats().LastIndexed)
	assert.Equal(t, 24, dev.Stats().LastDrawCount)

	dup, err := geometry.DuplicatedFan(6)
	require.NoError(t, err)
	d, err = ctx.Upload(dup, graphics.PositionLayout())
	require.NoError(t, err)
	require.NoError(t, ctx.Draw(d))
	assert.False(t, dev.Stats().LastIndexed)
	assert.Equal(t, 18, dev.Stats().LastDrawCount)
	assert.Equal(t, 14, dev.Stats().Triangles)
}

func TestDrawRasterizesCircle(t *testing.T) {
	for _, topo := range []geometry.Topology{geometry.TopologyIndexed, geometry.TopologyDuplicated} {
		t.Run(topo.String(), func(t *testing.T) {
			ctx, dev := newContext(t, graphics.FailFast)
			ctx.Viewport(200, 100)
			ctx.Activate(buildDefaultProgram(t, ctx))

			mesh, err := geometry.Circle(32, topo)
			require.NoError(t, err)
			d, err := ctx.Upload(mesh, graphics.PositionLayout())
			require.NoError(t, err)

			ctx.Clear(mgl32.Vec4{0, 0, 0, 1})
			require.NoError(t, ctx.Draw(d))

			img, err := dev.ReadPixels()
			require.NoError(t, err)
			fill := color.RGBA{R: 255, G: 128, B: 51, A: 255}
			assert.Equal(t, fill, img.RGBAAt(100, 50), "centre is covered")
			assert.Equal(t, fill, img.RGBAAt(150, 50), "inside the rim")
			assert.Equal(t, color.RGBA{A: 255}, img.RGBAAt(2, 2), "corner is background")
		})
	}
}

func TestWireframeLeavesInteriorEmpty(t *testing.T) {
	ctx, dev := newContext(t, graphics.FailFast)
	ctx.Activate(buildDefaultProgram(t, ctx))
	ctx.SetWireframe(true)

	d, err := ctx.Upload(geometry.TriangleShape(), graphics.PositionLayout())
	require.NoError(t, err)
	ctx.Clear(mgl32.Vec4{0, 0, 0, 1})
	require.NoError(t, ctx.Draw(d))

	// triangle spans x in [50,150], y in [25,75]; its centroid stays empty
	assert.Equal(t, color.RGBA{A: 255}, dev.Image().RGBAAt(100, 58))
}

func TestPositionLayout(t *testing.T) {
	l := graphics.PositionLayout()
	assert.NoError(t, l.Validate())
	assert.Equal(t, int32(12), l.Stride)
	assert.Zero(t, l.Offset)

	l.Components = 5
	assert.ErrorIs(t, l.Validate(), graphics.ErrInvalidLayout)
}
