package software

import (
	"image"

	"github.com/go-gl/mathgl/mgl32"
	"golang.org/x/image/vector"
)

// rasterize fills (or outlines, in wireframe mode) clip-space triangles into
// the current viewport. The whole draw call accumulates into one coverage
// mask, so edges shared inside a mesh leave no seams.
func (d *Device) rasterize(tris [][3]mgl32.Vec2) {
	vp := d.viewport.Intersect(d.img.Bounds())
	if vp.Empty() || len(tris) == 0 {
		return
	}
	w, h := float32(d.viewport.Dx()), float32(d.viewport.Dy())
	// offset of the clipped viewport inside the full one
	ox := float32(vp.Min.X - d.viewport.Min.X)
	oy := float32(vp.Min.Y - d.viewport.Min.Y)
	toPixel := func(p mgl32.Vec2) mgl32.Vec2 {
		return mgl32.Vec2{(p[0]+1)/2*w - ox, (1-p[1])/2*h - oy}
	}

	z := vector.NewRasterizer(vp.Dx(), vp.Dy())
	for _, tri := range tris {
		a, b, c := toPixel(tri[0]), toPixel(tri[1]), toPixel(tri[2])
		if d.wireframe {
			band(z, a, b)
			band(z, b, c)
			band(z, c, a)
		} else {
			polygon(z, a, b, c)
		}
		d.stats.Triangles++
	}
	z.Draw(d.img, vp, image.NewUniform(d.opts.Fill), image.Point{})
}

// band adds a one pixel wide strip along a-b
func band(z *vector.Rasterizer, a, b mgl32.Vec2) {
	dir := b.Sub(a)
	if dir.Len() == 0 {
		return
	}
	n := mgl32.Vec2{-dir[1], dir[0]}.Normalize().Mul(0.5)
	polygon(z, a.Add(n), b.Add(n), b.Sub(n), a.Sub(n))
}

// polygon adds a closed path with a fixed orientation. No face culling is
// applied, so both windings must cover and never cancel each other.
func polygon(z *vector.Rasterizer, pts ...mgl32.Vec2) {
	var area float32
	for i := range pts {
		p, q := pts[i], pts[(i+1)%len(pts)]
		area += p[0]*q[1] - q[0]*p[1]
	}
	if area == 0 {
		return
	}
	if area < 0 {
		for i, j := 0, len(pts)-1; i < j; i, j = i+1, j-1 {
			pts[i], pts[j] = pts[j], pts[i]
		}
	}
	z.MoveTo(pts[0][0], pts[0][1])
	for _, p := range pts[1:] {
		z.LineTo(p[0], p[1])
	}
	z.ClosePath()
}
