package geometry

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tol = 1e-5

func assertVecNear(t *testing.T, want, got mgl32.Vec3) {
	t.Helper()
	assert.InDelta(t, want.X(), got.X(), tol, "x of %v", got)
	assert.InDelta(t, want.Y(), got.Y(), tol, "y of %v", got)
	assert.InDelta(t, want.Z(), got.Z(), tol, "z of %v", got)
}

func TestIndexedFanCounts(t *testing.T) {
	for n := MinSubdivisions; n <= 64; n++ {
		m, err := IndexedFan(n)
		require.NoError(t, err)
		require.NoError(t, m.Validate())
		assert.Equal(t, n+1, m.VertexCount(), "n=%d", n)
		assert.Equal(t, n, m.TriangleCount(), "n=%d", n)
		assert.Equal(t, 3*n, m.IndexCount(), "n=%d", n)

		assert.Equal(t, mgl32.Vec3{0, 0, 0}, m.Vertices[0])
		for i, v := range m.Vertices[1:] {
			assert.InDelta(t, 1.0, v.X()*v.X()+v.Y()*v.Y(), tol, "n=%d rim %d off the unit circle", n, i)
			assert.Zero(t, v.Z())
		}
	}
}

func TestIndexedFanAdjacency(t *testing.T) {
	const n = 12
	m, err := IndexedFan(n)
	require.NoError(t, err)

	for i := 0; i < n; i++ {
		cur := m.Indices[i]
		next := m.Indices[(i+1)%n]
		assert.Equal(t, uint32(0), cur[0])

		shared := 0
		for _, a := range cur[1:] {
			for _, b := range next[1:] {
				if a == b {
					shared++
				}
			}
		}
		assert.Equal(t, 1, shared, "triangles %d and %d", i, (i+1)%n)
		// the shared rim index is the end of one and the start of the next
		assert.Equal(t, cur[2], next[1])
	}
}

func TestIndexedFanEightDivisions(t *testing.T) {
	m, err := Circle(8, TopologyIndexed)
	require.NoError(t, err)

	require.Len(t, m.Vertices, 9)
	require.Len(t, m.Indices, 8)
	assert.Equal(t, Triangle{0, 1, 2}, m.Indices[0])
	assert.Equal(t, Triangle{0, 8, 1}, m.Indices[7])

	assertVecNear(t, mgl32.Vec3{1, 0, 0}, m.Vertices[1])
	for i := 0; i < 8; i++ {
		angle := float64(i) * 45
		want := mgl32.Vec3{
			math32.Cos(mgl32.DegToRad(float32(angle))),
			math32.Sin(mgl32.DegToRad(float32(angle))),
			0,
		}
		assertVecNear(t, want, m.Vertices[i+1])
	}
}

func TestDuplicatedFanCounts(t *testing.T) {
	for n := MinSubdivisions; n <= 64; n++ {
		m, err := DuplicatedFan(n)
		require.NoError(t, err)
		require.NoError(t, m.Validate())
		assert.Equal(t, 3*n, m.VertexCount(), "n=%d", n)
		assert.Equal(t, n, m.TriangleCount(), "n=%d", n)
		assert.Zero(t, m.IndexCount())
		assert.Empty(t, m.IndexData())
	}
}

func TestDuplicatedFanSixDivisions(t *testing.T) {
	m, err := Circle(6, TopologyDuplicated)
	require.NoError(t, err)
	require.Len(t, m.Vertices, 18)
	assert.Equal(t, 6, m.TriangleCount())

	tri := m.TriangleAt(0)
	assertVecNear(t, mgl32.Vec3{0, 0, 0}, tri[0])
	assertVecNear(t, mgl32.Vec3{1, 0, 0}, tri[1])
	assertVecNear(t, mgl32.Vec3{0.5, 0.8660254, 0}, tri[2])
}

func TestDuplicatedFanWatertight(t *testing.T) {
	const n = 9
	m, err := DuplicatedFan(n)
	require.NoError(t, err)

	for i := 0; i < n-1; i++ {
		cur := m.TriangleAt(i)
		next := m.TriangleAt(i + 1)
		// equal values, separate storage
		assert.Equal(t, cur[2], next[1], "edge between %d and %d", i, i+1)
		assert.NotSame(t, &m.Vertices[3*i+2], &m.Vertices[3*(i+1)+1])
	}
	// closing edge goes through a full turn of float32 trig
	assertVecNear(t, m.TriangleAt(0)[1], m.TriangleAt(n - 1)[2])
}

func TestDuplicatedMatchesIndexedRim(t *testing.T) {
	for _, n := range []int{3, 5, 8, 31} {
		indexed, err := IndexedFan(n)
		require.NoError(t, err)
		dup, err := DuplicatedFan(n)
		require.NoError(t, err)

		rim := indexed.Vertices[1:]
		seen := make([]bool, len(rim))
		for i := 0; i < dup.TriangleCount(); i++ {
			tri := dup.TriangleAt(i)
			for _, p := range tri[1:] {
				found := false
				for j, r := range rim {
					if r.Sub(p).Len() < tol {
						seen[j] = true
						found = true
						break
					}
				}
				assert.True(t, found, "n=%d: rim point %v not in indexed mesh", n, p)
			}
		}
		for j, ok := range seen {
			assert.True(t, ok, "n=%d: indexed rim vertex %d never used", n, j+1)
		}

		for i := 0; i < n; i++ {
			a := indexed.TriangleAt(i)
			b := dup.TriangleAt(i)
			for k := range a {
				assertVecNear(t, a[k], b[k])
			}
		}
	}
}

func TestInvalidSubdivision(t *testing.T) {
	for _, topo := range []Topology{TopologyIndexed, TopologyDuplicated} {
		for _, n := range []int{-1, 0, 1, 2} {
			m, err := Circle(n, topo)
			assert.ErrorIs(t, err, ErrInvalidSubdivision, "n=%d %v", n, topo)
			assert.Nil(t, m)
		}
	}
}

func TestFloatsLayout(t *testing.T) {
	m, err := IndexedFan(4)
	require.NoError(t, err)
	f := m.Floats()
	require.Len(t, f, 3*m.VertexCount())
	for i, v := range m.Vertices {
		assert.Equal(t, v[:], f[3*i:3*i+3])
	}
	assert.Equal(t, []uint32{0, 1, 2, 0, 2, 3, 0, 3, 4, 0, 4, 1}, m.IndexData())
}

func BenchmarkIndexedFan(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_, _ = IndexedFan(1024)
	}
}

func BenchmarkDuplicatedFan(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_, _ = DuplicatedFan(1024)
	}
}
