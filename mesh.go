package heliscene

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"
)

// Dimensions represents the minimum and maximum spatial corners of a Mesh.
type Dimensions [2]mgl64.Vec3

// Center returns the center point inbetween the two corners of the dimension set.
func (dim Dimensions) Center() mgl64.Vec3 {
	return dim[0].Add(dim[1]).Mul(0.5)
}

func (dim Dimensions) Width() float64 {
	return dim[1].X() - dim[0].X()
}

func (dim Dimensions) Height() float64 {
	return dim[1].Y() - dim[0].Y()
}

func (dim Dimensions) Depth() float64 {
	return dim[1].Z() - dim[0].Z()
}

// MaxSpan returns the maximum span out of width, height, and depth.
func (dim Dimensions) MaxSpan() float64 {
	return math.Max(math.Max(dim.Width(), dim.Height()), dim.Depth())
}

// Triangle is a single triangle of a Mesh, either in object space or transformed into world space.
type Triangle struct {
	Vertices [3]mgl64.Vec3
	Normal   mgl64.Vec3
}

// Center returns the average of the triangle's three vertices.
func (tri Triangle) Center() mgl64.Vec3 {
	return tri.Vertices[0].Add(tri.Vertices[1]).Add(tri.Vertices[2]).Mul(1.0 / 3.0)
}

// TriangleList is a list of triangles, as filled by Node.AppendTriangles() or Mesh.TransformedTriangles().
type TriangleList []Triangle

// Mesh is indexed triangle geometry. Meshes are owned by a Library or by user code and may be attached to any number of Nodes;
// heliscene doesn't validate the buffers beyond the index range check in AddTriangles.
type Mesh struct {
	Name       string
	Vertices   []mgl64.Vec3
	Normals    []mgl64.Vec3 // Per-vertex normals; may be empty, in which case face normals are used
	Indices    []uint32
	Dimensions Dimensions
}

// NewMesh returns a new, empty Mesh with the given name.
func NewMesh(name string) *Mesh {
	return &Mesh{
		Name:     name,
		Vertices: []mgl64.Vec3{},
		Indices:  []uint32{},
	}
}

// AddVertices adds vertices to the Mesh, returning the index of the first vertex added.
func (mesh *Mesh) AddVertices(vertices ...mgl64.Vec3) uint32 {
	start := uint32(len(mesh.Vertices))
	mesh.Vertices = append(mesh.Vertices, vertices...)
	return start
}

// AddTriangles adds triangles to the Mesh using indices into its vertex list. The number of indices must be divisible by 3,
// and every index must refer to an existing vertex.
func (mesh *Mesh) AddTriangles(indices ...uint32) error {

	if len(indices)%3 != 0 {
		return errors.Errorf("mesh %q: %d indices don't make whole triangles", mesh.Name, len(indices))
	}

	for _, index := range indices {
		if int(index) >= len(mesh.Vertices) {
			return errors.Errorf("mesh %q: index %d out of range of %d vertices", mesh.Name, index, len(mesh.Vertices))
		}
	}

	mesh.Indices = append(mesh.Indices, indices...)
	return nil

}

// ApplyMatrix transforms the Mesh's vertices by the matrix given (and its normals by the matching normal matrix), then updates
// its bounds. This is useful for baking a scale or offset into geometry rather than a Node.
func (mesh *Mesh) ApplyMatrix(matrix mgl64.Mat4) {

	normal := NewNormalMatrix(matrix)

	for i, v := range mesh.Vertices {
		mesh.Vertices[i] = matrix.Mul4x1(v.Vec4(1)).Vec3()
	}

	for i, n := range mesh.Normals {
		mesh.Normals[i] = safeNormalize(normal.Mul4x1(n.Vec4(0)).Vec3())
	}

	mesh.UpdateBounds()

}

// TriangleCount returns the number of triangles in the Mesh.
func (mesh *Mesh) TriangleCount() int {
	return len(mesh.Indices) / 3
}

// UpdateBounds recalculates the Mesh's Dimensions from its vertices.
func (mesh *Mesh) UpdateBounds() {

	if len(mesh.Vertices) == 0 {
		mesh.Dimensions = Dimensions{}
		return
	}

	min := mesh.Vertices[0]
	max := mesh.Vertices[0]

	for _, v := range mesh.Vertices[1:] {
		for axis := 0; axis < 3; axis++ {
			min[axis] = math.Min(min[axis], v[axis])
			max[axis] = math.Max(max[axis], v[axis])
		}
	}

	mesh.Dimensions = Dimensions{min, max}

}

// Triangles returns the Mesh's triangles in object space.
func (mesh *Mesh) Triangles() TriangleList {
	return mesh.TransformedTriangles(mgl64.Ident4(), mgl64.Ident4())
}

// TransformedTriangles returns the Mesh's triangles with their vertices transformed by the world matrix and their normals
// transformed by the normal matrix given (see Transform.Normal()).
func (mesh *Mesh) TransformedTriangles(world, normal mgl64.Mat4) TriangleList {
	out := make(TriangleList, 0, mesh.TriangleCount())
	mesh.appendTriangles(&out, world, normal)
	return out
}

func (mesh *Mesh) appendTriangles(out *TriangleList, world, normal mgl64.Mat4) {

	hasNormals := len(mesh.Normals) == len(mesh.Vertices)

	for i := 0; i+2 < len(mesh.Indices); i += 3 {

		tri := Triangle{}

		for v := 0; v < 3; v++ {
			tri.Vertices[v] = world.Mul4x1(mesh.Vertices[mesh.Indices[i+v]].Vec4(1)).Vec3()
		}

		if hasNormals {
			n := mesh.Normals[mesh.Indices[i]].Add(mesh.Normals[mesh.Indices[i+1]]).Add(mesh.Normals[mesh.Indices[i+2]])
			tri.Normal = safeNormalize(normal.Mul4x1(n.Vec4(0)).Vec3())
		} else {
			tri.Normal = calculateNormal(tri.Vertices[0], tri.Vertices[1], tri.Vertices[2])
		}

		*out = append(*out, tri)

	}

}

func calculateNormal(p1, p2, p3 mgl64.Vec3) mgl64.Vec3 {
	return safeNormalize(p2.Sub(p1).Cross(p3.Sub(p1)))
}

func safeNormalize(vec mgl64.Vec3) mgl64.Vec3 {
	if vec.Len() < 1e-12 {
		return vec
	}
	return vec.Normalize()
}

// NewCube creates a new 2x2x2 cube Mesh centered on its origin.
func NewCube() *Mesh {

	mesh := NewMesh("Cube")

	mesh.AddVertices(
		mgl64.Vec3{-1, -1, -1},
		mgl64.Vec3{1, -1, -1},
		mgl64.Vec3{1, 1, -1},
		mgl64.Vec3{-1, 1, -1},
		mgl64.Vec3{-1, -1, 1},
		mgl64.Vec3{1, -1, 1},
		mgl64.Vec3{1, 1, 1},
		mgl64.Vec3{-1, 1, 1},
	)

	// The indices are all in range, so this can't fail
	_ = mesh.AddTriangles(
		4, 5, 6, 4, 6, 7, // Front (+Z)
		1, 0, 3, 1, 3, 2, // Back (-Z)
		5, 1, 2, 5, 2, 6, // Right (+X)
		0, 4, 7, 0, 7, 3, // Left (-X)
		7, 6, 2, 7, 2, 3, // Top (+Y)
		0, 1, 5, 0, 5, 4, // Bottom (-Y)
	)

	mesh.UpdateBounds()

	return mesh

}
