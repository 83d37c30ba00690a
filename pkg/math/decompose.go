// Package math provides transform decomposition and bounds helpers on top of mgl32.
package math

import "github.com/go-gl/mathgl/mgl32"

// Transform holds the components of an affine 4x4 matrix.
type Transform struct {
	Scale       mgl32.Vec3
	Rotation    mgl32.Quat
	Translation mgl32.Vec3
}

// Decompose splits an affine matrix (column-major) into scale, rotation
// and translation such that m = T * R * S.
//
// Translation is the first three components of the last column. Scale is the
// length of each basis column; the rotation is extracted from the basis after
// the scale has been divided out. Shear and projection terms are ignored.
func Decompose(m mgl32.Mat4) Transform {
	t := Transform{
		Translation: m.Col(3).Vec3(),
		Scale: mgl32.Vec3{
			m.Col(0).Vec3().Len(),
			m.Col(1).Vec3().Len(),
			m.Col(2).Vec3().Len(),
		},
	}

	rot := mgl32.Ident4()
	for c := 0; c < 3; c++ {
		col := m.Col(c).Vec3()
		if s := t.Scale[c]; s != 0 {
			col = col.Mul(1 / s)
		}
		rot.SetCol(c, col.Vec4(0))
	}
	t.Rotation = mgl32.Mat4ToQuat(rot).Normalize()

	return t
}

// Compose builds the matrix T * R * S.
func (t Transform) Compose() mgl32.Mat4 {
	return mgl32.Translate3D(t.Translation.X(), t.Translation.Y(), t.Translation.Z()).
		Mul4(t.Rotation.Mat4()).
		Mul4(mgl32.Scale3D(t.Scale.X(), t.Scale.Y(), t.Scale.Z()))
}
