package utils

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// result in radians
func QuatToEuler(q mgl32.Quat) (e mgl32.Vec3) {
	sinr_cosp := float64(2 * (q.W*q.X() + q.Y()*q.Z()))
	cosr_cosp := float64(1 - 2*(q.X()*q.X()+q.Y()*q.Y()))

	e[0] = float32(math.Atan2(sinr_cosp, cosr_cosp))

	sinp := float64(2 * (q.W*q.Y() - q.Z()*q.X()))
	if math.Abs(sinp) >= 1 {
		e[1] = math.Pi / 2
		if sinp < 0 {
			e[1] *= -1
		}
	} else {
		e[1] = float32(math.Asin(sinp))
	}

	siny_cosp := float64(2 * (q.W*q.Z() + q.X()*q.Y()))
	cosy_cosp := float64(1 - 2*(q.Y()*q.Y()+q.Z()*q.Z()))
	e[2] = float32(math.Atan2(siny_cosp, cosy_cosp))

	return e
}

func RadiansToDegreeV3(v mgl32.Vec3) mgl32.Vec3 {
	return v.Mul(180.0 / math.Pi)
}

func DegreeToRadiansV3(v mgl32.Vec3) mgl32.Vec3 {
	return v.Mul(math.Pi / 180.0)
}

// EulerToMat4 builds rotation from XYZ euler angles in degrees (x applied first).
func EulerToMat4(v mgl32.Vec3) mgl32.Mat4 {
	r := DegreeToRadiansV3(v)
	return mgl32.HomogRotate3DZ(r[2]).Mul4(mgl32.HomogRotate3DY(r[1])).Mul4(mgl32.HomogRotate3DX(r[0]))
}

// DecomposeMat4 splits an affine matrix into translation, euler rotation (degrees) and scale.
// Shear is ignored.
func DecomposeMat4(m mgl32.Mat4) (translation, rotation, scale mgl32.Vec3) {
	translation = m.Col(3).Vec3()

	sx, sy, sz := mgl32.Extract3DScale(m)
	scale = mgl32.Vec3{sx, sy, sz}

	rot := m
	for i, s := range scale {
		if s != 0 {
			rot.SetCol(i, m.Col(i).Mul(1/s))
		}
	}
	rot.SetCol(3, mgl32.Vec4{0, 0, 0, 1})

	rotation = RadiansToDegreeV3(QuatToEuler(mgl32.Mat4ToQuat(rot).Normalize()))
	return
}

func FloatArray32to64(in []float32) []float64 {
	out := make([]float64, len(in))
	for i, v := range in {
		out[i] = float64(v)
	}
	return out
}
