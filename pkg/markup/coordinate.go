package markup

import "math"

// 坐标空间转换
//
// 归一化空间：相对页面宽高的 [0,1] 分数，与缩放和旋转无关
// 设备空间：当前视口的像素坐标
//
// 两个转换都是全函数，调用方需保证视口宽高 > 0

// ToNormalized 将设备坐标转换为归一化坐标
func ToNormalized(p Point, vp *Viewport) Point {
	return Point{X: p.X / vp.Width, Y: p.Y / vp.Height}
}

// ToDevice 将归一化坐标转换为设备坐标
func ToDevice(p Point, vp *Viewport) Point {
	return Point{X: p.X * vp.Width, Y: p.Y * vp.Height}
}

// IsLegacyPixelSpace 判断注释坐标是否还停留在旧版设备像素空间
// 没有视口时假定已经是归一化坐标
func IsLegacyPixelSpace(a *Annotation, vp *Viewport) bool {
	if vp == nil {
		return false
	}
	m := math.Max(math.Abs(a.Coords.StartX), math.Abs(a.Coords.StartY))
	m = math.Max(m, math.Abs(a.Coords.EndX))
	m = math.Max(m, math.Abs(a.Coords.EndY))
	return m > legacyCoordThreshold
}
