package markup

import "math"

// HitTester 命中测试
// 对存储做只读几何查询：给定设备坐标点，找出它落在哪条注释上
type HitTester struct {
	store   *AnnotationStore
	migrate *MigrationAdapter
}

// NewHitTester 创建命中测试器
func NewHitTester(store *AnnotationStore, migrate *MigrationAdapter) *HitTester {
	return &HitTester{store: store, migrate: migrate}
}

// FindAt 返回指定页面上覆盖设备点 p 的注释，没有则返回 nil
// 按插入顺序的逆序扫描，最晚创建的记录优先（顶层优先）
func (h *HitTester) FindAt(pageNum int, p Point, vp *Viewport) *Annotation {
	list := h.store.ListForPage(pageNum)
	for i := len(list) - 1; i >= 0; i-- {
		a := h.migrate.Normalize(list[i], vp)
		if hitAnnotation(a, p, vp) {
			debugPrintf("[HitTest] Point (%.1f, %.1f) hit %s annotation %s\n", p.X, p.Y, a.Type, a.ID)
			return a
		}
	}
	return nil
}

// hitAnnotation 按类型执行几何测试，p 为设备坐标
func hitAnnotation(a *Annotation, p Point, vp *Viewport) bool {
	switch a.Type {
	case AnnotationNote:
		// 便签渲染为固定大小的设备方块，命中区域同样不随缩放变化
		tl := ToDevice(Point{X: a.Coords.StartX, Y: a.Coords.StartY}, vp)
		return p.X >= tl.X && p.X <= tl.X+noteDeviceSize &&
			p.Y >= tl.Y && p.Y <= tl.Y+noteDeviceSize

	case AnnotationDraw:
		if len(a.Path) < 2 {
			return false
		}
		prev := ToDevice(a.Path[0], vp)
		for _, np := range a.Path[1:] {
			cur := ToDevice(np, vp)
			if pointToSegmentDist(p, prev, cur) <= drawHitSlop {
				return true
			}
			prev = cur
		}
		return false

	default:
		// 高亮/下划线/删除线：轴对齐包围盒
		// 归一化坐标已保证 Start ≤ End，轴向缩放保持该顺序
		tl := ToDevice(Point{X: a.Coords.StartX, Y: a.Coords.StartY}, vp)
		br := ToDevice(Point{X: a.Coords.EndX, Y: a.Coords.EndY}, vp)
		return p.X >= tl.X && p.X <= br.X && p.Y >= tl.Y && p.Y <= br.Y
	}
}

// pointToSegmentDist 点到线段的最短距离
// 投影参数截断到 [0,1]，取最近点的欧氏距离
func pointToSegmentDist(p, a, b Point) float64 {
	dx := b.X - a.X
	dy := b.Y - a.Y
	lenSq := dx*dx + dy*dy
	if lenSq == 0 {
		// 退化为点
		return math.Hypot(p.X-a.X, p.Y-a.Y)
	}

	t := ((p.X-a.X)*dx + (p.Y-a.Y)*dy) / lenSq
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}

	cx := a.X + t*dx
	cy := a.Y + t*dy
	return math.Hypot(p.X-cx, p.Y-cy)
}
