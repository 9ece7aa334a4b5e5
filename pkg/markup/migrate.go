package markup

// MigrationAdapter 旧版记录迁移
// 早期版本直接把设备像素坐标写进记录，这里在读取时就地升级为
// 归一化坐标。升级是幂等的：成功升级后坐标落在归一化范围内，
// 检测函数不会再命中。
type MigrationAdapter struct{}

// NewMigrationAdapter 创建迁移适配器
func NewMigrationAdapter() *MigrationAdapter {
	return &MigrationAdapter{}
}

// Normalize 按需把记录从像素空间升级为归一化空间
// 视口缺失或记录已是归一化坐标时原样返回
func (m *MigrationAdapter) Normalize(a *Annotation, vp *Viewport) *Annotation {
	if a == nil || vp == nil {
		return a
	}
	if !IsLegacyPixelSpace(a, vp) {
		return a
	}

	debugPrintf("[Migrate] Normalizing legacy annotation %s (page %d)\n", a.ID, a.Page)

	start := ToNormalized(Point{X: a.Coords.StartX, Y: a.Coords.StartY}, vp)
	end := ToNormalized(Point{X: a.Coords.EndX, Y: a.Coords.EndY}, vp)
	// 视口宽高为正，除法保持原有的 min/max 顺序
	a.Coords = Rect{StartX: start.X, StartY: start.Y, EndX: end.X, EndY: end.Y}

	for i, p := range a.Path {
		a.Path[i] = ToNormalized(p, vp)
	}
	return a
}
