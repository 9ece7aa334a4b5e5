package markup

import "time"

// AnnotationType 注释类型
// 封闭的类型集合，渲染和命中测试都按此标签分发
type AnnotationType int

const (
	AnnotationHighlight AnnotationType = iota
	AnnotationUnderline
	AnnotationStrikethrough
	AnnotationDraw
	AnnotationNote
)

// String 返回注释类型的字符串形式（用于导出和日志）
func (t AnnotationType) String() string {
	switch t {
	case AnnotationHighlight:
		return "highlight"
	case AnnotationUnderline:
		return "underline"
	case AnnotationStrikethrough:
		return "strikethrough"
	case AnnotationDraw:
		return "draw"
	case AnnotationNote:
		return "note"
	default:
		return "unknown"
	}
}

// ParseAnnotationType 解析注释类型字符串
func ParseAnnotationType(s string) (AnnotationType, bool) {
	switch s {
	case "highlight":
		return AnnotationHighlight, true
	case "underline":
		return AnnotationUnderline, true
	case "strikethrough":
		return AnnotationStrikethrough, true
	case "draw":
		return AnnotationDraw, true
	case "note":
		return AnnotationNote, true
	default:
		return 0, false
	}
}

// RGB 颜色
type RGB struct {
	R, G, B float64
}

// Point 二维点
// 坐标空间（设备像素或归一化 [0,1]）由使用处决定
type Point struct {
	X, Y float64
}

// Rect 注释矩形（归一化坐标）
// 构造时保证 StartX ≤ EndX 且 StartY ≤ EndY
type Rect struct {
	StartX float64
	StartY float64
	EndX   float64
	EndY   float64
}

// newNormalizedRect 由两个归一化端点构造有序矩形
func newNormalizedRect(a, b Point) Rect {
	r := Rect{StartX: a.X, StartY: a.Y, EndX: b.X, EndY: b.Y}
	if r.StartX > r.EndX {
		r.StartX, r.EndX = r.EndX, r.StartX
	}
	if r.StartY > r.EndY {
		r.StartY, r.EndY = r.EndY, r.StartY
	}
	return r
}

// Viewport 当前页面的渲染视口
// 由外部的页面渲染方提供，本引擎只读
type Viewport struct {
	Width    float64 // 宽度（设备像素），必须 > 0
	Height   float64 // 高度（设备像素），必须 > 0
	Rotation float64 // 旋转角度（度）
	Scale    float64 // 缩放比例
}

// Annotation 一条注释记录
type Annotation struct {
	ID         string         // 创建时分配，不可变
	Type       AnnotationType // 类型标签
	Color      RGB            // 显示颜色（下划线渲染时固定为红色）
	Coords     Rect           // 归一化坐标
	Path       []Point        // 仅手绘类型使用，≥2 个归一化点
	Content    string         // 仅便签类型使用，可编辑
	Page       int            // 页码（从 1 开始）
	CreatedAt  time.Time      // 创建时间，不可变
	ModifiedAt time.Time      // 内容编辑时间
}

// 固定的渲染与命中测试参数（设备像素，不随缩放变化）
const (
	noteDeviceSize     = 24.0 // 便签方块边长
	drawHitSlop        = 10.0 // 手绘线的命中距离
	underlineBarHeight = 4.0  // 下划线条高度
	strikeBarHeight    = 2.0  // 删除线条高度
	drawLineWidth      = 2.0  // 手绘线宽
)

// 固定的不透明度
const (
	highlightOpacity = 0.3
	barOpacity       = 0.8
	previewOpacity   = 0.5
)

// legacyCoordThreshold 旧版像素坐标检测阈值
// 归一化坐标不会超过此值；这是启发式判断，1.0～2.0 之间的
// 越界值仍按归一化处理（历史兼容，不保证正确分类）
const legacyCoordThreshold = 2.0

// underlineColor 下划线固定使用红色，忽略记录中的颜色
var underlineColor = RGB{R: 0.9, G: 0.1, B: 0.1}

// defaultColor 默认工具颜色（黄色）
var defaultColor = RGB{R: 1.0, G: 0.8, B: 0.0}
