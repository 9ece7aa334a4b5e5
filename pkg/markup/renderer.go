package markup

import (
	"fmt"
	"math"

	"github.com/novvoo/go-cairo/pkg/cairo"
)

// AnnotationRenderer 注释渲染器
// 把已提交的记录和进行中的临时形状绘制到 cairo 上下文。
// 绘制表面由调用方每次传入，渲染器不持有表面。
type AnnotationRenderer struct {
	store   *AnnotationStore
	migrate *MigrationAdapter
}

// NewAnnotationRenderer 创建注释渲染器
func NewAnnotationRenderer(store *AnnotationStore, migrate *MigrationAdapter) *AnnotationRenderer {
	return &AnnotationRenderer{store: store, migrate: migrate}
}

// PreviewShape 进行中、尚未提交的临时形状（设备坐标）
type PreviewShape struct {
	Tool   Tool
	Color  RGB
	Start  Point   // 拖拽框的锚点
	End    Point   // 拖拽框的当前点
	Points []Point // 手绘工具累积的轨迹点
}

// RenderPage 绘制指定页面的全部注释
// clearFirst 为 true 时先用白色清空表面；记录按插入顺序绘制，
// 后提交的记录覆盖在先提交的之上
func (r *AnnotationRenderer) RenderPage(pageNum int, ctx cairo.Context, vp *Viewport, clearFirst bool) error {
	if ctx == nil {
		return fmt.Errorf("nil drawing context")
	}
	if vp == nil || vp.Width <= 0 || vp.Height <= 0 {
		return fmt.Errorf("invalid viewport")
	}

	if clearFirst {
		ctx.Save()
		ctx.SetSourceRGB(1, 1, 1)
		ctx.Paint()
		ctx.Restore()
	}

	for _, a := range r.store.ListForPage(pageNum) {
		a = r.migrate.Normalize(a, vp)
		r.renderAnnotation(ctx, a, vp)
	}
	return nil
}

// RenderPreview 重绘页面后叠加一个半透明的临时形状
// 临时形状只用于视觉反馈，不进入存储
func (r *AnnotationRenderer) RenderPreview(pageNum int, ctx cairo.Context, vp *Viewport, shape *PreviewShape) error {
	if err := r.RenderPage(pageNum, ctx, vp, true); err != nil {
		return err
	}
	if shape == nil {
		return nil
	}

	ctx.Save()
	defer ctx.Restore()

	c := shape.Color
	switch shape.Tool {
	case ToolDraw:
		if len(shape.Points) < 2 {
			break
		}
		ctx.SetSourceRGBA(c.R, c.G, c.B, previewOpacity)
		ctx.SetLineWidth(drawLineWidth)
		ctx.SetLineCap(cairo.LineCapRound)
		ctx.SetLineJoin(cairo.LineJoinRound)
		ctx.MoveTo(shape.Points[0].X, shape.Points[0].Y)
		for _, p := range shape.Points[1:] {
			ctx.LineTo(p.X, p.Y)
		}
		ctx.Stroke()

	default:
		x0, x1 := shape.Start.X, shape.End.X
		if x0 > x1 {
			x0, x1 = x1, x0
		}
		y0, y1 := shape.Start.Y, shape.End.Y
		if y0 > y1 {
			y0, y1 = y1, y0
		}
		ctx.SetSourceRGBA(c.R, c.G, c.B, highlightOpacity*previewOpacity)
		ctx.Rectangle(x0, y0, x1-x0, y1-y0)
		ctx.Fill()
	}
	return nil
}

// renderAnnotation 按类型分发绘制
func (r *AnnotationRenderer) renderAnnotation(ctx cairo.Context, a *Annotation, vp *Viewport) {
	debugPrintf("[Render] %s annotation %s on page %d\n", a.Type, a.ID, a.Page)

	switch a.Type {
	case AnnotationHighlight:
		r.renderHighlight(ctx, a, vp)
	case AnnotationUnderline:
		r.renderUnderline(ctx, a, vp)
	case AnnotationStrikethrough:
		r.renderStrikethrough(ctx, a, vp)
	case AnnotationDraw:
		r.renderDraw(ctx, a, vp)
	case AnnotationNote:
		r.renderNote(ctx, a, vp)
	}
}

// renderHighlight 半透明填充矩形
func (r *AnnotationRenderer) renderHighlight(ctx cairo.Context, a *Annotation, vp *Viewport) {
	ctx.Save()
	defer ctx.Restore()

	tl := ToDevice(Point{X: a.Coords.StartX, Y: a.Coords.StartY}, vp)
	br := ToDevice(Point{X: a.Coords.EndX, Y: a.Coords.EndY}, vp)

	ctx.SetSourceRGBA(a.Color.R, a.Color.G, a.Color.B, highlightOpacity)
	ctx.Rectangle(tl.X, tl.Y, br.X-tl.X, br.Y-tl.Y)
	ctx.Fill()
}

// renderUnderline 盒子底边的细条
// 固定红色，忽略记录中保存的颜色
func (r *AnnotationRenderer) renderUnderline(ctx cairo.Context, a *Annotation, vp *Viewport) {
	ctx.Save()
	defer ctx.Restore()

	tl := ToDevice(Point{X: a.Coords.StartX, Y: a.Coords.StartY}, vp)
	br := ToDevice(Point{X: a.Coords.EndX, Y: a.Coords.EndY}, vp)

	ctx.SetSourceRGBA(underlineColor.R, underlineColor.G, underlineColor.B, barOpacity)
	ctx.Rectangle(tl.X, br.Y-underlineBarHeight, br.X-tl.X, underlineBarHeight)
	ctx.Fill()
}

// renderStrikethrough 盒子垂直中线处的细条
func (r *AnnotationRenderer) renderStrikethrough(ctx cairo.Context, a *Annotation, vp *Viewport) {
	ctx.Save()
	defer ctx.Restore()

	tl := ToDevice(Point{X: a.Coords.StartX, Y: a.Coords.StartY}, vp)
	br := ToDevice(Point{X: a.Coords.EndX, Y: a.Coords.EndY}, vp)
	centerY := (tl.Y + br.Y) / 2

	ctx.SetSourceRGBA(a.Color.R, a.Color.G, a.Color.B, barOpacity)
	ctx.Rectangle(tl.X, centerY-strikeBarHeight/2, br.X-tl.X, strikeBarHeight)
	ctx.Fill()
}

// renderDraw 手绘折线
// 线宽为固定设备像素，不随缩放变化
func (r *AnnotationRenderer) renderDraw(ctx cairo.Context, a *Annotation, vp *Viewport) {
	if len(a.Path) < 2 {
		return
	}

	ctx.Save()
	defer ctx.Restore()

	ctx.SetSourceRGBA(a.Color.R, a.Color.G, a.Color.B, 1.0)
	ctx.SetLineWidth(drawLineWidth)
	ctx.SetLineCap(cairo.LineCapRound)
	ctx.SetLineJoin(cairo.LineJoinRound)

	first := ToDevice(a.Path[0], vp)
	ctx.MoveTo(first.X, first.Y)
	for _, np := range a.Path[1:] {
		p := ToDevice(np, vp)
		ctx.LineTo(p.X, p.Y)
	}
	ctx.Stroke()
}

// renderNote 固定 24×24 设备像素的便签方块
// 背景填充 + 边框 + 图标；内容非空时在右上角画一个标记点
func (r *AnnotationRenderer) renderNote(ctx cairo.Context, a *Annotation, vp *Viewport) {
	ctx.Save()
	defer ctx.Restore()

	tl := ToDevice(Point{X: a.Coords.StartX, Y: a.Coords.StartY}, vp)
	size := noteDeviceSize

	// 背景
	ctx.SetSourceRGBA(a.Color.R, a.Color.G, a.Color.B, 1.0)
	ctx.Rectangle(tl.X, tl.Y, size, size)
	ctx.FillPreserve()

	// 边框用加深的同色
	ctx.SetSourceRGB(a.Color.R*0.6, a.Color.G*0.6, a.Color.B*0.6)
	ctx.SetLineWidth(1.0)
	ctx.Stroke()

	// 图标：方块中央的圆圈
	cx := tl.X + size/2
	cy := tl.Y + size/2
	ctx.Arc(cx, cy, size/4, 0, 2*math.Pi)
	ctx.SetSourceRGB(a.Color.R*0.6, a.Color.G*0.6, a.Color.B*0.6)
	ctx.Stroke()

	// 内容标记点
	if a.Content != "" {
		ctx.Arc(tl.X+size-4, tl.Y+4, 2.5, 0, 2*math.Pi)
		ctx.SetSourceRGB(0.8, 0.2, 0.2)
		ctx.Fill()
	}
}
