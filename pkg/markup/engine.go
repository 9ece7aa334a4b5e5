package markup

import (
	"time"

	"github.com/novvoo/go-cairo/pkg/cairo"
)

// Engine 注释引擎门面
// 持有一份存储并把渲染器、命中测试器、迁移适配器和交互控制器
// 装配在一起。每个 Engine 对应一个文档，互不共享状态。
type Engine struct {
	store      *AnnotationStore
	migrate    *MigrationAdapter
	renderer   *AnnotationRenderer
	hits       *HitTester
	controller *InteractionController
}

// EngineOptions 引擎配置
type EngineOptions struct {
	DefaultColor *RGB // 初始工具颜色，nil 表示黄色
}

// NewEngine 创建注释引擎
func NewEngine(opts *EngineOptions) *Engine {
	store := NewAnnotationStore()
	migrate := NewMigrationAdapter()
	renderer := NewAnnotationRenderer(store, migrate)
	hits := NewHitTester(store, migrate)
	controller := NewInteractionController(store, hits, renderer)

	if opts != nil && opts.DefaultColor != nil {
		controller.SetActiveColor(*opts.DefaultColor)
	}

	return &Engine{
		store:      store,
		migrate:    migrate,
		renderer:   renderer,
		hits:       hits,
		controller: controller,
	}
}

// Store 返回底层存储（只应用于读取）
func (e *Engine) Store() *AnnotationStore {
	return e.store
}

// SetActiveTool 切换当前工具
func (e *Engine) SetActiveTool(tool Tool) {
	e.controller.SetActiveTool(tool)
}

// SetActiveColor 设置当前工具颜色
func (e *Engine) SetActiveColor(color RGB) {
	e.controller.SetActiveColor(color)
}

// ActiveTool 返回当前工具
func (e *Engine) ActiveTool() Tool {
	return e.controller.ActiveTool()
}

// Press 指针按下
func (e *Engine) Press(pageNum int, p Point, ctx cairo.Context, vp *Viewport) error {
	return e.controller.HandlePress(pageNum, p, ctx, vp)
}

// Move 指针移动
func (e *Engine) Move(p Point, ctx cairo.Context, vp *Viewport) error {
	return e.controller.HandleMove(p, ctx, vp)
}

// Release 指针抬起
func (e *Engine) Release(p Point, ctx cairo.Context, vp *Viewport) (*Annotation, error) {
	return e.controller.HandleRelease(p, ctx, vp)
}

// DoublePress 指针双击
func (e *Engine) DoublePress(pageNum int, p Point, ctx cairo.Context, vp *Viewport) (*Annotation, error) {
	return e.controller.HandleDoublePress(pageNum, p, ctx, vp)
}

// Hover 指针悬停
func (e *Engine) Hover(pageNum int, p Point, ctx cairo.Context, vp *Viewport) error {
	return e.controller.HandleHover(pageNum, p, ctx, vp)
}

// RenderPage 绘制页面的全部注释
func (e *Engine) RenderPage(pageNum int, ctx cairo.Context, vp *Viewport) error {
	return e.renderer.RenderPage(pageNum, ctx, vp, true)
}

// RenderPreview 绘制页面并叠加临时形状
func (e *Engine) RenderPreview(pageNum int, ctx cairo.Context, vp *Viewport, shape *PreviewShape) error {
	return e.renderer.RenderPreview(pageNum, ctx, vp, shape)
}

// FindAt 返回页面上覆盖设备点 p 的注释，没有则返回 nil
func (e *Engine) FindAt(pageNum int, p Point, vp *Viewport) *Annotation {
	return e.hits.FindAt(pageNum, p, vp)
}

// Delete 按 ID 删除记录，返回是否删除成功
func (e *Engine) Delete(id string) bool {
	return e.store.Remove(id)
}

// ClearPage 清空指定页面
func (e *Engine) ClearPage(pageNum int) {
	e.store.ClearPage(pageNum)
}

// ClearAll 清空整个文档的注释
func (e *Engine) ClearAll() {
	e.store.ClearAll()
}

// CountAll 记录总数
func (e *Engine) CountAll() int {
	return e.store.CountAll()
}

// CountByType 按类型统计
func (e *Engine) CountByType() map[AnnotationType]int {
	return e.store.CountByType()
}

// CountByPage 按页面统计
func (e *Engine) CountByPage() map[int]int {
	return e.store.CountByPage()
}

// SetNoteContent 编辑便签内容
// 更新 ModifiedAt，不改动 CreatedAt；非便签记录返回 false
func (e *Engine) SetNoteContent(id, content string) bool {
	a := e.store.Get(id)
	if a == nil || a.Type != AnnotationNote {
		return false
	}
	a.Content = content
	a.ModifiedAt = time.Now()
	return true
}
