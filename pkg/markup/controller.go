package markup

import (
	"time"

	"github.com/novvoo/go-cairo/pkg/cairo"
)

// Tool 交互工具
type Tool int

const (
	ToolSelect Tool = iota
	ToolHighlight
	ToolUnderline
	ToolStrikethrough
	ToolNote
	ToolDraw
	ToolEraser
)

// String 返回工具名称
func (t Tool) String() string {
	switch t {
	case ToolSelect:
		return "select"
	case ToolHighlight:
		return "highlight"
	case ToolUnderline:
		return "underline"
	case ToolStrikethrough:
		return "strikethrough"
	case ToolNote:
		return "note"
	case ToolDraw:
		return "draw"
	case ToolEraser:
		return "eraser"
	default:
		return "unknown"
	}
}

// controllerState 状态机状态
type controllerState int

const (
	stateIdle controllerState = iota
	stateDragging
	stateStroking
)

// InteractionController 工具状态机
// 消费指针事件，驱动预览渲染，手势完成时向存储提交记录，
// 或在橡皮擦模式下执行命中删除
type InteractionController struct {
	store    *AnnotationStore
	hits     *HitTester
	renderer *AnnotationRenderer

	tool  Tool
	color RGB

	state        controllerState
	page         int
	anchor       Point
	strokePoints []Point
}

// NewInteractionController 创建控制器，初始工具为选择，初始状态空闲
func NewInteractionController(store *AnnotationStore, hits *HitTester, renderer *AnnotationRenderer) *InteractionController {
	return &InteractionController{
		store:    store,
		hits:     hits,
		renderer: renderer,
		tool:     ToolSelect,
		color:    defaultColor,
	}
}

// SetActiveTool 切换工具
// 手势进行中切换工具会丢弃该手势（不提交）
func (c *InteractionController) SetActiveTool(tool Tool) {
	if c.state != stateIdle {
		debugPrintf("[Controller] Tool switch during gesture, abandoning\n")
		c.reset()
	}
	c.tool = tool
}

// SetActiveColor 设置当前工具颜色
func (c *InteractionController) SetActiveColor(color RGB) {
	c.color = color
}

// ActiveTool 返回当前工具
func (c *InteractionController) ActiveTool() Tool {
	return c.tool
}

// reset 回到空闲状态
func (c *InteractionController) reset() {
	c.state = stateIdle
	c.strokePoints = nil
}

// HandlePress 处理按下事件，p 为设备坐标
// ctx 为 nil 时跳过重绘（纯逻辑调用）
func (c *InteractionController) HandlePress(pageNum int, p Point, ctx cairo.Context, vp *Viewport) error {
	switch c.tool {
	case ToolHighlight, ToolUnderline, ToolStrikethrough:
		c.state = stateDragging
		c.page = pageNum
		c.anchor = p

	case ToolDraw:
		c.state = stateStroking
		c.page = pageNum
		c.strokePoints = []Point{p}

	case ToolEraser:
		a := c.hits.FindAt(pageNum, p, vp)
		if a == nil {
			debugPrintf("[Controller] Eraser press at (%.1f, %.1f): nothing there\n", p.X, p.Y)
			return nil
		}
		c.store.Remove(a.ID)
		if ctx != nil {
			return c.renderer.RenderPage(pageNum, ctx, vp, true)
		}

	case ToolSelect, ToolNote:
		// 选择工具留给外部的便签编辑；便签创建走双击
	}
	return nil
}

// HandleMove 处理移动事件，拖拽/描线时更新预览
func (c *InteractionController) HandleMove(p Point, ctx cairo.Context, vp *Viewport) error {
	switch c.state {
	case stateDragging:
		if ctx == nil {
			return nil
		}
		shape := &PreviewShape{Tool: c.tool, Color: c.color, Start: c.anchor, End: p}
		return c.renderer.RenderPreview(c.page, ctx, vp, shape)

	case stateStroking:
		c.strokePoints = append(c.strokePoints, p)
		if ctx == nil {
			return nil
		}
		shape := &PreviewShape{Tool: ToolDraw, Color: c.color, Points: c.strokePoints}
		return c.renderer.RenderPreview(c.page, ctx, vp, shape)
	}
	return nil
}

// HandleRelease 处理抬起事件，提交手势
// 返回新建的记录；手势被丢弃或无手势时返回 nil
func (c *InteractionController) HandleRelease(p Point, ctx cairo.Context, vp *Viewport) (*Annotation, error) {
	switch c.state {
	case stateDragging:
		tool := c.tool
		pageNum := c.page
		anchor := c.anchor
		c.reset()

		// 零面积的框也照常提交，只有手绘手势做退化检查
		a := &Annotation{
			Type:      boxTypeForTool(tool),
			Color:     c.color,
			Coords:    newNormalizedRect(ToNormalized(anchor, vp), ToNormalized(p, vp)),
			CreatedAt: time.Now(),
		}
		c.store.Add(pageNum, a)
		if ctx != nil {
			if err := c.renderer.RenderPage(pageNum, ctx, vp, true); err != nil {
				return a, err
			}
		}
		return a, nil

	case stateStroking:
		pageNum := c.page
		points := c.strokePoints
		c.reset()

		if len(points) < 2 {
			// 退化手势静默丢弃
			debugPrintf("[Controller] Discarding degenerate stroke (%d point)\n", len(points))
			return nil, nil
		}

		path := make([]Point, len(points))
		for i, dp := range points {
			path[i] = ToNormalized(dp, vp)
		}
		minX, minY := path[0].X, path[0].Y
		maxX, maxY := path[0].X, path[0].Y
		for _, np := range path[1:] {
			if np.X < minX {
				minX = np.X
			}
			if np.X > maxX {
				maxX = np.X
			}
			if np.Y < minY {
				minY = np.Y
			}
			if np.Y > maxY {
				maxY = np.Y
			}
		}

		a := &Annotation{
			Type:      AnnotationDraw,
			Color:     c.color,
			Coords:    Rect{StartX: minX, StartY: minY, EndX: maxX, EndY: maxY},
			Path:      path,
			CreatedAt: time.Now(),
		}
		c.store.Add(pageNum, a)
		if ctx != nil {
			if err := c.renderer.RenderPage(pageNum, ctx, vp, true); err != nil {
				return a, err
			}
		}
		return a, nil
	}
	return nil, nil
}

// HandleDoublePress 处理双击事件
// 便签工具下立即在按点提交一条便签记录
func (c *InteractionController) HandleDoublePress(pageNum int, p Point, ctx cairo.Context, vp *Viewport) (*Annotation, error) {
	if c.tool != ToolNote {
		return nil, nil
	}

	start := ToNormalized(p, vp)
	// 便签的结束坐标由创建时视口下的固定设备边长推出
	a := &Annotation{
		Type:  AnnotationNote,
		Color: c.color,
		Coords: Rect{
			StartX: start.X,
			StartY: start.Y,
			EndX:   start.X + noteDeviceSize/vp.Width,
			EndY:   start.Y + noteDeviceSize/vp.Height,
		},
		CreatedAt: time.Now(),
	}
	c.store.Add(pageNum, a)
	if ctx != nil {
		if err := c.renderer.RenderPage(pageNum, ctx, vp, true); err != nil {
			return a, err
		}
	}
	return a, nil
}

// HandleHover 橡皮擦悬停时的视觉反馈，不改动任何状态
func (c *InteractionController) HandleHover(pageNum int, p Point, ctx cairo.Context, vp *Viewport) error {
	if c.tool != ToolEraser || ctx == nil {
		return nil
	}

	a := c.hits.FindAt(pageNum, p, vp)
	if a == nil {
		return c.renderer.RenderPage(pageNum, ctx, vp, true)
	}

	// 命中的记录用灰色框提示
	tl := ToDevice(Point{X: a.Coords.StartX, Y: a.Coords.StartY}, vp)
	br := ToDevice(Point{X: a.Coords.EndX, Y: a.Coords.EndY}, vp)
	shape := &PreviewShape{
		Tool:  ToolHighlight,
		Color: RGB{R: 0.5, G: 0.5, B: 0.5},
		Start: tl,
		End:   br,
	}
	return c.renderer.RenderPreview(pageNum, ctx, vp, shape)
}

// boxTypeForTool 拖拽框工具对应的注释类型
func boxTypeForTool(tool Tool) AnnotationType {
	switch tool {
	case ToolUnderline:
		return AnnotationUnderline
	case ToolStrikethrough:
		return AnnotationStrikethrough
	default:
		return AnnotationHighlight
	}
}
