package markup

import (
	"fmt"
	"strings"
	"time"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

// PDF 内嵌注释加载
//
// 打开文档时把页面字典里已有的 /Annots 条目转成引擎记录，
// 让文档自带的标注和用户新建的标注走同一套渲染和命中测试。
// PDF 坐标系原点在左下角、Y 轴向上、单位为点；这里统一换算成
// 相对页面的归一化坐标（左上角原点、Y 轴向下）。

// LoadFromPDF 读取 PDF 的内嵌注释并写入存储
// 返回导入的记录条数；不认识的注释子类型跳过并记录调试日志
func (e *Engine) LoadFromPDF(pdfPath string) (int, error) {
	ctx, err := api.ReadContextFile(pdfPath)
	if err != nil {
		return 0, fmt.Errorf("failed to read PDF context: %w", err)
	}

	pageCount, err := api.PageCountFile(pdfPath)
	if err != nil {
		return 0, fmt.Errorf("failed to get page count: %w", err)
	}

	pageDims, err := api.PageDimsFile(pdfPath)
	if err != nil {
		return 0, fmt.Errorf("failed to get page dimensions: %w", err)
	}

	total := 0
	for pageNum := 1; pageNum <= pageCount; pageNum++ {
		// 默认 Letter 尺寸
		pageW, pageH := 612.0, 792.0
		if pageNum <= len(pageDims) {
			pageW = pageDims[pageNum-1].Width
			pageH = pageDims[pageNum-1].Height
		}

		pageDict, _, _, err := ctx.PageDict(pageNum, false)
		if err != nil {
			debugPrintf("[Loader] Failed to get page dict for page %d: %v\n", pageNum, err)
			continue
		}

		records, err := extractPageAnnotations(ctx, pageDict, pageW, pageH)
		if err != nil {
			return total, fmt.Errorf("page %d: %w", pageNum, err)
		}
		for _, a := range records {
			e.store.Add(pageNum, a)
			total++
		}
	}

	GetLogger().Info("Loaded %d embedded annotations from %s", total, pdfPath)
	return total, nil
}

// PageViewport 按 DPI 构造某一页的渲染视口
// PDF 页面尺寸单位为点（72 点 = 1 英寸）
func PageViewport(pdfPath string, pageNum int, dpi float64) (*Viewport, error) {
	if dpi == 0 {
		dpi = 150
	}

	pageDims, err := api.PageDimsFile(pdfPath)
	if err != nil {
		return nil, fmt.Errorf("failed to get page dimensions: %w", err)
	}
	if pageNum < 1 || pageNum > len(pageDims) {
		return nil, fmt.Errorf("invalid page number: %d (total pages: %d)", pageNum, len(pageDims))
	}

	scale := dpi / 72.0
	dim := pageDims[pageNum-1]
	return &Viewport{
		Width:  dim.Width * scale,
		Height: dim.Height * scale,
		Scale:  scale,
	}, nil
}

// extractPageAnnotations 从页面字典提取注释记录
func extractPageAnnotations(ctx *model.Context, pageDict types.Dict, pageW, pageH float64) ([]*Annotation, error) {
	annotsObj, found := pageDict.Find("Annots")
	if !found {
		return nil, nil // 没有注释
	}

	if indRef, ok := annotsObj.(types.IndirectRef); ok {
		derefObj, err := ctx.Dereference(indRef)
		if err != nil {
			return nil, fmt.Errorf("failed to dereference Annots: %w", err)
		}
		annotsObj = derefObj
	}

	annotsArray, ok := annotsObj.(types.Array)
	if !ok {
		return nil, fmt.Errorf("annots is not an array")
	}

	var records []*Annotation
	for _, annotObj := range annotsArray {
		if indRef, ok := annotObj.(types.IndirectRef); ok {
			derefObj, err := ctx.Dereference(indRef)
			if err != nil {
				debugPrintf("[Loader] Warning: failed to dereference annotation: %v\n", err)
				continue
			}
			annotObj = derefObj
		}

		annotDict, ok := annotObj.(types.Dict)
		if !ok {
			debugPrintf("[Loader] Warning: annotation is not a dictionary\n")
			continue
		}

		a := convertAnnotationDict(ctx, annotDict, pageW, pageH)
		if a != nil {
			records = append(records, a)
		}
	}
	return records, nil
}

// convertAnnotationDict 把单个注释字典转成引擎记录
// 子类型不在支持集合内时返回 nil
func convertAnnotationDict(ctx *model.Context, annotDict types.Dict, pageW, pageH float64) *Annotation {
	subtype := ""
	if obj, found := annotDict.Find("Subtype"); found {
		if name, ok := obj.(types.Name); ok {
			subtype = strings.TrimPrefix(name.String(), "/")
		}
	}

	var annType AnnotationType
	switch subtype {
	case "Highlight":
		annType = AnnotationHighlight
	case "Underline":
		annType = AnnotationUnderline
	case "StrikeOut":
		annType = AnnotationStrikethrough
	case "Ink":
		annType = AnnotationDraw
	case "Text":
		annType = AnnotationNote
	default:
		debugPrintf("[Loader] Skipping unsupported annotation subtype: %s\n", subtype)
		return nil
	}

	a := &Annotation{
		Type:      annType,
		Color:     defaultColor,
		CreatedAt: time.Now(),
	}

	// 矩形：PDF 坐标 [x1 y1 x2 y2]，换算并翻转 Y 轴
	if obj, found := annotDict.Find("Rect"); found {
		if arr, ok := obj.(types.Array); ok && len(arr) >= 4 {
			var rect [4]float64
			for i := 0; i < 4; i++ {
				rect[i] = numberValue(arr[i])
			}
			a.Coords = newNormalizedRect(
				Point{X: rect[0] / pageW, Y: (pageH - rect[3]) / pageH},
				Point{X: rect[2] / pageW, Y: (pageH - rect[1]) / pageH},
			)
		}
	}

	if obj, found := annotDict.Find("Contents"); found {
		if str, ok := obj.(types.StringLiteral); ok {
			a.Content = str.String()
		}
	}

	if obj, found := annotDict.Find("C"); found {
		if arr, ok := obj.(types.Array); ok {
			switch len(arr) {
			case 3:
				a.Color = RGB{R: numberValue(arr[0]), G: numberValue(arr[1]), B: numberValue(arr[2])}
			case 1:
				g := numberValue(arr[0])
				a.Color = RGB{R: g, G: g, B: g}
			}
		}
	}

	// 手绘注释：InkList 的第一条笔画作为折线
	if annType == AnnotationDraw {
		a.Path = extractInkPath(ctx, annotDict, pageW, pageH)
		if len(a.Path) < 2 {
			debugPrintf("[Loader] Skipping Ink annotation with degenerate path\n")
			return nil
		}
	}

	return a
}

// extractInkPath 提取 Ink 注释的第一条笔画并归一化
func extractInkPath(ctx *model.Context, annotDict types.Dict, pageW, pageH float64) []Point {
	obj, found := annotDict.Find("InkList")
	if !found {
		return nil
	}
	if indRef, ok := obj.(types.IndirectRef); ok {
		derefObj, err := ctx.Dereference(indRef)
		if err != nil {
			return nil
		}
		obj = derefObj
	}

	inkList, ok := obj.(types.Array)
	if !ok || len(inkList) == 0 {
		return nil
	}
	stroke, ok := inkList[0].(types.Array)
	if !ok {
		return nil
	}

	var path []Point
	for i := 0; i+1 < len(stroke); i += 2 {
		x := numberValue(stroke[i])
		y := numberValue(stroke[i+1])
		path = append(path, Point{X: x / pageW, Y: (pageH - y) / pageH})
	}
	return path
}

// numberValue 读取 pdfcpu 数值对象
func numberValue(obj types.Object) float64 {
	switch v := obj.(type) {
	case types.Float:
		return float64(v)
	case types.Integer:
		return float64(v)
	default:
		return 0
	}
}
