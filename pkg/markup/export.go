package markup

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// ExportedAnnotation 导出记录（JSON 形式）
type ExportedAnnotation struct {
	ID         string       `json:"id"`
	Type       string       `json:"type"`
	Color      [3]float64   `json:"color"`
	StartX     float64      `json:"startX"`
	StartY     float64      `json:"startY"`
	EndX       float64      `json:"endX"`
	EndY       float64      `json:"endY"`
	Path       [][2]float64 `json:"path,omitempty"`
	Content    string       `json:"content,omitempty"`
	Page       int          `json:"page"`
	CreatedAt  time.Time    `json:"createdAt"`
	ModifiedAt *time.Time   `json:"modifiedAt,omitempty"`
}

// exportSchema 导入负载的结构校验
// 只校验结构形状；坐标空间问题交给读取时的惰性迁移处理
const exportSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "array",
  "items": {
    "type": "object",
    "required": ["id", "type", "startX", "startY", "endX", "endY", "page"],
    "properties": {
      "id": {"type": "string", "minLength": 1},
      "type": {"enum": ["highlight", "underline", "strikethrough", "draw", "note"]},
      "color": {
        "type": "array",
        "items": {"type": "number"},
        "minItems": 3,
        "maxItems": 3
      },
      "startX": {"type": "number"},
      "startY": {"type": "number"},
      "endX": {"type": "number"},
      "endY": {"type": "number"},
      "path": {
        "type": "array",
        "items": {
          "type": "array",
          "items": {"type": "number"},
          "minItems": 2,
          "maxItems": 2
        },
        "minItems": 2
      },
      "content": {"type": "string"},
      "page": {"type": "integer", "minimum": 1},
      "createdAt": {"type": "string"},
      "modifiedAt": {"type": "string"}
    }
  }
}`

var importSchema = mustCompileSchema()

func mustCompileSchema() *jsonschema.Schema {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader([]byte(exportSchema)))
	if err != nil {
		panic(fmt.Sprintf("markup: invalid export schema: %v", err))
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("markup-export.json", doc); err != nil {
		panic(fmt.Sprintf("markup: failed to add export schema: %v", err))
	}
	schema, err := compiler.Compile("markup-export.json")
	if err != nil {
		panic(fmt.Sprintf("markup: failed to compile export schema: %v", err))
	}
	return schema
}

// ExportAll 按页码升序、页内插入顺序导出全部记录
func (e *Engine) ExportAll() []*ExportedAnnotation {
	records := e.store.listAll()
	out := make([]*ExportedAnnotation, 0, len(records))
	for _, a := range records {
		out = append(out, exportAnnotation(a))
	}
	return out
}

// ExportJSON 导出为 JSON 字节序列
func (e *Engine) ExportJSON() ([]byte, error) {
	data, err := json.MarshalIndent(e.ExportAll(), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode annotations: %w", err)
	}
	return data, nil
}

// ImportAll 导入记录序列
// 整体生效：任何一条记录非法时拒绝全部导入，存储保持不变
func (e *Engine) ImportAll(records []*ExportedAnnotation) error {
	converted := make([]*Annotation, 0, len(records))
	for i, rec := range records {
		a, err := importAnnotation(rec)
		if err != nil {
			return fmt.Errorf("record %d: %w", i, err)
		}
		converted = append(converted, a)
	}
	for _, a := range converted {
		e.store.Add(a.Page, a)
	}
	GetLogger().Info("Imported %d annotations", len(converted))
	return nil
}

// ImportJSON 导入 JSON 字节序列
// 先按模式整体校验，再转换写入；任何校验失败都拒绝整个负载
func (e *Engine) ImportJSON(data []byte) error {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("invalid import payload: %w", err)
	}
	if err := importSchema.Validate(doc); err != nil {
		return fmt.Errorf("import payload rejected: %w", err)
	}

	var records []*ExportedAnnotation
	if err := json.Unmarshal(data, &records); err != nil {
		return fmt.Errorf("failed to decode annotations: %w", err)
	}
	return e.ImportAll(records)
}

// exportAnnotation 内部记录转导出形式
func exportAnnotation(a *Annotation) *ExportedAnnotation {
	rec := &ExportedAnnotation{
		ID:        a.ID,
		Type:      a.Type.String(),
		Color:     [3]float64{a.Color.R, a.Color.G, a.Color.B},
		StartX:    a.Coords.StartX,
		StartY:    a.Coords.StartY,
		EndX:      a.Coords.EndX,
		EndY:      a.Coords.EndY,
		Content:   a.Content,
		Page:      a.Page,
		CreatedAt: a.CreatedAt,
	}
	if len(a.Path) > 0 {
		rec.Path = make([][2]float64, len(a.Path))
		for i, p := range a.Path {
			rec.Path[i] = [2]float64{p.X, p.Y}
		}
	}
	if !a.ModifiedAt.IsZero() {
		t := a.ModifiedAt
		rec.ModifiedAt = &t
	}
	return rec
}

// importAnnotation 导出形式转内部记录
func importAnnotation(rec *ExportedAnnotation) (*Annotation, error) {
	annType, ok := ParseAnnotationType(rec.Type)
	if !ok {
		return nil, fmt.Errorf("unknown annotation type %q", rec.Type)
	}
	if rec.ID == "" {
		return nil, fmt.Errorf("missing annotation id")
	}
	if rec.Page < 1 {
		return nil, fmt.Errorf("invalid page number %d", rec.Page)
	}
	if annType == AnnotationDraw && len(rec.Path) < 2 {
		return nil, fmt.Errorf("draw annotation %s has %d path points", rec.ID, len(rec.Path))
	}

	a := &Annotation{
		ID:        rec.ID,
		Type:      annType,
		Color:     RGB{R: rec.Color[0], G: rec.Color[1], B: rec.Color[2]},
		Coords:    Rect{StartX: rec.StartX, StartY: rec.StartY, EndX: rec.EndX, EndY: rec.EndY},
		Content:   rec.Content,
		Page:      rec.Page,
		CreatedAt: rec.CreatedAt,
	}
	if len(rec.Path) > 0 {
		a.Path = make([]Point, len(rec.Path))
		for i, p := range rec.Path {
			a.Path[i] = Point{X: p[0], Y: p[1]}
		}
	}
	if rec.ModifiedAt != nil {
		a.ModifiedAt = *rec.ModifiedAt
	}
	return a, nil
}
