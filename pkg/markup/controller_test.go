package markup

import (
	"math"
	"testing"
)

func newTestEngine() *Engine {
	return NewEngine(nil)
}

func TestDragCommitsNormalizedBox(t *testing.T) {
	e := newTestEngine()
	vp := &Viewport{Width: 1000, Height: 1000, Scale: 1.0}

	e.SetActiveTool(ToolHighlight)
	if err := e.Press(1, Point{X: 100, Y: 100}, nil, vp); err != nil {
		t.Fatalf("Press failed: %v", err)
	}
	a, err := e.Release(Point{X: 300, Y: 150}, nil, vp)
	if err != nil {
		t.Fatalf("Release failed: %v", err)
	}
	if a == nil {
		t.Fatalf("drag gesture did not commit a record")
	}

	want := Rect{StartX: 0.1, StartY: 0.1, EndX: 0.3, EndY: 0.15}
	if a.Coords != want {
		t.Errorf("committed coords %+v, expected %+v", a.Coords, want)
	}
	if a.Type != AnnotationHighlight {
		t.Errorf("committed type %v, expected highlight", a.Type)
	}
	if e.CountAll() != 1 {
		t.Errorf("store holds %d records, expected 1", e.CountAll())
	}
}

func TestDragEndpointsReordered(t *testing.T) {
	e := newTestEngine()
	vp := &Viewport{Width: 1000, Height: 1000, Scale: 1.0}

	// Dragging up and to the left still yields min/max ordered coords.
	e.SetActiveTool(ToolStrikethrough)
	e.Press(1, Point{X: 300, Y: 150}, nil, vp)
	a, _ := e.Release(Point{X: 100, Y: 100}, nil, vp)
	if a == nil {
		t.Fatalf("gesture did not commit")
	}

	want := Rect{StartX: 0.1, StartY: 0.1, EndX: 0.3, EndY: 0.15}
	if a.Coords != want {
		t.Errorf("reverse drag coords %+v, expected %+v", a.Coords, want)
	}
}

func TestZeroAreaBoxStillCommitted(t *testing.T) {
	e := newTestEngine()
	vp := &Viewport{Width: 1000, Height: 1000, Scale: 1.0}

	e.SetActiveTool(ToolUnderline)
	e.Press(1, Point{X: 200, Y: 200}, nil, vp)
	a, _ := e.Release(Point{X: 200, Y: 200}, nil, vp)

	if a == nil {
		t.Fatalf("zero-area box was rejected; only draw gestures have degeneracy checks")
	}
	if a.Type != AnnotationUnderline {
		t.Errorf("committed type %v, expected underline", a.Type)
	}
}

func TestDegenerateStrokeRejected(t *testing.T) {
	e := newTestEngine()
	vp := &Viewport{Width: 1000, Height: 1000, Scale: 1.0}

	e.SetActiveTool(ToolDraw)
	e.Press(1, Point{X: 100, Y: 100}, nil, vp)
	// Release without any movement: one accumulated point.
	a, err := e.Release(Point{X: 100, Y: 100}, nil, vp)
	if err != nil {
		t.Fatalf("Release failed: %v", err)
	}
	if a != nil {
		t.Errorf("degenerate stroke committed a record: %+v", a)
	}
	if e.CountAll() != 0 {
		t.Errorf("store holds %d records after degenerate stroke, expected 0", e.CountAll())
	}
}

func TestStrokeBoundingBox(t *testing.T) {
	e := newTestEngine()
	vp := &Viewport{Width: 1000, Height: 1000, Scale: 1.0}

	e.SetActiveTool(ToolDraw)
	e.Press(1, Point{X: 100, Y: 900}, nil, vp)
	e.Move(Point{X: 500, Y: 100}, nil, vp)
	e.Move(Point{X: 800, Y: 600}, nil, vp)
	a, _ := e.Release(Point{X: 800, Y: 600}, nil, vp)
	if a == nil {
		t.Fatalf("stroke did not commit")
	}

	tolerance := 1e-9
	want := Rect{StartX: 0.1, StartY: 0.1, EndX: 0.8, EndY: 0.9}
	if math.Abs(a.Coords.StartX-want.StartX) > tolerance ||
		math.Abs(a.Coords.StartY-want.StartY) > tolerance ||
		math.Abs(a.Coords.EndX-want.EndX) > tolerance ||
		math.Abs(a.Coords.EndY-want.EndY) > tolerance {
		t.Errorf("stroke bounding box %+v, expected %+v", a.Coords, want)
	}
	if len(a.Path) != 3 {
		t.Errorf("stroke path has %d points, expected 3", len(a.Path))
	}
}

func TestEraserDeletesTopmost(t *testing.T) {
	e := newTestEngine()
	vp := &Viewport{Width: 1000, Height: 1000, Scale: 1.0}

	e.SetActiveTool(ToolHighlight)
	e.Press(1, Point{X: 100, Y: 100}, nil, vp)
	lower, _ := e.Release(Point{X: 500, Y: 500}, nil, vp)
	e.Press(1, Point{X: 300, Y: 300}, nil, vp)
	upper, _ := e.Release(Point{X: 700, Y: 700}, nil, vp)

	e.SetActiveTool(ToolEraser)
	if err := e.Press(1, Point{X: 400, Y: 400}, nil, vp); err != nil {
		t.Fatalf("eraser press failed: %v", err)
	}

	if e.FindAt(1, Point{X: 600, Y: 600}, vp) != nil {
		t.Errorf("topmost record %q survived the eraser", upper.ID)
	}
	if got := e.FindAt(1, Point{X: 200, Y: 200}, vp); got == nil || got.ID != lower.ID {
		t.Errorf("lower record %q was deleted instead", lower.ID)
	}
	if e.CountAll() != 1 {
		t.Errorf("store holds %d records, expected 1", e.CountAll())
	}
}

func TestEraserMissIsNoOp(t *testing.T) {
	e := newTestEngine()
	vp := &Viewport{Width: 1000, Height: 1000, Scale: 1.0}

	e.SetActiveTool(ToolEraser)
	if err := e.Press(1, Point{X: 50, Y: 50}, nil, vp); err != nil {
		t.Errorf("eraser miss returned error: %v", err)
	}
}

func TestNoteDoublePress(t *testing.T) {
	e := newTestEngine()
	vp := &Viewport{Width: 1200, Height: 800, Scale: 1.0}

	e.SetActiveTool(ToolNote)
	a, err := e.DoublePress(1, Point{X: 600, Y: 400}, nil, vp)
	if err != nil {
		t.Fatalf("DoublePress failed: %v", err)
	}
	if a == nil || a.Type != AnnotationNote {
		t.Fatalf("double press did not commit a note: %+v", a)
	}

	// End coords derive from the fixed device size at the creation viewport.
	tolerance := 1e-9
	if math.Abs(a.Coords.EndX-(0.5+noteDeviceSize/vp.Width)) > tolerance {
		t.Errorf("note EndX = %f", a.Coords.EndX)
	}
	if math.Abs(a.Coords.EndY-(0.5+noteDeviceSize/vp.Height)) > tolerance {
		t.Errorf("note EndY = %f", a.Coords.EndY)
	}
	if a.Content != "" {
		t.Errorf("new note content = %q, expected empty", a.Content)
	}

	// Double press with any other tool is a no-op.
	e.SetActiveTool(ToolHighlight)
	if b, _ := e.DoublePress(1, Point{X: 100, Y: 100}, nil, vp); b != nil {
		t.Errorf("double press with highlight tool committed %+v", b)
	}
}

func TestToolSwitchAbandonsGesture(t *testing.T) {
	e := newTestEngine()
	vp := &Viewport{Width: 1000, Height: 1000, Scale: 1.0}

	e.SetActiveTool(ToolDraw)
	e.Press(1, Point{X: 100, Y: 100}, nil, vp)
	e.Move(Point{X: 200, Y: 200}, nil, vp)

	// Switching tools mid-stroke abandons the gesture.
	e.SetActiveTool(ToolHighlight)
	a, _ := e.Release(Point{X: 300, Y: 300}, nil, vp)
	if a != nil {
		t.Errorf("abandoned gesture still committed %+v", a)
	}
	if e.CountAll() != 0 {
		t.Errorf("store holds %d records after abandoned gesture", e.CountAll())
	}
}

func TestSelectPressCreatesNothing(t *testing.T) {
	e := newTestEngine()
	vp := &Viewport{Width: 1000, Height: 1000, Scale: 1.0}

	e.SetActiveTool(ToolSelect)
	e.Press(1, Point{X: 100, Y: 100}, nil, vp)
	if a, _ := e.Release(Point{X: 300, Y: 300}, nil, vp); a != nil {
		t.Errorf("select tool committed a record: %+v", a)
	}
}

func TestSetNoteContent(t *testing.T) {
	e := newTestEngine()
	vp := &Viewport{Width: 1000, Height: 1000, Scale: 1.0}

	e.SetActiveTool(ToolNote)
	note, _ := e.DoublePress(1, Point{X: 500, Y: 500}, nil, vp)
	created := note.CreatedAt

	if !e.SetNoteContent(note.ID, "check this paragraph") {
		t.Fatalf("SetNoteContent returned false for existing note")
	}
	if note.Content != "check this paragraph" {
		t.Errorf("content not updated: %q", note.Content)
	}
	if note.ModifiedAt.IsZero() {
		t.Errorf("ModifiedAt not set on content edit")
	}
	if !note.CreatedAt.Equal(created) {
		t.Errorf("CreatedAt changed on content edit")
	}

	// Non-note records reject content edits.
	e.SetActiveTool(ToolHighlight)
	e.Press(1, Point{X: 100, Y: 100}, nil, vp)
	box, _ := e.Release(Point{X: 200, Y: 200}, nil, vp)
	if e.SetNoteContent(box.ID, "nope") {
		t.Errorf("SetNoteContent accepted a highlight record")
	}
	if e.SetNoteContent("mk-404", "nope") {
		t.Errorf("SetNoteContent accepted an unknown ID")
	}
}

func TestDeleteTwiceViaEngine(t *testing.T) {
	e := newTestEngine()
	vp := &Viewport{Width: 1000, Height: 1000, Scale: 1.0}

	e.SetActiveTool(ToolHighlight)
	e.Press(1, Point{X: 100, Y: 100}, nil, vp)
	a, _ := e.Release(Point{X: 300, Y: 300}, nil, vp)

	if !e.Delete(a.ID) {
		t.Errorf("first Delete returned false")
	}
	if e.Delete(a.ID) {
		t.Errorf("second Delete returned true")
	}
}
