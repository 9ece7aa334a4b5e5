package markup

import "testing"

func newTestAnnotation(annType AnnotationType) *Annotation {
	return &Annotation{
		Type:   annType,
		Color:  defaultColor,
		Coords: Rect{StartX: 0.1, StartY: 0.1, EndX: 0.3, EndY: 0.2},
	}
}

func TestStoreAddAssignsUniqueIDs(t *testing.T) {
	store := NewAnnotationStore()

	a := store.Add(1, newTestAnnotation(AnnotationHighlight))
	b := store.Add(1, newTestAnnotation(AnnotationHighlight))

	if a.ID == "" || b.ID == "" {
		t.Fatalf("store did not assign IDs: %q, %q", a.ID, b.ID)
	}
	if a.ID == b.ID {
		t.Errorf("store assigned duplicate ID %q", a.ID)
	}
	if a.Page != 1 {
		t.Errorf("Add did not set page, got %d", a.Page)
	}
}

func TestStoreInsertionOrder(t *testing.T) {
	store := NewAnnotationStore()

	first := store.Add(2, newTestAnnotation(AnnotationHighlight))
	second := store.Add(2, newTestAnnotation(AnnotationUnderline))

	list := store.ListForPage(2)
	if len(list) != 2 {
		t.Fatalf("expected 2 annotations, got %d", len(list))
	}
	if list[0].ID != first.ID || list[1].ID != second.ID {
		t.Errorf("insertion order not preserved: %q, %q", list[0].ID, list[1].ID)
	}
}

func TestStoreRemoveTwice(t *testing.T) {
	store := NewAnnotationStore()
	a := store.Add(1, newTestAnnotation(AnnotationHighlight))

	if !store.Remove(a.ID) {
		t.Errorf("first Remove returned false")
	}
	if store.Remove(a.ID) {
		t.Errorf("second Remove returned true for already removed ID")
	}
	if store.CountAll() != 0 {
		t.Errorf("expected empty store, got %d records", store.CountAll())
	}
}

func TestStoreRemoveUnknownID(t *testing.T) {
	store := NewAnnotationStore()
	if store.Remove("mk-999") {
		t.Errorf("Remove of unknown ID returned true")
	}
}

func TestStoreCounts(t *testing.T) {
	store := NewAnnotationStore()
	store.Add(1, newTestAnnotation(AnnotationHighlight))
	store.Add(1, newTestAnnotation(AnnotationHighlight))
	store.Add(3, newTestAnnotation(AnnotationNote))

	if got := store.CountAll(); got != 3 {
		t.Errorf("CountAll = %d, expected 3", got)
	}

	byType := store.CountByType()
	if byType[AnnotationHighlight] != 2 || byType[AnnotationNote] != 1 {
		t.Errorf("CountByType incorrect: %v", byType)
	}

	byPage := store.CountByPage()
	if byPage[1] != 2 || byPage[3] != 1 {
		t.Errorf("CountByPage incorrect: %v", byPage)
	}
	if _, present := byPage[2]; present {
		t.Errorf("empty page materialized in CountByPage: %v", byPage)
	}
}

func TestStoreListForEmptyPage(t *testing.T) {
	store := NewAnnotationStore()
	if list := store.ListForPage(7); len(list) != 0 {
		t.Errorf("expected empty list for untouched page, got %d entries", len(list))
	}
}

func TestStoreClear(t *testing.T) {
	store := NewAnnotationStore()
	store.Add(1, newTestAnnotation(AnnotationHighlight))
	store.Add(2, newTestAnnotation(AnnotationDraw))

	store.ClearPage(1)
	if store.CountAll() != 1 {
		t.Errorf("ClearPage(1) left %d records, expected 1", store.CountAll())
	}

	store.ClearAll()
	if store.CountAll() != 0 {
		t.Errorf("ClearAll left %d records", store.CountAll())
	}
}

func TestStoreImportedIDsDoNotCollide(t *testing.T) {
	store := NewAnnotationStore()
	store.Add(1, &Annotation{ID: "mk-5", Type: AnnotationHighlight})

	a := store.Add(1, newTestAnnotation(AnnotationHighlight))
	if a.ID == "mk-5" {
		t.Errorf("newly assigned ID collides with imported ID")
	}
}
