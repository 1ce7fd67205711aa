package storage

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestDraftObjectKey(t *testing.T) {
	key := DraftObjectKey("d1", "PNG")
	if !strings.HasPrefix(key, "drafts/d1/") || !strings.HasSuffix(key, ".png") {
		t.Errorf("key = %q", key)
	}
	if DraftObjectKey("d1", ".pdf") == DraftObjectKey("d1", ".pdf") {
		t.Error("keys must be unique")
	}
}

func TestMemoryStorage(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStorage()

	if err := m.Put(ctx, "a", "image/png", []byte("one")); err != nil {
		t.Fatal(err)
	}
	if err := m.Put(ctx, "b", "image/png", []byte("two")); err != nil {
		t.Fatal(err)
	}
	got, err := m.Get(ctx, "a")
	if err != nil || string(got) != "one" {
		t.Errorf("Get = %q, %v", got, err)
	}

	if err := DeleteAll(ctx, m, []string{"a", "b", "missing"}); err != nil {
		t.Fatal(err)
	}
	if m.Len() != 0 {
		t.Errorf("Len = %d after DeleteAll", m.Len())
	}
	if _, err := m.Get(ctx, "a"); !errors.Is(err, ErrObjectNotFound) {
		t.Errorf("Get after delete = %v", err)
	}
}

func TestMemoryDeletePrefix(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStorage()
	for _, k := range []string{DraftObjectKey("d1", ".png"), DraftObjectKey("d1", ".pdf"), DraftObjectKey("d10", ".pdf")} {
		if err := m.Put(ctx, k, "", []byte("x")); err != nil {
			t.Fatal(err)
		}
	}

	n, err := m.DeletePrefix(ctx, DraftPrefix("d1"))
	if err != nil || n != 2 {
		t.Errorf("DeletePrefix = %d, %v; want 2", n, err)
	}
	if m.Len() != 1 {
		t.Errorf("Len = %d, want 1", m.Len())
	}
}
