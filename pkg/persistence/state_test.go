package persistence

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestRendererStateStore(t *testing.T) {
	t.Run("SaveAndLoadEmpty", func(t *testing.T) {
		dir := t.TempDir()
		store := NewRendererStateStore(filepath.Join(dir, "state.json"))

		if err := store.Save(&RendererState{}); err != nil {
			t.Fatalf("Save() error = %v", err)
		}

		got, err := store.Load()
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if got.Version != StateVersion {
			t.Errorf("Version = %d, want %d", got.Version, StateVersion)
		}
		if got.SavedAt.IsZero() {
			t.Error("SavedAt not set")
		}
	})

	t.Run("LoadNonExistent", func(t *testing.T) {
		dir := t.TempDir()
		store := NewRendererStateStore(filepath.Join(dir, "nonexistent.json"))

		got, err := store.Load()
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}

		// Should return nil (empty state) for non-existent file
		if got != nil {
			t.Errorf("Load() = %v, want nil for non-existent file", got)
		}
	})

	t.Run("LoadCorrupt", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "state.json")
		if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
			t.Fatal(err)
		}

		if _, err := NewRendererStateStore(path).Load(); err == nil {
			t.Error("Load() expected error for corrupt file")
		}
	})

	t.Run("CreatesParentDirectory", func(t *testing.T) {
		dir := t.TempDir()
		store := NewRendererStateStore(filepath.Join(dir, "a", "b", "state.json"))

		if err := store.Save(&RendererState{}); err != nil {
			t.Fatalf("Save() error = %v", err)
		}
		if _, err := os.Stat(store.Path()); err != nil {
			t.Errorf("state file not created: %v", err)
		}
	})

	t.Run("RememberRoundTrip", func(t *testing.T) {
		dir := t.TempDir()
		store := NewRendererStateStore(filepath.Join(dir, "state.json"))

		if err := store.Remember(KnownRenderer{UDN: "uuid:a", FriendlyName: "Kitchen", Location: "http://a/desc.xml"}); err != nil {
			t.Fatalf("Remember() error = %v", err)
		}
		if err := store.Remember(KnownRenderer{UDN: "uuid:b", FriendlyName: "Office", Location: "http://b/desc.xml"}); err != nil {
			t.Fatalf("Remember() error = %v", err)
		}

		got, err := store.Load()
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if len(got.Renderers) != 2 {
			t.Fatalf("Renderers = %d, want 2", len(got.Renderers))
		}
		last, ok := got.Last()
		if !ok || last.UDN != "uuid:b" {
			t.Errorf("Last() = %+v, %v, want uuid:b", last, ok)
		}
		if last.SelectedAt.IsZero() {
			t.Error("SelectedAt not set")
		}
	})

	t.Run("Clear", func(t *testing.T) {
		dir := t.TempDir()
		store := NewRendererStateStore(filepath.Join(dir, "state.json"))

		if err := store.Save(&RendererState{}); err != nil {
			t.Fatalf("Save() error = %v", err)
		}
		if err := store.Clear(); err != nil {
			t.Fatalf("Clear() error = %v", err)
		}
		got, _ := store.Load()
		if got != nil {
			t.Error("state still present after Clear()")
		}

		// Clearing again is not an error.
		if err := store.Clear(); err != nil {
			t.Errorf("second Clear() error = %v", err)
		}
	})
}

func TestRendererStateRemember(t *testing.T) {
	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	t.Run("ReplacesExisting", func(t *testing.T) {
		s := &RendererState{}
		s.Remember(KnownRenderer{UDN: "uuid:a", Location: "http://old/", SelectedAt: base})
		s.Remember(KnownRenderer{UDN: "uuid:b", Location: "http://b/", SelectedAt: base.Add(time.Minute)})
		s.Remember(KnownRenderer{UDN: "uuid:a", Location: "http://new/", SelectedAt: base.Add(2 * time.Minute)})

		if len(s.Renderers) != 2 {
			t.Fatalf("Renderers = %d, want 2", len(s.Renderers))
		}
		if s.Renderers[0].UDN != "uuid:a" || s.Renderers[0].Location != "http://new/" {
			t.Errorf("first = %+v, want updated uuid:a", s.Renderers[0])
		}
		if s.LastUDN != "uuid:a" {
			t.Errorf("LastUDN = %q", s.LastUDN)
		}
	})

	t.Run("Capped", func(t *testing.T) {
		s := &RendererState{}
		for i := 0; i < MaxRenderers+5; i++ {
			s.Remember(KnownRenderer{
				UDN:        "uuid:" + string(rune('a'+i)),
				SelectedAt: base.Add(time.Duration(i) * time.Second),
			})
		}
		if len(s.Renderers) != MaxRenderers {
			t.Errorf("Renderers = %d, want %d", len(s.Renderers), MaxRenderers)
		}
		last, ok := s.Last()
		if !ok || last.UDN != "uuid:"+string(rune('a'+MaxRenderers+4)) {
			t.Errorf("Last() = %+v", last)
		}
	})

	t.Run("Find", func(t *testing.T) {
		s := &RendererState{}
		s.Remember(KnownRenderer{UDN: "uuid:a", FriendlyName: "Kitchen", Location: "http://a/"})

		if r, ok := s.Find("Kitchen"); !ok || r.UDN != "uuid:a" {
			t.Errorf("Find(Kitchen) = %+v, %v", r, ok)
		}
		if r, ok := s.Find("uuid:a"); !ok || r.Location != "http://a/" {
			t.Errorf("Find(uuid:a) = %+v, %v", r, ok)
		}
		if _, ok := s.Find("Garage"); ok {
			t.Error("Find(Garage) found a renderer")
		}
	})

	t.Run("NilState", func(t *testing.T) {
		var s *RendererState
		if _, ok := s.Last(); ok {
			t.Error("Last() on nil state returned ok")
		}
		if _, ok := s.Find("x"); ok {
			t.Error("Find() on nil state returned ok")
		}
	})
}
