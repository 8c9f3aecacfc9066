package sim

import (
	"errors"
	"testing"
)

func TestNewWorldHasDefaultCamera(t *testing.T) {
	w := NewWorld()
	ids := w.CameraIDs()
	if len(ids) != 1 || ids[0] != 0 {
		t.Fatalf("expected default camera 0, got %v", ids)
	}
	cam, err := w.Camera(0)
	if err != nil {
		t.Fatalf("camera 0: %v", err)
	}
	if cam.FOV != 90 || cam.FilmW != 640 || cam.FilmH != 480 {
		t.Fatalf("unexpected defaults: %+v", cam)
	}
}

func TestSpawnCameraAssignsSequentialIDs(t *testing.T) {
	w := NewWorld()
	if id := w.SpawnCamera(); id != 1 {
		t.Fatalf("expected id 1, got %d", id)
	}
	if id := w.SpawnCamera(); id != 2 {
		t.Fatalf("expected id 2, got %d", id)
	}
	if got := len(w.CameraIDs()); got != 3 {
		t.Fatalf("expected 3 cameras, got %d", got)
	}
}

func TestUpdateCameraMutatesState(t *testing.T) {
	w := NewWorld()
	err := w.UpdateCamera(0, func(c *Camera) {
		c.Location = Vec3{X: 1, Y: 2, Z: 3}
		c.FOV = 60
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	cam, _ := w.Camera(0)
	if cam.Location != (Vec3{X: 1, Y: 2, Z: 3}) || cam.FOV != 60 {
		t.Fatalf("update not applied: %+v", cam)
	}
}

func TestCameraMissingID(t *testing.T) {
	w := NewWorld()
	if _, err := w.Camera(42); !errors.Is(err, ErrNoSuchCamera) {
		t.Fatalf("expected ErrNoSuchCamera, got %v", err)
	}
	if err := w.UpdateCamera(42, func(c *Camera) {}); !errors.Is(err, ErrNoSuchCamera) {
		t.Fatalf("expected ErrNoSuchCamera, got %v", err)
	}
}

func TestObjectLifecycle(t *testing.T) {
	w := NewWorld()
	if err := w.SpawnObject("box"); err != nil {
		t.Fatalf("spawn: %v", err)
	}
	if err := w.SpawnObject("box"); !errors.Is(err, ErrObjectExists) {
		t.Fatalf("expected ErrObjectExists, got %v", err)
	}

	obj, err := w.Object("box")
	if err != nil {
		t.Fatalf("object: %v", err)
	}
	if !obj.Visible {
		t.Fatalf("new objects should be visible")
	}

	if err := w.UpdateObject("box", func(o *Object) { o.Visible = false }); err != nil {
		t.Fatalf("update: %v", err)
	}
	obj, _ = w.Object("box")
	if obj.Visible {
		t.Fatalf("visibility update lost")
	}

	if err := w.DestroyObject("box"); err != nil {
		t.Fatalf("destroy: %v", err)
	}
	if _, err := w.Object("box"); !errors.Is(err, ErrNoSuchObject) {
		t.Fatalf("expected ErrNoSuchObject after destroy, got %v", err)
	}
	if err := w.DestroyObject("box"); !errors.Is(err, ErrNoSuchObject) {
		t.Fatalf("expected ErrNoSuchObject on double destroy, got %v", err)
	}
}

func TestSpawnedObjectsGetDistinctColors(t *testing.T) {
	w := NewWorld()
	_ = w.SpawnObject("a")
	_ = w.SpawnObject("b")
	a, _ := w.Object("a")
	b, _ := w.Object("b")
	if a.Color == b.Color {
		t.Fatalf("adjacent spawns share annotation color: %v", a.Color)
	}
}

func TestObjectNamesSorted(t *testing.T) {
	w := NewWorld()
	_ = w.SpawnObject("zeta")
	_ = w.SpawnObject("alpha")
	names := w.ObjectNames()
	if len(names) != 2 || names[0] != "alpha" || names[1] != "zeta" {
		t.Fatalf("names not sorted: %v", names)
	}
}
