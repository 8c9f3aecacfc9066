package sim

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

var (
	ErrNoSuchCamera = errors.New("sim: no such camera")
	ErrNoSuchObject = errors.New("sim: no such object")
	ErrObjectExists = errors.New("sim: object already exists")
)

// Vec3 is a location or rotation triple. Rotations are pitch/yaw/roll.
type Vec3 struct {
	X, Y, Z float64
}

// Camera is one simulated sensor.
type Camera struct {
	ID       uint32
	Location Vec3
	Rotation Vec3
	FOV      float64
	FilmW    uint32
	FilmH    uint32
}

// Object is one named actor in the world.
type Object struct {
	Name     string
	Location Vec3
	Rotation Vec3
	Color    [3]uint8
	Visible  bool
}

// World is the in-memory simulation state the command handlers operate
// on. Handlers run concurrently from independent client sessions, so
// every accessor takes the world lock; the transport layer provides no
// cross-session serialization.
type World struct {
	mu       sync.RWMutex
	cameras  map[uint32]*Camera
	objects  map[string]*Object
	nextCam  uint32
	colorSeq int
}

// NewWorld builds a world with a single default camera, matching what a
// freshly loaded scene exposes.
func NewWorld() *World {
	w := &World{
		cameras: make(map[uint32]*Camera),
		objects: make(map[string]*Object),
	}
	w.SpawnCamera()
	return w
}

func (w *World) SpawnCamera() uint32 {
	w.mu.Lock()
	defer w.mu.Unlock()
	id := w.nextCam
	w.nextCam++
	w.cameras[id] = &Camera{
		ID:    id,
		FOV:   90,
		FilmW: 640,
		FilmH: 480,
	}
	return id
}

func (w *World) CameraIDs() []uint32 {
	w.mu.RLock()
	defer w.mu.RUnlock()
	ids := make([]uint32, 0, len(w.cameras))
	for id := range w.cameras {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Camera returns a copy of the camera state.
func (w *World) Camera(id uint32) (Camera, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	cam, ok := w.cameras[id]
	if !ok {
		return Camera{}, fmt.Errorf("%w: %d", ErrNoSuchCamera, id)
	}
	return *cam, nil
}

func (w *World) UpdateCamera(id uint32, fn func(*Camera)) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	cam, ok := w.cameras[id]
	if !ok {
		return fmt.Errorf("%w: %d", ErrNoSuchCamera, id)
	}
	fn(cam)
	return nil
}

func (w *World) SpawnObject(name string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, ok := w.objects[name]; ok {
		return fmt.Errorf("%w: %s", ErrObjectExists, name)
	}
	w.colorSeq++
	w.objects[name] = &Object{
		Name:    name,
		Color:   annotationColor(w.colorSeq),
		Visible: true,
	}
	return nil
}

func (w *World) ObjectNames() []string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	names := make([]string, 0, len(w.objects))
	for name := range w.objects {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Object returns a copy of the object state.
func (w *World) Object(name string) (Object, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	obj, ok := w.objects[name]
	if !ok {
		return Object{}, fmt.Errorf("%w: %s", ErrNoSuchObject, name)
	}
	return *obj, nil
}

func (w *World) UpdateObject(name string, fn func(*Object)) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	obj, ok := w.objects[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNoSuchObject, name)
	}
	fn(obj)
	return nil
}

func (w *World) DestroyObject(name string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, ok := w.objects[name]; !ok {
		return fmt.Errorf("%w: %s", ErrNoSuchObject, name)
	}
	delete(w.objects, name)
	return nil
}

// annotationColor assigns a distinct mask color per spawn, cycling a
// coarse RGB lattice so neighbouring spawns stay distinguishable.
func annotationColor(seq int) [3]uint8 {
	step := uint8(64)
	r := uint8(seq%4) * step
	g := uint8((seq/4)%4) * step
	b := uint8((seq/16)%4) * step
	return [3]uint8{r + 63, g + 63, b + 63}
}
