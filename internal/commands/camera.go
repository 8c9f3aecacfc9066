package commands

import (
	"strconv"
	"strings"

	"github.com/holoscene/simgate/internal/dispatch"
	"github.com/holoscene/simgate/internal/sim"
	"github.com/holoscene/simgate/internal/sim/render"
)

// CameraHandler binds the camera command set to a world.
type CameraHandler struct {
	World *sim.World
}

func (h *CameraHandler) RegisterCommands(d *dispatch.Dispatcher) {
	d.MustRegister(
		"vget /cameras",
		h.GetCameraList,
		"List all cameras in the scene")

	d.MustRegister(
		"vset /cameras/spawn",
		h.SpawnCamera,
		"Spawn a new camera in the scene")

	d.MustRegister(
		"vget /camera/[uint]/location",
		h.GetLocation,
		"Get camera location in world space")

	d.MustRegister(
		"vset /camera/[uint]/location [float] [float] [float]",
		h.SetLocation,
		"Set camera to location [x, y, z]")

	d.MustRegister(
		"vget /camera/[uint]/rotation",
		h.GetRotation,
		"Get camera rotation in world space")

	d.MustRegister(
		"vset /camera/[uint]/rotation [float] [float] [float]",
		h.SetRotation,
		"Set rotation [pitch, yaw, roll] of camera [id]")

	d.MustRegister(
		"vget /camera/[uint]/fov",
		h.GetFOV,
		"Get camera horizontal field of view")

	d.MustRegister(
		"vset /camera/[uint]/fov [float]",
		h.SetFOV,
		"Set camera horizontal field of view")

	d.MustRegister(
		"vget /camera/[uint]/size",
		h.GetSize,
		"Get camera film size")

	d.MustRegister(
		"vset /camera/[uint]/size [uint] [uint]",
		h.SetSize,
		"Set camera film size")

	d.MustRegister(
		"vget /camera/[uint]/lit [str]",
		h.GetLit,
		"Get png binary data from the lit view")

	d.MustRegister(
		"vget /camera/[uint]/depth [str]",
		h.GetDepth,
		"Get npy binary data from the depth view")
}

func (h *CameraHandler) GetCameraList(args []string) dispatch.ExecResult {
	ids := h.World.CameraIDs()
	strs := make([]string, len(ids))
	for i, id := range ids {
		strs[i] = strconv.FormatUint(uint64(id), 10)
	}
	return dispatch.OKMsg("%s", strings.Join(strs, " "))
}

func (h *CameraHandler) SpawnCamera(args []string) dispatch.ExecResult {
	id := h.World.SpawnCamera()
	return dispatch.OKMsg("%d", id)
}

func (h *CameraHandler) GetLocation(args []string) dispatch.ExecResult {
	cam, res := h.camera(args)
	if res != nil {
		return *res
	}
	return dispatch.OKMsg("%f %f %f", cam.Location.X, cam.Location.Y, cam.Location.Z)
}

func (h *CameraHandler) SetLocation(args []string) dispatch.ExecResult {
	id, ok := parseCameraID(args)
	if !ok {
		return dispatch.InvalidArgument()
	}
	loc, ok := parseVec3(args[1:4])
	if !ok {
		return dispatch.InvalidArgument()
	}
	if err := h.World.UpdateCamera(id, func(c *sim.Camera) { c.Location = loc }); err != nil {
		return dispatch.Errorf("%s", err)
	}
	return dispatch.OK()
}

func (h *CameraHandler) GetRotation(args []string) dispatch.ExecResult {
	cam, res := h.camera(args)
	if res != nil {
		return *res
	}
	return dispatch.OKMsg("%f %f %f", cam.Rotation.X, cam.Rotation.Y, cam.Rotation.Z)
}

func (h *CameraHandler) SetRotation(args []string) dispatch.ExecResult {
	id, ok := parseCameraID(args)
	if !ok {
		return dispatch.InvalidArgument()
	}
	rot, ok := parseVec3(args[1:4])
	if !ok {
		return dispatch.InvalidArgument()
	}
	if err := h.World.UpdateCamera(id, func(c *sim.Camera) { c.Rotation = rot }); err != nil {
		return dispatch.Errorf("%s", err)
	}
	return dispatch.OK()
}

func (h *CameraHandler) GetFOV(args []string) dispatch.ExecResult {
	cam, res := h.camera(args)
	if res != nil {
		return *res
	}
	return dispatch.OKMsg("%f", cam.FOV)
}

func (h *CameraHandler) SetFOV(args []string) dispatch.ExecResult {
	id, ok := parseCameraID(args)
	if !ok {
		return dispatch.InvalidArgument()
	}
	fov, err := strconv.ParseFloat(args[1], 64)
	if err != nil || fov <= 0 || fov >= 180 {
		return dispatch.InvalidArgument()
	}
	if err := h.World.UpdateCamera(id, func(c *sim.Camera) { c.FOV = fov }); err != nil {
		return dispatch.Errorf("%s", err)
	}
	return dispatch.OK()
}

func (h *CameraHandler) GetSize(args []string) dispatch.ExecResult {
	cam, res := h.camera(args)
	if res != nil {
		return *res
	}
	return dispatch.OKMsg("%d %d", cam.FilmW, cam.FilmH)
}

func (h *CameraHandler) SetSize(args []string) dispatch.ExecResult {
	id, ok := parseCameraID(args)
	if !ok {
		return dispatch.InvalidArgument()
	}
	w, errW := strconv.ParseUint(args[1], 10, 32)
	ht, errH := strconv.ParseUint(args[2], 10, 32)
	if errW != nil || errH != nil || w == 0 || ht == 0 {
		return dispatch.InvalidArgument()
	}
	if err := h.World.UpdateCamera(id, func(c *sim.Camera) {
		c.FilmW = uint32(w)
		c.FilmH = uint32(ht)
	}); err != nil {
		return dispatch.Errorf("%s", err)
	}
	return dispatch.OK()
}

func (h *CameraHandler) GetLit(args []string) dispatch.ExecResult {
	cam, res := h.camera(args)
	if res != nil {
		return *res
	}
	if args[1] != "png" {
		return dispatch.Errorf("unsupported lit format %q", args[1])
	}
	data, err := render.LitPNG(cam)
	if err != nil {
		return dispatch.Errorf("%s", err)
	}
	return dispatch.OKBinary(data)
}

func (h *CameraHandler) GetDepth(args []string) dispatch.ExecResult {
	cam, res := h.camera(args)
	if res != nil {
		return *res
	}
	if args[1] != "npy" {
		return dispatch.Errorf("unsupported depth format %q", args[1])
	}
	data, err := render.DepthNPY(cam)
	if err != nil {
		return dispatch.Errorf("%s", err)
	}
	return dispatch.OKBinary(data)
}

func (h *CameraHandler) camera(args []string) (sim.Camera, *dispatch.ExecResult) {
	id, ok := parseCameraID(args)
	if !ok {
		res := dispatch.InvalidArgument()
		return sim.Camera{}, &res
	}
	cam, err := h.World.Camera(id)
	if err != nil {
		res := dispatch.Errorf("%s", err)
		return sim.Camera{}, &res
	}
	return cam, nil
}

func parseCameraID(args []string) (uint32, bool) {
	if len(args) == 0 {
		return 0, false
	}
	id, err := strconv.ParseUint(args[0], 10, 32)
	if err != nil {
		return 0, false
	}
	return uint32(id), true
}

func parseVec3(args []string) (sim.Vec3, bool) {
	if len(args) != 3 {
		return sim.Vec3{}, false
	}
	vals := make([]float64, 3)
	for i, a := range args {
		v, err := strconv.ParseFloat(a, 64)
		if err != nil {
			return sim.Vec3{}, false
		}
		vals[i] = v
	}
	return sim.Vec3{X: vals[0], Y: vals[1], Z: vals[2]}, true
}
