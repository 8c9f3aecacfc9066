package commands

import (
	"strconv"
	"strings"

	"github.com/holoscene/simgate/internal/dispatch"
	"github.com/holoscene/simgate/internal/sim"
)

// ObjectHandler binds the object command set to a world.
type ObjectHandler struct {
	World *sim.World
}

func (h *ObjectHandler) RegisterCommands(d *dispatch.Dispatcher) {
	d.MustRegister(
		"vget /objects",
		h.GetObjectList,
		"List all objects in the scene")

	d.MustRegister(
		"vset /objects/spawn [str]",
		h.SpawnObject,
		"Spawn an object with the given name")

	d.MustRegister(
		"vget /object/[str]/location",
		h.GetLocation,
		"Get object location")

	d.MustRegister(
		"vset /object/[str]/location [float] [float] [float]",
		h.SetLocation,
		"Set object location [x, y, z]")

	d.MustRegister(
		"vget /object/[str]/rotation",
		h.GetRotation,
		"Get object rotation")

	d.MustRegister(
		"vset /object/[str]/rotation [float] [float] [float]",
		h.SetRotation,
		"Set object rotation [pitch, yaw, roll]")

	d.MustRegister(
		"vget /object/[str]/color",
		h.GetColor,
		"Get object annotation color")

	d.MustRegister(
		"vset /object/[str]/color [uint] [uint] [uint]",
		h.SetColor,
		"Set object annotation color [r, g, b]")

	d.MustRegister(
		"vset /object/[str]/show",
		h.Show,
		"Make the object visible")

	d.MustRegister(
		"vset /object/[str]/hide",
		h.Hide,
		"Make the object invisible")

	d.MustRegister(
		"vset /object/[str]/destroy",
		h.Destroy,
		"Remove the object from the scene")
}

func (h *ObjectHandler) GetObjectList(args []string) dispatch.ExecResult {
	return dispatch.OKMsg("%s", strings.Join(h.World.ObjectNames(), " "))
}

func (h *ObjectHandler) SpawnObject(args []string) dispatch.ExecResult {
	if err := h.World.SpawnObject(args[0]); err != nil {
		return dispatch.Errorf("%s", err)
	}
	return dispatch.OK()
}

func (h *ObjectHandler) GetLocation(args []string) dispatch.ExecResult {
	obj, err := h.World.Object(args[0])
	if err != nil {
		return dispatch.Errorf("can not find object %q", args[0])
	}
	return dispatch.OKMsg("%f %f %f", obj.Location.X, obj.Location.Y, obj.Location.Z)
}

func (h *ObjectHandler) SetLocation(args []string) dispatch.ExecResult {
	loc, ok := parseVec3(args[1:4])
	if !ok {
		return dispatch.InvalidArgument()
	}
	if err := h.World.UpdateObject(args[0], func(o *sim.Object) { o.Location = loc }); err != nil {
		return dispatch.Errorf("can not find object %q", args[0])
	}
	return dispatch.OK()
}

func (h *ObjectHandler) GetRotation(args []string) dispatch.ExecResult {
	obj, err := h.World.Object(args[0])
	if err != nil {
		return dispatch.Errorf("can not find object %q", args[0])
	}
	return dispatch.OKMsg("%f %f %f", obj.Rotation.X, obj.Rotation.Y, obj.Rotation.Z)
}

func (h *ObjectHandler) SetRotation(args []string) dispatch.ExecResult {
	rot, ok := parseVec3(args[1:4])
	if !ok {
		return dispatch.InvalidArgument()
	}
	if err := h.World.UpdateObject(args[0], func(o *sim.Object) { o.Rotation = rot }); err != nil {
		return dispatch.Errorf("can not find object %q", args[0])
	}
	return dispatch.OK()
}

func (h *ObjectHandler) GetColor(args []string) dispatch.ExecResult {
	obj, err := h.World.Object(args[0])
	if err != nil {
		return dispatch.Errorf("can not find object %q", args[0])
	}
	return dispatch.OKMsg("%d %d %d", obj.Color[0], obj.Color[1], obj.Color[2])
}

func (h *ObjectHandler) SetColor(args []string) dispatch.ExecResult {
	var rgb [3]uint8
	for i, a := range args[1:4] {
		v, err := strconv.ParseUint(a, 10, 16)
		if err != nil || v > 255 {
			return dispatch.InvalidArgument()
		}
		rgb[i] = uint8(v)
	}
	if err := h.World.UpdateObject(args[0], func(o *sim.Object) { o.Color = rgb }); err != nil {
		return dispatch.Errorf("can not find object %q", args[0])
	}
	return dispatch.OK()
}

func (h *ObjectHandler) Show(args []string) dispatch.ExecResult {
	return h.setVisible(args[0], true)
}

func (h *ObjectHandler) Hide(args []string) dispatch.ExecResult {
	return h.setVisible(args[0], false)
}

func (h *ObjectHandler) setVisible(name string, visible bool) dispatch.ExecResult {
	if err := h.World.UpdateObject(name, func(o *sim.Object) { o.Visible = visible }); err != nil {
		return dispatch.Errorf("can not find object %q", name)
	}
	return dispatch.OK()
}

func (h *ObjectHandler) Destroy(args []string) dispatch.ExecResult {
	if err := h.World.DestroyObject(args[0]); err != nil {
		return dispatch.Errorf("can not find object %q", args[0])
	}
	return dispatch.OK()
}
