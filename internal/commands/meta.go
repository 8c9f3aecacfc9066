package commands

import (
	"github.com/holoscene/simgate/internal/dispatch"
)

// MetaHandler binds introspection commands that describe the server
// itself rather than the world.
type MetaHandler struct {
	Version string
	Status  func() string
}

func (h *MetaHandler) RegisterCommands(d *dispatch.Dispatcher) {
	d.MustRegister(
		"vget /commands",
		func(args []string) dispatch.ExecResult {
			return dispatch.OKMsg("%s", d.HelpText())
		},
		"List all registered commands")

	d.MustRegister(
		"vget /version",
		func(args []string) dispatch.ExecResult {
			return dispatch.OKMsg("%s", h.Version)
		},
		"Get server version")

	d.MustRegister(
		"vget /status",
		func(args []string) dispatch.ExecResult {
			if h.Status == nil {
				return dispatch.OKMsg("running")
			}
			return dispatch.OKMsg("%s", h.Status())
		},
		"Get server status")
}
