package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"github.com/holoscene/simgate/internal/admin"
	"github.com/holoscene/simgate/internal/commands"
	"github.com/holoscene/simgate/internal/config"
	"github.com/holoscene/simgate/internal/dispatch"
	"github.com/holoscene/simgate/internal/logging"
	"github.com/holoscene/simgate/internal/protocol/frame"
	"github.com/holoscene/simgate/internal/server"
	"github.com/holoscene/simgate/internal/sim"
)

const version = "0.3.0"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "simgate: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "", "path to a TOML config file")
	addr := flag.String("addr", "", "override the TCP listen address")
	flag.Parse()

	logging.ConfigureRuntime()

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	if *addr != "" {
		cfg.Addr = *addr
	}

	world := sim.NewWorld()
	dispatcher := dispatch.New()

	srv := server.New(server.Config{
		TCPAddr:    cfg.Addr,
		UnixSocket: cfg.UnixSocket,
		PollYield:  cfg.PollYield(),
		Limits:     frame.Limits{MaxPayloadBytes: cfg.MaxPayloadBytes},
	}, dispatcher)

	registerHandlers(dispatcher, world, srv)

	recent := server.NewRecentLog(cfg.RecentCommands)
	srv.OnReceived(recent.Listener())
	srv.OnReceived(func(endpoint, command string) {
		log.Debug().Str("endpoint", endpoint).Str("command", command).Msg("received")
	})

	if err := srv.Start(); err != nil {
		return err
	}
	defer srv.Stop()

	if cfg.AdminAddr != "" {
		plane := admin.New(version, dispatcher, srv, recent, cfg.CorsOrigins)
		go func() {
			if err := plane.Serve(cfg.AdminAddr); err != nil {
				log.Error().Err(err).Msg("admin plane exited")
			}
		}()
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig
	log.Info().Msg("shutting down")
	return nil
}

// registerHandlers wires every command set into the dispatcher.
// Registration order is the dispatch tie-break, so handler sets bind
// in a fixed sequence.
func registerHandlers(d *dispatch.Dispatcher, world *sim.World, srv *server.Server) {
	cam := &commands.CameraHandler{World: world}
	cam.RegisterCommands(d)

	obj := &commands.ObjectHandler{World: world}
	obj.RegisterCommands(d)

	meta := &commands.MetaHandler{
		Version: version,
		Status:  func() string { return fmt.Sprintf("running sessions=%d", srv.SessionCount()) },
	}
	meta.RegisterCommands(d)
}
