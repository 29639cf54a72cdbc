package main

import (
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/awantoch/uiscript/config"
	"github.com/awantoch/uiscript/driver/fakedriver"
	uihttp "github.com/awantoch/uiscript/http"
	"github.com/awantoch/uiscript/logger"
	"github.com/awantoch/uiscript/vision/fakevision"
)

// newServeCmd creates the 'serve' subcommand.
func newServeCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the script interpreter's HTTP server",
		Run: func(cmd *cobra.Command, args []string) {
			cfg, err := config.LoadConfig(configPath)
			if err != nil {
				if os.IsNotExist(err) {
					cfg = config.Default()
				} else {
					logger.Error("failed to load config: %v", err)
					exit(1)
					return
				}
			}

			if addr != "" {
				host, portStr, found := strings.Cut(addr, ":")
				if !found {
					logger.Error("invalid address format: %s (expected host:port)", addr)
					exit(1)
					return
				}
				port, err := strconv.Atoi(portStr)
				if err != nil {
					logger.Error("invalid port number: %v", err)
					exit(1)
					return
				}
				cfg.HTTP.Host = host
				cfg.HTTP.Port = port
			}

			if err := cfg.Validate(); err != nil {
				logger.Error("config validation failed: %v", err)
				exit(1)
				return
			}

			// No real host-automation driver exists in this ecosystem (UI
			// Driver and Vision are external collaborators per spec.md §1);
			// the fakes stand in here the same way they do in this
			// repository's own tests, and a production deployment replaces
			// this wiring with a concrete driver.Driver/vision.Vision.
			srv := &uihttp.Server{Driver: fakedriver.New(), Vision: fakevision.New()}

			logger.User("uiscriptd serve (%s)", cfg.Addr())
			if err := srv.StartServer(cfg); err != nil {
				logger.Error("server failed: %v", err)
				exit(1)
			}
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address in the format host:port")
	return cmd
}
