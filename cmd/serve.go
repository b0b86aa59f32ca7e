package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"vp21rc/internal/api"
	"vp21rc/internal/logger"
	"vp21rc/internal/projector"
)

var (
	serveListen string
	servePort   string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the HTTP control API",
	Long: `Serve an HTTP API that controls the projector through a single serial session.
The session is opened at startup when a port is configured and can be
switched with POST /api/v1/session. Bearer tokens are required when
api.jwt_secret is set; mint one with 'vp21rc token'.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !verbose {
			logger.SetSilentMode(false)
		}
		log = logger.New()

		mode := modeOptions()
		session := projector.NewSession(
			projector.WithOpener(mode.Opener()),
			projector.WithLogger(logger.Component("session")),
			projector.WithNotifier(func(enabled bool, message string) {
				log.Info().Bool("enabled", enabled).Msg(message)
			}),
		)
		defer session.Close()

		if port, err := resolvePort(servePort); err == nil {
			// the API still starts; POST /api/v1/session can retry
			if err := session.Open(port); err != nil {
				log.Warn().Err(err).Str("port", port).Msg("Serving without a projector session")
			}
		}

		var jwtService *api.JWTService
		if cfg.AuthEnabled() {
			jwtService = api.NewJWTService(cfg.API.JWTSecret, cfg.API.JWTIssuer, cfg.API.TokenExpiryHours)
		}

		listen := cfg.API.Listen
		if serveListen != "" {
			listen = serveListen
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		server := api.NewServer(projector.NewRemote(session), mode.Ports, jwtService)
		if err := server.Run(ctx, listen); err != nil {
			log.Error().Err(err).Msg("API server stopped with error")
			return err
		}

		log.Info().Msg("API server stopped")
		return nil
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveListen, "listen", "", "listen address (defaults to api.listen from the config)")
	serveCmd.Flags().StringVarP(&servePort, "port", "p", "", "serial port to open at startup")
}
