package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"vp21rc/internal"
	"vp21rc/internal/config"
	"vp21rc/internal/logger"
	"vp21rc/internal/projector"
)

var (
	verbose    bool
	testMode   bool
	configPath string
	cfg        = config.Default()
	log        = logger.New()
)

var rootCmd = &cobra.Command{
	Use:   "vp21rc",
	Short: "vp21rc - Epson projector remote control",
	Long: `vp21rc drives an Epson projector over its ESC/VP21 serial interface.
It mirrors the buttons of the physical remote from the command line,
an interactive control panel, or a small HTTP API.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(configPath)
		if err != nil {
			return err
		}
		cfg = loaded

		logger.SetLevel(cfg.Log.Level)
		if verbose {
			logger.SetSilentMode(false)
			logger.SetLevel(logger.LOG_DEBUG)
		}
		log = logger.New()
		return nil
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVar(&testMode, "test", false, "talk to a simulated projector instead of a serial port")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.DefaultPath, "configuration file")

	rootCmd.AddCommand(cliCmd)
	rootCmd.AddCommand(portsCmd)
	rootCmd.AddCommand(projectorCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(tokenCmd)
}

func modeOptions() *internal.FnModeOptions {
	return internal.NewModeOptions(
		internal.WithDebug(verbose),
		internal.WithTest(testMode),
	)
}

// resolvePort picks the --port flag, then the configured port
func resolvePort(flag string) (string, error) {
	if testMode && flag == "" {
		return projector.SimulatorPort, nil
	}
	if flag != "" {
		return flag, nil
	}
	if cfg.Serial.Port != "" {
		return cfg.Serial.Port, nil
	}
	return "", fmt.Errorf("no serial port given: use --port or set serial.port in %s", configPath)
}
