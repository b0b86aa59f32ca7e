package cmd

import (
	"github.com/spf13/cobra"
	"vp21rc/cmd/cli"
	"vp21rc/internal/logger"
)

var cliPort string

var cliCmd = &cobra.Command{
	Use:   "cli",
	Short: "Start the interactive control panel",
	Long: `Launch the terminal control panel. Pick a serial port, then drive the
projector with the same buttons as the physical remote.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		// the panel owns the terminal; stderr logging would corrupt it
		logger.SetSilentMode(true)

		port := cliPort
		if port == "" {
			port = cfg.Serial.Port
		}

		if err := cli.StartTUI(modeOptions(), port); err != nil {
			log := logger.New()
			log.Error().Err(err).Msg("Failed to start TUI")
			return err
		}
		return nil
	},
}

func init() {
	cliCmd.Flags().StringVarP(&cliPort, "port", "p", "", "serial port to connect at startup")
}
