package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"vp21rc/internal/projector"
)

var projectorPort string

var projectorCmd = &cobra.Command{
	Use:   "projector",
	Short: "Send commands to the projector",
	Long: `Send ESC/VP21 commands to an Epson projector over a serial port.
Each invocation opens the port, sends one command and closes it again.`,
}

var projectorKeyCmd = &cobra.Command{
	Use:   "key [button]",
	Short: "Press a remote button",
	Long: `Press a button of the projector remote.
Run 'vp21rc projector list' for the available buttons.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		button, err := projector.ParseButton(args[0])
		if err != nil {
			return fmt.Errorf("unknown button: %s", args[0])
		}

		return withRemote(func(remote *projector.Remote) error {
			log.Info().
				Str("port", remote.Session().Port()).
				Str("button", button.String()).
				Msg("Sending remote button")

			msg, err := remote.Press(button)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), msg)
			return nil
		})
	},
}

var projectorPowerCmd = &cobra.Command{
	Use:   "power",
	Short: "Toggle projector power",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withRemote(func(remote *projector.Remote) error {
			state, err := remote.Session().TogglePower()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Power %s sent\n", strings.ToUpper(string(state)))
			return nil
		})
	},
}

var projectorStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show projector power state",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withRemote(func(remote *projector.Remote) error {
			on, err := remote.Session().PowerStatus()
			if err != nil {
				return err
			}
			if on {
				fmt.Fprintln(cmd.OutOrStdout(), "Power: on")
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), "Power: off")
			}
			return nil
		})
	},
}

var projectorQueryCmd = &cobra.Command{
	Use:   "query [command]",
	Short: "Send a raw command and print the reply",
	Long: `Send a raw ESC/VP21 command line and print whatever the projector
answers within the read timeout, e.g. 'vp21rc projector query "PWR?"'.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withRemote(func(remote *projector.Remote) error {
			resp, err := remote.Session().Query(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%q\n", resp)
			return nil
		})
	},
}

var projectorListCmd = &cobra.Command{
	Use:   "list",
	Short: "List remote buttons",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), "Available buttons:")
		for _, b := range projector.Buttons() {
			code, err := projector.Lookup(b)
			if err != nil {
				fmt.Fprintf(cmd.OutOrStdout(), "  %-9s toggle\n", b)
				continue
			}
			fmt.Fprintf(cmd.OutOrStdout(), "  %-9s KEY %s\n", b, code)
		}
	},
}

// withRemote opens the configured port for the duration of fn
func withRemote(fn func(*projector.Remote) error) error {
	port, err := resolvePort(projectorPort)
	if err != nil {
		return err
	}

	session := projector.NewSession(
		projector.WithOpener(modeOptions().Opener()),
		projector.WithLogger(log),
	)
	if err := session.Open(port); err != nil {
		return err
	}
	defer session.Close()

	return fn(projector.NewRemote(session))
}

func init() {
	projectorCmd.PersistentFlags().StringVarP(&projectorPort, "port", "p", "", "serial port (defaults to serial.port from the config)")

	projectorCmd.AddCommand(projectorKeyCmd)
	projectorCmd.AddCommand(projectorPowerCmd)
	projectorCmd.AddCommand(projectorStatusCmd)
	projectorCmd.AddCommand(projectorQueryCmd)
	projectorCmd.AddCommand(projectorListCmd)
}
