// Findradio listens for VITA-49 discovery broadcasts on the local network
// and prints what each announcing radio says about itself.
//
// Usage:
//
//	findradio [-d [N]] [flags]
//	findradio decode --pcap capture.pcap
//
// Running without a command performs a live scan.
// See 'findradio --help' for available commands.
//
// Exit status is 0 on success, 1 when the discovery socket cannot be
// bound, 2 when a radio sends a malformed (empty) datagram and 3 for
// any other failure.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/muurk/findradio/internal/discovery"
	"github.com/muurk/findradio/internal/version"
)

// Process exit codes
const (
	exitOK       = 0
	exitBind     = 1
	exitProtocol = 2
	exitOther    = 3
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	os.Exit(exitCode(err))
}

// exitCode maps a command error to the process exit status
func exitCode(err error) int {
	if err == nil {
		return exitOK
	}

	var bindErr *discovery.BindError
	if errors.As(err, &bindErr) {
		return exitBind
	}

	var protoErr *discovery.ProtocolError
	if errors.As(err, &protoErr) {
		return exitProtocol
	}

	return exitOther
}

var rootCmd = &cobra.Command{
	Use:   "findradio",
	Short: "Find VITA-49 radios on the local network",
	Long: `Listen for VITA-49 discovery broadcasts and decode each radio's
announcement: header fields, manufacturer, class codes, timestamp and
the key=value payload.

If no command is specified, a live scan is performed.`,
	Version:       version.Version,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runScan,
}

func init() {
	// Disable automatic completion command generation
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "findradio %s\n", version.Full())
	},
}
