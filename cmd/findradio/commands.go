package main

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/muurk/findradio/internal/capture"
	"github.com/muurk/findradio/internal/config"
	"github.com/muurk/findradio/internal/discovery"
	"github.com/muurk/findradio/internal/logging"
	"github.com/muurk/findradio/internal/oui"
	"github.com/muurk/findradio/internal/report"
	"github.com/muurk/findradio/internal/ui"
)

// Command flags
var (
	debugLevel   int
	bindAddress  string
	listenPort   int
	scanTimeout  time.Duration
	bufferSize   int
	outputFormat string
	ieeeLookup   bool
	pcapPath     string
	configPath   string
)

// userConfig is loaded by setup before any command runs
var userConfig = config.New()

func init() {
	flags := rootCmd.PersistentFlags()
	flags.IntVarP(&debugLevel, "debug", "d", 0, "Debug level (bare -d means 1)")
	flags.Lookup("debug").NoOptDefVal = "1"
	flags.IntVar(&listenPort, "port", discovery.DefaultPort, "Discovery UDP port")
	flags.StringVar(&outputFormat, "format", string(report.FormatText), "Output format (text, json, yaml)")
	flags.BoolVar(&ieeeLookup, "ieee", false, "Resolve unknown manufacturers from the IEEE OUI registry")
	flags.StringVar(&configPath, "config", "", "Configuration file (default is the per-user config path)")

	flags.StringVar(&bindAddress, "bind", "", "Local IPv4 address to listen on (default all interfaces)")
	flags.DurationVar(&scanTimeout, "timeout", discovery.DefaultTimeout, "Collection window")
	flags.IntVar(&bufferSize, "buffer", discovery.DefaultBufferSize, "Receive buffer size in bytes")

	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(decodeCmd)
}

// scanCmd listens for announcements on the live network
var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Listen for radio announcements",
	Long: `Bind the discovery port, collect announcements for one window and
report the first announcement seen from each radio.

Announcements are broadcast periodically, so the window should cover
at least one broadcast interval.`,
	Example: `  # Default two second scan
  findradio scan

  # Show the header bit diagram and debug logs
  findradio scan -d

  # Longer window on a specific interface, JSON output
  findradio scan --bind 192.168.1.10 --timeout 5s --format json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScan,
}

// decodeCmd replays announcements from a packet capture
var decodeCmd = &cobra.Command{
	Use:   "decode",
	Short: "Decode announcements from a pcap file",
	Long: `Read a pcap capture, pick out the IPv4/UDP datagrams addressed to
the discovery port and decode them exactly like a live scan.`,
	Example: `  findradio decode --pcap shack.pcap
  findradio decode --pcap shack.pcap --format yaml`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDecode,
}

func init() {
	decodeCmd.Flags().StringVar(&pcapPath, "pcap", "", "Capture file to read")
	_ = decodeCmd.MarkFlagRequired("pcap")
}

// resolveDebug returns the effective debug level. pflag cannot attach a
// space-separated value to a flag with a default, so "-d 3" arrives as
// -d (=1) plus a positional "3"; that positional is taken as the level.
func resolveDebug(changed bool, level int, args []string) (int, error) {
	if len(args) == 0 {
		if level < 0 {
			return 0, fmt.Errorf("invalid debug level %d", level)
		}
		return level, nil
	}

	if !changed || level != 1 || len(args) != 1 {
		return 0, fmt.Errorf("unexpected argument %q", args[0])
	}

	n, err := strconv.Atoi(args[0])
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid debug level %q", args[0])
	}
	return n, nil
}

// setup loads the config file, validates shared flags, initializes
// logging and tags the logger with a fresh scan ID.
func setup(cmd *cobra.Command, args []string) (int, report.Format, string, error) {
	level, err := resolveDebug(cmd.Flags().Changed("debug"), debugLevel, args)
	if err != nil {
		return 0, "", "", err
	}

	path, err := resolveConfigPath()
	if err != nil {
		return 0, "", "", err
	}
	cfg, err := config.Load(path)
	if err != nil {
		return 0, "", "", err
	}
	userConfig = cfg
	applyConfig(cmd, cfg.Scan)

	format, err := report.ParseFormat(outputFormat)
	if err != nil {
		return 0, "", "", err
	}

	if err := logging.Initialize(level); err != nil {
		return 0, "", "", err
	}

	scanID := uuid.NewString()
	logging.SetLogger(logging.GetLogger().With(zap.String("scan_id", scanID)))

	return level, format, scanID, nil
}

// applyConfig copies file defaults into flags the user did not set
func applyConfig(cmd *cobra.Command, d *config.ScanDefaults) {
	if d == nil {
		return
	}
	changed := cmd.Flags().Changed

	if d.Bind != "" && !changed("bind") {
		bindAddress = d.Bind
	}
	if d.Port != 0 && !changed("port") {
		listenPort = d.Port
	}
	if d.Timeout > 0 && !changed("timeout") {
		scanTimeout = d.Timeout
	}
	if d.Buffer > 0 && !changed("buffer") {
		bufferSize = d.Buffer
	}
	if d.Format != "" && !changed("format") {
		outputFormat = d.Format
	}
	if d.IEEE && !changed("ieee") {
		ieeeLookup = true
	}
}

func newResolver() *oui.Registry {
	var opts []oui.Option
	if ieeeLookup {
		opts = append(opts, oui.WithIEEEFallback())
	}
	reg := oui.NewRegistry(opts...)

	// Validated by config.Load
	table, _ := userConfig.VendorTable()
	for id, label := range table {
		reg.Register(id, label)
	}
	return reg
}

func runScan(cmd *cobra.Command, args []string) error {
	level, format, scanID, err := setup(cmd, args)
	if err != nil {
		return err
	}
	defer logging.Sync()

	scanner := discovery.NewScanner()
	scanner.BindAddress = bindAddress
	scanner.Port = listenPort
	scanner.Timeout = scanTimeout
	scanner.BufferSize = bufferSize

	host := bindAddress
	if host == "" {
		host = "0.0.0.0"
	}
	source := "udp://" + net.JoinHostPort(host, strconv.Itoa(listenPort))

	logging.Info("Starting scan",
		zap.String("source", source),
		zap.Duration("timeout", scanTimeout),
		zap.Int("buffer_size", bufferSize),
	)

	var devices []discovery.Device
	work := func() error {
		var err error
		devices, err = scanner.ScanForDevicesWithContext(cmd.Context())
		return err
	}

	started := time.Now()
	var scanErr error
	if format == report.FormatText {
		scanErr = ui.RunWithSpinner(cmd.OutOrStdout(), "scanning...", work)
	} else {
		scanErr = work()
	}
	elapsed := time.Since(started)

	var bindErr *discovery.BindError
	if errors.As(scanErr, &bindErr) {
		if format == report.FormatText {
			printNotice(cmd, ui.NewFailureNotice("Cannot bind discovery port", bindHints...).
				AddDetail("Address", source))
		}
		return scanErr
	}

	r := &report.Report{
		ScanID:    scanID,
		Command:   cmd.CommandPath(),
		Source:    source,
		StartedAt: started,
		Duration:  elapsed,
		Results:   discovery.DecodeAll(devices, newResolver()),
	}

	// Partial results are still worth showing when the run was cut short.
	if err := report.Render(cmd.OutOrStdout(), r, report.Options{Format: format, Debug: level}); err != nil {
		return err
	}

	if scanErr == nil && len(devices) == 0 && format == report.FormatText {
		printNotice(cmd, ui.NewWarningNotice("No radios answered", emptyScanHints...))
	}
	return scanErr
}

var bindHints = []string{
	"Another program may hold the port without SO_REUSEPORT",
	"Ports below 1024 need elevated privileges",
	"--bind must name an IPv4 address configured on this host",
}

var emptyScanHints = []string{
	"Ensure the radio is powered on and on the same subnet",
	"Announcements are broadcast periodically; try a longer --timeout",
	"Check that a host firewall allows inbound UDP on the discovery port",
	"Use --bind to listen on a specific interface",
}

// printNotice writes a notice box to stderr so stdout carries only the report
func printNotice(cmd *cobra.Command, n *ui.Notice) {
	w := cmd.ErrOrStderr()
	fmt.Fprintln(w, n.RenderWith(lipgloss.NewRenderer(w)))
}

func runDecode(cmd *cobra.Command, args []string) error {
	level, format, scanID, err := setup(cmd, args)
	if err != nil {
		return err
	}
	defer logging.Sync()

	devices, stats, readErr := capture.ReadFile(pcapPath, listenPort)
	var protoErr *discovery.ProtocolError
	if readErr != nil && !errors.As(readErr, &protoErr) {
		return readErr
	}

	logging.Debug("Capture loaded",
		zap.String("path", pcapPath),
		zap.Int("duplicates", stats.Duplicates),
	)

	r := &report.Report{
		ScanID:  scanID,
		Command: cmd.CommandPath(),
		Source:  pcapPath,
		Results: discovery.DecodeAll(devices, newResolver()),
	}
	if len(devices) > 0 {
		first := devices[0].DiscoveredAt
		last := first
		for _, d := range devices[1:] {
			if d.DiscoveredAt.After(last) {
				last = d.DiscoveredAt
			}
		}
		r.StartedAt = first
		r.Duration = last.Sub(first)
	}

	if err := report.Render(cmd.OutOrStdout(), r, report.Options{Format: format, Debug: level}); err != nil {
		return err
	}
	return readErr
}
