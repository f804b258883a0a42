package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/robertgauld/cmri/internal/address"
	"github.com/robertgauld/cmri/internal/config"
	"github.com/robertgauld/cmri/internal/connection"
	cmriErrors "github.com/robertgauld/cmri/internal/errors"
	"github.com/robertgauld/cmri/internal/logging"
	"github.com/robertgauld/cmri/internal/metrics"
	"github.com/robertgauld/cmri/internal/packet"
	"github.com/robertgauld/cmri/internal/packetdata"
)

type serveNodeFlags struct {
	config     string
	logFile    string
	metricsCSV string
	verbose    bool
	debug      bool
}

func newServeNodeCmd() *cobra.Command {
	flags := &serveNodeFlags{}

	cmd := &cobra.Command{
		Use:   "serve-node",
		Short: "Simulate the nodes in a roster, answering polls on a bus",
		Long: `Opens the connection described by a node roster configuration and
answers PollRequest messages addressed to any configured node with a
ReceiveData reply of zero-filled input bytes. Useful for exercising a
controller or a hub against a bus with no real hardware attached.`,
		Example: `  cmrictl serve-node --config roster.yaml
  cmrictl serve-node --config roster.yaml --metrics-file metrics.csv --verbose`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := runServeNode(flags); err != nil {
				fmt.Fprintf(os.Stderr, "error: %v\n", err)
				os.Exit(2)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&flags.config, "config", "roster.yaml", "path to the node roster YAML file")
	cmd.Flags().StringVar(&flags.logFile, "log-file", "", "log file path (default: stdout/stderr only)")
	cmd.Flags().StringVar(&flags.metricsCSV, "metrics-file", "", "write per-frame metrics to this CSV file")
	cmd.Flags().BoolVar(&flags.verbose, "verbose", false, "verbose logging")
	cmd.Flags().BoolVar(&flags.debug, "debug", false, "debug logging (implies verbose)")

	return cmd
}

func runServeNode(flags *serveNodeFlags) error {
	level := logging.LogLevelInfo
	if flags.verbose {
		level = logging.LogLevelVerbose
	}
	if flags.debug {
		level = logging.LogLevelDebug
	}

	logger, err := logging.NewLogger(level, flags.logFile)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer logger.Close()

	cfg, err := config.LoadConfig(flags.config, false)
	if err != nil {
		return err
	}

	nodesByAddress := make(map[uint8]config.NodeEntry, len(cfg.Nodes))
	for _, n := range cfg.Nodes {
		nodesByAddress[n.NodeAddress] = n
	}

	var conn *connection.Connection
	switch cfg.Connection.Kind {
	case "serial":
		conn, err = connection.NewSerialConnection(cfg.Connection.Port, cfg.Connection.Baud, logger)
	case "tcp":
		conn, err = connection.NewTCPConnection(context.Background(), cfg.Connection.Address, logger)
	default:
		return fmt.Errorf("unsupported connection kind %q", cfg.Connection.Kind)
	}
	if err != nil {
		return cmriErrors.WrapConnectionError(err, flags.config)
	}
	defer conn.Shutdown()

	logger.LogConnect(cfg.Connection.Kind, conn.Name(), cfg.Connection.Baud, flags.config)

	metricsSink := metrics.NewSink()
	var metricsWriter *metrics.Writer
	if flags.metricsCSV != "" {
		metricsWriter, err = metrics.NewWriter(flags.metricsCSV, "")
		if err != nil {
			return fmt.Errorf("create metrics writer: %w", err)
		}
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	for ctx.Err() == nil {
		rf, err := conn.Receive(ctx)
		if err != nil {
			if ctx.Err() != nil {
				break
			}
			logger.Error("receive: %v", err)
			metricsSink.Record(metrics.Metric{
				Timestamp: time.Now(),
				Connection: conn.Name(),
				Success:   false,
				Error:     err.Error(),
			})
			continue
		}

		p, err := packet.TryDecodeFrame(&rf, false)
		if err != nil {
			logger.Verbose("discarding unparseable frame: %v", err)
			metricsSink.Record(metrics.Metric{
				Timestamp:  time.Now(),
				Connection: conn.Name(),
				Success:    false,
				ByteCount:  rf.Len(),
				Error:      err.Error(),
			})
			continue
		}

		if p.Payload().Kind() != packet.KindPollRequest {
			continue
		}

		nodeAddr := p.Address().NodeAddress()
		node, known := nodesByAddress[nodeAddr]
		if !known {
			continue
		}

		start := time.Now()
		inputBytes := optionInt(node.Options, "input_bytes", 0)
		data := packetdata.New(inputBytes)
		addr, err := address.FromNodeAddress(nodeAddr)
		if err != nil {
			continue
		}
		reply := packet.NewReceiveData(addr, data)
		replyFrame, err := reply.EncodeFrame()
		if err != nil {
			logger.Error("encode reply for node %d: %v", nodeAddr, err)
			continue
		}

		sendErr := conn.Send(ctx, replyFrame)
		latencyMs := time.Since(start).Seconds() * 1000

		metric := metrics.Metric{
			Timestamp:   time.Now(),
			Connection:  conn.Name(),
			NodeAddress: nodeAddr,
			NodeName:    node.Name,
			NodeSort:    string(node.Sort),
			Message:     metrics.MessagePollRequest,
			Success:     sendErr == nil,
			LatencyMs:   latencyMs,
			ByteCount:   replyFrame.Len(),
		}
		if sendErr != nil {
			logger.Error("send reply for node %d: %v", nodeAddr, sendErr)
			metric.Error = sendErr.Error()
		}
		metricsSink.Record(metric)
	}

	if metricsWriter != nil {
		for _, m := range metricsSink.GetMetrics() {
			if err := metricsWriter.WriteMetric(m); err != nil {
				logger.Error("write metric: %v", err)
			}
		}
		summary := metricsSink.GetSummary()
		if err := metricsWriter.WriteSummary(summary, metricsSink.GetMetrics()); err != nil {
			logger.Error("write metrics summary: %v", err)
		}
		if err := metricsWriter.Close(); err != nil {
			logger.Error("close metrics writer: %v", err)
		}
	}

	fmt.Fprintf(os.Stdout, "\n%s", metrics.FormatSummary(metricsSink.GetSummary()))

	return nil
}

func optionInt(options map[string]any, key string, fallback int) int {
	v, ok := options[key]
	if !ok {
		return fallback
	}
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	default:
		return fallback
	}
}
