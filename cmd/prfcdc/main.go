// Command prfcdc exercises the prfcdc library against a file or stdin: it
// is a demonstration and scriptable driver, not a benchmark harness or a
// deduplicating backup tool.
package main

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/prfcdc/prfcdc"
	"github.com/prfcdc/prfcdc/internal/config"
	"github.com/prfcdc/prfcdc/internal/metrics"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		configFile  string
		keyHex      string
		keyFile     string
		variantName string
		metricsAddr string
		logLevel    string
	)

	cmd := &cobra.Command{
		Use:   "prfcdc [flags] [file]",
		Short: "Keyed content-defined chunking over a file or stdin",
		Long: `prfcdc reads a file (or stdin, if no file is given) and prints the
boundaries of the chunks a keyed PRF sliding-window fingerprinter would
cut it into. It exists to exercise the prfcdc library end to end.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configFile)
			if err != nil {
				return err
			}

			if cmd.Flags().Changed("key") {
				cfg.KeyHex = keyHex
			}
			if cmd.Flags().Changed("key-file") {
				cfg.KeyFile = keyFile
			}
			if cmd.Flags().Changed("variant") {
				cfg.Variant = variantName
			}
			if cmd.Flags().Changed("metrics-addr") {
				cfg.MetricsAddr = metricsAddr
			}
			if cmd.Flags().Changed("log-level") {
				cfg.LogLevel = logLevel
			}

			log := logrus.New()
			if lvl, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
				log.SetLevel(lvl)
			}
			entry := logrus.NewEntry(log)

			var input io.Reader = os.Stdin
			if len(args) == 1 {
				f, err := os.Open(args[0])
				if err != nil {
					return fmt.Errorf("prfcdc: open %s: %w", args[0], err)
				}
				defer f.Close()
				input = f
			}

			return run(entry, cfg, input)
		},
	}

	cmd.Flags().StringVar(&configFile, "config", "", "path to a prfcdc.yaml config file")
	cmd.Flags().StringVar(&keyHex, "key", "", "hex-encoded 32-byte master key (random if omitted)")
	cmd.Flags().StringVar(&keyFile, "key-file", "", "file containing the hex-encoded master key, watched for rotation")
	cmd.Flags().StringVar(&variantName, "variant", "poly", "fingerprint variant: poly, aes, aes-alt")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "address to serve Prometheus metrics on, e.g. :9090")
	cmd.Flags().StringVar(&logLevel, "log-level", "info", "logrus level: debug, info, warn, error")

	return cmd
}

func parseVariant(name string) (prfcdc.Variant, error) {
	switch name {
	case "", "poly":
		return prfcdc.VariantPolyOnly, nil
	case "aes":
		return prfcdc.VariantAES, nil
	case "aes-alt":
		return prfcdc.VariantAESAlt, nil
	default:
		return 0, fmt.Errorf("prfcdc: unknown variant %q", name)
	}
}

func loadKey(cfg config.Config, log *logrus.Entry) (prfcdc.Key, error) {
	var key prfcdc.Key

	switch {
	case cfg.KeyFile != "":
		raw, err := os.ReadFile(cfg.KeyFile)
		if err != nil {
			return key, fmt.Errorf("prfcdc: read key file: %w", err)
		}
		return decodeKey(string(raw))
	case cfg.KeyHex != "":
		return decodeKey(cfg.KeyHex)
	default:
		if _, err := io.ReadFull(rand.Reader, key[:]); err != nil {
			return key, fmt.Errorf("prfcdc: generate random key: %w", err)
		}
		log.WithField("key", hex.EncodeToString(key[:])).Warn("no key supplied, generated a random one")
		return key, nil
	}
}

func decodeKey(s string) (prfcdc.Key, error) {
	var key prfcdc.Key
	raw, err := hex.DecodeString(strings.TrimSpace(s))
	if err != nil {
		return key, fmt.Errorf("prfcdc: decode key hex: %w", err)
	}
	if len(raw) != len(key) {
		return key, fmt.Errorf("prfcdc: key must be %d bytes, got %d", len(key), len(raw))
	}
	copy(key[:], raw)
	return key, nil
}

func run(log *logrus.Entry, cfg config.Config, input io.Reader) error {
	variant, err := parseVariant(cfg.Variant)
	if err != nil {
		return err
	}

	key, err := loadKey(cfg, log)
	if err != nil {
		return err
	}

	m := metrics.New()

	if cfg.MetricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		srv := &http.Server{Addr: cfg.MetricsAddr, Handler: mux}
		go func() {
			log.WithField("addr", cfg.MetricsAddr).Info("serving metrics")
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.WithError(err).Error("metrics server stopped")
			}
		}()
		defer srv.Close()
	}

	if cfg.KeyFile != "" {
		watchKeyFileForLogging(log, cfg.KeyFile)
	}

	var count int
	var total uint64
	cm := prfcdc.New(key, input, func(c prfcdc.Chunk) {
		count++
		total += uint64(len(c.Data))
		m.ChunksTotal.WithLabelValues(variant.String()).Inc()
		m.ChunkBytes.Observe(float64(len(c.Data)))
		m.BytesProcessed.Add(float64(len(c.Data)))
		fmt.Printf("%s\n", c)
	}, prfcdc.WithVariant(variant), prfcdc.WithLogger(log))

	if err := cm.Chunkify(); err != nil {
		m.ReadErrors.Inc()
		return err
	}

	log.WithFields(logrus.Fields{"chunks": count, "bytes": total}).Info("chunkify complete")
	return nil
}

// watchKeyFileForLogging starts a best-effort fsnotify watch on the key
// file purely to log rotation events; a new key only takes effect on the
// next invocation of this command, never against an in-flight Chunkify
// call, so there is no resumability concern to manage here.
func watchKeyFileForLogging(log *logrus.Entry, path string) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		log.WithError(err).Warn("could not start key file watcher")
		return
	}

	if err := watcher.Add(path); err != nil {
		log.WithError(err).Warn("could not watch key file")
		watcher.Close()
		return
	}

	go func() {
		defer watcher.Close()
		for event := range watcher.Events {
			if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				log.WithField("file", path).Info("key file changed; restart to pick up the new key")
			}
		}
	}()
}
