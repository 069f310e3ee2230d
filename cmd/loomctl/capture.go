package main

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	captureclient "loom/internal/capture/client"
	captureserver "loom/internal/capture/server"
	"loom/internal/shared/compression/hpack"
	"loom/internal/shared/constants"
)

func newCaptureCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "capture",
		Short: "Run the capture relay server or send fixtures to one",
	}
	cmd.AddCommand(newCaptureServeCmd())
	cmd.AddCommand(newCaptureSendCmd())
	return cmd
}

func newCaptureServeCmd() *cobra.Command {
	var (
		addr      string
		tableSize uint32
		hardMax   uint32
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the capture relay server",
		RunE: func(cmd *cobra.Command, args []string) error {
			srv := captureserver.NewServer(logger, tableSize, hardMax)
			defer srv.Close()

			mux := http.NewServeMux()
			mux.HandleFunc("/agent", srv.ServeAgent)
			mux.HandleFunc("/viewer", srv.ServeViewer)

			logger.Info("capture relay listening", zap.String("addr", addr))
			return http.ListenAndServe(addr, mux)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", fmt.Sprintf(":%d", constants.DefaultRelayPort), "listen address")
	cmd.Flags().Uint32Var(&tableSize, "table-size", hpack.DefaultDynamicTableSize, "initial dynamic table size per session")
	cmd.Flags().Uint32Var(&hardMax, "hard-max", hpack.DefaultDynamicTableSize, "hard ceiling for session size-update directives")

	return cmd
}

func newCaptureSendCmd() *cobra.Command {
	var (
		url         string
		fixtureDir  string
		sessionID   string
		tableSize   uint32
		history     bool
		sendDelayMs int
	)

	cmd := &cobra.Command{
		Use:   "send",
		Short: "Stream fixtures from a directory to a running capture relay",
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := os.ReadDir(fixtureDir)
			if err != nil {
				return err
			}

			c, err := captureclient.DialWithRetry(url, sessionID, tableSize, history, logger)
			if err != nil {
				return err
			}
			defer c.Close()

			for _, e := range entries {
				if e.IsDir() {
					continue
				}
				path := filepath.Join(fixtureDir, e.Name())
				hs, err := loadFixture(path)
				if err != nil {
					logger.Warn("skipping unreadable fixture", zap.String("path", path), zap.Error(err))
					continue
				}
				if err := c.SendHeaderSet(hs); err != nil {
					return err
				}
				logger.Info("sent fixture", zap.String("path", path), zap.Int("headers", len(hs.Headers)))
				time.Sleep(time.Duration(sendDelayMs) * time.Millisecond)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&url, "url", "ws://127.0.0.1:8080/agent", "capture relay agent endpoint")
	cmd.Flags().StringVar(&fixtureDir, "fixtures", "", "directory of header-set fixtures to send (required)")
	cmd.Flags().StringVar(&sessionID, "session-id", captureserver.GenerateSessionID(), "session id to report to the relay")
	cmd.Flags().Uint32Var(&tableSize, "table-size", hpack.DefaultDynamicTableSize, "dynamic table size")
	cmd.Flags().BoolVar(&history, "history", false, "enable the emission-history heuristic")
	cmd.Flags().IntVar(&sendDelayMs, "delay-ms", 0, "delay between sends, in milliseconds")
	_ = cmd.MarkFlagRequired("fixtures")

	return cmd
}
