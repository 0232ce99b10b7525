package main

import (
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cardforge/rulesforge/internal/trace"
)

var serveTraceFile string

var serveTraceCmd = &cobra.Command{
	Use:   "serve-trace",
	Short: "Replay a recorded trace to a spectator client over websocket",
	RunE:  serveTrace,
}

func init() {
	serveTraceCmd.Flags().StringVar(&serveTraceFile, "trace", "", "path to a trace file written by \"run --trace-out\" (required)")
	_ = serveTraceCmd.MarkFlagRequired("trace")
	rootCmd.AddCommand(serveTraceCmd)
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

func serveTrace(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger, err := newLogger(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Sync()

	recorded, err := trace.LoadFromFile(serveTraceFile)
	if err != nil {
		return fmt.Errorf("load trace %s: %w", serveTraceFile, err)
	}
	logger.Info("loaded trace", zap.String("path", serveTraceFile), zap.Int("events", len(recorded)))

	router := mux.NewRouter()
	router.HandleFunc("/games/{id}/trace", func(w http.ResponseWriter, r *http.Request) {
		gameID := mux.Vars(r)["id"]
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logger.Warn("websocket upgrade failed", zap.String("game", gameID), zap.Error(err))
			return
		}
		defer conn.Close()

		for _, e := range recorded {
			if err := conn.WriteJSON(e); err != nil {
				logger.Warn("write trace event failed", zap.String("game", gameID), zap.Error(err))
				return
			}
		}
	})

	logger.Info("serving trace", zap.String("addr", cfg.ListenAddr))
	return http.ListenAndServe(cfg.ListenAddr, router)
}
