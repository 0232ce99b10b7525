package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/cardforge/rulesforge/internal/agent"
	"github.com/cardforge/rulesforge/internal/carddb"
	"github.com/cardforge/rulesforge/internal/decklist"
	"github.com/cardforge/rulesforge/internal/kernel/game"
	"github.com/cardforge/rulesforge/internal/kernel/ids"
	"github.com/cardforge/rulesforge/internal/ledger"
	"github.com/cardforge/rulesforge/internal/trace"
)

var (
	deck1Path  string
	deck2Path  string
	seedFlag   uint64
	tracePath  string
	recordFlag bool
	liveAddr   string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Play one match between two decklists and print the outcome",
	RunE:  runMatch,
}

func init() {
	runCmd.Flags().StringVar(&deck1Path, "deck1", "", "path to player 1's decklist (required)")
	runCmd.Flags().StringVar(&deck2Path, "deck2", "", "path to player 2's decklist (required)")
	runCmd.Flags().Uint64Var(&seedFlag, "seed", 0, "RNG seed (0 uses the config's default_seed)")
	runCmd.Flags().StringVar(&tracePath, "trace-out", "", "if set, write a gob+gzip event trace to this path")
	runCmd.Flags().BoolVar(&recordFlag, "record", false, "record the completed match to the ledger")
	runCmd.Flags().StringVar(&liveAddr, "live-addr", "", "if set, broadcast the match live over websocket at this address while it runs")
	_ = runCmd.MarkFlagRequired("deck1")
	_ = runCmd.MarkFlagRequired("deck2")
	rootCmd.AddCommand(runCmd)
}

func runMatch(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := newLogger(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Sync()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	db, err := carddb.Load(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("load card database: %w", err)
	}

	deck1, err := readDeck(deck1Path)
	if err != nil {
		return err
	}
	deck2, err := readDeck(deck2Path)
	if err != nil {
		return err
	}

	seed := seedFlag
	if seed == 0 {
		seed = cfg.DefaultSeed
	}

	g, err := game.NewGame(deck1, deck2, db, seed, agent.NewRandomAgent(seed+1), agent.NewRandomAgent(seed+2), logger)
	if err != nil {
		return fmt.Errorf("new game: %w", err)
	}

	var recorder *trace.Recorder
	if tracePath != "" {
		recorder = trace.NewRecorder()
		g.Subscribe(recorder.Listen)
	}

	if liveAddr != "" {
		broadcaster := trace.NewBroadcaster()
		g.Subscribe(broadcaster.Listen)
		go serveLive(logger, liveAddr, broadcaster)
	}

	outcome, err := g.RunUntilGameOver()
	if err != nil {
		return fmt.Errorf("run match: %w", err)
	}
	fmt.Printf("outcome: %s (turn %d, seed %d)\n", outcome, g.TurnNumber(), seed)

	if recorder != nil {
		if err := recorder.SaveToFile(tracePath); err != nil {
			return fmt.Errorf("save trace: %w", err)
		}
	}

	if recordFlag {
		if err := recordOutcome(ctx, cfg.DatabaseURL, deck1Path, deck2Path, outcome, g.TurnNumber(), seed); err != nil {
			return fmt.Errorf("record to ledger: %w", err)
		}
	}
	return nil
}

// serveLive upgrades spectator connections to websocket and registers them
// with broadcaster, which fans out every event the running match performs;
// it runs for the lifetime of the match and is never expected to return
// cleanly, so errors are logged rather than propagated.
func serveLive(logger *zap.Logger, addr string, broadcaster *trace.Broadcaster) {
	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     func(r *http.Request) bool { return true },
	}

	router := mux.NewRouter()
	router.HandleFunc("/live", func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logger.Warn("live websocket upgrade failed", zap.Error(err))
			return
		}
		broadcaster.Add(conn)
	})

	logger.Info("serving live match broadcast", zap.String("addr", addr))
	if err := http.ListenAndServe(addr, router); err != nil {
		logger.Warn("live broadcast server stopped", zap.Error(err))
	}
}

func readDeck(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open decklist %s: %w", path, err)
	}
	defer file.Close()

	dl, err := decklist.Parse(file)
	if err != nil {
		return nil, fmt.Errorf("parse decklist %s: %w", path, err)
	}
	return dl.Names(), nil
}

func recordOutcome(ctx context.Context, dsn, deck1Path, deck2Path string, outcome game.Outcome, turns int, seed uint64) error {
	l, err := ledger.Open(ctx, dsn)
	if err != nil {
		return err
	}
	defer l.Close()

	if err := l.EnsureSchema(ctx); err != nil {
		return err
	}

	winner := 0
	isDraw := outcome == game.Draw
	if outcome == game.P2Wins {
		winner = 1
	}
	return l.Record(ctx, ledger.Result{
		MatchID:     fmt.Sprintf("%s-vs-%s-%d", deck1Path, deck2Path, seed),
		Player1Deck: deck1Path,
		Player2Deck: deck2Path,
		Winner:      ids.PlayerSlot(winner),
		IsDraw:      isDraw,
		TurnCount:   turns,
		Seed:        seed,
	})
}

// newLogger mirrors the teacher's cmd/server/main.go initLogger: a
// development encoder for text, a production encoder for json.
func newLogger(level, format string) (*zap.Logger, error) {
	var lvl zapcore.Level
	switch level {
	case "debug":
		lvl = zapcore.DebugLevel
	case "warn":
		lvl = zapcore.WarnLevel
	case "error":
		lvl = zapcore.ErrorLevel
	default:
		lvl = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
	}
	zapCfg.Level = zap.NewAtomicLevelAt(lvl)
	return zapCfg.Build()
}
