package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/deckforge/battlesim/internal/battle"
	"github.com/deckforge/battlesim/internal/config"
	"github.com/deckforge/battlesim/internal/tensor"
)

var (
	configPath  = flag.String("config", "", "path to configuration file (defaults apply when empty)")
	outPath     = flag.String("out", "", "replay output path (defaults to <replay.dir>/<playthrough-id>.replay)")
	inspectPath = flag.String("inspect", "", "decode the given replay file and print a per-step summary")
	maxTurns    = flag.Int("turns", 50, "maximum number of turns to simulate")
)

func main() {
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := initLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if *inspectPath != "" {
		if err := inspect(*inspectPath, logger); err != nil {
			logger.Fatal("inspect failed", zap.Error(err))
		}
		return
	}

	if err := play(cfg, logger); err != nil {
		logger.Fatal("simulation failed", zap.Error(err))
	}
}

// play drives one scripted battle through the harness contract and saves
// the recorded playthrough.
func play(cfg *config.Config, logger *zap.Logger) error {
	opponents := make([]*battle.Opponent, 0, cfg.Opponent.Count)
	for i := 0; i < cfg.Opponent.Count; i++ {
		if cfg.Opponent.FixedHealth > 0 {
			opp := battle.NewFixedCultist()
			opp.MaxHealth = cfg.Opponent.FixedHealth
			opp.CurrentHealth = cfg.Opponent.FixedHealth
			opponents = append(opponents, opp)
		} else {
			opponents = append(opponents, nil) // rolled below once the battle's rng exists
		}
	}

	b := battle.New(logger, cfg.Seed)
	for i, opp := range opponents {
		if opp == nil {
			opponents[i] = battle.NewCultist(b.Rand())
		}
	}

	player := battle.NewPlayer(battle.NewStarterDeck(), cfg.Player.MaxHealth)
	player.ApplyStatus(battle.StatusEnergyUser, cfg.Player.Energy)
	player.ApplyStatus(battle.StatusHandDrawer, cfg.Player.HandSize)
	b.SetPlayer(player)
	b.SetOpponents(opponents)

	rec := tensor.New(tensor.Config{
		ContextSize:          cfg.Tensorizer.ContextSize,
		IncludeTurnMarker:    cfg.Tensorizer.IncludeTurnMarker,
		IncludeActionHistory: cfg.Tensorizer.IncludeActionHistory,
		ActionHistoryLen:     cfg.Tensorizer.ActionHistoryLen,
	}, logger)

	logger.Info("starting battle",
		zap.Int64("seed", cfg.Seed),
		zap.Int("opponents", b.NumOpponents()),
		zap.String("playthrough_id", rec.ID()),
	)

	done := false
	for turn := 0; turn < *maxTurns && !done; turn++ {
		if err := b.StartTurn(); err != nil {
			return err
		}
		if done = drainAndReport(b, logger); done {
			break
		}

		// Play the first affordable card until nothing fits the budget.
		for {
			idx := firstAffordable(b.Player())
			if idx < 0 {
				break
			}
			target := 0
			if err := rec.RecordPlayCard(b, idx, target, 0); err != nil {
				return err
			}
			err := b.PlayCardFromHand(idx, target)
			if err != nil && !errors.Is(err, battle.ErrNoSuchOpponent) {
				return err
			}
			if done = drainAndReport(b, logger); done {
				break
			}
		}
		if done {
			break
		}

		for i, opp := range b.Opponents() {
			if opp.NextMove != nil {
				if err := rec.RecordEnemyAction(b, i, *opp.NextMove, 0); err != nil {
					return err
				}
			}
		}
		if err := rec.RecordEndTurn(b, 0); err != nil {
			return err
		}
		if err := b.EndTurn(); err != nil {
			return err
		}
		done = drainAndReport(b, logger)
	}

	out := *outPath
	if out == "" {
		out = filepath.Join(cfg.Replay.Dir, rec.ID()+".replay")
	}
	if err := rec.SavePlaythrough(out); err != nil {
		return err
	}

	logger.Info("battle finished",
		zap.Stringer("phase", b.CurrentPhase()),
		zap.Int("turns", b.Turn()),
		zap.String("replay", out),
	)
	return nil
}

// firstAffordable returns the hand index of the first card the player can
// pay for, or -1.
func firstAffordable(p *battle.Player) int {
	for i, card := range p.Hand {
		if card.Cost() <= p.Energy {
			return i
		}
	}
	return -1
}

// drainAndReport logs pending battle events and reports whether the battle
// reached a terminal state.
func drainAndReport(b *battle.Battle, logger *zap.Logger) bool {
	terminal := false
	for _, event := range b.DrainEvents() {
		logger.Info("battle event", zap.Stringer("event", event))
		if event == battle.EventWinBattle || event == battle.EventPlayerDeath {
			terminal = true
		}
	}
	return terminal
}

// inspect decodes a replay file and prints a per-step summary.
func inspect(path string, logger *zap.Logger) error {
	p, err := tensor.LoadPlaythrough(path, logger)
	if err != nil {
		return err
	}
	fmt.Printf("playthrough %s: %d records (format v%d, vocab v%d)\n",
		p.ID(), len(p.Steps), p.Header.Version, p.Vocabulary().Version)

	for i, step := range tensor.DecodePlaythrough(p.Steps) {
		flags := make([]string, 0, 2)
		if step.EndOfTurn {
			flags = append(flags, "end-of-turn")
		}
		if step.LikelyOpponentAction {
			flags = append(flags, "opponent-action")
		}
		suffix := ""
		if len(flags) > 0 {
			suffix = " [" + strings.Join(flags, ",") + "]"
		}
		fmt.Printf("step %3d turn %2d %-9s hp=%d/%d energy=%d hand=%d opponents=%d%s\n",
			i, step.Action.Turn, step.Action.Type,
			step.Player.HP, step.Player.MaxHP, step.Player.Energy,
			len(step.Player.Hand), len(step.Opponents), suffix)
	}
	return nil
}

// initLogger initializes the zap logger based on configuration.
func initLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	switch cfg.Level {
	case "debug":
		level = zapcore.DebugLevel
	case "info":
		level = zapcore.InfoLevel
	case "warn":
		level = zapcore.WarnLevel
	case "error":
		level = zapcore.ErrorLevel
	default:
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Development {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)
	return zapCfg.Build()
}
