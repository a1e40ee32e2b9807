// Package conductor parses self-play command flags and runs a full match.
package conductor

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/louisbranch/diplomacy.space/internal/game/agent"
	"github.com/louisbranch/diplomacy.space/internal/game/archive"
	archivesqlite "github.com/louisbranch/diplomacy.space/internal/game/archive/sqlite"
	gameconductor "github.com/louisbranch/diplomacy.space/internal/game/conductor"
	"github.com/louisbranch/diplomacy.space/internal/game/engine"
	"github.com/louisbranch/diplomacy.space/internal/game/engine/standard"
	"github.com/louisbranch/diplomacy.space/internal/game/loop"
	"github.com/louisbranch/diplomacy.space/internal/id"
	entrypoint "github.com/louisbranch/diplomacy.space/internal/platform/cmd"
	"github.com/louisbranch/diplomacy.space/internal/random"
)

// Agent kinds selectable from the command line.
const (
	AgentHold   = "hold"
	AgentRandom = "random"
	AgentOpenAI = "openai"
)

// Config holds self-play command configuration.
type Config struct {
	Seed        int64  `env:"DIPLOMACY_SPACE_SEED"`
	MaxPhases   int    `env:"DIPLOMACY_SPACE_MAX_PHASES"     envDefault:"1000"`
	Agent       string `env:"DIPLOMACY_SPACE_AGENT"          envDefault:"random"`
	Model       string `env:"DIPLOMACY_SPACE_OPENAI_MODEL"   envDefault:"gpt-4.1-nano"`
	APIKey      string `env:"DIPLOMACY_SPACE_OPENAI_API_KEY"`
	ArchivePath string `env:"DIPLOMACY_SPACE_ARCHIVE_PATH"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.Int64Var(&cfg.Seed, "seed", cfg.Seed, "RNG seed for reproducibility (0 picks a random seed)")
	fs.IntVar(&cfg.MaxPhases, "max-phases", cfg.MaxPhases, "stop the match after N phases")
	fs.StringVar(&cfg.Agent, "agent", cfg.Agent, "agent kind controlling every power (hold, random, openai)")
	fs.StringVar(&cfg.Model, "model", cfg.Model, "model identifier for the openai agent")
	fs.StringVar(&cfg.APIKey, "api-key", cfg.APIKey, "API key for the openai agent")
	fs.StringVar(&cfg.ArchivePath, "archive", cfg.ArchivePath, "path to the sqlite match archive (empty disables archiving)")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run launches a self-play match where every power is controlled by the
// configured agent kind.
func Run(ctx context.Context, cfg Config, out io.Writer, errOut io.Writer) error {
	if out == nil {
		out = io.Discard
	}
	if errOut == nil {
		errOut = io.Discard
	}
	switch cfg.Agent {
	case AgentHold, AgentRandom, AgentOpenAI:
	default:
		return fmt.Errorf("unknown agent kind %q", cfg.Agent)
	}
	if cfg.MaxPhases <= 0 {
		return errors.New("max-phases must be positive")
	}

	seed := cfg.Seed
	if seed == 0 {
		var err error
		if seed, err = random.NewSeed(); err != nil {
			return err
		}
	}

	var recorder *archive.Recorder
	if cfg.ArchivePath != "" {
		store, err := archivesqlite.Open(cfg.ArchivePath)
		if err != nil {
			return fmt.Errorf("open archive: %w", err)
		}
		defer store.Close()
		matchID, err := id.NewID()
		if err != nil {
			return err
		}
		recorder = archive.NewRecorder(store, matchID)
	}

	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceConductor, func(ctx context.Context) error {
		eng := standard.New()
		cond, err := gameconductor.New(eng, gameconductor.Options{
			Recorder:  recorder,
			MaxPhases: cfg.MaxPhases,
		})
		if err != nil {
			return err
		}
		recorder.Begin(ctx, seed, cond.Powers())

		group, ctx := errgroup.WithContext(ctx)
		for i, power := range cond.Powers() {
			facade, err := cond.Facade(power)
			if err != nil {
				return err
			}
			mb, ok := cond.Mailbox(power)
			if !ok {
				return fmt.Errorf("no mailbox for %s", power)
			}
			decider, err := newDecider(cfg, seed+int64(i))
			if err != nil {
				return err
			}
			l := loop.New(facade, mb, decider)
			group.Go(func() error { return l.Run(ctx) })
		}
		group.Go(func() error { return cond.Run(ctx) })

		if err := group.Wait(); err != nil {
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		}

		writeStandings(out, eng.Snapshot())
		return nil
	})
}

func newDecider(cfg Config, seed int64) (loop.Decider, error) {
	switch cfg.Agent {
	case AgentHold:
		return agent.NewHold(), nil
	case AgentRandom:
		return agent.NewRandom(seed), nil
	case AgentOpenAI:
		return agent.NewOpenAI(agent.OpenAIConfig{
			APIKey: cfg.APIKey,
			Model:  cfg.Model,
		})
	default:
		return nil, fmt.Errorf("unknown agent kind %q", cfg.Agent)
	}
}

func writeStandings(out io.Writer, board engine.BoardState) {
	counts := engine.CenterCounts(board)
	powers := make([]string, 0, len(counts))
	for power := range counts {
		powers = append(powers, power)
	}
	sort.Slice(powers, func(i, j int) bool {
		if counts[powers[i]] != counts[powers[j]] {
			return counts[powers[i]] > counts[powers[j]]
		}
		return powers[i] < powers[j]
	})

	fmt.Fprintf(out, "Final standings (%s):\n", board.Phase)
	for _, power := range powers {
		fmt.Fprintf(out, "  %s: %d centers\n", power, counts[power])
	}
}
