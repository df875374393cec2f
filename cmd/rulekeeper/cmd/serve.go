package cmd

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/homectl/rulekeeper/internal/condition"
	"github.com/homectl/rulekeeper/internal/core/config"
	"github.com/homectl/rulekeeper/internal/journal"
	"github.com/homectl/rulekeeper/internal/pipeline"
	"github.com/homectl/rulekeeper/internal/store"
	"github.com/homectl/rulekeeper/internal/types"
)

const Version = "0.1.0"

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the rule evaluator, feeding events from stdin (JSONL)",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("rules-file", "", "path to the rules document")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if cmd.Flags().Changed("rules-file") {
		cfg.RulesFile, _ = cmd.Flags().GetString("rules-file")
	}
	if dbURL != "" {
		cfg.DatabaseURL = dbURL
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	if logFormat != "" {
		cfg.LogFormat = logFormat
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	log, err := newLogger(cfg)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(cfg.RulesFile), 0o755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	registry := condition.NewBuiltinRegistry()
	taskStore := store.New(cfg.RulesFile, registry, log)
	if err := taskStore.Open(); err != nil {
		return fmt.Errorf("failed to open rules file: %w", err)
	}

	var recorder pipeline.Recorder
	if cfg.DatabaseURL != "" {
		db, err := journal.Open(cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("failed to open journal database: %w", err)
		}
		defer db.Close()
		if err := journal.MigrateUp(db); err != nil {
			return fmt.Errorf("failed to migrate journal database: %w", err)
		}
		j, err := journal.New(db)
		if err != nil {
			return fmt.Errorf("failed to load journal queries: %w", err)
		}
		recorder = j
	}

	if cfg.WatchRules {
		watcher, err := store.NewWatcher(taskStore, log)
		if err != nil {
			return fmt.Errorf("failed to watch rules file: %w", err)
		}
		defer watcher.Close()
	}

	pipe := pipeline.New(taskStore, &logDispatcher{log: log}, recorder, log)

	log.Info().Str("version", Version).Str("rulesFile", cfg.RulesFile).Msg("rulekeeper started")

	done := make(chan struct{})
	go func() {
		defer close(done)
		feedEvents(os.Stdin, pipe, log)
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-done:
		log.Info().Msg("event stream closed, shutting down")
	case <-sigChan:
		log.Info().Msg("shutting down gracefully")
	}
	return nil
}

// feedEvents reads one JSON event per line and runs it through the
// pipeline. Malformed lines are logged and skipped.
func feedEvents(r *os.File, pipe *pipeline.Pipeline, log zerolog.Logger) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		event, err := decodeEvent(line)
		if err != nil {
			log.Warn().Err(err).Msg("skipping malformed event line")
			continue
		}
		pipe.ProcessEvent(event)
	}
	if err := scanner.Err(); err != nil {
		log.Error().Err(err).Msg("event stream read failed")
	}
}

// wireEvent is the JSONL wire form of a domain event, discriminated by
// the "event" field.
type wireEvent struct {
	Event   string `json:"event"`
	Updates []struct {
		Device   string `json:"device"`
		Name     string `json:"name"`
		OldValue any    `json:"oldValue"`
		NewValue any    `json:"newValue"`
	} `json:"updates,omitempty"`
	Device      string `json:"device,omitempty"`
	Person      string `json:"person,omitempty"`
	OldLocation string `json:"oldLocation,omitempty"`
	NewLocation string `json:"newLocation,omitempty"`
	Task        string `json:"task,omitempty"`
}

func decodeEvent(line []byte) (types.Event, error) {
	var w wireEvent
	if err := json.Unmarshal(line, &w); err != nil {
		return nil, err
	}

	switch w.Event {
	case types.EventIDVariableUpdate:
		e := types.VariableUpdateEvent{}
		for _, u := range w.Updates {
			e.Updates = append(e.Updates, types.VariableUpdate{
				Device:   types.DeviceRef(u.Device),
				Name:     u.Name,
				OldValue: u.OldValue,
				NewValue: u.NewValue,
			})
		}
		return e, nil
	case types.EventIDDeviceUnavailable:
		return types.DeviceUnavailableEvent{Device: types.DeviceRef(w.Device)}, nil
	case types.EventIDPresenceUpdate:
		return types.PresenceUpdateEvent{
			Person:      types.PersonRef(w.Person),
			OldLocation: types.LocationRef(w.OldLocation),
			NewLocation: types.LocationRef(w.NewLocation),
		}, nil
	case types.EventIDExecuteTask:
		return types.ExecuteTaskEvent{Task: types.TaskID(w.Task)}, nil
	default:
		return nil, fmt.Errorf("unknown event kind %q", w.Event)
	}
}

// logDispatcher reports dispatches without executing them; the standalone
// binary has no host action registry to hand them to.
type logDispatcher struct {
	log zerolog.Logger
}

func (d *logDispatcher) ExecuteActionSet(actionSetID string) error {
	d.log.Info().Str("actionSet", actionSetID).Msg("execute action set")
	return nil
}

func (d *logDispatcher) FireTaskTrigger(taskID types.TaskID) error {
	d.log.Info().Str("task", string(taskID)).Msg("fire task trigger")
	return nil
}

func newLogger(cfg *config.Config) (zerolog.Logger, error) {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		return zerolog.Logger{}, fmt.Errorf("invalid log level: %w", err)
	}

	var log zerolog.Logger
	if cfg.LogFormat == "text" {
		log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr})
	} else {
		log = zerolog.New(os.Stderr)
	}
	return log.Level(level).With().Timestamp().Logger(), nil
}
