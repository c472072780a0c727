package cli

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"smartcal/internal/agent"
	"smartcal/internal/config"
	"smartcal/internal/logger"
	"smartcal/internal/nodes"
	"smartcal/internal/notify"
	"smartcal/internal/storage"
	"smartcal/internal/store"
	"smartcal/internal/tracking"
	"smartcal/internal/weather"
	"smartcal/pkg"
)

// NewCheckCommand creates the `check` command, the cron entrypoint
func NewCheckCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Run one weather check cycle",
		Long: "Fetches the current temperature, logs it, and if warmth has been " +
			"sustained asks the model whether to create a camera test reminder.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd.Context(), opts.Config)
		},
	}
}

func runCheck(ctx context.Context, cfg *config.Config) error {
	st, err := store.Open(cfg.Store.DBPath)
	if err != nil {
		return err
	}
	defer st.Close()

	// Snoozed tasks whose window has passed come back first, so they
	// show up in the report below
	woke, err := st.WakeDue(ctx, time.Now())
	if err != nil {
		return err
	}
	if woke > 0 {
		logger.Info().Int64("count", woke).Msg("snoozed tasks woke up")
	}

	processor, err := buildProcessor(ctx, cfg, st)
	if err != nil {
		return err
	}

	run := startTrackedRun(ctx, cfg)
	run.LogParam(ctx, "location", cfg.Weather.Location)
	run.LogParam(ctx, "temp_threshold", strconv.FormatFloat(cfg.Weather.TempThreshold, 'f', -1, 64))
	run.LogParam(ctx, "duration_checks", strconv.Itoa(cfg.Weather.DurationChecks))

	result, execErr := processor.Execute(ctx)

	if result != nil {
		if len(result.ExecutionPath) > 1 {
			run.LogMetric(ctx, "current_temp", result.Temp)
		}
		run.LogMetric(ctx, "tasks_created", boolMetric(result.TaskCreated))
		run.LogMetric(ctx, "reminders_sent", boolMetric(result.ReminderSent))
		if result.Decision != nil {
			run.SetTag(ctx, "llm_reasoning", result.Decision.Reasoning)
		}
	}

	if execErr != nil {
		run.End(ctx, tracking.StatusFailed)
		return execErr
	}
	run.End(ctx, tracking.StatusFinished)

	return printOpenTasks(ctx, st, 5)
}

// buildProcessor wires the check cycle node graph
func buildProcessor(ctx context.Context, cfg *config.Config, st *store.Store) (*agent.GraphProcessor, error) {
	weatherClient, err := weather.NewClient(cfg.Weather.APIURL, cfg.Weather.APIKey,
		cfg.Weather.Location, cfg.Weather.Timeout)
	if err != nil {
		return nil, err
	}

	chatModel, err := nodes.NewChatModel(ctx, cfg.Model)
	if err != nil {
		return nil, fmt.Errorf("error creating chat model: %w", err)
	}

	reasonNode, err := nodes.NewReasonNode(ctx, chatModel, cfg.Weather.Location,
		cfg.Weather.TempThreshold, cfg.Weather.DurationChecks, cfg.Weather.CheckInterval)
	if err != nil {
		return nil, err
	}

	cooldown := buildCooldown(ctx, cfg)
	notifier := buildNotifier(cfg)

	processor := agent.NewGraphProcessor(agent.DefaultFlow())
	for _, node := range []agent.Node{
		nodes.NewWeatherNode(weatherClient, st, cfg.Weather.TempThreshold),
		nodes.NewEvaluateNode(st, cfg.Weather.TempThreshold, cfg.Weather.DurationChecks, cfg.Weather.CheckInterval, cooldown),
		reasonNode,
		nodes.NewTaskNode(st),
		nodes.NewRemindNode(notifier, cooldown, cfg.Notify.CooldownTTL),
	} {
		if err := processor.AddNode(node); err != nil {
			return nil, err
		}
	}

	return processor, nil
}

func buildCooldown(ctx context.Context, cfg *config.Config) storage.Cooldown {
	if cfg.Redis.URL == "" {
		return storage.NewNoopCooldown()
	}

	cooldown, err := storage.NewRedisCooldown(ctx, cfg.Redis.URL, cfg.Weather.Location)
	if err != nil {
		logger.Warn().Err(err).Msg("Redis unavailable, reminder cooldown disabled")
		return storage.NewNoopCooldown()
	}
	return cooldown
}

func buildNotifier(cfg *config.Config) notify.Notifier {
	notifiers := []notify.Notifier{notify.NewConsoleNotifier()}
	if cfg.Notify.DiscordWebhookURL != "" {
		notifiers = append(notifiers, notify.NewDiscordNotifier(cfg.Notify.DiscordWebhookURL))
	}
	return notify.NewMulti(notifiers...)
}

func startTrackedRun(ctx context.Context, cfg *config.Config) tracking.Run {
	var tracker tracking.Tracker = tracking.NewNoopTracker()

	if cfg.Tracking.URI != "" {
		client, err := tracking.NewMLflowClient(ctx, cfg.Tracking.URI, cfg.Tracking.Experiment)
		if err != nil {
			logger.Warn().Err(err).Msg("MLflow unavailable, run tracking disabled")
		} else {
			tracker = client
		}
	}

	run, err := tracker.StartRun(ctx, "check-"+time.Now().Format(time.RFC3339))
	if err != nil {
		logger.Warn().Err(err).Msg("failed to start tracking run")
		noop, _ := tracking.NewNoopTracker().StartRun(ctx, "")
		return noop
	}
	return run
}

func boolMetric(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

func printOpenTasks(ctx context.Context, st *store.Store, limit int) error {
	tasks, err := st.OpenTasks(ctx, limit)
	if err != nil {
		return err
	}

	if len(tasks) > 0 {
		fmt.Println("\n📋 The List:")
		for _, task := range tasks {
			fmt.Printf("  %s\n", pkg.FormatTaskLine(task))
		}
	}
	return nil
}
