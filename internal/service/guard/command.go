package guard

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/oshokin/loadshed-guard/internal/api/grpc/health"
	"github.com/oshokin/loadshed-guard/internal/api/http/status"
	"github.com/oshokin/loadshed-guard/internal/config"
	"github.com/oshokin/loadshed-guard/internal/domain/outage"
	"github.com/oshokin/loadshed-guard/internal/logger"
	"github.com/oshokin/loadshed-guard/internal/provider/sepush"
	"github.com/oshokin/loadshed-guard/internal/provider/tuya"
	repository "github.com/oshokin/loadshed-guard/internal/repository/state"
	"github.com/oshokin/loadshed-guard/internal/service/common"
	"github.com/oshokin/loadshed-guard/internal/service/power"
	"github.com/oshokin/loadshed-guard/internal/service/schedule"
	"github.com/oshokin/loadshed-guard/internal/service/shutdown"
	"github.com/oshokin/loadshed-guard/internal/telemetry"
)

// Options controls the guard process.
type Options struct {
	// ConfigPath specifies the path to the settings YAML file.
	ConfigPath string
	// DryRun logs switch-offs instead of sending them, overriding the config.
	DryRun bool
	// AllowMultiple skips the check for another running guard.
	AllowMultiple bool
	// StatusAddress overrides the HTTP status listen address.
	StatusAddress string
	// GRPCAddress overrides the gRPC health listen address.
	GRPCAddress string
}

// Run starts the guard and blocks until the context is canceled or a server fails.
//
//nolint:funlen // Wiring reads best top to bottom.
func Run(ctx context.Context, opts *Options) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}

	// Set context with logger name for tracking.
	ctx = logger.WithName(ctx, "guard")

	if !opts.AllowMultiple {
		if err = common.EnsureSingleInstance(); err != nil {
			return err
		}
	}

	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	schedules, err := newScheduleClient(cfg, loc)
	if err != nil {
		return err
	}

	cloud, err := newCloudClient(cfg)
	if err != nil {
		return err
	}

	device := power.NewDevice(cloud, cfg.Tuya.DeviceID, cfg.Tuya.SwitchCode)

	var switcher shutdown.Switcher = device
	if cfg.Guard.DryRun {
		switcher = power.DryRun{Device: device}
	}

	repo := repository.NewFileRepository(cfg.StateFile)

	last, err := repo.Load(ctx)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		logger.WarnKV(ctx, "Ignoring unreadable state file", "state_file", cfg.StateFile, "error", err)
	}

	actor, err := common.DetectActor()
	if err != nil {
		logger.WarnKV(ctx, "Unable to detect actor", "error", err)
	}

	metrics := telemetry.NewMetrics()

	scheduler := shutdown.New(shutdown.Options{
		DeviceID:       cfg.Tuya.DeviceID,
		Switcher:       switcher,
		Recorder:       repo,
		Actor:          actor,
		CommandTimeout: cfg.Guard.CommandTimeout,
		DryRun:         cfg.Guard.DryRun,
		Last:           last,
		OnFire: func(record *outage.Shutdown) {
			result := "ok"
			if !record.Succeeded() {
				result = "error"
			}

			metrics.ShutdownCommands.WithLabelValues(result).Inc()
		},
	})

	var stages schedule.StageProvider
	if cfg.StageFeedEnabled() {
		stages = schedules
	}

	g := New(Params{
		AreaID:    cfg.Area.ID,
		DeviceID:  cfg.Tuya.DeviceID,
		Location:  loc,
		LeadTime:  cfg.Guard.LeadTime,
		DryRun:    cfg.Guard.DryRun,
		Cache:     schedule.New(cfg.Area.ID, schedules, stages),
		Device:    device,
		Scheduler: scheduler,
		Metrics:   metrics,
	})

	logger.InfoKV(ctx, "Guard starting",
		"area", cfg.Area.ID,
		"device_id", cfg.Tuya.DeviceID,
		"lead_time", cfg.Guard.LeadTime.String(),
		"status_region", cfg.Area.StatusRegion,
		"dry_run", cfg.Guard.DryRun,
	)

	logAllowance(ctx, schedules, cfg.SePush.Timeout)

	// Initial refresh so the first device check has data; failures are retried by the loops.
	if err = g.RefreshSchedule(ctx); err != nil {
		logger.ErrorKV(ctx, "Initial schedule refresh failed", "error", err)
	}

	if err = g.RefreshStage(ctx); err != nil {
		logger.ErrorKV(ctx, "Initial stage refresh failed", "error", err)
	}

	eg, egCtx := errgroup.WithContext(ctx)

	eg.Go(func() error {
		every(egCtx, "schedule refresh", cfg.Guard.ScheduleRefresh, cfg.SePush.Timeout, false, g.RefreshSchedule)

		return nil
	})

	if cfg.StageFeedEnabled() {
		eg.Go(func() error {
			every(egCtx, "stage refresh", cfg.Guard.StageRefresh, cfg.SePush.Timeout, false, g.RefreshStage)

			return nil
		})
	}

	eg.Go(func() error {
		every(egCtx, "device check", cfg.Guard.DeviceCheck, cfg.Tuya.Timeout*2, true, func(ctx context.Context) error {
			_, err := g.CheckDevice(ctx)

			return err
		})

		return nil
	})

	if cfg.Status.Address != "" {
		eg.Go(func() error {
			return status.NewServer(g, metrics).Run(egCtx, cfg.Status.Address)
		})
	}

	if cfg.GRPC.Address != "" {
		eg.Go(func() error {
			return health.NewServer(g.Ready, health.DefaultPollInterval).Run(egCtx, cfg.GRPC.Address)
		})
	}

	err = eg.Wait()

	// Never fire after the process has decided to exit.
	scheduler.Close(context.WithoutCancel(ctx))

	logger.Info(ctx, "Guard stopped")

	return err
}

// Predict fetches the schedule once and predicts the next outage.
func Predict(ctx context.Context, opts *Options) (*Prediction, error) {
	cfg, err := loadConfig(opts)
	if err != nil {
		return nil, err
	}

	ctx = logger.WithName(ctx, "guard")

	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	schedules, err := newScheduleClient(cfg, loc)
	if err != nil {
		return nil, err
	}

	var stages schedule.StageProvider
	if cfg.StageFeedEnabled() {
		stages = schedules
	}

	cache := schedule.New(cfg.Area.ID, schedules, stages)

	if err = cache.RefreshSchedule(ctx); err != nil {
		return nil, err
	}

	if stages != nil {
		if err = cache.RefreshStage(ctx); err != nil {
			logger.WarnKV(ctx, "Stage unavailable, relying on events", "error", err)
		}
	}

	prediction := predict(cache.Snapshot(), time.Now(), loc)

	return &prediction, nil
}

// Allowance returns the remaining EskomSePush quota.
func Allowance(ctx context.Context, opts *Options) (sepush.Allowance, error) {
	cfg, err := loadConfig(opts)
	if err != nil {
		return sepush.Allowance{}, err
	}

	loc, err := cfg.Location()
	if err != nil {
		return sepush.Allowance{}, err
	}

	client, err := newScheduleClient(cfg, loc)
	if err != nil {
		return sepush.Allowance{}, err
	}

	return client.Allowance(ctx)
}

// loadConfig reads settings, applies command line overrides and sets up logging.
func loadConfig(opts *Options) (*config.Config, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}

	if opts.DryRun {
		cfg.Guard.DryRun = true
	}

	if opts.StatusAddress != "" {
		cfg.Status.Address = opts.StatusAddress
	}

	if opts.GRPCAddress != "" {
		cfg.GRPC.Address = opts.GRPCAddress
	}

	logger.Setup(cfg.LogLevel, cfg.LogFormat)

	return cfg, nil
}

func newScheduleClient(cfg *config.Config, loc *time.Location) (*sepush.Client, error) {
	client, err := sepush.New(sepush.Options{
		BaseURL:      cfg.SePush.BaseURL,
		Token:        cfg.SePush.Token,
		Test:         cfg.Area.Test,
		StatusRegion: cfg.Area.StatusRegion,
		Location:     loc,
		Timeout:      cfg.SePush.Timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("create sepush client: %w", err)
	}

	return client, nil
}

func newCloudClient(cfg *config.Config) (*tuya.Client, error) {
	client, err := tuya.New(tuya.Options{
		ClientID:  cfg.Tuya.ClientID,
		Secret:    cfg.Tuya.Secret,
		Region:    cfg.Tuya.Region,
		BaseURL:   cfg.Tuya.BaseURL,
		Timeout:   cfg.Tuya.Timeout,
		RateLimit: cfg.Tuya.RateLimit,
	})
	if err != nil {
		return nil, fmt.Errorf("create tuya client: %w", err)
	}

	return client, nil
}

func logAllowance(ctx context.Context, client *sepush.Client, timeout time.Duration) {
	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	allowance, err := client.Allowance(callCtx)
	if err != nil {
		logger.WarnKV(ctx, "Unable to read API allowance", "error", err)

		return
	}

	logger.InfoKV(ctx, "EskomSePush allowance",
		"used", allowance.Count,
		"limit", allowance.Limit,
		"remaining", allowance.Remaining(),
	)
}

// every runs fn on each tick of interval until ctx is canceled, optionally
// once right away. Each run gets its own timeout; failures are logged and the
// loop carries on.
func every(
	ctx context.Context,
	name string,
	interval, timeout time.Duration,
	immediately bool,
	fn func(ctx context.Context) error,
) {
	run := func() {
		tickCtx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		if err := fn(tickCtx); err != nil {
			logger.ErrorKV(ctx, "Tick failed", "task", name, "error", err)
		}
	}

	if immediately {
		run()
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.InfoKV(ctx, "Loop stopped", "task", name)

			return
		case <-ticker.C:
			run()
		}
	}
}
