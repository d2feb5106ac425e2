package launcher

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"jasper-launcher/internal/application"
	"jasper-launcher/internal/application/command"
	"jasper-launcher/internal/application/command/save_settings"
	"jasper-launcher/internal/application/config"
	"jasper-launcher/internal/application/notify"
	"jasper-launcher/internal/application/query"
	"jasper-launcher/internal/application/query/get_image_tags"
	"jasper-launcher/internal/application/stack"
	"jasper-launcher/internal/domain/model"
	"jasper-launcher/internal/domain/repository"
	"jasper-launcher/internal/domain/service/credentials"
	"jasper-launcher/internal/domain/service/environment"
	"jasper-launcher/internal/infra/compose/embedded"
	"jasper-launcher/internal/infra/control"
	"jasper-launcher/internal/infra/metrics"
	"jasper-launcher/internal/infra/orchestrator/docker_compose"
	"jasper-launcher/internal/infra/readiness"
	"jasper-launcher/internal/infra/settings"
	"jasper-launcher/pkg/capabilities"
	"jasper-launcher/pkg/cqrs"
	"jasper-launcher/pkg/log"
	"jasper-launcher/pkg/template"
)

// Launcher owns the settings store, the stack controller and the surfaces
// that expose them. There is one per process.
type Launcher struct {
	config    *config.Config
	dataPath  string
	startTime time.Time

	settings   *settings.Store
	hub        *notify.Hub
	issuer     *credentials.Issuer
	env        *environment.Materializer
	controller *stack.Controller
	containers repository.ContainerRepository
	history    repository.HistoryRepository

	commandBus *cqrs.DefaultCommandBus
	queryBus   *cqrs.DefaultQueryBus
	recorder   *metrics.Recorder
	health     *control.Health
	watcher    *application.SettingsWatcher

	closeHistory func() error
}

// NewLauncher resolves the data directory, loads settings and wires every
// component. ctx bounds the command bus: cancelling it stops accepting commands.
func NewLauncher(ctx context.Context, cfg *config.Config) (*Launcher, error) {
	start := time.Now()

	dataPath, err := config.ResolveDataPath(cfg)
	if err != nil {
		return nil, err
	}

	store := application.NewSettingsRepository(dataPath)
	if _, err := store.Load(); err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}

	if cfg.UsesBundledCompose() {
		manager, err := embedded.NewManager(config.BundledComposeDir(dataPath))
		if err != nil {
			return nil, err
		}
		if err := manager.SyncFiles(); err != nil {
			return nil, fmt.Errorf("failed to sync bundled compose project: %w", err)
		}
	}
	repositories := inspectProject(cfg.ComposeFilePath(dataPath))

	l := &Launcher{
		config:    cfg,
		dataPath:  dataPath,
		startTime: start,
		settings:  store,
		hub:       notify.NewHub(0),
	}

	l.issuer = credentials.NewIssuer(cfg.TokenRole, cfg.IsLenientKeys())
	l.env = environment.NewMaterializer(l.issuer, cfg.TokenSubject)
	runner := application.NewRunnerRepository(cfg, dataPath, stack.StreamLogs(l.hub))
	l.controller = stack.NewController(store, l.issuer, l.env, runner, l.hub)

	if cfg.IsFeatureEnabled(config.FeatureReadinessWait) {
		l.controller.WithReadiness(readiness.NewProber())
	}
	l.history, l.closeHistory = application.NewHistoryRepository(ctx, cfg, dataPath)
	if l.history != nil {
		l.controller.WithHistory(l.history)
	}

	var writeObserver save_settings.WriteObserver
	if cfg.IsFeatureEnabled(config.FeatureMetrics) {
		l.recorder = metrics.NewRecorder(start)
		l.controller.WithObserver(l.recorder)
		writeObserver = l.recorder
	}
	if cfg.IsFeatureEnabled(config.FeatureGRPCHealth) {
		l.health = control.NewHealth()
		l.controller.OnStateChange(l.health.SetStackState)
	}

	l.containers = application.NewContainerRepository(cfg)

	// Create command bus and register handlers
	l.commandBus = cqrs.NewCommandBus(ctx)
	if err := command.RegisterCommandHandlers(l.commandBus, store, l.controller, l.hub, writeObserver); err != nil {
		return nil, err
	}

	// Create query bus and register handlers
	l.queryBus = cqrs.NewQueryBus()
	if err := query.RegisterQueryHandlers(l.queryBus, store, l.controller, l.containers, l.history, cfg.ProjectName, repositories); err != nil {
		return nil, err
	}

	l.watcher = application.NewSettingsWatcher(store, l.hub)

	log.Info("Launcher initialized", "data_path", dataPath, "compose_file", cfg.ComposeFilePath(dataPath), "settings", store.Path())
	return l, nil
}

// inspectProject reads the compose file for the image repositories behind each
// service and warns about tunnel profiles it does not declare.
func inspectProject(composeFile string) get_image_tags.Repositories {
	project, err := docker_compose.LoadProject(composeFile)
	if err != nil {
		log.Warn("Could not read compose project, local image tags disabled", "error", err)
		return get_image_tags.Repositories{}
	}
	if missing := project.MissingProfiles([]string{model.ProfileCloudflare, model.ProfileNgrok}); len(missing) > 0 {
		log.Warn("Compose project does not declare tunnel profiles", "missing", missing)
	}
	return get_image_tags.Repositories{
		Server:   project.ImageRepository("server"),
		Client:   project.ImageRepository("web"),
		Database: project.ImageRepository("db"),
		Ssh:      project.ImageRepository("ssh"),
	}
}

// Settings returns the live settings repository.
func (l *Launcher) Settings() *settings.Store {
	return l.settings
}

// Controller returns the stack controller.
func (l *Launcher) Controller() *stack.Controller {
	return l.controller
}

// Hub returns the event hub.
func (l *Launcher) Hub() *notify.Hub {
	return l.hub
}

// CommandBus returns the command bus.
func (l *Launcher) CommandBus() cqrs.CommandBus {
	return l.commandBus
}

// QueryBus returns the query bus.
func (l *Launcher) QueryBus() cqrs.QueryBus {
	return l.queryBus
}

// Environment materializes the variables a start would use right now.
func (l *Launcher) Environment() (model.Environment, error) {
	key, err := l.issuer.IssueKey()
	if err != nil {
		return nil, err
	}
	return l.env.Materialize(l.settings.Get(), key)
}

// Images resolves the image each compose service would run with the
// environment of the next start.
func (l *Launcher) Images() (map[string]string, error) {
	project, err := docker_compose.LoadProject(l.config.ComposeFilePath(l.dataPath))
	if err != nil {
		return nil, err
	}
	vars, err := l.Environment()
	if err != nil {
		return nil, err
	}
	// Compose sees the launcher's own environment underneath the materialized one.
	return project.Images(template.Chain(vars.Lookup, template.OSLookup))
}

// Run starts the stack in the background, serves the control API and blocks
// until ctx is cancelled or a listener fails. On the way out it takes the
// stack down when configured to.
func (l *Launcher) Run(ctx context.Context) error {
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	controlListener, err := net.Listen("tcp", l.config.ControlAddress)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", l.config.ControlAddress, err)
	}

	opts := control.Options{}
	if l.recorder != nil {
		opts.Metrics = l.recorder.Handler()
		opts.OnSubscribers = l.recorder.SetEventSubscribers
	}
	server := control.NewServer(l.commandBus, l.queryBus, l.hub, opts)

	errCh := make(chan error, 2)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := server.Serve(runCtx, controlListener); err != nil {
			errCh <- err
		}
	}()

	if l.health != nil {
		grpcListener, err := net.Listen("tcp", l.config.GRPCAddress)
		if err != nil {
			cancel()
			wg.Wait()
			return fmt.Errorf("failed to listen on %s: %w", l.config.GRPCAddress, err)
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := l.health.Serve(runCtx, grpcListener); err != nil {
				errCh <- err
			}
		}()
	}

	if err := l.watcher.Start(runCtx); err != nil {
		log.Warn("Settings watcher not started", "error", err)
	}
	defer l.watcher.Stop()

	reports := capabilities.NewCapabilityFactory(l.config.DockerBinary).Probe(runCtx)
	if missing := capabilities.Missing(reports); len(missing) > 0 {
		log.Warn("Host is missing launcher prerequisites", "missing", missing)
	}
	task := l.controller.StartAsync(runCtx)

	var runErr error
	select {
	case <-ctx.Done():
		log.Info("Shutting down launcher")
	case runErr = <-errCh:
		log.Error("Launcher surface failed", "error", runErr)
	}

	cancel()
	l.commandBus.Shutdown()
	l.queryBus.Shutdown()
	l.commandBus.WaitForCompletion()
	l.queryBus.WaitForCompletion()
	if err := <-task.Done(); err != nil && !errors.Is(err, context.Canceled) {
		log.Debug("Start did not complete", "error", err)
	}
	wg.Wait()

	if l.config.IsStopOnExit() {
		log.Info("Stopping stack before exit")
		// No deadline: compose down finishes or the process is killed by a second signal.
		if err := l.controller.Stop(context.Background()); err != nil {
			log.Error("Failed to stop stack on exit", "error", err)
		}
	}
	return runErr
}

// Close releases the history database and ends every event subscription.
func (l *Launcher) Close() {
	l.hub.Close()
	if l.closeHistory != nil {
		if err := l.closeHistory(); err != nil {
			log.Warn("Failed to close command history", "error", err)
		}
	}
}
