package app

import (
	"context"
	"fmt"

	"github.com/spf13/afero"

	"github.com/2mushr00m/dialLog/auth"
	"github.com/2mushr00m/dialLog/cache"
	"github.com/2mushr00m/dialLog/config"
	"github.com/2mushr00m/dialLog/errors"
	"github.com/2mushr00m/dialLog/httpclient"
	"github.com/2mushr00m/dialLog/langdetect"
	"github.com/2mushr00m/dialLog/logger"
	"github.com/2mushr00m/dialLog/media"
	"github.com/2mushr00m/dialLog/observability"
	"github.com/2mushr00m/dialLog/provider"
	"github.com/2mushr00m/dialLog/redis"
	"github.com/2mushr00m/dialLog/router"
	"github.com/2mushr00m/dialLog/transcription"
	"github.com/2mushr00m/dialLog/transcription/clova"
	"github.com/2mushr00m/dialLog/transcription/google"
	"github.com/2mushr00m/dialLog/version"
	"github.com/2mushr00m/dialLog/worker"
)

// EngineRouter is the registry name of the routed pipeline.
const EngineRouter = router.Name

// App holds every wired component.
type App struct {
	Cfg     *config.Config
	Log     *logger.Logger
	Fs      afero.Fs
	Metrics *observability.Metrics
	// Tokens is nil without a service account.
	Tokens  *auth.Provider
	Engines *provider.Registry[transcription.Provider]
	// Cache is nil when caching is disabled.
	Cache   *cache.ResultCache
	Redis   *redis.Client
	Summary *Summary

	opts   *appOptions
	onStop []Hook
}

// New wires an App from a loaded configuration.
func New(ctx context.Context, cfg *config.Config, opts ...Option) (*App, error) {
	if cfg == nil {
		return nil, errors.InvalidInput("config", "is required")
	}
	o := resolveOptions(opts)

	a := &App{
		Cfg:     cfg,
		Fs:      o.fs,
		Engines: transcription.NewRegistry(),
		Summary: NewSummary(version.Name, version.Short()),
		opts:    o,
	}
	if a.Fs == nil {
		a.Fs = afero.NewOsFs()
	}
	a.Log = o.logger
	if a.Log == nil {
		a.Log = logger.New(&cfg.Logging, version.Name)
	}

	if err := a.setupTelemetry(ctx); err != nil {
		return nil, err
	}
	if err := a.setupAuth(); err != nil {
		_ = a.Close(ctx)
		return nil, err
	}
	a.registerEngines()
	if err := a.setupCache(ctx); err != nil {
		_ = a.Close(ctx)
		return nil, err
	}

	a.Summary.Track("router", string(a.mode()), "default engine "+a.DefaultEngine())
	a.Summary.Log(a.Log)
	return a, nil
}

func (a *App) setupTelemetry(ctx context.Context) error {
	ocfg := a.Cfg.Observability
	if ocfg.ServiceVersion == "" {
		ocfg.ServiceVersion = version.Version
	}
	shutdown, err := observability.Setup(ctx, ocfg, a.Log)
	if err != nil {
		return fmt.Errorf("observability: %w", err)
	}
	a.OnStop(Hook(shutdown))
	a.Metrics = observability.DefaultMetrics()

	status := "disabled"
	if ocfg.Enabled {
		status = "enabled"
	}
	a.Summary.Track("observability", status, ocfg.Endpoint)
	return nil
}

func (a *App) setupAuth() error {
	acfg := a.Cfg.Auth
	if acfg.ServiceAccountFile == "" {
		a.Summary.Track("auth", "disabled", "no service account")
		return nil
	}
	cred, err := auth.LoadServiceAccount(a.Fs, acfg.ServiceAccountFile, acfg.TokenURL)
	if err != nil {
		return err
	}
	opts := []auth.Option{auth.WithLogger(a.Log)}
	if hc := a.opts.httpClient; hc != nil {
		opts = append(opts, auth.WithHTTPClient(httpclient.NewWithHTTPClient(
			httpclient.Config{Timeout: acfg.Timeout, UserAgent: version.UserAgent()}, hc)))
	}
	tokens, err := auth.NewProvider(cred, acfg, opts...)
	if err != nil {
		return err
	}
	a.Tokens = tokens
	a.Summary.Track("auth", "ready", cred.Email)
	return nil
}

func (a *App) registerEngines() {
	a.Engines.RegisterFactory(transcription.EngineStatic, transcription.StaticFactory())
	clovaOpts := []clova.Option{clova.WithLogger(a.Log), clova.WithMetrics(a.Metrics)}
	googleOpts := []google.Option{google.WithLogger(a.Log), google.WithMetrics(a.Metrics)}
	if hc := a.opts.httpClient; hc != nil {
		clovaOpts = append(clovaOpts, clova.WithTransport(hc))
		googleOpts = append(googleOpts, google.WithTransport(hc))
	}
	a.Engines.RegisterFactory(transcription.EngineClova, clova.Factory(a.Cfg.Clova, a.Fs, clovaOpts...))

	if a.Tokens != nil {
		a.Engines.RegisterFactory(transcription.EngineGoogle, google.Factory(a.Cfg.Google, a.Tokens, a.Fs, googleOpts...))
		a.Engines.RegisterFactory(EngineRouter, a.routerFactory())
	}
	for _, name := range a.Engines.List() {
		a.Summary.Track("engine", "registered", name)
	}
}

func (a *App) routerFactory() provider.Factory[transcription.Provider] {
	return func(map[string]any) (transcription.Provider, error) {
		local, err := a.Engines.Resolve(transcription.EngineClova, nil)
		if err != nil {
			return nil, err
		}
		g, err := a.Engines.Resolve(transcription.EngineGoogle, nil)
		if err != nil {
			return nil, err
		}
		cloud, ok := g.(router.CloudProvider)
		if !ok {
			return nil, errors.Internal(fmt.Errorf("engine %s has no quick mode", g.Name()))
		}
		probe := a.opts.probe
		if probe == nil {
			probe = media.NewWAVProbe(a.Fs)
		}
		detector := langdetect.New(a.Cfg.Detector, a.opts.identifier)
		return router.New(a.Cfg.Router, local, cloud, probe, detector,
			router.WithLogger(a.Log), router.WithMetrics(a.Metrics)), nil
	}
}

func (a *App) setupCache(ctx context.Context) error {
	ccfg := a.Cfg.Cache
	ccfg.ApplyDefaults()
	if !ccfg.Enabled {
		a.Summary.Track("cache", "disabled", "")
		return nil
	}
	if ccfg.Backend == cache.BackendRedis {
		a.Redis = a.opts.redis
		if a.Redis == nil {
			client, err := redis.New(a.Cfg.Redis, a.Log)
			if err != nil {
				return err
			}
			a.Redis = client
			a.OnStop(func(context.Context) error { return client.Close() })
		}
		if err := a.Redis.Ping(ctx); err != nil {
			return errors.Cache("connect", err)
		}
	}
	rc, err := cache.Open(ccfg, cache.Deps{Fs: a.Fs, Redis: a.Redis, Log: a.Log, Metrics: a.Metrics})
	if err != nil {
		return err
	}
	a.Cache = rc
	details := ccfg.Dir
	if ccfg.Backend == cache.BackendRedis {
		details = a.Cfg.Redis.Addr
	}
	a.Summary.Track("cache", ccfg.Backend, details)
	return nil
}

func (a *App) mode() router.Mode {
	if a.Cfg.RoutingEnabled() && a.Tokens != nil {
		return router.ModeOn
	}
	return router.ModeOff
}

// DefaultEngine is the engine used when no engine is requested: the router
// when routing is on, else router.engine. Without a service account it is
// always clova.
func (a *App) DefaultEngine() string {
	if a.mode() == router.ModeOn {
		return EngineRouter
	}
	if a.Tokens == nil || a.Cfg.Router.Engine == "" {
		return transcription.EngineClova
	}
	return a.Cfg.Router.Engine
}

// TranscriberOptions select the top-level transcriber.
type TranscriberOptions struct {
	// Engine is a registry name; empty means DefaultEngine.
	Engine string
	// NoCache bypasses the result cache.
	NoCache bool
}

// Engine resolves a registered engine by name.
func (a *App) Engine(name string) (transcription.Provider, error) {
	if name == "" {
		name = a.DefaultEngine()
	}
	var cfg map[string]any
	if name == transcription.EngineStatic {
		cfg = map[string]any{"text": a.opts.staticText}
	}
	eng, err := a.Engines.Resolve(name, cfg)
	if err != nil {
		if errors.IsCode(err, errors.ErrCodeNotFound) && (name == transcription.EngineGoogle || name == EngineRouter) {
			return nil, errors.InvalidInput("engine", name+" requires auth.service_account_file")
		}
		return nil, err
	}
	return eng, nil
}

// Transcriber returns the engine wrapped by the result cache unless the
// cache is disabled or bypassed.
func (a *App) Transcriber(opts TranscriberOptions) (transcription.Transcriber, error) {
	eng, err := a.Engine(opts.Engine)
	if err != nil {
		return nil, err
	}
	if a.Cache == nil || opts.NoCache {
		return eng, nil
	}
	return cache.NewCachedTranscriber(eng, a.Cache, a.Fs, a.Log), nil
}

// Session returns a worker session over Transcriber(opts).
func (a *App) Session(opts TranscriberOptions) (*worker.Session, error) {
	tr, err := a.Transcriber(opts)
	if err != nil {
		return nil, err
	}
	return worker.NewSession(tr, worker.WithLogger(a.Log)), nil
}

// Describe returns the AudioRef for a local file.
func (a *App) Describe(path string) (transcription.AudioRef, error) {
	return media.Describe(a.Fs, path)
}

// Close runs the stop hooks.
func (a *App) Close(ctx context.Context) error {
	hooks := a.onStop
	a.onStop = nil
	return runHooks(ctx, hooks)
}
