package app

import (
	"net/http"

	"github.com/spf13/afero"

	"github.com/2mushr00m/dialLog/langdetect"
	"github.com/2mushr00m/dialLog/logger"
	"github.com/2mushr00m/dialLog/media"
	"github.com/2mushr00m/dialLog/redis"
)

// DefaultStaticText is returned by the static engine.
const DefaultStaticText = "static transcript"

// Option configures the App during creation.
type Option func(*appOptions)

type appOptions struct {
	logger     *logger.Logger
	fs         afero.Fs
	identifier langdetect.Identifier
	probe      media.ProbeSource
	redis      *redis.Client
	httpClient *http.Client
	staticText string
}

func resolveOptions(opts []Option) *appOptions {
	o := &appOptions{staticText: DefaultStaticText}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithLogger sets a custom logger. If not set, one is built from the
// logging config.
func WithLogger(l *logger.Logger) Option {
	return func(o *appOptions) { o.logger = l }
}

// WithFs sets the filesystem for recordings, keys and cache files.
// Defaults to the OS filesystem.
func WithFs(fs afero.Fs) Option {
	return func(o *appOptions) { o.fs = fs }
}

// WithIdentifier replaces the default language identifier.
func WithIdentifier(id langdetect.Identifier) Option {
	return func(o *appOptions) { o.identifier = id }
}

// WithProbe replaces the WAV probe source.
func WithProbe(p media.ProbeSource) Option {
	return func(o *appOptions) { o.probe = p }
}

// WithRedis supplies a connected client instead of dialing redis config.
func WithRedis(c *redis.Client) Option {
	return func(o *appOptions) { o.redis = c }
}

// WithHTTPClient routes the token exchange and both engines through hc,
// e.g. for a proxy or a recording transport.
func WithHTTPClient(hc *http.Client) Option {
	return func(o *appOptions) { o.httpClient = hc }
}

// WithStaticText sets the static engine transcript.
func WithStaticText(text string) Option {
	return func(o *appOptions) { o.staticText = text }
}
