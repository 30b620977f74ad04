package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/2mushr00m/dialLog/auth/jwt"
	"github.com/2mushr00m/dialLog/errors"
	"github.com/2mushr00m/dialLog/httpclient"
	"github.com/2mushr00m/dialLog/logger"
	"github.com/2mushr00m/dialLog/observability"
	"github.com/2mushr00m/dialLog/version"
)

// TokenSource supplies bearer tokens and accepts invalidation after a
// provider rejects one.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
	Invalidate()
}

// Provider is the service-account OAuth2 token provider.
type Provider struct {
	cred   *ServiceAccountCredential
	cfg    Config
	signer *jwt.Signer
	client *httpclient.Client
	store  *TokenStore
	now    func() time.Time
	log    *logger.Logger

	// mu serializes "check expiry, else exchange and store".
	mu        sync.Mutex
	exchanges atomic.Int64
}

// Option configures a Provider.
type Option func(*Provider)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(p *Provider) { p.now = now }
}

// WithLogger sets the logger.
func WithLogger(l *logger.Logger) Option {
	return func(p *Provider) { p.log = l }
}

// WithHTTPClient replaces the exchange client.
func WithHTTPClient(c *httpclient.Client) Option {
	return func(p *Provider) { p.client = c }
}

// NewProvider creates a token provider for cred.
func NewProvider(cred *ServiceAccountCredential, cfg Config, opts ...Option) (*Provider, error) {
	if cred == nil || cred.PrivateKey == nil {
		return nil, errors.AuthCause("service account credential is required", nil)
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, errors.InvalidInput("auth", err.Error())
	}
	if cfg.TokenURL != "" {
		c := *cred
		c.TokenURL = cfg.TokenURL
		cred = &c
	}
	if cred.TokenURL == "" {
		c := *cred
		c.TokenURL = DefaultTokenURL
		cred = &c
	}

	signer, err := jwt.NewSigner(jwt.Config{PrivateKey: cred.PrivateKey, KeyID: cred.PrivateKeyID})
	if err != nil {
		return nil, errors.AuthCause("create assertion signer", err)
	}

	p := &Provider{
		cred:   cred,
		cfg:    cfg,
		signer: signer,
		store:  &TokenStore{},
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.client == nil {
		client, err := httpclient.New(httpclient.Config{Timeout: cfg.Timeout, UserAgent: version.UserAgent()})
		if err != nil {
			return nil, errors.Internal(err)
		}
		p.client = client
	}
	p.log = logger.OrNop(p.log).WithComponent("auth")
	return p, nil
}

// Token returns a usable bearer token, exchanging a new assertion when the
// cached one is missing or within RefreshSkew of expiry.
func (p *Provider) Token(ctx context.Context) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	now := p.now()
	if tok, ok := p.store.Get(); ok && tok.Usable(now, p.cfg.RefreshSkew) {
		p.log.Debug("token cache hit", logger.Fields("expires_in_s", int64(tok.Expiry.Sub(now).Seconds())))
		return tok.Value, nil
	}

	tok, err := p.exchange(ctx, now)
	if err != nil {
		return "", err
	}
	p.store.Put(tok)
	return tok.Value, nil
}

// Invalidate drops the cached token.
func (p *Provider) Invalidate() {
	p.store.Invalidate()
	p.log.Debug("token invalidated")
}

// Expiry returns the cached token's expiry, or the zero time.
func (p *Provider) Expiry() time.Time {
	tok, _ := p.store.Get()
	return tok.Expiry
}

// Exchanges returns how many token exchanges have been attempted.
func (p *Provider) Exchanges() int64 { return p.exchanges.Load() }

// Email returns the service account identity.
func (p *Provider) Email() string { return p.cred.Email }

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
	TokenType   string `json:"token_type"`
}

func (p *Provider) exchange(ctx context.Context, now time.Time) (tok Token, err error) {
	ctx, span := observability.StartSpan(ctx, observability.SpanAuthExchange)
	defer func() { observability.EndSpan(span, err) }()

	p.exchanges.Add(1)
	assertion, err := p.signer.Sign(jwt.AssertionClaims{
		Issuer:   p.cred.Email,
		Scope:    p.cfg.Scope,
		Audience: p.cred.TokenURL,
		IssuedAt: now,
		TTL:      p.cfg.AssertionTTL,
	})
	if err != nil {
		return Token{}, errors.AuthCause("sign assertion", err)
	}

	resp, err := p.client.Do(ctx, httpclient.Request{
		Method: http.MethodPost,
		Path:   p.cred.TokenURL,
		Body:   httpclient.FormBody("grant_type", grantTypeJWTBearer, "assertion", assertion),
	})
	if err != nil {
		if httpclient.IsCanceled(err) {
			return Token{}, errors.Interrupted("token exchange", err)
		}
		if status := httpclient.StatusOf(err); status != 0 {
			p.log.Warn("token exchange rejected", logger.Fields(logger.FieldStatus, status))
			return Token{}, errors.Auth(status, httpclient.BodyOf(err))
		}
		return Token{}, errors.AuthCause("token exchange failed", err)
	}

	var body tokenResponse
	if err := json.Unmarshal(resp.Body, &body); err != nil {
		return Token{}, errors.Auth(resp.StatusCode, string(resp.Body)).WithCause(err)
	}
	if body.AccessToken == "" || body.ExpiresIn <= 0 {
		return Token{}, errors.Auth(resp.StatusCode, string(resp.Body)).WithDetail("reason", "missing access_token or expires_in")
	}

	tok = Token{Value: body.AccessToken, Expiry: now.Add(time.Duration(body.ExpiresIn) * time.Second)}
	p.log.Info("token exchanged", logger.Fields("expiry", tok.Expiry.Format(time.RFC3339)))
	return tok, nil
}
