package clarifai

import (
	"context"
	"net/http"

	"github.com/kbukum/llmstream/errors"
	"github.com/kbukum/llmstream/httpclient"
	"github.com/kbukum/llmstream/llm"
	"github.com/kbukum/llmstream/logger"
	"github.com/kbukum/llmstream/observability"
	"github.com/kbukum/llmstream/provider"
	"github.com/kbukum/llmstream/version"
)

// Name is the registry name of the Clarifai backend.
const Name = "clarifai"

// Doer sends one HTTP request. *httpclient.Client satisfies it.
type Doer interface {
	Do(ctx context.Context, req httpclient.Request) (*httpclient.Response, error)
}

// Provider streams completions from a Clarifai-hosted model.
type Provider struct {
	cfg     Config
	doer    Doer
	log     *logger.Logger
	metrics *observability.Metrics
}

var _ llm.Provider = (*Provider)(nil)

// Option configures a Provider.
type Option func(*Provider)

// WithDoer replaces the HTTP transport.
func WithDoer(d Doer) Option {
	return func(p *Provider) { p.doer = d }
}

// WithLogger sets the logger. Defaults to the global logger.
func WithLogger(l *logger.Logger) Option {
	return func(p *Provider) { p.log = l }
}

// WithMetrics records stream metrics on m.
func WithMetrics(m *observability.Metrics) Option {
	return func(p *Provider) { p.metrics = m }
}

// New creates a Clarifai provider. Configuration is checked when a model is
// resolved or a stream is started, not here, so an incomplete configuration
// still yields a provider that reports itself unavailable.
func New(cfg Config, opts ...Option) (*Provider, error) {
	cfg.ApplyDefaults()
	p := &Provider{cfg: cfg}
	for _, opt := range opts {
		opt(p)
	}
	if p.log == nil {
		p.log = logger.WithComponent(Name)
	}
	if p.doer == nil {
		client, err := httpclient.New(httpclient.Config{
			Name:    Name,
			BaseURL: cfg.BaseURL,
			Timeout: cfg.Timeout,
			Auth:    httpclient.KeyAuth(cfg.PAT),
			Headers: map[string]string{
				"Accept":     "application/json",
				"User-Agent": version.UserAgent(),
			},
		})
		if err != nil {
			return nil, errors.Configuration("", err.Error()).WithCause(err)
		}
		p.doer = client
	}
	return p, nil
}

// Factory returns a registry factory that builds providers from a config map.
func Factory(opts ...Option) provider.Factory[llm.Provider] {
	return func(m map[string]any) (llm.Provider, error) {
		cfg, err := ConfigFromMap(m)
		if err != nil {
			return nil, errors.Configuration("", err.Error()).WithCause(err)
		}
		return New(cfg, opts...)
	}
}

// Register adds the Clarifai factory to reg under Name.
func Register(reg *provider.Registry[llm.Provider], opts ...Option) {
	reg.RegisterFactory(Name, Factory(opts...))
}

// Name returns the backend name.
func (p *Provider) Name() string { return Name }

// IsAvailable reports whether the configuration is complete. It does not
// contact the backend.
func (p *Provider) IsAvailable(context.Context) bool {
	if err := p.cfg.Validate(); err != nil {
		return false
	}
	_, _, err := p.resolve()
	return err == nil
}

// Config returns the effective configuration.
func (p *Provider) Config() Config { return p.cfg }

// ResolveModel returns the configured model, falling back to DefaultModelID
// when the model id is empty and UseDefaultModel is set.
func (p *Provider) ResolveModel() (llm.ModelDescriptor, error) {
	desc, _, err := p.resolve()
	return desc, err
}

func (p *Provider) resolve() (llm.ModelDescriptor, ModelPath, error) {
	id := p.cfg.ModelID
	if id == "" && p.cfg.UseDefaultModel {
		id = DefaultModelID
	}
	if id == "" {
		return llm.ModelDescriptor{}, ModelPath{}, errors.Configuration("model_id", "model_id is required")
	}
	path, err := ParseModelID(id)
	if err != nil {
		return llm.ModelDescriptor{}, ModelPath{}, err
	}
	info, _ := LookupModel(id)
	return llm.ModelDescriptor{ID: id, Info: info}, path, nil
}

// BuildRequest returns the Payload for a conversation. It fails with a
// configuration error when the token or model id is missing or malformed.
func (p *Provider) BuildRequest(systemPrompt string, history []llm.Message) (any, error) {
	_, _, payload, err := p.prepare(systemPrompt, history)
	if err != nil {
		return nil, err
	}
	return payload, nil
}

func (p *Provider) prepare(systemPrompt string, history []llm.Message) (llm.ModelDescriptor, ModelPath, Payload, error) {
	if err := p.cfg.Validate(); err != nil {
		return llm.ModelDescriptor{}, ModelPath{}, Payload{}, err
	}
	model, path, err := p.resolve()
	if err != nil {
		return llm.ModelDescriptor{}, ModelPath{}, Payload{}, err
	}
	return model, path, NewPayload(Flatten(systemPrompt, history)), nil
}

// Stream validates configuration and builds the request immediately, then
// sends it on the first call to Next. Cancelling ctx, or the ctx passed to
// Next, before or during the call ends the sequence with no chunks and no
// error; after the response arrives cancellation is checked between chunks.
// A deadline on either context that expires before the response arrives is
// a timeout error, not a cancellation.
func (p *Provider) Stream(ctx context.Context, systemPrompt string, history []llm.Message) (provider.Iterator[llm.Chunk], error) {
	model, path, payload, err := p.prepare(systemPrompt, history)
	if err != nil {
		p.log.Error("stream rejected", logger.ErrorFields("stream", err))
		return nil, err
	}
	s := &stream{
		p:    p,
		ctx:  ctx,
		sess: newSession(model, path, payload),
	}
	s.log = p.log.WithFields(logger.Fields(
		logger.FieldProvider, Name,
		logger.FieldModel, model.ID,
		logger.FieldSessionID, s.sess.ID,
	))
	return s, nil
}

// backendError builds the error for a non-2xx response, preferring the
// backend's own status envelope.
func backendError(resp *httpclient.Response) *errors.AppError {
	if env, err := decodeOutputs(resp.Body); err == nil && env.Status != nil && env.Status.Code != 0 {
		return errors.Backend(env.Status.Code, env.Status.Description, resp.StatusCode)
	}
	return errors.Backend(resp.StatusCode, http.StatusText(resp.StatusCode), resp.StatusCode)
}
