// internal/common/llm/registry.go
package llm

import (
	"context"
	"fmt"
	"time"

	"sahachari/internal/common/errors"
	"sahachari/internal/common/logger"
	"sahachari/internal/common/metrics"
	"sahachari/internal/common/observability"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// Registry routes each model id to the provider that serves it. Models not
// listed explicitly go to the default provider.
type Registry struct {
	providers       map[string]Provider
	routes          map[string]string
	defaultProvider string
	obs             *observability.Observability
	logger          logger.Logger
}

func NewRegistry(defaultProvider string, obs *observability.Observability, log logger.Logger) *Registry {
	return &Registry{
		providers:       make(map[string]Provider),
		routes:          make(map[string]string),
		defaultProvider: defaultProvider,
		obs:             obs,
		logger:          log,
	}
}

// Register adds p and routes the listed models to it. Registering is not
// safe once the registry is serving requests.
func (r *Registry) Register(p Provider, models ...string) {
	r.providers[p.Name()] = p
	for _, m := range models {
		r.routes[m] = p.Name()
	}
}

// Resolve returns the provider for model.
func (r *Registry) Resolve(model string) (Provider, error) {
	name, ok := r.routes[model]
	if !ok {
		name = r.defaultProvider
	}
	p, ok := r.providers[name]
	if !ok {
		return nil, errors.NewInternalError(fmt.Errorf("no provider %q registered for model %q", name, model))
	}
	return p, nil
}

// SupportsStructuredOutput reports whether the provider serving model can
// be asked for schema-constrained JSON.
func (r *Registry) SupportsStructuredOutput(model string) bool {
	p, err := r.Resolve(model)
	return err == nil && p.SupportsStructuredOutput()
}

// Invoke routes req and performs one attempt.
func (r *Registry) Invoke(ctx context.Context, req *Request) (*Response, error) {
	p, err := r.Resolve(req.Model)
	if err != nil {
		return nil, err
	}

	if req.ResponseSchema != nil && !p.SupportsStructuredOutput() {
		clone := *req
		clone.ResponseSchema = nil
		req = &clone
	}

	var resp *Response
	err = r.observe(ctx, "llm.invoke", p.Name(), req.Model, func(ctx context.Context) error {
		var callErr error
		resp, callErr = p.Invoke(ctx, req)
		return callErr
	})
	return resp, err
}

// GenerateImage routes req to a provider that can generate images.
func (r *Registry) GenerateImage(ctx context.Context, req *ImageRequest) (*Response, error) {
	p, err := r.Resolve(req.Model)
	if err != nil {
		return nil, err
	}
	gen, ok := p.(ImageGenerator)
	if !ok {
		return nil, errors.NewBadRequestError("image generation is not supported",
			fmt.Sprintf("provider %s cannot serve %s", p.Name(), req.Model))
	}

	var resp *Response
	err = r.observe(ctx, "llm.generate_image", p.Name(), req.Model, func(ctx context.Context) error {
		var callErr error
		resp, callErr = gen.GenerateImage(ctx, req)
		return callErr
	})
	return resp, err
}

func (r *Registry) observe(ctx context.Context, span, provider, model string, call func(context.Context) error) error {
	ctx, sp := r.obs.StartSpan(ctx, span,
		attribute.String("llm.provider", provider),
		attribute.String("llm.model", model),
	)
	defer sp.End()

	start := time.Now()
	err := call(ctx)
	duration := time.Since(start)

	status := "success"
	if err != nil {
		stdErr := ClassifyError(provider, err)
		err = stdErr
		status = string(stdErr.Code)
		sp.RecordError(err)
		sp.SetStatus(codes.Error, status)

		r.logger.Warn("upstream call failed", map[string]interface{}{
			"provider":   provider,
			"model":      model,
			"errorCode":  status,
			"durationMs": duration.Milliseconds(),
			"error":      stdErr.Details,
		})
	}

	metrics.UpstreamRequests.WithLabelValues(provider, status).Inc()
	r.obs.RecordUpstreamCall(ctx, provider, model, status, duration)
	return err
}
