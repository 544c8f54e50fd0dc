// internal/common/llm/errors.go
package llm

import (
	"context"
	stderrors "errors"
	"net"

	"sahachari/internal/common/errors"

	"github.com/openai/openai-go"
	"google.golang.org/genai"
)

// ClassifyError maps a provider failure to an upstream StandardError,
// keeping the distinctions the provider makes.
func ClassifyError(service string, err error) *errors.StandardError {
	if err == nil {
		return nil
	}

	var stdErr *errors.StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr
	}

	if stderrors.Is(err, context.DeadlineExceeded) {
		return errors.NewUpstreamError(errors.ErrCodeUpstreamTimeout, service, err)
	}

	var netErr net.Error
	if stderrors.As(err, &netErr) && netErr.Timeout() {
		return errors.NewUpstreamError(errors.ErrCodeUpstreamTimeout, service, err)
	}

	var apiErr genai.APIError
	if stderrors.As(err, &apiErr) {
		return classifyGenAI(service, err, apiErr)
	}
	var apiErrPtr *genai.APIError
	if stderrors.As(err, &apiErrPtr) && apiErrPtr != nil {
		return classifyGenAI(service, err, *apiErrPtr)
	}

	var oaiErr *openai.Error
	if stderrors.As(err, &oaiErr) {
		code := errors.UpstreamCodeFromStatus(oaiErr.StatusCode, oaiErr.Code+" "+oaiErr.Message)
		return errors.NewUpstreamError(code, service, err).
			WithMetadata("upstreamStatus", oaiErr.StatusCode)
	}

	return errors.NewUpstreamError(errors.ErrCodeUpstreamFailed, service, err)
}

func classifyGenAI(service string, err error, apiErr genai.APIError) *errors.StandardError {
	code := errors.UpstreamCodeFromStatus(apiErr.Code, apiErr.Status+" "+apiErr.Message)
	return errors.NewUpstreamError(code, service, err).
		WithMetadata("upstreamStatus", apiErr.Code)
}
