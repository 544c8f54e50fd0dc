// internal/common/normalize/normalize.go
package normalize

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"

	"sahachari/internal/common/errors"
	"sahachari/internal/common/llm"
	"sahachari/internal/common/validation"
)

// Mode selects how strictly structured output is parsed.
type Mode int

const (
	// Strict expects the whole reply to be one contract-valid JSON object.
	Strict Mode = iota
	// Lenient scans for an embedded object and degrades to unstructured text.
	Lenient
)

// ModeFor picks Strict when the provider was asked for schema-constrained output.
func ModeFor(structuredOutput bool) Mode {
	if structuredOutput {
		return Strict
	}
	return Lenient
}

// Text returns the first non-empty text segment.
func Text(resp *llm.Response) (*Payload, error) {
	if text := firstText(resp); text != "" {
		return &Payload{Kind: KindText, Text: text}, nil
	}
	return nil, emptyError(resp)
}

// Object extracts a JSON object that satisfies contract.
func Object(resp *llm.Response, contract *validation.Contract, mode Mode) (*Payload, error) {
	text := firstText(resp)
	if text == "" {
		return nil, emptyError(resp)
	}

	if mode == Strict {
		obj, err := parseStrict(text, contract)
		if err != nil {
			return nil, errors.NewMalformedResponseError(providerOf(resp), err.Error())
		}
		return &Payload{Kind: KindStructured, Text: text, Object: obj}, nil
	}

	obj, err := parseLenient(text, contract)
	if err != nil {
		return &Payload{
			Kind:     KindUnstructured,
			Text:     text,
			ParseErr: errors.NewParseError(err.Error()),
		}, nil
	}
	return &Payload{Kind: KindStructured, Text: text, Object: obj}, nil
}

// Binary returns raw bytes with a declared MIME type.
func Binary(data []byte, mimeType string) (*Payload, error) {
	if len(data) == 0 {
		return nil, errors.NewEmptyResponseError("provider returned no audio content")
	}
	return &Payload{Kind: KindBinary, Data: data, MIMEType: mimeType}, nil
}

// Image returns the first segment carrying an image reference or bytes.
func Image(resp *llm.Response) (*Payload, error) {
	if resp != nil {
		for _, seg := range resp.Segments {
			if seg.URI != "" {
				return &Payload{Kind: KindImage, URI: seg.URI, MIMEType: seg.MIMEType}, nil
			}
			if len(seg.Data) > 0 {
				return &Payload{Kind: KindImage, Data: seg.Data, MIMEType: seg.MIMEType}, nil
			}
		}
	}
	return nil, emptyError(resp)
}

func parseStrict(text string, contract *validation.Contract) (map[string]interface{}, error) {
	body := strings.TrimSpace(stripCodeFence(text))

	var obj map[string]interface{}
	if err := json.Unmarshal([]byte(body), &obj); err != nil {
		return nil, fmt.Errorf("response is not a JSON object: %w", err)
	}
	return obj, checkContract(obj, contract)
}

func parseLenient(text string, contract *validation.Contract) (map[string]interface{}, error) {
	raw, ok := ExtractJSONObject(text)
	if !ok {
		return nil, fmt.Errorf("no JSON object found in response")
	}

	var obj map[string]interface{}
	if err := json.Unmarshal([]byte(raw), &obj); err != nil {
		return nil, fmt.Errorf("embedded JSON object is invalid: %w", err)
	}
	return obj, checkContract(obj, contract)
}

func checkContract(obj map[string]interface{}, contract *validation.Contract) error {
	if contract == nil {
		return nil
	}
	if result := contract.Validate(obj); !result.Valid {
		return fmt.Errorf("%s contract violated: %s", contract.Name, strings.Join(result.GetErrorMessages(), "; "))
	}
	return nil
}

func firstText(resp *llm.Response) string {
	if resp == nil {
		return ""
	}
	for _, seg := range resp.Segments {
		if strings.TrimSpace(seg.Text) != "" {
			return seg.Text
		}
	}
	return ""
}

func emptyError(resp *llm.Response) error {
	details := "provider returned no content"
	if resp != nil {
		switch {
		case resp.BlockReason != "":
			details = "response blocked: " + resp.BlockReason
		case resp.FinishReason != "":
			details = "provider returned no content (finish reason " + resp.FinishReason + ")"
		}
	}
	return errors.NewEmptyResponseError(details)
}

func providerOf(resp *llm.Response) string {
	if resp == nil || resp.Provider == "" {
		return "llm"
	}
	return resp.Provider
}

func encodeBase64(data []byte) string {
	return base64.StdEncoding.EncodeToString(data)
}
