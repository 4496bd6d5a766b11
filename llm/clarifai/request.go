package clarifai

import (
	"bytes"
	"encoding/json"
	"net/url"
	"strings"

	"github.com/kbukum/llmstream/errors"
	"github.com/kbukum/llmstream/llm"
	"github.com/kbukum/llmstream/validation"
)

// successCode is the Clarifai status code reported for a successful call.
const successCode = 10000

// Payload is the request body of the model outputs endpoint.
type Payload struct {
	Inputs []Input `json:"inputs"`
}

// Input is one model input.
type Input struct {
	Data Data `json:"data"`
}

// Data wraps the text of an input or output.
type Data struct {
	Text *Text `json:"text,omitempty"`
}

// Text carries raw text.
type Text struct {
	Raw string `json:"raw"`
}

// Status is Clarifai's status envelope, present on failures and usually on
// success with code 10000.
type Status struct {
	Code        int    `json:"code"`
	Description string `json:"description"`
	Details     string `json:"details,omitempty"`
}

// Output is one model output.
type Output struct {
	Data Data `json:"data"`
}

// OutputsResponse is the response body of the model outputs endpoint.
type OutputsResponse struct {
	Status  *Status  `json:"status,omitempty"`
	Outputs []Output `json:"outputs"`
}

// ModelPath is a parsed user/app/models/name model id.
type ModelPath struct {
	User string
	App  string
	Name string
}

// String returns the model id form.
func (m ModelPath) String() string {
	return m.User + "/" + m.App + "/models/" + m.Name
}

// OutputsPath returns the API path of the model's outputs endpoint.
func (m ModelPath) OutputsPath() string {
	return "/v2/users/" + url.PathEscape(m.User) +
		"/apps/" + url.PathEscape(m.App) +
		"/models/" + url.PathEscape(m.Name) + "/outputs"
}

// ValidModelID reports whether id has four non-empty segments with "models"
// as the third.
func ValidModelID(id string) bool {
	parts := strings.Split(id, "/")
	if len(parts) != 4 || parts[2] != "models" {
		return false
	}
	for _, p := range parts {
		if p == "" {
			return false
		}
	}
	return true
}

// ParseModelID splits a model id into its path segments.
func ParseModelID(id string) (ModelPath, error) {
	v := validation.New().Required("model_id", id)
	if !v.HasErrors() {
		v.Custom(ValidModelID(id), "model_id", "must have the form user/app/models/name (got "+id+")")
	}
	if err := v.Validate(); err != nil {
		return ModelPath{}, err
	}
	parts := strings.Split(id, "/")
	return ModelPath{User: parts[0], App: parts[1], Name: parts[3]}, nil
}

// Flatten renders a system prompt and history as one role-labelled text blob.
func Flatten(systemPrompt string, history []llm.Message) string {
	var b strings.Builder
	if systemPrompt != "" {
		b.WriteString("System: ")
		b.WriteString(systemPrompt)
		b.WriteString("\n\n")
	}
	for _, m := range history {
		if m.Role == llm.RoleUser {
			b.WriteString("User: ")
		} else {
			b.WriteString("Assistant: ")
		}
		b.WriteString(m.Text())
		b.WriteString("\n\n")
	}
	return b.String()
}

// NewPayload wraps flattened text in the request schema.
func NewPayload(raw string) Payload {
	return Payload{Inputs: []Input{{Data: Data{Text: &Text{Raw: raw}}}}}
}

// rawOutput concatenates the text of every output, each followed by a
// newline. It reports false when no output carries non-empty text.
func (r *OutputsResponse) rawOutput() (string, bool) {
	var b strings.Builder
	usable := false
	for _, o := range r.Outputs {
		if o.Data.Text == nil {
			continue
		}
		if o.Data.Text.Raw != "" {
			usable = true
		}
		b.WriteString(o.Data.Text.Raw)
		b.WriteByte('\n')
	}
	return b.String(), usable
}

// failed returns the backend error carried by a 200 envelope, if any.
func (r *OutputsResponse) failed(httpStatus int) *errors.AppError {
	if r.Status == nil || r.Status.Code == 0 || r.Status.Code == successCode {
		return nil
	}
	return errors.Backend(r.Status.Code, r.Status.Description, httpStatus)
}

// decodeOutputs parses a response body, rejecting unknown top-level shapes
// such as a JSON array or an empty body.
func decodeOutputs(body []byte) (*OutputsResponse, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 || body[0] != '{' {
		return nil, errMalformed
	}
	var resp OutputsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
