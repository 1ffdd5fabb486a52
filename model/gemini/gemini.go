// Package gemini provides a model wrapper for the Google Gemini API using
// the google.golang.org/genai client. It supports both the Gemini API and
// the Vertex AI backend, including function/tool calling.
package gemini

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/craftlabs/designstudio/core"
	"github.com/craftlabs/designstudio/model"
	"google.golang.org/genai"
)

// Options configures the Gemini model adapter. When Project and Location are
// set the client uses the Vertex AI backend, otherwise the Gemini API with
// APIKey.
type Options struct {
	Model           string
	Temperature     float32
	MaxOutputTokens int32
	APIKey          string
	Project         string
	Location        string
}

// Model wraps the Gemini GenerateContent API behind the generic model.Model
// interface.
type Model struct {
	client *genai.Client
	opts   Options
}

// NewModel creates a new Gemini model and its underlying client.
func NewModel(ctx context.Context, optFns ...func(o *Options)) (*Model, error) {
	opts := Options{
		Model:           "gemini-2.5-flash",
		Temperature:     0.7,
		MaxOutputTokens: 4096,
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	cfg := &genai.ClientConfig{APIKey: opts.APIKey}
	if opts.Project != "" && opts.Location != "" {
		cfg = &genai.ClientConfig{
			Backend:  genai.BackendVertexAI,
			Project:  opts.Project,
			Location: opts.Location,
		}
	}

	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	return &Model{client: client, opts: opts}, nil
}

// NewModelFromClient creates a new Gemini model from an existing client.
func NewModelFromClient(client *genai.Client, optFns ...func(o *Options)) *Model {
	opts := Options{
		Model:           "gemini-2.5-flash",
		Temperature:     0.7,
		MaxOutputTokens: 4096,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Model{client: client, opts: opts}
}

// Generate implements unified generation. It adapts the Gemini
// GenerateContent API (with function calling) into model.Response events.
func (m *Model) Generate(ctx context.Context, req model.Request) (<-chan model.Response, <-chan error) {
	out := make(chan model.Response, 32)
	errCh := make(chan error, 1)

	go func() {
		defer close(out)
		defer close(errCh)

		contents := buildContents(req.Contents)
		config := m.buildConfig(req)

		resp, err := m.client.Models.GenerateContent(ctx, m.opts.Model, contents, config)
		if err != nil {
			errCh <- fmt.Errorf("gemini api error: %w", err)
			return
		}
		if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
			errCh <- fmt.Errorf("no candidates returned")
			return
		}

		cand := resp.Candidates[0]
		var parts []core.Part
		for _, p := range cand.Content.Parts {
			if p.Text != "" {
				parts = append(parts, core.TextPart{Text: p.Text})
			}
			if p.FunctionCall != nil {
				args := "{}"
				if raw, err := json.Marshal(p.FunctionCall.Args); err == nil {
					args = string(raw)
				}
				id := p.FunctionCall.ID
				if id == "" {
					id = core.NewID()
				}
				parts = append(parts, core.FunctionCallPart{FunctionCall: core.FunctionCall{
					ID:        id,
					Name:      p.FunctionCall.Name,
					Arguments: args,
				}})
			}
		}

		finishReason := "stop"
		if cand.FinishReason != "" {
			finishReason = string(cand.FinishReason)
		}

		var usage *model.TokenUsage
		if resp.UsageMetadata != nil {
			usage = &model.TokenUsage{
				PromptTokens:     int(resp.UsageMetadata.PromptTokenCount),
				CompletionTokens: int(resp.UsageMetadata.CandidatesTokenCount),
				TotalTokens:      int(resp.UsageMetadata.TotalTokenCount),
			}
		}

		out <- model.Response{
			ID:           resp.ResponseID,
			Partial:      false,
			Content:      core.Content{Role: "assistant", Parts: parts},
			FinishReason: finishReason,
			Usage:        usage,
		}
	}()

	return out, errCh
}

// buildConfig assembles the generation config including system instructions
// and tool declarations.
func (m *Model) buildConfig(req model.Request) *genai.GenerateContentConfig {
	config := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(m.opts.Temperature),
		MaxOutputTokens: m.opts.MaxOutputTokens,
	}

	if req.Instructions != "" {
		config.SystemInstruction = genai.NewContentFromText(req.Instructions, genai.RoleUser)
	}

	if len(req.Tools) > 0 {
		decls := make([]*genai.FunctionDeclaration, len(req.Tools))
		for i, tdef := range req.Tools {
			decls[i] = &genai.FunctionDeclaration{
				Name:        tdef.Function.Name,
				Description: tdef.Function.Description,
				Parameters:  schemaFromMap(tdef.Function.Parameters),
			}
		}
		config.Tools = []*genai.Tool{{FunctionDeclarations: decls}}
	}

	return config
}

// buildContents converts normalized contents into genai contents. Function
// responses become function response parts on a user role turn, matching the
// Gemini conversation contract.
func buildContents(contents []core.Content) []*genai.Content {
	var out []*genai.Content
	for _, c := range contents {
		var parts []*genai.Part
		for _, p := range c.Parts {
			switch part := p.(type) {
			case core.TextPart:
				if part.Text != "" {
					parts = append(parts, genai.NewPartFromText(part.Text))
				}
			case core.FilePart:
				if part.File.Bytes != "" {
					// FileRef.Bytes carries base64 text; the SDK encodes
					// Blob.Data itself, so decode to raw media bytes first.
					data, err := base64.StdEncoding.DecodeString(part.File.Bytes)
					if err != nil {
						continue
					}
					mime := "image/png"
					if part.File.MimeType != nil {
						mime = *part.File.MimeType
					}
					parts = append(parts, &genai.Part{InlineData: &genai.Blob{
						MIMEType: mime,
						Data:     data,
					}})
				}
			case core.FunctionCallPart:
				args := map[string]any{}
				_ = json.Unmarshal([]byte(part.FunctionCall.Arguments), &args)
				parts = append(parts, &genai.Part{FunctionCall: &genai.FunctionCall{
					ID:   part.FunctionCall.ID,
					Name: part.FunctionCall.Name,
					Args: args,
				}})
			case core.FunctionResponsePart:
				resp := map[string]any{}
				switch r := part.FunctionResponse.Response.(type) {
				case map[string]any:
					resp = r
				default:
					resp["result"] = fmt.Sprintf("%v", r)
				}
				parts = append(parts, &genai.Part{FunctionResponse: &genai.FunctionResponse{
					ID:       part.FunctionResponse.ID,
					Name:     part.FunctionResponse.Name,
					Response: resp,
				}})
			}
		}
		if len(parts) == 0 {
			continue
		}

		var role genai.Role = genai.RoleUser
		if c.Role == "assistant" {
			role = genai.RoleModel
		}
		out = append(out, genai.NewContentFromParts(parts, role))
	}
	return out
}

// schemaFromMap converts a minimal JSON schema map into a genai.Schema.
func schemaFromMap(schema map[string]any) *genai.Schema {
	if schema == nil {
		return &genai.Schema{Type: genai.TypeObject}
	}

	out := &genai.Schema{Type: genaiType(schema["type"])}

	if desc, ok := schema["description"].(string); ok {
		out.Description = desc
	}

	if props, ok := schema["properties"].(map[string]any); ok {
		out.Properties = make(map[string]*genai.Schema, len(props))
		for name, prop := range props {
			if propMap, ok := prop.(map[string]any); ok {
				out.Properties[name] = schemaFromMap(propMap)
			}
		}
	}

	if items, ok := schema["items"].(map[string]any); ok {
		out.Items = schemaFromMap(items)
	}

	switch required := schema["required"].(type) {
	case []string:
		out.Required = required
	case []any:
		for _, r := range required {
			if s, ok := r.(string); ok {
				out.Required = append(out.Required, s)
			}
		}
	}

	return out
}

func genaiType(t any) genai.Type {
	s, _ := t.(string)
	switch s {
	case "string":
		return genai.TypeString
	case "integer":
		return genai.TypeInteger
	case "number":
		return genai.TypeNumber
	case "boolean":
		return genai.TypeBoolean
	case "array":
		return genai.TypeArray
	default:
		return genai.TypeObject
	}
}

// Info returns metadata describing this Gemini model implementation.
func (m *Model) Info() model.Info {
	return model.Info{
		Name:          m.opts.Model,
		Provider:      "gemini",
		SupportsTools: true,
	}
}
