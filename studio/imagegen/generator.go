package imagegen

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"github.com/craftlabs/designstudio/core"
)

// Request carries everything a single image generation call needs. References
// are inline product images the model must preserve in the output.
type Request struct {
	Prompt         string
	References     []core.Artifact
	AspectRatio    string
	CandidateCount int
}

// Image is one generated image returned by the model.
type Image struct {
	Data     []byte
	MimeType string
}

// Generator produces images from a prompt and reference images.
type Generator interface {
	Generate(ctx context.Context, req Request) ([]Image, error)
}

// GenAIGenerator calls a Gemini image model through the genai client.
type GenAIGenerator struct {
	client *genai.Client
	model  string
}

// NewGenAIGenerator wraps an existing genai client for the given image model.
func NewGenAIGenerator(client *genai.Client, model string) *GenAIGenerator {
	return &GenAIGenerator{client: client, model: model}
}

// Generate sends the reference images and prompt in a single user turn and
// collects the inline image data from the first candidate.
func (g *GenAIGenerator) Generate(ctx context.Context, req Request) ([]Image, error) {
	parts := make([]*genai.Part, 0, len(req.References)+1)
	for _, ref := range req.References {
		mime := ref.MimeType
		if mime == "" {
			mime = "image/png"
		}
		parts = append(parts, &genai.Part{InlineData: &genai.Blob{MIMEType: mime, Data: ref.Data}})
	}
	parts = append(parts, genai.NewPartFromText(req.Prompt))

	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}

	config := &genai.GenerateContentConfig{
		ResponseModalities: []string{"Image"},
	}
	if req.CandidateCount > 0 {
		config.CandidateCount = int32(req.CandidateCount)
	}
	if req.AspectRatio != "" {
		config.ImageConfig = &genai.ImageConfig{AspectRatio: req.AspectRatio}
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, config)
	if err != nil {
		return nil, fmt.Errorf("image generation call failed: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, fmt.Errorf("model returned no image data")
	}

	var images []Image
	for _, part := range resp.Candidates[0].Content.Parts {
		if part.InlineData != nil && len(part.InlineData.Data) > 0 {
			images = append(images, Image{
				Data:     part.InlineData.Data,
				MimeType: part.InlineData.MIMEType,
			})
		}
	}

	return images, nil
}
