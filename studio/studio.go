package studio

import (
	"context"
	"fmt"

	"cloud.google.com/go/storage"
	"google.golang.org/genai"

	"github.com/craftlabs/designstudio/agent"
	"github.com/craftlabs/designstudio/core"
	"github.com/craftlabs/designstudio/model"
	"github.com/craftlabs/designstudio/model/gemini"
	"github.com/craftlabs/designstudio/studio/assets"
	"github.com/craftlabs/designstudio/studio/config"
	"github.com/craftlabs/designstudio/studio/imageedit"
	"github.com/craftlabs/designstudio/studio/imagegen"
)

// RootAgentDescription is the studio's outward-facing summary.
const RootAgentDescription = "Agent that routes incoming user requests to the appropriate specialized sub-agent based on the request and the sub-agent capabilities."

// RootAgentInstruction is the router's system prompt.
const RootAgentInstruction = `You are the **design_studio** root agent, responsible for delegating user
requests to the most suitable sub-agent.

- Interpret the user's request and match it to the description of known
  sub-agents.
- Delegate the request to the most suitable sub-agent.
- Never execute a request directly. Always delegate to the appropriate
  sub-agent.

---

## Available Sub-Agents

1. **asset_agent**
    - Manages product image assets in cloud storage: searching for reference
      images by name, loading them as artifacts, and publishing finished
      images with shareable links.

2. **image_gen_agent**
    - Generates new marketing images from a text description and reference
      product images, preserving the product exactly. Can also produce
      unbranded, label-free variants of the product.

3. **image_edit_agent**
    - Edits existing product images: changing their background or scene based
      on a description while keeping the product untouched.

---

## Delegation Rules

- If a query clearly matches an agent's description, delegate to the
  corresponding agent.
- If a query matches multiple agents' descriptions, break it down and
  coordinate execution across the relevant agents. A typical flow is:
  asset_agent finds and loads a reference image, image_gen_agent or
  image_edit_agent produces the new image, then asset_agent publishes it.
- If a query does not fit the description of any agent, ask the user for
  clarification rather than guessing.

---

## Operating Guidelines

1. **Always Delegate**
    - Never attempt to execute the user's request directly.
    - Always delegate to the appropriate sub-agent.

2. **Graceful Failure**
    - If a sub-agent or action fails, explain the cause and offer remediation
      if possible.
    - Do not expose internal errors or stack traces.
    - Suggest alternative phrasing or actions when the request is ambiguous.`

// NewRootAgent builds the router with transfer enabled and the given
// sub-agents attached.
func NewRootAgent(llm model.Model, subAgents ...core.Agent) (*agent.ModelAgent, error) {
	root := agent.NewModelAgent("design_studio", llm, func(o *agent.ModelAgentOptions) {
		o.Description = RootAgentDescription
		o.Instruction = agent.NewInstructionFromText(RootAgentInstruction)
		o.AllowTransfer = true
	})

	if err := root.SetSubAgents(subAgents...); err != nil {
		return nil, fmt.Errorf("failed to attach sub-agents: %w", err)
	}

	return root, nil
}

// New assembles the full agent tree from config: one genai client shared by
// every agent model and the generation tools, one storage client behind the
// blob stores, and the three sub-agents under the router.
func New(ctx context.Context, cfg *config.Config) (*agent.ModelAgent, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	genaiClient, err := genai.NewClient(ctx, &genai.ClientConfig{
		Backend:  genai.BackendVertexAI,
		Project:  cfg.ProjectID,
		Location: cfg.Location,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	storageClient, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}

	newLLM := func(name string, settings config.AgentSettings) model.Model {
		return gemini.NewModelFromClient(genaiClient, func(o *gemini.Options) {
			o.Model = name
			o.Temperature = float32(settings.Temperature)
			o.MaxOutputTokens = int32(settings.MaxOutputTokens)
		})
	}

	assetTools := assets.NewTools(
		assets.NewGCSStore(storageClient, cfg.AssetBucket),
		assets.NewGCSStore(storageClient, cfg.OutputBucket),
		func(o *assets.ToolsOptions) {
			o.Prefix = cfg.AssetPrefix
			o.MatchThreshold = cfg.FuzzyThreshold
			o.SignedURLTTL = cfg.SignedURLTTL
		},
	)
	assetAgent := assets.NewAgent(newLLM(cfg.AssetModel, cfg.AssetSettings), assetTools)

	generator := imagegen.NewGenAIGenerator(genaiClient, cfg.GenerationModel)
	genAgent := imagegen.NewAgent(newLLM(cfg.ImageGenModel, cfg.ImageGenSettings), imagegen.NewTools(generator), assetTools.PublishAsset())

	predictor, err := imageedit.NewRESTClient(ctx, cfg.ProjectID, cfg.Location)
	if err != nil {
		return nil, fmt.Errorf("failed to create predict client: %w", err)
	}
	editTools := imageedit.NewTools(
		predictor,
		imagegen.NewGenAIGenerator(genaiClient, cfg.EditGeminiModel),
		func(o *imageedit.ToolsOptions) {
			o.FastModel = cfg.EditFastModel
			o.QualityModel = cfg.EditQualityModel
		},
	)
	editAgent := imageedit.NewAgent(newLLM(cfg.ImageEditModel, cfg.ImageEditSettings), editTools, assetTools.PublishAsset())

	return NewRootAgent(newLLM(cfg.RouterModel, cfg.RouterSettings), assetAgent, genAgent, editAgent)
}
