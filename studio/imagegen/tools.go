package imagegen

import (
	"fmt"
	"strings"

	"github.com/craftlabs/designstudio/core"
	"github.com/craftlabs/designstudio/internal/util"
	"github.com/craftlabs/designstudio/tool"
)

var allowedAspectRatios = []string{"1:1", "2:3", "3:2", "3:4", "4:3", "4:5", "5:4", "9:16", "16:9", "21:9"}

// Tools bundles the generation tool implementations over a shared Generator.
type Tools struct {
	gen Generator
}

// NewTools builds the generation tool set.
func NewTools(gen Generator) *Tools {
	return &Tools{gen: gen}
}

// All returns the tools in registration order.
func (t *Tools) All() []tool.Tool {
	return []tool.Tool{t.GenerateImage(), t.GenerateUnbrandedImage()}
}

type generateImageParams struct {
	Description      string   `json:"description" description:"Detailed text description of the desired image (e.g. 'Image of a shampoo bottle on a spa counter')"`
	AspectRatio      string   `json:"aspect_ratio" description:"Desired aspect ratio, one of 1:1, 2:3, 3:2, 3:4, 4:3, 4:5, 5:4, 9:16, 16:9, 21:9. Default is 1:1"`
	CandidateCount   int      `json:"candidate_count" description:"Number of images to generate, between 1 and 4. Default is 1"`
	ImageArtifactIDs []string `json:"image_artifact_ids" description:"Artifact IDs of the reference product images to preserve in the output"`
}

// GenerateImage composes a new scene around the unaltered reference product.
// It is not meant for editing tasks such as background swaps.
func (t *Tools) GenerateImage() tool.Tool {
	return t.generationTool(
		"generate_image",
		"Generates a new image from a text description and one or more reference product images. The reference product, including all its text and branding, is preserved exactly; only the scene around it changes. Not for image editing tasks such as changing the background of an existing image.",
		productScenePrompt,
	)
}

// GenerateUnbrandedImage produces a label-free variant of the reference
// product, keeping its shape, material, and colours.
func (t *Tools) GenerateUnbrandedImage() tool.Tool {
	return t.generationTool(
		"generate_unbranded_image",
		"Generates a new image from a text description and reference product images, with every label, logo, and piece of text stripped from the product. The product keeps its exact shape, material, and colours but appears as a factory blank. Not for image editing tasks.",
		unbrandedProductPrompt,
	)
}

func (t *Tools) generationTool(name, description string, promptFn func(string) string) tool.Tool {
	return tool.NewFunctionToolFromStruct(
		name,
		description,
		generateImageParams{},
		func(tc *core.ToolContext, args map[string]any) (any, error) {
			desc, _ := args["description"].(string)
			aspectRatio, _ := args["aspect_ratio"].(string)
			candidateCount := util.IntArg(args["candidate_count"], 1)
			artifactIDs := util.StringSliceArg(args["image_artifact_ids"])

			if len(artifactIDs) == 0 {
				return generationResult("error", "", nil, desc,
					"No reference image provided. Please provide a reference image to generate the image."), nil
			}

			refs := make([]core.Artifact, 0, len(artifactIDs))
			for _, id := range artifactIDs {
				art, err := tc.LoadArtifact(id)
				if err != nil {
					return generationResult("error", "", nil, desc,
						fmt.Sprintf("Artifact %s not found", id)), nil
				}
				refs = append(refs, art)
			}

			prompt := promptFn(desc)

			if !validAspectRatio(aspectRatio) {
				tc.LogDebug("imagegen.aspect_ratio.defaulted", "tool", name, "requested", aspectRatio)
				aspectRatio = "1:1"
			}
			if candidateCount < 1 || candidateCount > 4 {
				tc.LogDebug("imagegen.candidate_count.defaulted", "tool", name, "requested", candidateCount)
				candidateCount = 1
			}

			images, err := t.gen.Generate(tc.Context(), Request{
				Prompt:         prompt,
				References:     refs,
				AspectRatio:    aspectRatio,
				CandidateCount: candidateCount,
			})
			if err != nil {
				return generationResult("error", "", artifactIDs, prompt,
					fmt.Sprintf("Error generating image: %v", err)), nil
			}
			if len(images) == 0 {
				return generationResult("error", "", artifactIDs, prompt,
					"Image generation failed: API returned no image data."), nil
			}

			artifactID := fmt.Sprintf("generated_img_%s.png", tc.FunctionCallID())
			img := images[len(images)-1]
			if err := tc.SaveArtifact(artifactID, core.Artifact{Data: img.Data, MimeType: img.MimeType}); err != nil {
				return generationResult("error", "", artifactIDs, prompt,
					fmt.Sprintf("Error saving generated image: %v", err)), nil
			}

			tc.LogInfo("imagegen.generated", "tool", name, "artifact_id", artifactID, "inputs", len(refs))

			return generationResult("success", artifactID, artifactIDs, prompt,
				fmt.Sprintf("Image generated successfully using %d input image(s)", len(refs))), nil
		},
	)
}

// productScenePrompt wraps the user brief with instructions that pin the
// reference product down while the scene changes.
func productScenePrompt(description string) string {
	return fmt.Sprintf("USER PROMPT: %s.\n\n---\n"+
		"**CRITICAL INSTRUCTION: YOU MUST PRESERVE THE REFERENCE PRODUCT.**\n"+
		"1.  **DO NOT ALTER THE PRODUCT:** The reference product (bottle, jar, etc.) must be used *exactly* as-is.\n"+
		"2.  **PRESERVE ALL TEXT:** All text, logos, and branding on the reference product must be preserved perfectly. Do not regenerate, misspell, or change any text.\n"+
		"3.  **PRESERVE APPEARANCE:** The product's shape, color, design, and label must remain identical to the reference image.\n"+
		"4.  **ONLY CHANGE THE BACKGROUND/SCENE:** Your only task is to place the *unaltered* product into the new scene described in the user prompt.",
		description)
}

// unbrandedProductPrompt wraps the user brief with instructions producing a
// factory blank version of the reference product.
func unbrandedProductPrompt(description string) string {
	return fmt.Sprintf("USER PROMPT: %s.\n\n---\n"+
		"The product in the generated image must be devoid of all text and graphics, while strictly preserving the original physical appearance, color, and shape of the reference object.\n\n"+
		"### **CRITICAL INSTRUCTION: GENERATE AN UNBRANDED, BLANK VERSION OF THE REFERENCE PRODUCT WITH ALL ORIGINAL COLOURS PRESERVED.**\n"+
		"1.  **GEOMETRY & MATERIAL ONLY:** Retain the exact physical shape, 3D geometry, material finish, and lighting of the reference bottle. However, treat the surface as a blank canvas while preserving the actual colours of the product bottle.\n"+
		"2.  **STRICT TEXT REMOVAL:** The product must be completely devoid of any typography, alphanumeric characters, logos, or barcodes. There should be zero writing on the container.\n"+
		"3.  **SURFACE CONTINUITY:** The bottle body must appear as a smooth, continuous surface. Where the label used to be, fill the area with the base material or the color as appropriate.\n"+
		"4.  **FACTORY BLANK APPEARANCE:** The object should look like a factory prototype or a stock photo prop before the printing stage, but with all the colours preserved. It is an unbranded, generic container, with colours as that of the actual reference product, that strictly mimics the form factor of the reference.\n",
		description)
}

func generationResult(status, artifactID string, inputIDs []string, prompt, message string) map[string]any {
	return map[string]any{
		"status":                    status,
		"tool_response_artifact_id": artifactID,
		"tool_input_artifact_id":    strings.Join(inputIDs, ", "),
		"used_prompt":               prompt,
		"message":                   message,
	}
}

func validAspectRatio(ratio string) bool {
	for _, r := range allowedAspectRatios {
		if r == ratio {
			return true
		}
	}
	return false
}


