package imageedit

import (
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/craftlabs/designstudio/core"
	"github.com/craftlabs/designstudio/internal/util"
	"github.com/craftlabs/designstudio/studio/imagegen"
	"github.com/craftlabs/designstudio/tool"
)

var supportedAspectRatios = []string{"1:1", "4:3", "3:4", "9:16", "16:9"}

// ToolsOptions configures the editing tool set.
type ToolsOptions struct {
	// FastModel is the Imagen model used for single-shot background swaps.
	FastModel string
	// QualityModel is the mask-based Imagen model for higher quality swaps.
	QualityModel string
}

// Tools bundles the editing tool implementations. Background swaps go through
// the Imagen predict API, general edits through a Gemini image model.
type Tools struct {
	predictor Predictor
	gen       imagegen.Generator
	opts      ToolsOptions
}

// NewTools builds the editing tool set with optional overrides.
func NewTools(predictor Predictor, gen imagegen.Generator, optFns ...func(o *ToolsOptions)) *Tools {
	opts := ToolsOptions{
		FastModel:    "imagegeneration@002",
		QualityModel: "imagen-3.0-capability-001",
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	return &Tools{predictor: predictor, gen: gen, opts: opts}
}

// All returns the tools in registration order.
func (t *Tools) All() []tool.Tool {
	return []tool.Tool{t.ChangeBackgroundFast(), t.ChangeBackgroundQuality(), t.EditImage()}
}

type changeBackgroundFastParams struct {
	Description     string `json:"description" description:"Natural language description of the desired new background or scene (e.g. 'on a snowy mountain peak at sunset')"`
	ImageArtifactID string `json:"image_artifact_id" description:"Artifact ID of the product image whose background should change"`
	AspectRatio     string `json:"aspect_ratio" description:"Aspect ratio of the output, one of 1:1, 4:3, 3:4, 9:16, 16:9. Default is 1:1"`
	SampleCount     int    `json:"sample_count,omitempty" description:"Number of edited images to produce, between 1 and 4. Default is 1"`
}

// ChangeBackgroundFast swaps the background of a product image using the
// single-shot Imagen background editing mode.
func (t *Tools) ChangeBackgroundFast() tool.Tool {
	return tool.NewFunctionToolFromStruct(
		"change_background_fast",
		"Changes the background of an existing product image based on a text description, preserving the product itself exactly. Optimized for speed. Not for generating new images from scratch.",
		changeBackgroundFastParams{},
		func(tc *core.ToolContext, args map[string]any) (any, error) {
			desc, _ := args["description"].(string)
			artifactID, _ := args["image_artifact_id"].(string)
			aspectRatio, _ := args["aspect_ratio"].(string)
			sampleCount := clampSampleCount(util.IntArg(args["sample_count"], 1))

			if artifactID == "" {
				return editResult("error", "", "", desc, "No image artifact ID provided."), nil
			}

			art, err := tc.LoadArtifact(artifactID)
			if err != nil {
				return editResult("error", "", "", desc,
					fmt.Sprintf("Artifact %s not found", artifactID)), nil
			}

			if !supportedAspectRatio(aspectRatio) {
				tc.LogDebug("imageedit.aspect_ratio.defaulted", "requested", aspectRatio)
				aspectRatio = "1:1"
			}

			prompt := backgroundScenePrompt(desc)
			encoded := base64.StdEncoding.EncodeToString(art.Data)

			payload := map[string]any{
				"instances": []map[string]any{
					{
						"prompt": prompt,
						"image":  map[string]any{"bytesBase64Encoded": encoded},
					},
				},
				"parameters": map[string]any{
					"aspectRatio":       aspectRatio,
					"IsProductImage":    true,
					"mode":              "backgroundEditing",
					"sampleImageSize":   1024,
					"sampleCount":       sampleCount,
					"guidanceScale":     15,
					"disablePersonFace": true,
					"seed":              257,
					"negativePrompt":    "Dark colors, dark background, low res, low quality",
				},
			}

			predictions, err := t.predictor.Predict(tc.Context(), t.opts.FastModel, payload)
			if err != nil {
				return editResult("error", "", artifactID, prompt,
					fmt.Sprintf("Error changing background: %v", err)), nil
			}

			return t.saveBackgroundEdits(tc, predictions, artifactID, prompt)
		},
	)
}

type changeBackgroundQualityParams struct {
	Description     string `json:"description" description:"Natural language description of the desired new background or scene"`
	ImageArtifactID string `json:"image_artifact_id" description:"Artifact ID of the product image whose background should change"`
	SampleCount     int    `json:"sample_count,omitempty" description:"Number of edited images to produce, between 1 and 4. Default is 1"`
}

// ChangeBackgroundQuality swaps the background through the mask-based Imagen
// capability model. The background mask is computed server side, leaving the
// product region untouched.
func (t *Tools) ChangeBackgroundQuality() tool.Tool {
	return tool.NewFunctionToolFromStruct(
		"change_background_quality",
		"Changes the background of an existing product image based on a text description using a mask-based editing model for higher fidelity. Slower than change_background_fast. Not for generating new images from scratch.",
		changeBackgroundQualityParams{},
		func(tc *core.ToolContext, args map[string]any) (any, error) {
			desc, _ := args["description"].(string)
			artifactID, _ := args["image_artifact_id"].(string)
			sampleCount := clampSampleCount(util.IntArg(args["sample_count"], 1))

			if artifactID == "" {
				return editResult("error", "", "", desc, "No image artifact ID provided."), nil
			}

			art, err := tc.LoadArtifact(artifactID)
			if err != nil {
				return editResult("error", "", "", desc,
					fmt.Sprintf("Artifact %s not found", artifactID)), nil
			}

			prompt := backgroundScenePrompt(desc)
			encoded := base64.StdEncoding.EncodeToString(art.Data)

			payload := map[string]any{
				"instances": []map[string]any{
					{
						"prompt": prompt,
						"referenceImages": []map[string]any{
							{
								"referenceType":  "REFERENCE_TYPE_RAW",
								"referenceId":    1,
								"referenceImage": map[string]any{"bytesBase64Encoded": encoded},
							},
							{
								"referenceType":  "REFERENCE_TYPE_MASK",
								"referenceId":    2,
								"referenceImage": map[string]any{"bytesBase64Encoded": encoded},
								"maskImageConfig": map[string]any{
									"maskMode":    "MASK_MODE_BACKGROUND",
									"dilation":    0.0,
									"maskClasses": []int{115},
								},
							},
						},
					},
				},
				"parameters": map[string]any{
					"editConfig":       map[string]any{"baseSteps": 65},
					"editMode":         "EDIT_MODE_BGSWAP",
					"sampleCount":      sampleCount,
					"guidanceScale":    14,
					"personGeneration": "allow_all",
					"seed":             257,
					"negativePrompt":   "Dark colors",
				},
			}

			predictions, err := t.predictor.Predict(tc.Context(), t.opts.QualityModel, payload)
			if err != nil {
				return editResult("error", "", artifactID, prompt,
					fmt.Sprintf("Error changing background: %v", err)), nil
			}

			return t.saveBackgroundEdits(tc, predictions, artifactID, prompt)
		},
	)
}

type editImageParams struct {
	Description      string   `json:"description" description:"Natural language description of the desired edit, typically a full background replacement"`
	ImageArtifactIDs []string `json:"image_artifact_ids" description:"Artifact IDs of the reference images; the first one is edited"`
}

// EditImage performs a general image-to-image edit through the Gemini image
// model, replacing the entire scene behind the product.
func (t *Tools) EditImage() tool.Tool {
	return tool.NewFunctionToolFromStruct(
		"edit_image",
		"Edits an existing product image based on a text description, replacing the entire background and scene while preserving the product, its text, and its branding exactly. Use when the background swap tools are too restrictive.",
		editImageParams{},
		func(tc *core.ToolContext, args map[string]any) (any, error) {
			desc, _ := args["description"].(string)
			artifactIDs := util.StringSliceArg(args["image_artifact_ids"])

			if len(artifactIDs) == 0 {
				return editResult("error", "", "", desc, "No reference image artifact ID provided."), nil
			}

			inputID := artifactIDs[0]
			art, err := tc.LoadArtifact(inputID)
			if err != nil {
				return editResult("error", "", "", desc,
					fmt.Sprintf("Artifact %s not found", inputID)), nil
			}

			prompt := fullReplacementPrompt(desc)

			images, err := t.gen.Generate(tc.Context(), imagegen.Request{
				Prompt:         prompt,
				References:     []core.Artifact{art},
				CandidateCount: 1,
			})
			if err != nil {
				return editResult("error", "", inputID, prompt,
					fmt.Sprintf("Error editing image: %v", err)), nil
			}
			if len(images) == 0 {
				return editResult("error", "", inputID, prompt,
					"Image editing call succeeded but no image part was returned."), nil
			}

			artifactID := fmt.Sprintf("edited_img_%s.png", tc.FunctionCallID())
			img := images[len(images)-1]
			if err := tc.SaveArtifact(artifactID, core.Artifact{Data: img.Data, MimeType: img.MimeType}); err != nil {
				return editResult("error", "", inputID, prompt,
					fmt.Sprintf("Error saving edited image: %v", err)), nil
			}

			tc.LogInfo("imageedit.edited", "tool", "edit_image", "artifact_id", artifactID)

			return editResult("success", artifactID, inputID, prompt, "Image edited successfully."), nil
		},
	)
}

// saveBackgroundEdits decodes each prediction and stores it as a numbered
// artifact. Predictions without image data are skipped.
func (t *Tools) saveBackgroundEdits(tc *core.ToolContext, predictions []Prediction, inputID, prompt string) (any, error) {
	if len(predictions) == 0 {
		return editResult("error", "", inputID, prompt,
			"Background editing returned zero predictions."), nil
	}

	var artifactIDs []string
	for i, pred := range predictions {
		if pred.BytesBase64Encoded == "" {
			tc.LogDebug("imageedit.prediction.empty", "index", i)
			continue
		}

		data, err := base64.StdEncoding.DecodeString(pred.BytesBase64Encoded)
		if err != nil {
			return editResult("error", "", inputID, prompt,
				fmt.Sprintf("Error decoding edited image: %v", err)), nil
		}

		artifactID := fmt.Sprintf("edited_img_bkg_%s_%d.png", tc.FunctionCallID(), i)
		if err := tc.SaveArtifact(artifactID, core.Artifact{Data: data, MimeType: "image/png"}); err != nil {
			return editResult("error", "", inputID, prompt,
				fmt.Sprintf("Error saving edited image: %v", err)), nil
		}
		artifactIDs = append(artifactIDs, artifactID)
	}

	if len(artifactIDs) == 0 {
		return editResult("error", "", inputID, prompt,
			"Background editing returned no image data."), nil
	}

	tc.LogInfo("imageedit.background_changed", "artifacts", len(artifactIDs), "input", inputID)

	return editResult("success", strings.Join(artifactIDs, ", "), inputID, prompt,
		fmt.Sprintf("Background changed successfully, %d image(s) produced", len(artifactIDs))), nil
}

// backgroundScenePrompt wraps the user brief with the product preservation
// rules the background models respond to.
func backgroundScenePrompt(description string) string {
	return fmt.Sprintf("USER PROMPT: %s.\n\n---\n"+
		"**CRITICAL INSTRUCTION: YOU MUST PRESERVE THE REFERENCE PRODUCT.**\n"+
		"1.  **DO NOT ALTER THE PRODUCT:** The reference product (bottle, jar, etc.) must be used *exactly* as-is.\n"+
		"2.  **PRESERVE ALL TEXT:** All text, logos, and branding on the reference product must be preserved perfectly. Do not regenerate, misspell, or change any text.\n"+
		"3.  **PRESERVE APPEARANCE:** The product's shape, color, design, and label must remain identical to the reference image.\n"+
		"4.  **ONLY CHANGE THE BACKGROUND/SCENE:** Your only task is to place the *unaltered* product into the new scene described in the user prompt.",
		description)
}

// fullReplacementPrompt extends the preservation rules with strict scene
// replacement and lighting matching for the image-to-image path.
func fullReplacementPrompt(description string) string {
	return fmt.Sprintf("USER REQUEST: %s\n\n---\n"+
		"**CRITICAL INSTRUCTION: YOU MUST PRESERVE THE REFERENCE PRODUCT.**\n"+
		"1.  **PRODUCT PRESERVATION:** The reference product (bottle, jar, etc.) must be used *exactly* as-is. Do not change its lighting, angle, or position.\n"+
		"2.  **TEXT IS SACRED:** All text, logos, and branding on the reference product must be preserved perfectly. Do not regenerate, misspell, or change any text.\n"+
		"3.  **APPEARANCE INTEGRITY:** The product's shape, color, design, and label must remain identical to the reference image.\n"+
		"4.  **COMPLETE BACKGROUND REPLACEMENT:** Your primary task is to completely replace the *entire background and scene* behind the product with the one described in the user prompt. **Absolutely no elements from the original background should remain.** This includes any existing decorations, patterns, surfaces, or objects. The new scene should be fully coherent and replace all previous background elements.\n"+
		"5.  **FOCUS ON NEW SCENE:** Ensure the new background is the dominant visual element behind the product, completely overriding anything from the original image's background.\n"+
		"6.  **PHOTOREALISTIC LIGHTING & CONTRAST MATCHING:** Analyze the lighting (direction, intensity, color), shadows, and overall contrast/brightness of the *original product*. The *newly generated background* must meticulously match these lighting conditions and contrast levels. Ensure the new scene's lighting is consistent with the product's existing lighting to achieve a seamless, photorealistic, and professional look. Avoid harsh shadows or highlights that don't align with the product. The product should remain prominent and perfectly integrated, not look like it's been artificially placed.\n"+
		"7.  **HARMONIOUS COLOR PALETTE:** While creating the new background, ensure its color palette complements the product without clashing. The product should stand out naturally against the new background, maintaining its prominence and visual appeal.",
		description)
}

func editResult(status, artifactIDs, inputID, prompt, message string) map[string]any {
	return map[string]any{
		"status":                    status,
		"tool_response_artifact_id": artifactIDs,
		"tool_input_artifact_id":    inputID,
		"used_prompt":               prompt,
		"message":                   message,
	}
}

func supportedAspectRatio(ratio string) bool {
	for _, r := range supportedAspectRatios {
		if r == ratio {
			return true
		}
	}
	return false
}

func clampSampleCount(n int) int {
	if n < 1 {
		return 1
	}
	if n > 4 {
		return 4
	}
	return n
}


