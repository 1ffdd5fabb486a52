package assets

import (
	"errors"
	"fmt"
	"path"
	"sort"
	"strings"
	"time"

	fuzzy "github.com/paul-mannino/go-fuzzywuzzy"

	"github.com/craftlabs/designstudio/core"
	"github.com/craftlabs/designstudio/tool"
)

// ToolsOptions configures the asset tool set.
type ToolsOptions struct {
	// Prefix is the folder holding high resolution product images.
	Prefix string
	// MatchThreshold is the minimum fuzzy score (exclusive) for a search hit.
	MatchThreshold int
	// SignedURLTTL bounds the lifetime of published links.
	SignedURLTTL time.Duration
}

// Tools bundles the asset agent's tool implementations over two buckets: the
// read-only asset bucket and the output bucket published images land in.
type Tools struct {
	assets  BlobStore
	outputs BlobStore
	opts    ToolsOptions
}

// NewTools builds the asset tool set with optional overrides.
func NewTools(assets, outputs BlobStore, optFns ...func(o *ToolsOptions)) *Tools {
	opts := ToolsOptions{
		Prefix:         "high_resolution_images",
		MatchThreshold: 80,
		SignedURLTTL:   120 * time.Minute,
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	return &Tools{assets: assets, outputs: outputs, opts: opts}
}

// All returns the tools in registration order.
func (t *Tools) All() []tool.Tool {
	return []tool.Tool{t.SearchAssets(), t.GetAsset(), t.PublishAsset()}
}

type searchAssetsParams struct {
	SearchQuery string `json:"search_query" description:"The term or phrase used to find matching image files (e.g. 'dry spray')"`
}

// SearchAssets fuzzy-matches object names under the asset prefix against the
// query and returns basenames sorted by best match first.
func (t *Tools) SearchAssets() tool.Tool {
	return tool.NewFunctionToolFromStruct(
		"search_assets",
		"Searches the asset bucket for image files whose names closely match a search query using fuzzy string matching. Returns a list of matching filenames, best match first.",
		searchAssetsParams{},
		func(tc *core.ToolContext, args map[string]any) (any, error) {
			query, _ := args["search_query"].(string)

			names, err := t.assets.List(tc.Context(), t.opts.Prefix)
			if err != nil {
				return errorResult(fmt.Sprintf("Error searching assets: %v", err)), nil
			}

			type scored struct {
				name  string
				score int
			}

			var matches []scored
			for _, name := range names {
				score := fuzzy.TokenSetRatio(strings.ToLower(query), strings.ToLower(name))
				if score > t.opts.MatchThreshold {
					matches = append(matches, scored{name: name, score: score})
				}
			}

			if len(matches) == 0 {
				return errorResult("No matching files found."), nil
			}

			sort.SliceStable(matches, func(i, j int) bool { return matches[i].score > matches[j].score })

			images := make([]string, 0, len(matches))
			for _, m := range matches {
				images = append(images, path.Base(m.name))
			}

			tc.LogDebug("assets.search.matched", "query", query, "count", len(images))

			return map[string]any{
				"status": "success",
				"images": images,
			}, nil
		},
	)
}

type getAssetParams struct {
	AssetName string `json:"asset_name" description:"The exact object filename found via search_assets (e.g. 'shampoo_blue_sku_456.png')"`
}

// GetAsset downloads a named asset and stores it as a session artifact for
// the other agents to consume.
func (t *Tools) GetAsset() tool.Tool {
	return tool.NewFunctionToolFromStruct(
		"get_asset",
		"Retrieves a product image from the asset bucket by its exact name and saves it as an artifact. Returns the artifact_id other agents can reference.",
		getAssetParams{},
		func(tc *core.ToolContext, args map[string]any) (any, error) {
			name, _ := args["asset_name"].(string)

			data, err := t.assets.Download(tc.Context(), t.opts.Prefix+"/"+name)
			if err != nil {
				if errors.Is(err, ErrObjectNotFound) {
					return errorResult(fmt.Sprintf("Image %s not found in asset bucket.", name)), nil
				}
				return errorResult(fmt.Sprintf("Error fetching image: %v", err)), nil
			}

			artifactID := "gcs_image_" + name
			if err := tc.SaveArtifact(artifactID, core.Artifact{Data: data, MimeType: "image/png"}); err != nil {
				return errorResult(fmt.Sprintf("Error saving artifact: %v", err)), nil
			}

			return map[string]any{
				"status":      "success",
				"artifact_id": artifactID,
			}, nil
		},
	)
}

type publishAssetParams struct {
	ArtifactID string  `json:"artifact_id" description:"The artifact ID of the image to publish"`
	CustomName *string `json:"custom_name,omitempty" description:"Optional file name chosen by the user; pass 'default' to auto-name by timestamp"`
}

// PublishAsset uploads an artifact to the output bucket and returns a signed
// URL valid for the configured TTL.
func (t *Tools) PublishAsset() tool.Tool {
	return tool.NewFunctionToolFromStruct(
		"publish_asset",
		"Publishes an image artifact to the output bucket and returns a temporary signed URL plus the stored filename.",
		publishAssetParams{},
		func(tc *core.ToolContext, args map[string]any) (any, error) {
			artifactID, _ := args["artifact_id"].(string)
			customName, _ := args["custom_name"].(string)

			art, err := tc.LoadArtifact(artifactID)
			if err != nil {
				return errorResult(fmt.Sprintf("Artifact %s not found.", artifactID)), nil
			}

			mimeType := art.MimeType
			if mimeType == "" {
				mimeType = "image/png"
			}

			filename := publishName(customName, mimeType)

			if err := t.outputs.Upload(tc.Context(), filename, art.Data, mimeType); err != nil {
				return errorResult(fmt.Sprintf("Error saving image: %v", err)), nil
			}

			signedURL, err := t.outputs.SignedURL(filename, t.opts.SignedURLTTL)
			if err != nil {
				return errorResult(fmt.Sprintf("Error signing URL: %v", err)), nil
			}

			tc.LogInfo("assets.publish.saved", "artifact_id", artifactID, "filename", filename)

			return map[string]any{
				"status":     "success",
				"signed_url": signedURL,
				"filename":   filename,
			}, nil
		},
	)
}

func errorResult(msg string) map[string]any {
	return map[string]any{"status": "error", "message": msg}
}

// publishName derives the stored object name: a slug of the custom name when
// one was given, otherwise a UTC microsecond timestamp.
func publishName(customName, mimeType string) string {
	ext := strings.ToLower(mimeType)
	if idx := strings.LastIndex(ext, "/"); idx >= 0 {
		ext = ext[idx+1:]
	}
	switch ext {
	case "png", "jpeg", "jpg":
	default:
		ext = "png"
	}

	if s := slug(customName); s != "" && s != "default" && s != "use_default" {
		return s + "." + ext
	}

	now := time.Now().UTC()
	return fmt.Sprintf("%s%06d.%s", now.Format("20060102_150405"), now.Nanosecond()/1000, ext)
}

func slug(s string) string {
	s = strings.TrimSpace(strings.ToLower(s))
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		case r == ' ':
			b.WriteRune('_')
		}
	}
	return b.String()
}
