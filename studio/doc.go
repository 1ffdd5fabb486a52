// Package studio assembles the design studio agent tree: a root router that
// delegates to the asset, image generation, and image editing agents, all
// backed by Gemini models and Google Cloud Storage.
package studio
