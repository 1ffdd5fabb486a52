// Package imagegen implements the image generation agent. It turns text
// briefs plus reference product artifacts into new marketing images via a
// hosted image model, with guardrail prompts that keep the reference product
// untouched.
package imagegen
