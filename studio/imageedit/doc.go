// Package imageedit implements the image editing agent. It swaps the
// background of existing product images through the Imagen predict REST API
// (a fast path and a mask-based quality path) and offers a general
// image-to-image edit through a Gemini image model. The product itself is
// never altered.
package imageedit
