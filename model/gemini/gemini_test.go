package gemini

import (
	"encoding/base64"
	"testing"

	"github.com/craftlabs/designstudio/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestBuildContents_DecodesInlineFileBytes(t *testing.T) {
	raw := []byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a, 0x1a, 0x0a}

	contents := []core.Content{{
		Role: "user",
		Parts: []core.Part{
			core.TextPart{Text: "add a beach background"},
			core.FilePart{File: core.FileRef{
				Bytes:    base64.StdEncoding.EncodeToString(raw),
				MimeType: strPtr("image/jpeg"),
			}},
		},
	}}

	built := buildContents(contents)
	require.Len(t, built, 1)
	require.Len(t, built[0].Parts, 2)

	blob := built[0].Parts[1].InlineData
	require.NotNil(t, blob)
	assert.Equal(t, "image/jpeg", blob.MIMEType)
	assert.Equal(t, raw, blob.Data)
}

func TestBuildContents_DefaultsFileMimeType(t *testing.T) {
	contents := []core.Content{{
		Role: "user",
		Parts: []core.Part{
			core.FilePart{File: core.FileRef{
				Bytes: base64.StdEncoding.EncodeToString([]byte("img")),
			}},
		},
	}}

	built := buildContents(contents)
	require.Len(t, built, 1)
	require.Len(t, built[0].Parts, 1)
	assert.Equal(t, "image/png", built[0].Parts[0].InlineData.MIMEType)
}

func TestBuildContents_SkipsMalformedFileBytes(t *testing.T) {
	contents := []core.Content{{
		Role: "user",
		Parts: []core.Part{
			core.FilePart{File: core.FileRef{Bytes: "not!!base64"}},
			core.TextPart{Text: "hello"},
		},
	}}

	built := buildContents(contents)
	require.Len(t, built, 1)
	require.Len(t, built[0].Parts, 1)
	assert.Equal(t, "hello", built[0].Parts[0].Text)
}
