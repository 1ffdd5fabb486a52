package core

// Artifact is a binary blob plus the MIME type it was produced with. Image
// bytes dominate this system and the type must survive store round-trips:
// publishing derives file extensions from it and model calls attach it to
// inline image parts.
type Artifact struct {
	Data     []byte
	MimeType string
}

// ArtifactStore persists artifacts scoped by session identifier.
// Implementations must be safe for concurrent use. Short method names
// (Save/Get/List/Delete) mirror the other store interfaces.
type ArtifactStore interface {
	Save(sessionID, artifactID string, artifact Artifact) error
	Get(sessionID, artifactID string) (Artifact, error)
	List(sessionID string) ([]string, error)
	Delete(sessionID, artifactID string) error
}
