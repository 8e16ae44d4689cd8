package scoring

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

const (
	// DefaultEmbeddingModel is reported when the metadata does not name one.
	DefaultEmbeddingModel = "sentence-transformers/paraphrase-multilingual-MiniLM-L12-v2"
	// UnknownVersion is reported when the metadata has no created_at stamp.
	UnknownVersion = "unknown"
)

// Model describes the deployed classifier. It is immutable after loading.
type Model struct {
	Version        string  `json:"model_version"`
	EmbeddingModel string  `json:"embedding_model"`
	Threshold      float64 `json:"threshold"`
}

type metadata struct {
	ThresholdProdutivo *float64 `json:"threshold_produtivo"`
	EmbeddingModel     string   `json:"embedding_model"`
	CreatedAt          string   `json:"created_at"`
}

// Source opens the metadata file by key. storage.System satisfies it.
type Source interface {
	Download(ctx context.Context, key string) (io.ReadCloser, error)
}

// FileSource reads metadata from the local filesystem.
type FileSource struct{}

// Download opens the file at key, interpreted as a slash-separated path.
func (FileSource) Download(_ context.Context, key string) (io.ReadCloser, error) {
	return os.Open(filepath.FromSlash(key))
}

// LoadModel reads and parses the metadata at key.
// A non-zero thresholdOverride replaces the trained threshold.
func LoadModel(ctx context.Context, src Source, key string, thresholdOverride float64) (*Model, error) {
	rc, err := src.Download(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("open model metadata %s: %w", key, err)
	}
	defer rc.Close()

	return ParseModel(rc, thresholdOverride)
}

// ParseModel decodes metadata JSON into a Model.
func ParseModel(r io.Reader, thresholdOverride float64) (*Model, error) {
	var meta metadata
	if err := json.NewDecoder(r).Decode(&meta); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidMetadata, err)
	}

	m := &Model{
		Version:        meta.CreatedAt,
		EmbeddingModel: meta.EmbeddingModel,
	}
	if m.Version == "" {
		m.Version = UnknownVersion
	}
	if m.EmbeddingModel == "" {
		m.EmbeddingModel = DefaultEmbeddingModel
	}

	switch {
	case thresholdOverride != 0:
		m.Threshold = thresholdOverride
	case meta.ThresholdProdutivo != nil:
		m.Threshold = *meta.ThresholdProdutivo
	default:
		return nil, fmt.Errorf("%w: threshold_produtivo required", ErrInvalidMetadata)
	}

	if m.Threshold <= 0 || m.Threshold > 1 {
		return nil, fmt.Errorf("%w: threshold %g outside (0, 1]", ErrInvalidMetadata, m.Threshold)
	}

	return m, nil
}
