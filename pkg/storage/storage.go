// Package storage fetches published model artifacts from an Azure Blob
// Storage container.
package storage

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/bloberror"
)

// System is read-only: the training pipeline publishes, the service reads.
type System interface {
	// Download streams the blob at key. The caller closes the reader.
	// A missing blob or container yields an error wrapping ErrNotFound.
	Download(ctx context.Context, key string) (io.ReadCloser, error)
}

type blobStore struct {
	client    *azblob.Client
	container string
	logger    *slog.Logger
}

// New builds the client from the connection string. No request is made
// until the first Download.
func New(cfg *Config, logger *slog.Logger) (System, error) {
	client, err := azblob.NewClientFromConnectionString(cfg.ConnectionString, nil)
	if err != nil {
		return nil, fmt.Errorf("create storage client: %w", err)
	}

	return &blobStore{
		client:    client,
		container: cfg.ContainerName,
		logger:    logger.With("system", "storage", "container", cfg.ContainerName),
	}, nil
}

func (s *blobStore) Download(ctx context.Context, key string) (io.ReadCloser, error) {
	name, err := blobName(key)
	if err != nil {
		return nil, err
	}

	resp, err := s.client.DownloadStream(ctx, s.container, name, nil)
	switch {
	case bloberror.HasCode(err, bloberror.BlobNotFound, bloberror.ContainerNotFound):
		return nil, fmt.Errorf("%w: %s/%s", ErrNotFound, s.container, name)
	case err != nil:
		return nil, fmt.Errorf("download %s: %w", name, err)
	}

	size := int64(-1)
	if resp.ContentLength != nil {
		size = *resp.ContentLength
	}
	s.logger.Debug("blob opened", "key", name, "bytes", size)
	return resp.Body, nil
}

// blobName normalizes key to a container-relative name. Leading slashes and
// "./" segments are dropped; any ".." segment is rejected.
func blobName(key string) (string, error) {
	if strings.TrimSpace(key) == "" {
		return "", ErrEmptyKey
	}
	for seg := range strings.SplitSeq(key, "/") {
		if seg == ".." {
			return "", ErrInvalidKey
		}
	}

	name := strings.TrimPrefix(path.Clean("/"+key), "/")
	if name == "" {
		return "", ErrEmptyKey
	}
	return name, nil
}
