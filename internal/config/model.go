package config

import (
	"fmt"
	"path/filepath"

	"github.com/JaimeStill/autou/pkg/envvar"
	"github.com/JaimeStill/autou/pkg/storage"
)

const (
	EnvModelDir          = "AUTOU_MODEL_DIR"
	EnvModelMetadataFile = "AUTOU_MODEL_METADATA_FILE"

	// EnvLegacyModelDir is the unprefixed name; AUTOU_MODEL_DIR wins.
	EnvLegacyModelDir = "MODEL_DIR"
)

var modelStorageEnv = &storage.Env{
	ContainerName:    "AUTOU_MODEL_STORAGE_CONTAINER_NAME",
	ConnectionString: "AUTOU_MODEL_STORAGE_CONNECTION_STRING",
}

// ModelConfig locates the model metadata. When Storage is configured the
// metadata file is read from blob storage under Dir/MetadataFile; otherwise
// from the local filesystem.
type ModelConfig struct {
	Dir          string         `toml:"dir"`
	MetadataFile string         `toml:"metadata_file"`
	Storage      storage.Config `toml:"storage"`
}

// MetadataPath returns the path (or blob key) of the metadata file.
func (c *ModelConfig) MetadataPath() string {
	return filepath.ToSlash(filepath.Join(c.Dir, c.MetadataFile))
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *ModelConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	if err := c.validate(); err != nil {
		return err
	}
	if err := c.Storage.Finalize(modelStorageEnv); err != nil {
		return fmt.Errorf("storage: %w", err)
	}
	return nil
}

// Merge overwrites non-zero fields from overlay.
func (c *ModelConfig) Merge(o *ModelConfig) {
	overlay(&c.Dir, o.Dir)
	overlay(&c.MetadataFile, o.MetadataFile)
	c.Storage.Merge(&o.Storage)
}

func (c *ModelConfig) loadDefaults() {
	fallback(&c.Dir, "model_artifacts")
	fallback(&c.MetadataFile, "metadata.json")
}

func (c *ModelConfig) loadEnv() {
	envvar.String(&c.Dir, EnvLegacyModelDir)
	envvar.String(&c.Dir, EnvModelDir)
	envvar.String(&c.MetadataFile, EnvModelMetadataFile)
}

func (c *ModelConfig) validate() error {
	if filepath.IsAbs(c.MetadataFile) {
		return fmt.Errorf("metadata_file must be relative to dir: %s", c.MetadataFile)
	}
	return nil
}
