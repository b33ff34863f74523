package config

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/banshee-data/pointcloud/internal/fsutil"
)

// DefaultConfigPath is the path to the canonical point cloud defaults file.
const DefaultConfigPath = "config/cloud.defaults.json"

// Plain array policies for projecting fields of differing types into one
// homogeneous array without an explicit element type.
const (
	PlainArrayReject  = "reject"
	PlainArrayPromote = "promote"
)

// Integer overflow policies for values that do not fit a column's width.
const (
	OverflowReject = "reject"
	OverflowWrap   = "wrap"
)

// CloudConfig holds the behavioural policies of a point cloud. Every field
// is optional; the Get* methods supply the defaults for unset fields.
type CloudConfig struct {
	// PlainArrayPolicy is "reject" or "promote".
	PlainArrayPolicy *string `json:"plain_array_policy,omitempty"`
	// IntegerOverflow is "reject" or "wrap".
	IntegerOverflow *string `json:"integer_overflow,omitempty"`
	// DenseRejectsInf makes ±Inf values count as invalid points, like NaN.
	DenseRejectsInf *bool `json:"dense_rejects_inf,omitempty"`
}

func ptrString(v string) *string { return &v }
func ptrBool(v bool) *bool       { return &v }

// EmptyCloudConfig returns a CloudConfig with all fields unset.
func EmptyCloudConfig() *CloudConfig {
	return &CloudConfig{}
}

// DefaultCloudConfig returns a CloudConfig with every field set to its
// default.
func DefaultCloudConfig() *CloudConfig {
	return &CloudConfig{
		PlainArrayPolicy: ptrString(PlainArrayReject),
		IntegerOverflow:  ptrString(OverflowReject),
		DenseRejectsInf:  ptrBool(false),
	}
}

// LoadCloudConfig loads a CloudConfig from a JSON file.
// The file must have a .json extension and be under 1MB.
// Fields omitted from the file keep their defaults.
func LoadCloudConfig(path string) (*CloudConfig, error) {
	return LoadCloudConfigFS(fsutil.OSFileSystem{}, path)
}

// LoadCloudConfigFS is LoadCloudConfig reading through fsys.
func LoadCloudConfigFS(fsys fsutil.FileSystem, path string) (*CloudConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := fsys.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024 // 1MB
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := fsys.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptyCloudConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// MustLoadDefaultConfig loads the defaults file from DefaultConfigPath,
// searching the current directory and its parents up to the repo root.
// Panics if the file cannot be loaded, intended for test setup.
func MustLoadDefaultConfig() *CloudConfig {
	candidates := []string{
		DefaultConfigPath,
		"../../" + DefaultConfigPath,    // from internal/config/
		"../../../" + DefaultConfigPath, // from internal/pointcloud/
		"../../../../" + DefaultConfigPath,
	}
	for _, path := range candidates {
		if cfg, err := LoadCloudConfig(path); err == nil {
			return cfg
		}
	}
	panic("cannot find " + DefaultConfigPath + " - run tests from repository root")
}

// Validate checks that the configured values are known.
func (c *CloudConfig) Validate() error {
	if c.PlainArrayPolicy != nil {
		switch *c.PlainArrayPolicy {
		case PlainArrayReject, PlainArrayPromote:
		default:
			return fmt.Errorf("plain_array_policy must be %q or %q, got %q",
				PlainArrayReject, PlainArrayPromote, *c.PlainArrayPolicy)
		}
	}
	if c.IntegerOverflow != nil {
		switch *c.IntegerOverflow {
		case OverflowReject, OverflowWrap:
		default:
			return fmt.Errorf("integer_overflow must be %q or %q, got %q",
				OverflowReject, OverflowWrap, *c.IntegerOverflow)
		}
	}
	return nil
}

// GetPlainArrayPolicy returns the plain_array_policy value or the default.
func (c *CloudConfig) GetPlainArrayPolicy() string {
	if c == nil || c.PlainArrayPolicy == nil || *c.PlainArrayPolicy == "" {
		return PlainArrayReject
	}
	return *c.PlainArrayPolicy
}

// GetIntegerOverflow returns the integer_overflow value or the default.
func (c *CloudConfig) GetIntegerOverflow() string {
	if c == nil || c.IntegerOverflow == nil || *c.IntegerOverflow == "" {
		return OverflowReject
	}
	return *c.IntegerOverflow
}

// GetDenseRejectsInf returns the dense_rejects_inf value or the default.
func (c *CloudConfig) GetDenseRejectsInf() bool {
	if c == nil || c.DenseRejectsInf == nil {
		return false
	}
	return *c.DenseRejectsInf
}
