package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/multierr"
)

// Output formats understood by the converter CLI.
const (
	FormatJSON     = "json"
	FormatProtobuf = "protobuf"
	FormatPCD      = "pcd"
)

// DefaultMaxInputBytes caps the size of one input message.
const DefaultMaxInputBytes int64 = 256 << 20

// ConvertConfig holds the converter CLI settings. Fields left nil fall back
// to the defaults returned by the Get* methods, so partial files are safe.
type ConvertConfig struct {
	OutputFormat  *string `json:"output_format,omitempty"` // "json", "protobuf" or "pcd"
	MaxInputBytes *int64  `json:"max_input_bytes,omitempty"`
	PrettyJSON    *bool   `json:"pretty_json,omitempty"`
	Summary       *bool   `json:"summary,omitempty"`
}

// Helper functions to create pointers
func ptrString(v string) *string { return &v }
func ptrInt64(v int64) *int64    { return &v }
func ptrBool(v bool) *bool       { return &v }

// EmptyConvertConfig returns a ConvertConfig with all fields set to nil.
func EmptyConvertConfig() *ConvertConfig {
	return &ConvertConfig{}
}

// DefaultConvertConfig returns a ConvertConfig with every field populated.
func DefaultConvertConfig() *ConvertConfig {
	return &ConvertConfig{
		OutputFormat:  ptrString(FormatJSON),
		MaxInputBytes: ptrInt64(DefaultMaxInputBytes),
		PrettyJSON:    ptrBool(false),
		Summary:       ptrBool(false),
	}
}

// LoadConvertConfig loads a ConvertConfig from a JSON file.
// The file must have a .json extension and be at most 1MB.
func LoadConvertConfig(path string) (*ConvertConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024 // 1MB
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptyConvertConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate reports every invalid field, not just the first.
func (c *ConvertConfig) Validate() error {
	var err error
	if c.OutputFormat != nil {
		switch *c.OutputFormat {
		case FormatJSON, FormatProtobuf, FormatPCD:
		default:
			err = multierr.Append(err, fmt.Errorf("output_format must be one of %q, %q, %q, got %q",
				FormatJSON, FormatProtobuf, FormatPCD, *c.OutputFormat))
		}
	}
	if c.MaxInputBytes != nil && *c.MaxInputBytes <= 0 {
		err = multierr.Append(err, fmt.Errorf("max_input_bytes must be positive, got %d", *c.MaxInputBytes))
	}
	return err
}

// GetOutputFormat returns the output_format value or the default.
func (c *ConvertConfig) GetOutputFormat() string {
	if c.OutputFormat == nil || *c.OutputFormat == "" {
		return FormatJSON
	}
	return *c.OutputFormat
}

// GetMaxInputBytes returns the max_input_bytes value or the default.
func (c *ConvertConfig) GetMaxInputBytes() int64 {
	if c.MaxInputBytes == nil {
		return DefaultMaxInputBytes
	}
	return *c.MaxInputBytes
}

// GetPrettyJSON returns the pretty_json value or the default.
func (c *ConvertConfig) GetPrettyJSON() bool {
	if c.PrettyJSON == nil {
		return false
	}
	return *c.PrettyJSON
}

// GetSummary returns the summary value or the default.
func (c *ConvertConfig) GetSummary() bool {
	if c.Summary == nil {
		return false
	}
	return *c.Summary
}
