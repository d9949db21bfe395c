package types

import "errors"

// Config holds the parameters for opening a Waybill store.
type Config struct {
	// DataDir is the directory holding waybill.db. Empty means the
	// current directory.
	DataDir string `json:"data_dir" yaml:"data_dir"`

	// LogLevel selects the log level: debug, info, warn, or error.
	// Empty means info.
	LogLevel string `json:"log_level" yaml:"log_level"`
}

// Config validation errors.
var ErrLogLevelUnknown = errors.New("unknown log level")

// knownLogLevels lists the levels that Validate accepts.
var knownLogLevels = map[string]bool{
	"":        true, // defaults to info
	"debug":   true,
	"info":    true,
	"warn":    true,
	"warning": true,
	"error":   true,
}

// Validate checks that the Config is well-formed. It returns a sentinel
// error from this package on failure.
func (c Config) Validate() error {
	if !knownLogLevels[c.LogLevel] {
		return ErrLogLevelUnknown
	}
	return nil
}
