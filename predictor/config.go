package predictor

import (
	"encoding/json"
	"fmt"
	"os"
)

// DefaultGlobalHistoryBits is the default gshare history width. It also
// bounds the history register TAGE stores between branches.
const DefaultGlobalHistoryBits = 15

// Config holds predictor construction parameters. Values are fixed at
// construction and never mutated afterwards.
type Config struct {
	// Kind selects the predictor variant.
	Kind Kind `json:"kind"`

	// GlobalHistoryBits is the global history width used by gshare and by
	// the history register TAGE maintains. Default: 15.
	GlobalHistoryBits int `json:"global_history_bits"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		Kind:              KindGshare,
		GlobalHistoryBits: DefaultGlobalHistoryBits,
	}
}

// Validate checks that the configuration is constructible.
func (c Config) Validate() error {
	switch c.Kind {
	case KindStatic, KindGshare, KindTournament, KindCustom:
	default:
		return fmt.Errorf("unknown predictor kind %d", int(c.Kind))
	}

	if c.GlobalHistoryBits < 1 || c.GlobalHistoryBits > 30 {
		return fmt.Errorf(
			"global history bits must be in [1, 30], got %d",
			c.GlobalHistoryBits)
	}

	return nil
}

// LoadConfig loads a Config from a JSON file. Fields absent from the file
// keep their default values.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read predictor config file: %w", err)
	}

	config := DefaultConfig()
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse predictor config file: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// kindNames maps variants to their trace-harness names.
var kindNames = map[Kind]string{
	KindStatic:     "static",
	KindGshare:     "gshare",
	KindTournament: "tournament",
	KindCustom:     "custom",
}

// String returns the variant name used by the CLI and result output.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// ParseKind converts a variant name to a Kind.
func ParseKind(name string) (Kind, error) {
	for k, n := range kindNames {
		if n == name {
			return k, nil
		}
	}
	return 0, fmt.Errorf(
		"unknown predictor kind %q (want static, gshare, tournament, or custom)",
		name)
}

// MarshalJSON encodes the Kind as its variant name.
func (k Kind) MarshalJSON() ([]byte, error) {
	name, ok := kindNames[k]
	if !ok {
		return nil, fmt.Errorf("cannot encode predictor kind %d", int(k))
	}
	return json.Marshal(name)
}

// UnmarshalJSON decodes a Kind from its variant name.
func (k *Kind) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}

	kind, err := ParseKind(name)
	if err != nil {
		return err
	}

	*k = kind
	return nil
}
