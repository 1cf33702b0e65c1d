package mqtt

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// NightModeCommand is the JSON body accepted on daylight/command/nightmode.
type NightModeCommand struct {
	Enabled *bool `json:"enabled"`
}

// DecodeNightMode accepts {"enabled":bool} or a bare on/off/true/false.
func DecodeNightMode(payload []byte) (bool, error) {
	trimmed := bytes.TrimSpace(payload)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var cmd NightModeCommand
		if err := json.Unmarshal(trimmed, &cmd); err != nil {
			return false, fmt.Errorf("%w: %w", ErrInvalidPayload, err)
		}
		if cmd.Enabled == nil {
			return false, fmt.Errorf("%w: missing \"enabled\"", ErrInvalidPayload)
		}
		return *cmd.Enabled, nil
	}

	switch strings.ToLower(strings.Trim(string(trimmed), `"`)) {
	case "on", "true", "1":
		return true, nil
	case "off", "false", "0":
		return false, nil
	}
	return false, fmt.Errorf("%w: %q", ErrInvalidPayload, trimmed)
}
