package mqtt

import "fmt"

// TopicPrefix is the root of every Daylight topic.
const TopicPrefix = "daylight"

// Topics provides builders for Daylight MQTT topics.
//
//	topics := mqtt.Topics{}
//	topics.StateAppearance() // "daylight/state/appearance"
type Topics struct{}

// StateAppearance carries the applied light/dark appearance (retained).
func (Topics) StateAppearance() string { return fmt.Sprintf("%s/state/appearance", TopicPrefix) }

// StateSchedule carries a summary of the active schedule (retained).
func (Topics) StateSchedule() string { return fmt.Sprintf("%s/state/schedule", TopicPrefix) }

// StateNightMode carries the night-mode flag (retained).
func (Topics) StateNightMode() string { return fmt.Sprintf("%s/state/nightmode", TopicPrefix) }

// SystemStatus carries online/offline status, including the LWT.
func (Topics) SystemStatus() string { return fmt.Sprintf("%s/system/status", TopicPrefix) }

// CommandNightMode accepts {"enabled":bool}.
func (Topics) CommandNightMode() string { return fmt.Sprintf("%s/command/nightmode", TopicPrefix) }

// CommandRegenerate requests a scheduling pass.
func (Topics) CommandRegenerate() string { return fmt.Sprintf("%s/command/regenerate", TopicPrefix) }

// AllCommands matches every command topic.
//
// Pattern: daylight/command/+
func (Topics) AllCommands() string { return fmt.Sprintf("%s/command/+", TopicPrefix) }
