// Package mqtt provides MQTT connectivity for the Daylight daemon.
//
// This package manages:
//   - Connection to the broker with auto-reconnect
//   - Retained state publishing (appearance, schedule, night-mode)
//   - Command subscriptions (night-mode toggle, regenerate)
//   - Last Will and Testament (LWT) for offline detection
//
// # Topics
//
//	daylight/state/appearance     retained, {"appearance":"dark",...}
//	daylight/state/schedule       retained, current schedule summary
//	daylight/state/nightmode      retained, {"enabled":true}
//	daylight/system/status        retained, online/offline (LWT)
//	daylight/command/nightmode    inbound, {"enabled":true}
//	daylight/command/regenerate   inbound, any payload
//
// # Security Considerations
//
//   - Set cfg.Broker.TLS=true when the broker is not on localhost
//   - Credentials should come from DAYLIGHT_MQTT_USERNAME/DAYLIGHT_MQTT_PASSWORD
//
// # Usage
//
//	client, err := mqtt.Connect(cfg.MQTT)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	err = client.PublishJSON(mqtt.Topics{}.StateAppearance(), payload)
package mqtt
