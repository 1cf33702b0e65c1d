package influxdb

import "errors"

// Telemetry errors. Telemetry never blocks or fails a scheduling pass, so
// these only reach the daemon at startup (Connect) or through HealthCheck
// and the SetOnError callback.
//
//	client, err := influxdb.Connect(cfg.InfluxDB)
//	if errors.Is(err, influxdb.ErrDisabled) {
//	    // run without solar and appearance history
//	}
var (
	// ErrDisabled is returned by Connect when influxdb.enabled is false.
	ErrDisabled = errors.New("influxdb: telemetry disabled")

	// ErrConnectionFailed means the server did not answer the startup ping.
	ErrConnectionFailed = errors.New("influxdb: server unreachable")

	// ErrNotConnected is reported by HealthCheck after Close. Points written
	// in this state are counted by Dropped.
	ErrNotConnected = errors.New("influxdb: client closed")

	// ErrWriteFailed wraps batch errors delivered to the SetOnError callback.
	ErrWriteFailed = errors.New("influxdb: telemetry batch rejected")
)
