// Package influxdb writes Daylight telemetry to InfluxDB v2.
//
// Each successful scheduling pass produces a solar_instants point and a
// phase_durations point; each light/dark switch produces an appearance point.
// This gives a year-long record of how the schedule tracks the seasons.
//
// # Usage
//
//	client, err := influxdb.Connect(cfg.InfluxDB)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	client.WriteSchedule(cfg.Site.ID, theme, sched, tzOffset)
//
// # Thread Safety
//
// All methods are safe for concurrent use. Writes are non-blocking and
// batched (batch_size, flush_interval); failures arrive via SetOnError.
package influxdb
