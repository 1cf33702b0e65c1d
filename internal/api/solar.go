package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/nerrad567/gray-logic-daylight/internal/solar"
)

// dateLayout is the format of the date query parameter.
const dateLayout = "2006-01-02"

// SolarResponse is returned by GET /api/v1/solar.
type SolarResponse struct {
	Latitude  float64          `json:"latitude"`
	Longitude float64          `json:"longitude"`
	TZOffset  float64          `json:"tz_offset"`
	Date      string           `json:"date"`
	Mode      string           `json:"mode"`
	Instants  solar.Instants   `json:"instants"`
	Ordered   bool             `json:"ordered"`
	Reference *solar.Instants  `json:"reference,omitempty"`
	Deviation *solar.Deviation `json:"deviation,omitempty"`
}

// handleSolar computes instants for lat, lon, tz and date. Missing
// coordinates fall back to the daemon location, tz to the host offset and
// date to today.
func (s *Server) handleSolar(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	snap := s.daemon.Snapshot()
	now := s.now()

	lat, err := floatParam(q.Get("lat"), snap.Location.Latitude)
	if err != nil || lat < -90 || lat > 90 {
		writeBadRequest(w, "lat must be a number between -90 and 90")
		return
	}
	lon, err := floatParam(q.Get("lon"), snap.Location.Longitude)
	if err != nil || lon < -180 || lon > 180 {
		writeBadRequest(w, "lon must be a number between -180 and 180")
		return
	}
	defTZ := solar.LocalOffsetHours(now.In(time.Local))
	if snap.LastRun != nil {
		defTZ = snap.LastRun.Location.TZOffset
	}
	tz, err := floatParam(q.Get("tz"), defTZ)
	if err != nil || tz < -12 || tz > 14 {
		writeBadRequest(w, "tz must be a number between -12 and 14")
		return
	}

	// The fractional year uses the hour on the tz clock; explicit dates are
	// taken at noon.
	zone := solar.Zone(tz)
	date := now.In(zone)
	if v := q.Get("date"); v != "" {
		day, err := time.ParseInLocation(dateLayout, v, zone)
		if err != nil {
			writeBadRequest(w, "date must be formatted as YYYY-MM-DD")
			return
		}
		date = solar.NoonOf(day)
	}

	calc := s.calc
	if v := q.Get("mode"); v != "" {
		calc.Mode, err = solar.ParseMode(v)
		if err != nil {
			writeBadRequest(w, err.Error())
			return
		}
	}

	in := calc.Compute(lat, lon, tz, date)
	resp := SolarResponse{
		Latitude:  lat,
		Longitude: lon,
		TZOffset:  tz,
		Date:      date.Format(dateLayout),
		Mode:      calc.Mode.String(),
		Instants:  in,
		Ordered:   in.Ordered(),
	}
	if ref, ok := (solar.Reference{}).Compute(lat, lon, tz, date); ok {
		dev := solar.Compare(in, ref)
		resp.Reference = &ref
		resp.Deviation = &dev
	}
	writeJSON(w, http.StatusOK, resp)
}

func floatParam(v string, def float64) (float64, error) {
	if v == "" {
		return def, nil
	}
	return strconv.ParseFloat(v, 64)
}
