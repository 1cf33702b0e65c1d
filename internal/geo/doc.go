// Package geo resolves the coordinates and UTC offset used for solar
// calculations.
//
// Coordinates come either from configuration (Static) or from an online
// IP geolocation service (HTTPProvider). Resolve never fails: any lookup
// error falls back to (0, 0) and is logged.
package geo
