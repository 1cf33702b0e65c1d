// Package metrics exposes Prometheus collectors for scheduling passes,
// appearance switches and the HTTP API.
//
// Collectors live on a private registry so several instances can coexist in
// tests. Handler serves that registry in the text exposition format.
package metrics
