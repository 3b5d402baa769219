// Package admin serves the operator endpoints that sit beside the hfs
// listener: Prometheus metrics, a liveness probe, and the route table.
//
// The admin listener is a regular net/http server routed with chi. It
// never shares a port with the hand-rolled HTTP/1.1 listener.
//
//	GET /metrics   Prometheus exposition (promhttp)
//	GET /healthz   "ok"
//	GET /routes    route table and validator warnings as JSON
package admin
