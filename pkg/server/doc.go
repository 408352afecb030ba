// Package server exposes the card-sheet pipeline over HTTP.
//
// # Endpoints
//
//	GET  /healthz             liveness and version
//	POST /api/v1/validate     validate a JSON array of cards
//	POST /api/v1/render       render a JSON array of cards (?format=pdf|json|png&duplicate=N)
//	GET  /api/v1/sample       sample input records
//
// Every response carries an X-Request-ID header. A client-supplied ID is
// echoed back; otherwise a random UUID is generated. Errors are JSON objects
// with a machine-readable code:
//
//	{"error": {"code": "INVALID_INPUT", "message": "..."}, "request_id": "..."}
//
// Validation failures answer 422 with every failing card listed. Logo paths
// in requests must stay inside the server's asset directory.
package server
