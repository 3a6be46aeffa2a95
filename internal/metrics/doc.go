// Package metrics holds the Prometheus instruments for fetching, parsing and batch
// processing. Instruments register with the default registry on import and are served
// by the API's /metrics endpoint.
package metrics
