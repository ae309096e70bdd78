/*
Package observability provides tools for monitoring catalog loads.

It turns the loader's lifecycle hooks into Prometheus metrics (tables loaded,
records per table, load duration and failures) and records the outcome of
cross-reference validation and hot reloads.
*/
package observability
