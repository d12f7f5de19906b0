/*
Package observability mirrors engine lifecycle events into Prometheus
collectors.

The Metrics type is a regular notifier: wire it next to the sinks that drive
the UI or automations, expose the registry over promhttp, and the engine
itself stays unaware of the instrumentation.
*/
package observability
