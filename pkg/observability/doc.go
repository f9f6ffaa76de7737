/*
Package observability provides tools for monitoring the turing engine.

It turns engine lifecycle hooks into Prometheus metrics and structured log
records, so any run (CLI, HTTP, batch or debug session) can be observed
without changes to the engine itself.
*/
package observability
