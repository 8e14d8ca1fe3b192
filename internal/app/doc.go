// Package app wires configuration, logging, metrics, services, and the
// chi router into a runnable HTTP application with graceful shutdown.
package app
