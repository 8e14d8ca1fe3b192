// Package http contains the chi HTTP handlers: the dashboard page, the
// JSON data API, uploads, exports, and health. Handlers depend on the
// service layer through small interfaces so tests can substitute fakes.
package http
