// Package services contains the application service layer between the
// HTTP transport and the dataset/stats core. Services own the current
// dataset source, orchestrate load, filter, and aggregation, and expose
// sentinel errors the transport maps to structured responses.
package services
