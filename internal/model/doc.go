// Package model defines the core domain types for WebShepherd:
// finding severity, WCAG taxonomy metadata, individual findings,
// and the scan record produced by one scan attempt.
package model
