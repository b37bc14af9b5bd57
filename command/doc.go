// Package command exposes go-command compatible handlers for the audit trail
// and read-tracking mutations. Commands are wired by the service layer and
// can be invoked by any transport.
package command
