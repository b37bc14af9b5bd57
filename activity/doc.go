// Package activity persists the append-only audit trail. Every business
// mutation is expected to be followed by a LogActivity call; records are never
// edited afterwards and only leave storage through DeleteOldLogs.
package activity
