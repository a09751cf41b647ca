// Package events carries task change notifications from the services to
// whoever wants them, such as the audit log, without the services knowing
// the receivers.
//
// Events are published after the change is stored. A failing handler never
// undoes the change.
package events
