// Package store defines the persistence contracts of the collaboration
// backend: users, teams, memberships, versioned tasks and comments.
//
// Implementations live under internal/platform (postgres and memory). They
// report failures with the sentinels in this package; the service layer
// translates them into domain errors.
package store
