// Package memory implements the store interfaces on an in-process arena.
//
// It backs the server when database.driver is "memory" and lets service and
// API tests run the full request path without PostgreSQL. All stores share
// one lock, so each store method is atomic with respect to every other,
// including the version check of a task update and the (user, team)
// uniqueness check of a membership insert.
package memory
