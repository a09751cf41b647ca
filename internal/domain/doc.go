// Package domain contains the core business entities of the collaboration
// backend: users, teams and their memberships, tasks and comments, plus the
// classified error values every layer reports through.
//
// Entities reference each other by id only. Relations are resolved through
// the stores on demand.
package domain
