// Package api is the HTTP adapter of the collaboration service. It decodes
// and validates requests, takes the caller identity placed in the context by
// the authentication middleware, calls the services and maps their domain
// errors to status codes and stable error codes.
//
// Handlers hold no business rules: membership checks, version checks and
// soft-delete visibility all live in package service.
package api
