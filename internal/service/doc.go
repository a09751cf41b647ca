// Package service contains the application use cases of the collaboration
// backend. It orchestrates domain objects and the persistence contracts in
// internal/store to fulfill application features.
//
// Key components:
//
//   - MembershipService answers whether a user belongs to a team and adds
//     members. Every task and comment operation is authorized through it.
//   - TaskService is the task mutation core: create, read, list, partial
//     update under optimistic versioning, and soft delete.
//   - CommentService appends comments to live tasks and lists them in
//     creation order.
//   - TeamService and UserService cover teams, invitations, registration
//     and sign-in.
//
// Every operation takes the caller's user id as an explicit argument; the
// package never reads an ambient identity. Existence and authorization
// checks run before any write, and a version conflict is returned to the
// caller rather than retried.
//
// Errors returned by this package always classify through domain.KindOf and
// domain.CodeOf. Storage errors are translated at this boundary.
package service
