// Package repositories implements SQLite persistence for the gateway's user store.
//
// [UserRepository] implements models.Repository[*models.User] with atomic
// sequence generation and soft deletes via deleted_at timestamps, and layers
// the user-store operations on top:
//
//   - UpsertBySpotifyID: create-on-first-authorization, overwrite thereafter
//   - UpdateAccessByRefresh: best-effort token persistence after a refresh
//   - IssueToken / RevokeToken: opaque bearer token lifecycle (sessions table)
//   - AuthenticateToken: bearer token → [models.User] resolution, collapsing
//     every failure into shared.ErrInvalidLogin
//
// The [NextSequence] function atomically increments per-table sequence
// counters in dedicated sequence tables.
package repositories
