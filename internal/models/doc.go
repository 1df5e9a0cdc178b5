// Package models defines domain entities and persistence interfaces for the trax gateway.
//
// [User] is the only persistent entity: a Spotify account identity paired with
// the OAuth token bundle returned by the authorization-code flow. It implements
// the [Model] interface providing ID generation hooks, timestamps, validation,
// and soft delete support.
//
// The [Repository] interface defines standard CRUD operations for database
// access; implementations live in the repositories package. Bearer session
// tokens are persistence-internal and have no entity here: the user store
// resolves them straight to a [User].
package models
