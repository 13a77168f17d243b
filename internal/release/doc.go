// Package release applies release operations to an already-built image.
//
// Tagging, saving to an archive, and publishing to remote registries
// share a uniform contract: each requires the built image reference
// and fails when any underlying external command exits non-zero.
// Operations are not transactional; a tag applied
// before a later save or publish failure stays applied.
//
// Publishing treats each named target as an independent operation, so
// a failure is attributed to the target that caused it. The digest the
// registry reports on push is parsed and recorded per target.
package release
