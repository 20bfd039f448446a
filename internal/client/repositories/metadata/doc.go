// Package metadata is a small key/value table in the client state database.
//
// It caches what offline login needs: per user the password hash and the
// trust id received at registration. Keys are namespaced by the caller,
// e.g. UserKey("alice", "password").
package metadata
