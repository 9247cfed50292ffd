// Package credentials persists the email to password-secret mapping.
//
// The whole mapping is one JSON object stored under the "users" key of the
// shared durable kv.Store:
//
//	{"a@x.com": "$2a$10$..."}
//
// Emails are case-sensitive and stored verbatim. Every write is a
// read-modify-write of the entire mapping. Store serializes those sequences
// inside one process; writers in other processes can still overwrite each
// other (last writer wins).
//
// Entries are only ever inserted. The package does not hash anything: the
// caller decides what the secret is (pkg/auth stores bcrypt hashes).
package credentials
