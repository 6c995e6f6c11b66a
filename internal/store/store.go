// Package store provides the generic key-value persistence collaborator the
// workflow and identity services save their state through. Values are JSON
// documents addressed by a flat key; backends differ only in where the bytes
// live.
package store

import "context"

// Well-known keys shared with the original storage layout.
const (
	KeyCurrentUser = "currentUser"
	KeyIsLoggedIn  = "isLoggedIn"
	KeySubmissions = "submissions"
	KeyLeaves      = "leaves"
	KeyApprovals   = "approvals"
)

// Store is a JSON document store addressed by key. Get decodes into dest and
// returns errors.ErrKeyNotFound when the key is absent. Set fully replaces
// the value under the key.
type Store interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}) error
	Delete(ctx context.Context, key string) error
}
