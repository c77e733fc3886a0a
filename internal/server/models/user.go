// Package models defines the persistent domain entities of BlogKeeper.
package models

import "time"

// User is an account that can authenticate with username/secret credentials.
// Only the salted Argon2id hash of the secret is ever stored.
type User struct {
	ID         string
	Username   string
	SecretHash []byte
	Salt       []byte
	CreatedAt  time.Time
}
