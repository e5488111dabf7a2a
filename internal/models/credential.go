package models

import "time"

// DecryptionFailedMarker replaces a secret that could not be decrypted in a listing.
const DecryptionFailedMarker = "[Decryption Failed]"

// Credential is one stored site/username/password entry owned by an account.
// Password holds plaintext in memory; stores persist the encrypted form only.
type Credential struct {
	ID        string     `json:"id"`
	UserID    string     `json:"userId"`
	Site      string     `json:"site"`
	Username  string     `json:"username"`
	Password  string     `json:"password"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

// WriteResult reports the outcome of a single-record write, in the shape the
// web client already understands.
type WriteResult struct {
	Acknowledged  bool   `json:"acknowledged"`
	InsertedID    string `json:"insertedId,omitempty"`
	MatchedCount  *int64 `json:"matchedCount,omitempty"`
	ModifiedCount *int64 `json:"modifiedCount,omitempty"`
	DeletedCount  *int64 `json:"deletedCount,omitempty"`
}
