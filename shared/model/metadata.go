package model

import "time"

type Metadata struct {
	CreatedAt  time.Time `db:"created_at"  bson:"created_at"`
	ModifiedAt time.Time `db:"modified_at" bson:"modified_at"`
}

// NewMetadata stamps both timestamps with now.
func NewMetadata(now time.Time) Metadata {
	return Metadata{
		CreatedAt:  now,
		ModifiedAt: now,
	}
}
