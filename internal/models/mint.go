package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MintStatus is the lifecycle state of a mint attempt
type MintStatus string

const (
	MintStatusUploaded MintStatus = "uploaded" // image and metadata stored, chain step pending
	MintStatusMinted   MintStatus = "minted"
	MintStatusFailed   MintStatus = "failed"
)

// MintRecord is one mint attempt. An uploaded record that never moves on is an
// orphaned upload.
type MintRecord struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Creator      string     `gorm:"index;not null" json:"creator"`
	Title        string     `gorm:"not null" json:"title"`
	ImageURI     string     `gorm:"type:text" json:"image_uri"`
	MetadataURI  string     `gorm:"type:text" json:"metadata_uri"`
	AssetAddress string     `gorm:"index" json:"asset_address,omitempty"`
	Signature    string     `json:"signature,omitempty"`
	Status       MintStatus `gorm:"type:varchar(16);index;not null" json:"status"`
	Error        string     `gorm:"type:text" json:"error,omitempty"`
}

// BeforeCreate assigns a UUID when none is set
func (r *MintRecord) BeforeCreate(_ *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}
