package model

import "time"

// StorageScope mirrors the two browser storages: local survives restarts,
// session is wiped when the gateway starts.
type StorageScope string

const (
	ScopeLocal   StorageScope = "local"
	ScopeSession StorageScope = "session"
)

// Persisted keys
const (
	KeyToken          = "token"
	KeyUser           = "user"
	KeyTheme          = "theme"
	KeyLanguage       = "i18nextLng"
	KeyHasShownLoader = "hasShownLoader"
)

// StorageEntry is one persisted client key
type StorageEntry struct {
	ID        uint         `gorm:"primarykey" json:"id"`
	Scope     StorageScope `gorm:"type:varchar(16);not null;uniqueIndex:idx_storage_scope_key" json:"scope"`
	Key       string       `gorm:"type:varchar(64);not null;uniqueIndex:idx_storage_scope_key" json:"key"`
	Value     string       `gorm:"type:text;not null" json:"value"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

func (StorageEntry) TableName() string {
	return "storage_entries"
}
