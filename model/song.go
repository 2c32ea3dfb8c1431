package model

import "time"

// AssetRef points at one object held by the asset store.
type AssetRef struct {
	AssetID string `json:"assetId" gorm:"column:asset_id"`
	URL     string `json:"url" gorm:"column:url"`
}

// Song represents one uploaded track in the catalog.
// Every persisted song carries exactly one audio asset and one cover asset.
type Song struct {
	ID         string    `json:"id" gorm:"primaryKey;type:char(36)"`
	Title      string    `json:"title" gorm:"size:255;not null"`
	Artist     string    `json:"artist" gorm:"size:255;not null"`
	Album      string    `json:"album" gorm:"size:255;not null"`
	Genre      string    `json:"genre" gorm:"size:255;not null"`
	File       AssetRef  `json:"file" gorm:"embedded;embeddedPrefix:file_"`
	CoverImage AssetRef  `json:"coverImage" gorm:"embedded;embeddedPrefix:cover_"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// TableName fixes the table name used by GORM migration.
func (Song) TableName() string { return "songs" }

// Statistics is derived from the song collection and never stored
// server-side.
type Statistics struct {
	TotalSongs  int `json:"totalSongs"`
	TotalGenres int `json:"totalGenres"`
	TotalAlbums int `json:"totalAlbums"`
}
