package model

import "time"

// FavoriteTrack 收藏表的一行，按曲目ID唯一
type FavoriteTrack struct {
	TrackID   string    `gorm:"column:track_id;primaryKey;size:64" json:"trackId"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
}

// TableName 指定表名
func (FavoriteTrack) TableName() string {
	return "favorite_tracks"
}
