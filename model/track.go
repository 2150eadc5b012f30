package model

// Track 目录中的一首可播放曲目，构建完成后按值传递，不共享可变状态
type Track struct {
	ID              string `json:"id"`
	Title           string `json:"title"`
	Album           string `json:"album"`
	Artist          string `json:"artist"`
	Genre           string `json:"genre"`
	SourceURI       string `json:"sourceUri"`  // 可播放的远程地址
	ArtworkURI      string `json:"artworkUri"` // 封面地址
	DurationMs      int64  `json:"durationMs"`
	TrackNumber     int64  `json:"trackNumber"`
	TotalTrackCount int64  `json:"totalTrackCount"`
}
