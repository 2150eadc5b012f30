package model

import (
	"encoding/json"
	"strings"
)

// Text 上游字段值。上游可能返回字符串、数字或 null，统一保留原始文本。
type Text struct {
	Value string
	Valid bool
}

// T 构造一个已设置的字段值
func T(s string) Text {
	return Text{Value: s, Valid: true}
}

// Present reports whether the field was sent with a non-blank value.
func (t Text) Present() bool {
	return t.Valid && strings.TrimSpace(t.Value) != ""
}

// UnmarshalJSON accepts strings, numbers and booleans; null leaves the field unset.
func (t *Text) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*t = Text{}
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*t = Text{Value: s, Valid: true}
		return nil
	}
	*t = Text{Value: string(b), Valid: true}
	return nil
}

func (t Text) MarshalJSON() ([]byte, error) {
	if !t.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(t.Value)
}

// RawRecord 目录接口返回的一条原始记录，字段名沿用上游 tracks.json
type RawRecord struct {
	Title      Text `json:"title"`
	Permalink  Text `json:"permalink"` // 同时作为专辑和艺术家
	Genre      Text `json:"genre"`
	StreamURL  Text `json:"stream_url"`
	ArtworkURL Text `json:"artwork_url"`
	ID         Text `json:"id"`
	LikesCount Text `json:"likes_count"`
	Duration   Text `json:"duration"`
}
