package model

import "encoding/json"

// ContentItem is a search hit normalized across photos and videos.
type ContentItem struct {
	ID        int64           `json:"id"`
	Type      string          `json:"type"`
	Thumbnail string          `json:"thumbnail"`
	FullSize  string          `json:"fullSize"`
	User      string          `json:"user"`
	Tags      []string        `json:"tags"`
	Downloads int             `json:"downloads"`
	Likes     int             `json:"likes"`
	Comments  int             `json:"comments"`
	Original  json.RawMessage `json:"original"`
}
