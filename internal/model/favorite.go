package model

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

const (
	ContentTypePhoto = "photo"
	ContentTypeVideo = "video"
)

func ValidContentType(t string) bool {
	return t == ContentTypePhoto || t == ContentTypeVideo
}

type Favorite struct {
	ID          int64       `db:"id" json:"id"`
	UserID      int64       `db:"user_id" json:"userId"`
	ContentID   string      `db:"content_id" json:"contentId"`
	ContentType string      `db:"content_type" json:"contentType"`
	ContentData ContentData `db:"content_data" json:"contentData"`
	CreatedAt   time.Time   `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time   `db:"updated_at" json:"updatedAt"`
}

// ContentData is the verbatim JSON snapshot of a search result. It is stored
// as TEXT on SQLite and JSONB on PostgreSQL and emitted unchanged.
type ContentData json.RawMessage

func (d ContentData) MarshalJSON() ([]byte, error) {
	if len(d) == 0 {
		return []byte("null"), nil
	}
	return d, nil
}

func (d *ContentData) UnmarshalJSON(b []byte) error {
	*d = append((*d)[:0], b...)
	return nil
}

func (d ContentData) Value() (driver.Value, error) {
	if len(d) == 0 {
		return nil, nil
	}
	return string(d), nil
}

func (d *ContentData) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*d = nil
	case []byte:
		*d = bytes.Clone(v)
	case string:
		*d = ContentData(v)
	default:
		return fmt.Errorf("content data: unsupported scan type %T", src)
	}
	return nil
}

// IsObject reports whether the snapshot is a JSON object.
func (d ContentData) IsObject() bool {
	trimmed := bytes.TrimSpace(d)
	return len(trimmed) > 0 && trimmed[0] == '{' && json.Valid(trimmed)
}
