package document

import "time"

// Document is the metadata row for one stored PDF. Column names match the
// existing FILE_DATA table.
type Document struct {
	ID          string    `gorm:"column:id;primaryKey;size:36" json:"id"`
	Owner       string    `gorm:"column:username;index;not null" json:"owner"`
	DisplayName string    `gorm:"column:file_name" json:"display_name"`
	UploadedAt  time.Time `gorm:"column:upload_time;not null" json:"uploaded_at"`
	Seen        bool      `gorm:"column:seen_by_user;not null" json:"seen"`
}

func (Document) TableName() string { return "file_data" }

// ObjectKey is the object-store key and scratch file name for a document id.
func ObjectKey(id string) string {
	return id + FileExtension
}
