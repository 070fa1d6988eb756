package models

import "time"

// Setting maps to the `setting` table (key-value). Values are JSON blobs.
type Setting struct {
	Name      string    `gorm:"column:name;primaryKey;size:191" json:"name"`
	Value     string    `gorm:"column:value;type:text" json:"value"`
	UpdatedAt time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (Setting) TableName() string {
	return "setting"
}
