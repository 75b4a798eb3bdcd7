package export

import (
	"gorm.io/datatypes"
)

// Entity is one catalog record.
type Entity struct {
	ID       uint           `gorm:"primaryKey"`
	Kind     string         `gorm:"size:16;not null;uniqueIndex:idx_catalog_entity"`
	EntityID int            `gorm:"not null;uniqueIndex:idx_catalog_entity"`
	NameJP   *string        `gorm:"column:name_jp;size:255"`
	NameEN   *string        `gorm:"column:name_en;size:255"`
	Payload  datatypes.JSON `gorm:"not null"`
}

// TableName overrides the default table name.
func (Entity) TableName() string {
	return "catalog_entities"
}

// Asset is one asset manifest entry.
type Asset struct {
	ID       uint   `gorm:"primaryKey"`
	Type     string `gorm:"size:16;not null;index"`
	Filename string `gorm:"size:255;not null"`
	Kind     string `gorm:"size:8;not null"`
	Pathname string `gorm:"size:512;not null"`
}

// TableName overrides the default table name.
func (Asset) TableName() string {
	return "catalog_assets"
}
