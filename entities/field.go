package entities

import (
	"time"

	"gorm.io/datatypes"
)

type Field struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	OwnerID      uint           `gorm:"index;not null" json:"owner_id"`
	Name         string         `gorm:"not null" json:"name"`
	Latitude     float64        `json:"latitude"`
	Longitude    float64        `json:"longitude"`
	Boundary     datatypes.JSON `json:"boundary,omitempty"` // GeoJSON Polygon/MultiPolygon
	AreaHectares float64        `json:"area_hectares"`
	CropType     string         `json:"crop_type,omitempty"` // wheat|corn|sugarcane|...

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Field) TableName() string { return "fields" }
