package model

// DefaultOfficeRadiusMeters applies when an office has no explicit radius
const DefaultOfficeRadiusMeters = 300

// GeoFenceSettingKey identifies the process-wide geo-fencing toggle
const GeoFenceSettingKey = "attendance_geo_fencing"

// OfficeBranch is a physical office location with a check-in radius
type OfficeBranch struct {
	ID           uint    `json:"-" gorm:"primaryKey"`
	OfficeID     string  `json:"officeId" gorm:"uniqueIndex;size:50;not null"`
	OfficeName   string  `json:"officeName" gorm:"size:100;not null"`
	Lat          float64 `json:"lat"`
	Lng          float64 `json:"lng"`
	RadiusMeters float64 `json:"radiusMeters" gorm:"default:300"`
	IsActive     bool    `json:"isActive" gorm:"default:true"`
}

// OfficeRequest creates or replaces an office branch
type OfficeRequest struct {
	OfficeID     string  `json:"officeId" binding:"required,min=2"`
	OfficeName   string  `json:"officeName" binding:"required,min=2"`
	Lat          float64 `json:"lat"`
	Lng          float64 `json:"lng"`
	RadiusMeters float64 `json:"radiusMeters"`
	IsActive     *bool   `json:"isActive"`
}

// GeoFenceSetting is the single geo-fencing toggle row
type GeoFenceSetting struct {
	ID      uint   `json:"-" gorm:"primaryKey"`
	Key     string `json:"key" gorm:"uniqueIndex;size:50;not null"`
	Enabled bool   `json:"enabled"`
}

// GeoFenceSettingRequest toggles geo-fencing
type GeoFenceSettingRequest struct {
	Enabled *bool `json:"enabled" binding:"required"`
}

// OfficeMeta is the validator's result for an accepted location
type OfficeMeta struct {
	OfficeID       string   `json:"officeId"`
	OfficeName     string   `json:"officeName"`
	DistanceMeters *float64 `json:"distanceMeters"`
}
