package service

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"hrms/api/internal/model"
)

const geofenceSettingCacheKey = "hrms:geofence:setting"

// GeofenceService owns office branches, the geo-fencing toggle, and
// validation of submitted coordinates against office radii.
type GeofenceService struct {
	db    *gorm.DB
	redis *redis.Client
}

// NewGeofenceService creates a new geofence service
func NewGeofenceService(db *gorm.DB, redisClient *redis.Client) *GeofenceService {
	return &GeofenceService{db: db, redis: redisClient}
}

// CreateOffice creates a new office branch
func (s *GeofenceService) CreateOffice(ctx context.Context, req *model.OfficeRequest) error {
	var count int64
	s.db.WithContext(ctx).Model(&model.OfficeBranch{}).Where("office_id = ?", req.OfficeID).Count(&count)
	if count > 0 {
		return failf(ErrValidation, "Office ID already exists")
	}

	office := officeFromRequest(req)
	return s.db.WithContext(ctx).Create(&office).Error
}

// ListOffices returns all office branches, active or not
func (s *GeofenceService) ListOffices(ctx context.Context) ([]model.OfficeBranch, error) {
	var offices []model.OfficeBranch
	err := s.db.WithContext(ctx).Find(&offices).Error
	return offices, err
}

// UpdateOffice replaces an office branch's fields
func (s *GeofenceService) UpdateOffice(ctx context.Context, officeID string, req *model.OfficeRequest) error {
	var existing model.OfficeBranch
	if err := s.db.WithContext(ctx).Where("office_id = ?", officeID).First(&existing).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return failf(ErrNotFound, "Office not found")
		}
		return err
	}

	office := officeFromRequest(req)
	return s.db.WithContext(ctx).Model(&existing).
		Updates(map[string]interface{}{
			"office_id":     office.OfficeID,
			"office_name":   office.OfficeName,
			"lat":           office.Lat,
			"lng":           office.Lng,
			"radius_meters": office.RadiusMeters,
			"is_active":     office.IsActive,
		}).Error
}

// DeleteOffice removes an office branch
func (s *GeofenceService) DeleteOffice(ctx context.Context, officeID string) error {
	result := s.db.WithContext(ctx).Where("office_id = ?", officeID).Delete(&model.OfficeBranch{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return failf(ErrNotFound, "Office not found")
	}
	return nil
}

// GetSetting returns whether geo-fencing is enabled, defaulting to false
// when the toggle row does not exist. The value is cached in Redis.
func (s *GeofenceService) GetSetting(ctx context.Context) (bool, error) {
	if cached, err := s.redis.Get(ctx, geofenceSettingCacheKey).Result(); err == nil {
		return cached == "1", nil
	}

	var setting model.GeoFenceSetting
	err := s.db.WithContext(ctx).Where("key = ?", model.GeoFenceSettingKey).First(&setting).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}

	val := "0"
	if setting.Enabled {
		val = "1"
	}
	s.redis.Set(ctx, geofenceSettingCacheKey, val, 0)

	return setting.Enabled, nil
}

// SetSetting upserts the geo-fencing toggle and busts the cache
func (s *GeofenceService) SetSetting(ctx context.Context, enabled bool) error {
	var setting model.GeoFenceSetting
	err := s.db.WithContext(ctx).Where("key = ?", model.GeoFenceSettingKey).First(&setting).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		setting = model.GeoFenceSetting{Key: model.GeoFenceSettingKey, Enabled: enabled}
		err = s.db.WithContext(ctx).Create(&setting).Error
	} else if err == nil {
		err = s.db.WithContext(ctx).Model(&setting).Update("enabled", enabled).Error
	}
	if err != nil {
		return err
	}

	s.redis.Del(ctx, geofenceSettingCacheKey)
	return nil
}

// ValidateLocation validates a submitted coordinate against active office
// geofences. action appears only in rejection messages ("Check-in",
// "Check-out", "Preview"). Pure read, no persistence.
func (s *GeofenceService) ValidateLocation(ctx context.Context, loc *model.Location, action string) (*model.OfficeMeta, error) {
	if loc == nil {
		return nil, &GeofenceError{
			Action:  action,
			Reason:  GeofenceInvalidLocation,
			Message: fmt.Sprintf("%s location required", action),
		}
	}

	enabled, err := s.GetSetting(ctx)
	if err != nil {
		return nil, err
	}

	var offices []model.OfficeBranch
	if enabled {
		if err := s.db.WithContext(ctx).Where("is_active = ?", true).Find(&offices).Error; err != nil {
			return nil, err
		}
	}

	return evaluateLocation(enabled, offices, loc, action)
}

// evaluateLocation is the pure geo-fence decision over already-loaded state
func evaluateLocation(enabled bool, offices []model.OfficeBranch, loc *model.Location, action string) (*model.OfficeMeta, error) {
	if loc == nil || loc.Lat == nil || loc.Lng == nil {
		return nil, &GeofenceError{
			Action:  action,
			Reason:  GeofenceInvalidLocation,
			Message: fmt.Sprintf("%s location required", action),
		}
	}

	lat, lng := *loc.Lat, *loc.Lng
	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return nil, &GeofenceError{
			Action:  action,
			Reason:  GeofenceInvalidLocation,
			Message: fmt.Sprintf("%s location invalid", action),
		}
	}

	if !enabled {
		return &model.OfficeMeta{OfficeName: "Geo-fencing disabled"}, nil
	}

	if len(offices) == 0 {
		return nil, &GeofenceError{
			Action:  action,
			Reason:  GeofenceNoActiveOffices,
			Message: "No active office branches found",
		}
	}

	if loc.OfficeID != "" {
		var office *model.OfficeBranch
		for i := range offices {
			if offices[i].OfficeID == loc.OfficeID {
				office = &offices[i]
				break
			}
		}
		if office == nil {
			return nil, &GeofenceError{
				Action:  action,
				Reason:  GeofenceOfficeNotFound,
				Message: "Selected office branch not found",
			}
		}

		dist := haversineDistance(lat, lng, office.Lat, office.Lng)
		radius := officeRadius(office)
		if dist > radius {
			return nil, &GeofenceError{
				Action:         action,
				Reason:         GeofenceOutOfRange,
				OfficeName:     office.OfficeName,
				DistanceMeters: dist,
				RadiusMeters:   radius,
				Message: fmt.Sprintf("%s denied. You are %dm away from %s (allowed %.0fm)",
					action, int(dist), office.OfficeName, radius),
			}
		}

		rounded := round2(dist)
		return &model.OfficeMeta{
			OfficeID:       office.OfficeID,
			OfficeName:     office.OfficeName,
			DistanceMeters: &rounded,
		}, nil
	}

	// No office selected: auto-detect the nearest active office
	var nearest *model.OfficeBranch
	nearestDist := math.MaxFloat64
	for i := range offices {
		dist := haversineDistance(lat, lng, offices[i].Lat, offices[i].Lng)
		if dist < nearestDist {
			nearestDist = dist
			nearest = &offices[i]
		}
	}

	radius := officeRadius(nearest)
	if nearestDist > radius {
		return nil, &GeofenceError{
			Action:         action,
			Reason:         GeofenceOutOfRange,
			OfficeName:     nearest.OfficeName,
			DistanceMeters: nearestDist,
			RadiusMeters:   radius,
			Message: fmt.Sprintf("%s denied. Not in any office area (nearest: %s %dm away)",
				action, nearest.OfficeName, int(nearestDist)),
		}
	}

	rounded := round2(nearestDist)
	return &model.OfficeMeta{
		OfficeID:       nearest.OfficeID,
		OfficeName:     nearest.OfficeName,
		DistanceMeters: &rounded,
	}, nil
}

func officeFromRequest(req *model.OfficeRequest) model.OfficeBranch {
	radius := req.RadiusMeters
	if radius <= 0 {
		radius = model.DefaultOfficeRadiusMeters
	}
	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}
	return model.OfficeBranch{
		OfficeID:     req.OfficeID,
		OfficeName:   req.OfficeName,
		Lat:          req.Lat,
		Lng:          req.Lng,
		RadiusMeters: radius,
		IsActive:     active,
	}
}

func officeRadius(office *model.OfficeBranch) float64 {
	if office.RadiusMeters > 0 {
		return office.RadiusMeters
	}
	return model.DefaultOfficeRadiusMeters
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// haversineDistance calculates the great circle distance between two points
// in meters using the Haversine formula
func haversineDistance(lat1, lng1, lat2, lng2 float64) float64 {
	const R = 6371000 // Earth's radius in meters

	lat1Rad := lat1 * math.Pi / 180
	lat2Rad := lat2 * math.Pi / 180
	deltaLat := (lat2 - lat1) * math.Pi / 180
	deltaLng := (lng2 - lng1) * math.Pi / 180

	a := math.Sin(deltaLat/2)*math.Sin(deltaLat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*
			math.Sin(deltaLng/2)*math.Sin(deltaLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return R * c
}
