package repository

import (
	"strings"

	"fintrack/internal/models"

	"gorm.io/gorm"
)

type PresetRepository struct {
	db *gorm.DB
}

func NewPresetRepository(db *gorm.DB) *PresetRepository {
	return &PresetRepository{db: db}
}

func (r *PresetRepository) Create(p *models.Preset) error {
	return r.db.Create(p).Error
}

func (r *PresetRepository) GetByID(id uint) (*models.Preset, error) {
	var p models.Preset
	if err := r.db.First(&p, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &p, nil
}

func (r *PresetRepository) Save(p *models.Preset) error {
	return r.db.Save(p).Error
}

func (r *PresetRepository) Delete(id uint) (bool, error) {
	res := r.db.Delete(&models.Preset{}, id)
	return res.RowsAffected > 0, res.Error
}

// List filters by type and a case-insensitive substring of source, most
// recently updated first.
func (r *PresetRepository) List(presetType, query string) ([]models.Preset, error) {
	var list []models.Preset
	q := r.db.Order("updated_at DESC").Order("id DESC")
	if presetType != "" {
		q = q.Where("type = ?", presetType)
	}
	if s := strings.TrimSpace(query); s != "" {
		q = q.Where("LOWER(source) LIKE ?", "%"+strings.ToLower(s)+"%")
	}
	err := q.Find(&list).Error
	return list, err
}
