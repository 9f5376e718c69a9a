package store

import (
	"context"

	"github.com/courtbook/courtbook/internal/models"
)

func (s *Store) CourtByID(ctx context.Context, id int64) (*models.Court, error) {
	var c models.Court
	if err := s.db.WithContext(ctx).First(&c, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &c, nil
}

func (s *Store) ListCourts(ctx context.Context) ([]models.Court, error) {
	var courts []models.Court
	if err := s.db.WithContext(ctx).Order("id ASC").Find(&courts).Error; err != nil {
		return nil, err
	}
	return courts, nil
}

func (s *Store) CreateCourt(ctx context.Context, c *models.Court) error {
	return s.db.WithContext(ctx).Create(c).Error
}

func (s *Store) SaveCourt(ctx context.Context, c *models.Court) error {
	return s.db.WithContext(ctx).Save(c).Error
}

func (s *Store) DeleteCourt(ctx context.Context, id int64) error {
	res := s.db.WithContext(ctx).Delete(&models.Court{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
