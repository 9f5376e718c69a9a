package store

import (
	"context"

	"github.com/courtbook/courtbook/internal/models"
)

func (s *Store) ListFloors(ctx context.Context) ([]models.Floor, error) {
	var floors []models.Floor
	if err := s.db.WithContext(ctx).Order("id ASC").Find(&floors).Error; err != nil {
		return nil, err
	}
	return floors, nil
}

func (s *Store) FloorByID(ctx context.Context, id int64) (*models.Floor, error) {
	var f models.Floor
	if err := s.db.WithContext(ctx).First(&f, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &f, nil
}

func (s *Store) ListSports(ctx context.Context) ([]models.Sport, error) {
	var sports []models.Sport
	if err := s.db.WithContext(ctx).Order("id ASC").Find(&sports).Error; err != nil {
		return nil, err
	}
	return sports, nil
}

func (s *Store) SportByID(ctx context.Context, id int64) (*models.Sport, error) {
	var sp models.Sport
	if err := s.db.WithContext(ctx).First(&sp, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &sp, nil
}
