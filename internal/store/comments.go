package store

import (
	"context"

	"github.com/courtbook/courtbook/internal/models"
)

func (s *Store) CommentsByCourt(ctx context.Context, courtID int64) ([]models.Comment, error) {
	var comments []models.Comment
	if err := s.db.WithContext(ctx).Where("court_id = ?", courtID).Order("id ASC").Find(&comments).Error; err != nil {
		return nil, err
	}
	return comments, nil
}

func (s *Store) CreateComment(ctx context.Context, c *models.Comment) error {
	return s.db.WithContext(ctx).Create(c).Error
}

func (s *Store) DeleteComment(ctx context.Context, id int64) error {
	res := s.db.WithContext(ctx).Delete(&models.Comment{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// LikeCounts aggregates like and dislike totals for a court from its
// comments.
func (s *Store) LikeCounts(ctx context.Context, courtID int64) (likes, dislikes int64, err error) {
	err = s.db.WithContext(ctx).Model(&models.Comment{}).
		Where("court_id = ? AND `like` = ?", courtID, true).
		Count(&likes).Error
	if err != nil {
		return 0, 0, err
	}
	err = s.db.WithContext(ctx).Model(&models.Comment{}).
		Where("court_id = ? AND `like` = ?", courtID, false).
		Count(&dislikes).Error
	if err != nil {
		return 0, 0, err
	}
	return likes, dislikes, nil
}
