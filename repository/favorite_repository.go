package repository

import (
	"context"
	"fmt"

	"soundcatalog/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// FavoriteRepository 基于 GORM 的收藏持久化
type FavoriteRepository struct {
	db *gorm.DB
}

func NewFavoriteRepository(db *gorm.DB) *FavoriteRepository {
	return &FavoriteRepository{db: db}
}

// Migrate 创建收藏表
func (r *FavoriteRepository) Migrate() error {
	return r.db.AutoMigrate(&model.FavoriteTrack{})
}

// LoadFavorites 读取全部收藏的曲目ID
func (r *FavoriteRepository) LoadFavorites(ctx context.Context) ([]string, error) {
	var rows []model.FavoriteTrack
	if err := r.db.WithContext(ctx).Order("created_at").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to load favorites: %w", err)
	}
	ids := make([]string, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.TrackID)
	}
	return ids, nil
}

// SaveFavorite 添加收藏，已存在时忽略
func (r *FavoriteRepository) SaveFavorite(ctx context.Context, id string) error {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&model.FavoriteTrack{TrackID: id}).Error
	if err != nil {
		return fmt.Errorf("failed to save favorite: %w", err)
	}
	return nil
}

// DeleteFavorite 取消收藏
func (r *FavoriteRepository) DeleteFavorite(ctx context.Context, id string) error {
	err := r.db.WithContext(ctx).
		Where("track_id = ?", id).
		Delete(&model.FavoriteTrack{}).Error
	if err != nil {
		return fmt.Errorf("failed to delete favorite: %w", err)
	}
	return nil
}
