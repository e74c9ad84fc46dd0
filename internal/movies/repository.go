package movies

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrMovieNotFound = errors.New("movie not found")

type Repository interface {
	Create(ctx context.Context, movie *Movie) error
	GetByID(ctx context.Context, id uuid.UUID) (*Movie, error)
	SearchByTitle(ctx context.Context, substr string) ([]Movie, error)
	GetAll(ctx context.Context) ([]Movie, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, movie *Movie) error {
	return r.db.WithContext(ctx).Create(movie).Error
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Movie, error) {
	var movie Movie
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&movie).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMovieNotFound
		}
		return nil, err
	}
	return &movie, nil
}

func (r *repository) SearchByTitle(ctx context.Context, substr string) ([]Movie, error) {
	var results []Movie
	err := r.db.WithContext(ctx).
		Where("title ILIKE ?", "%"+substr+"%").
		Order("title ASC").
		Find(&results).Error
	return results, err
}

func (r *repository) GetAll(ctx context.Context) ([]Movie, error) {
	var results []Movie
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&results).Error
	return results, err
}
