package movies

import (
	"time"

	"github.com/google/uuid"
)

type Movie struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	Title       string    `json:"title" gorm:"not null;size:255"`
	Genre       string    `json:"genre" gorm:"size:100"`
	Duration    string    `json:"duration" gorm:"size:50"`
	Rating      string    `json:"rating" gorm:"size:10"`
	Description string    `json:"description" gorm:"type:text"`
	PosterPath  string    `json:"poster_path" gorm:"size:500"`
	CreatedAt   time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

type MovieResponse struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Genre       string    `json:"genre"`
	Duration    string    `json:"duration"`
	Rating      string    `json:"rating"`
	Description string    `json:"description"`
	PosterPath  string    `json:"poster_path"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type CreateMovieRequest struct {
	Title       string `json:"title" binding:"required,min=1,max=255"`
	Genre       string `json:"genre" binding:"max=100"`
	Duration    string `json:"duration" binding:"max=50"`
	Rating      string `json:"rating" binding:"max=10"`
	Description string `json:"description" binding:"max=2000"`
	PosterPath  string `json:"poster_path" binding:"max=500"`
}

// ToResponse converts a Movie to its API representation
func (m *Movie) ToResponse() MovieResponse {
	return MovieResponse{
		ID:          m.ID.String(),
		Title:       m.Title,
		Genre:       m.Genre,
		Duration:    m.Duration,
		Rating:      m.Rating,
		Description: m.Description,
		PosterPath:  m.PosterPath,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

// TableName specifies the table name for GORM
func (Movie) TableName() string {
	return "movies"
}
