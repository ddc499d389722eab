package repository

import (
	"context"
	"strings"

	"github.com/yukikurage/freelance-marketplace-api/internal/models"
	"gorm.io/gorm"
)

// GormPersonRepository is a GORM implementation of PersonRepository
type GormPersonRepository struct {
	db *gorm.DB
}

// NewPersonRepository creates a new PersonRepository
func NewPersonRepository(db *gorm.DB) PersonRepository {
	return &GormPersonRepository{db: db}
}

// Create creates a new person
func (r *GormPersonRepository) Create(ctx context.Context, person *models.Person) error {
	person.Email = NormalizeEmail(person.Email)
	return r.db.WithContext(ctx).Create(person).Error
}

// FindByID finds a person by ID
func (r *GormPersonRepository) FindByID(ctx context.Context, id uint64) (*models.Person, error) {
	var person models.Person
	if err := r.db.WithContext(ctx).First(&person, id).Error; err != nil {
		return nil, err
	}
	return &person, nil
}

// FindByEmail finds a person by email
func (r *GormPersonRepository) FindByEmail(ctx context.Context, email string) (*models.Person, error) {
	var person models.Person
	if err := r.db.WithContext(ctx).Where("email = ?", NormalizeEmail(email)).First(&person).Error; err != nil {
		return nil, err
	}
	return &person, nil
}

// FindByGoogleID finds a person by Google subject identifier
func (r *GormPersonRepository) FindByGoogleID(ctx context.Context, googleID string) (*models.Person, error) {
	var person models.Person
	if err := r.db.WithContext(ctx).Where("google_id = ?", googleID).First(&person).Error; err != nil {
		return nil, err
	}
	return &person, nil
}

// UpdateFields applies a partial update to a person
func (r *GormPersonRepository) UpdateFields(ctx context.Context, id uint64, fields map[string]any) error {
	res := r.db.WithContext(ctx).Model(&models.Person{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// NormalizeEmail lower-cases and trims an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
