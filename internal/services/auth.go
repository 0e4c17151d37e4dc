package services

import (
	"errors"
	"strings"
	"time"

	"taskhub/backend/internal/auth"
	"taskhub/backend/internal/models"

	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Name     string `json:"name" binding:"required,max=100"`
	Password string `json:"password" binding:"required,min=8,max=72"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type AuthService interface {
	Register(db *gorm.DB, req RegisterRequest) (*models.User, string, error)
	Login(db *gorm.DB, req LoginRequest) (*models.User, string, error)
}

type AuthServiceImpl struct {
	hasher *auth.PasswordHasher
	tokens *auth.TokenIssuer
}

func NewAuthService(hasher *auth.PasswordHasher, tokens *auth.TokenIssuer) *AuthServiceImpl {
	return &AuthServiceImpl{hasher: hasher, tokens: tokens}
}

// Register creates an account and signs the user straight in. Email
// comparison is exact after trimming; no case folding.
func (s *AuthServiceImpl) Register(db *gorm.DB, req RegisterRequest) (*models.User, string, error) {
	email := strings.TrimSpace(req.Email)
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, "", NewValidationError("name must not be blank")
	}

	var existing models.User
	if err := db.Where("email = ?", email).First(&existing).Error; err == nil {
		return nil, "", ErrEmailTaken
	} else if err != gorm.ErrRecordNotFound {
		return nil, "", err
	}

	hashedPassword, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, "", err
	}

	user := models.User{
		ID:        uuid.Must(uuid.NewV4()),
		Email:     email,
		Name:      name,
		Password:  hashedPassword,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	if err := db.Create(&user).Error; err != nil {
		// Two concurrent registrations can both pass the lookup above;
		// the unique constraint settles the race.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, "", ErrEmailTaken
		}
		return nil, "", err
	}

	token, err := s.tokens.Issue(user.ID, user.Email, user.Name)
	if err != nil {
		return nil, "", err
	}

	return &user, token, nil
}

// Login authenticates by email and password. Unknown email and wrong
// password return the identical error.
func (s *AuthServiceImpl) Login(db *gorm.DB, req LoginRequest) (*models.User, string, error) {
	email := strings.TrimSpace(req.Email)

	var user models.User
	if err := db.Where("email = ?", email).First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}

	if !s.hasher.Verify(user.Password, req.Password) {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.ID, user.Email, user.Name)
	if err != nil {
		return nil, "", err
	}

	return &user, token, nil
}
