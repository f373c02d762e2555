package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/sahayakai/sahayak-backend/internal/apierr"
	"github.com/sahayakai/sahayak-backend/internal/logger"
	"github.com/sahayakai/sahayak-backend/internal/repos"
	"github.com/sahayakai/sahayak-backend/internal/types"
)

type AuthService interface {
	Login(ctx context.Context, username, password string) (*types.Token, error)
	UserFromToken(ctx context.Context, tokenString string) (*types.User, error)
	Users(ctx context.Context) ([]*types.User, error)
}

type authService struct {
	db       *gorm.DB
	log      *logger.Logger
	userRepo repos.UserRepo
	secret   []byte
	expiry   time.Duration
}

func NewAuthService(db *gorm.DB, log *logger.Logger, userRepo repos.UserRepo, secret string, expiry time.Duration) AuthService {
	if expiry <= 0 {
		expiry = 24 * time.Hour
	}
	return &authService{
		db:       db,
		log:      log.With("service", "AuthService"),
		userRepo: userRepo,
		secret:   []byte(secret),
		expiry:   expiry,
	}
}

func (as *authService) Login(ctx context.Context, username, password string) (*types.Token, error) {
	user, err := as.userRepo.GetByUsername(ctx, nil, username)
	if err != nil {
		return nil, apierr.New(http.StatusInternalServerError, "login_failed", err)
	}
	if user == nil {
		return nil, apierr.New(http.StatusUnauthorized, "invalid_credentials", errors.New("invalid username or password"))
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, apierr.New(http.StatusUnauthorized, "invalid_credentials", errors.New("invalid username or password"))
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  user.ID,
		"role": user.Role,
		"iat":  now.Unix(),
		"exp":  now.Add(as.expiry).Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(as.secret)
	if err != nil {
		return nil, apierr.New(http.StatusInternalServerError, "token_sign_failed", err)
	}

	as.log.Info("User logged in", "user_id", user.ID, "role", user.Role)
	return &types.Token{
		AccessToken: signed,
		TokenType:   "bearer",
		ExpiresIn:   int(as.expiry.Seconds()),
		User:        *user,
	}, nil
}

// Users returns the full demo roster. The pilot deployments use it to pick an
// account from the login screen.
func (as *authService) Users(ctx context.Context) ([]*types.User, error) {
	users, err := as.userRepo.List(ctx, nil)
	if err != nil {
		return nil, apierr.New(http.StatusInternalServerError, "user_list_failed", err)
	}
	return users, nil
}

func (as *authService) UserFromToken(ctx context.Context, tokenString string) (*types.User, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return as.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, apierr.New(http.StatusUnauthorized, "invalid_token", errors.New("invalid or expired token"))
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, apierr.New(http.StatusUnauthorized, "invalid_token", errors.New("invalid token claims"))
	}
	sub, _ := claims["sub"].(string)
	if sub == "" {
		return nil, apierr.New(http.StatusUnauthorized, "invalid_token", errors.New("token missing subject"))
	}

	user, err := as.userRepo.GetByID(ctx, nil, sub)
	if err != nil {
		return nil, apierr.New(http.StatusInternalServerError, "user_lookup_failed", err)
	}
	if user == nil {
		return nil, apierr.New(http.StatusUnauthorized, "invalid_token", errors.New("user no longer exists"))
	}
	return user, nil
}
