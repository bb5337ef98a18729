package service

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"surakshaconnect/internal/config"
	"surakshaconnect/internal/model"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid or expired token")
)

const operatorTokenTTL = 24 * time.Hour

// AuthService authenticates the demo dashboard operator
type AuthService struct {
	operator   config.OperatorConfig
	operatorID string
	jwtSecret  []byte
	now        func() time.Time
}

// NewAuthService creates a new auth service
func NewAuthService(operator config.OperatorConfig, secret string) *AuthService {
	return &AuthService{
		operator:   operator,
		operatorID: "op_" + uuid.NewSHA1(uuid.NameSpaceURL, []byte("mailto:"+operator.Email)).String()[:8],
		jwtSecret:  []byte(secret),
		now:        time.Now,
	}
}

// Login validates credentials and returns a signed token
func (s *AuthService) Login(email, password string) (*model.LoginResponse, error) {
	if email != s.operator.Email || password != s.operator.Password {
		return nil, ErrInvalidCredentials
	}

	now := s.now()
	claims := &model.OperatorClaims{
		OperatorID: s.operatorID,
		Email:      s.operator.Email,
		Name:       s.operator.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(operatorTokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return nil, err
	}

	return &model.LoginResponse{
		Token:      tokenString,
		OperatorID: s.operatorID,
		Name:       s.operator.Name,
	}, nil
}

// ValidateToken validates an operator JWT and returns claims
func (s *AuthService) ValidateToken(tokenString string) (*model.OperatorClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &model.OperatorClaims{}, func(token *jwt.Token) (interface{}, error) {
		return s.jwtSecret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*model.OperatorClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
