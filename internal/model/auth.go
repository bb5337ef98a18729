package model

import "github.com/golang-jwt/jwt/v5"

// OperatorClaims are JWT claims for dashboard operators
type OperatorClaims struct {
	OperatorID string `json:"operatorId"`
	Email      string `json:"email"`
	Name       string `json:"name"`
	jwt.RegisteredClaims
}

// LoginRequest is the request body for operator login
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse is returned after successful login
type LoginResponse struct {
	Token      string `json:"token"`
	OperatorID string `json:"operatorId"`
	Name       string `json:"name"`
}
