/*
Copyright (c) Tobias Schäfer. All rights reserved.
Licensed under the MIT License, see LICENSE file in the project root for details.
*/
package controller

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const defaultTokenExpiration = 30 * time.Minute

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrNoSecret     = errors.New("management.secret is not set")
)

func (c *Controller) GenerateManagementToken(expiration time.Duration) (string, time.Time, error) {
	secret := c.properties.Management().Secret
	if secret == "" {
		return "", time.Time{}, ErrNoSecret
	}

	if expiration <= 0 {
		expiration = defaultTokenExpiration
	}

	now := time.Now()
	expiresAt := now.Add(expiration)
	claims := jwt.MapClaims{
		"iss": "tether",
		"sub": "management",
		"iat": now.Unix(),
		"exp": expiresAt.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(secret))
	return tokenString, expiresAt, err
}

func (c *Controller) ValidateManagementToken(tokenString string) error {
	secret := c.properties.Management().Secret
	if secret == "" {
		return ErrNoSecret
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})

	if err != nil {
		return ErrInvalidToken
	}

	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		if claims["iss"] != "tether" || claims["sub"] != "management" {
			return ErrInvalidToken
		}

		return nil
	}

	return ErrInvalidToken
}
