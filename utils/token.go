package authUtils

import (
	"fmt"
	"os"
	"time"

	"civiclens-be/models"

	"github.com/dgrijalva/jwt-go"
)

// GenerateAndSetToken generates a JWT token carrying the user id and role.
// The role claim lets middleware gate dashboards without a user lookup.
func GenerateAndSetToken(userID string, role models.Role) (string, error) {
	secretStr := os.Getenv("JWT_SECRET")
	if secretStr == "" {
		return "", fmt.Errorf("JWT_SECRET environment variable is not set")
	}

	jwtSecret := []byte(secretStr)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID,
		"role":    string(role),
		"exp":     time.Now().Add(time.Hour * 72).Unix(), // Token expires in 72 hours
	})

	tokenString, err := token.SignedString(jwtSecret)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}
