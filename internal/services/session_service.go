package services

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SessionService はセッションクッキーに入れる署名付きトークンの生成と検証を扱います。
// セッションはユーザーIDのみを持ち、ユーザー本体はリクエストごとにDBから復元します。
type SessionService struct {
	secret []byte
}

// SessionLifetime はセッショントークンの有効期間です。
const SessionLifetime = 24 * time.Hour

// NewSessionService は新しいSessionServiceを作成します。
func NewSessionService() *SessionService {
	secret := os.Getenv("SESSION_SECRET")
	if secret == "" {
		log.Fatal("SESSION_SECRET environment variable not set")
	}
	return &SessionService{secret: []byte(secret)}
}

// GenerateToken はユーザーIDを保持するセッショントークンを生成します。
func (s *SessionService) GenerateToken(userID int) (string, error) {
	claims := &jwt.MapClaims{
		"user_id": userID,
		"iat":     time.Now().Unix(),
		"exp":     time.Now().Add(SessionLifetime).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}
	return tokenString, nil
}

// ValidateToken はセッショントークンを検証し、ユーザーIDを返します。
func (s *SessionService) ValidateToken(tokenString string) (int, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	})

	if err != nil {
		return 0, err
	}

	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		userIDFloat, ok := claims["user_id"].(float64)
		if !ok {
			return 0, fmt.Errorf("invalid user_id")
		}
		return int(userIDFloat), nil
	}

	return 0, fmt.Errorf("invalid token")
}
