package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/hornossanz/shift-planner/pkg/database"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrInvalidToken     = errors.New("invalid token")
	ErrInvalidKeyFormat = errors.New("invalid key format")
	ErrInvalidSignature = errors.New("invalid signature")
	ErrInvalidKeyName   = errors.New("key name must not be empty or contain '.'")
)

// DefaultRateLimit is the daily request quota of a key issued without one
const DefaultRateLimit = 10000

var jwtAlgorithm = jwt.SigningMethodHS256

// tokenTTL is how long an admin session lasts
const tokenTTL = 24 * time.Hour

// Claims represents the JWT claims
type Claims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// Authenticator signs admin sessions and API keys
type Authenticator struct {
	jwtSecret    []byte
	masterSecret []byte
}

// New creates an authenticator from the configured secrets
func New(jwtSecret, masterSecret string) *Authenticator {
	return &Authenticator{jwtSecret: []byte(jwtSecret), masterSecret: []byte(masterSecret)}
}

// HashPassword hashes a password using bcrypt
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

// CheckPasswordHash compares a password with its hash
func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// CreateToken creates a new JWT token for an admin
func (a *Authenticator) CreateToken(username string) (string, error) {
	claims := &Claims{
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwtAlgorithm, claims)
	return token.SignedString(a.jwtSecret)
}

// VerifyToken verifies a JWT token
func (a *Authenticator) VerifyToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwtAlgorithm {
			return nil, ErrInvalidToken
		}
		return a.jwtSecret, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// GenerateHMACKey creates a signed API key using HMAC-SHA256
func (a *Authenticator) GenerateHMACKey(userID string) string {
	return userID + "." + a.sign(userID)
}

// VerifyHMACKey validates an HMAC-signed API key and returns its user id
func (a *Authenticator) VerifyHMACKey(key string) (string, error) {
	parts := strings.Split(key, ".")
	if len(parts) != 2 || parts[0] == "" {
		return "", ErrInvalidKeyFormat
	}

	userID := parts[0]
	if !hmac.Equal([]byte(parts[1]), []byte(a.sign(userID))) {
		return "", ErrInvalidSignature
	}
	return userID, nil
}

func (a *Authenticator) sign(userID string) string {
	h := hmac.New(sha256.New, a.masterSecret)
	h.Write([]byte(userID))
	return hex.EncodeToString(h.Sum(nil))
}

// IssueKey signs a new API key for name and stores its record. Every call
// yields a distinct key, so a revoked key is never handed out again.
func (a *Authenticator) IssueKey(db *gorm.DB, name string, rateLimit int) (database.APIKey, string, error) {
	if name == "" || strings.Contains(name, ".") {
		return database.APIKey{}, "", ErrInvalidKeyName
	}
	if rateLimit <= 0 {
		rateLimit = DefaultRateLimit
	}

	key := a.GenerateHMACKey(name + "-" + uuid.NewString())
	record := database.APIKey{
		Key:        key,
		Name:       name,
		KeyPreview: Preview(key),
		RateLimit:  rateLimit,
	}
	if err := db.Create(&record).Error; err != nil {
		return database.APIKey{}, "", err
	}
	return record, key, nil
}

// Preview is the shortened form of a key shown in listings
func Preview(key string) string {
	if len(key) > 8 {
		return key[:3] + "..." + key[len(key)-4:]
	}
	return "****"
}

// EnsureAdminExists creates the first admin when the table is empty
func EnsureAdminExists(db *gorm.DB, username, password string, log *logrus.Entry) error {
	var count int64
	if err := db.Model(&database.MasterUser{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := HashPassword(password)
	if err != nil {
		return err
	}
	if err := db.Create(&database.MasterUser{Username: username, PasswordHash: hash}).Error; err != nil {
		return err
	}
	log.WithField("username", username).Info("Default admin user created")
	return nil
}
