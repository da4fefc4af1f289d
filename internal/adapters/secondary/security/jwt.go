package security

import (
	"crypto/rsa"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/jupiterclapton/pictogram/internal/core/domain"
)

// UserClaims étend les claims standards JWT.
type UserClaims struct {
	UserID   string `json:"user_id"`
	Email    string `json:"email"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

type JWTProvider struct {
	privateKey    *rsa.PrivateKey
	publicKey     *rsa.PublicKey
	accessExpiry  time.Duration
	refreshExpiry time.Duration
	issuer        string
}

// NewJWTProvider charge les clés RSA depuis des chaînes PEM.
func NewJWTProvider(privateKeyPEM, publicKeyPEM []byte) (*JWTProvider, error) {
	privKey, err := jwt.ParseRSAPrivateKeyFromPEM(privateKeyPEM)
	if err != nil {
		return nil, fmt.Errorf("failed to parse private key: %w", err)
	}
	pubKey, err := jwt.ParseRSAPublicKeyFromPEM(publicKeyPEM)
	if err != nil {
		return nil, fmt.Errorf("failed to parse public key: %w", err)
	}

	return &JWTProvider{
		privateKey:    privKey,
		publicKey:     pubKey,
		accessExpiry:  15 * time.Minute,
		refreshExpiry: 7 * 24 * time.Hour,
		issuer:        "pictogram-identity",
	}, nil
}

// NewJWTProviderFromKeys construit le provider depuis des clés déjà parsées
// (utile pour les tests et la génération locale de clés).
func NewJWTProviderFromKeys(privateKey *rsa.PrivateKey) *JWTProvider {
	return &JWTProvider{
		privateKey:    privateKey,
		publicKey:     &privateKey.PublicKey,
		accessExpiry:  15 * time.Minute,
		refreshExpiry: 7 * 24 * time.Hour,
		issuer:        "pictogram-identity",
	}
}

func (j *JWTProvider) GenerateTokens(user *domain.User) (string, string, error) {
	now := time.Now()

	// 1. Access token : porte l'identité complète.
	accessClaims := UserClaims{
		UserID:   user.ID,
		Email:    user.Email,
		Username: user.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(j.accessExpiry)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    j.issuer,
			Subject:   user.ID,
			ID:        fmt.Sprintf("%s-acc", user.ID),
		},
	}
	accessToken, err := jwt.NewWithClaims(jwt.SigningMethodRS256, accessClaims).SignedString(j.privateKey)
	if err != nil {
		return "", "", err
	}

	// 2. Refresh token : le minimum pour identifier l'user au renouvellement.
	refreshClaims := jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(now.Add(j.refreshExpiry)),
		IssuedAt:  jwt.NewNumericDate(now),
		Issuer:    j.issuer,
		Subject:   user.ID,
		ID:        fmt.Sprintf("%s-ref", user.ID),
	}
	refreshToken, err := jwt.NewWithClaims(jwt.SigningMethodRS256, refreshClaims).SignedString(j.privateKey)
	if err != nil {
		return "", "", err
	}

	return accessToken, refreshToken, nil
}

// Validate vérifie la signature et renvoie le UserID (Subject).
func (j *JWTProvider) Validate(tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &UserClaims{}, func(token *jwt.Token) (interface{}, error) {
		// Pinning de l'algorithme : empêche le downgrade vers "none"/HS256.
		if _, ok := token.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return j.publicKey, nil
	})
	if err != nil {
		return "", err
	}

	if claims, ok := token.Claims.(*UserClaims); ok && token.Valid {
		return claims.Subject, nil
	}
	return "", errors.New("invalid token claims")
}
