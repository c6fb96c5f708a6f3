package utils

import (
	"context"
	"strconv"
	"time"

	"github.com/alkhazraji96/yelp-camp/models"

	"github.com/go-redis/redis/v8"
	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
	"gorm.io/gorm"
)

var bgContext = context.Background()

// AccessToken carries the acting principal. Username and IsAdmin ride along
// so handlers can build author snapshots and ownership decisions without an
// extra user lookup.
type AccessToken struct {
	ID       uint   `json:"ID"`
	Username string `json:"username"`
	IsAdmin  bool   `json:"isAdmin"`
}

type RefreshTokenInput struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

// TokenManager signs and verifies the JWT pairs and keeps the refresh-token
// allow-list in redis. Built once in main; no env reads at call time.
type TokenManager struct {
	AccessSecret  []byte
	RefreshSecret []byte
	Redis         *redis.Client
	DB            *gorm.DB
}

func NewTokenManager(accessSecret, refreshSecret string, redisClient *redis.Client, db *gorm.DB) *TokenManager {
	return &TokenManager{
		AccessSecret:  []byte(accessSecret),
		RefreshSecret: []byte(refreshSecret),
		Redis:         redisClient,
		DB:            db,
	}
}

func (tm *TokenManager) CreateTokenPair(user *models.User) (*jwt.TokenPair, error) {
	accessSigner := jwt.NewSigner(jwt.HS256, tm.AccessSecret, 24*time.Hour)
	refreshSigner := jwt.NewSigner(jwt.HS256, tm.RefreshSecret, 365*24*time.Hour)

	accessClaims := AccessToken{
		ID:       user.ID,
		Username: user.Username,
		IsAdmin:  user.IsAdmin,
	}
	refreshClaims := jwt.Claims{Subject: strconv.FormatUint(uint64(user.ID), 10)}

	accessToken, err := accessSigner.Sign(accessClaims)
	if err != nil {
		return nil, err
	}

	refreshToken, err := refreshSigner.Sign(refreshClaims)
	if err != nil {
		return nil, err
	}

	var tokenPair jwt.TokenPair
	tokenPair.AccessToken = accessToken
	tokenPair.RefreshToken = refreshToken

	if tm.Redis != nil {
		tm.Redis.Set(bgContext, string(refreshToken), "true", 365*24*time.Hour+5*time.Minute)
	}

	return &tokenPair, nil
}

// AccessVerifier returns the middleware that gates every authenticated route.
func (tm *TokenManager) AccessVerifier() iris.Handler {
	verifier := jwt.NewVerifier(jwt.HS256, tm.AccessSecret)
	verifier.WithDefaultBlocklist()
	return verifier.Verify(func() interface{} {
		return new(AccessToken)
	})
}

// RefreshVerifier also accepts the refresh token from the JSON body, the way
// mobile clients send it.
func (tm *TokenManager) RefreshVerifier() iris.Handler {
	verifier := jwt.NewVerifier(jwt.HS256, tm.RefreshSecret)
	verifier.WithDefaultBlocklist()
	verifier.Extractors = append(verifier.Extractors, func(ctx iris.Context) string {
		var tokenInput RefreshTokenInput
		if err := ctx.ReadJSON(&tokenInput); err != nil {
			return ""
		}
		return tokenInput.RefreshToken
	})
	return verifier.Verify(func() interface{} {
		return new(jwt.Claims)
	})
}

// Refresh rotates a verified refresh token: it must still be on the redis
// allow-list, gets revoked, and a fresh pair is issued.
func (tm *TokenManager) Refresh(ctx iris.Context) {
	token := jwt.GetVerifiedToken(ctx)
	tokenStr := string(token.Token)

	validToken, tokenErr := tm.Redis.Get(bgContext, tokenStr).Result()
	if tokenErr != nil {
		CreateNotFound(ctx)
		return
	}
	if validToken != "true" {
		ctx.StatusCode(iris.StatusForbidden)
		return
	}

	tm.Redis.Del(bgContext, tokenStr)

	userID, parseErr := strconv.ParseUint(token.StandardClaims.Subject, 10, 32)
	if parseErr != nil {
		CreateInternalServerError(ctx)
		return
	}

	var user models.User
	if err := tm.DB.First(&user, uint(userID)).Error; err != nil {
		CreateNotFound(ctx)
		return
	}

	tokenPair, tokenPairErr := tm.CreateTokenPair(&user)
	if tokenPairErr != nil {
		CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(iris.Map{
		"accessToken":  string(tokenPair.AccessToken),
		"refreshToken": string(tokenPair.RefreshToken),
	})
}
