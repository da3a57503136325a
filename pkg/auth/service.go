package auth

import (
	"context"
	"database/sql"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/locallibrary/catalog/pkg/config"
	"github.com/locallibrary/catalog/pkg/errcodes"
	"github.com/locallibrary/catalog/pkg/models"
	"github.com/pkg/errors"
	"github.com/uptrace/bun"
	"golang.org/x/crypto/bcrypt"
)

const (
	// BcryptCost is the cost factor for bcrypt hashing.
	BcryptCost = bcrypt.DefaultCost
	// AccessTokenLifetime is fixed; only the refresh lifetime is configurable.
	AccessTokenLifetime = 60 * time.Minute

	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

var (
	errInvalidCredentials = errcodes.Unauthorized("No active account found with the given credentials")
	errTokenInvalid       = errcodes.Unauthorized("Token is invalid or expired")
	errTokenBlacklisted   = errcodes.Unauthorized("Token is blacklisted")
)

// Claims is the payload of both access and refresh tokens. IsLibrarian is
// computed from role membership when the token pair is issued and never
// re-evaluated afterwards.
type Claims struct {
	TokenType   string `json:"token_type"`
	UserID      int    `json:"user_id"`
	Username    string `json:"username"`
	IsLibrarian bool   `json:"isLibrarian"`
	jwt.RegisteredClaims
}

// TokenPair is returned on login.
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// Service handles authentication operations.
type Service struct {
	db              *bun.DB
	jwtSecret       []byte
	refreshLifetime time.Duration
	now             func() time.Time
}

// NewService creates a new auth service.
func NewService(db *bun.DB, cfg *config.Config) *Service {
	return &Service{
		db:              db,
		jwtSecret:       []byte(cfg.JWTSecret),
		refreshLifetime: cfg.RefreshTokenLifetime,
		now:             time.Now,
	}
}

// Authenticate validates credentials and returns the user if valid.
func (s *Service) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	user := &models.User{}
	err := s.db.NewSelect().
		Model(user).
		Relation("Roles").
		Where("u.username = ?", username).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errInvalidCredentials
		}
		return nil, errors.WithStack(err)
	}

	if !CheckPassword(password, user.PasswordHash) {
		return nil, errInvalidCredentials
	}

	return user, nil
}

// IssueToken checks the credentials and returns a fresh token pair.
func (s *Service) IssueToken(ctx context.Context, username, password string) (*TokenPair, error) {
	user, err := s.Authenticate(ctx, username, password)
	if err != nil {
		return nil, err
	}
	return s.IssueTokenPair(ctx, user)
}

// IssueTokenPair signs an access and a refresh token for the user and records
// the refresh token as outstanding. The user's roles must be loaded.
func (s *Service) IssueTokenPair(ctx context.Context, user *models.User) (*TokenPair, error) {
	now := s.now().UTC()

	refreshClaims := s.newClaims(TokenTypeRefresh, user.ID, user.Username, user.IsLibrarian(), now, s.refreshLifetime)
	refresh, err := s.sign(refreshClaims)
	if err != nil {
		return nil, err
	}

	accessClaims := s.newClaims(TokenTypeAccess, user.ID, user.Username, user.IsLibrarian(), now, AccessTokenLifetime)
	access, err := s.sign(accessClaims)
	if err != nil {
		return nil, err
	}

	outstanding := &models.OutstandingToken{
		JTI:       refreshClaims.ID,
		UserID:    user.ID,
		Token:     refresh,
		CreatedAt: now,
		ExpiresAt: refreshClaims.ExpiresAt.Time.UTC(),
	}
	_, err = s.db.NewInsert().Model(outstanding).Exec(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return &TokenPair{Access: access, Refresh: refresh}, nil
}

// Refresh exchanges a refresh token for a new access token. The new token
// carries the same librarian claim as the refresh token it came from.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (string, error) {
	claims, err := s.ValidateToken(refreshToken, TokenTypeRefresh)
	if err != nil {
		return "", errTokenInvalid
	}

	blacklisted, err := s.db.NewSelect().
		Model((*models.BlacklistedToken)(nil)).
		Join("JOIN outstanding_tokens AS ot ON ot.id = bt.token_id").
		Where("ot.jti = ?", claims.ID).
		Exists(ctx)
	if err != nil {
		return "", errors.WithStack(err)
	}
	if blacklisted {
		return "", errTokenBlacklisted
	}

	now := s.now().UTC()
	access := s.newClaims(TokenTypeAccess, claims.UserID, claims.Username, claims.IsLibrarian, now, AccessTokenLifetime)
	return s.sign(access)
}

// Blacklist revokes a refresh token owned by the given user. Revoking the same
// token twice reports an error on the second call.
func (s *Service) Blacklist(ctx context.Context, userID int, refreshToken string) error {
	claims, err := s.ValidateToken(refreshToken, TokenTypeRefresh)
	if err != nil {
		return errcodes.FieldError("refresh", "Token is invalid or expired")
	}
	if claims.UserID != userID {
		return errcodes.PermissionDenied()
	}

	return s.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		outstanding := &models.OutstandingToken{}
		err := tx.NewSelect().
			Model(outstanding).
			Where("ot.jti = ?", claims.ID).
			Scan(ctx)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return errcodes.FieldError("refresh", "Token is invalid or expired")
			}
			return errors.WithStack(err)
		}

		res, err := tx.NewInsert().
			Model(&models.BlacklistedToken{
				TokenID:       outstanding.ID,
				BlacklistedAt: s.now().UTC(),
			}).
			On("CONFLICT (token_id) DO NOTHING").
			Exec(ctx)
		if err != nil {
			return errors.WithStack(err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return errors.WithStack(err)
		}
		if n == 0 {
			return errcodes.FieldError("refresh", "Token is blacklisted")
		}
		return nil
	})
}

// ValidateToken validates a signed token of the given type and returns its
// claims.
func (s *Service) ValidateToken(tokenString, tokenType string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.jwtSecret, nil
	}, jwt.WithTimeFunc(s.now), jwt.WithExpirationRequired())
	if err != nil {
		return nil, errors.WithStack(err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	if claims.TokenType != tokenType {
		return nil, errors.Errorf("expected %s token, got %q", tokenType, claims.TokenType)
	}

	return claims, nil
}

// GetUserByID retrieves a user by ID with roles.
func (s *Service) GetUserByID(ctx context.Context, id int) (*models.User, error) {
	user := &models.User{}
	err := s.db.NewSelect().
		Model(user).
		Relation("Roles").
		Where("u.id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errcodes.NotFound("User")
		}
		return nil, errors.WithStack(err)
	}
	return user, nil
}

// SweepExpired removes outstanding and blacklisted tokens whose refresh
// expiry has passed. It returns how many outstanding tokens were removed.
func (s *Service) SweepExpired(ctx context.Context) (int, error) {
	now := s.now().UTC()
	var removed int64
	err := s.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		expired := tx.NewSelect().
			Model((*models.OutstandingToken)(nil)).
			Column("ot.id").
			Where("ot.expires_at < ?", now)

		_, err := tx.NewDelete().
			Model((*models.BlacklistedToken)(nil)).
			Where("token_id IN (?)", expired).
			Exec(ctx)
		if err != nil {
			return errors.WithStack(err)
		}

		res, err := tx.NewDelete().
			Model((*models.OutstandingToken)(nil)).
			Where("expires_at < ?", now).
			Exec(ctx)
		if err != nil {
			return errors.WithStack(err)
		}
		removed, err = res.RowsAffected()
		return errors.WithStack(err)
	})
	if err != nil {
		return 0, err
	}
	return int(removed), nil
}

func (s *Service) newClaims(tokenType string, userID int, username string, isLibrarian bool, now time.Time, lifetime time.Duration) *Claims {
	return &Claims{
		TokenType:   tokenType,
		UserID:      userID,
		Username:    username,
		IsLibrarian: isLibrarian,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(lifetime)),
		},
	}
}

func (s *Service) sign(claims *Claims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", errors.WithStack(err)
	}
	return signed, nil
}

// HashPassword hashes a password using bcrypt.
func HashPassword(password string) (string, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	if err != nil {
		return "", errors.WithStack(err)
	}
	return string(hashedPassword), nil
}

// CheckPassword compares a password with a hash.
func CheckPassword(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}
