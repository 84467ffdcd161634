package services

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"
	"unicode"

	"github.com/dmitrijs2005/photofeed/internal/common"
	"github.com/dmitrijs2005/photofeed/internal/dbx"
	"github.com/dmitrijs2005/photofeed/internal/server/auth"
	"github.com/dmitrijs2005/photofeed/internal/server/config"
	"github.com/dmitrijs2005/photofeed/internal/server/events"
	"github.com/dmitrijs2005/photofeed/internal/server/models"
	"github.com/google/uuid"
)

const (
	minPasswordLength = 6
	maxUsernameLength = 30
	refreshTokenBytes = 32

	passwordResetBytes    = 32
	passwordResetValidity = time.Hour
)

type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// RegisterRequest carries the sign-up form. ProfileImage is optional.
type RegisterRequest struct {
	Email        string
	Password     string
	FullName     string
	Username     string
	ProfileImage []byte
	ContentType  string
}

// ProfileUpdate changes only the fields that are set.
type ProfileUpdate struct {
	FullName     *string
	Username     *string
	ProfileImage []byte
	ContentType  string
}

// Profile is a user together with the stats derived from the graph and
// the posts table.
type Profile struct {
	User  *models.User
	Stats models.UserStats
}

type UserService struct {
	deps                         Deps
	hasher                       *auth.PasswordHasher
	jwtSecret                    []byte
	accessTokenValidityDuration  time.Duration
	refreshTokenValidityDuration time.Duration
}

func NewUserService(d Deps, hasher *auth.PasswordHasher, cfg *config.Config) *UserService {
	d = d.withDefaults()
	d.Logger = d.Logger.With("module", "users")
	if hasher == nil {
		hasher = auth.NewPasswordHasher(nil)
	}
	return &UserService{
		deps:                         d,
		hasher:                       hasher,
		jwtSecret:                    []byte(cfg.SecretKey),
		accessTokenValidityDuration:  cfg.AccessTokenValidityDuration,
		refreshTokenValidityDuration: cfg.RefreshTokenValidityDuration,
	}
}

func normalizeUsername(s string) (string, error) {
	s = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(s, "@")))
	if s == "" || len(s) > maxUsernameLength {
		return "", fmt.Errorf("%w: username must be 1-%d characters", common.ErrValidation, maxUsernameLength)
	}
	for _, r := range s {
		if r != '_' && r != '.' && !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return "", fmt.Errorf("%w: username may contain letters, digits, '_' and '.'", common.ErrValidation)
		}
	}
	return s, nil
}

func normalizeEmail(s string) (string, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	addr, err := mail.ParseAddress(s)
	if err != nil || addr.Address != s {
		return "", fmt.Errorf("%w: invalid email", common.ErrValidation)
	}
	return s, nil
}

// Register creates an account. Email and username are case-folded and must
// both be unique; a duplicate is common.ErrorAlreadyExists.
func (s *UserService) Register(ctx context.Context, req RegisterRequest) (*models.User, error) {
	email, err := normalizeEmail(req.Email)
	if err != nil {
		return nil, err
	}
	username, err := normalizeUsername(req.Username)
	if err != nil {
		return nil, err
	}
	if len(req.Password) < minPasswordLength {
		return nil, fmt.Errorf("%w: password must be at least %d characters", common.ErrValidation, minPasswordLength)
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		ID:           uuid.NewString(),
		Email:        email,
		FullName:     strings.TrimSpace(req.FullName),
		Username:     username,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}

	if len(req.ProfileImage) > 0 {
		url, err := s.deps.Store.Upload(ctx, req.ProfileImage, req.ContentType)
		if err != nil {
			return nil, err
		}
		user.ProfileImageURL = url
	}

	user, err = s.deps.Repos.Users(s.deps.DB.Conn()).Create(ctx, user)
	if err != nil {
		return nil, err
	}
	s.deps.Logger.Info(ctx, "user registered", "user_id", user.ID)
	return user, nil
}

// Login checks the credentials and issues a token pair. Unknown email and
// wrong password are indistinguishable to the caller.
func (s *UserService) Login(ctx context.Context, email, password string) (*TokenPair, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.deps.Repos.Users(s.deps.DB.Conn()).GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, common.ErrorInternal
	}

	if err := s.hasher.Compare(user.PasswordHash, password); err != nil {
		if errors.Is(err, common.ErrorUnauthorized) {
			return nil, common.ErrorUnauthorized
		}
		s.deps.Logger.Error(ctx, "stored password hash unusable", "user_id", user.ID, "error", err)
		return nil, common.ErrorInternal
	}

	return s.generateTokenPair(ctx, s.deps.DB.Conn(), user.ID)
}

// RefreshToken exchanges a refresh token for a new pair. The old token is
// consumed in the same transaction that stores its replacement.
func (s *UserService) RefreshToken(ctx context.Context, refreshToken string) (*TokenPair, error) {
	var tokenPair *TokenPair

	err := s.deps.DB.InTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.deps.Repos.RefreshTokens(tx)

		token, err := repo.Find(ctx, refreshToken)
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return common.ErrInvalidToken
			}
			return fmt.Errorf("error searching refresh token: %w", err)
		}

		if token.Expires.Before(time.Now()) {
			return common.ErrRefreshTokenExpired
		}

		if err := repo.Delete(ctx, refreshToken); err != nil {
			return fmt.Errorf("error deleting refresh token: %w", err)
		}

		tokenPair, err = s.generateTokenPair(ctx, tx, token.UserID)
		return err
	})
	if err != nil {
		return nil, err
	}

	return tokenPair, nil
}

// Logout revokes a single refresh token. Unknown tokens are ignored.
func (s *UserService) Logout(ctx context.Context, refreshToken string) error {
	return s.deps.Repos.RefreshTokens(s.deps.DB.Conn()).Delete(ctx, refreshToken)
}

// RequestPasswordReset issues a one-time reset token for the account behind
// email and hands it to the mail worker over the bus. An unknown email is
// not an error, so the call does not reveal which addresses are registered.
func (s *UserService) RequestPasswordReset(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return fmt.Errorf("%w: email is required", common.ErrValidation)
	}

	conn := s.deps.DB.Conn()
	user, err := s.deps.Repos.Users(conn).GetByEmail(ctx, email)
	if errors.Is(err, common.ErrorNotFound) {
		s.deps.Logger.Debug(ctx, "password reset for unknown email")
		return nil
	}
	if err != nil {
		return err
	}

	token, err := common.MakeRandHexString(passwordResetBytes)
	if err != nil {
		return common.ErrorInternal
	}
	if err := s.deps.Repos.PasswordResets(conn).Create(ctx, user.ID, token, passwordResetValidity); err != nil {
		return err
	}

	publish(ctx, s.deps, events.SubjectPasswordReset, events.PasswordResetRequested{
		UserID:    user.ID,
		Email:     user.Email,
		Token:     token,
		ExpiresAt: time.Now().UTC().Add(passwordResetValidity),
	})
	s.deps.Logger.Info(ctx, "password reset requested", "user_id", user.ID)
	return nil
}

// ResetPassword sets a new password with a token from RequestPasswordReset.
// It consumes every reset token of the user and logs them out everywhere.
func (s *UserService) ResetPassword(ctx context.Context, token, newPassword string) error {
	if len(newPassword) < minPasswordLength {
		return fmt.Errorf("%w: password must be at least %d characters", common.ErrValidation, minPasswordLength)
	}
	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	return s.deps.DB.InTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		resets := s.deps.Repos.PasswordResets(tx)

		reset, err := resets.Find(ctx, token)
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return common.ErrInvalidToken
			}
			return fmt.Errorf("error searching reset token: %w", err)
		}
		if reset.Expires.Before(time.Now()) {
			return common.ErrTokenExpired
		}

		if err := s.deps.Repos.Users(tx).SetPasswordHash(ctx, reset.UserID, hash); err != nil {
			return err
		}
		if err := resets.DeleteForUser(ctx, reset.UserID); err != nil {
			return fmt.Errorf("error deleting reset tokens: %w", err)
		}
		if err := s.deps.Repos.RefreshTokens(tx).DeleteForUser(ctx, reset.UserID); err != nil {
			return fmt.Errorf("error deleting refresh tokens: %w", err)
		}
		return nil
	})
}

// VerifyAccessToken returns the user the access token was issued to.
func (s *UserService) VerifyAccessToken(token string) (string, error) {
	if token == "" {
		return "", common.ErrAuthRequired
	}
	return auth.GetUserIDFromToken(token, s.jwtSecret)
}

func (s *UserService) generateTokenPair(ctx context.Context, db dbx.DBTX, userID string) (*TokenPair, error) {
	accessToken, err := auth.GenerateToken(userID, s.jwtSecret, s.accessTokenValidityDuration)
	if err != nil {
		return nil, common.ErrorInternal
	}

	refreshToken, err := common.MakeRandHexString(refreshTokenBytes)
	if err != nil {
		return nil, common.ErrorInternal
	}

	if err := s.deps.Repos.RefreshTokens(db).Create(ctx, userID, refreshToken, s.refreshTokenValidityDuration); err != nil {
		return nil, common.ErrorInternal
	}

	return &TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

// GetUser returns the user with follower, following and post counts.
func (s *UserService) GetUser(ctx context.Context, userID string) (*Profile, error) {
	conn := s.deps.DB.Conn()
	user, err := s.deps.Repos.Users(conn).GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	followers, following, err := s.deps.Graph.Counts(ctx, userID)
	if err != nil {
		return nil, err
	}
	posts, err := s.deps.Repos.Posts(conn).CountByOwner(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &Profile{
		User:  user,
		Stats: models.UserStats{Followers: followers, Following: following, Posts: posts},
	}, nil
}

// UpdateProfile edits the actor's own profile.
func (s *UserService) UpdateProfile(ctx context.Context, actorID string, upd ProfileUpdate) (*models.User, error) {
	if err := requireActor(actorID); err != nil {
		return nil, err
	}

	repo := s.deps.Repos.Users(s.deps.DB.Conn())
	user, err := repo.GetByID(ctx, actorID)
	if err != nil {
		return nil, err
	}

	if upd.FullName != nil {
		user.FullName = strings.TrimSpace(*upd.FullName)
	}
	if upd.Username != nil {
		if user.Username, err = normalizeUsername(*upd.Username); err != nil {
			return nil, err
		}
	}
	if len(upd.ProfileImage) > 0 {
		url, err := s.deps.Store.Upload(ctx, upd.ProfileImage, upd.ContentType)
		if err != nil {
			return nil, err
		}
		user.ProfileImageURL = url
	}

	if err := repo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// SearchUsers finds users whose handle starts with prefix.
func (s *UserService) SearchUsers(ctx context.Context, prefix string, limit int) ([]*models.User, error) {
	prefix = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(prefix, "@")))
	if prefix == "" {
		return nil, nil
	}
	return s.deps.Repos.Users(s.deps.DB.Conn()).Search(ctx, prefix, pageSize(limit))
}

// RegisterDevice stores the push token of the actor's device. An empty
// token disables push.
func (s *UserService) RegisterDevice(ctx context.Context, actorID, deviceToken string) error {
	if err := requireActor(actorID); err != nil {
		return err
	}
	return s.deps.Repos.Users(s.deps.DB.Conn()).SetDeviceToken(ctx, actorID, strings.TrimSpace(deviceToken))
}
