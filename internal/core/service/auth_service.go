package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/blogsphere/api/internal/core/domain"
	"github.com/blogsphere/api/internal/core/ports"
	"github.com/blogsphere/api/internal/metrics"
)

const tokenTypeBearer = "bearer"

// AuthConfig holds the token lifetimes. It is built once at startup.
type AuthConfig struct {
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

// AuthService implements registration, login and refresh.
type AuthService struct {
	users    ports.CredentialStore
	hasher   ports.PasswordHasher
	codec    ports.TokenCodec
	sessions ports.SessionResolver
	cfg      AuthConfig
	activity ports.ActivityPublisher
	now      func() time.Time
	log      zerolog.Logger

	dummyOnce sync.Once
	dummyHash string
}

func NewAuthService(
	users ports.CredentialStore,
	hasher ports.PasswordHasher,
	codec ports.TokenCodec,
	sessions ports.SessionResolver,
	cfg AuthConfig,
	activity ports.ActivityPublisher,
	log zerolog.Logger,
) *AuthService {
	if cfg.AccessTTL <= 0 {
		cfg.AccessTTL = 30 * time.Minute
	}
	if cfg.RefreshTTL <= 0 {
		cfg.RefreshTTL = 7 * 24 * time.Hour
	}
	if activity == nil {
		activity = nopPublisher{}
	}
	return &AuthService{
		users:    users,
		hasher:   hasher,
		codec:    codec,
		sessions: sessions,
		cfg:      cfg,
		activity: activity,
		now:      time.Now,
		log:      log,
	}
}

func (s *AuthService) Register(ctx context.Context, username, password string) (*domain.User, error) {
	if err := validateUsername(username); err != nil {
		return nil, err
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, domain.WrapInternal(err, "register")
	}

	user, err := s.users.Create(ctx, username, hash, domain.RoleUser)
	if err != nil {
		metrics.AuthAttemptsTotal.WithLabelValues("register", metrics.ResultFailure).Inc()
		if errors.Is(err, domain.ErrDuplicateUsername) {
			return nil, domain.ErrDuplicateUsername
		}
		return nil, domain.WrapInternal(err, "register")
	}

	metrics.AuthAttemptsTotal.WithLabelValues("register", metrics.ResultSuccess).Inc()
	s.publish(domain.ActivityRegister, user.Username, user.ID, true, "")
	s.log.Info().Int64("user_id", user.ID).Str("username", user.Username).Msg("user registered")
	user.PasswordHash = ""
	return user, nil
}

// Login verifies the credential and issues an access/refresh pair. Unknown
// usernames and wrong passwords fail identically.
func (s *AuthService) Login(ctx context.Context, in ports.LoginInput) (domain.TokenPair, error) {
	user, err := s.users.FindByUsername(ctx, in.Username)
	switch {
	case errors.Is(err, domain.ErrUserNotFound):
		s.hasher.Verify(in.Password, s.timingHash())
		return domain.TokenPair{}, s.loginFailed(in, 0)
	case err != nil:
		return domain.TokenPair{}, domain.WrapInternal(err, "login")
	}

	if !s.hasher.Verify(in.Password, user.PasswordHash) {
		return domain.TokenPair{}, s.loginFailed(in, user.ID)
	}

	pair, err := s.issuePair(user, user.Role.GrantScopes(in.Scopes))
	if err != nil {
		return domain.TokenPair{}, err
	}

	metrics.AuthAttemptsTotal.WithLabelValues("login", metrics.ResultSuccess).Inc()
	s.publish(domain.ActivityLogin, user.Username, user.ID, true, in.IP)
	return pair, nil
}

// Refresh rotates a refresh token into a new pair carrying the role's
// default scopes. The presented token stays valid until it expires.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (domain.TokenPair, error) {
	session, err := s.sessions.Resolve(ctx, refreshToken, domain.AccessPolicy{Kind: domain.RefreshToken})
	if err != nil {
		metrics.AuthAttemptsTotal.WithLabelValues("refresh", metrics.ResultFailure).Inc()
		return domain.TokenPair{}, err
	}

	user := session.Identity
	pair, err := s.issuePair(user, user.Role.AllowedScopes())
	if err != nil {
		return domain.TokenPair{}, err
	}

	metrics.AuthAttemptsTotal.WithLabelValues("refresh", metrics.ResultSuccess).Inc()
	s.publish(domain.ActivityRefresh, user.Username, user.ID, true, "")
	return pair, nil
}

func (s *AuthService) issuePair(user *domain.User, scopes []string) (domain.TokenPair, error) {
	base := domain.TokenClaims{
		Subject:    user.Username,
		IdentityID: user.ID,
		Role:       user.Role,
	}

	access := base
	access.Scopes = scopes
	accessToken, err := s.codec.Issue(access, s.cfg.AccessTTL)
	if err != nil {
		return domain.TokenPair{}, domain.WrapInternal(err, "issue access token")
	}

	refresh := base
	refresh.IsRefresh = true
	refreshToken, err := s.codec.Issue(refresh, s.cfg.RefreshTTL)
	if err != nil {
		return domain.TokenPair{}, domain.WrapInternal(err, "issue refresh token")
	}

	metrics.TokensIssuedTotal.WithLabelValues(domain.AccessToken.String()).Inc()
	metrics.TokensIssuedTotal.WithLabelValues(domain.RefreshToken.String()).Inc()

	return domain.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    tokenTypeBearer,
		ExpiresIn:    int64(s.cfg.AccessTTL / time.Second),
	}, nil
}

func (s *AuthService) loginFailed(in ports.LoginInput, identityID int64) error {
	metrics.AuthAttemptsTotal.WithLabelValues("login", metrics.ResultFailure).Inc()
	s.publish(domain.ActivityLogin, in.Username, identityID, false, in.IP)
	return domain.ErrInvalidCredentials
}

// timingHash is verified against when the username is unknown so both
// failure paths cost one hash comparison.
func (s *AuthService) timingHash() string {
	s.dummyOnce.Do(func() {
		hash, err := s.hasher.Hash("not-a-real-password")
		if err != nil {
			s.log.Warn().Err(err).Msg("could not prepare timing hash")
			return
		}
		s.dummyHash = hash
	})
	return s.dummyHash
}

func (s *AuthService) publish(kind domain.ActivityKind, username string, id int64, ok bool, ip string) {
	s.activity.Publish(domain.ActivityEvent{
		Kind:       kind,
		Username:   username,
		IdentityID: id,
		Success:    ok,
		IP:         ip,
		At:         s.now().UTC(),
	})
}

func validateUsername(username string) error {
	n := utf8.RuneCountInString(username)
	if n < domain.UsernameMinLen || n > domain.UsernameMaxLen {
		return domain.InvalidInput("username must be between 3 and 50 characters")
	}
	if strings.TrimSpace(username) != username {
		return domain.InvalidInput("username must not start or end with whitespace")
	}
	return nil
}

func validatePassword(password string) error {
	if len(password) < domain.PasswordMinLen || len(password) > domain.PasswordMaxLen {
		return domain.InvalidInput("password must be between 8 and 72 bytes")
	}
	return nil
}

type nopPublisher struct{}

func (nopPublisher) Publish(domain.ActivityEvent) {}
