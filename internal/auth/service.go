package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"ingrediguard/internal/metrics"
)

// DefaultAdminPassword is used when no other password is configured.
const DefaultAdminPassword = "admin123"

type Service struct {
	repo                 UserRepository
	defaultAdminPassword string
	metrics              *metrics.Metrics
	log                  *zap.Logger
	now                  func() time.Time
}

func NewService(repo UserRepository, defaultAdminPassword string, m *metrics.Metrics, log *zap.Logger) *Service {
	if defaultAdminPassword == "" {
		defaultAdminPassword = DefaultAdminPassword
	}
	if m == nil {
		m = metrics.NewUnregistered()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		repo:                 repo,
		defaultAdminPassword: defaultAdminPassword,
		metrics:              m,
		log:                  log,
		now:                  time.Now,
	}
}

// --------------------------------------------------
// BOOTSTRAP
// --------------------------------------------------

// EnsureDefaultAdmin creates the default admin account when no active admin
// exists. It reports whether an account was created.
func (s *Service) EnsureDefaultAdmin(ctx context.Context) (bool, error) {
	n, err := s.repo.CountActiveAdmins(ctx)
	if err != nil {
		return false, fmt.Errorf("count admins: %w", err)
	}
	if n > 0 {
		return false, nil
	}

	existing, err := s.repo.FindByUsername(ctx, DefaultAdminUsername)
	switch {
	case err == nil:
		// The account exists but lost its rights; restore them.
		if err := s.repo.SetAdmin(ctx, existing.ID, true); err != nil {
			return false, err
		}
		if err := s.repo.SetActive(ctx, existing.ID, true); err != nil {
			return false, err
		}
		s.log.Warn("default admin account re-enabled", zap.String("username", DefaultAdminUsername))
		return true, nil
	case !errors.Is(err, ErrUserNotFound):
		return false, err
	}

	if _, err := s.AddUser(ctx, DefaultAdminUsername, s.defaultAdminPassword, true); err != nil {
		return false, fmt.Errorf("create default admin: %w", err)
	}

	s.log.Warn("default admin account created, change its password",
		zap.String("username", DefaultAdminUsername))
	return true, nil
}

// --------------------------------------------------
// ACCOUNTS
// --------------------------------------------------

func (s *Service) AddUser(ctx context.Context, username, password string, isAdmin bool) (*User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, ErrMissingFields
	}

	if _, err := s.repo.FindByUsername(ctx, username); err == nil {
		return nil, ErrUsernameTaken
	} else if !errors.Is(err, ErrUserNotFound) {
		return nil, err
	}

	hash, err := hashPassword(password)
	if err != nil {
		return nil, err
	}

	user := &User{
		Username:     username,
		PasswordHash: hash,
		IsAdmin:      isAdmin,
		IsActive:     true,
		CreatedAt:    s.now().UTC().Truncate(time.Second),
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.log.Info("user created", zap.String("username", username), zap.Bool("admin", isAdmin))
	return user, nil
}

func (s *Service) ListUsers(ctx context.Context) ([]User, error) {
	return s.repo.List(ctx)
}

func (s *Service) SetActive(ctx context.Context, id int64, active bool) error {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if !active && user.IsAdmin && user.IsActive {
		if err := s.guardLastAdmin(ctx); err != nil {
			return err
		}
	}

	if err := s.repo.SetActive(ctx, id, active); err != nil {
		return err
	}
	s.log.Info("user status changed", zap.String("username", user.Username), zap.Bool("active", active))
	return nil
}

func (s *Service) SetAdmin(ctx context.Context, id int64, admin bool) error {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if !admin && user.IsAdmin && user.IsActive {
		if err := s.guardLastAdmin(ctx); err != nil {
			return err
		}
	}

	if err := s.repo.SetAdmin(ctx, id, admin); err != nil {
		return err
	}
	s.log.Info("user role changed", zap.String("username", user.Username), zap.Bool("admin", admin))
	return nil
}

func (s *Service) ChangePassword(ctx context.Context, id int64, password string) error {
	if password == "" {
		return ErrMissingFields
	}

	hash, err := hashPassword(password)
	if err != nil {
		return err
	}
	return s.repo.SetPasswordHash(ctx, id, hash)
}

// Reset drops every account and re-creates the default admin.
func (s *Service) Reset(ctx context.Context) error {
	if err := s.repo.DeleteAll(ctx); err != nil {
		return fmt.Errorf("delete users: %w", err)
	}
	s.log.Warn("all users deleted")

	_, err := s.EnsureDefaultAdmin(ctx)
	return err
}

func (s *Service) guardLastAdmin(ctx context.Context) error {
	n, err := s.repo.CountActiveAdmins(ctx)
	if err != nil {
		return err
	}
	if n <= 1 {
		return ErrLastAdmin
	}
	return nil
}

// --------------------------------------------------
// LOGIN
// --------------------------------------------------

func (s *Service) Authenticate(ctx context.Context, username, password string) (*User, error) {
	user, err := s.repo.FindByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			s.metrics.LoginsTotal.WithLabelValues("invalid").Inc()
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	err = bcrypt.CompareHashAndPassword(
		[]byte(user.PasswordHash),
		[]byte(password),
	)
	if err != nil {
		s.metrics.LoginsTotal.WithLabelValues("invalid").Inc()
		return nil, ErrInvalidCredentials
	}

	if !user.IsActive {
		s.metrics.LoginsTotal.WithLabelValues("disabled").Inc()
		return nil, ErrAccountDisabled
	}

	now := s.now().UTC().Truncate(time.Second)
	if err := s.repo.TouchLogin(ctx, user.ID, now); err != nil {
		return nil, err
	}
	user.LastLogin = &now

	s.metrics.LoginsTotal.WithLabelValues("ok").Inc()
	s.log.Info("user logged in", zap.String("username", user.Username))
	return user, nil
}

func hashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword(
		[]byte(password),
		bcrypt.DefaultCost,
	)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}
