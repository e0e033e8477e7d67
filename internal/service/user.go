package service

import (
	"context" // Request scoped cancellation
	"errors"  // Sentinel errors
	"fmt"     // Error wrapping and formatting
	"strings" // Blank field checks
	"time"    // Cache TTL

	"github.com/google/uuid"     // Identifiers
	"github.com/sirupsen/logrus" // Logging library
	"golang.org/x/crypto/bcrypt" // Password hashing

	"trusty_wallet/internal/domain"     // Importing domain models
	"trusty_wallet/internal/metrics"    // Prometheus collectors
	"trusty_wallet/internal/repository" // Storage abstraction
	"trusty_wallet/internal/utils"      // Cache interface
)

// Notifier registers a new user's notification preference
type Notifier interface {
	SavePreference(ctx context.Context, userID uuid.UUID, enabled bool, email string)
}

// UserService owns registration, authentication and account administration
type UserService struct {
	store    repository.Store
	wallets  *WalletService
	credits  *CreditService
	cache    utils.Cache
	cacheTTL time.Duration
	notifier Notifier
	now      Clock
}

// UserServiceDeps groups the collaborators of UserService
type UserServiceDeps struct {
	Store    repository.Store
	Wallets  *WalletService
	Credits  *CreditService
	Cache    utils.Cache
	CacheTTL time.Duration
	Notifier Notifier // Optional
	Now      Clock
}

// NewUserService creates a UserService
func NewUserService(d UserServiceDeps) *UserService {
	if d.Cache == nil {
		d.Cache = utils.NopCache{}
	}
	return &UserService{
		store:    d.Store,
		wallets:  d.Wallets,
		credits:  d.Credits,
		cache:    d.Cache,
		cacheTTL: d.CacheTTL,
		notifier: d.Notifier,
		now:      d.Now,
	}
}

// RegisterInput carries the fields of a new account
type RegisterInput struct {
	Username string
	Email    string
	Password string
}

// EditInput carries profile changes; blank fields are left unchanged
type EditInput struct {
	FirstName  string
	LastName   string
	Email      string
	ProfilePic string
}

// Register creates a user together with its wallets and credit
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)

	if _, err := s.store.Users().GetByEmail(ctx, in.Email); err == nil {
		return nil, domain.ErrEmailTaken
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, fmt.Errorf("register: %w", err)
	}
	if _, err := s.store.Users().GetByUsername(ctx, in.Username); err == nil {
		return nil, domain.ErrUsernameTaken
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, fmt.Errorf("register: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost) // Hash the password
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	user := domain.NewUser(in.Username, in.Email, string(hash), s.now())
	err = s.store.WithinTx(ctx, func(st repository.Store) error {
		if err := st.Users().Create(ctx, user); err != nil {
			return err
		}
		wallets, err := s.wallets.provision(ctx, st, user.ID)
		if err != nil {
			return err
		}
		credit, err := s.credits.create(ctx, st, user.ID)
		if err != nil {
			return err
		}
		user.Wallets, user.Credit = wallets, credit
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}

	s.evict(ctx) // Invalidate the cached user list
	metrics.UsersRegistered.Inc()
	if s.notifier != nil {
		s.notifier.SavePreference(ctx, user.ID, false, user.Email)
	}
	logrus.WithFields(logrus.Fields{
		"user_id":  user.ID,
		"username": user.Username,
		"wallets":  len(user.Wallets),
	}).Info("User registered")
	return user, nil
}

// Authenticate checks credentials and returns the active user
func (s *UserService) Authenticate(ctx context.Context, username, password string) (*domain.User, error) {
	user, err := s.store.Users().GetByUsername(ctx, strings.TrimSpace(username))
	if errors.Is(err, domain.ErrUserNotFound) {
		return nil, domain.ErrInvalidCredentials
	} else if err != nil {
		return nil, fmt.Errorf("authenticate: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil { // Compare hashed password
		return nil, domain.ErrInvalidCredentials
	}
	if !user.Active {
		return nil, domain.ErrUserInactive
	}
	return user, nil
}

// Get returns a user with wallets and credit
func (s *UserService) Get(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	user, err := s.store.Users().GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get user %s: %w", id, err)
	}
	return user, nil
}

// Edit applies the non-blank fields of in to the user
func (s *UserService) Edit(ctx context.Context, id uuid.UUID, in EditInput) (*domain.User, error) {
	var user *domain.User
	err := s.store.WithinTx(ctx, func(st repository.Store) error {
		u, err := st.Users().GetByID(ctx, id)
		if err != nil {
			return err
		}
		if email := strings.TrimSpace(in.Email); email != "" && email != u.Email {
			other, err := st.Users().GetByEmail(ctx, email)
			if err == nil && other.ID != u.ID {
				return domain.ErrEmailTaken
			} else if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
				return err
			}
			u.Email = email
		}
		if v := strings.TrimSpace(in.FirstName); v != "" {
			u.FirstName = v
		}
		if v := strings.TrimSpace(in.LastName); v != "" {
			u.LastName = v
		}
		if v := strings.TrimSpace(in.ProfilePic); v != "" {
			u.ProfilePic = v
		}
		u.UpdatedAt = s.now()
		user = u
		return st.Users().Save(ctx, u)
	})
	if err != nil {
		return nil, fmt.Errorf("edit user: %w", err)
	}
	s.evict(ctx)
	return user, nil
}

// ChangeStatus toggles the user's active flag
func (s *UserService) ChangeStatus(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return s.update(ctx, id, "change status", func(u *domain.User) {
		u.Active = !u.Active
	})
}

// ChangeRole toggles the user between USER and ADMIN
func (s *UserService) ChangeRole(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return s.update(ctx, id, "change role", func(u *domain.User) {
		if u.Role == domain.RoleAdmin {
			u.Role = domain.RoleUser
		} else {
			u.Role = domain.RoleAdmin
		}
	})
}

func (s *UserService) update(ctx context.Context, id uuid.UUID, op string, mutate func(*domain.User)) (*domain.User, error) {
	var user *domain.User
	err := s.store.WithinTx(ctx, func(st repository.Store) error {
		u, err := st.Users().GetByID(ctx, id)
		if err != nil {
			return err
		}
		mutate(u)
		u.UpdatedAt = s.now()
		user = u
		return st.Users().Save(ctx, u)
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.evict(ctx)
	logrus.WithFields(logrus.Fields{
		"user_id": user.ID,
		"role":    user.Role,
		"active":  user.Active,
	}).Info("User updated")
	return user, nil
}

// List returns every user ordered by registration time, served from the cache when possible
func (s *UserService) List(ctx context.Context) ([]domain.User, error) {
	var users []domain.User
	found, err := s.cache.Get(ctx, UsersCacheKey, &users)
	if err == nil && found {
		return users, nil
	}
	if err != nil {
		logrus.WithError(err).Warn("Users cache read failed")
	}
	users, err = s.store.Users().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	if err := s.cache.Set(ctx, UsersCacheKey, users, s.cacheTTL); err != nil {
		logrus.WithError(err).Warn("Users cache write failed")
	}
	return users, nil
}

// Report counts users by status and role
func (s *UserService) Report(ctx context.Context) (*domain.UsersReport, error) {
	users, err := s.store.Users().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("users report: %w", err)
	}
	report := &domain.UsersReport{TotalUsers: len(users), CreatedAt: s.now()}
	for _, u := range users {
		if u.Active {
			report.ActiveUsers++
		} else {
			report.InactiveUsers++
		}
		if u.IsAdmin() {
			report.Admins++
		} else {
			report.NonAdmins++
		}
	}
	return report, nil
}

func (s *UserService) evict(ctx context.Context) {
	if err := s.cache.Delete(ctx, UsersCacheKey); err != nil {
		logrus.WithError(err).Warn("Failed to evict users cache")
	}
}
