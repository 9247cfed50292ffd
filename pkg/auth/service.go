package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/kushi-labs/kushi/pkg/credentials"
	"github.com/kushi-labs/kushi/pkg/kv"
	"github.com/kushi-labs/kushi/pkg/logger"
	"github.com/kushi-labs/kushi/pkg/validator"
)

// bcrypt ignores input beyond 72 bytes; longer passwords are rejected.
const maxPasswordBytes = 72

const hookTimeout = 10 * time.Second

// CredentialStore is the credential mapping used by Service.
// *credentials.Store satisfies it; Insert must fail with
// credentials.ErrDuplicate for an existing email.
type CredentialStore interface {
	Lookup(ctx context.Context, email string) (string, bool, error)
	Insert(ctx context.Context, email, secret string) error
}

// RegisterInput is the registration form.
type RegisterInput struct {
	Name            string `form:"name" json:"name"`
	Email           string `form:"email" json:"email"`
	Password        string `form:"password" json:"password"`
	ConfirmPassword string `form:"confirm_password" json:"confirm_password"`
}

// LoginInput is the login form.
type LoginInput struct {
	Email    string `form:"email" json:"email"`
	Password string `form:"password" json:"password"`
	Remember bool   `form:"remember" json:"remember"`
}

// Service runs the registration and login flows against a credential store.
type Service struct {
	creds             CredentialStore
	bcryptCost        int
	minPasswordLength int
	logger            *slog.Logger

	afterRegister func(ctx context.Context, email string) error
	afterLogin    func(ctx context.Context, id Identity) error
}

func NewService(creds CredentialStore, opts ...Option) *Service {
	s := &Service{
		creds:             creds,
		bcryptCost:        bcrypt.DefaultCost,
		minPasswordLength: 8,
		logger:            logger.Discard(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type check struct {
	rule validator.Rule
	err  error
}

// Register validates in and adds the account to the credential store.
func (s *Service) Register(ctx context.Context, in RegisterInput) error {
	checks := []check{
		{validator.RequiredString("email", in.Email).WithMessage("Email is required"), ErrInvalidEmail},
		{validator.ValidEmail("email", in.Email).WithMessage("Enter a valid email address"), ErrInvalidEmail},
		{
			validator.MinLenString("password", in.Password, s.minPasswordLength).
				WithMessage(fmt.Sprintf("Password must be at least %d characters", s.minPasswordLength)),
			ErrPasswordTooShort,
		},
		{
			validator.MaxBytesString("password", in.Password, maxPasswordBytes).
				WithMessage(fmt.Sprintf("Password must be at most %d bytes", maxPasswordBytes)),
			ErrPasswordTooLong,
		},
		{validator.Equal("confirm_password", in.ConfirmPassword, in.Password).WithMessage("Passwords do not match"), ErrPasswordMismatch},
	}
	for _, c := range checks {
		if err := validator.ApplyFirst(c.rule); err != nil {
			return errors.Join(c.err, err)
		}
	}

	// Fail fast on a duplicate before paying for the hash. Insert re-checks
	// under the store lock.
	if _, exists, err := s.creds.Lookup(ctx, in.Email); err != nil {
		return fmt.Errorf("auth: check email: %w", err)
	} else if exists {
		return emailTaken()
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.bcryptCost)
	if err != nil {
		return fmt.Errorf("auth: hash password: %w", err)
	}

	if err := s.creds.Insert(ctx, in.Email, string(hash)); err != nil {
		if errors.Is(err, credentials.ErrDuplicate) {
			return emailTaken()
		}
		return fmt.Errorf("auth: save credentials: %w", err)
	}

	s.logger.InfoContext(ctx, "account registered",
		logger.Component("auth"),
		logger.Event("register"),
		logger.Email(in.Email),
	)

	if s.afterRegister != nil {
		s.runHook("afterRegister", in.Email, func(ctx context.Context) error {
			return s.afterRegister(ctx, in.Email)
		})
	}

	return nil
}

func emailTaken() error {
	return errors.Join(ErrEmailAlreadyExists,
		validator.Single("email", "Email already registered", "auth.email_taken"))
}

// Login checks the credentials and records the identity in session. With
// in.Remember set the email is also written to durable.
func (s *Service) Login(ctx context.Context, in LoginInput, session, durable kv.Store) (Identity, error) {
	id, err := s.Authenticate(ctx, in.Email, in.Password)
	if err != nil {
		return Identity{}, err
	}
	if err := s.SignIn(ctx, id, in.Remember, session, durable); err != nil {
		return Identity{}, err
	}
	return id, nil
}

// Authenticate verifies email and password against a fresh read of the
// credential store. Unknown emails and wrong passwords both yield
// ErrInvalidCredentials.
func (s *Service) Authenticate(ctx context.Context, email, password string) (Identity, error) {
	secret, ok, err := s.creds.Lookup(ctx, email)
	if err != nil {
		return Identity{}, fmt.Errorf("auth: load credentials: %w", err)
	}
	if !ok {
		s.logFailure(ctx, email, "unknown email")
		return Identity{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(secret), []byte(password)); err != nil {
		s.logFailure(ctx, email, "password mismatch")
		return Identity{}, ErrInvalidCredentials
	}
	return Identity{Email: email, DisplayName: DisplayName(email)}, nil
}

// SignIn records an authenticated identity in session, and in durable when
// remember is set.
func (s *Service) SignIn(ctx context.Context, id Identity, remember bool, session, durable kv.Store) error {
	if err := session.Set(ctx, SessionUserKey, id.Email); err != nil {
		return fmt.Errorf("auth: write session: %w", err)
	}
	if err := session.Set(ctx, SessionUserNameKey, id.DisplayName); err != nil {
		return fmt.Errorf("auth: write session: %w", err)
	}
	if remember {
		if err := durable.Set(ctx, RememberedEmailKey, id.Email); err != nil {
			return fmt.Errorf("auth: remember email: %w", err)
		}
	}

	s.logger.InfoContext(ctx, "user logged in",
		logger.Component("auth"),
		logger.Event("login"),
		logger.Email(id.Email),
		slog.Bool("remember", remember),
	)

	if s.afterLogin != nil {
		s.runHook("afterLogin", id.Email, func(ctx context.Context) error {
			return s.afterLogin(ctx, id)
		})
	}
	return nil
}

// Logout removes the session record. The remembered email stays.
func (s *Service) Logout(ctx context.Context, session kv.Store) error {
	id, _, _ := CurrentIdentity(ctx, session)
	if err := session.Delete(ctx, SessionUserKey); err != nil {
		return fmt.Errorf("auth: clear session: %w", err)
	}
	if err := session.Delete(ctx, SessionUserNameKey); err != nil {
		return fmt.Errorf("auth: clear session: %w", err)
	}
	s.logger.InfoContext(ctx, "user logged out",
		logger.Component("auth"),
		logger.Event("logout"),
		logger.Email(id.Email),
	)
	return nil
}

func (s *Service) logFailure(ctx context.Context, email, reason string) {
	s.logger.WarnContext(ctx, "login failed",
		logger.Component("auth"),
		logger.Event("login"),
		logger.Email(email),
		slog.String("reason", reason),
	)
}

func (s *Service) runHook(name, email string, fn func(context.Context) error) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				s.logger.Error(name+" hook panicked",
					logger.Component("auth"),
					logger.Email(email),
					slog.Any("panic", r),
				)
			}
		}()

		ctx, cancel := context.WithTimeout(context.Background(), hookTimeout)
		defer cancel()

		if err := fn(ctx); err != nil {
			s.logger.Error(name+" hook failed",
				logger.Component("auth"),
				logger.Email(email),
				logger.Error(err),
			)
		}
	}()
}
