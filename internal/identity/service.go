package identity

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Pasidu-Mihiranga/Auditra-CodeCogs/internal/syslog"
	"github.com/Pasidu-Mihiranga/Auditra-CodeCogs/pkg/config"
	"github.com/Pasidu-Mihiranga/Auditra-CodeCogs/pkg/db/models"
	"github.com/Pasidu-Mihiranga/Auditra-CodeCogs/pkg/enums"
	pkgerrors "github.com/Pasidu-Mihiranga/Auditra-CodeCogs/pkg/errors"
	"github.com/Pasidu-Mihiranga/Auditra-CodeCogs/pkg/security"
)

const tempPasswordLength = 12

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Credentials is what a login attempt carries.
type Credentials struct {
	Login    string
	Password string
}

// RegisterInput captures a self-service staff registration.
type RegisterInput struct {
	Username  string
	Email     string
	Password  string
	FirstName string
	LastName  string
	Phone     *string
}

// ProvisionInput creates an external (client or agent) account with a
// generated temporary password.
type ProvisionInput struct {
	Username      string
	Email         string
	FirstName     string
	LastName      string
	Phone         *string
	Role          enums.Role
	ProvisionedBy uuid.UUID
}

// ProvisionResult returns the created user and the one-time password that
// must be communicated out of band.
type ProvisionResult struct {
	User         *models.User
	TempPassword string
}

// Service exposes identity operations: authentication, role resolution and
// account provisioning.
type Service interface {
	Authenticate(ctx context.Context, creds Credentials) (*models.User, enums.Role, error)
	Register(ctx context.Context, input RegisterInput) (*models.User, error)
	ResolveRole(ctx context.Context, userID uuid.UUID) (enums.Role, error)
	AssignRole(ctx context.Context, userID uuid.UUID, role enums.Role, assignedBy uuid.UUID) error
	ProvisionExternalAccount(ctx context.Context, input ProvisionInput) (*ProvisionResult, error)
	FindUser(ctx context.Context, userID uuid.UUID) (*models.User, error)
}

type service struct {
	repo     Repository
	tx       txRunner
	recorder syslog.Recorder
	password config.PasswordConfig
	now      func() time.Time
}

// NewService wires the identity service with its dependencies.
func NewService(repo Repository, tx txRunner, recorder syslog.Recorder, passwordCfg config.PasswordConfig) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("identity repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	if recorder == nil {
		return nil, fmt.Errorf("audit recorder required")
	}
	return &service{
		repo:     repo,
		tx:       tx,
		recorder: recorder,
		password: passwordCfg,
		now:      time.Now,
	}, nil
}

func (s *service) Authenticate(ctx context.Context, creds Credentials) (*models.User, enums.Role, error) {
	login := strings.TrimSpace(creds.Login)
	if login == "" || creds.Password == "" {
		return nil, "", pkgerrors.New(pkgerrors.CodeValidation, "login and password are required")
	}

	user, err := s.repo.FindUserByLogin(ctx, login)
	if err != nil {
		return nil, "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}
	if user == nil || !user.IsActive {
		return nil, "", pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
	}

	ok, err := security.VerifyPassword(creds.Password, user.PasswordHash)
	if err != nil || !ok {
		return nil, "", pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
	}

	now := s.now().UTC()
	if err := s.repo.UpdateUser(ctx, user.ID, map[string]any{"last_login_at": now}); err != nil {
		return nil, "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "stamp last login")
	}
	user.LastLoginAt = &now

	role, err := s.ResolveRole(ctx, user.ID)
	if err != nil {
		return nil, "", err
	}

	s.recorder.Record(ctx, syslog.AppendInput{
		Action:      enums.LogActionUserLogin,
		Category:    enums.LogCategoryAuth,
		ActorID:     &user.ID,
		Description: fmt.Sprintf("User %s logged in", user.Username),
	})

	return user, role, nil
}

func (s *service) Register(ctx context.Context, input RegisterInput) (*models.User, error) {
	if err := validateNewAccount(input.Username, input.Email); err != nil {
		return nil, err
	}
	if len(input.Password) < 8 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "password must be at least 8 characters")
	}

	hash, err := security.HashPassword(input.Password, s.password)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	user := &models.User{
		Username:     strings.TrimSpace(input.Username),
		Email:        strings.ToLower(strings.TrimSpace(input.Email)),
		PasswordHash: hash,
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Phone:        input.Phone,
		IsActive:     true,
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		return s.repo.WithTx(tx).CreateUser(ctx, user)
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "create user")
	}

	s.recorder.Record(ctx, syslog.AppendInput{
		Action:      enums.LogActionUserRegistered,
		Category:    enums.LogCategoryUser,
		ActorID:     &user.ID,
		Description: fmt.Sprintf("User %s registered", user.Username),
	})

	return user, nil
}

// ResolveRole maps a user to their workflow role; users without an
// assignment are unassigned, not an error.
func (s *service) ResolveRole(ctx context.Context, userID uuid.UUID) (enums.Role, error) {
	role, err := s.repo.FindRole(ctx, userID)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load role")
	}
	if role == nil {
		return enums.RoleUnassigned, nil
	}
	return role.Role, nil
}

func (s *service) AssignRole(ctx context.Context, userID uuid.UUID, role enums.Role, assignedBy uuid.UUID) error {
	if !role.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid role %q", role))
	}

	user, err := s.repo.FindUserByID(ctx, userID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}
	if user == nil {
		return pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		return s.repo.WithTx(tx).UpsertRole(ctx, &models.UserRole{
			UserID:       userID,
			Role:         role,
			AssignedByID: &assignedBy,
		})
	})
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "assign role")
	}

	s.recorder.Record(ctx, syslog.AppendInput{
		Action:       enums.LogActionUserRoleChanged,
		Category:     enums.LogCategoryUser,
		ActorID:      &assignedBy,
		TargetUserID: &userID,
		Description:  fmt.Sprintf("User %s assigned role %s", user.Username, role),
	})

	return nil
}

func (s *service) ProvisionExternalAccount(ctx context.Context, input ProvisionInput) (*ProvisionResult, error) {
	if input.Role != enums.RoleClient && input.Role != enums.RoleAgent {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "only client and agent accounts can be provisioned")
	}
	if err := validateNewAccount(input.Username, input.Email); err != nil {
		return nil, err
	}

	tempPassword, err := security.GenerateTempPassword(tempPasswordLength)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate temp password")
	}
	hash, err := security.HashPassword(tempPassword, s.password)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash temp password")
	}

	user := &models.User{
		Username:           strings.TrimSpace(input.Username),
		Email:              strings.ToLower(strings.TrimSpace(input.Email)),
		PasswordHash:       hash,
		FirstName:          input.FirstName,
		LastName:           input.LastName,
		Phone:              input.Phone,
		IsActive:           true,
		MustChangePassword: true,
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.CreateUser(ctx, user); err != nil {
			return err
		}
		return repo.UpsertRole(ctx, &models.UserRole{
			UserID:       user.ID,
			Role:         input.Role,
			AssignedByID: &input.ProvisionedBy,
		})
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "provision account")
	}

	s.recorder.Record(ctx, syslog.AppendInput{
		Action:       enums.LogActionUserRegistered,
		Category:     enums.LogCategoryUser,
		ActorID:      &input.ProvisionedBy,
		TargetUserID: &user.ID,
		Description:  fmt.Sprintf("%s account %s provisioned", input.Role, user.Username),
	})

	return &ProvisionResult{User: user, TempPassword: tempPassword}, nil
}

func (s *service) FindUser(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	user, err := s.repo.FindUserByID(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}
	if user == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
	}
	return user, nil
}

func validateNewAccount(username, email string) error {
	if strings.TrimSpace(username) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "username is required")
	}
	if !strings.Contains(email, "@") {
		return pkgerrors.New(pkgerrors.CodeValidation, "valid email is required")
	}
	return nil
}
