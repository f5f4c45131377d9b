package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/mswdo/soloparent-backend/config"
	"github.com/mswdo/soloparent-backend/database"
	"github.com/mswdo/soloparent-backend/internal/admin"
	"github.com/mswdo/soloparent-backend/internal/applicant"
	"github.com/mswdo/soloparent-backend/internal/auditlog"
	"github.com/mswdo/soloparent-backend/internal/notification"
	"github.com/mswdo/soloparent-backend/internal/workflow"
	"github.com/mswdo/soloparent-backend/middleware"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountPending     = errors.New("your application is still pending review")
	ErrAccountDeclined    = errors.New("your application has been declined")
	ErrAccountTerminated  = errors.New("your solo parent status has been terminated")
	ErrEmailTaken         = errors.New("email is already registered")
)

type Service struct {
	users    *applicant.Repository
	admins   *admin.Repository
	workflow *workflow.Service
	mail     *notification.EmailQueue
	audit    auditlog.Service
	cfg      *config.Config
}

func NewService(users *applicant.Repository, admins *admin.Repository, wf *workflow.Service, mail *notification.EmailQueue, audit auditlog.Service, cfg *config.Config) *Service {
	return &Service{users: users, admins: admins, workflow: wf, mail: mail, audit: audit, cfg: cfg}
}

// LoginResult is what a successful sign-in returns.
type LoginResult struct {
	Token    string `json:"token"`
	Role     string `json:"role"`
	ID       uint   `json:"id"`
	Name     string `json:"name"`
	CodeID   string `json:"code_id,omitempty"`
	Barangay string `json:"barangay,omitempty"`
	Status   string `json:"status,omitempty"`
}

// Login resolves the account across the three credential tables in order:
// applicants, barangay admins, superadmin. The first email match wins.
func (s *Service) Login(ctx context.Context, email, password, ip string) (*LoginResult, error) {
	email = strings.TrimSpace(strings.ToLower(email))

	if user, err := s.users.GetByEmail(email); err == nil {
		return s.loginApplicant(ctx, user, password, ip)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if a, err := s.admins.GetByEmail(email); err == nil {
		return s.loginStaff(ctx, a.ID, middleware.RoleAdmin, a.Name, a.Barangay, a.Password, password, ip)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if sa, err := s.admins.GetSuperadminByEmail(email); err == nil {
		return s.loginStaff(ctx, sa.ID, middleware.RoleSuperadmin, sa.Name, "", sa.Password, password, ip)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	s.logAuth(ctx, nil, "auth.login", email, ip, "failure")
	return nil, ErrInvalidCredentials
}

func (s *Service) loginApplicant(ctx context.Context, user *applicant.User, password, ip string) (*LoginResult, error) {
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		s.logAuth(ctx, &user.ID, "auth.login", user.Email, ip, "failure")
		return nil, ErrInvalidCredentials
	}

	switch workflow.Status(user.Status) {
	case workflow.StatusPending, workflow.StatusIncomplete:
		return nil, ErrAccountPending
	case workflow.StatusDeclined:
		return nil, ErrAccountDeclined
	case workflow.StatusTerminated:
		return nil, ErrAccountTerminated
	case workflow.StatusCreated:
		// staff-created account signing in for the first time
		if _, err := s.workflow.Apply(ctx, user.ID, workflow.EventFirstLogin, workflow.Options{ActorType: "system", IP: ip}); err != nil {
			return nil, err
		}
		user.Status = string(workflow.StatusVerified)
	}

	token, err := s.generateToken(user.ID, middleware.RoleUser, "", user.CodeID)
	if err != nil {
		return nil, err
	}
	s.logAuth(ctx, &user.ID, "auth.login", user.Email, ip, "success")
	return &LoginResult{
		Token:  token,
		Role:   middleware.RoleUser,
		ID:     user.ID,
		Name:   user.Name,
		CodeID: user.CodeID,
		Status: user.Status,
	}, nil
}

func (s *Service) loginStaff(ctx context.Context, id uint, role, name, barangay, hash, password, ip string) (*LoginResult, error) {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		_ = s.audit.LogAction(ctx, role, &id, "auth.login", "", nil, ip, "failure")
		return nil, ErrInvalidCredentials
	}
	token, err := s.generateToken(id, role, barangay, "")
	if err != nil {
		return nil, err
	}
	_ = s.audit.LogAction(ctx, role, &id, "auth.login", "", nil, ip, "success")
	return &LoginResult{Token: token, Role: role, ID: id, Name: name, Barangay: barangay}, nil
}

func (s *Service) generateToken(id uint, role, barangay, codeID string) (string, error) {
	claims := jwt.MapClaims{
		"user_id": id,
		"role":    role,
		"exp":     time.Now().Add(time.Duration(s.cfg.JWTAccessTTLHours) * time.Hour).Unix(),
	}
	if barangay != "" {
		claims["barangay"] = barangay
	}
	if codeID != "" {
		claims["code_id"] = codeID
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTAccessSecret))
}

// =============================
// Registration
// =============================

type RegisterInput struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Barangay string `json:"barangay" binding:"required"`
}

// Register creates a Pending applicant with a fresh case code.
func (s *Service) Register(ctx context.Context, in RegisterInput, ip string) (*applicant.User, error) {
	email := strings.TrimSpace(strings.ToLower(in.Email))
	if _, err := s.users.GetByEmail(email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &applicant.User{
		Name:     in.Name,
		Email:    email,
		Password: string(hashed),
		CodeID:   newCaseCode(),
		Barangay: in.Barangay,
		Status:   string(workflow.StatusPending),
	}
	if err := s.users.Create(user); err != nil {
		return nil, err
	}
	s.logAuth(ctx, &user.ID, "auth.register", email, ip, "success")
	return user, nil
}

// newCaseCode mints the natural key that groups all of a case's rows.
func newCaseCode() string {
	return "SP-" + strings.ToUpper(uuid.NewString()[:8])
}

// =============================
// Password reset
// =============================

const resetTokenTTL = 15 * time.Minute

// RequestPasswordReset stores a one-shot token in Redis and mails the link.
// Always reports success to the caller so the endpoint does not leak which
// emails exist.
func (s *Service) RequestPasswordReset(ctx context.Context, email string) error {
	user, err := s.users.GetByEmail(strings.TrimSpace(strings.ToLower(email)))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}

	token := uuid.NewString()
	key := fmt.Sprintf("reset_token:%s", token)
	if err := database.RDB.Set(ctx, key, fmt.Sprint(user.ID), resetTokenTTL).Err(); err != nil {
		return fmt.Errorf("could not save reset token: %w", err)
	}

	s.mail.Enqueue(notification.EmailPasswordReset, user.Email, map[string]string{
		"name":  user.Name,
		"token": token,
	})
	return nil
}

var ErrResetTokenInvalid = errors.New("invalid or expired token")

func (s *Service) ResetPassword(ctx context.Context, token, newPassword string) error {
	key := fmt.Sprintf("reset_token:%s", token)
	val, err := database.RDB.Get(ctx, key).Result()
	if err != nil {
		return ErrResetTokenInvalid
	}

	var userID uint
	if _, err := fmt.Sscan(val, &userID); err != nil {
		return ErrResetTokenInvalid
	}
	user, err := s.users.GetByID(userID)
	if err != nil {
		return ErrResetTokenInvalid
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	if err := s.users.DB.Model(&applicant.User{}).Where("id = ?", user.ID).Update("password", string(hash)).Error; err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	_ = database.RDB.Del(ctx, key).Err()
	s.logAuth(ctx, &user.ID, "auth.password_reset", user.Email, "", "success")
	return nil
}

// ChangePassword verifies the current password before setting a new one.
func (s *Service) ChangePassword(ctx context.Context, role string, id uint, current, next string) error {
	var hash string
	switch role {
	case middleware.RoleUser:
		u, err := s.users.GetByID(id)
		if err != nil {
			return err
		}
		hash = u.Password
	case middleware.RoleAdmin:
		a, err := s.admins.GetByID(id)
		if err != nil {
			return err
		}
		hash = a.Password
	case middleware.RoleSuperadmin:
		sa, err := s.admins.GetSuperadminByID(id)
		if err != nil {
			return err
		}
		hash = sa.Password
	default:
		return errors.New("unknown role")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(current)); err != nil {
		return ErrInvalidCredentials
	}
	newHash, err := bcrypt.GenerateFromPassword([]byte(next), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	switch role {
	case middleware.RoleUser:
		return s.users.DB.Model(&applicant.User{}).Where("id = ?", id).Update("password", string(newHash)).Error
	case middleware.RoleAdmin:
		return s.admins.UpdatePassword(id, string(newHash))
	default:
		return s.admins.UpdateSuperadminPassword(id, string(newHash))
	}
}

func (s *Service) logAuth(ctx context.Context, actorID *uint, action, email, ip, status string) {
	details := map[string]interface{}{}
	if email != "" {
		details["email"] = email
	}
	_ = s.audit.LogAction(ctx, "user", actorID, action, "", details, ip, status)
}
