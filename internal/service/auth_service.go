package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"thinkdrills_backend/internal/config"
	"thinkdrills_backend/internal/model"
	"thinkdrills_backend/internal/repository"
	"thinkdrills_backend/internal/util"
	"time"

	"github.com/go-redis/redis/v8"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	resetTokenPrefix = "pwreset:"
	resetTokenTTL    = time.Hour
)

type AuthService struct {
	ParentRepo  *repository.ParentRepository
	StudentRepo *repository.StudentRepository
	Redis       *redis.Client
	Email       EmailSender
	Cfg         *config.Config
}

func NewAuthService(parentRepo *repository.ParentRepository, studentRepo *repository.StudentRepository, rdb *redis.Client, email EmailSender, cfg *config.Config) *AuthService {
	return &AuthService{
		ParentRepo:  parentRepo,
		StudentRepo: studentRepo,
		Redis:       rdb,
		Email:       email,
		Cfg:         cfg,
	}
}

func (s *AuthService) RegisterParent(parent *model.Parent) error {
	_, err := s.ParentRepo.FindByEmail(parent.Email)
	if err == nil {
		return util.ErrEmailRegistered
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(parent.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	parent.Password = string(hashedPassword)
	return s.ParentRepo.Create(parent)
}

func (s *AuthService) LoginParent(email, password string) (string, error) {
	parent, err := s.ParentRepo.FindByEmail(email)
	if err != nil {
		return "", util.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(parent.Password), []byte(password)); err != nil {
		return "", util.ErrInvalidCredentials
	}

	return util.GenerateJWT(parent.ID, model.RoleParent, parent.Email, s.Cfg.JWT.Secret, s.Cfg.JWT.ExpireTime)
}

func (s *AuthService) LoginStudent(userName, password string) (string, error) {
	student, err := s.StudentRepo.FindByUserName(userName)
	if err != nil {
		return "", util.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(student.Password), []byte(password)); err != nil {
		return "", util.ErrInvalidCredentials
	}

	return util.GenerateJWT(student.ID, model.RoleStudent, student.UserName, s.Cfg.JWT.Secret, s.Cfg.JWT.ExpireTime)
}

func generateResetToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

// ForgotPassword issues a reset token and emails a reset link. An unknown
// email still returns nil so the endpoint cannot be used to enumerate
// accounts.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	parent, err := s.ParentRepo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}

	token, err := generateResetToken()
	if err != nil {
		return err
	}

	if err := s.Redis.Set(ctx, resetTokenPrefix+token, parent.ID, resetTokenTTL).Err(); err != nil {
		return err
	}

	resetURL := fmt.Sprintf("%s/parent/reset-password?token=%s", s.Cfg.Email.AppBaseURL, token)
	html := fmt.Sprintf(`<p>Hello %s,</p>
<p>You requested to reset your password. Click the link below to reset your password:</p>
<p><a href="%s">Reset Password</a></p>
<p>This link will expire in 1 hour.</p>
<p>If you didn't request this, please ignore this email.</p>
<p>Best regards,<br>ThinkDrills Team</p>`, parent.Name, resetURL)

	return s.Email.Send(ctx, parent.Email, "Reset Your Password - ThinkDrills", html)
}

// ValidateResetToken reports whether the token is still live.
func (s *AuthService) ValidateResetToken(ctx context.Context, token string) (bool, error) {
	_, err := s.Redis.Get(ctx, resetTokenPrefix+token).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// ResetPassword consumes the token and replaces the parent's password.
func (s *AuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	parentID, err := s.Redis.Get(ctx, resetTokenPrefix+token).Uint64()
	if errors.Is(err, redis.Nil) {
		return util.ErrInvalidResetToken
	}
	if err != nil {
		return err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	if err := s.ParentRepo.UpdatePassword(uint(parentID), string(hashedPassword)); err != nil {
		return err
	}

	// Token is single-use.
	return s.Redis.Del(ctx, resetTokenPrefix+token).Err()
}
