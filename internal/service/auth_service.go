package service

import (
	"context"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"

	"github.com/d60-Lab/newsportal/internal/apperr"
	"github.com/d60-Lab/newsportal/internal/model"
	"github.com/d60-Lab/newsportal/internal/repository"
	"github.com/d60-Lab/newsportal/pkg/token"
)

// PublicProfile 对外可见的账号字段；密码哈希永不返回
type PublicProfile struct {
	ID           string         `json:"id"`
	Name         string         `json:"name"`
	Email        string         `json:"email"`
	ProfileImage string         `json:"profileImage,omitempty"`
	Preferences  datatypes.JSON `json:"preferences,omitempty"`
}

// AuthResult 注册/登录结果
type AuthResult struct {
	Token string        `json:"token"`
	User  PublicProfile `json:"user"`
}

// ProfileUpdate 局部更新；nil 字段不触碰
type ProfileUpdate struct {
	Name         *string         `json:"name"`
	ProfileImage *string         `json:"profileImage"`
	Preferences  *datatypes.JSON `json:"preferences"`
}

// AuthService 账号生命周期。
// 邮箱统一转小写后存储与查询，唯一性因此对大小写不敏感。
type AuthService interface {
	Signup(ctx context.Context, name, email, password string) (*AuthResult, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	GetProfile(ctx context.Context, userID string) (*PublicProfile, error)
	UpdateProfile(ctx context.Context, userID string, upd ProfileUpdate) (*PublicProfile, error)
}

type authService struct {
	userRepo repository.UserRepository
	tokens   *token.Manager
}

func NewAuthService(userRepo repository.UserRepository, tokens *token.Manager) AuthService {
	return &authService{userRepo: userRepo, tokens: tokens}
}

func publicProfile(u *model.User) PublicProfile {
	return PublicProfile{
		ID:           u.ID,
		Name:         u.Name,
		Email:        u.Email,
		ProfileImage: u.ProfileImage,
		Preferences:  u.Preferences,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *authService) Signup(ctx context.Context, name, email, password string) (*AuthResult, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "error creating user", err)
	}
	u := &model.User{
		Name:     name,
		Email:    normalizeEmail(email),
		Password: string(hash),
	}
	// 重复邮箱由唯一索引裁决，不做先查后插
	if err := s.userRepo.Create(ctx, u); err != nil {
		if err == repository.ErrDuplicate {
			return nil, apperr.New(apperr.KindConflict, "Email already exists")
		}
		return nil, apperr.Wrap(apperr.KindInternal, "error creating user", err)
	}
	tok, err := s.tokens.Generate(u.ID)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "error creating user", err)
	}
	return &AuthResult{Token: tok, User: publicProfile(u)}, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	// 未知邮箱与密码不符返回同一错误，不泄露是哪一项错了
	u, err := s.userRepo.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if err == repository.ErrNotFound {
			return nil, apperr.New(apperr.KindAuth, "Invalid credentials")
		}
		return nil, apperr.Wrap(apperr.KindInternal, "error logging in", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)) != nil {
		return nil, apperr.New(apperr.KindAuth, "Invalid credentials")
	}
	tok, err := s.tokens.Generate(u.ID)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "error logging in", err)
	}
	return &AuthResult{Token: tok, User: publicProfile(u)}, nil
}

func (s *authService) GetProfile(ctx context.Context, userID string) (*PublicProfile, error) {
	u, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if err == repository.ErrNotFound {
			return nil, apperr.New(apperr.KindNotFound, "User not found")
		}
		return nil, apperr.Wrap(apperr.KindInternal, "error fetching profile", err)
	}
	p := publicProfile(u)
	return &p, nil
}

func (s *authService) UpdateProfile(ctx context.Context, userID string, upd ProfileUpdate) (*PublicProfile, error) {
	fields := map[string]any{}
	if upd.Name != nil {
		fields["name"] = *upd.Name
	}
	if upd.ProfileImage != nil {
		fields["profile_image"] = *upd.ProfileImage
	}
	if upd.Preferences != nil {
		fields["preferences"] = *upd.Preferences
	}
	if len(fields) == 0 {
		return nil, apperr.New(apperr.KindValidation, "no fields to update")
	}
	if err := s.userRepo.UpdateFields(ctx, userID, fields); err != nil {
		if err == repository.ErrNotFound {
			return nil, apperr.New(apperr.KindNotFound, "User not found")
		}
		return nil, apperr.Wrap(apperr.KindInternal, "error updating profile", err)
	}
	return s.GetProfile(ctx, userID)
}
