package service

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/cuteblog/internal/db"
	"gorm.io/gorm"
)

var (
	ErrUsernameTaken      = errors.New("username already taken")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("incorrect credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidRole        = errors.New("invalid role")
)

// RegisterInput 注册表单。
type RegisterInput struct {
	Username string `form:"username" validate:"required,max=64"`
	Email    string `form:"email" validate:"required,email,max=255"`
	Password string `form:"password" validate:"required,min=8,max=72"`
}

// AccountInput 账号设置表单，用户名规则比注册更严格。
type AccountInput struct {
	Username string `form:"username" validate:"required,min=8,max=20"`
	Email    string `form:"email" validate:"required,email,max=255"`
}

// AuthService 负责注册、登录以及账号自助管理。
type AuthService struct {
	db    *gorm.DB
	creds *Credentials

	dummyOnce sync.Once
	dummyHash string
}

// NewAuthService creates an AuthService.
func NewAuthService(gdb *gorm.DB, creds *Credentials) *AuthService {
	if creds == nil {
		creds = NewCredentials(DefaultHashCost)
	}
	return &AuthService{db: gdb, creds: creds}
}

// Register 创建新账号。用户名先单独检查，已被占用时不写入任何数据。
// 空库中的第一个账号获得 admin 角色。
func (s *AuthService) Register(input RegisterInput) (*db.User, error) {
	input.Username = sanitizeText(input.Username)
	input.Email = strings.ToLower(sanitizeText(input.Email))

	if err := validateStruct(input); err != nil {
		return nil, err
	}

	taken, err := s.exists("username = ?", input.Username)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrUsernameTaken
	}

	taken, err = s.exists("email = ?", input.Email)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrEmailTaken
	}

	hashed, err := s.creds.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	user := db.User{
		Username: input.Username,
		Email:    input.Email,
		Password: hashed,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		var total int64
		if err := tx.Model(&db.User{}).Count(&total).Error; err != nil {
			return err
		}
		user.Role = db.RoleReader
		if total == 0 {
			user.Role = db.RoleAdmin
		}
		return tx.Create(&user).Error
	})
	if err != nil {
		if taken := s.duplicateUserError(err, input.Username, input.Email, 0); taken != nil {
			return nil, taken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	return &user, nil
}

// Login 按用户名或邮箱查找账号并校验密码。
// 账号不存在与密码错误返回同一个错误。
func (s *AuthService) Login(identifier, password string) (*db.User, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	var user db.User
	err := s.db.Where("username = ? OR email = ?", identifier, strings.ToLower(identifier)).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// keep timing close to the found-user path
			s.creds.Verify(s.placeholderHash(), password)
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	if !s.creds.Verify(user.Password, password) {
		return nil, ErrInvalidCredentials
	}

	return &user, nil
}

// GetUser 按 ID 读取账号。
func (s *AuthService) GetUser(id uint) (*db.User, error) {
	var user db.User
	if err := s.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("load user: %w", err)
	}
	return &user, nil
}

// UpdateAccount 更新用户名与邮箱。
func (s *AuthService) UpdateAccount(id uint, input AccountInput) (*db.User, error) {
	input.Username = sanitizeText(input.Username)
	input.Email = strings.ToLower(sanitizeText(input.Email))

	if err := validateStruct(input); err != nil {
		return nil, err
	}

	user, err := s.GetUser(id)
	if err != nil {
		return nil, err
	}

	taken, err := s.exists("username = ? AND id <> ?", input.Username, id)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrUsernameTaken
	}
	taken, err = s.exists("email = ? AND id <> ?", input.Email, id)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrEmailTaken
	}

	if err := s.db.Model(user).Updates(map[string]interface{}{
		"username": input.Username,
		"email":    input.Email,
	}).Error; err != nil {
		if taken := s.duplicateUserError(err, input.Username, input.Email, id); taken != nil {
			return nil, taken
		}
		return nil, fmt.Errorf("update user: %w", err)
	}

	user.Username = input.Username
	user.Email = input.Email
	return user, nil
}

// duplicateUserError 把并发写入时的唯一索引冲突映射回 ErrUsernameTaken / ErrEmailTaken，
// 其它错误返回 nil。冲突行已不可见时按用户名占用处理。
func (s *AuthService) duplicateUserError(err error, username, email string, excludeID uint) error {
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil
	}
	if taken, lookupErr := s.exists("username = ? AND id <> ?", username, excludeID); lookupErr == nil && taken {
		return ErrUsernameTaken
	}
	if taken, lookupErr := s.exists("email = ? AND id <> ?", email, excludeID); lookupErr == nil && taken {
		return ErrEmailTaken
	}
	return ErrUsernameTaken
}

// DeleteAccount 删除账号。
func (s *AuthService) DeleteAccount(id uint) error {
	result := s.db.Delete(&db.User{}, id)
	if result.Error != nil {
		return fmt.Errorf("delete user: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

// EnsureAdmin 在没有任何 admin 账号时创建一个。凭据为空时直接跳过。
func (s *AuthService) EnsureAdmin(username, email, password string) (*db.User, bool, error) {
	username = strings.TrimSpace(username)
	email = strings.ToLower(strings.TrimSpace(email))
	if username == "" || email == "" || password == "" {
		return nil, false, nil
	}

	var existing db.User
	err := s.db.Where("role = ?", db.RoleAdmin).Order("id").First(&existing).Error
	if err == nil {
		return &existing, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, fmt.Errorf("find admin: %w", err)
	}

	user, err := s.Register(RegisterInput{Username: username, Email: email, Password: password})
	if err != nil {
		return nil, false, err
	}
	if user.Role != db.RoleAdmin {
		if err := s.SetRole(user.Username, db.RoleAdmin); err != nil {
			return nil, false, err
		}
		user.Role = db.RoleAdmin
	}
	return user, true, nil
}

// SetRole 修改指定用户名的角色。
func (s *AuthService) SetRole(username string, role db.Role) error {
	if _, ok := db.ParseRole(string(role)); !ok {
		return ErrInvalidRole
	}
	result := s.db.Model(&db.User{}).Where("username = ?", strings.TrimSpace(username)).Update("role", role)
	if result.Error != nil {
		return fmt.Errorf("update role: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (s *AuthService) exists(query string, args ...interface{}) (bool, error) {
	var count int64
	if err := s.db.Model(&db.User{}).Where(query, args...).Count(&count).Error; err != nil {
		return false, fmt.Errorf("check user: %w", err)
	}
	return count > 0, nil
}

func (s *AuthService) placeholderHash() string {
	s.dummyOnce.Do(func() {
		buf := make([]byte, 16)
		_, _ = rand.Read(buf)
		if hashed, err := s.creds.Hash(hex.EncodeToString(buf)); err == nil {
			s.dummyHash = hashed
		}
	})
	return s.dummyHash
}
