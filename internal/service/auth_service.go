package service

import (
	"errors"
	"time"

	"github.com/cangku-next/internal/models"
	"github.com/cangku-next/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// AuthClaims JWT 载荷
type AuthClaims struct {
	AdminID  uint   `json:"admin_id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// AuthService 管理员认证服务
type AuthService struct {
	adminRepo   repository.AdminRepository
	secretKey   []byte
	expireHours int
}

func NewAuthService(adminRepo repository.AdminRepository, secretKey string, expireHours int) *AuthService {
	if expireHours <= 0 {
		expireHours = 24
	}
	return &AuthService{
		adminRepo:   adminRepo,
		secretKey:   []byte(secretKey),
		expireHours: expireHours,
	}
}

// Login 校验用户名密码并签发令牌
func (s *AuthService) Login(username, password string) (string, *models.Admin, error) {
	admin, err := s.adminRepo.GetByUsername(username)
	if err != nil {
		return "", nil, err
	}
	if admin == nil {
		return "", nil, ErrAdminInvalid
	}
	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password)); err != nil {
		return "", nil, ErrAdminInvalid
	}

	now := time.Now()
	claims := AuthClaims{
		AdminID:  admin.ID,
		Username: admin.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(s.expireHours) * time.Hour)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secretKey)
	if err != nil {
		return "", nil, err
	}
	return signed, admin, nil
}

// ParseToken 校验令牌并返回载荷
func (s *AuthService) ParseToken(tokenString string) (*AuthClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &AuthClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secretKey, nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*AuthClaims)
	if !ok || !token.Valid {
		return nil, ErrAdminInvalid
	}
	return claims, nil
}

// ChangePassword 修改密码
func (s *AuthService) ChangePassword(adminID uint, oldPassword, newPassword string) error {
	if len(newPassword) < 6 {
		return ErrAdminInvalid
	}
	admin, err := s.adminRepo.GetByID(adminID)
	if err != nil {
		return err
	}
	if admin == nil {
		return ErrAdminInvalid
	}
	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(oldPassword)); err != nil {
		return ErrAdminInvalid
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.adminRepo.UpdatePassword(adminID, string(hash))
}
