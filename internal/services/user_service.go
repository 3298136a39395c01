// Package services はビジネスロジックを提供します。
package services

import (
	"errors"
	"fmt"
	"log"

	"quilltask/internal/models"
	"quilltask/internal/repositories"
)

// 登録・認証のバリデーションエラー。ハンドラー側でフラッシュ文言に変換されます。
var (
	ErrNameTaken          = errors.New("username already exists")
	ErrEmailTaken         = errors.New("email already registered")
	ErrPasswordMismatch   = errors.New("passwords do not match")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// UserService はユーザー関連のビジネスロジックを扱います。
type UserService struct {
	userRepo *repositories.UserRepository
}

// NewUserService は新しいUserServiceを作成します。
func NewUserService(userRepo *repositories.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// RegisterUser はユーザーを登録します。
// チェックは 名前の重複 → メールの重複 → パスワード一致 の順で行い、
// 最初に失敗したチェックで打ち切ります。全チェック通過までレコードは作成されません。
func (s *UserService) RegisterUser(form models.RegisterForm) (*models.User, error) {
	if _, err := s.userRepo.FindByName(form.Username); err == nil {
		return nil, ErrNameTaken
	} else if !errors.Is(err, repositories.ErrUserNotFound) {
		return nil, err
	}

	if _, err := s.userRepo.FindByEmail(form.Email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, repositories.ErrUserNotFound) {
		return nil, err
	}

	if form.Password != form.ConfirmPassword {
		return nil, ErrPasswordMismatch
	}

	hashedPassword, err := repositories.HashPassword(form.Password)
	if err != nil {
		log.Printf("Failed to hash password: %v", err)
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	newUser := &models.User{
		Name:         form.Username,
		Email:        form.Email,
		PasswordHash: hashedPassword,
	}

	createdUser, err := s.userRepo.Create(newUser)
	if err != nil {
		return nil, err
	}
	return createdUser, nil
}

// AuthenticateUser はユーザーを認証し、成功したらユーザーを返します。
// 「メール未登録」と「パスワード不一致」は呼び出し側には区別させず、
// どちらも ErrInvalidCredentials を返します（ログ上では区別可能）。
func (s *UserService) AuthenticateUser(form models.LoginForm) (*models.User, error) {
	foundUser, err := s.userRepo.FindByEmail(form.Email)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			log.Printf("login failed: unknown email %s", form.Email)
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := repositories.VerifyPassword(foundUser.PasswordHash, form.Password); err != nil {
		log.Printf("login failed: wrong password for user %d", foundUser.ID)
		return nil, ErrInvalidCredentials
	}

	return foundUser, nil
}

// LoadUserByID はセッションに保存されたIDからユーザーを復元します。
// 見つからない場合は nil を返します（エラー扱いにしない）。
func (s *UserService) LoadUserByID(id int) (*models.User, error) {
	u, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return u, nil
}
