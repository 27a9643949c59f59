package service

import (
	"context"
	"crypto/rand"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"linecut/internal/brdoc"
	"linecut/internal/database"
	"linecut/internal/model"
)

type AuthService struct {
	db *sql.DB
}

func NewAuthService(db *sql.DB) *AuthService {
	return &AuthService{db: db}
}

type SignUpInput struct {
	FullName        string `json:"full_name" validate:"required,min=2"`
	CPF             string `json:"cpf" validate:"required,cpf"`
	Phone           string `json:"phone" validate:"required,br_phone"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=6"`
	ConfirmPassword string `json:"confirm_password" validate:"eqfield=Password"`
}

var signUpMessages = map[string]string{
	"FullName":        "Nome deve ter pelo menos 2 caracteres",
	"CPF":             "CPF inválido",
	"Phone":           "Telefone inválido",
	"Email":           "Email inválido",
	"Password":        "Senha deve ter pelo menos 6 caracteres",
	"ConfirmPassword": "Senhas não coincidem",
}

func ValidateSignUp(in *SignUpInput) error {
	in.FullName = strings.TrimSpace(in.FullName)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if strings.TrimSpace(in.Password) == "" {
		in.Password = ""
	}
	return checkStruct(in, signUpMessages, "Dados inválidos")
}

func (s *AuthService) Register(ctx context.Context, in SignUpInput) (*model.User, error) {
	if err := ValidateSignUp(&in); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := model.User{
		FullName: in.FullName,
		CPF:      brdoc.CleanDigits(in.CPF),
		Phone:    brdoc.CleanDigits(in.Phone),
		Email:    in.Email,
	}

	query := `INSERT INTO users (full_name, cpf, phone, email, password_hash) VALUES ($1, $2, $3, $4, $5) RETURNING id, created_at`
	row := s.db.QueryRowContext(ctx, query, user.FullName, user.CPF, user.Phone, user.Email, hash)
	if err := row.Scan(&user.ID, &user.CreatedAt); err != nil {
		if database.IsUniqueViolation(err) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	user.PasswordHash = hash

	return &user, nil
}

func (s *AuthService) Authenticate(ctx context.Context, email, password string) (*model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || strings.TrimSpace(password) == "" {
		return nil, invalid("Email e senha são obrigatórios")
	}
	if !brdoc.ValidEmail(email) {
		return nil, invalid("Email inválido")
	}

	user, err := scanUser(s.db.QueryRowContext(ctx, selectUserSQL+` WHERE email = $1`, email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

func GenerateToken() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return fmt.Sprintf("%x", b), nil
}
