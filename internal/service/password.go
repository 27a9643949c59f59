package service

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"html"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"linecut/internal/brdoc"
	"linecut/internal/mail"
)

const resetTokenTTL = time.Hour

type PasswordService struct {
	db       *sql.DB
	mailer   mail.Mailer
	resetURL string
	now      func() time.Time
}

func NewPasswordService(db *sql.DB, mailer mail.Mailer, resetURL string) *PasswordService {
	return &PasswordService{db: db, mailer: mailer, resetURL: resetURL, now: time.Now}
}

func hashResetToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// Forgot mails a reset link when email belongs to an account. Unknown
// addresses are not an error.
func (s *PasswordService) Forgot(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return invalid("Digite seu email")
	}
	if !brdoc.ValidEmail(email) {
		return invalid("Email inválido")
	}

	var userID, name string
	err := s.db.QueryRowContext(ctx, `SELECT id, full_name FROM users WHERE email = $1`, email).Scan(&userID, &name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			slog.Info("password reset requested for unknown email")
			return nil
		}
		return fmt.Errorf("get user: %w", err)
	}

	token, err := GenerateToken()
	if err != nil {
		return fmt.Errorf("generate token: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO password_resets (token_hash, user_id, expires_at) VALUES ($1, $2, $3)`,
		hashResetToken(token), userID, s.now().Add(resetTokenTTL),
	)
	if err != nil {
		return fmt.Errorf("store reset token: %w", err)
	}

	link := s.resetURL + "?token=" + url.QueryEscape(token)
	body := fmt.Sprintf(
		`<p>Olá, %s!</p><p>Para redefinir sua senha, acesse <a href="%s">este link</a>. Ele expira em 1 hora.</p>`,
		html.EscapeString(name), html.EscapeString(link),
	)
	if err := s.mailer.Send(ctx, email, "Redefinição de senha", body); err != nil {
		slog.Error("failed to send reset mail", "user_id", userID, "error", err)
	}
	return nil
}

type ResetInput struct {
	Token           string `json:"token" validate:"required"`
	Password        string `json:"password" validate:"required,min=6"`
	ConfirmPassword string `json:"confirm_password" validate:"eqfield=Password"`
}

var resetMessages = map[string]string{
	"Token":           "Link de redefinição inválido",
	"Password":        "Senha deve ter pelo menos 6 caracteres",
	"ConfirmPassword": "Senhas não coincidem",
}

// Reset sets a new password using a token issued by Forgot. Tokens work once.
func (s *PasswordService) Reset(ctx context.Context, in ResetInput) (err error) {
	if err := checkStruct(&in, resetMessages, "Dados inválidos"); err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var userID string
	err = tx.QueryRowContext(ctx, `
		UPDATE password_resets SET used_at = $1
		WHERE token_hash = $2 AND used_at IS NULL AND expires_at > $1
		RETURNING user_id
	`, s.now(), hashResetToken(in.Token)).Scan(&userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrResetTokenInvalid
		}
		return fmt.Errorf("consume reset token: %w", err)
	}

	if _, err = tx.ExecContext(ctx, `UPDATE users SET password_hash = $1 WHERE id = $2`, hash, userID); err != nil {
		return fmt.Errorf("update password: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	slog.Info("password reset", "user_id", userID)
	return nil
}
