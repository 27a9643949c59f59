package service

import (
	"context"
	"database/sql"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"linecut/internal/brdoc"
	"linecut/internal/database"
	"linecut/internal/imagecache"
	"linecut/internal/model"
)

const (
	ImageURLPrefix   = "/api/images/"
	maxProfileImage  = 2 << 20
	profileImageDir  = "profile_images/"
	profileImagePath = profileImageDir + "%s.jpg"
)

const selectUserSQL = `SELECT id, full_name, cpf, phone, email, password_hash, profile_image_path, created_at FROM users`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*model.User, error) {
	var u model.User
	var imagePath string
	if err := row.Scan(&u.ID, &u.FullName, &u.CPF, &u.Phone, &u.Email, &u.PasswordHash, &imagePath, &u.CreatedAt); err != nil {
		return nil, err
	}
	if imagePath != "" {
		u.ProfileImageURL = ImageURLPrefix + imagePath
	}
	return &u, nil
}

type UserService struct {
	db     *sql.DB
	images *imagecache.Cache
}

func NewUserService(db *sql.DB, images *imagecache.Cache) *UserService {
	return &UserService{db: db, images: images}
}

func (s *UserService) Get(ctx context.Context, userID string) (*model.User, error) {
	user, err := scanUser(s.db.QueryRowContext(ctx, selectUserSQL+` WHERE id = $1`, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || database.IsInvalidInput(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

type ProfileInput struct {
	FullName     string `json:"full_name" validate:"required,min=2"`
	Phone        string `json:"phone" validate:"required,br_phone"`
	Email        string `json:"email" validate:"required,email"`
	ProfileImage string `json:"profile_image,omitempty"` // base64, optional
}

var profileMessages = map[string]string{
	"FullName": "Nome deve ter pelo menos 2 caracteres",
	"Phone":    "Telefone inválido",
	"Email":    "Email inválido",
}

func (s *UserService) UpdateProfile(ctx context.Context, userID string, in ProfileInput) (*model.User, error) {
	in.FullName = strings.TrimSpace(in.FullName)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if err := checkStruct(&in, profileMessages, "Dados inválidos"); err != nil {
		return nil, err
	}

	var image []byte
	if in.ProfileImage != "" {
		raw := in.ProfileImage
		if i := strings.Index(raw, "base64,"); i >= 0 {
			raw = raw[i+len("base64,"):]
		}
		decoded, err := base64.StdEncoding.DecodeString(raw)
		if err != nil || len(decoded) == 0 || len(decoded) > maxProfileImage {
			return nil, ErrInvalidImage
		}
		image = decoded
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`UPDATE users SET full_name = $1, phone = $2, email = $3 WHERE id = $4`,
		in.FullName, brdoc.CleanDigits(in.Phone), in.Email, userID,
	)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("update user: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, ErrUserNotFound
	}

	var path string
	if image != nil {
		path = fmt.Sprintf(profileImagePath, userID)
		_, err = tx.ExecContext(ctx, `
			INSERT INTO images (path, user_id, content_type, data, updated_at)
			VALUES ($1, $2, $3, $4, NOW())
			ON CONFLICT (path) DO UPDATE SET content_type = EXCLUDED.content_type, data = EXCLUDED.data, updated_at = NOW()
		`, path, userID, http.DetectContentType(image), image)
		if err != nil {
			return nil, fmt.Errorf("store image: %w", err)
		}
		if _, err = tx.ExecContext(ctx, `UPDATE users SET profile_image_path = $1 WHERE id = $2`, path, userID); err != nil {
			return nil, fmt.Errorf("update image path: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}

	if path != "" {
		s.images.Remove(path)
	}

	return s.Get(ctx, userID)
}

// Close deletes the account after checking the password. Everything owned by
// the user goes with it.
func (s *UserService) Close(ctx context.Context, userID, password string) error {
	user, err := s.Get(ctx, userID)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)); err != nil {
		return ErrInvalidCredentials
	}

	if _, err := s.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, userID); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}

	if user.ProfileImageURL != "" {
		s.images.Remove(strings.TrimPrefix(user.ProfileImageURL, ImageURLPrefix))
	}
	slog.Info("account closed", "user_id", userID)
	return nil
}

type ImageService struct {
	db    *sql.DB
	cache *imagecache.Cache
}

func NewImageService(db *sql.DB, cache *imagecache.Cache) *ImageService {
	return &ImageService{db: db, cache: cache}
}

// Get serves a stored image by its full storage path. Anything outside the
// profile image directory is reported as not found.
func (s *ImageService) Get(ctx context.Context, path string) (imagecache.Image, error) {
	path = strings.ReplaceAll(path, "%2F", "/")
	name, ok := strings.CutPrefix(path, profileImageDir)
	if !ok || name == "" || strings.ContainsAny(name, "/\\") || strings.HasPrefix(name, ".") {
		return imagecache.Image{}, ErrImageNotFound
	}

	if img, ok := s.cache.FindByPath(path); ok {
		return img, nil
	}

	var img imagecache.Image
	err := s.db.QueryRowContext(ctx, `SELECT content_type, data FROM images WHERE path = $1`, path).
		Scan(&img.ContentType, &img.Data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return imagecache.Image{}, ErrImageNotFound
		}
		return imagecache.Image{}, fmt.Errorf("get image: %w", err)
	}

	s.cache.Put(path, img)
	return img, nil
}
