package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"linecut/internal/imagecache"
)

func TestImageService_Get(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	cache := imagecache.New()
	svc := NewImageService(db, cache)

	mock.ExpectQuery(`SELECT content_type, data FROM images`).WithArgs("profile_images/u-1.jpg").
		WillReturnRows(sqlmock.NewRows([]string{"content_type", "data"}).AddRow("image/jpeg", []byte{1, 2, 3}))

	img, err := svc.Get(context.Background(), "profile_images/u-1.jpg")
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", img.ContentType)
	assert.True(t, cache.Contains("profile_images/u-1.jpg"))

	// Second read is served from the cache.
	img, err = svc.Get(context.Background(), "profile_images/u-1.jpg")
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3}, img.Data)
	assert.NoError(t, mock.ExpectationsWereMet())

	mock.ExpectQuery(`SELECT content_type, data FROM images`).WillReturnError(sql.ErrNoRows)
	_, err = svc.Get(context.Background(), "profile_images/u-2.jpg")
	assert.ErrorIs(t, err, ErrImageNotFound)
}

func TestImageService_GetRequiresFullPath(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	cache := imagecache.New()
	cache.Put("profile_images/9f1c-maria.jpg", imagecache.Image{ContentType: "image/jpeg", Data: []byte("maria")})
	svc := NewImageService(db, cache)

	for _, path := range []string{"", "j", "profile_images/", "profile_images", "profile_images/../users", "other/9f1c-maria.jpg"} {
		_, err := svc.Get(context.Background(), path)
		assert.ErrorIs(t, err, ErrImageNotFound, "path %q", path)
	}

	// A well-formed but partial name misses the cache and the database.
	mock.ExpectQuery(`SELECT content_type, data FROM images`).WithArgs("profile_images/9f1c").WillReturnError(sql.ErrNoRows)
	_, err = svc.Get(context.Background(), "profile_images/9f1c")
	assert.ErrorIs(t, err, ErrImageNotFound)

	img, err := svc.Get(context.Background(), "profile_images%2F9f1c-maria.jpg")
	require.NoError(t, err)
	assert.Equal(t, []byte("maria"), img.Data)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateProfile_Validation(t *testing.T) {
	svc := NewUserService(nil, imagecache.New())

	_, err := svc.UpdateProfile(context.Background(), "u-1", ProfileInput{FullName: "Maria", Phone: "123", Email: "maria@example.com"})
	assert.Equal(t, "Telefone inválido", validationMessage(t, err))

	_, err = svc.UpdateProfile(context.Background(), "u-1", ProfileInput{
		FullName: "Maria", Phone: "11987654321", Email: "maria@example.com", ProfileImage: "%%%not-base64",
	})
	assert.ErrorIs(t, err, ErrInvalidImage)
}

func TestUpdateProfile_ReplacesImage(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	cache := imagecache.New()
	cache.Put("profile_images/u-1.jpg", imagecache.Image{ContentType: "image/jpeg", Data: []byte("old")})
	svc := NewUserService(db, cache)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE users SET full_name`).WithArgs("Maria", "11987654321", "maria@example.com", "u-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO images`).WithArgs("profile_images/u-1.jpg", "u-1", sqlmock.AnyArg(), []byte("new image")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE users SET profile_image_path`).WithArgs("profile_images/u-1.jpg", "u-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
	mock.ExpectQuery(`FROM users WHERE id`).WithArgs("u-1").WillReturnRows(
		sqlmock.NewRows([]string{"id", "full_name", "cpf", "phone", "email", "password_hash", "profile_image_path", "created_at"}).
			AddRow("u-1", "Maria", "52998224725", "11987654321", "maria@example.com", []byte("h"), "profile_images/u-1.jpg", time.Now()))

	user, err := svc.UpdateProfile(context.Background(), "u-1", ProfileInput{
		FullName:     "Maria",
		Phone:        "(11) 98765-4321",
		Email:        "Maria@example.com",
		ProfileImage: "data:image/jpeg;base64,bmV3IGltYWdl",
	})
	require.NoError(t, err)
	assert.Equal(t, "/api/images/profile_images/u-1.jpg", user.ProfileImageURL)
	assert.False(t, cache.Contains("profile_images/u-1.jpg"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCloseAccount(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("secret1"), bcrypt.MinCost)
	require.NoError(t, err)
	rows := func() *sqlmock.Rows {
		return sqlmock.NewRows([]string{"id", "full_name", "cpf", "phone", "email", "password_hash", "profile_image_path", "created_at"}).
			AddRow("u-1", "Maria", "52998224725", "11987654321", "maria@example.com", hash, "profile_images/u-1.jpg", time.Now())
	}

	t.Run("wrong password", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		mock.ExpectQuery(`FROM users WHERE id`).WillReturnRows(rows())

		err = NewUserService(db, imagecache.New()).Close(context.Background(), "u-1", "nope")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("ok", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		mock.ExpectQuery(`FROM users WHERE id`).WillReturnRows(rows())
		mock.ExpectExec(`DELETE FROM users`).WithArgs("u-1").WillReturnResult(sqlmock.NewResult(0, 1))

		cache := imagecache.New()
		cache.Put("profile_images/u-1.jpg", imagecache.Image{Data: []byte("x")})
		require.NoError(t, NewUserService(db, cache).Close(context.Background(), "u-1", "secret1"))
		assert.Equal(t, 0, cache.Len())
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
