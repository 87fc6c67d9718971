package data

import (
	"context"
	_ "embed"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mediaorganizer/media-api/internal/database"
	"github.com/mediaorganizer/media-api/internal/validator"
	"golang.org/x/crypto/bcrypt"
)

//go:embed queries/users/create.sql
var createUserSQL string

//go:embed queries/users/get.sql
var getUserSQL string

//go:embed queries/users/get-by-email.sql
var getUserByEmailSQL string

type (

	// User represents an individual user. The password hash never leaves
	// the struct through JSON.
	User struct {
		ID        int64     `json:"id"`
		CreatedAt time.Time `json:"created_at"`
		Email     string    `json:"email"`
		FirstName string    `json:"firstName"`
		LastName  string    `json:"lastName"`
		Password  password  `json:"-"`
	}

	// NewUser contains information needed to create a new user.
	NewUser struct {
		Email     string `json:"email"`
		Password  string `json:"password"`
		FirstName string `json:"firstName"`
		LastName  string `json:"lastName"`
	}

	// UserRepository manages the set of APIs for user database access.
	UserRepository struct {
		DB database.Pool
	}

	// password contains the plaintext and hashed versions of the password for a user.
	// The plaintext field is a *pointer* to a string, so that we're able to distinguish between
	// a plaintext password not being present in the struct at all, versus a plaintext password
	// which is the empty string "".
	password struct {
		plaintext *string
		hash      []byte
	}
)

func (u User) Validate(v *validator.Validator) {
	ValidateEmail(v, u.Email)

	v.Check(u.FirstName != "", "firstName", "must be provided")
	v.Check(len(u.FirstName) <= 500, "firstName", "must not be more than 500 bytes long")
	v.Check(u.LastName != "", "lastName", "must be provided")
	v.Check(len(u.LastName) <= 500, "lastName", "must not be more than 500 bytes long")

	if u.Password.plaintext != nil {
		ValidatePasswordPlaintext(v, *u.Password.plaintext)
	}

	// If the password hash is ever nil, this will be due to a logic error in our
	// codebase (probably because we forgot to set a password for the user). It's a
	// useful sanity check to include here, but it's not a problem with the data
	// provided by the client. So rather than adding an error to the validation map we
	// raise a panic instead.
	if u.Password.hash == nil {
		panic("missing password hash for user")
	}
}

func (u *User) FromNewUser(input NewUser) {
	u.Email = input.Email
	u.FirstName = input.FirstName
	u.LastName = input.LastName
}

// Create inserts a new user. Email uniqueness is enforced by the database
// constraint, so a concurrent duplicate signup surfaces as one atomic
// ErrDuplicateEmail instead of racing a separate existence check.
func (r UserRepository) Create(user *User) error {
	args := []any{user.Email, user.Password.hash, user.FirstName, user.LastName}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	err := r.DB.QueryRow(ctx, createUserSQL, args...).Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		var pgError *pgconn.PgError
		if errors.As(err, &pgError) {
			if pgError.Code == database.UniqueViolation {
				return ErrDuplicateEmail
			}
		}
		return err
	}

	return nil
}

// Get fetches a user by id.
func (r UserRepository) Get(id int64) (*User, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	return r.scanUser(r.DB.QueryRow(ctx, getUserSQL, id))
}

// GetByEmail fetches a user by email. Because we have a UNIQUE constraint on
// the email column, this SQL query will only return one record or none at all.
func (r UserRepository) GetByEmail(email string) (*User, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	return r.scanUser(r.DB.QueryRow(ctx, getUserByEmailSQL, email))
}

func (r UserRepository) scanUser(row pgx.Row) (*User, error) {
	var user User

	err := row.Scan(
		&user.ID,
		&user.CreatedAt,
		&user.Email,
		&user.Password.hash,
		&user.FirstName,
		&user.LastName,
	)

	if err != nil {
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}

	return &user, nil
}

// Set calculates the bcrypt hash of a plaintext password, and stores both
// the hash and the plaintext versions in the struct.
func (p *password) Set(plainTextPassword string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(plainTextPassword), 12)
	if err != nil {
		return err
	}

	p.plaintext = &plainTextPassword
	p.hash = hash

	return nil
}

// Matches checks whether the provided plaintext password matches the
// hashed password stored in the struct.
func (p *password) Matches(plainTextPassword string) (bool, error) {
	err := bcrypt.CompareHashAndPassword(p.hash, []byte(plainTextPassword))
	if err != nil {
		switch {
		case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
			return false, nil
		default:
			return false, err
		}
	}

	return true, nil
}

func ValidateEmail(v *validator.Validator, email string) {
	v.Check(email != "", "email", "must be provided")
	v.Check(validator.Matches(email, validator.EmailRX), "email", "must be a valid email address")
}

func ValidatePasswordPlaintext(v *validator.Validator, password string) {
	v.Check(password != "", "password", "must be provided")
	v.Check(len(password) >= 8, "password", "must be at least 8 bytes long")
	v.Check(len(password) <= 72, "password", "must not be more than 72 bytes long")
}
