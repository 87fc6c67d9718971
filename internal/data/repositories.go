package data

import (
	"errors"

	"github.com/mediaorganizer/media-api/internal/database"
)

var (
	ErrRecordNotFound = errors.New("record not found")
	ErrDuplicateEmail = errors.New("duplicate email")
)

// Repositories will represent a convenient single 'container' which
// can hold and represent the set of APIs for database access.
type Repositories struct {
	Catalog CatalogRepository
	Users   UserRepository
}

func NewRepositories(db database.Pool) Repositories {
	return Repositories{
		Catalog: CatalogRepository{DB: db},
		Users:   UserRepository{DB: db},
	}
}
