package repository

import (
	"context"
	"sync"

	"moviecatalog/proj/internal/storage"
	"moviecatalog/proj/internal/storage/postgres"

	"gorm.io/gorm"
)

type change func(tx *gorm.DB) (int64, error)

// UnitOfWork groups the movie and user repositories over one gorm session.
// Relationship changes are queued until SaveChanges.
type UnitOfWork struct {
	db     *gorm.DB
	movies *MovieRepository
	users  *UserRepository

	mu      sync.Mutex
	pending []change
}

func NewUnitOfWork(db *gorm.DB) *UnitOfWork {
	uow := &UnitOfWork{db: db}
	uow.movies = NewMovieRepository(db)
	uow.users = NewUserRepository(db, uow)
	return uow
}

func (u *UnitOfWork) Movies() storage.MovieRepository {
	return u.movies
}

func (u *UnitOfWork) Users() storage.UserRepository {
	return u.users
}

func (u *UnitOfWork) track(c change) {
	u.mu.Lock()
	u.pending = append(u.pending, c)
	u.mu.Unlock()
}

func (u *UnitOfWork) SaveChanges(ctx context.Context) (bool, error) {
	u.mu.Lock()
	pending := u.pending
	u.pending = nil
	u.mu.Unlock()
	if len(pending) == 0 {
		return false, nil
	}
	var affected int64
	err := u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, c := range pending {
			n, err := c(tx)
			if err != nil {
				return err
			}
			affected += n
		}
		return nil
	})
	if err != nil {
		return false, postgres.TranslateError(err)
	}
	return affected > 0, nil
}

// Store hands out a fresh UnitOfWork per use case.
type Store struct {
	db *gorm.DB
}

func New(s *postgres.Storage) *Store {
	return &Store{db: s.DB}
}

func (s *Store) NewUnitOfWork() storage.UnitOfWork {
	return NewUnitOfWork(s.db)
}
