package repository

import (
	"context"
	"errors"
	"strings"

	"moviecatalog/proj/internal/domain/filters"
	"moviecatalog/proj/internal/storage"
	"moviecatalog/proj/internal/storage/postgres"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Scope = func(*gorm.DB) *gorm.DB

// GenericRepository implements storage.Repository for any gorm model with key K.
// Associations listed in preloads are loaded by every read.
type GenericRepository[T any, K comparable] struct {
	db       *gorm.DB
	preloads []string
}

func NewGenericRepository[T any, K comparable](db *gorm.DB, preloads ...string) *GenericRepository[T, K] {
	return &GenericRepository[T, K]{db: db, preloads: preloads}
}

func (r *GenericRepository[T, K]) query(ctx context.Context) *gorm.DB {
	q := r.db.WithContext(ctx).Model(new(T))
	for _, p := range r.preloads {
		q = q.Preload(p)
	}
	return q
}

func (r *GenericRepository[T, K]) Find(ctx context.Context, key K) (*T, error) {
	var entity T
	err := r.query(ctx).First(&entity, key).Error
	return first(&entity, err)
}

// FindAll runs the base query composed with scopes.
func (r *GenericRepository[T, K]) FindAll(ctx context.Context, scopes ...Scope) ([]T, error) {
	entities := make([]T, 0)
	if err := r.query(ctx).Scopes(scopes...).Find(&entities).Error; err != nil {
		return nil, postgres.TranslateError(err)
	}
	return entities, nil
}

func (r *GenericRepository[T, K]) List(ctx context.Context, f filters.Filters) ([]T, error) {
	return r.FindAll(ctx, Paginate(f))
}

func (r *GenericRepository[T, K]) Add(ctx context.Context, entity *T) error {
	err := r.db.WithContext(ctx).Omit(clause.Associations).Create(entity).Error
	return postgres.TranslateError(err)
}

// Update writes every scalar column; association collections are left as stored.
func (r *GenericRepository[T, K]) Update(ctx context.Context, entity *T) error {
	res := r.db.WithContext(ctx).Model(entity).Select("*").Omit(clause.Associations).Updates(entity)
	if res.Error != nil {
		return postgres.TranslateError(res.Error)
	}
	if res.RowsAffected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// Delete removes the entity together with its many2many join rows.
func (r *GenericRepository[T, K]) Delete(ctx context.Context, entity *T) error {
	res := r.db.WithContext(ctx).Select(clause.Associations).Delete(entity)
	if res.Error != nil {
		return postgres.TranslateError(res.Error)
	}
	if res.RowsAffected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// Paginate orders by the safelisted sort column (id breaks ties) and applies
// limit/offset when a page size is set.
func Paginate(f filters.Filters) Scope {
	return func(db *gorm.DB) *gorm.DB {
		column := f.SortColumn()
		db = db.Order(clause.OrderByColumn{
			Column: clause.Column{Table: clause.CurrentTable, Name: column},
			Desc:   f.SortDirection() == filters.DescSort,
		})
		if column != "id" {
			db = db.Order(clause.OrderByColumn{Column: clause.Column{Table: clause.CurrentTable, Name: "id"}})
		}
		if f.Limit() > 0 {
			db = db.Limit(f.Limit()).Offset(f.Offset())
		}
		return db
	}
}

// ContainsFold matches rows whose column contains s, ignoring case. The escape
// character is named explicitly since sqlite has no default one.
func ContainsFold(column, s string) Scope {
	pattern := "%" + escapeLike(strings.ToLower(s)) + "%"
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("LOWER("+column+`) LIKE ? ESCAPE '\'`, pattern)
	}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

func first[T any](entity *T, err error) (*T, error) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, postgres.TranslateError(err)
	}
	return entity, nil
}
