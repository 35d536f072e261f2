package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStore keeps each collection in the table of the same name.
type GormStore struct {
	db *gorm.DB
	// updatedAt maps a table to its auto-update timestamp column.
	updatedAt map[string]string
}

// NewGormStore registers models so that map updates on their tables still
// refresh autoUpdateTime columns, which gorm only does for model updates.
func NewGormStore(db *gorm.DB, models ...any) *GormStore {
	s := &GormStore{db: db, updatedAt: map[string]string{}}
	for _, m := range models {
		stmt := &gorm.Statement{DB: db}
		if err := stmt.Parse(m); err != nil {
			log.Warn().Err(err).Msgf("Cannot parse %T, its update timestamps will not be refreshed", m)
			continue
		}
		for _, f := range stmt.Schema.Fields {
			if f.AutoUpdateTime > 0 {
				s.updatedAt[stmt.Schema.Table] = f.DBName
				break
			}
		}
	}
	return s
}

func (s *GormStore) Find(ctx context.Context, collection string, q Query, dest any) error {
	tx := applyQuery(s.db.WithContext(ctx).Table(collection), q)
	if err := tx.Find(dest).Error; err != nil {
		return newError(classifyGorm(err), "find", collection, err)
	}
	return nil
}

func (s *GormStore) Create(ctx context.Context, collection string, item any) error {
	if err := s.db.WithContext(ctx).Table(collection).Create(item).Error; err != nil {
		return newError(classifyGorm(err), "create", collection, err)
	}
	return nil
}

func (s *GormStore) Update(ctx context.Context, collection string, id uint, fields Fields) error {
	res := s.db.WithContext(ctx).Table(collection).Where("id = ?", id).Updates(map[string]any(s.touch(collection, fields)))
	if res.Error != nil {
		return newError(classifyGorm(res.Error), "update", collection, res.Error)
	}
	if res.RowsAffected == 0 {
		return newError(KindNotFound, "update", collection, gorm.ErrRecordNotFound)
	}
	return nil
}

func (s *GormStore) touch(collection string, fields Fields) Fields {
	col, ok := s.updatedAt[collection]
	if !ok {
		return fields
	}
	out := make(Fields, len(fields)+1)
	for k, v := range fields {
		out[k] = v
	}
	out[col] = s.db.NowFunc()
	return out
}

func applyQuery(tx *gorm.DB, q Query) *gorm.DB {
	for _, c := range q.Filters {
		col := clause.Column{Name: c.Field}
		if c.Op == OpNull {
			tx = tx.Where(clause.Eq{Column: col, Value: nil})
			continue
		}
		tx = tx.Where(clause.Eq{Column: col, Value: c.Value})
	}
	for _, s := range q.Sort {
		field, desc := parseSort(s)
		tx = tx.Order(clause.OrderByColumn{Column: clause.Column{Name: field}, Desc: desc})
	}
	if q.Limit > 0 {
		tx = tx.Limit(q.Limit)
	}
	if len(q.Fields) > 0 {
		tx = tx.Select(q.Fields)
	}
	for _, rel := range q.Expand {
		tx = tx.Preload(rel)
	}
	return tx
}

func classifyGorm(err error) Kind {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return KindNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "28000", "28P01", "42501": // invalid authorization, invalid password, insufficient privilege
			return KindUnauthorized
		case "23505":
			return KindConflict
		}
	}
	return KindUnavailable
}
