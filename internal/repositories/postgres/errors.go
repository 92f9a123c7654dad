package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/recrutai/platform/internal/utils"
	"gorm.io/gorm"
)

const pgUniqueViolation = "23505"

// translate maps driver errors onto the repository sentinels.
func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return utils.ErrNotFound
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return &utils.DuplicateError{}
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return &utils.DuplicateError{Constraint: pgErr.ConstraintName}
	}
	return err
}
