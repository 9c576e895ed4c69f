package postgres

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/warung-pos/internal/domain"
)

// storeError clasifica un error de PostgreSQL: los datos inválidos (clase 22, ej. jsonb
// mal formado) son domain.ErrValidation; el resto se considera falta de conectividad.
func storeError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrValidation) || errors.Is(err, domain.ErrConnectivity) {
		return err
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && len(pgErr.Code) >= 2 && pgErr.Code[:2] == "22" {
		return fmt.Errorf("%w: postgres %s: %s", domain.ErrValidation, pgErr.Code, pgErr.Message)
	}
	return fmt.Errorf("%w: postgres: %v", domain.ErrConnectivity, err)
}
