package favoriterepo

import (
	"context"
	"database/sql"
	"time"

	apperror "furnishop/internal/errors"
	"furnishop/internal/pkg/logger"
)

// FavoriteRepository implementa domain.FavoriteRepository.
type FavoriteRepository struct {
	DB        *sql.DB
	DBTimeout time.Duration
	logger    logger.Logger
}

func NewFavoriteRepository(db *sql.DB, dbTimeout time.Duration, log logger.Logger) *FavoriteRepository {
	return &FavoriteRepository{DB: db, DBTimeout: dbTimeout, logger: log}
}

// GetFavorites retorna os IDs favoritos do usuário em ordem alfabética.
func (r *FavoriteRepository) GetFavorites(ctx context.Context, uid string) ([]string, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	rows, err := r.DB.QueryContext(ctxTimeout, `SELECT product_id FROM favorites WHERE uid = $1 ORDER BY product_id`, uid)
	if err != nil {
		r.logger.Error("Falha ao consultar favoritos.", err)
		return nil, apperror.NewDBError("falha ao consultar favoritos", err)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, apperror.NewDBError("falha ao ler favorito", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewDBError("falha ao iterar favoritos", err)
	}
	return ids, nil
}

// ReplaceFavorites substitui o conjunto de favoritos do usuário numa transação.
func (r *FavoriteRepository) ReplaceFavorites(ctx context.Context, uid string, ids []string) error {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	tx, err := r.DB.BeginTx(ctxTimeout, nil)
	if err != nil {
		return apperror.NewDBError("falha ao iniciar transação de favoritos", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctxTimeout, `DELETE FROM favorites WHERE uid = $1`, uid); err != nil {
		r.logger.Error("Falha ao limpar favoritos.", err)
		return apperror.NewDBError("falha ao limpar favoritos", err)
	}
	for _, id := range ids {
		if _, err := tx.ExecContext(ctxTimeout, `INSERT INTO favorites (uid, product_id) VALUES ($1, $2)`, uid, id); err != nil {
			r.logger.Error("Falha ao gravar favorito.", err)
			return apperror.NewDBError("falha ao gravar favorito", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return apperror.NewDBError("falha ao confirmar favoritos", err)
	}
	return nil
}
