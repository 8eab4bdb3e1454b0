package cartrepo

import (
	"context"
	"database/sql"
	"time"

	"furnishop/internal/domain"
	apperror "furnishop/internal/errors"
	"furnishop/internal/pkg/logger"
)

// CartRepository implementa domain.CartRepository. Cada usuário tem um único carrinho
// gravado como linhas (uid, product_id, quantity).
type CartRepository struct {
	DB        *sql.DB
	DBTimeout time.Duration
	logger    logger.Logger
}

func NewCartRepository(db *sql.DB, dbTimeout time.Duration, log logger.Logger) *CartRepository {
	return &CartRepository{DB: db, DBTimeout: dbTimeout, logger: log}
}

// GetCart retorna o carrinho do usuário com os dados atuais de cada produto.
// Linhas cujo produto saiu do catálogo são descartadas pelo JOIN.
func (r *CartRepository) GetCart(ctx context.Context, uid string) ([]domain.CartLine, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	const query = `SELECT p.product_id, p.name, p.description, p.price, p.image_ref, p.dimensions, p.material, p.color, p.category, c.quantity
		FROM cart_items c
		JOIN products p ON p.product_id = c.product_id
		WHERE c.uid = $1
		ORDER BY c.position`

	rows, err := r.DB.QueryContext(ctxTimeout, query, uid)
	if err != nil {
		r.logger.Error("Falha ao consultar carrinho.", err)
		return nil, apperror.NewDBError("falha ao consultar carrinho", err)
	}
	defer rows.Close()

	lines := []domain.CartLine{}
	for rows.Next() {
		var line domain.CartLine
		p := &line.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.ImageRef, &p.Dimensions, &p.Material, &p.Color, &p.Category, &line.Quantity); err != nil {
			return nil, apperror.NewDBError("falha ao ler item do carrinho", err)
		}
		lines = append(lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewDBError("falha ao iterar carrinho", err)
	}

	r.logger.Debug("Carrinho carregado.", map[string]interface{}{"uid": uid, "lines": len(lines)})
	return lines, nil
}

// ReplaceCart substitui o carrinho inteiro do usuário numa transação.
// A posição preserva a ordem de inserção das linhas.
func (r *CartRepository) ReplaceCart(ctx context.Context, uid string, lines []domain.CartLine) error {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	tx, err := r.DB.BeginTx(ctxTimeout, nil)
	if err != nil {
		return apperror.NewDBError("falha ao iniciar transação do carrinho", err)
	}
	defer tx.Rollback()

	// 1. Remove o conteúdo anterior
	if _, err := tx.ExecContext(ctxTimeout, `DELETE FROM cart_items WHERE uid = $1`, uid); err != nil {
		r.logger.Error("Falha ao limpar carrinho.", err)
		return apperror.NewDBError("falha ao limpar carrinho", err)
	}

	// 2. Insere as linhas atuais
	for i, line := range lines {
		_, err := tx.ExecContext(ctxTimeout,
			`INSERT INTO cart_items (uid, product_id, quantity, position) VALUES ($1, $2, $3, $4)`,
			uid, line.Product.ID, line.Quantity, i,
		)
		if err != nil {
			r.logger.Error("Falha ao gravar item do carrinho.", err)
			return apperror.NewDBError("falha ao gravar item do carrinho", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return apperror.NewDBError("falha ao confirmar carrinho", err)
	}

	r.logger.Debug("Carrinho gravado.", map[string]interface{}{"uid": uid, "lines": len(lines)})
	return nil
}
