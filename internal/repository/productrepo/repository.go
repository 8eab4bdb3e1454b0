package productrepo

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"furnishop/internal/domain"
	apperror "furnishop/internal/errors"
	"furnishop/internal/pkg/cache"
	"furnishop/internal/pkg/logger"
)

// catalogCacheKey guarda a lista completa do catálogo serializada em JSON.
const catalogCacheKey = "catalog:all"

// ProductRepository implementa domain.ProductRepository sobre PostgreSQL,
// com cache-aside opcional no Redis (Cache pode ser nil).
type ProductRepository struct {
	DB        *sql.DB
	Cache     cache.Client
	DBTimeout time.Duration
	CacheTTL  time.Duration
	logger    logger.Logger
}

// NewProductRepository cria o repositório de produtos.
func NewProductRepository(db *sql.DB, cacheClient cache.Client, dbTimeout, cacheTTL time.Duration, log logger.Logger) *ProductRepository {
	return &ProductRepository{
		DB:        db,
		Cache:     cacheClient,
		DBTimeout: dbTimeout,
		CacheTTL:  cacheTTL,
		logger:    log,
	}
}

const upsertProductSQL = `INSERT INTO products (product_id, name, description, price, image_ref, dimensions, material, color, category)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	ON CONFLICT (product_id) DO UPDATE SET
		name = EXCLUDED.name,
		description = EXCLUDED.description,
		price = EXCLUDED.price,
		image_ref = EXCLUDED.image_ref,
		dimensions = EXCLUDED.dimensions,
		material = EXCLUDED.material,
		color = EXCLUDED.color,
		category = EXCLUDED.category`

// UpsertAll grava (ou atualiza) todos os produtos numa transação e invalida o cache.
// Idempotente por product_id.
func (r *ProductRepository) UpsertAll(ctx context.Context, products []domain.Product) error {
	r.logger.Debug("Iniciando upsert do catálogo.", map[string]interface{}{"count": len(products)})

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	tx, err := r.DB.BeginTx(ctxTimeout, nil)
	if err != nil {
		return apperror.NewDBError("falha ao iniciar transação do catálogo", err)
	}
	defer tx.Rollback() // sem efeito após Commit

	for _, p := range products {
		_, err = tx.ExecContext(ctxTimeout, upsertProductSQL,
			p.ID,
			p.Name,
			p.Description,
			p.Price,
			p.ImageRef,
			p.Dimensions,
			p.Material,
			p.Color,
			p.Category,
		)
		if err != nil {
			r.logger.Error("Falha ao gravar produto.", err)
			return apperror.NewDBError("falha ao gravar produto "+p.ID, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return apperror.NewDBError("falha ao confirmar transação do catálogo", err)
	}

	if r.Cache != nil {
		if err := r.Cache.Delete(ctxTimeout, catalogCacheKey); err != nil {
			// Cache desatualizado expira pelo TTL; não é motivo para falhar.
			r.logger.Warn("Falha ao invalidar cache do catálogo.", map[string]interface{}{"error": err.Error()})
		}
	}

	r.logger.Info("Catálogo gravado.", map[string]interface{}{"count": len(products)})
	return nil
}

// FindAll retorna o catálogo completo usando a estratégia Cache-Aside.
func (r *ProductRepository) FindAll(ctx context.Context) ([]domain.Product, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	// 1. Tentar obter do Cache (Redis)
	if r.Cache != nil {
		cached, err := r.Cache.Get(ctxTimeout, catalogCacheKey)
		switch {
		case err == nil:
			var products []domain.Product
			if json.Unmarshal([]byte(cached), &products) == nil {
				r.logger.Debug("Catálogo servido pelo cache.", map[string]interface{}{"count": len(products)})
				return products, nil
			}
			r.logger.Warn("Cache do catálogo corrompido; lendo do DB.", nil)
		case errors.Is(err, cache.ErrCacheMiss):
			// segue para o DB
		default:
			r.logger.Warn("Falha ao ler cache do catálogo.", map[string]interface{}{"error": err.Error()})
		}
	}

	// 2. Busca no Banco de Dados
	const query = `SELECT product_id, name, description, price, image_ref, dimensions, material, color, category
		FROM products
		ORDER BY product_id`

	rows, err := r.DB.QueryContext(ctxTimeout, query)
	if err != nil {
		r.logger.Error("Falha ao consultar catálogo.", err)
		return nil, apperror.NewDBError("falha ao consultar catálogo", err)
	}
	defer rows.Close()

	products := []domain.Product{}
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.ImageRef, &p.Dimensions, &p.Material, &p.Color, &p.Category); err != nil {
			return nil, apperror.NewDBError("falha ao ler produto", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewDBError("falha ao iterar catálogo", err)
	}

	// 3. Popular o cache para as próximas leituras
	if r.Cache != nil {
		if data, err := json.Marshal(products); err == nil {
			if err := r.Cache.Set(ctxTimeout, catalogCacheKey, data, r.CacheTTL); err != nil {
				r.logger.Warn("Falha ao gravar cache do catálogo.", map[string]interface{}{"error": err.Error()})
			}
		}
	}

	return products, nil
}
