package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	// Nossos pacotes de infraestrutura e utilitários
	"furnishop/config"
	"furnishop/internal/catalog"
	"furnishop/internal/domain"
	"furnishop/internal/pkg/cache"
	"furnishop/internal/pkg/database"
	"furnishop/internal/pkg/logger"
	"furnishop/internal/pkg/money"
	"furnishop/internal/pkg/token"
	"furnishop/internal/pkg/writebehind"

	// Camadas para Injeção de Dependências
	"furnishop/internal/repository/cartrepo"
	"furnishop/internal/repository/customerrepo"
	"furnishop/internal/repository/favoriterepo"
	"furnishop/internal/repository/orderrepo"
	"furnishop/internal/repository/productrepo"
	"furnishop/internal/service/catalogservice"
	"furnishop/internal/service/sessionservice"
	"furnishop/internal/service/userservice"
)

const usage = `uso: furnishop <comando> [argumentos] [\; <comando> [argumentos] ...]

Cada execução começa uma sessão nova em memória: só o perfil, o carrinho, os favoritos
e os pedidos sobrevivem entre execuções. Encadeie com ";" as intenções que dependem
do estado da sessão, por exemplo: furnishop guest \; add chair 2 \; promo SALE20 \; address Rua A \; checkout

comandos:
  signup <email> <senha>            signin <email> <senha>
  guest                             signout
  reset-password <email> <senha>    change-password <atual> <nova>
  products [-q texto] [-category c] [-band LOW|MID|HIGH] [-min n] [-max n] [-fav] [-sort PRICE_ASC|PRICE_DESC]
  add <id> [qtd]    qty <id> <delta>    remove <id>    clear    fav <id>
  promo <código>    checkout            orders         show
  address <texto>   phone <texto>       payment <m>    delivery <m>    name <nome>
  profile <nome> <endereço> <telefone>  select-address <id>
  customers         watch
`

func main() {
	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	flag.Parse()
	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	// 0. CARREGAR VARIÁVEIS DE AMBIENTE (.env)
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️ Aviso: Arquivo .env não encontrado ou erro de leitura. Carregando configs apenas do ambiente do sistema.")
	}

	os.Exit(run(flag.Args(), os.Stdout))
}

func run(args []string, stdout io.Writer) int {
	// 1. Configuração e Inicialização
	cfg := config.LoadConfig()
	log := logger.NewLogger(cfg.LogLevel)
	log.Debug("Configurações carregadas.", nil)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 2. Conexão com Recursos de Infraestrutura

	// A. Banco de Dados (PostgreSQL)
	db, err := database.NewPostgresDB(ctx, cfg.DatabaseURL, log)
	if err != nil {
		log.Error("Falha ao conectar ao banco de dados.", err)
		return 1
	}
	defer db.Close()

	// B. Cache (Redis), opcional
	var cacheClient cache.Client
	if cfg.RedisAddr != "" {
		redisClient, err := cache.NewRedisClient(ctx, cfg.RedisAddr)
		if err != nil {
			log.Warn("Redis indisponível; catálogo lido direto do DB.", map[string]interface{}{"error": err.Error()})
		} else {
			defer redisClient.Close()
			cacheClient = redisClient
		}
	}

	// 3. INJEÇÃO DE DEPENDÊNCIAS
	// Ordem: Repository -> Service

	// A. Repositórios
	productRepo := productrepo.NewProductRepository(db, cacheClient, cfg.DBTimeout, cfg.CacheTTL, log)
	customerRepo := customerrepo.NewCustomerRepository(db, cfg.DBTimeout, log)
	repos := sessionservice.Repositories{
		Customers: customerRepo,
		Carts:     cartrepo.NewCartRepository(db, cfg.DBTimeout, log),
		Favorites: favoriterepo.NewFavoriteRepository(db, cfg.DBTimeout, log),
		Orders:    orderrepo.NewOrderRepository(db, cfg.DBTimeout, log),
	}

	// B. Catálogo estático e formatação de preços
	seed, err := catalog.Default()
	if err != nil {
		log.Error("Catálogo embutido inválido.", err)
		return 1
	}
	prices := money.NewFormatter(cfg.DisplayLocale, cfg.DisplayRate, cfg.DisplaySymbol)
	catalogSvc := catalogservice.NewService(productRepo, seed.Products, prices, log)

	// C. Fila de gravação em segundo plano
	queue := writebehind.New(cfg.PersistTimeout, log)
	defer queue.Close()

	// D. Sessão
	svc := sessionservice.NewService(repos, catalogSvc, userservice.NewCredentialStore(cfg.BcryptCost), queue, prices, sessionservice.Options{
		AdminEmail: cfg.AdminEmail,
		GuestUID:   cfg.GuestUID,
		Addresses:  seed.AddressList(),
	}, log)
	tokenSvc := token.NewService(cfg.JWTSecretKey, cfg.TokenExpiry)

	// 4. Estado inicial: credenciais persistidas, catálogo e sessão anterior
	if records, err := customerRepo.FindAll(ctx); err != nil {
		log.Warn("Falha ao carregar clientes.", map[string]interface{}{"error": err.Error()})
	} else {
		svc.ReconcileCustomers(records)
	}
	if err := svc.LoadProducts(ctx); err != nil {
		log.Warn("Catálogo não carregado.", map[string]interface{}{"error": err.Error()})
	}
	resume(ctx, svc, tokenSvc, cfg.SessionFile, log)
	before := svc.Snapshot().Profile

	// 5. Execução do comando
	cmd := &command{
		svc:      svc,
		catalog:  catalogSvc,
		prices:   prices,
		customer: customerRepo,
		dsn:      cfg.DatabaseURL,
		log:      log,
		out:      stdout,
	}
	cmdErr := cmd.runAll(ctx, args)

	// 6. Sessão para a próxima execução
	if after := svc.Snapshot().Profile; !sameProfile(before, after) {
		saveSession(tokenSvc, cfg.SessionFile, after, log)
	}

	// 7. Esvazia a fila antes de sair
	flushCtx, cancel := context.WithTimeout(context.Background(), cfg.PersistTimeout+cfg.DBTimeout)
	defer cancel()
	if err := svc.Flush(flushCtx); err != nil {
		log.Warn("Fila de persistência não esvaziou a tempo.", map[string]interface{}{"error": err.Error()})
	}
	for _, f := range queue.Failures() {
		log.Warn("Gravação falhou.", map[string]interface{}{"job": f.Job, "error": f.Err.Error()})
	}

	if cmdErr != nil {
		var usageErr *usageError
		if errors.As(cmdErr, &usageErr) {
			fmt.Fprintln(os.Stderr, usageErr.Error())
			fmt.Fprint(os.Stderr, usage)
			return 2
		}
		return 1
	}
	return 0
}

// resume reabre a sessão gravada no arquivo de token, se houver e for válida.
func resume(ctx context.Context, svc *sessionservice.Service, tokenSvc token.TokenService, path string, log logger.Logger) {
	tok, err := token.LoadFile(path)
	if err != nil {
		log.Warn("Arquivo de sessão ilegível.", map[string]interface{}{"error": err.Error()})
		return
	}
	if tok == "" {
		return
	}

	claims, err := tokenSvc.ValidateToken(tok)
	if err != nil {
		log.Info("Sessão anterior expirada ou inválida; removendo.", map[string]interface{}{"error": err.Error()})
		if err := token.RemoveFile(path); err != nil {
			log.Warn("Falha ao remover arquivo de sessão.", map[string]interface{}{"error": err.Error()})
		}
		return
	}

	if err := svc.ResumeSession(ctx, claims.Profile()); err != nil {
		log.Warn("Falha ao retomar sessão.", map[string]interface{}{"error": err.Error()})
	}
}

func sameProfile(a, b *domain.UserProfile) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func saveSession(tokenSvc token.TokenService, path string, profile *domain.UserProfile, log logger.Logger) {
	if profile == nil {
		if err := token.RemoveFile(path); err != nil {
			log.Warn("Falha ao remover arquivo de sessão.", map[string]interface{}{"error": err.Error()})
		}
		return
	}

	tok, err := tokenSvc.GenerateToken(*profile)
	if err != nil {
		log.Error("Falha ao gerar token de sessão.", err)
		return
	}
	if err := token.SaveFile(path, tok); err != nil {
		log.Error("Falha ao gravar arquivo de sessão.", err)
	}
}

// printJSON escreve v indentado em out.
func printJSON(out io.Writer, v interface{}) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
