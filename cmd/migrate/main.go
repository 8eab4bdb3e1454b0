package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"github.com/joho/godotenv"
	"github.com/pressly/goose/v3"

	"furnishop/config"
	"furnishop/internal/pkg/database"
	"furnishop/internal/pkg/logger"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("⚠️ Aviso: arquivo .env não encontrado. Usando apenas o ambiente do sistema: %v", err)
	}

	var migrationsDir string
	flag.StringVar(&migrationsDir, "dir", "", "diretório com migrações (vazio usa as embutidas no binário)")
	flag.Parse()

	cfg := config.LoadConfig()
	appLog := logger.NewLogger(cfg.LogLevel)
	ctx := context.Background()

	// Connect to the database
	db, err := database.NewPostgresDB(ctx, cfg.DatabaseURL, appLog)
	if err != nil {
		log.Fatalf("goose: falha ao conectar ao DB: %v\n", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Fatalf("goose: falha ao fechar o DB: %v\n", err)
		}
	}()

	goose.SetLogger(goose.NopLogger())

	arguments := flag.Args()
	if len(arguments) == 0 {
		arguments = []string{"up"} // 'up' quando nenhum comando é informado
	}
	command := arguments[0]
	args := arguments[1:]

	if migrationsDir == "" {
		err = database.Migrate(ctx, db, command, args...)
	} else {
		if err = goose.SetDialect("postgres"); err == nil {
			err = goose.RunContext(ctx, command, db, migrationsDir, args...)
		}
	}
	if err != nil {
		log.Fatalf("goose %v: %v", command, err)
	}

	fmt.Printf("goose %s ok\n", command)
}
