package config

import (
	"log"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// Config armazena todas as configurações da sessão de compras furnishop.
type Config struct {
	// Geral
	LogLevel string

	// Banco de Dados (PostgreSQL)
	DatabaseURL string
	DBTimeout   time.Duration

	// Cache (Redis) do catálogo; endereço vazio desliga o cache
	RedisAddr string
	CacheTTL  time.Duration

	// Sessão (JWT)
	JWTSecretKey string
	TokenExpiry  time.Duration
	SessionFile  string

	// Identidades fixas
	AdminEmail string
	GuestUID   string

	// Exibição de preços
	DisplayLocale string
	DisplayRate   float64
	DisplaySymbol string

	// Credenciais e persistência
	BcryptCost     int
	PersistTimeout time.Duration
}

// LoadConfig carrega as configurações a partir das variáveis de ambiente.
func LoadConfig() *Config {
	cfg := &Config{
		// 1. Geral
		LogLevel: getEnv("LOG_LEVEL", "info"),

		// 2. Banco de Dados (PostgreSQL)
		// mustGetEnv garante que a aplicação não inicie se não houver credenciais de DB
		DatabaseURL: mustGetEnv("DATABASE_URL"),
		DBTimeout:   getDurationEnv("DB_TIMEOUT_SEC", 5) * time.Second, // 5s padrão

		// 3. Cache (Redis)
		RedisAddr: getEnv("REDIS_ADDR", "localhost:6379"),
		CacheTTL:  getDurationEnv("CACHE_TTL_SEC", 300) * time.Second, // 5 min padrão

		// 4. Sessão (JWT)
		JWTSecretKey: mustGetEnv("JWT_SECRET_KEY"),
		TokenExpiry:  getDurationEnv("JWT_EXPIRY_MIN", 7*24*60) * time.Minute, // 7 dias padrão
		SessionFile:  getEnv("SESSION_FILE", defaultSessionFile()),

		// 5. Identidades fixas
		AdminEmail: getEnv("ADMIN_EMAIL", "admin@furniture.test"),
		GuestUID:   getEnv("GUEST_UID", "guest"),

		// 6. Exibição de preços (padrão: rublos, 90 por unidade base)
		DisplayLocale: getEnv("DISPLAY_LOCALE", "ru"),
		DisplayRate:   getFloatEnv("DISPLAY_RATE", 90),
		DisplaySymbol: getEnv("DISPLAY_SYMBOL", "₽"),

		// 7. Credenciais e persistência
		BcryptCost:     getIntEnv("BCRYPT_COST", 10),
		PersistTimeout: getDurationEnv("PERSIST_TIMEOUT_SEC", 10) * time.Second,
	}

	return cfg
}

// Funções Helpers (Auxiliares)

func defaultSessionFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".furnishop-session"
	}
	return filepath.Join(dir, "furnishop", "session.jwt")
}

// getEnv lê a variável de ambiente ou retorna um valor padrão.
func getEnv(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// mustGetEnv lê a variável de ambiente, fatal se não estiver presente.
func mustGetEnv(key string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	log.Fatalf("❌ Erro de Configuração: A variável de ambiente %s deve ser definida.", key)
	return ""
}

// getDurationEnv lê uma variável de ambiente numérica e retorna-a como time.Duration.
func getDurationEnv(key string, defaultValue int) time.Duration {
	return time.Duration(getIntEnv(key, defaultValue))
}

// getIntEnv lê uma variável de ambiente numérica e retorna-a como int.
func getIntEnv(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("⚠️ Aviso: Valor de %s ('%s') não é um número inteiro válido. Usando padrão (%d).", key, valueStr, defaultValue)
		return defaultValue
	}
	return value
}

// getFloatEnv lê uma variável de ambiente decimal.
func getFloatEnv(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		log.Printf("⚠️ Aviso: Valor de %s ('%s') não é um número válido. Usando padrão (%g).", key, valueStr, defaultValue)
		return defaultValue
	}
	return value
}
