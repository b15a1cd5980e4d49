package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all app configuration
type Config struct {
	// Environment (local, dev, prod)
	Env string

	// Server
	HTTPPort string

	// Wallet under analysis
	MasterWallet string

	// Alchemy JSON-RPC
	AlchemyBaseURL string
	AlchemyAPIKey  string

	// The Graph gateway
	GraphGatewayURL string
	GraphAPIKey     string
	GraphSubgraphID string

	// Token addresses
	NativeTokenAddress  string
	WrappedTokenAddress string
	Stablecoins         []string

	// Price resolution
	PriceLookbackDays int

	// Redis
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// ClickHouse
	ClickhouseAddr     string
	ClickhouseUsername string
	ClickhousePassword string
	ClickhouseTimeout  int

	// Kafka
	KafkaBrokers []string
	KafkaTopic   string

	// Cron spec for the scheduled single-day refresh; empty disables it
	RefreshSchedule string

	// App settings
	Debug bool
}

// LoadConfig loads configuration from environment variables, with optional .env file
func LoadConfig() *Config {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file loaded: %v", err)
	}

	cfg := &Config{
		Env: getEnv("APP_ENV", "local"),

		// Server
		HTTPPort: getEnv("HTTP_PORT", "8080"),

		// Wallet
		MasterWallet: strings.ToLower(getEnv("MASTER_WALLET", "")),

		// Alchemy
		AlchemyBaseURL: getEnv("ALCHEMY_BASE_URL", "https://base-mainnet.g.alchemy.com/v2"),
		AlchemyAPIKey:  getEnv("ALCHEMY_API_KEY", ""),

		// The Graph
		GraphGatewayURL: getEnv("THEGRAPH_GATEWAY_URL", "https://gateway.thegraph.com/api"),
		GraphAPIKey:     getEnv("THEGRAPH_API_KEY", ""),
		GraphSubgraphID: getEnv("THEGRAPH_SUBGRAPH_ID", ""),

		// Tokens (defaults are Base mainnet)
		NativeTokenAddress:  strings.ToLower(getEnv("ETH_ADDRESS", "0xeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeee")),
		WrappedTokenAddress: strings.ToLower(getEnv("WETH_ADDRESS", "0x4200000000000000000000000000000000000006")),
		Stablecoins: getEnvAsSlice("STABLECOIN_ADDRESSES", []string{
			"0x833589fcd6edb6e08f4c7c32d4f71b54bda02913", // USDC
			"0xaaa62d791835a98c35f8df62b708f68ccd398f11", // USDT
			"0x50c5725949a6f0c72e6c4a641f24049a917db0cb", // DAI
			"0x417ac0e078398c154edfadd9ef675d30be60af93", // crvUSD
		}, ","),

		PriceLookbackDays: getEnvAsInt("PRICE_LOOKBACK_DAYS", 150),

		// Redis
		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvAsInt("REDIS_DB", 0),

		// ClickHouse
		ClickhouseAddr:     getEnv("CLICKHOUSE_ADDR", "localhost:9000"),
		ClickhouseUsername: getEnv("CLICKHOUSE_USERNAME", ""),
		ClickhousePassword: getEnv("CLICKHOUSE_PASSWORD", ""),
		ClickhouseTimeout:  getEnvAsInt("CLICKHOUSE_TIMEOUT", 10),

		// Kafka
		KafkaBrokers: getEnvAsSlice("KAFKA_BROKERS", nil, ","),
		KafkaTopic:   getEnv("KAFKA_TOPIC", "usd-volume"),

		RefreshSchedule: getEnv("REFRESH_SCHEDULE", ""),

		// App settings
		Debug: getEnvAsBool("DEBUG", false),
	}

	return cfg
}

// AlchemyURL returns the full Alchemy endpoint including the API key segment.
func (c *Config) AlchemyURL() string {
	return c.AlchemyBaseURL + "/" + c.AlchemyAPIKey
}

// SubgraphURL returns the full Graph gateway endpoint for the configured subgraph.
func (c *Config) SubgraphURL() string {
	return c.GraphGatewayURL + "/" + c.GraphAPIKey + "/subgraphs/id/" + c.GraphSubgraphID
}

// Helper functions for parsing environment variables
func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultVal
}

func getEnvAsBool(key string, defaultVal bool) bool {
	valStr := getEnv(key, "")
	if val, err := strconv.ParseBool(valStr); err == nil {
		return val
	}
	return defaultVal
}

func getEnvAsSlice(key string, defaultVal []string, sep string) []string {
	valStr := getEnv(key, "")
	if valStr == "" {
		return defaultVal
	}
	return strings.Split(valStr, sep)
}
