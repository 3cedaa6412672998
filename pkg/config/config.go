package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type AppConfig struct {
	Port              string        `mapstructure:"PORT"`
	AppEnv            string        `mapstructure:"APP_ENV"`
	PostgresUsername  string        `mapstructure:"POSTGRES_USERNAME"`
	PostgresPassword  string        `mapstructure:"POSTGRES_PASSWORD"`
	PostgresDatabase  string        `mapstructure:"POSTGRES_DATABASE"`
	PostgresSSLMode   string        `mapstructure:"POSTGRES_SSLMODE"`
	PostgresHost      string        `mapstructure:"POSTGRES_HOST"`
	PostgresPort      string        `mapstructure:"POSTGRES_PORT"`
	StoreTimeout      time.Duration `mapstructure:"STORE_TIMEOUT"`
	RabbitMQURL       string        `mapstructure:"RABBITMQ_URL"`
	ServiceName       string        `mapstructure:"SERVICE_NAME"`
	GRPCPort          string        `mapstructure:"GRPC_PORT"`
	LowStockThreshold int           `mapstructure:"LOW_STOCK_THRESHOLD"`
}

func Read() *AppConfig {
	viper.SetConfigFile(".env")
	viper.SetConfigType("env")
	_ = viper.ReadInConfig()

	viper.AutomaticEnv()

	bindEnvVariables()
	setDefaults()

	var appConfig AppConfig
	err := viper.Unmarshal(&appConfig)
	if err != nil {
		panic(fmt.Errorf("fatal error unmarshalling config: %w", err))
	}

	return &appConfig
}

// PostgresDSN builds a lib/pq connection string.
func (c *AppConfig) PostgresDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.PostgresHost, c.PostgresPort, c.PostgresUsername, c.PostgresPassword, c.PostgresDatabase, c.PostgresSSLMode,
	)
}

func (c *AppConfig) IsProduction() bool {
	return c.AppEnv == "production"
}

func bindEnvVariables() {
	_ = viper.BindEnv("PORT")
	_ = viper.BindEnv("APP_ENV")
	_ = viper.BindEnv("POSTGRES_USERNAME")
	_ = viper.BindEnv("POSTGRES_PASSWORD")
	_ = viper.BindEnv("POSTGRES_DATABASE")
	_ = viper.BindEnv("POSTGRES_SSLMODE")
	_ = viper.BindEnv("POSTGRES_HOST")
	_ = viper.BindEnv("POSTGRES_PORT")
	_ = viper.BindEnv("STORE_TIMEOUT")
	_ = viper.BindEnv("RABBITMQ_URL")
	_ = viper.BindEnv("SERVICE_NAME")
	_ = viper.BindEnv("GRPC_PORT")
	_ = viper.BindEnv("LOW_STOCK_THRESHOLD")
}

func setDefaults() {
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("POSTGRES_SSLMODE", "disable")
	viper.SetDefault("POSTGRES_HOST", "localhost")
	viper.SetDefault("POSTGRES_PORT", "5432")
	viper.SetDefault("STORE_TIMEOUT", "5s")
	viper.SetDefault("SERVICE_NAME", "catalog")
	viper.SetDefault("GRPC_PORT", "9090")
	viper.SetDefault("LOW_STOCK_THRESHOLD", 10)
}
