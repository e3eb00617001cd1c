package utils

import (
	"github.com/spf13/viper"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Provider ProviderConfig
	Gateway  GatewayConfig
	Frontend FrontendConfig
	Email    EmailConfig
	Admin    AdminConfig
}

type AppConfig struct {
	Name    string
	Port    string
	BaseURL string
	Debug   bool
	LogPath string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	MaxConns int32
}

// ProviderConfig holds the booking provider (GDS) API settings.
// Order creation is materially slower upstream than reads, hence the
// separate timeout.
type ProviderConfig struct {
	BaseURL             string
	APIKey              string
	ReadTimeoutSeconds  int
	OrderTimeoutSeconds int
}

type GatewayConfig struct {
	BaseURL         string
	StoreID         string
	StorePassword   string
	VerifySignature bool
	TimeoutSeconds  int
}

// FrontendConfig is the base URL browser callbacks redirect back to,
// per reconciliation outcome.
type FrontendConfig struct {
	BaseURL string
}

type EmailConfig struct {
	Enabled  bool
	Host     string
	Port     int
	User     string
	Password string
	From     string
}

type AdminConfig struct {
	APIKey string
}

func LoadConfig() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.SetConfigType("env")

	// Set defaults
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("DEBUG", false)
	viper.SetDefault("DB_MAX_CONNS", 10)
	viper.SetDefault("LOG_PATH", "logs/")
	viper.SetDefault("PROVIDER_READ_TIMEOUT_SECONDS", 30)
	viper.SetDefault("PROVIDER_ORDER_TIMEOUT_SECONDS", 120)
	viper.SetDefault("GATEWAY_TIMEOUT_SECONDS", 30)
	viper.SetDefault("GATEWAY_VERIFY_SIGNATURE", true)
	viper.SetDefault("EMAIL_ENABLED", false)

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	viper.AutomaticEnv()

	config := &Config{
		App: AppConfig{
			Name:    viper.GetString("APP_NAME"),
			Port:    viper.GetString("PORT"),
			BaseURL: viper.GetString("APP_BASE_URL"),
			Debug:   viper.GetBool("DEBUG"),
			LogPath: viper.GetString("LOG_PATH"),
		},
		Database: DatabaseConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			Name:     viper.GetString("DB_NAME"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASS"),
			MaxConns: viper.GetInt32("DB_MAX_CONNS"),
		},
		Provider: ProviderConfig{
			BaseURL:             viper.GetString("PROVIDER_BASE_URL"),
			APIKey:              viper.GetString("PROVIDER_API_KEY"),
			ReadTimeoutSeconds:  viper.GetInt("PROVIDER_READ_TIMEOUT_SECONDS"),
			OrderTimeoutSeconds: viper.GetInt("PROVIDER_ORDER_TIMEOUT_SECONDS"),
		},
		Gateway: GatewayConfig{
			BaseURL:         viper.GetString("GATEWAY_BASE_URL"),
			StoreID:         viper.GetString("GATEWAY_STORE_ID"),
			StorePassword:   viper.GetString("GATEWAY_STORE_PASSWORD"),
			VerifySignature: viper.GetBool("GATEWAY_VERIFY_SIGNATURE"),
			TimeoutSeconds:  viper.GetInt("GATEWAY_TIMEOUT_SECONDS"),
		},
		Frontend: FrontendConfig{
			BaseURL: viper.GetString("FRONTEND_BASE_URL"),
		},
		Email: EmailConfig{
			Enabled:  viper.GetBool("EMAIL_ENABLED"),
			Host:     viper.GetString("SMTP_HOST"),
			Port:     viper.GetInt("SMTP_PORT"),
			User:     viper.GetString("SMTP_USER"),
			Password: viper.GetString("SMTP_PASS"),
			From:     viper.GetString("EMAIL_FROM"),
		},
		Admin: AdminConfig{
			APIKey: viper.GetString("ADMIN_API_KEY"),
		},
	}

	return config, nil
}
