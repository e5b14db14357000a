package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

const (
	DatabaseDriverPostgres = "postgres"
	DatabaseDriverSQLite   = "sqlite"

	DeliveryDriverGateway   = "gateway"
	DeliveryDriverWhatsmeow = "whatsmeow"
)

type Config struct {
	App            App            `mapstructure:",squash"`
	Server         Server         `mapstructure:",squash"`
	Database       Database       `mapstructure:",squash"`
	Meta           Meta           `mapstructure:",squash"`
	GoogleAds      GoogleAds      `mapstructure:",squash"`
	Auth           Auth           `mapstructure:",squash"`
	ReportDispatch ReportDispatch `mapstructure:",squash"`
	Delivery       Delivery       `mapstructure:",squash"`
	SecretKey      string         `mapstructure:"secret_key"`
}

type App struct {
	Env       string `mapstructure:"app_env"`
	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`
}

type Server struct {
	Host           string   `mapstructure:"host"`
	Port           string   `mapstructure:"port"`
	AllowedOrigins []string `mapstructure:"cors_allowed_origins"`
}

type Database struct {
	DSN      string `mapstructure:"-"`
	Driver   string `mapstructure:"database_driver"`
	Password string `mapstructure:"database_password"`
	URL      string `mapstructure:"database_url"`
	User     string `mapstructure:"database_user"`
	SSLMode  string `mapstructure:"database_sslmode"`
	Path     string `mapstructure:"database_path"`
}

type Meta struct {
	BaseURL   string `mapstructure:"meta_base_url"`
	URL       string `mapstructure:"-"`
	Version   string `mapstructure:"meta_version"`
	AppID     string `mapstructure:"meta_app_id"`
	AppSecret string `mapstructure:"meta_app_secret"`
}

type GoogleAds struct {
	BaseURL         string `mapstructure:"google_ads_base_url"`
	URL             string `mapstructure:"-"`
	Version         string `mapstructure:"google_ads_version"`
	DeveloperToken  string `mapstructure:"google_ads_developer_token"`
	LoginCustomerID string `mapstructure:"google_ads_login_customer_id"`
	ClientID        string `mapstructure:"google_client_id"`
	ClientSecret    string `mapstructure:"google_client_secret"`
	TokenURL        string `mapstructure:"google_token_url"`
}

type Auth struct {
	Secret string `mapstructure:"auth_secret"`
}

type ReportDispatch struct {
	Enabled           bool           `mapstructure:"report_dispatch_enabled"`
	CronSchedule      string         `mapstructure:"report_dispatch_cron"`
	MaxConcurrentJobs int            `mapstructure:"report_dispatch_max_concurrent_jobs"`
	Timezone          string         `mapstructure:"report_dispatch_timezone"`
	CallTimeout       time.Duration  `mapstructure:"report_dispatch_call_timeout"`
	RecipientSuffix   string         `mapstructure:"report_dispatch_recipient_suffix"`
	Location          *time.Location `mapstructure:"-"`
}

type Delivery struct {
	Driver          string  `mapstructure:"delivery_driver"`
	GatewayURL      string  `mapstructure:"delivery_gateway_url"`
	GatewayToken    string  `mapstructure:"delivery_gateway_token"`
	RatePerSecond   float64 `mapstructure:"delivery_rate_per_second"`
	Burst           int     `mapstructure:"delivery_burst"`
	WhatsmeowDBPath string  `mapstructure:"delivery_whatsmeow_db_path"`
}

func SetDefaults() {
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("LOG_FORMAT", "text")

	viper.SetDefault("HOST", "0.0.0.0")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")

	viper.SetDefault("AUTH_SECRET", "")
	viper.SetDefault("SECRET_KEY", "")

	viper.SetDefault("DATABASE_DRIVER", DatabaseDriverPostgres)
	viper.SetDefault("DATABASE_URL", "localhost:5432/ads_report")
	viper.SetDefault("DATABASE_USER", "postgres")
	viper.SetDefault("DATABASE_PASSWORD", "postgres")
	viper.SetDefault("DATABASE_SSLMODE", "disable")
	viper.SetDefault("DATABASE_PATH", "data/dispatcher.db")

	viper.SetDefault("META_BASE_URL", "https://graph.facebook.com")
	viper.SetDefault("META_VERSION", "v22.0")
	viper.SetDefault("META_APP_ID", "")
	viper.SetDefault("META_APP_SECRET", "")

	viper.SetDefault("GOOGLE_ADS_BASE_URL", "https://googleads.googleapis.com")
	viper.SetDefault("GOOGLE_ADS_VERSION", "v17")
	viper.SetDefault("GOOGLE_ADS_DEVELOPER_TOKEN", "")
	viper.SetDefault("GOOGLE_ADS_LOGIN_CUSTOMER_ID", "")
	viper.SetDefault("GOOGLE_CLIENT_ID", "")
	viper.SetDefault("GOOGLE_CLIENT_SECRET", "")
	viper.SetDefault("GOOGLE_TOKEN_URL", "https://oauth2.googleapis.com/token")

	// Despacho de relatórios
	viper.SetDefault("REPORT_DISPATCH_ENABLED", true)
	viper.SetDefault("REPORT_DISPATCH_CRON", "* * * * *") // A cada minuto
	viper.SetDefault("REPORT_DISPATCH_MAX_CONCURRENT_JOBS", 5)
	viper.SetDefault("REPORT_DISPATCH_TIMEZONE", "America/Sao_Paulo")
	viper.SetDefault("REPORT_DISPATCH_CALL_TIMEOUT", "30s")
	viper.SetDefault("REPORT_DISPATCH_RECIPIENT_SUFFIX", "@c.us")

	viper.SetDefault("DELIVERY_DRIVER", DeliveryDriverGateway)
	viper.SetDefault("DELIVERY_GATEWAY_URL", "http://localhost:3000/api/sendText")
	viper.SetDefault("DELIVERY_GATEWAY_TOKEN", "")
	viper.SetDefault("DELIVERY_RATE_PER_SECOND", 1)
	viper.SetDefault("DELIVERY_BURST", 5)
	viper.SetDefault("DELIVERY_WHATSMEOW_DB_PATH", "data/whatsmeow.db")
}

func NewConfig() (*Config, error) {
	loadEnvFile() // ONLY LOCAL

	config := &Config{}

	SetDefaults()

	viper.SetConfigType("env")
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		logrus.Debug("Usando variáveis de ambiente (viper não conseguiu ler .env): ", err)
	}

	err := viper.Unmarshal(&config, viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	))
	if err != nil {
		return nil, err
	}

	if err := config.complete(); err != nil {
		return nil, err
	}

	return config, nil
}

// complete valida a configuração e preenche os campos derivados
func (c *Config) complete() error {
	c.Database.Driver = strings.ToLower(c.Database.Driver)
	switch c.Database.Driver {
	case DatabaseDriverPostgres:
		c.Database.DSN = fmt.Sprintf(
			"postgres://%s:%s@%s?sslmode=%s",
			c.Database.User,
			c.Database.Password,
			c.Database.URL,
			c.Database.SSLMode,
		)
	case DatabaseDriverSQLite:
		c.Database.DSN = c.Database.Path
	default:
		return fmt.Errorf("DATABASE_DRIVER inválido: %q", c.Database.Driver)
	}

	c.Delivery.Driver = strings.ToLower(c.Delivery.Driver)
	if c.Delivery.Driver != DeliveryDriverGateway && c.Delivery.Driver != DeliveryDriverWhatsmeow {
		return fmt.Errorf("DELIVERY_DRIVER inválido: %q", c.Delivery.Driver)
	}

	loc, err := time.LoadLocation(c.ReportDispatch.Timezone)
	if err != nil {
		return fmt.Errorf("REPORT_DISPATCH_TIMEZONE inválido: %w", err)
	}
	c.ReportDispatch.Location = loc

	if c.ReportDispatch.MaxConcurrentJobs <= 0 {
		c.ReportDispatch.MaxConcurrentJobs = 1
	}
	if c.ReportDispatch.CallTimeout <= 0 {
		c.ReportDispatch.CallTimeout = 30 * time.Second
	}

	c.Meta.URL = fmt.Sprintf("%s/%s", strings.TrimSuffix(c.Meta.BaseURL, "/"), c.Meta.Version)
	c.GoogleAds.URL = fmt.Sprintf("%s/%s", strings.TrimSuffix(c.GoogleAds.BaseURL, "/"), c.GoogleAds.Version)

	return nil
}

// Função auxiliar para carregar o arquivo .env usando godotenv
func loadEnvFile() {
	cwd, err := os.Getwd()
	if err != nil {
		logrus.Warn("Não foi possível obter o diretório atual:", err)
		return
	}

	locations := []string{
		filepath.Join(cwd, ".env"),
		filepath.Join(filepath.Dir(cwd), ".env"),
		filepath.Join(cwd, "../../.env"),
	}

	for _, location := range locations {
		if err := godotenv.Load(location); err == nil {
			logrus.Info("Arquivo .env carregado de: ", location)
			return
		}
	}

	logrus.Debug("Nenhum arquivo .env encontrado, usando apenas variáveis de ambiente")
}
