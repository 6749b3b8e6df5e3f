package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"device-inspector/internal/domain/entity"
)

// Драйверы хранилища результатов
const (
	StorageMemory = "memory"
	StorageMySQL  = "mysql"
)

type Config struct {
	HTTPPort       int    `mapstructure:"http_port" validate:"min=1,max=65535"`
	GRPCPort       int    `mapstructure:"grpc_port" validate:"min=0,max=65535"` // 0 - gRPC выключен
	MetricsEnabled bool   `mapstructure:"metrics_enabled"`
	TelegramToken  string `mapstructure:"telegram_token"` // пусто - бот не запускается

	InferenceURL     string        `mapstructure:"inference_url" validate:"required,url"`
	InferenceTimeout time.Duration `mapstructure:"inference_timeout"`
	DetectorConf     float64       `mapstructure:"detector_conf" validate:"min=0,max=1"`

	Storage string `mapstructure:"storage" validate:"oneof=memory mysql"`
	DBDSN   string `mapstructure:"db_dsn" validate:"required_if=Storage mysql"`

	ProductsFile string `mapstructure:"products_file"`
	BatchWorkers int    `mapstructure:"batch_workers" validate:"min=1,max=64"`
	LogMode      string `mapstructure:"log_mode" validate:"oneof=production development"`
	Annotate     bool   `mapstructure:"annotate"`
}

var defaults = map[string]any{
	"http_port":         8080,
	"grpc_port":         9090,
	"metrics_enabled":   true,
	"telegram_token":    "",
	"inference_url":     "http://localhost:5000",
	"inference_timeout": 30 * time.Second,
	"detector_conf":     0.5,
	"storage":           StorageMemory,
	"db_dsn":            "",
	"products_file":     "products.yaml",
	"batch_workers":     4,
	"log_mode":          "production",
	"annotate":          true,
}

// Load читает .env, затем config.yaml (если есть) и переменные окружения.
// Окружение имеет приоритет над файлом.
func Load() (*Config, error) {
	// Загружаем .env файл (игнорируем ошибку если файла нет)
	_ = godotenv.Load()

	path := os.Getenv("CONFIG_FILE")
	if path == "" {
		path = "config.yaml"
	}
	return LoadFile(path)
}

// LoadFile читает конфиг из указанного yaml-файла. Отсутствие файла не ошибка.
func LoadFile(path string) (*Config, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			v.SetConfigFile(path)
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("read config %s: %w", path, err)
			}
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate проверяет значения по тегам validate.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

type productsFile struct {
	Products entity.ProductTable `yaml:"products"`
}

// LoadProductTable читает справочник моделей из yaml.
// Без файла возвращается встроенный справочник.
func LoadProductTable(path string) (entity.ProductTable, error) {
	if path == "" {
		return entity.DefaultProductTable(), nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return entity.DefaultProductTable(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read products: %w", err)
	}

	var f productsFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse products %s: %w", path, err)
	}
	if err := f.Products.Validate(); err != nil {
		return nil, fmt.Errorf("products %s: %w", path, err)
	}
	return f.Products, nil
}
