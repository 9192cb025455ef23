package config

import (
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Firestore FirestoreConfig `mapstructure:"firestore"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Outbox    OutboxConfig    `mapstructure:"outbox"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

type AppConfig struct {
	Name    string `mapstructure:"name"`
	Port    int    `mapstructure:"port"`
	Env     string `mapstructure:"env"`
	BaseURL string `mapstructure:"base_url"`
}

// DatabaseConfig points at the Postgres HR directory.
type DatabaseConfig struct {
	Driver   string `mapstructure:"driver"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// FirestoreConfig names the project and collections holding workflow data.
type FirestoreConfig struct {
	ProjectID            string `mapstructure:"project_id"`
	DocumentsCollection  string `mapstructure:"documents_collection"`
	TemplatesCollection  string `mapstructure:"templates_collection"`
	ActivitiesCollection string `mapstructure:"activities_collection"`
	VacanciesCollection  string `mapstructure:"vacancies_collection"`
	CandidatesCollection string `mapstructure:"candidates_collection"`
}

// StorageConfig names the GCS bucket signed copies are uploaded to.
type StorageConfig struct {
	Bucket       string `mapstructure:"bucket"`
	SignedPrefix string `mapstructure:"signed_prefix"`
}

// OutboxConfig tunes the employee-lifecycle outbox worker.
type OutboxConfig struct {
	Queue          string `mapstructure:"queue"`
	ProcessingList string `mapstructure:"processing_list"`
	PollSeconds    int    `mapstructure:"poll_seconds"`
	RetrySeconds   int    `mapstructure:"retry_seconds"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

func NewConfig() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	// Enable environment variable override
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	applyDefaults(&cfg)
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Firestore.DocumentsCollection == "" {
		cfg.Firestore.DocumentsCollection = "documents"
	}
	if cfg.Firestore.TemplatesCollection == "" {
		cfg.Firestore.TemplatesCollection = "templates"
	}
	if cfg.Firestore.ActivitiesCollection == "" {
		cfg.Firestore.ActivitiesCollection = "activities"
	}
	if cfg.Firestore.VacanciesCollection == "" {
		cfg.Firestore.VacanciesCollection = "vacancies"
	}
	if cfg.Firestore.CandidatesCollection == "" {
		cfg.Firestore.CandidatesCollection = "candidates"
	}
	if cfg.Storage.SignedPrefix == "" {
		cfg.Storage.SignedPrefix = "signed"
	}
	if cfg.Outbox.Queue == "" {
		cfg.Outbox.Queue = "hrdocflow:outbox:employee_release"
	}
	if cfg.Outbox.ProcessingList == "" {
		cfg.Outbox.ProcessingList = cfg.Outbox.Queue + ":processing"
	}
	if cfg.Outbox.PollSeconds <= 0 {
		cfg.Outbox.PollSeconds = 5
	}
	if cfg.Outbox.RetrySeconds <= 0 {
		cfg.Outbox.RetrySeconds = 30
	}
}

func (c *Config) IsDevelopment() bool {
	return c.App.Env == "development"
}

func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}
