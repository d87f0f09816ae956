package config

import (
	"errors"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	DBUsername string `yaml:"db_username"`
	DBPassword string `yaml:"db_password"`
	DBHost     string `yaml:"db_host"`
	DBPort     string `yaml:"db_port"`
	DBName     string `yaml:"db_name"`
	DisableTLS bool   `yaml:"disable_tls"`

	RedisAddr     string `yaml:"redis_addr"`
	RedisPassword string `yaml:"redis_password"`

	BaseUrl        string `yaml:"base_url"`
	PrivatePemPath string `yaml:"private_pem_path"`

	// Face pipeline settings. Zero values fall back to the defaults below.
	DetectorURL         string  `yaml:"detector_url"`
	SimilarityThreshold float64 `yaml:"similarity_threshold"`
	MinFaceQuality      float64 `yaml:"min_face_quality"`

	// Offline sync queue settings.
	QueuePath    string        `yaml:"queue_path"`
	SyncInterval time.Duration `yaml:"sync_interval"`
}

const (
	DefaultSimilarityThreshold = 0.65
	DefaultMinFaceQuality      = 50.0
	DefaultSyncInterval        = time.Minute
)

func NewConfig() (*Config, error) {
	var c Config

	yamlFile, err := os.ReadFile("config.yaml")
	if err != nil {
		return nil, err
	}

	err = yaml.Unmarshal(yamlFile, &c)
	if err != nil {
		return nil, err
	}

	if c.DBUsername == "" || c.DBPassword == "" || c.DBHost == "" || c.DBName == "" {
		return nil, errors.New("missing required database configuration")
	}

	if c.SimilarityThreshold == 0 {
		c.SimilarityThreshold = DefaultSimilarityThreshold
	}
	if c.MinFaceQuality == 0 {
		c.MinFaceQuality = DefaultMinFaceQuality
	}
	if c.SyncInterval == 0 {
		c.SyncInterval = DefaultSyncInterval
	}
	if c.QueuePath == "" {
		c.QueuePath = "pending.db"
	}
	if c.PrivatePemPath == "" {
		c.PrivatePemPath = "./private.pem"
	}

	return &c, nil
}
