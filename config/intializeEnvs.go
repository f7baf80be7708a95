package config

import (
	"fmt"
	"log"
	"os"

	godotenv "github.com/joho/godotenv"
)

func loadDotEnv() {
	switch os.Getenv("APP_ENV") {
	case "dev", "":
		if err := godotenv.Load(".env.dev"); err == nil {
			log.Println("Loaded .env.dev")
		} else if err := godotenv.Load(".env"); err == nil {
			log.Println("Loaded .env")
		} else {
			log.Println("No .env.dev or .env found, using system environment variables")
		}
	default:
		fname := ".env." + os.Getenv("APP_ENV")
		if err := godotenv.Load(fname); err == nil {
			log.Printf("Loaded %s", fname)
		} else if err := godotenv.Load(".env"); err == nil {
			log.Println("Loaded .env")
		} else {
			log.Printf("No %s or .env found, using system environment variables", fname)
		}
	}
}

// InitializeEnvs completes cfg with the settings of the S3 and RabbitMQ
// integrations. Environment values win over the config file. A run that uses
// neither integration reads no environment at all and gets cfg back unchanged.
func InitializeEnvs(cfg *Config) (*Config, error) {
	if !cfg.Upload && !cfg.Notify {
		return cfg, nil
	}
	loadDotEnv()

	out := *cfg
	overrideFromEnv(&out.AwsBucket, "AWS_BUCKET_NAME")
	overrideFromEnv(&out.S3KeyPrefix, "S3_KEY_PREFIX")
	overrideFromEnv(&out.RabbitMqURL, "RABBITMQ_URL")
	overrideFromEnv(&out.Exchange, "RABBITMQ_EXCHANGE")
	overrideFromEnv(&out.RoutingKey, "RABBITMQ_ROUTING_KEY")

	if out.Upload && out.AwsBucket == "" {
		return nil, fmt.Errorf("AWS_BUCKET_NAME is missing, it is required by --upload")
	}
	if out.Notify && out.RabbitMqURL == "" {
		return nil, fmt.Errorf("RABBITMQ_URL is missing, it is required by --notify")
	}
	return &out, nil
}

func overrideFromEnv(field *string, key string) {
	if v := os.Getenv(key); v != "" {
		*field = v
	}
}
