package config

import (
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Settings struct {
	MariaDBDSN      string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ServerPort      int

	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioUseSSL    bool

	StagingBucket   string
	CreativesBucket string

	RedisAddr     string
	RedisPassword string

	JWTPublicKey string

	// StandardsFile optionally points at a JSON dimension-standards table;
	// the built-in table applies when empty.
	StandardsFile string

	ThumbnailWidth  int
	ThumbnailHeight int
}

func Load() (*Settings, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Println("No .env file found; proceeding with OS environment variables")
	}

	viper.AutomaticEnv()

	viper.SetConfigFile(".env")
	viper.SetConfigType("env")

	if err := viper.ReadInConfig(); err != nil {
		log.Printf("Warning: could not read .env file: %v", err)
	}

	viper.SetDefault("STAGING_BUCKET", "staging")
	viper.SetDefault("CREATIVES_BUCKET", "creatives")
	viper.SetDefault("THUMBNAIL_WIDTH", 300)
	viper.SetDefault("THUMBNAIL_HEIGHT", 180)

	required := []string{
		"MARIADB_DSN",
		"MARIADB_MAX_OPEN_CONN",
		"MARIADB_MAX_IDLE_CONNS",
		"MARIADB_CONN_MAX_LIFETIME",
		"SERVER_PORT",
		"MINIO_ENDPOINT",
		"MINIO_ACCESS_KEY",
		"MINIO_SECRET_KEY",
	}
	for _, key := range required {
		if !viper.IsSet(key) {
			return nil, fmt.Errorf("%s is required", key)
		}
	}

	return &Settings{
		MariaDBDSN:      viper.GetString("MARIADB_DSN"),
		MaxOpenConns:    viper.GetInt("MARIADB_MAX_OPEN_CONN"),
		MaxIdleConns:    viper.GetInt("MARIADB_MAX_IDLE_CONNS"),
		ConnMaxLifetime: time.Duration(viper.GetInt("MARIADB_CONN_MAX_LIFETIME")) * time.Second,
		ServerPort:      viper.GetInt("SERVER_PORT"),
		MinioEndpoint:   viper.GetString("MINIO_ENDPOINT"),
		MinioAccessKey:  viper.GetString("MINIO_ACCESS_KEY"),
		MinioSecretKey:  viper.GetString("MINIO_SECRET_KEY"),
		MinioUseSSL:     viper.GetBool("MINIO_USE_SSL"),
		StagingBucket:   viper.GetString("STAGING_BUCKET"),
		CreativesBucket: viper.GetString("CREATIVES_BUCKET"),
		RedisAddr:       viper.GetString("REDIS_ADDR"),
		RedisPassword:   viper.GetString("REDIS_PASSWORD"),
		JWTPublicKey:    viper.GetString("JWT_PUBLIC_KEY"),
		StandardsFile:   viper.GetString("STANDARDS_FILE"),
		ThumbnailWidth:  viper.GetInt("THUMBNAIL_WIDTH"),
		ThumbnailHeight: viper.GetInt("THUMBNAIL_HEIGHT"),
	}, nil
}
