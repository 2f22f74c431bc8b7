package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/gophcart/internal/flagx"
	"github.com/dmitrijs2005/gophcart/internal/timex"
)

// JsonConfig is the on-disk shape of the config file. Only fields present
// in the file override the defaults.
type JsonConfig struct {
	StoreBackend         string          `json:"store_backend"`
	SQLiteDSN            string          `json:"sqlite_dsn"`
	PostgresDSN          string          `json:"postgres_dsn"`
	FirestoreProjectID   string          `json:"firestore_project_id"`
	FirestoreCredentials string          `json:"firestore_credentials"`
	UsersCollection      string          `json:"users_collection"`
	ProductsCollection   string          `json:"products_collection"`
	CartsCollection      string          `json:"carts_collection"`
	LocalDBPath          string          `json:"local_db_path"`
	RememberSession      *bool           `json:"remember_session"`
	SessionTTL           *timex.Duration `json:"session_ttl"`
	S3AccessKey          string          `json:"s3_access_key"`
	S3SecretKey          string          `json:"s3_secret_key"`
	S3Bucket             string          `json:"s3_bucket"`
	S3Region             string          `json:"s3_region"`
	S3BaseEndpoint       string          `json:"s3_base_endpoint"`
	LogLevel             string          `json:"log_level"`
	LogFormat            string          `json:"log_format"`
	Currency             string          `json:"currency"`
	Locale               string          `json:"locale"`
}

func parseJson(cfg *Config, args []string) error {
	path := flagx.ConfigFile(args)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	setString(&cfg.StoreBackend, jc.StoreBackend)
	setString(&cfg.SQLiteDSN, jc.SQLiteDSN)
	setString(&cfg.PostgresDSN, jc.PostgresDSN)
	setString(&cfg.FirestoreProjectID, jc.FirestoreProjectID)
	setString(&cfg.FirestoreCredentials, jc.FirestoreCredentials)
	setString(&cfg.UsersCollection, jc.UsersCollection)
	setString(&cfg.ProductsCollection, jc.ProductsCollection)
	setString(&cfg.CartsCollection, jc.CartsCollection)
	setString(&cfg.LocalDBPath, jc.LocalDBPath)
	setString(&cfg.S3AccessKey, jc.S3AccessKey)
	setString(&cfg.S3SecretKey, jc.S3SecretKey)
	setString(&cfg.S3Bucket, jc.S3Bucket)
	setString(&cfg.S3Region, jc.S3Region)
	setString(&cfg.S3BaseEndpoint, jc.S3BaseEndpoint)
	setString(&cfg.LogLevel, jc.LogLevel)
	setString(&cfg.LogFormat, jc.LogFormat)
	setString(&cfg.Currency, jc.Currency)
	setString(&cfg.Locale, jc.Locale)

	if jc.RememberSession != nil {
		cfg.RememberSession = *jc.RememberSession
	}
	if jc.SessionTTL != nil {
		cfg.SessionTTL = jc.SessionTTL.Duration
	}
	return nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
