package core

import (
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

var Conf *viper.Viper

func init() {
	Conf = viper.New()

	// defaults
	Conf.SetTypeByDefaultValue(true)
	Conf.SetDefault("debug", true)
	Conf.SetDefault("appName", "Escolar")
	Conf.SetDefault("serverAddr", ":8000")
	Conf.SetDefault("tokenCookieName", "token")
	Conf.SetDefault("tokenExpirationDelta", time.Hour)

	// the token signing key has no default on purpose: it must come from the
	// environment. apps refuse to start when it is empty outside test mode.
	Conf.SetDefault("secretKey", "")

	Conf.SetDefault("rollbarToken", "")

	// database
	Conf.SetDefault("dbHost", "localhost")
	Conf.SetDefault("dbPort", "5432")
	Conf.SetDefault("dbUser", "postgres")
	Conf.SetDefault("dbPassword", "")
	Conf.SetDefault("dbName", "escolar")
	Conf.SetDefault("dbSSLMode", "disable")

	env := os.Getenv("ENV") // DEV (local; default), TEST, QA, PROD
	switch env {
	case "":
		env = "DEV"
	case strings.ToUpper("TEST"):
		Conf.SetDefault("testMode", true)
	}
	Conf.SetDefault("env", env)
	Conf.SetEnvPrefix(env)

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join(Getwd(), "config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
	Conf.AutomaticEnv()
}

// DatabaseDSN assembles the Postgres DSN from the individual db* settings.
func DatabaseDSN() string {
	parts := []string{
		"host=" + Conf.GetString("dbHost"),
		"port=" + Conf.GetString("dbPort"),
		"user=" + Conf.GetString("dbUser"),
		"password=" + Conf.GetString("dbPassword"),
		"dbname=" + Conf.GetString("dbName"),
		"sslmode=" + Conf.GetString("dbSSLMode"),
		"TimeZone=UTC",
	}
	return strings.Join(parts, " ")
}
