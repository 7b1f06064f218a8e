// config/config.go
package config

import (
	"log"

	"github.com/spf13/viper"
)

// Configuration holds the settings read through GetConfig. The db package
// configures its own connections from viper directly, so Neo4j and Redis
// settings are not mirrored here.
type Configuration struct {
	Server        ServerConfiguration
	Elasticsearch ElasticsearchConfiguration
	PDP           PDPConfiguration
}

// ServerConfiguration stores the port and other web server settings
type ServerConfiguration struct {
	Port string
}

// ElasticsearchConfiguration stores data for Elasticsearch connection
type ElasticsearchConfiguration struct {
	URL string
}

// PDPConfiguration stores evaluation engine settings
type PDPConfiguration struct {
	DecisionIndex string
	ExportLimit   int
}

var config *Configuration

func InitConfig() error {
	viper.AddConfigPath("config")
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	viper.AutomaticEnv()

	viper.SetDefault("server.port", "8080")
	viper.SetDefault("neo4j.uri", "bolt://localhost:7687")
	viper.SetDefault("redis.addr", "localhost:6379")
	viper.SetDefault("redis.defaultCacheTTL", "10m")
	viper.SetDefault("elasticsearch.url", "http://localhost:9200")
	viper.SetDefault("pdp.decisionIndex", "abac-decision-logs")
	viper.SetDefault("pdp.exportLimit", 1000)
	viper.SetDefault("auth.jwtSecret", "dev-only-secret")
	viper.SetDefault("rateLimit.requests", 100)
	viper.SetDefault("rateLimit.duration", "1m")
	viper.SetDefault("log.dir", "logging")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			log.Println("No config file found. Using default settings and environment variables.")
		} else {
			return err
		}
	}

	if err := viper.Unmarshal(&config); err != nil {
		return err
	}

	return nil
}

// GetConfig returns the loaded configuration
func GetConfig() *Configuration {
	return config
}

// GetString retrieves a string value from the configuration
func GetString(key string) string {
	return viper.GetString(key)
}

// GetInt retrieves an integer value from the configuration
func GetInt(key string) int {
	return viper.GetInt(key)
}

// GetBool retrieves a boolean value from the configuration
func GetBool(key string) bool {
	return viper.GetBool(key)
}
