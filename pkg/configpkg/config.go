// Package configpkg provides parsing functionality for environment variables.
package configpkg

import (
	"time"

	"github.com/spf13/viper"
)

// Destination verification policies for transfers.
const (
	// VerifyDestinationStrict rejects same-bank transfers to unknown accounts.
	VerifyDestinationStrict = "strict"
	// VerifyDestinationLenient treats unknown destinations as external recipients.
	VerifyDestinationLenient = "lenient"
)

// Config stores all configuration of the application.
//
// The values are read by viper from a config file or environment variables.
type Config struct {
	DBDriver             string        `mapstructure:"DB_DRIVER"`
	DBSource             string        `mapstructure:"DB_SOURCE"`
	ServerAddress        string        `mapstructure:"SERVER_ADDRESS"`
	TokenScheme          string        `mapstructure:"TOKEN_SCHEME"`
	AccessTokenSecret    string        `mapstructure:"ACCESS_TOKEN_SECRET"`
	RefreshTokenSecret   string        `mapstructure:"REFRESH_TOKEN_SECRET"`
	AccessTokenDuration  time.Duration `mapstructure:"ACCESS_TOKEN_DURATION"`
	RefreshTokenDuration time.Duration `mapstructure:"REFRESH_TOKEN_DURATION"`
	VerifyDestination    string        `mapstructure:"VERIFY_DESTINATION"`
	Environment          string        `mapstructure:"GO_ENV"`
}

// Load reads configuration from file or environment variables.
func Load(path string) (Config, error) {
	var c Config

	viper.AddConfigPath(path)
	viper.SetConfigName("app")
	viper.SetConfigType("env")

	viper.AutomaticEnv()

	err := viper.ReadInConfig()
	if err != nil {
		return c, err
	}

	err = viper.Unmarshal(&c)
	if err != nil {
		return c, err
	}

	if c.VerifyDestination == "" {
		c.VerifyDestination = VerifyDestinationLenient
	}

	return c, nil
}
