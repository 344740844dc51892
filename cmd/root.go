package cmd

import (
	"errors"
	"io/fs"
	"log"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	app = "resume-matcher"
)

type Config struct {
	Store     *StoreConfig     `mapstructure:"store" validate:"required"`
	AI        *AIConfig        `mapstructure:"ai" validate:"required"`
	Match     *MatchConfig     `mapstructure:"match" validate:"required"`
	Recommend *RecommendConfig `mapstructure:"recommend" validate:"required"`
}

type StoreConfig struct {
	Driver          string        `mapstructure:"driver" validate:"oneof=memory postgres"`
	DatabaseURL     string        `mapstructure:"database-url"`
	DatabaseURLFile string        `mapstructure:"database-url-file"`
	Timeout         time.Duration `mapstructure:"timeout" validate:"gte=0"`
}

type AIConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Provider string        `mapstructure:"provider" validate:"omitempty,oneof=gemini"`
	Gemini   *GeminiConfig `mapstructure:"gemini" validate:"required_if=Enabled true"`
}

type GeminiConfig struct {
	APIKey       string `mapstructure:"api-key"`
	APIKeyFile   string `mapstructure:"api-key-file"`
	Model        string `mapstructure:"model"`
	MaxRetries   int    `mapstructure:"max-retries" validate:"gte=0"`
	MaxLogLength int    `mapstructure:"max-log-length" validate:"gte=0"`
}

type MatchConfig struct {
	Concurrency    int           `mapstructure:"concurrency" validate:"gte=0"`
	JobTimeout     time.Duration `mapstructure:"job-timeout" validate:"gte=0"`
	JudgeTimeout   time.Duration `mapstructure:"judge-timeout" validate:"gte=0"`
	PersistTimeout time.Duration `mapstructure:"persist-timeout" validate:"gte=0"`
}

type RecommendConfig struct {
	SectionThreshold float64 `mapstructure:"section-threshold" validate:"gte=0,lte=1"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "resume-matcher scores a resume against job postings and suggests how to improve it",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	envs := map[string]string{
		"store.database-url-file": "DATABASE_URL_FILE",
		"ai.gemini.api-key-file":  "GEMINI_API_KEY_FILE",
	}
	for key, env := range envs {
		if err := viper.BindEnv(key, env); err != nil {
			log.Fatalf("binding %s environment variable: %v", env, err)
		}
	}

	viper.SetDefault("store.driver", "memory")
	viper.SetDefault("store.timeout", 5*time.Second)
	viper.SetDefault("ai.enabled", true)
	viper.SetDefault("ai.provider", "gemini")
	viper.SetDefault("ai.gemini.model", "gemini-2.5-flash")
	viper.SetDefault("ai.gemini.max-retries", 2)
	viper.SetDefault("ai.gemini.max-log-length", 200)
	viper.SetDefault("match.concurrency", 4)
	viper.SetDefault("match.job-timeout", 60*time.Second)
	viper.SetDefault("match.judge-timeout", 45*time.Second)
	viper.SetDefault("match.persist-timeout", 10*time.Second)
	viper.SetDefault("recommend.section-threshold", 0.8)

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is resume-matcher.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func initConfig() {
	// Config needed only for match command. If it is not called, we can skip initialization
	if matchCmd.CalledAs() == "" {
		return
	}

	// .env is optional; variables already set in the environment win.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Fatalf("loading .env file: %v", err)
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app)
		viper.SetConfigType("yaml")
	}

	// Defaults are enough when there is no config file in the current directory.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			log.Fatal(err)
		}
	}
}

func getConfig() (*Config, error) {
	var config *Config
	if err := viper.Unmarshal(&config); err != nil {
		return config, err
	}

	if err := validator.New(validator.WithRequiredStructEnabled()).Struct(config); err != nil {
		return config, err
	}

	return config, nil
}
