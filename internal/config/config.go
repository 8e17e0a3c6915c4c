package config

import "github.com/spf13/viper"

// Config carries everything the API reads from the environment. A .env
// file in the working directory is merged in by godotenv before Load runs
// (see cmd/api/main.go), so both deployment env vars and local dotfiles
// end up here.
type Config struct {
	MongoURI      string `mapstructure:"MONGO_URI"`
	MongoDatabase string `mapstructure:"MONGO_DATABASE"`
	APIPort       string `mapstructure:"API_PORT"`
	JWTSecret     string `mapstructure:"JWT_SECRET"`
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	CORSOrigin    string `mapstructure:"CORS_ORIGIN"`

	// Slot catalog bounds, "2006-01-02". Used by the seeder and the
	// admin catalog-init endpoint when the request omits a range.
	SlotRangeStart string `mapstructure:"SLOT_RANGE_START"`
	SlotRangeEnd   string `mapstructure:"SLOT_RANGE_END"`

	// Login/booking rate limit: requests per window per client IP.
	RateLimitRequests int `mapstructure:"RATE_LIMIT_REQUESTS"`
	RateLimitWindow   int `mapstructure:"RATE_LIMIT_WINDOW_SECONDS"`
}

func Load() (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("MONGO_URI", "mongodb://localhost:27017")
	v.SetDefault("MONGO_DATABASE", "vaccination")
	v.SetDefault("API_PORT", "8080")
	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("CORS_ORIGIN", "*")
	v.SetDefault("SLOT_RANGE_START", "2024-11-01")
	v.SetDefault("SLOT_RANGE_END", "2024-11-30")
	v.SetDefault("RATE_LIMIT_REQUESTS", 20)
	v.SetDefault("RATE_LIMIT_WINDOW_SECONDS", 60)

	// AutomaticEnv alone does not surface env vars through Unmarshal,
	// so bind each key explicitly.
	for _, key := range []string{
		"MONGO_URI", "MONGO_DATABASE", "API_PORT", "JWT_SECRET",
		"REDIS_ADDR", "CORS_ORIGIN", "SLOT_RANGE_START", "SLOT_RANGE_END",
		"RATE_LIMIT_REQUESTS", "RATE_LIMIT_WINDOW_SECONDS",
	} {
		if err := v.BindEnv(key); err != nil {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
