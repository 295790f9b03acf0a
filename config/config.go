package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App     AppConfig
	DB      DBConfig
	Redis   RedisConfig
	JWT     JWTConfig
	CORS    CORSConfig
	Clinic  ClinicConfig
	Booking BookingConfig
}

type AppConfig struct {
	Port string
	Env  string
}

// IsDevelopment reports whether verbose logging should be enabled
func (c AppConfig) IsDevelopment() bool {
	return c.Env == "development"
}

type DBConfig struct {
	Host        string
	Port        string
	User        string
	Password    string
	Name        string
	SSLMode     string
	AutoMigrate bool
}

// DSN returns the libpq keyword/value connection string used by gorm
func (c DBConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		c.Host, c.User, c.Password, c.Name, c.Port, c.SSLMode,
	)
}

// URL returns the connection URL used by golang-migrate
func (c DBConfig) URL() string {
	return fmt.Sprintf(
		"pgx5://%s:%s@%s:%s/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.Name, c.SSLMode,
	)
}

type RedisConfig struct {
	Host         string
	Port         string
	Password     string
	DB           int
	SlotCacheTTL time.Duration
	CacheEnabled bool
}

type JWTConfig struct {
	Secret       string
	AccessExpiry time.Duration
}

type CORSConfig struct {
	AllowedOrigins []string
}

// ClinicConfig is the site-wide clinic information shared by every page and
// by the scheduling logic. All bookings are interpreted in Location.
type ClinicConfig struct {
	Name           string
	Phone          string
	Email          string
	Address        string
	HeroText       string
	Timezone       string
	Location       *time.Location
	ClosedWeekdays []time.Weekday
}

// IsClosedOn reports whether the clinic is closed on the given weekday
func (c ClinicConfig) IsClosedOn(day time.Weekday) bool {
	for _, closed := range c.ClosedWeekdays {
		if closed == day {
			return true
		}
	}
	return false
}

type BookingConfig struct {
	LookupLimit     int
	DefaultPageSize int
}

var weekdayNames = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

func LoadConfig() (*Config, error) {
	return LoadConfigFrom(".env")
}

// LoadConfigFrom reads the given env file if it exists, then overlays
// environment variables on top of it.
func LoadConfigFrom(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("env")
	v.AutomaticEnv()

	v.SetDefault("APP_PORT", "8080")
	v.SetDefault("APP_ENV", "production")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("REDIS_SLOT_CACHE_ENABLED", true)
	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")
	v.SetDefault("CLINIC_NAME", "NovaCare Physiotherapy")
	v.SetDefault("CLINIC_TIMEZONE", "Asia/Kolkata")
	v.SetDefault("CLINIC_CLOSED_WEEKDAYS", "sunday")
	v.SetDefault("BOOKING_LOOKUP_LIMIT", 10)
	v.SetDefault("BOOKING_PAGE_SIZE", 20)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	accessExpiry, err := time.ParseDuration(v.GetString("JWT_ACCESS_EXPIRY"))
	if err != nil {
		accessExpiry = 24 * time.Hour
	}

	slotCacheTTL, err := time.ParseDuration(v.GetString("REDIS_SLOT_CACHE_TTL"))
	if err != nil {
		slotCacheTTL = 10 * time.Minute
	}

	timezone := v.GetString("CLINIC_TIMEZONE")
	location, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid CLINIC_TIMEZONE %q: %w", timezone, err)
	}

	closedWeekdays, err := parseWeekdays(v.GetString("CLINIC_CLOSED_WEEKDAYS"))
	if err != nil {
		return nil, err
	}

	config := &Config{
		App: AppConfig{
			Port: v.GetString("APP_PORT"),
			Env:  v.GetString("APP_ENV"),
		},
		DB: DBConfig{
			Host:        v.GetString("DB_HOST"),
			Port:        v.GetString("DB_PORT"),
			User:        v.GetString("DB_USER"),
			Password:    v.GetString("DB_PASSWORD"),
			Name:        v.GetString("DB_NAME"),
			SSLMode:     v.GetString("DB_SSLMODE"),
			AutoMigrate: v.GetBool("DB_AUTO_MIGRATE"),
		},
		Redis: RedisConfig{
			Host:         v.GetString("REDIS_HOST"),
			Port:         v.GetString("REDIS_PORT"),
			Password:     v.GetString("REDIS_PASSWORD"),
			DB:           v.GetInt("REDIS_DB"),
			SlotCacheTTL: slotCacheTTL,
			CacheEnabled: v.GetBool("REDIS_SLOT_CACHE_ENABLED"),
		},
		JWT: JWTConfig{
			Secret:       v.GetString("JWT_SECRET"),
			AccessExpiry: accessExpiry,
		},
		CORS: CORSConfig{
			AllowedOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		},
		Clinic: ClinicConfig{
			Name:           v.GetString("CLINIC_NAME"),
			Phone:          v.GetString("CLINIC_PHONE"),
			Email:          v.GetString("CLINIC_EMAIL"),
			Address:        v.GetString("CLINIC_ADDRESS"),
			HeroText:       v.GetString("CLINIC_HERO_TEXT"),
			Timezone:       timezone,
			Location:       location,
			ClosedWeekdays: closedWeekdays,
		},
		Booking: BookingConfig{
			LookupLimit:     v.GetInt("BOOKING_LOOKUP_LIMIT"),
			DefaultPageSize: v.GetInt("BOOKING_PAGE_SIZE"),
		},
	}

	return config, nil
}

func parseWeekdays(raw string) ([]time.Weekday, error) {
	var days []time.Weekday
	for _, name := range splitList(raw) {
		day, ok := weekdayNames[strings.ToLower(name)]
		if !ok {
			return nil, fmt.Errorf("invalid weekday %q in CLINIC_CLOSED_WEEKDAYS", name)
		}
		days = append(days, day)
	}
	return days, nil
}

func splitList(raw string) []string {
	var items []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
