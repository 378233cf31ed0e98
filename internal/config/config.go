package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/m04kA/SMC-ClinicBoxService/internal/domain"
	"github.com/m04kA/SMC-ClinicBoxService/pkg/localtime"
	"github.com/m04kA/SMC-ClinicBoxService/pkg/types"
)

// ErrInvalidConfig возвращается, если значения конфигурации противоречивы
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Config конфигурация сервиса
type Config struct {
	Server        ServerConfig        `toml:"server"`
	Database      DatabaseConfig      `toml:"database"`
	Logs          LogsConfig          `toml:"logs"`
	Metrics       MetricsConfig       `toml:"metrics"`
	Schedule      ScheduleConfig      `toml:"schedule"`
	BusinessHours BusinessHoursConfig `toml:"business_hours"`
	Import        ImportConfig        `toml:"import"`
	Redis         RedisConfig         `toml:"redis"`
	Events        EventsConfig        `toml:"events"`
}

// ServerConfig настройки HTTP-сервера (таймауты в секундах)
type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`
	WriteTimeout    int `toml:"write_timeout"`
	IdleTimeout     int `toml:"idle_timeout"`
	ShutdownTimeout int `toml:"shutdown_timeout"`
}

// DatabaseConfig подключение к PostgreSQL
type DatabaseConfig struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"`
}

// DSN строка подключения для lib/pq
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

// LogsConfig настройки логирования
type LogsConfig struct {
	File  string `toml:"file"`
	Level string `toml:"level"`
}

// MetricsConfig настройки Prometheus
type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

// ScheduleConfig параметры сетки и бронирования
type ScheduleConfig struct {
	Timezone            string `toml:"timezone"`
	SlotDurationMinutes int    `toml:"slot_duration_minutes"`
	DayStart            string `toml:"day_start"`
	DayEnd              string `toml:"day_end"`
	MaxRecurrenceDays   int    `toml:"max_recurrence_days"`
	StrictConflictCheck bool   `toml:"strict_conflict_check"`
	LockTTLSeconds      int    `toml:"lock_ttl_seconds"`
}

// DayHoursConfig часы работы одного дня
type DayHoursConfig struct {
	IsOpen    bool `toml:"is_open"`
	OpenHour  int  `toml:"open_hour"`
	CloseHour int  `toml:"close_hour"`
}

// BusinessHoursConfig часы работы организации; weekdays покрывает понедельник–четверг
type BusinessHoursConfig struct {
	Weekdays *DayHoursConfig `toml:"weekdays"`
	Friday   *DayHoursConfig `toml:"friday"`
	Saturday *DayHoursConfig `toml:"saturday"`
	Sunday   *DayHoursConfig `toml:"sunday"`
}

// ImportConfig параметры пакетного импорта и восстановления данных
type ImportConfig struct {
	BatchSize        int `toml:"batch_size"`
	BatchPauseMillis int `toml:"batch_pause_ms"`
	RescueBatchSize  int `toml:"rescue_batch_size"`
	RescuePauseMs    int `toml:"rescue_pause_ms"`
}

// RedisConfig подключение к Redis для строгой проверки конфликтов
type RedisConfig struct {
	Enabled  bool   `toml:"enabled"`
	Addr     string `toml:"addr"`
	Username string `toml:"username"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

// EventsConfig публикация событий в RabbitMQ
type EventsConfig struct {
	Enabled bool   `toml:"enabled"`
	URL     string `toml:"url"`
	Queue   string `toml:"queue"`
}

// Load читает TOML-файл, затем переменные окружения (и .env, если он есть)
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("config: decode %s: %w", path, err)
	}

	// .env необязателен
	_ = godotenv.Load()
	applyEnv(cfg)

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Path путь к конфигу: CONFIG_PATH или config.toml
func Path() string {
	_ = godotenv.Load()
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		return p
	}
	return "config.toml"
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("DB_HOST"); v != "" {
		cfg.Database.Host = v
	}
	if v := os.Getenv("DB_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Database.Port = port
		}
	}
	if v := os.Getenv("DB_USER"); v != "" {
		cfg.Database.User = v
	}
	if v := os.Getenv("DB_PASSWORD"); v != "" {
		cfg.Database.Password = v
	}
	if v := os.Getenv("DB_NAME"); v != "" {
		cfg.Database.DBName = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.Redis.Addr = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		cfg.Redis.Password = v
	}
	if v := os.Getenv("AMQP_URL"); v != "" {
		cfg.Events.URL = v
	}
	if v := os.Getenv("ORG_TIMEZONE"); v != "" {
		cfg.Schedule.Timezone = v
	}
}

func (c *Config) applyDefaults() {
	if c.Server.HTTPPort == 0 {
		c.Server.HTTPPort = 8080
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 15
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 60
	}
	if c.Server.IdleTimeout == 0 {
		c.Server.IdleTimeout = 60
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 10
	}

	if c.Database.Port == 0 {
		c.Database.Port = 5432
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "disable"
	}
	if c.Database.MaxOpenConns == 0 {
		c.Database.MaxOpenConns = 25
	}
	if c.Database.MaxIdleConns == 0 {
		c.Database.MaxIdleConns = 5
	}
	if c.Database.ConnMaxLifetime == 0 {
		c.Database.ConnMaxLifetime = 300
	}

	if c.Logs.Level == "" {
		c.Logs.Level = "info"
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = "/metrics"
	}
	if c.Metrics.ServiceName == "" {
		c.Metrics.ServiceName = "clinic-box-service"
	}

	if c.Schedule.Timezone == "" {
		c.Schedule.Timezone = localtime.DefaultZoneName
	}
	if c.Schedule.SlotDurationMinutes == 0 {
		c.Schedule.SlotDurationMinutes = domain.SlotDurationMinutes
	}
	if c.Schedule.DayStart == "" {
		c.Schedule.DayStart = domain.DefaultDayStart.String()
	}
	if c.Schedule.DayEnd == "" {
		c.Schedule.DayEnd = domain.DefaultDayEnd.String()
	}
	if c.Schedule.MaxRecurrenceDays == 0 {
		c.Schedule.MaxRecurrenceDays = domain.DefaultMaxRecurrenceDays
	}
	if c.Schedule.LockTTLSeconds == 0 {
		c.Schedule.LockTTLSeconds = 30
	}

	defaults := domain.DefaultBusinessHours()
	if c.BusinessHours.Weekdays == nil {
		c.BusinessHours.Weekdays = fromDomain(defaults.Weekdays)
	}
	if c.BusinessHours.Friday == nil {
		c.BusinessHours.Friday = fromDomain(defaults.Friday)
	}
	if c.BusinessHours.Saturday == nil {
		c.BusinessHours.Saturday = fromDomain(defaults.Saturday)
	}
	if c.BusinessHours.Sunday == nil {
		c.BusinessHours.Sunday = fromDomain(defaults.Sunday)
	}

	if c.Import.BatchSize == 0 {
		c.Import.BatchSize = 400
	}
	if c.Import.BatchPauseMillis == 0 {
		c.Import.BatchPauseMillis = 1000
	}
	if c.Import.RescueBatchSize == 0 {
		c.Import.RescueBatchSize = 400
	}
	if c.Import.RescuePauseMs == 0 {
		c.Import.RescuePauseMs = 500
	}

	if c.Redis.Addr == "" {
		c.Redis.Addr = "localhost:6379"
	}
	if c.Events.Queue == "" {
		c.Events.Queue = "clinic.reservations"
	}
}

// Validate проверяет согласованность значений
func (c *Config) Validate() error {
	if _, err := localtime.NewZone(c.Schedule.Timezone); err != nil {
		return fmt.Errorf("%w: schedule.timezone: %v", ErrInvalidConfig, err)
	}
	if c.Schedule.SlotDurationMinutes <= 0 || 60%c.Schedule.SlotDurationMinutes != 0 {
		return fmt.Errorf("%w: schedule.slot_duration_minutes must divide an hour", ErrInvalidConfig)
	}
	start, err := types.NewTimeStringFromString(c.Schedule.DayStart)
	if err != nil {
		return fmt.Errorf("%w: schedule.day_start: %v", ErrInvalidConfig, err)
	}
	end, err := types.NewTimeStringFromString(c.Schedule.DayEnd)
	if err != nil {
		return fmt.Errorf("%w: schedule.day_end: %v", ErrInvalidConfig, err)
	}
	if !start.IsBefore(end) {
		return fmt.Errorf("%w: schedule.day_start must be before day_end", ErrInvalidConfig)
	}
	if c.Schedule.MaxRecurrenceDays < 0 {
		return fmt.Errorf("%w: schedule.max_recurrence_days must not be negative", ErrInvalidConfig)
	}
	if c.Import.BatchSize <= 0 || c.Import.RescueBatchSize <= 0 {
		return fmt.Errorf("%w: import batch sizes must be positive", ErrInvalidConfig)
	}
	if c.Schedule.StrictConflictCheck && !c.Redis.Enabled {
		return fmt.Errorf("%w: schedule.strict_conflict_check requires redis.enabled", ErrInvalidConfig)
	}
	if c.Events.Enabled && c.Events.URL == "" {
		return fmt.Errorf("%w: events.url is required when events are enabled", ErrInvalidConfig)
	}
	for name, d := range map[string]*DayHoursConfig{
		"weekdays": c.BusinessHours.Weekdays,
		"friday":   c.BusinessHours.Friday,
		"saturday": c.BusinessHours.Saturday,
		"sunday":   c.BusinessHours.Sunday,
	} {
		if d.OpenHour < 0 || d.CloseHour > 24 || (d.IsOpen && d.CloseHour <= d.OpenHour) {
			return fmt.Errorf("%w: business_hours.%s has invalid hours", ErrInvalidConfig, name)
		}
	}
	return nil
}

// Zone часовой пояс организации
func (c *Config) Zone() *localtime.Zone {
	return localtime.MustZone(c.Schedule.Timezone)
}

// DayWindow окно сетки дня
func (c *Config) DayWindow() (types.TimeString, types.TimeString) {
	return types.MustTimeString(c.Schedule.DayStart), types.MustTimeString(c.Schedule.DayEnd)
}

// Hours часы работы в доменной модели
func (c *Config) Hours() domain.BusinessHours {
	return domain.BusinessHours{
		Weekdays: c.BusinessHours.Weekdays.toDomain(),
		Friday:   c.BusinessHours.Friday.toDomain(),
		Saturday: c.BusinessHours.Saturday.toDomain(),
		Sunday:   c.BusinessHours.Sunday.toDomain(),
	}
}

// BatchPause пауза между пакетами импорта
func (c *Config) BatchPause() time.Duration {
	return time.Duration(c.Import.BatchPauseMillis) * time.Millisecond
}

// RescuePause пауза между пакетами восстановления
func (c *Config) RescuePause() time.Duration {
	return time.Duration(c.Import.RescuePauseMs) * time.Millisecond
}

// LockTTL время жизни блокировки слота
func (c *Config) LockTTL() time.Duration {
	return time.Duration(c.Schedule.LockTTLSeconds) * time.Second
}

func (d *DayHoursConfig) toDomain() domain.DayHours {
	return domain.DayHours{IsOpen: d.IsOpen, OpenHour: d.OpenHour, CloseHour: d.CloseHour}
}

func fromDomain(d domain.DayHours) *DayHoursConfig {
	return &DayHoursConfig{IsOpen: d.IsOpen, OpenHour: d.OpenHour, CloseHour: d.CloseHour}
}
