package config

import (
	"log/slog"
	"os"
	"strconv"
	"time"
	_ "time/tzdata" // 容器內可能沒有時區資料

	"github.com/joho/godotenv"
)

// 儲存後端
const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
)

// Config 從環境變數讀取
type Config struct {
	Port  string
	Store string // memory | postgres

	DBHost     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPort     string

	RedisAddr string // 空字串：不使用 Redis
	RedisPwd  string

	LineChannelToken  string
	LineChannelSecret string // 空字串：不驗簽
	LineAPIBaseURL    string
	LineRatePerSecond float64

	APIToken     string // 空字串：不開 /api
	Location     *time.Location
	WebOrigin    string
	NameCacheTTL time.Duration
}

// LoadEnv 讀 .env；檔案不存在時忽略
func LoadEnv() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn("load .env failed", "err", err)
	}
}

func get(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}

func Load() (Config, error) {
	tz := get("BOT_TIMEZONE", "Asia/Taipei")
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return Config{}, err
	}

	ttl := 6 * time.Hour
	if n, err := strconv.Atoi(get("NAME_CACHE_TTL_SECONDS", "21600")); err == nil && n > 0 {
		ttl = time.Duration(n) * time.Second
	}

	rate := 20.0
	if f, err := strconv.ParseFloat(get("LINE_RATE_PER_SECOND", "20"), 64); err == nil && f > 0 {
		rate = f
	}

	return Config{
		Port:  get("PORT", "3001"),
		Store: get("STORE", StoreMemory),

		DBHost:     get("DB_HOST", "127.0.0.1"),
		DBUser:     get("DB_USER", "postgres"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     get("DB_NAME", "linebot"),
		DBPort:     get("DB_PORT", "5432"),

		RedisAddr: os.Getenv("REDIS_ADDR"),
		RedisPwd:  os.Getenv("REDIS_PASSWORD"),

		LineChannelToken:  os.Getenv("LINE_CHANNEL_TOKEN"),
		LineChannelSecret: os.Getenv("LINE_CHANNEL_SECRET"),
		LineAPIBaseURL:    get("LINE_API_BASE_URL", "https://api.line.me"),
		LineRatePerSecond: rate,

		APIToken:     os.Getenv("API_TOKEN"),
		Location:     loc,
		WebOrigin:    get("WEB_ORIGIN", "http://localhost:5173"),
		NameCacheTTL: ttl,
	}, nil
}
