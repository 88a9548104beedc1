package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cast"
)

type Config struct {
	ServiceName string
	LoggerLevel string

	AppPort int

	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string

	WhatsAppToken         string
	WhatsAppPhoneNumberID string
	WhatsAppVerifyToken   string
	WhatsAppAPIURL        string

	PropertyAddress string

	// TermsDocument is an https URL in "link" mode, a file store path in
	// "signed" mode.
	TermsDocument string
	// TermsMode "link" sends the terms as a link with an accept button,
	// "signed" requires the user to upload a hand-signed PDF of the form.
	TermsMode string

	MinBid          int64
	MaxBid          int64
	MinBidIncrement int64

	SignupStart  time.Time
	SignupEnd    time.Time
	AuctionStart time.Time
	AuctionEnd   time.Time

	IdleTimeout time.Duration
	Location    *time.Location

	NotifyTemplate string
	FileStoreRoot  string
	FileSecret     string
	PublicBaseURL  string
}

func Load() Config {
	_ = godotenv.Load(".env")

	cfg := Config{}

	cfg.ServiceName = cast.ToString(getOrReturnDefault("SERVICE_NAME", "subastabot"))
	cfg.LoggerLevel = cast.ToString(getOrReturnDefault("LOGGER_LEVEL", "debug"))
	cfg.AppPort = cast.ToInt(getOrReturnDefault("APP_PORT", 8080))

	cfg.PostgresHost = cast.ToString(getOrReturnDefault("POSTGRES_HOST", "localhost"))
	cfg.PostgresPort = cast.ToString(getOrReturnDefault("POSTGRES_PORT", "5432"))
	cfg.PostgresUser = cast.ToString(getOrReturnDefault("POSTGRES_USER", "postgres"))
	cfg.PostgresPassword = cast.ToString(getOrReturnDefault("POSTGRES_PASSWORD", "1234"))
	cfg.PostgresDB = cast.ToString(getOrReturnDefault("POSTGRES_DB", "subastabot"))

	cfg.WhatsAppToken = cast.ToString(getOrReturnDefault("WHATSAPP_ACCESS_TOKEN", ""))
	cfg.WhatsAppPhoneNumberID = cast.ToString(getOrReturnDefault("WHATSAPP_PHONE_NUMBER_ID", ""))
	cfg.WhatsAppVerifyToken = cast.ToString(getOrReturnDefault("WHATSAPP_VERIFY_TOKEN", ""))
	cfg.WhatsAppAPIURL = cast.ToString(getOrReturnDefault("WHATSAPP_API_URL", "https://graph.facebook.com/v22.0"))

	cfg.PropertyAddress = cast.ToString(getOrReturnDefault("PROPERTY_ADDRESS", ""))
	cfg.TermsDocument = cast.ToString(getOrReturnDefault("TERMS_AND_CONDITIONS", ""))
	cfg.TermsMode = cast.ToString(getOrReturnDefault("TERMS_MODE", "link"))

	cfg.MinBid = cast.ToInt64(getOrReturnDefault("MIN_BID", 1000000))
	cfg.MaxBid = cast.ToInt64(getOrReturnDefault("MAX_BID", 10000000))
	cfg.MinBidIncrement = cast.ToInt64(getOrReturnDefault("MIN_BID_DIFFERENCE", 100000))

	tz := cast.ToString(getOrReturnDefault("TIMEZONE", "America/Bogota"))
	loc, err := time.LoadLocation(tz)
	if err != nil {
		loc = time.UTC
	}
	cfg.Location = loc

	cfg.SignupStart = parseHour(getOrReturnDefault("SIGNUP_INITIAL_HOUR", ""), loc)
	cfg.SignupEnd = parseHour(getOrReturnDefault("SIGNUP_FINAL_HOUR", ""), loc)
	cfg.AuctionStart = parseHour(getOrReturnDefault("INITIAL_HOUR", ""), loc)
	cfg.AuctionEnd = parseHour(getOrReturnDefault("FINAL_HOUR", ""), loc)

	cfg.IdleTimeout = time.Duration(cast.ToInt64(getOrReturnDefault("IDLE_TIMEOUT_SECONDS", 900))) * time.Second

	cfg.NotifyTemplate = cast.ToString(getOrReturnDefault("NOTIFY_TEMPLATE", "new_offer"))
	cfg.FileStoreRoot = cast.ToString(getOrReturnDefault("FILE_STORE_ROOT", "./data/files"))
	cfg.FileSecret = cast.ToString(getOrReturnDefault("FILE_SECRET", ""))
	cfg.PublicBaseURL = cast.ToString(getOrReturnDefault("PUBLIC_BASE_URL", "http://localhost:8080"))

	return cfg
}

func parseHour(value interface{}, loc *time.Location) time.Time {
	s := cast.ToString(value)
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t.In(loc)
}

func getOrReturnDefault(key string, defaultValue interface{}) interface{} {
	value := os.Getenv(key)
	if value != "" {
		return value
	}
	return defaultValue
}
