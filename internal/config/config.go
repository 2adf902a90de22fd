package config

import (
	"os"
	"strconv"
	"sync"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

type BotConfig struct {
	TelegramToken    string
	DatabaseURL      string
	OpenAIAPIKey     string
	OpenAIModel      string
	AttendanceChatID int64 // 0 - обрабатывать сообщения во всех чатах
	EnableChannelNLP bool
	DefaultTimezone  string
}

var instance *BotConfig
var once sync.Once

func GetBotConfig() *BotConfig {
	once.Do(func() {
		instance = &BotConfig{}

		if err := godotenv.Load(); err != nil {
			logrus.Infof("no .env file loaded: %s", err.Error())
		}

		instance.TelegramToken = getEnv("TELEGRAM_BOT_TOKEN", "")
		if instance.TelegramToken == "" {
			logrus.Fatal("could not get bot token")
		}

		instance.DatabaseURL = getEnv("DATABASE_URL", "attendance.db")

		instance.OpenAIAPIKey = getEnv("OPENAI_API_KEY", "")
		if instance.OpenAIAPIKey == "" {
			logrus.Fatal("could not get OpenAI API key")
		}

		instance.OpenAIModel = getEnv("OPENAI_MODEL", "gpt-4o-mini")
		instance.AttendanceChatID = getEnvAsInt("ATTENDANCE_CHAT_ID", 0)
		instance.EnableChannelNLP = getEnvAsBool("ENABLE_CHANNEL_NLP", true)
		instance.DefaultTimezone = getEnv("DEFAULT_TIMEZONE", "Asia/Tokyo")
	})

	return instance
}

func getEnv(key string, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}

	return defaultVal
}

func getEnvAsBool(name string, defaultVal bool) bool {
	valStr := getEnv(name, "")
	if val, err := strconv.ParseBool(valStr); err == nil {
		return val
	}

	return defaultVal
}

func getEnvAsInt(name string, defaultVal int64) int64 {
	valStr := getEnv(name, "")
	if val, err := strconv.Atoi(valStr); err == nil {
		return int64(val)
	}

	return defaultVal
}
