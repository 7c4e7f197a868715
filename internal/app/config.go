package app

import (
	"github.com/platefeed/platefeed-backend/internal/platform/logger"
	"github.com/platefeed/platefeed-backend/internal/utils"
)

type Config struct {
	AppPort          string
	PublicBaseURL    string
	PageSize         int
	MediaStorageMode string
	MediaRoot        string
}

func LoadConfig(log *logger.Logger) Config {
	appPort := utils.GetEnv("APP_PORT", "8080", log)
	publicBaseURL := utils.GetEnv("PUBLIC_BASE_URL", "http://localhost:8080", log)
	pageSize := utils.GetEnvAsInt("PAGE_SIZE", 6, log)
	mediaStorageMode := utils.GetEnv("MEDIA_STORAGE_MODE", "local", log)
	mediaRoot := utils.GetEnv("MEDIA_ROOT", "./media", log)
	return Config{
		AppPort:          appPort,
		PublicBaseURL:    publicBaseURL,
		PageSize:         pageSize,
		MediaStorageMode: mediaStorageMode,
		MediaRoot:        mediaRoot,
	}
}
