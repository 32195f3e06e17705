package webapp

import (
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/NERSC/lustre-design-analysis/app"
	"github.com/NERSC/lustre-design-analysis/models"
)

type WebApp struct {
	Router     http.Handler
	AppConfig  *models.AppConfig
	ConfigPath string
}

func (webapp *WebApp) ReloadConfiguration() {
	configPath := webapp.ConfigPath
	if configPath == "" {
		configPath = "analysis.yaml"
	}
	cfg, err := app.LoadConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	webapp.AppConfig = cfg
	log.Printf("Configuration loaded from %s (database: %s)", configPath, cfg.Database)
}

func (webapp *WebApp) GetListenAddr() string {
	port := 8080
	if webapp.AppConfig != nil && webapp.AppConfig.Server.Port > 0 {
		port = webapp.AppConfig.Server.Port
	}
	return fmt.Sprintf(":%d", port)
}

func (webapp *WebApp) GetRouter() http.Handler {
	return router(webapp)
}
