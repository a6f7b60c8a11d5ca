// @title EduAnalytics 后端 API
// @version 1.0
// @description 学生技能熟练度分析服务的后端服务器。

// @contact.name API支持

// @host localhost:8080
// @BasePath /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

package main

import (
	"edu_analytics_backend/internal/app"
	"edu_analytics_backend/internal/config"
	"edu_analytics_backend/pkg/configwatcher"
	"edu_analytics_backend/pkg/logger"
	"flag"
	"log"
	"path/filepath"
)

func main() {
	configPath := flag.String("config", "configs", "配置文件目录")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	application := app.NewApp(cfg)
	defer logger.Log.Sync()

	// 监听配置文件变化，支持热更新
	go configwatcher.WatchConfig(filepath.Join(*configPath, "config.yaml"), cfg, func(raw interface{}) {
		if newCfg, ok := raw.(*config.Config); ok {
			application.ApplyConfig(newCfg)
		}
	})

	application.Run()
}
