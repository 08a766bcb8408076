// 手动触发作答过期扫描脚本
//
// 主应用按 attempt.sweep_interval_seconds 定时执行同样的扫描，
// 此脚本用于关闭后台扫描的部署或运维排查时手动执行一次。
//
// 用法: go run scripts/sweep_attempts.go [-config configs/config.yaml]

package main

import (
	"classquiz_backend/internal/config"
	"classquiz_backend/internal/repository"
	"classquiz_backend/internal/service"
	"classquiz_backend/pkg/database"
	"classquiz_backend/pkg/logger"
	"context"
	"flag"
	"log"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// sweepConfig 只解析脚本需要的配置段
type sweepConfig struct {
	Server   config.ServerConfig   `yaml:"server"`
	Database config.DatabaseConfig `yaml:"database"`
}

func main() {
	path := flag.String("config", "configs/config.yaml", "配置文件路径")
	flag.Parse()

	data, err := os.ReadFile(*path)
	if err != nil {
		log.Fatalf("无法读取配置文件: %v", err)
	}

	var sc sweepConfig
	if err := yaml.Unmarshal(data, &sc); err != nil {
		log.Fatalf("解析配置文件失败: %v", err)
	}

	cfg := &config.Config{Server: sc.Server, Database: sc.Database}
	logger.InitLogger(cfg)
	defer logger.Log.Sync()

	db, err := database.InitDB(&cfg.Database, false)
	if err != nil {
		log.Fatalf("数据库连接失败: %v", err)
	}

	attempts := repository.NewAttemptRepository(db)
	quizzes := repository.NewQuizRepository(db)
	courses := repository.NewCourseRepository(db)
	svc := service.NewAttemptService(quizzes, courses, quizzes, attempts, nil, nil, nil)

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	log.Println("手动触发作答过期扫描...")
	n, err := svc.SweepExpired(ctx)
	if err != nil {
		log.Fatalf("扫描失败: %v", err)
	}
	log.Printf("完成！共 %d 条作答置为过期", n)
}
