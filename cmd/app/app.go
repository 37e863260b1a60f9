package app

import (
	"fmt"
	"os"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/KellenSmith/TaskMaster-sub001/internal/api"
	"github.com/KellenSmith/TaskMaster-sub001/internal/config"
	"github.com/KellenSmith/TaskMaster-sub001/internal/db"
	"github.com/KellenSmith/TaskMaster-sub001/internal/logger"
	"github.com/KellenSmith/TaskMaster-sub001/internal/mailer"
	"github.com/KellenSmith/TaskMaster-sub001/internal/repository/dao"
	"github.com/KellenSmith/TaskMaster-sub001/internal/swish"
)

func Start() error {
	conf, err := config.Load("./cmd/app/config.yml")
	if err != nil {
		return fmt.Errorf("failed to initialize config -> %w", err)
	}

	if err = logger.Init(conf.API.Environment); err != nil {
		return fmt.Errorf("failed to initialize logger -> %w", err)
	}

	dbURL := os.Getenv("DATABASE_URL")
	var postgresDB *gorm.DB
	if dbURL != "" {
		postgresDB, err = db.OpenPostgresWithURL(dbURL)
	} else {
		postgresDB, err = db.OpenPostgres(conf.Postgres)
	}
	if err != nil {
		return fmt.Errorf("failed to initialize database -> %w", err)
	}

	if err = dao.InitTables(postgresDB); err != nil {
		return fmt.Errorf("failed to migrate tables -> %w", err)
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     conf.Redis.Addr,
		Password: conf.Redis.Password,
		DB:       conf.Redis.DB,
	})

	swishClient, err := swish.NewClient(conf.Swish)
	if err != nil {
		return fmt.Errorf("failed to initialize swish client -> %w", err)
	}

	m := mailer.NewSMTPMailer(conf.SMTP)

	s := api.NewServer(conf, postgresDB, redisClient, m, swishClient)

	addr := ":" + s.Config.API.Port
	zap.L().Info(fmt.Sprintf("starting server at %v", addr))
	if err = s.Router.Run(addr); err != nil {
		return fmt.Errorf("failed to start the server -> %w", err)
	}

	return nil
}
