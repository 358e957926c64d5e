package app

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/DubuqueMainStreet/DFM-V2-sub000/internal/config"
	"github.com/DubuqueMainStreet/DFM-V2-sub000/internal/db"
	"github.com/DubuqueMainStreet/DFM-V2-sub000/internal/logger"
	"github.com/DubuqueMainStreet/DFM-V2-sub000/internal/repository/dao"
)

const defaultConfigPath = "./cmd/app/config.yml"

// bootstrap loads config, installs the logger and opens the database.
func bootstrap(configPath string) (*config.AppConfig, *gorm.DB, error) {
	conf, err := config.Load(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize config -> %w", err)
	}

	if err = logger.Init(conf.API.Environment, conf.Logger); err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger -> %w", err)
	}

	dbURL := os.Getenv("DATABASE_URL")
	var postgresDB *gorm.DB
	if dbURL != "" {
		postgresDB, err = db.OpenPostgresWithURL(dbURL)
	} else {
		postgresDB, err = db.OpenPostgres(conf.Postgres)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize database -> %w", err)
	}

	if err = dao.InitTables(postgresDB); err != nil {
		return nil, nil, fmt.Errorf("failed to migrate database -> %w", err)
	}

	zap.L().Debug("database ready")

	return conf, postgresDB, nil
}
