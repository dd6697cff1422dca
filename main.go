// @title           iCare Monitoring Service API
// @version         1.0
// @description     Hospital fall monitoring backend: fall alerts, face detection log and patient directory
// @termsOfService  http://swagger.io/terms/

// @contact.name   API Support

// @license.name  Apache 2.0
// @license.url   http://www.apache.org/licenses/LICENSE-2.0.html

// @host      localhost:5000
// @BasePath  /api
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"icare-http-service/config"
	"icare-http-service/models"
	"icare-http-service/routes"
)

func main() {
	if err := config.SetupLogger(); err != nil {
		fmt.Printf("failed to set up logging: %v\n", err)
		os.Exit(1)
	}

	// Environment variables may also come from the deployment, so a
	// missing .env file is not fatal
	if err := godotenv.Load(); err != nil {
		config.Warning("no .env file loaded: %v", err)
	} else {
		config.Info(".env file loaded")
	}

	cfg := config.GetConfig()

	db, err := initDB(cfg)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	switch cfg.DBMigrationMode {
	case "drop":
		log.Println("WARNING: running in drop mode, all tables will be dropped and recreated")
		if err := dropAndRecreateTables(db); err != nil {
			log.Fatalf("drop and recreate failed: %v", err)
		}
	default:
		if err := autoMigrate(db); err != nil {
			log.Fatalf("migration failed: %v", err)
		}
	}

	redisClient := newRedisClient(cfg)

	r := routes.SetupRouter(db, cfg, redisClient)

	port := cfg.ServerPort
	config.Info("server listening on http://localhost:%s", port)
	if err := r.Run(":" + port); err != nil {
		config.Error("server exited: %v", err)
		os.Exit(1)
	}
}

// initDB opens the MySQL connection
func initDB(cfg *config.Config) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(cfg.GetDSN()), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	config.Info("database connection established")
	return db, nil
}

// newRedisClient builds the optional cache client. The container probes
// it and runs without caching when it is unreachable.
func newRedisClient(cfg *config.Config) *redis.Client {
	if cfg.RedisHost == "" {
		return nil
	}
	return redis.NewClient(&redis.Options{
		Addr: cfg.GetRedisAddr(),
		DB:   cfg.RedisDB,
	})
}

// autoMigrate adds new tables and columns; it never drops anything
func autoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.Patient{},
		&models.FallAlert{},
		&models.DetectionRecord{},
		&models.FaceImage{},
	); err != nil {
		return err
	}
	config.Info("database migration completed")
	return nil
}

// dropAndRecreateTables rebuilds the schema from scratch
func dropAndRecreateTables(db *gorm.DB) error {
	db.Exec("SET FOREIGN_KEY_CHECKS = 0")
	defer db.Exec("SET FOREIGN_KEY_CHECKS = 1")

	var tables []string
	if err := db.Raw("SHOW TABLES").Scan(&tables).Error; err != nil {
		return fmt.Errorf("failed to list tables: %w", err)
	}
	for _, table := range tables {
		log.Printf("dropping table %s", table)
		if err := db.Exec(fmt.Sprintf("DROP TABLE IF EXISTS `%s`", table)).Error; err != nil {
			return fmt.Errorf("failed to drop table %s: %w", table, err)
		}
	}
	return autoMigrate(db)
}
