package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func main() {
	_ = godotenv.Load()

	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		log.Fatal("DB_DSN environment variable is required")
	}
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("Failed to get DB: %v", err)
	}

	stmts := map[string]string{
		"console_state": `
	CREATE TABLE IF NOT EXISTS console_state (
	  ` + "`key`" + ` VARCHAR(191) NOT NULL,
	  value BLOB NOT NULL,
	  updated_at DATETIME(3) NOT NULL,
	  PRIMARY KEY (` + "`key`" + `)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

		"admin_decisions": `
	CREATE TABLE IF NOT EXISTS admin_decisions (
	  id CHAR(36) NOT NULL,
	  console_id CHAR(36) NOT NULL,
	  actor_user_id VARCHAR(64) NOT NULL,
	  resource VARCHAR(16) NOT NULL,
	  order_id VARCHAR(128) NOT NULL,
	  action VARCHAR(16) NOT NULL,
	  wire_status VARCHAR(16) NOT NULL,
	  note VARCHAR(255) NULL,
	  outcome VARCHAR(16) NOT NULL,
	  error VARCHAR(512) NULL,
	  response JSON NULL,
	  created_at DATETIME(3) NOT NULL,
	  PRIMARY KEY (id),
	  KEY ix_admin_decisions_console (console_id),
	  KEY ix_admin_decisions_order (order_id),
	  KEY ix_admin_decisions_created (created_at)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	}

	for _, name := range []string{"console_state", "admin_decisions"} {
		if _, err := sqlDB.Exec(stmts[name]); err != nil {
			log.Fatalf("Failed to create %s: %v", name, err)
		}
		log.Printf("✓ %s table ready", name)
	}
}
