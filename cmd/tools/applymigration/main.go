package main

import (
	"errors"
	"fmt"
	"log"
	"os"

	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/joho/godotenv"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// errDupColumn is MySQL's ER_DUP_FIELDNAME.
const errDupColumn = 1060

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

	addCol := func(sql string) {
		err := db.Exec(sql).Error
		var me *mysqldriver.MySQLError
		if err != nil && !(errors.As(err, &me) && me.Number == errDupColumn) {
			log.Fatalf("Failed: %v", err)
		}
	}

	// Columns added after the first admin_decisions release.
	addCol(`ALTER TABLE admin_decisions ADD COLUMN wire_status VARCHAR(16) NOT NULL DEFAULT '' AFTER action`)
	addCol(`ALTER TABLE admin_decisions ADD COLUMN response JSON NULL AFTER error`)
	addCol(`ALTER TABLE console_state ADD COLUMN updated_at DATETIME(3) NOT NULL DEFAULT CURRENT_TIMESTAMP(3) AFTER value`)

	fmt.Println("✓ Decision log columns up to date")
}
