package database

import (
	"fmt"
	"log"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"

	"nagoyameshi/internal/config"
)

// GetDSN は設定からドライバーごとの接続文字列 (DSN) を構築します。
func GetDSN(cfg *config.Config) string {
	if cfg.DBDriver == "sqlite3" {
		return fmt.Sprintf("file:%s?_foreign_keys=1", cfg.DBName)
	}
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true&charset=utf8mb4&clientFoundRows=true",
		cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
}

// InitDB はデータベース接続を初期化し、スキーマを適用します。
func InitDB(cfg *config.Config) (*sqlx.DB, error) {
	db, err := sqlx.Open(cfg.DBDriver, GetDSN(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}
	if cfg.DBDriver == "sqlite3" {
		// SQLiteは書き込みが直列化されるため接続は1本に固定する
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(25)
		db.SetConnMaxLifetime(5 * time.Minute)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	log.Printf("Successfully connected to %s database!", cfg.DBDriver)

	if err := Migrate(db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// Migrate はドライバーに応じたスキーマを作成し、定休日マスタと会社概要の初期データを投入します。
func Migrate(db *sqlx.DB) error {
	statements := mysqlSchema
	if db.DriverName() == "sqlite3" {
		statements = sqliteSchema
	}
	for _, stmt := range statements {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}

	var count int
	if err := db.Get(&count, "SELECT COUNT(*) FROM regular_holidays"); err != nil {
		return fmt.Errorf("failed to count regular holidays: %w", err)
	}
	if count == 0 {
		for i, day := range regularHolidays {
			if _, err := db.Exec("INSERT INTO regular_holidays (day, holiday_code) VALUES (?, ?)", day, i+1); err != nil {
				return fmt.Errorf("failed to seed regular holidays: %w", err)
			}
		}
	}
	if err := db.Get(&count, "SELECT COUNT(*) FROM companies"); err != nil {
		return fmt.Errorf("failed to count companies: %w", err)
	}
	if count == 0 {
		_, err := db.Exec(`INSERT INTO companies (name, postal_code, address, representative, establishment_date,
			capital, business, number_of_employees) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			"NAGOYAMESHI Inc.", "1010022", "Tokyo, Chiyoda-ku, Kanda-Neribeicho 300-1", "Taro Nagoya",
			"2015-06-01", "1,000,000 JPY", "Restaurant directory and reservation service", "10")
		if err != nil {
			return fmt.Errorf("failed to seed company: %w", err)
		}
	}
	log.Println("Schema initialized successfully")
	return nil
}

var regularHolidays = []string{
	"Monday",
	"Tuesday",
	"Wednesday",
	"Thursday",
	"Friday",
	"Saturday",
	"Sunday",
	"Irregular",
}
