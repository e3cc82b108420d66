package database

import (
	"database/sql"
	"fmt"
	"log"
	"time"

	_ "github.com/lib/pq"
)

// DatabaseService はPostgreSQLへの接続を保持します。
type DatabaseService struct {
	DB *sql.DB
}

// NewDatabaseService はDATABASE_URLからPostgreSQLへ接続し、疎通を確認します。
//
// Parameters:
//   - databaseURL: postgres://... 形式の接続文字列
//
// Returns:
//   - *DatabaseService: 接続済みのサービス
//   - error: 接続または疎通確認に失敗した場合
func NewDatabaseService(databaseURL string) (*DatabaseService, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("データベースのオープンに失敗しました: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("データベースへの疎通確認に失敗しました: %w", err)
	}

	log.Printf("[Database] PostgreSQLに接続しました")
	return &DatabaseService{DB: db}, nil
}

// Close は接続プールを閉じます。
func (s *DatabaseService) Close() error {
	return s.DB.Close()
}
