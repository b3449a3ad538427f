package db

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	// DriverSQLite 使用本地 sqlite 文件（默认）。
	DriverSQLite = "sqlite"
	// DriverPostgres 使用 PostgreSQL，DSN 由 DATABASE_DSN 提供。
	DriverPostgres = "postgres"
)

// Options 描述打开数据库连接所需的参数。
type Options struct {
	Driver   string
	DSN      string
	LogLevel logger.LogLevel
}

// Open 打开数据库连接。
// sqlite 连接会开启外键约束，并把连接池限制为单连接，避免写锁竞争。
func Open(opts Options) (*gorm.DB, error) {
	driver := strings.ToLower(strings.TrimSpace(opts.Driver))
	if driver == "" {
		driver = DriverSQLite
	}

	level := opts.LogLevel
	if level == 0 {
		level = logger.Warn
	}
	// 唯一索引冲突统一翻译为 gorm.ErrDuplicatedKey
	cfg := &gorm.Config{Logger: logger.Default.LogMode(level), TranslateError: true}

	switch driver {
	case DriverSQLite:
		dsn := strings.TrimSpace(opts.DSN)
		if dsn == "" {
			dsn = "cuteblog.db"
		}
		if !strings.HasPrefix(dsn, "file:") {
			if err := ensureParentDir(dsn); err != nil {
				return nil, err
			}
		}

		gdb, err := gorm.Open(sqlite.Open(withForeignKeys(dsn)), cfg)
		if err != nil {
			return nil, fmt.Errorf("open sqlite: %w", err)
		}
		sqlDB, err := gdb.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
		return gdb, nil
	case DriverPostgres:
		if strings.TrimSpace(opts.DSN) == "" {
			return nil, errors.New("postgres driver requires a DSN")
		}
		gdb, err := gorm.Open(postgres.Open(opts.DSN), cfg)
		if err != nil {
			return nil, fmt.Errorf("open postgres: %w", err)
		}
		return gdb, nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", opts.Driver)
	}
}

// ParseLogLevel 把 silent|error|warn|info 转换为 gorm 日志级别，未知值按 warn 处理。
func ParseLogLevel(raw string) logger.LogLevel {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	case "info":
		return logger.Info
	default:
		return logger.Warn
	}
}

// Migrate 自动迁移全部模型，并保证博客设置行存在。
func Migrate(gdb *gorm.DB) error {
	if err := gdb.AutoMigrate(&User{}, &Post{}, &Comment{}, &Setting{}); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return EnsureSettings(gdb)
}

// Close 关闭底层连接池。
func Close(gdb *gorm.DB) error {
	if gdb == nil {
		return nil
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func withForeignKeys(dsn string) string {
	if strings.Contains(dsn, "_foreign_keys") || strings.Contains(dsn, "_fk=") {
		return dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_foreign_keys=on"
}

func ensureParentDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}

	info, err := os.Stat(dir)
	if err == nil {
		if !info.IsDir() {
			return errors.New("database path parent is not a directory")
		}
		return nil
	}

	if os.IsNotExist(err) {
		return os.MkdirAll(dir, 0o755)
	}

	return err
}
