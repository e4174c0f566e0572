package tester

import (
	"os"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/emrgen/cms/internal/cache"
	"github.com/emrgen/cms/internal/compress"
	"github.com/emrgen/cms/internal/model"
	"github.com/google/uuid"
	redis "github.com/redis/go-redis/v9"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	testPath = "../../.test/"
)

var (
	db     *gorm.DB
	dbFile string
)

// Setup opens a fresh, migrated sqlite database. Each call gets its own file so test
// packages running in parallel never share one.
func Setup() {
	RemoveDBFile()

	_ = os.Setenv("ENV", "test")

	err := os.MkdirAll(testPath+"db", os.ModePerm)
	if err != nil {
		panic(err)
	}

	dbFile = testPath + "db/" + uuid.New().String() + ".db"
	db, err = gorm.Open(sqlite.Open(dbFile+"?_busy_timeout=5000"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		panic(err)
	}

	err = model.Migrate(db)
	if err != nil {
		panic(err)
	}
}

func TestDB() *gorm.DB {
	return db
}

func RemoveDBFile() {
	if dbFile == "" {
		return
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	if err := os.Remove(dbFile); err != nil && !os.IsNotExist(err) {
		panic(err)
	}
	dbFile = ""
}

// Redis returns a public cache backed by an in-process redis that is torn down with the test.
func Redis(t *testing.T) (*cache.Redis, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return cache.NewRedisFromClient(client, compress.NewGZip(), time.Minute), mr
}
