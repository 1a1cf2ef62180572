package main

import (
	"errors"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"clickpulse.backend/internal/config"
)

func withMainStubs(t *testing.T) {
	t.Helper()
	origDotenv, origCfg, origRedis, origOpen, origRun := loadDotenv, loadCfg, initRedis, openDB, runServer
	t.Cleanup(func() {
		loadDotenv, loadCfg, initRedis, openDB, runServer = origDotenv, origCfg, origRedis, origOpen, origRun
	})

	loadDotenv = func(...string) error { return errors.New("no .env") }
	loadCfg = config.Load
	initRedis = func(url, password string) error { return nil }
	openDB = func(dsn string) (*gorm.DB, error) {
		return gorm.Open(sqlite.Open("file:mainproc?mode=memory&cache=shared"), &gorm.Config{})
	}
	runServer = func(r *gin.Engine, port string) error { return nil }
}

func TestRunMainProcess(t *testing.T) {
	withMainStubs(t)
	require.NoError(t, runMainProcess())
}

func TestRunMainProcess_RedisFailure(t *testing.T) {
	withMainStubs(t)
	initRedis = func(url, password string) error { return errors.New("connection refused") }

	err := runMainProcess()
	require.Error(t, err)
	require.Contains(t, err.Error(), "redis")
}

func TestRunMainProcess_DBOpenFailure(t *testing.T) {
	withMainStubs(t)
	openDB = func(dsn string) (*gorm.DB, error) { return nil, errors.New("bad dsn") }

	err := runMainProcess()
	require.Error(t, err)
	require.Contains(t, err.Error(), "database")
}

func TestRunMainProcess_ServerFailure(t *testing.T) {
	withMainStubs(t)
	runServer = func(r *gin.Engine, port string) error { return errors.New("port in use") }

	err := runMainProcess()
	require.Error(t, err)
	require.Contains(t, err.Error(), "server")
}
