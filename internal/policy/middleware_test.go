package policy_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/oggyb/ember/internal/db"
	"github.com/oggyb/ember/internal/policy"
	"github.com/oggyb/ember/internal/repository"
)

func setupIdentityRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dbName := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	database, err := gorm.Open(sqlite.Open(dbName), &gorm.Config{
		SkipDefaultTransaction: true,
		TranslateError:         true,
	})
	require.NoError(t, err)

	sqlDB, err := database.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, database.AutoMigrate(db.Models()...))

	router := gin.New()
	router.Use(policy.Identity(repository.NewUserRepository(database)))
	router.GET("/whoami", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"caller": policy.Caller(c)})
	})
	return router, database
}

func TestIdentityRecordsActivity(t *testing.T) {
	router, database := setupIdentityRouter(t)

	user := db.User{ID: db.NewID(), Username: "alice", Email: "a@b.com", PasswordHash: "x", Gender: "female"}
	require.NoError(t, database.Create(&user).Error)

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("X-User-Id", user.ID)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var stored db.User
	require.NoError(t, database.First(&stored, "id = ?", user.ID).Error)
	assert.False(t, stored.LastActiveAt.IsZero())
	assert.WithinDuration(t, time.Now().UTC(), stored.LastActiveAt.UTC(), time.Minute)
}

func TestIdentityRejectsUnknownCaller(t *testing.T) {
	router, _ := setupIdentityRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("X-User-Id", db.NewID())
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
