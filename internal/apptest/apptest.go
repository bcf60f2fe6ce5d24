// Package apptest boots the API on an in-memory database for tests.
package apptest

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/steakz-restaurant/config"
	"github.com/yeremiapane/steakz-restaurant/database"
	"github.com/yeremiapane/steakz-restaurant/kds"
	"github.com/yeremiapane/steakz-restaurant/middlewares"
	"github.com/yeremiapane/steakz-restaurant/models"
	"github.com/yeremiapane/steakz-restaurant/router"
	"github.com/yeremiapane/steakz-restaurant/services"
	"github.com/yeremiapane/steakz-restaurant/utils"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/time/rate"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	AdminPassword = "admin123"
	StaffPassword = "staff123"
)

// App is a fully wired API. The seeded accounts are admin, hq, manager,
// cashier and chef; cashier, chef and manager belong to the first branch.
type App struct {
	DB      *gorm.DB
	Config  *config.Config
	Tokens  *utils.TokenIssuer
	Hub     *kds.Hub
	Monitor *services.ChangeMonitor
	Router  *gin.Engine
}

func testConfig() *config.Config {
	return &config.Config{
		App:        config.AppConfig{Env: config.AppEnvDev},
		DB:         config.DBConfig{Driver: config.DriverSQLite, DSN: "file::memory:"},
		JWT:        config.JWTConfig{Secret: "test-secret", Issuer: "steakz-test", TTL: time.Hour},
		RateLimit:  config.RateLimitConfig{RPS: 1000, Burst: 1000, AuthPerMinute: 1000},
		CORS:       config.CORSConfig{AllowedOrigins: []string{"*"}},
		Events:     config.EventsConfig{PollInterval: 20 * time.Millisecond, BatchSize: 100},
		Restaurant: config.RestaurantConfig{Name: "Steakz", Address: "12 High Street", Phone: "+44 20 7946 0001"},
	}
}

// New builds the app on a fresh seeded database.
func New(t testing.TB) *App {
	t.Helper()
	gin.SetMode(gin.TestMode)
	utils.SilenceLoggers()

	cfg := testConfig()
	db, err := config.InitDB(cfg.DB, logger.Silent)
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, database.AutoMigrate(db))
	require.NoError(t, database.Seed(db, database.SeedOptions{AdminPassword: AdminPassword, StaffPassword: StaffPassword, BcryptCost: bcrypt.MinCost}))

	tokens := utils.NewTokenIssuer(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.TTL, nil)
	hub := kds.NewHub()
	app := &App{
		DB:      db,
		Config:  cfg,
		Tokens:  tokens,
		Hub:     hub,
		Monitor: services.NewChangeMonitor(db, hub),
	}
	app.Router = router.SetupRouter(router.Options{
		DB:          db,
		Config:      cfg,
		Hub:         hub,
		Tokens:      tokens,
		APILimiter:  middlewares.NewRateLimiter(rate.Inf, 1),
		AuthLimiter: middlewares.NewRateLimiter(rate.Inf, 1),
	})
	return app
}

// Serve starts an HTTP server and the event monitor for the app.
func (a *App) Serve(t testing.TB) *httptest.Server {
	t.Helper()
	a.Monitor.Interval = a.Config.Events.PollInterval
	a.Monitor.Start()
	srv := httptest.NewServer(a.Router)
	t.Cleanup(func() {
		srv.Close()
		a.Monitor.Stop()
	})
	return srv
}

// User loads a seeded or created account by username.
func (a *App) User(t testing.TB, username string) models.User {
	t.Helper()
	var u models.User
	require.NoError(t, a.DB.Where("username = ?", username).First(&u).Error)
	return u
}

// Token signs a session token for username without going through login.
func (a *App) Token(t testing.TB, username string) string {
	t.Helper()
	u := a.User(t, username)
	token, err := a.Tokens.GenerateToken(u.ID, string(u.Role), u.BranchID)
	require.NoError(t, err)
	return token
}

// CreateCustomer inserts a customer account with password StaffPassword.
func (a *App) CreateCustomer(t testing.TB, username string) models.User {
	t.Helper()
	created := a.User(t, "cashier") // reuse the seeded bcrypt hash of StaffPassword
	u := models.User{Username: username, Email: username + "@example.com", Password: created.Password, Role: models.RoleCustomer}
	require.NoError(t, a.DB.Create(&u).Error)
	return u
}

// MenuItem loads a seeded menu item by name.
func (a *App) MenuItem(t testing.TB, name string) models.MenuItem {
	t.Helper()
	var m models.MenuItem
	require.NoError(t, a.DB.Where("name = ?", name).First(&m).Error)
	return m
}

// Branch loads a seeded branch by name.
func (a *App) Branch(t testing.TB, name string) models.Branch {
	t.Helper()
	var b models.Branch
	require.NoError(t, a.DB.Where("name = ?", name).First(&b).Error)
	return b
}
