package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/yukikurage/org-hierarchy-api/internal/constants"
	"github.com/yukikurage/org-hierarchy-api/internal/models"
	"github.com/yukikurage/org-hierarchy-api/internal/repository"
	"github.com/yukikurage/org-hierarchy-api/internal/services"
)

var bg = context.Background()

func init() {
	gin.SetMode(gin.TestMode)
}

type testEnv struct {
	db          *gorm.DB
	orgRepo     repository.OrganizationRepository
	authService *services.AuthService
	orgService  *services.OrganizationService
	authHandler *AuthHandler
	orgHandler  *OrganizationHandler
	router      *gin.Engine
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Organization{},
		&models.OrganizationMember{},
	))

	orgRepo := repository.NewOrganizationRepository(db)
	authService := services.NewAuthService(repository.NewUserRepository(db))
	orgService := services.NewOrganizationService(orgRepo)

	env := &testEnv{
		db:          db,
		orgRepo:     orgRepo,
		authService: authService,
		orgService:  orgService,
		authHandler: NewAuthHandler(authService),
		orgHandler:  NewOrganizationHandler(orgService),
	}

	r := gin.New()
	r.Use(sessions.Sessions(constants.SessionCookieName, cookie.NewStore([]byte("secret"))))
	RegisterRoutes(r.Group("/api"), env.authHandler, env.orgHandler, orgRepo)
	env.router = r

	return env
}

// session signs a user up, logs in through the router and returns the
// session cookies together with the user.
func (e *testEnv) session(t *testing.T, username string) (*models.User, []*http.Cookie) {
	t.Helper()

	user, err := e.authService.Signup(bg, services.SignupInput{
		Username: username,
		Password: "supersecret",
	})
	require.NoError(t, err)

	w := e.do(t, http.MethodPost, "/api/auth/login", map[string]string{
		"username": username,
		"password": "supersecret",
	}, nil)
	require.Equal(t, http.StatusOK, w.Code)

	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)
	return user, cookies
}

func (e *testEnv) do(t *testing.T, method, path string, payload interface{}, cookies []*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	var body *bytes.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	} else {
		body = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, body)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, ck := range cookies {
		req.AddCookie(ck)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v))
}
