package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"portal/src/db"
	"portal/src/lib"
	"portal/src/utils"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/go-redis/redismock/v9"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"github.com/tidwall/gjson"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

const (
	testPortalId    = "abc12345"
	testPortalEmail = "someone@example.com"
)

type TestSuite struct {
	suite.Suite
	DB        *gorm.DB
	Mock      sqlmock.Sqlmock
	RedisMock redismock.ClientMock
	Token     string
}

func NewMockDB() (*gorm.DB, sqlmock.Sqlmock) {
	sdb, mock, err := sqlmock.New()
	if err != nil {
		log.Fatalf("An error '%s' was not expected when opening a stub database connection", err)
	}

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: sdb,
	}), &gorm.Config{})
	if err != nil {
		log.Fatalf("An error '%s' was not expected when opening gorm database", err)
	}

	return gormDB, mock
}

func (s *TestSuite) SetupSuite() {
	gin.SetMode(gin.TestMode)
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterValidation("httpurl", httpUrlValidatorFunc)
	}

	d, mock := NewMockDB()
	db.NewDB(d)
	s.DB = d
	s.Mock = mock

	rc, rmock := redismock.NewClientMock()
	lib.NewRedisClient(rc)
	s.RedisMock = rmock

	token, err := utils.GeneratePortalSessionToken(testPortalId, testPortalEmail)
	if err != nil {
		log.Fatalf("Error generating portal session token: %s\n", err.Error())
	}
	s.Token = token
}

func (s *TestSuite) portalRouter() *gin.Engine {
	router := setupRouter()
	portalRoutes(router)
	return router
}

func (s *TestSuite) customerRow(email string) *sqlmock.Rows {
	return sqlmock.
		NewRows([]string{"id", "team_id", "name", "email", "portal_id", "portal_enabled"}).
		AddRow(uuid.New().String(), uuid.New().String(), "Test Customer", email, testPortalId, true)
}

func (s *TestSuite) TestHealthz() {
	router := setupRouter()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/healthz", nil)
	router.ServeHTTP(w, req)

	assert.Equal(s.T(), 200, w.Code)
	rbytes, err := io.ReadAll(w.Body)
	assert.Nil(s.T(), err)
	assert.Equal(s.T(), "ok", gjson.Get(string(rbytes), "status").String())
}

func (s *TestSuite) TestPortalBootstrapUnknownPortal() {
	router := s.portalRouter()

	s.Mock.ExpectQuery(`SELECT (.+) FROM "customers"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/v1/portal/missing00", nil)
	router.ServeHTTP(w, req)

	assert.Equal(s.T(), 404, w.Code)
	rbytes, err := io.ReadAll(w.Body)
	assert.Nil(s.T(), err)
	assert.NotEmpty(s.T(), gjson.Get(string(rbytes), "error").String())
}

func (s *TestSuite) TestPortalLoginValidation() {
	router := s.portalRouter()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", fmt.Sprintf("/api/v1/portal/%s/login", testPortalId), strings.NewReader(`{}`))
	router.ServeHTTP(w, req)

	assert.Equal(s.T(), 400, w.Code)

	w = httptest.NewRecorder()
	req, _ = http.NewRequest("POST", fmt.Sprintf("/api/v1/portal/%s/login", testPortalId), strings.NewReader(`{"email":"not-an-email"}`))
	router.ServeHTTP(w, req)

	assert.Equal(s.T(), 400, w.Code)
}

func (s *TestSuite) TestPortalSessionRequired() {
	router := s.portalRouter()

	s.Run("missing token is rejected", func() {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", fmt.Sprintf("/api/v1/portal/%s/requests", testPortalId), nil)
		router.ServeHTTP(w, req)

		assert.Equal(s.T(), 401, w.Code)
	})

	s.Run("token for another portal is rejected", func() {
		strangerToken, err := utils.GeneratePortalSessionToken("other0id", testPortalEmail)
		assert.Nil(s.T(), err)

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", fmt.Sprintf("/api/v1/portal/%s/requests", testPortalId), nil)
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", strangerToken))
		router.ServeHTTP(w, req)

		assert.Equal(s.T(), 401, w.Code)
	})

	s.Run("garbage token is rejected", func() {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", fmt.Sprintf("/api/v1/portal/%s/requests", testPortalId), nil)
		req.Header.Set("Authorization", "Bearer not.a.token")
		router.ServeHTTP(w, req)

		assert.Equal(s.T(), 401, w.Code)
	})
}

func (s *TestSuite) TestPortalRequestsList() {
	router := s.portalRouter()

	s.Mock.ExpectQuery(`SELECT (.+) FROM "customers"`).
		WillReturnRows(s.customerRow(testPortalEmail))
	s.Mock.ExpectQuery(`SELECT (.+) FROM "teams"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	s.Mock.ExpectQuery(`SELECT (.+) FROM "client_requests"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "status", "priority"}))

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", fmt.Sprintf("/api/v1/portal/%s/requests", testPortalId), nil)
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", s.Token))
	router.ServeHTTP(w, req)

	assert.Equal(s.T(), 200, w.Code)
	rbytes, err := io.ReadAll(w.Body)
	assert.Nil(s.T(), err)
	sjson := string(rbytes)
	assert.True(s.T(), gjson.Get(sjson, "requests").Exists())
	assert.True(s.T(), gjson.Get(sjson, "backlog").IsArray())
	assert.Equal(s.T(), gjson.Null, gjson.Get(sjson, "active_request").Type)
	assert.Nil(s.T(), s.Mock.ExpectationsWereMet())
}

func (s *TestSuite) TestPortalRequestsSessionEmailMismatch() {
	router := s.portalRouter()

	s.Mock.ExpectQuery(`SELECT (.+) FROM "customers"`).
		WillReturnRows(s.customerRow("owner@example.com"))
	s.Mock.ExpectQuery(`SELECT (.+) FROM "teams"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", fmt.Sprintf("/api/v1/portal/%s/requests", testPortalId), nil)
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", s.Token))
	router.ServeHTTP(w, req)

	assert.Equal(s.T(), 401, w.Code)
	assert.Nil(s.T(), s.Mock.ExpectationsWereMet())
}

func (s *TestSuite) TestVerifyLoginCode() {
	router := s.portalRouter()
	key := fmt.Sprintf("portal-login-code:%s:%s", testPortalId, testPortalEmail)
	cached, _ := json.Marshal(map[string]string{
		"code":       "123456",
		"portal_url": "https://app.example.com/client/" + testPortalId,
	})

	s.Run("correct code yields a session token", func() {
		s.RedisMock.ExpectGet(key).SetVal(string(cached))
		s.RedisMock.ExpectDel(key).SetVal(1)

		body := fmt.Sprintf(`{"email":%q,"code":"123456"}`, testPortalEmail)
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", fmt.Sprintf("/api/v1/portal/%s/verify", testPortalId), strings.NewReader(body))
		router.ServeHTTP(w, req)

		assert.Equal(s.T(), 200, w.Code)
		rbytes, err := io.ReadAll(w.Body)
		assert.Nil(s.T(), err)
		assert.NotEmpty(s.T(), gjson.Get(string(rbytes), "token").String())
		assert.Nil(s.T(), s.RedisMock.ExpectationsWereMet())
	})

	s.Run("wrong code is rejected", func() {
		s.RedisMock.ExpectGet(key).SetVal(string(cached))

		body := fmt.Sprintf(`{"email":%q,"code":"654321"}`, testPortalEmail)
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", fmt.Sprintf("/api/v1/portal/%s/verify", testPortalId), strings.NewReader(body))
		router.ServeHTTP(w, req)

		assert.Equal(s.T(), 401, w.Code)
	})

	s.Run("expired code is rejected", func() {
		s.RedisMock.ExpectGet(key).RedisNil()

		body := fmt.Sprintf(`{"email":%q,"code":"123456"}`, testPortalEmail)
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", fmt.Sprintf("/api/v1/portal/%s/verify", testPortalId), strings.NewReader(body))
		router.ServeHTTP(w, req)

		assert.Equal(s.T(), 401, w.Code)
	})

	s.Run("malformed code never reaches the cache", func() {
		body := fmt.Sprintf(`{"email":%q,"code":"12"}`, testPortalEmail)
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", fmt.Sprintf("/api/v1/portal/%s/verify", testPortalId), strings.NewReader(body))
		router.ServeHTTP(w, req)

		assert.Equal(s.T(), 400, w.Code)
	})
}

func (s *TestSuite) TestUpdatePortalRequestValidation() {
	router := setupRouter()
	authorized := apiv1Group(router)
	authorized.Use(func(ctx *gin.Context) {
		ctx.Set("id", uuid.New().String())
		ctx.Set("team", uuid.New().String())
		ctx.Set("email", "freelancer@example.com")
		ctx.Set("name", "Freelancer")
	})
	customerHandlers(authorized)

	s.Run("empty patch body is rejected", func() {
		target := fmt.Sprintf("/api/v1/customers/%s/portal/requests/%s", uuid.New(), uuid.New())
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("PATCH", target, strings.NewReader(`{}`))
		router.ServeHTTP(w, req)

		assert.Equal(s.T(), 400, w.Code)
		rbytes, err := io.ReadAll(w.Body)
		assert.Nil(s.T(), err)
		assert.NotEmpty(s.T(), gjson.Get(string(rbytes), "error").String())
	})

	s.Run("unknown status is rejected", func() {
		target := fmt.Sprintf("/api/v1/customers/%s/portal/requests/%s", uuid.New(), uuid.New())
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("PATCH", target, strings.NewReader(`{"status":"archived"}`))
		router.ServeHTTP(w, req)

		assert.Equal(s.T(), 400, w.Code)
	})

	s.Run("resource with javascript scheme is rejected", func() {
		target := fmt.Sprintf("/api/v1/customers/%s/portal/requests/%s", uuid.New(), uuid.New())
		body := `{"resources":[{"label":"Evil","url":"javascript:alert(1)"}]}`
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("PATCH", target, strings.NewReader(body))
		router.ServeHTTP(w, req)

		assert.Equal(s.T(), 400, w.Code)
	})
}

func TestRunner(t *testing.T) {
	suite.Run(t, new(TestSuite))
}
