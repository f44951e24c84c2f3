package http

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gavv/httpexpect/v2"
	"github.com/go-chi/httplog/v2"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/vadimbarashkov/quickurl/internal/entity"
	"github.com/vadimbarashkov/quickurl/internal/usecase"
)

type MockURLUseCase struct {
	mock.Mock
}

func (m *MockURLUseCase) ShortenURL(ctx context.Context, input usecase.ShortenURLInput) (*entity.URL, error) {
	args := m.Called(ctx, input)
	url, _ := args.Get(0).(*entity.URL)
	return url, args.Error(1)
}

func (m *MockURLUseCase) ResolveToken(ctx context.Context, token string) (*entity.URL, error) {
	args := m.Called(ctx, token)
	url, _ := args.Get(0).(*entity.URL)
	return url, args.Error(1)
}

func (m *MockURLUseCase) GetURLInfo(ctx context.Context, token string) (*entity.URL, error) {
	args := m.Called(ctx, token)
	url, _ := args.Get(0).(*entity.URL)
	return url, args.Error(1)
}

func (m *MockURLUseCase) ListURLs(ctx context.Context) ([]entity.URL, error) {
	args := m.Called(ctx)
	urls, _ := args.Get(0).([]entity.URL)
	return urls, args.Error(1)
}

func (m *MockURLUseCase) DeleteURL(ctx context.Context, token string) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

type HandlersTestSuite struct {
	suite.Suite
	now            time.Time
	logger         *httplog.Logger
	urlUseCaseMock *MockURLUseCase
	server         *httptest.Server
	e              *httpexpect.Expect
}

func (suite *HandlersTestSuite) SetupSuite() {
	suite.now = time.Date(2024, time.September, 15, 12, 0, 0, 0, time.UTC)
	suite.logger = httplog.NewLogger("", httplog.Options{Writer: io.Discard})
}

func (suite *HandlersTestSuite) SetupSubTest() {
	suite.urlUseCaseMock = new(MockURLUseCase)

	router := NewRouter(suite.logger, suite.urlUseCaseMock)
	suite.server = httptest.NewServer(router)
	suite.T().Cleanup(func() {
		suite.server.Close()
	})

	suite.e = httpexpect.Default(suite.T(), suite.server.URL)
}

func (suite *HandlersTestSuite) TearDownSubTest() {
	suite.urlUseCaseMock.AssertExpectations(suite.T())
}

func (suite *HandlersTestSuite) testURL() *entity.URL {
	return &entity.URL{
		ID:          "1b4e28ba-2fa1-4d3b-b1f8-ccbf03a0a932",
		Token:       "abc123",
		OriginalURL: "https://example.com",
		ShortURL:    "http://localhost:8080/abc123",
		CreatedAt:   suite.now,
		ExpiresAt:   suite.now.Add(30 * 24 * time.Hour),
	}
}

func (suite *HandlersTestSuite) TestHealth() {
	for _, path := range []string{"/", "/health"} {
		suite.Run(path, func() {
			resp := suite.e.GET(path).
				Expect().
				Status(http.StatusOK).
				JSON().Object()

			resp.HasValue("status", "healthy")
			resp.HasValue("service", "quickurl")
			resp.HasValue("version", "0.1.0")
		})
	}
}

func (suite *HandlersTestSuite) TestShortenURL() {
	const path = "/shorten"

	suite.Run("empty request body", func() {
		resp := suite.e.POST(path).
			Expect().
			Status(http.StatusBadRequest).
			JSON().Object()

		resp.HasValue("error", "empty request body")
	})

	suite.Run("invalid request body", func() {
		resp := suite.e.POST(path).
			WithJSON("invalid body").
			Expect().
			Status(http.StatusBadRequest).
			JSON().Object()

		resp.HasValue("error", "invalid request body")
	})

	suite.Run("validation error", func() {
		resp := suite.e.POST(path).
			WithJSON(map[string]string{"title": "Example"}).
			Expect().
			Status(http.StatusBadRequest).
			JSON().Object()

		resp.HasValue("error", "url: this field is required")
	})

	suite.Run("invalid url", func() {
		suite.urlUseCaseMock.
			On("ShortenURL", mock.Anything, usecase.ShortenURLInput{OriginalURL: "example.com"}).
			Once().
			Return(nil, entity.ErrInvalidURL)

		resp := suite.e.POST(path).
			WithJSON(map[string]string{"url": "example.com"}).
			Expect().
			Status(http.StatusBadRequest).
			JSON().Object()

		resp.HasValue("error", "URL must start with http:// or https://")
	})

	suite.Run("server error", func() {
		suite.urlUseCaseMock.
			On("ShortenURL", mock.Anything, usecase.ShortenURLInput{OriginalURL: "https://example.com"}).
			Once().
			Return(nil, errors.New("unknown error"))

		resp := suite.e.POST(path).
			WithJSON(map[string]string{"url": "https://example.com"}).
			Expect().
			Status(http.StatusInternalServerError).
			JSON().Object()

		resp.HasValue("error", "server error occurred")
	})

	suite.Run("success", func() {
		suite.urlUseCaseMock.
			On("ShortenURL", mock.Anything, usecase.ShortenURLInput{OriginalURL: "https://example.com"}).
			Once().
			Return(suite.testURL(), nil)

		resp := suite.e.POST(path).
			WithJSON(map[string]string{"url": "https://example.com"}).
			Expect().
			Status(http.StatusCreated).
			JSON().Object()

		resp.HasValue("id", "1b4e28ba-2fa1-4d3b-b1f8-ccbf03a0a932")
		resp.HasValue("token", "abc123")
		resp.HasValue("original_url", "https://example.com")
		resp.HasValue("short_url", "http://localhost:8080/abc123")
		resp.Value("title").IsNull()
		resp.ContainsKey("created_at")
		resp.ContainsKey("expires_at")
		resp.HasValue("click_count", 0)
	})
}

func (suite *HandlersTestSuite) TestListURLs() {
	const path = "/urls"

	suite.Run("server error", func() {
		suite.urlUseCaseMock.
			On("ListURLs", mock.Anything).
			Once().
			Return(nil, errors.New("unknown error"))

		resp := suite.e.GET(path).
			Expect().
			Status(http.StatusInternalServerError).
			JSON().Object()

		resp.HasValue("error", "server error occurred")
	})

	suite.Run("no urls", func() {
		suite.urlUseCaseMock.
			On("ListURLs", mock.Anything).
			Once().
			Return([]entity.URL{}, nil)

		resp := suite.e.GET(path).
			Expect().
			Status(http.StatusOK).
			JSON().Object()

		resp.Value("urls").Array().IsEmpty()
	})

	suite.Run("success", func() {
		suite.urlUseCaseMock.
			On("ListURLs", mock.Anything).
			Once().
			Return([]entity.URL{
				{Token: "xyz789", OriginalURL: "https://example.org", ShortURL: "http://localhost:8080/xyz789"},
				{Token: "abc123", OriginalURL: "https://example.com", ShortURL: "http://localhost:8080/abc123"},
			}, nil)

		resp := suite.e.GET(path).
			Expect().
			Status(http.StatusOK).
			JSON().Object()

		urls := resp.Value("urls").Array()
		urls.Length().IsEqual(2)
		urls.Value(0).Object().HasValue("token", "xyz789")
		urls.Value(1).Object().HasValue("token", "abc123")
	})
}

func (suite *HandlersTestSuite) TestGetURLInfo() {
	const path = "/urls/%s"

	suite.Run("url not found", func() {
		suite.urlUseCaseMock.
			On("GetURLInfo", mock.Anything, "abc123").
			Once().
			Return(nil, entity.ErrURLNotFound)

		resp := suite.e.GET(fmt.Sprintf(path, "abc123")).
			Expect().
			Status(http.StatusNotFound).
			JSON().Object()

		resp.HasValue("error", "URL not found")
	})

	suite.Run("server error", func() {
		suite.urlUseCaseMock.
			On("GetURLInfo", mock.Anything, "abc123").
			Once().
			Return(nil, errors.New("unknown error"))

		resp := suite.e.GET(fmt.Sprintf(path, "abc123")).
			Expect().
			Status(http.StatusInternalServerError).
			JSON().Object()

		resp.HasValue("error", "server error occurred")
	})

	suite.Run("success", func() {
		url := suite.testURL()
		url.ClickCount = 7

		suite.urlUseCaseMock.
			On("GetURLInfo", mock.Anything, "abc123").
			Once().
			Return(url, nil)

		resp := suite.e.GET(fmt.Sprintf(path, "abc123")).
			Expect().
			Status(http.StatusOK).
			JSON().Object()

		resp.HasValue("token", "abc123")
		resp.HasValue("original_url", "https://example.com")
		resp.HasValue("short_url", "http://localhost:8080/abc123")
		resp.HasValue("click_count", 7)
	})
}

func (suite *HandlersTestSuite) TestDeleteURL() {
	const path = "/urls/%s"

	suite.Run("url not found", func() {
		suite.urlUseCaseMock.
			On("DeleteURL", mock.Anything, "abc123").
			Once().
			Return(entity.ErrURLNotFound)

		resp := suite.e.DELETE(fmt.Sprintf(path, "abc123")).
			Expect().
			Status(http.StatusNotFound).
			JSON().Object()

		resp.HasValue("error", "URL not found")
	})

	suite.Run("server error", func() {
		suite.urlUseCaseMock.
			On("DeleteURL", mock.Anything, "abc123").
			Once().
			Return(errors.New("unknown error"))

		resp := suite.e.DELETE(fmt.Sprintf(path, "abc123")).
			Expect().
			Status(http.StatusInternalServerError).
			JSON().Object()

		resp.HasValue("error", "server error occurred")
	})

	suite.Run("success", func() {
		suite.urlUseCaseMock.
			On("DeleteURL", mock.Anything, "abc123").
			Once().
			Return(nil)

		suite.e.DELETE(fmt.Sprintf(path, "abc123")).
			Expect().
			Status(http.StatusNoContent)
	})
}

func (suite *HandlersTestSuite) TestRedirect() {
	const path = "/%s"

	suite.Run("url not found", func() {
		suite.urlUseCaseMock.
			On("ResolveToken", mock.Anything, "abc123").
			Once().
			Return(nil, entity.ErrURLNotFound)

		resp := suite.e.GET(fmt.Sprintf(path, "abc123")).
			Expect().
			Status(http.StatusNotFound).
			JSON().Object()

		resp.HasValue("error", "URL not found")
	})

	suite.Run("url expired", func() {
		suite.urlUseCaseMock.
			On("ResolveToken", mock.Anything, "abc123").
			Once().
			Return(nil, entity.ErrURLExpired)

		resp := suite.e.GET(fmt.Sprintf(path, "abc123")).
			Expect().
			Status(http.StatusGone).
			JSON().Object()

		resp.HasValue("error", "URL has expired")
	})

	suite.Run("server error", func() {
		suite.urlUseCaseMock.
			On("ResolveToken", mock.Anything, "abc123").
			Once().
			Return(nil, errors.New("unknown error"))

		resp := suite.e.GET(fmt.Sprintf(path, "abc123")).
			Expect().
			Status(http.StatusInternalServerError).
			JSON().Object()

		resp.HasValue("error", "server error occurred")
	})

	suite.Run("success", func() {
		url := suite.testURL()
		url.ClickCount = 1

		suite.urlUseCaseMock.
			On("ResolveToken", mock.Anything, "abc123").
			Once().
			Return(url, nil)

		resp := suite.e.GET(fmt.Sprintf(path, "abc123")).
			WithRedirectPolicy(httpexpect.DontFollowRedirects).
			Expect().
			Status(http.StatusPermanentRedirect)

		resp.Header("Location").IsEqual("https://example.com")
	})
}

func TestURLHandler(t *testing.T) {
	suite.Run(t, new(HandlersTestSuite))
}
