package userrepo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"localloop/model"
	"localloop/util/httpx"
)

type staticToken string

func (s staticToken) Token() string { return string(s) }

func fakeAPI(t *testing.T, register func(e *echo.Echo)) *httpx.Client {
	t.Helper()
	e := echo.New()
	register(e)
	srv := httptest.NewServer(e)
	t.Cleanup(srv.Close)
	return httpx.New(srv.URL, staticToken("test-token"), 5*time.Second)
}

func TestLogin_ReturnsTokenAndUser(t *testing.T) {
	var got model.LoginReq
	c := fakeAPI(t, func(e *echo.Echo) {
		e.POST("/api/auth/login", func(c echo.Context) error {
			if err := c.Bind(&got); err != nil {
				return err
			}
			return c.JSON(http.StatusOK, echo.Map{
				"token": "tok-abc",
				"user":  echo.Map{"id": "u-1", "email": got.Email},
			})
		})
	})

	token, user, err := New(c).Login(context.Background(), model.LoginReq{
		Email: "ana@example.com", Password: "secret",
	})
	require.NoError(t, err)
	require.Equal(t, "tok-abc", token)
	require.Equal(t, "u-1", user.ID)
	require.Equal(t, "ana@example.com", got.Email)
}

func TestAvatar_RawBytes(t *testing.T) {
	c := fakeAPI(t, func(e *echo.Echo) {
		e.GET("/api/users/:id/avatar", func(c echo.Context) error {
			return c.Blob(http.StatusOK, "image/png", []byte{0x89, 'P', 'N', 'G'})
		})
	})

	data, contentType, err := New(c).Avatar(context.Background(), "u-1")
	require.NoError(t, err)
	require.Equal(t, "image/png", contentType)
	require.Equal(t, []byte{0x89, 'P', 'N', 'G'}, data)
}

func TestPremium_Decode(t *testing.T) {
	c := fakeAPI(t, func(e *echo.Echo) {
		e.GET("/api/users/me/premium", func(c echo.Context) error {
			return c.JSON(http.StatusOK, echo.Map{
				"is_premium": true, "max_listings": 0, "discount_rate": 0.1,
			})
		})
	})

	p, err := New(c).Premium(context.Background())
	require.NoError(t, err)
	require.True(t, p.IsPremium)
	require.Equal(t, 0.1, p.DiscountRate)
}
