package cache

import (
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"members-area/logger"

	"github.com/op/go-logging"
	"github.com/stretchr/testify/assert"
)

func TestMain(m *testing.M) {
	os.Setenv("MA_LOG_FOLDER", os.TempDir())
	logger.InitLogger(logging.ERROR)
	os.Exit(m.Run())
}

func TestRedisStoreRoundTrip(t *testing.T) {
	assert.NoError(t, InitRedis(""))
	defer Close()

	store := NewRedisStore(GetClient(), []byte("secret"))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	sess, err := store.New(req, "sid")
	assert.NoError(t, err)
	assert.True(t, sess.IsNew)

	sess.Values["email"] = "a@x.com"
	w := httptest.NewRecorder()
	assert.NoError(t, store.Save(req, w, sess))

	cookies := w.Result().Cookies()
	assert.Len(t, cookies, 1)
	// the cookie carries only the encoded session id, not the values
	assert.NotContains(t, cookies[0].Value, "a@x.com")

	// a second request with the cookie loads the stored values
	req2 := httptest.NewRequest(http.MethodGet, "/", nil)
	req2.AddCookie(cookies[0])
	sess2, err := store.New(req2, "sid")
	assert.NoError(t, err)
	assert.False(t, sess2.IsNew)
	assert.Equal(t, "a@x.com", sess2.Values["email"])
}

func TestRedisStoreExpiry(t *testing.T) {
	assert.NoError(t, InitRedis(""))
	defer Close()

	store := NewRedisStore(GetClient(), []byte("secret"))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	sess, _ := store.New(req, "sid")
	sess.Values["email"] = "a@x.com"
	w := httptest.NewRecorder()
	assert.NoError(t, store.Save(req, w, sess))
	cookie := w.Result().Cookies()[0]

	FastForward(2 * time.Hour)

	// expired server side: the same cookie now yields a fresh session
	req2 := httptest.NewRequest(http.MethodGet, "/", nil)
	req2.AddCookie(cookie)
	sess2, err := store.New(req2, "sid")
	assert.NoError(t, err)
	assert.True(t, sess2.IsNew)
	assert.Nil(t, sess2.Values["email"])
}

func TestRedisStoreDelete(t *testing.T) {
	assert.NoError(t, InitRedis(""))
	defer Close()

	store := NewRedisStore(GetClient(), []byte("secret"))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	sess, _ := store.New(req, "sid")
	sess.Values["email"] = "a@x.com"
	w := httptest.NewRecorder()
	assert.NoError(t, store.Save(req, w, sess))
	cookie := w.Result().Cookies()[0]

	// negative max age deletes the record and expires the cookie
	sess.Options.MaxAge = -1
	w2 := httptest.NewRecorder()
	assert.NoError(t, store.Save(req, w2, sess))
	assert.Equal(t, -1, w2.Result().Cookies()[0].MaxAge)

	req2 := httptest.NewRequest(http.MethodGet, "/", nil)
	req2.AddCookie(cookie)
	sess2, err := store.New(req2, "sid")
	assert.NoError(t, err)
	assert.True(t, sess2.IsNew)
}
