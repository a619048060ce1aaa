package web

import (
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"os"
	"strconv"
	"testing"
	"time"

	"members-area/database"
	"members-area/database/model"
	"members-area/logger"
	"members-area/web/cache"
	"members-area/web/service"

	"github.com/op/go-logging"
	"github.com/stretchr/testify/assert"
)

func setup(t *testing.T) *httptest.Server {
	os.Setenv("MA_LOG_FOLDER", os.TempDir())
	logger.InitLogger(logging.DEBUG)

	os.Remove("test.db")
	if err := database.InitDB("test.db"); err != nil {
		t.Fatal(err)
	}
	if err := cache.InitRedis(""); err != nil {
		t.Fatal(err)
	}

	s := NewServer()
	engine, err := s.initRouter()
	if err != nil {
		t.Fatal(err)
	}
	return httptest.NewServer(engine)
}

func teardown(ts *httptest.Server) {
	ts.Close()
	cache.Close()
	if db, err := database.GetDB().DB(); err == nil {
		db.Close()
	}
	os.Remove("test.db")
}

// newClient returns a client with a cookie jar that does not follow
// redirects, so the status and Location of each response can be asserted.
func newClient() *http.Client {
	jar, _ := cookiejar.New(nil)
	return &http.Client{
		Jar: jar,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

func doSignup(t *testing.T, client *http.Client, base, email, name, password string) *http.Response {
	resp, err := client.PostForm(base+"/submitUser", url.Values{
		"email":    {email},
		"name":     {name},
		"password": {password},
	})
	assert.NoError(t, err)
	resp.Body.Close()
	return resp
}

func doLogin(t *testing.T, client *http.Client, base, email, password string) *http.Response {
	resp, err := client.PostForm(base+"/loggingin", url.Values{
		"email":    {email},
		"password": {password},
	})
	assert.NoError(t, err)
	resp.Body.Close()
	return resp
}

func get(t *testing.T, client *http.Client, rawURL string) *http.Response {
	resp, err := client.Get(rawURL)
	assert.NoError(t, err)
	resp.Body.Close()
	return resp
}

func TestSignupFlow(t *testing.T) {
	ts := setup(t)
	defer teardown(ts)

	client := newClient()

	resp := doSignup(t, client, ts.URL, "a@x.com", "Ann", "pw123")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// the fresh session opens the members area
	resp = get(t, client, ts.URL+"/members")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// invalid input bounces back to the form with a generic flag
	bad := newClient()
	resp = doSignup(t, bad, ts.URL, "not-an-email", "Ann", "pw123")
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/signup?error=invalid", resp.Header.Get("Location"))

	// duplicate email is a conflict, not a validation failure
	resp = doSignup(t, bad, ts.URL, "a@x.com", "Other Ann", "pw456")
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/signup?error=taken", resp.Header.Get("Location"))
}

func TestLoginFlow(t *testing.T) {
	ts := setup(t)
	defer teardown(ts)

	client := newClient()
	doSignup(t, newClient(), ts.URL, "a@x.com", "Ann", "pw123")

	// wrong password and unknown email produce the identical answer
	wrongPw := doLogin(t, client, ts.URL, "a@x.com", "wrong")
	unknown := doLogin(t, client, ts.URL, "nobody@x.com", "pw123")
	assert.Equal(t, http.StatusSeeOther, wrongPw.StatusCode)
	assert.Equal(t, wrongPw.Header.Get("Location"), unknown.Header.Get("Location"))
	assert.Equal(t, "/login?error=invalid", wrongPw.Header.Get("Location"))

	resp := doLogin(t, client, ts.URL, "a@x.com", "pw123")
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/loggedin", resp.Header.Get("Location"))

	resp = get(t, client, ts.URL+"/loggedin")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestSessionGate(t *testing.T) {
	ts := setup(t)
	defer teardown(ts)

	// no session: members and loggedin redirect to login
	anon := newClient()
	for _, path := range []string{"/members", "/loggedin"} {
		resp := get(t, anon, ts.URL+path)
		assert.Equal(t, http.StatusFound, resp.StatusCode, path)
		assert.Equal(t, "/login", resp.Header.Get("Location"), path)
	}

	// AJAX requests get a 401 instead of a redirect
	req, _ := http.NewRequest(http.MethodGet, ts.URL+"/members", nil)
	req.Header.Set("X-Requested-With", "XMLHttpRequest")
	resp, err := anon.Do(req)
	assert.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestSessionExpiry(t *testing.T) {
	ts := setup(t)
	defer teardown(ts)

	client := newClient()
	doSignup(t, client, ts.URL, "a@x.com", "Ann", "pw123")

	resp := get(t, client, ts.URL+"/members")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// past the TTL the record is gone from the store; the stale cookie
	// reads the same as no session at all
	cache.FastForward(2 * time.Hour)

	resp = get(t, client, ts.URL+"/members")
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get("Location"))
}

func TestLogout(t *testing.T) {
	ts := setup(t)
	defer teardown(ts)

	client := newClient()
	doSignup(t, client, ts.URL, "a@x.com", "Ann", "pw123")

	resp := get(t, client, ts.URL+"/logout")
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/", resp.Header.Get("Location"))

	resp = get(t, client, ts.URL+"/members")
	assert.Equal(t, http.StatusFound, resp.StatusCode)
}

func TestAdminGate(t *testing.T) {
	ts := setup(t)
	defer teardown(ts)

	// a plain user is forbidden, hard stop without redirect
	user := newClient()
	doSignup(t, user, ts.URL, "a@x.com", "Ann", "pw123")
	resp := get(t, user, ts.URL+"/admin")
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	// no session at all redirects instead
	resp = get(t, newClient(), ts.URL+"/admin")
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get("Location"))

	// the seeded admin gets through
	admin := newClient()
	doLogin(t, admin, ts.URL, "admin@localhost", "admin")
	resp = get(t, admin, ts.URL+"/admin")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestPromoteDemote(t *testing.T) {
	ts := setup(t)
	defer teardown(ts)

	user := newClient()
	doSignup(t, user, ts.URL, "a@x.com", "Ann", "pw123")

	admin := newClient()
	doLogin(t, admin, ts.URL, "admin@localhost", "admin")

	userService := service.NewUserService()
	ann, err := userService.GetByEmail("a@x.com")
	assert.NoError(t, err)

	resp := get(t, admin, ts.URL+"/admin/promote/"+strconv.Itoa(ann.Id))
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/admin", resp.Header.Get("Location"))

	// the promotion applies to the admin gate on the very next request,
	// the session copy of the role is not consulted
	resp = get(t, user, ts.URL+"/admin")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = get(t, admin, ts.URL+"/admin/demote/"+strconv.Itoa(ann.Id))
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	ann, err = userService.GetByEmail("a@x.com")
	assert.NoError(t, err)
	assert.Equal(t, model.RoleUser, ann.Role)

	// demoted: forbidden again
	resp = get(t, user, ts.URL+"/admin")
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	// a missing target is a 404, never a silent success
	resp = get(t, admin, ts.URL+"/admin/demote/99999")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	// the sole remaining admin cannot demote themselves
	seeded, err := userService.GetByEmail("admin@localhost")
	assert.NoError(t, err)
	resp = get(t, admin, ts.URL+"/admin/demote/"+strconv.Itoa(seeded.Id))
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/admin?error=lastadmin", resp.Header.Get("Location"))
	seeded, err = userService.GetByEmail("admin@localhost")
	assert.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, seeded.Role)
}

func TestNoCacheHeaders(t *testing.T) {
	ts := setup(t)
	defer teardown(ts)

	resp := get(t, newClient(), ts.URL+"/")
	assert.Equal(t, "no-store, no-cache, must-revalidate, private", resp.Header.Get("Cache-Control"))
}

func TestNotFound(t *testing.T) {
	ts := setup(t)
	defer teardown(ts)

	resp := get(t, newClient(), ts.URL+"/no/such/page")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
