package Controllers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/steakz-restaurant/internal/apptest"
	"github.com/yeremiapane/steakz-restaurant/models"
)

type authData struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

func TestSignupLoginAndMe(t *testing.T) {
	app := apptest.New(t)
	r := app.Router

	w, env := doRequest(t, r, http.MethodPost, "/auth/signup", "", map[string]string{
		"username": "alice", "email": "alice@example.com", "password": "secret1",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var signup authData
	decode(t, env, &signup)
	assert.NotEmpty(t, signup.Token)
	assert.Equal(t, models.RoleCustomer, signup.User.Role)
	assert.NotContains(t, w.Body.String(), "secret1")

	w, _ = doRequest(t, r, http.MethodPost, "/auth/signup", "", map[string]string{
		"username": "alice", "email": "other@example.com", "password": "secret1",
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	w, env = doRequest(t, r, http.MethodPost, "/auth/login", "", map[string]string{"username": "alice", "password": "secret1"})
	require.Equal(t, http.StatusOK, w.Code)
	var login authData
	decode(t, env, &login)

	w, env = doRequest(t, r, http.MethodGet, "/api/users/me", login.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var me models.User
	decode(t, env, &me)
	assert.Equal(t, "alice", me.Username)
}

func TestLoginFailures(t *testing.T) {
	app := apptest.New(t)

	w, env := doRequest(t, app.Router, http.MethodPost, "/auth/login", "", map[string]string{"username": "cashier", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Invalid username or password", env.Error)
	assert.Equal(t, "UNAUTHORIZED", env.Code)

	w, _ = doRequest(t, app.Router, http.MethodPost, "/auth/login", "", map[string]string{"username": "nobody", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, env = doRequest(t, app.Router, http.MethodPost, "/auth/login", "", map[string]string{"username": "cashier"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VALIDATION_ERROR", env.Code)
}

func TestStaffLoginCarriesBranch(t *testing.T) {
	app := apptest.New(t)

	w, env := doRequest(t, app.Router, http.MethodPost, "/auth/login", "", map[string]string{"username": "cashier", "password": apptest.StaffPassword})
	require.Equal(t, http.StatusOK, w.Code)
	var login authData
	decode(t, env, &login)
	require.NotNil(t, login.User.BranchID)
	require.NotNil(t, login.User.Branch)
	assert.Equal(t, *login.User.BranchID, login.User.Branch.ID)
}

func TestLogoutRevokesToken(t *testing.T) {
	app := apptest.New(t)
	token := app.Token(t, "chef")

	w, _ := doRequest(t, app.Router, http.MethodPost, "/auth/logout", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w, _ = doRequest(t, app.Router, http.MethodGet, "/api/users/me", token, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
