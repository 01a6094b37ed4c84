package router

import (
	"errors"
	"net/http"
	"strings"

	"github.com/omkar2711/mediaConnect-b7/database"
	"github.com/omkar2711/mediaConnect-b7/helpers"
	"github.com/omkar2711/mediaConnect-b7/model"
)

// Register creates an account
func (rt *Router) Register(w http.ResponseWriter, req *http.Request) {
	var getbody model.RegisterBody
	if !readBody(w, req, &getbody) {
		return
	}

	getbody.Username = strings.TrimSpace(getbody.Username)
	getbody.Email = strings.ToLower(strings.TrimSpace(getbody.Email))

	if err := helpers.CheckRegister(getbody); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	hashed, err := helpers.HashPassword(getbody.Password)
	if err != nil {
		fail(w, req, err)
		return
	}

	ctx, cancel := rt.context(req)
	defer cancel()

	user, err := rt.Store.CreateUser(ctx, model.User{
		Username: getbody.Username,
		Email:    getbody.Email,
		Password: hashed,
	})
	if err != nil {
		fail(w, req, err)
		return
	}

	writeJSON(w, http.StatusCreated, model.RegisterResponse{
		Message:  OkRegistered,
		Username: user.Username,
		Email:    user.Email,
	})
}

// Login grants a bearer token for valid credentials
func (rt *Router) Login(w http.ResponseWriter, req *http.Request) {
	var getbody model.LoginBody
	if !readBody(w, req, &getbody) {
		return
	}

	if strings.TrimSpace(getbody.Username) == "" || getbody.Password == "" {
		writeError(w, http.StatusBadRequest, ErrorInvalidBody)
		return
	}

	ctx, cancel := rt.context(req)
	defer cancel()

	user, err := rt.Store.GetUserByUsername(ctx, strings.TrimSpace(getbody.Username))
	if errors.Is(err, database.ErrNotFound) {
		writeError(w, http.StatusUnauthorized, ErrorInvalidCredentials)
		return
	} else if err != nil {
		fail(w, req, err)
		return
	}

	if !helpers.CheckPassword(user.Password, getbody.Password) {
		writeError(w, http.StatusUnauthorized, ErrorInvalidCredentials)
		return
	}

	token, err := rt.Tokens.CreateToken(user.Id)
	if err != nil {
		fail(w, req, err)
		return
	}

	writeJSON(w, http.StatusOK, model.TokenResponse{Token: token})
}
