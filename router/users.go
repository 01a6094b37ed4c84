package router

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/omkar2711/mediaConnect-b7/database"
	"github.com/omkar2711/mediaConnect-b7/helpers"
	"github.com/omkar2711/mediaConnect-b7/model"
)

func userKey(id string) string {
	return "user:" + id
}

// Me returns the document of the current user
func (rt *Router) Me(w http.ResponseWriter, req *http.Request, actor string) {
	ctx, cancel := rt.context(req)
	defer cancel()

	user, err := rt.Store.GetUser(ctx, actor)
	if err != nil {
		fail(w, req, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// Update allows to edit the username, email and profile of the
// current user. Follow lists, counts and password are not writable.
func (rt *Router) Update(w http.ResponseWriter, req *http.Request, actor string) {
	var getbody model.UpdateBody
	if !readBody(w, req, &getbody) {
		return
	}

	if getbody.Username != nil {
		*getbody.Username = strings.TrimSpace(*getbody.Username)
		if err := helpers.CheckUsername(*getbody.Username); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}
	if getbody.Email != nil {
		*getbody.Email = strings.ToLower(strings.TrimSpace(*getbody.Email))
		if err := helpers.CheckEmail(*getbody.Email); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	ctx, cancel := rt.context(req)
	defer cancel()

	user, err := rt.Store.UpdateUser(ctx, actor, getbody)
	if err != nil {
		fail(w, req, err)
		return
	}

	rt.forget(userKey(actor))

	writeJSON(w, http.StatusOK, user)
}

// MyPosts returns the posts of the current user, newest first
func (rt *Router) MyPosts(w http.ResponseWriter, req *http.Request, actor string) {
	ctx, cancel := rt.context(req)
	defer cancel()

	posts, err := rt.Store.UserPosts(ctx, actor)
	if err != nil {
		fail(w, req, err)
		return
	}

	writeJSON(w, http.StatusOK, posts)
}

// User returns the public document of any user, served from the
// cache when possible
func (rt *Router) User(w http.ResponseWriter, req *http.Request) {
	id := req.PathValue("id")

	if cached, err := rt.Cache.Get(userKey(id)); err == nil {
		w.Header().Set("Content-Type", "application/json")
		w.Write(cached)
		return
	} else if !errors.Is(err, database.ErrCacheMiss) {
		log.Printf("(User) cache: %v", err)
	}

	ctx, cancel := rt.context(req)
	defer cancel()

	user, err := rt.Store.GetUser(ctx, id)
	if err != nil {
		fail(w, req, err)
		return
	}

	data, err := json.Marshal(user)
	if err != nil {
		fail(w, req, err)
		return
	}
	data = append(data, '\n')

	if err := rt.Cache.Set(userKey(id), data, userCacheTTL); err != nil {
		log.Printf("(User) cache: %v", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.Write(data)
}

// forget drops cached documents
func (rt *Router) forget(keys ...string) {
	for _, key := range keys {
		if err := rt.Cache.Delete(key); err != nil {
			log.Printf("(forget) cache %v: %v", key, err)
		}
	}
}
