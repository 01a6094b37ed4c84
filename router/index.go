package router

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"

	"github.com/omkar2711/mediaConnect-b7/database"
	"github.com/omkar2711/mediaConnect-b7/model"
)

// Every possible error list
const (
	ErrorInternalServerError = "Server error"
	ErrorInvalidToken        = "Invalid token"
	ErrorInvalidBody         = "Invalid body"
	ErrorInvalidCredentials  = "Invalid credentials"
	ErrorInvalidQuery        = "Invalid query"
	ErrorInvalidPost         = "Caption or media is required"
	ErrorTooManyRequests     = "Too many requests"
	ErrorUnableReadBody      = "Unable to read body"
)

// Every OK message reponse
const (
	Ok            = "OK"
	OkRegistered  = "User registered"
	OkFollowed    = "Followed user"
	OkUnfollowed  = "Unfollowed user"
	OkDeletedPost = "Post deleted"
)

const (
	maxBodySize      = 1 << 20
	userCacheTTL     = 60
	maxSuggestions   = 20
	defaultFeedLimit = 50
	maxFeedLimit     = 100
)

// statuses maps store errors to a status and a message, the most
// specific errors first
var statuses = []struct {
	err     error
	status  int
	message string
}{
	{database.ErrUserNotFound, http.StatusNotFound, "User not found"},
	{database.ErrPostNotFound, http.StatusNotFound, "Post not found"},
	{database.ErrSelfFollow, http.StatusBadRequest, "Cannot follow yourself"},
	{database.ErrSelfUnfollow, http.StatusBadRequest, "Cannot unfollow yourself"},
	{database.ErrAlreadyFollowing, http.StatusConflict, "Already following"},
	{database.ErrNotFollowing, http.StatusConflict, "Not following"},
	{database.ErrUserTaken, http.StatusConflict, "Username or email already used"},
	{database.ErrEmptyComment, http.StatusBadRequest, "Comment text is required"},
	{database.ErrNotAuthor, http.StatusForbidden, "Not the author of this post"},
	{database.ErrNotFound, http.StatusNotFound, "Not found"},
	{database.ErrInvalidOperation, http.StatusBadRequest, "Invalid operation"},
	{database.ErrValidation, http.StatusBadRequest, "Invalid body"},
	{database.ErrConflict, http.StatusConflict, "Conflict"},
	{database.ErrForbidden, http.StatusForbidden, "Forbidden"},
}

// Index is the main route, which is notably there
// for the healthcheck
func Index(w http.ResponseWriter, _ *http.Request) {
	fmt.Fprintf(w, Ok)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("(writeJSON) %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, model.RequestError{
		Error:   true,
		Message: message,
	})
}

// fail answers with the status of a store error. Unknown errors are
// logged and answered with a generic 500.
func fail(w http.ResponseWriter, req *http.Request, err error) {
	for _, s := range statuses {
		if errors.Is(err, s.err) {
			writeError(w, s.status, s.message)
			return
		}
	}

	log.Printf("%s %s: %v", req.Method, req.URL.Path, err)
	writeError(w, http.StatusInternalServerError, ErrorInternalServerError)
}

// readBody decodes the JSON body into v, answering 400 on failure
func readBody(w http.ResponseWriter, req *http.Request, v any) bool {
	defer req.Body.Close()
	body, err := io.ReadAll(http.MaxBytesReader(w, req.Body, maxBodySize))
	if err != nil {
		writeError(w, http.StatusBadRequest, ErrorUnableReadBody)
		return false
	}

	if err := json.Unmarshal(body, v); err != nil {
		writeError(w, http.StatusBadRequest, ErrorInvalidBody)
		return false
	}

	return true
}
