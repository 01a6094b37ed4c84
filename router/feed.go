package router

import (
	"net/http"
	"strconv"
	"time"

	"github.com/omkar2711/mediaConnect-b7/feed"
)

// Feed returns the render records of the posts of the current user
// and of the users it follows, newest first
func (rt *Router) Feed(w http.ResponseWriter, req *http.Request, actor string) {
	limit := defaultFeedLimit
	if req.URL.Query().Has("limit") {
		value, err := strconv.Atoi(req.URL.Query().Get("limit"))
		if err != nil || value <= 0 {
			writeError(w, http.StatusBadRequest, ErrorInvalidQuery)
			return
		}
		limit = min(value, maxFeedLimit)
	}

	ctx, cancel := rt.context(req)
	defer cancel()

	posts, err := rt.Store.FeedPosts(ctx, actor, limit)
	if err != nil {
		fail(w, req, err)
		return
	}

	writeJSON(w, http.StatusOK, feed.Format(posts, time.Now()))
}
