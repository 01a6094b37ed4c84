package router

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
)

func suggestionKey(id string) string {
	return "suggestions:" + id
}

// Suggestions returns users the current user may follow: never the
// user itself nor users already followed
func (rt *Router) Suggestions(w http.ResponseWriter, req *http.Request, actor string) {
	limit := rt.SuggestionLimit
	if limit <= 0 {
		limit = 5
	}

	custom := req.URL.Query().Has("limit")
	if custom {
		value, err := strconv.Atoi(req.URL.Query().Get("limit"))
		if err != nil || value <= 0 {
			writeError(w, http.StatusBadRequest, ErrorInvalidQuery)
			return
		}
		limit = min(value, maxSuggestions)
	}

	// only the default page is cached
	if !custom {
		if cached, err := rt.Cache.Get(suggestionKey(actor)); err == nil {
			w.Header().Set("Content-Type", "application/json")
			w.Write(cached)
			return
		}
	}

	ctx, cancel := rt.context(req)
	defer cancel()

	users, err := rt.Store.Suggestions(ctx, actor, limit)
	if err != nil {
		fail(w, req, err)
		return
	}

	data, err := json.Marshal(users)
	if err != nil {
		fail(w, req, err)
		return
	}
	data = append(data, '\n')

	if !custom {
		if err := rt.Cache.Set(suggestionKey(actor), data, userCacheTTL); err != nil {
			log.Printf("(Suggestions) cache: %v", err)
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.Write(data)
}
