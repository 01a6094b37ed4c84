package router

import (
	"context"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/omkar2711/mediaConnect-b7/database"
	"github.com/omkar2711/mediaConnect-b7/helpers"
)

// Router holds the collaborators of every route
type Router struct {
	Store  database.Store
	Cache  database.Cache
	Tokens *helpers.Tokens

	// Publisher and Limiter are optional
	Publisher helpers.Publisher
	Limiter   helpers.Limiter

	Timeout         time.Duration
	SuggestionLimit int
	// TrustProxy keys the rate limit on X-Forwarded-For, only set it
	// behind a reverse proxy that overwrites the header
	TrustProxy bool
}

type authedHandler func(w http.ResponseWriter, req *http.Request, actor string)

// Handler creates every route
func (rt *Router) Handler() http.Handler {
	if rt.Cache == nil {
		rt.Cache = database.NopCache{}
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", Index)

	mux.Handle("POST /auth/login", rt.limit(http.HandlerFunc(rt.Login)))
	mux.Handle("POST /auth/register", rt.limit(http.HandlerFunc(rt.Register)))

	mux.HandleFunc("GET /users", rt.auth(rt.Me))
	mux.HandleFunc("PUT /users", rt.auth(rt.Update))
	mux.HandleFunc("GET /users/posts", rt.auth(rt.MyPosts))
	mux.HandleFunc("GET /users/suggestions", rt.auth(rt.Suggestions))
	mux.HandleFunc("GET /users/{id}", rt.User)
	mux.HandleFunc("POST /users/follow", rt.auth(rt.Follow))
	mux.HandleFunc("POST /users/unfollow", rt.auth(rt.Unfollow))

	mux.HandleFunc("GET /posts", rt.Posts)
	mux.HandleFunc("POST /posts", rt.auth(rt.New))
	mux.HandleFunc("GET /posts/{id}", rt.Post)
	mux.HandleFunc("PUT /posts/{id}", rt.auth(rt.Edit))
	mux.HandleFunc("DELETE /posts/{id}", rt.auth(rt.Delete))
	mux.HandleFunc("POST /posts/{id}/like", rt.auth(rt.Like))

	mux.HandleFunc("POST /comments/{postId}", rt.auth(rt.Comment))

	mux.HandleFunc("GET /feed", rt.auth(rt.Feed))

	return mux
}

// auth checks the bearer token and passes its subject to next
func (rt *Router) auth(next authedHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		if req.Header.Get("Authorization") == "" {
			writeError(w, http.StatusUnauthorized, ErrorInvalidToken)
			return
		}

		actor, err := rt.Tokens.CheckToken(req.Header.Get("Authorization"))
		if err != nil {
			writeError(w, http.StatusUnauthorized, ErrorInvalidToken)
			return
		}

		next(w, req, actor)
	}
}

// limit rejects callers over the rate limit, keyed by client IP
func (rt *Router) limit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		if rt.Limiter != nil {
			allowed, _ := rt.Limiter.Allow(req.Context(), "auth:"+clientIP(req, rt.TrustProxy))
			if !allowed {
				writeError(w, http.StatusTooManyRequests, ErrorTooManyRequests)
				return
			}
		}

		next.ServeHTTP(w, req)
	})
}

// context bounds a store call with the configured timeout
func (rt *Router) context(req *http.Request) (context.Context, context.CancelFunc) {
	if rt.Timeout <= 0 {
		return context.WithCancel(req.Context())
	}

	return context.WithTimeout(req.Context(), rt.Timeout)
}

// clientIP is the peer address, or the first forwarded address when
// the proxy in front is trusted
func clientIP(req *http.Request, trustProxy bool) string {
	if trustProxy {
		if forwarded := req.Header.Get("X-Forwarded-For"); forwarded != "" {
			return strings.TrimSpace(strings.Split(forwarded, ",")[0])
		}
	}

	host, _, err := net.SplitHostPort(req.RemoteAddr)
	if err != nil {
		return req.RemoteAddr
	}

	return host
}
