package router

import (
	"net/http"
	"strings"

	"github.com/omkar2711/mediaConnect-b7/helpers"
	"github.com/omkar2711/mediaConnect-b7/model"
)

// Follow makes the current user follow the user in the body
func (rt *Router) Follow(w http.ResponseWriter, req *http.Request, actor string) {
	rt.relation(w, req, actor, "follow")
}

// Unfollow removes the follow edge towards the user in the body
func (rt *Router) Unfollow(w http.ResponseWriter, req *http.Request, actor string) {
	rt.relation(w, req, actor, "unfollow")
}

func (rt *Router) relation(w http.ResponseWriter, req *http.Request, actor, action string) {
	var getbody model.SetBody
	if !readBody(w, req, &getbody) {
		return
	}

	subject := strings.TrimSpace(getbody.Id)
	if subject == "" {
		writeError(w, http.StatusBadRequest, ErrorInvalidBody)
		return
	}

	ctx, cancel := rt.context(req)
	defer cancel()

	mutate, message, topic := rt.Store.Follow, OkFollowed, helpers.SubjectFollow
	if action == "unfollow" {
		mutate, message, topic = rt.Store.Unfollow, OkUnfollowed, helpers.SubjectUnfollow
	}

	if err := mutate(ctx, subject, actor); err != nil {
		fail(w, req, err)
		return
	}

	rt.forget(userKey(subject), userKey(actor), suggestionKey(actor))
	helpers.IncrementAction(action)
	helpers.Publish(rt.Publisher, topic, model.Message{
		Type: action,
		From: actor,
		To:   subject,
	})

	writeJSON(w, http.StatusOK, model.RequestError{
		Error:   false,
		Message: message,
	})
}
