package router

import (
	"net/http"
	"strings"

	"github.com/omkar2711/mediaConnect-b7/helpers"
	"github.com/omkar2711/mediaConnect-b7/model"
)

// Posts returns every post, newest first
func (rt *Router) Posts(w http.ResponseWriter, req *http.Request) {
	ctx, cancel := rt.context(req)
	defer cancel()

	posts, err := rt.Store.ListPosts(ctx)
	if err != nil {
		fail(w, req, err)
		return
	}

	writeJSON(w, http.StatusOK, posts)
}

// New allows to publish a new post
func (rt *Router) New(w http.ResponseWriter, req *http.Request, actor string) {
	var getbody model.PostBody
	if !readBody(w, req, &getbody) {
		return
	}

	getbody.Caption = strings.TrimSpace(getbody.Caption)
	if getbody.Caption == "" && len(getbody.Media) == 0 {
		writeError(w, http.StatusBadRequest, ErrorInvalidPost)
		return
	}

	if err := helpers.CheckMedia(getbody.Media); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := rt.context(req)
	defer cancel()

	post, err := rt.Store.CreatePost(ctx, model.Post{
		CreatedBy: model.Ref(actor),
		Caption:   getbody.Caption,
		Media:     getbody.Media,
	})
	if err != nil {
		fail(w, req, err)
		return
	}

	helpers.IncrementAction("post")
	helpers.Publish(rt.Publisher, helpers.SubjectPost, model.Message{
		Type: "post",
		From: actor,
		To:   post.Id,
	})

	writeJSON(w, http.StatusCreated, post)
}

// Post returns a single post
func (rt *Router) Post(w http.ResponseWriter, req *http.Request) {
	ctx, cancel := rt.context(req)
	defer cancel()

	post, err := rt.Store.GetPost(ctx, req.PathValue("id"))
	if err != nil {
		fail(w, req, err)
		return
	}

	writeJSON(w, http.StatusOK, post)
}

// Edit changes the caption and media of a post, author only
func (rt *Router) Edit(w http.ResponseWriter, req *http.Request, actor string) {
	var getbody model.PostUpdate
	if !readBody(w, req, &getbody) {
		return
	}

	if getbody.Caption != nil {
		*getbody.Caption = strings.TrimSpace(*getbody.Caption)
	}
	if getbody.Media != nil {
		if err := helpers.CheckMedia(getbody.Media); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	ctx, cancel := rt.context(req)
	defer cancel()

	post, err := rt.Store.UpdatePost(ctx, req.PathValue("id"), actor, getbody)
	if err != nil {
		fail(w, req, err)
		return
	}

	writeJSON(w, http.StatusOK, post)
}

// Delete removes a post and its comments, author only
func (rt *Router) Delete(w http.ResponseWriter, req *http.Request, actor string) {
	ctx, cancel := rt.context(req)
	defer cancel()

	if err := rt.Store.DeletePost(ctx, req.PathValue("id"), actor); err != nil {
		fail(w, req, err)
		return
	}

	writeJSON(w, http.StatusOK, model.RequestError{
		Error:   false,
		Message: OkDeletedPost,
	})
}

// Like adds one like to a post. Likes are not deduplicated per user.
func (rt *Router) Like(w http.ResponseWriter, req *http.Request, actor string) {
	id := req.PathValue("id")

	ctx, cancel := rt.context(req)
	defer cancel()

	count, err := rt.Store.LikePost(ctx, id)
	if err != nil {
		fail(w, req, err)
		return
	}

	helpers.IncrementAction("like")
	helpers.Publish(rt.Publisher, helpers.SubjectLike, model.Message{
		Type: "like",
		From: actor,
		To:   id,
	})

	writeJSON(w, http.StatusOK, model.LikeResponse{LikeCount: count})
}
