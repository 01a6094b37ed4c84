package router

import (
	"net/http"
	"strings"

	"github.com/omkar2711/mediaConnect-b7/database"
	"github.com/omkar2711/mediaConnect-b7/helpers"
	"github.com/omkar2711/mediaConnect-b7/model"
)

// Comment allows to create a new comment on a post
func (rt *Router) Comment(w http.ResponseWriter, req *http.Request, actor string) {
	var getbody model.CommentBody
	if !readBody(w, req, &getbody) {
		return
	}

	if strings.TrimSpace(getbody.Text) == "" {
		fail(w, req, database.ErrEmptyComment)
		return
	}

	postID := req.PathValue("postId")

	ctx, cancel := rt.context(req)
	defer cancel()

	comment, err := rt.Store.AddComment(ctx, postID, actor, getbody.Text)
	if err != nil {
		fail(w, req, err)
		return
	}

	helpers.IncrementAction("comment")
	helpers.Publish(rt.Publisher, helpers.SubjectComment, model.Message{
		Type: "comment",
		From: actor,
		To:   postID,
	})

	writeJSON(w, http.StatusCreated, comment)
}
