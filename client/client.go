// Package client talks to the MediaConnect REST API and keeps a local
// feed view in sync with it.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/omkar2711/mediaConnect-b7/model"
	"github.com/openzipkin/zipkin-go"
	zipkinhttp "github.com/openzipkin/zipkin-go/middleware/http"
)

// Doer sends HTTP requests. *http.Client and the traced zipkin client
// both satisfy it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// APIError is returned for every non-2xx answer
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return e.Message
}

// Client wraps every route of the API
type Client struct {
	BaseURL string
	// Token is sent as a bearer token when set
	Token string
	HTTP  Doer
}

// New creates a client using http.DefaultClient
func New(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    http.DefaultClient,
	}
}

// NewTraced creates a client whose requests are spans of tracer
func NewTraced(baseURL string, tracer *zipkin.Tracer) (*Client, error) {
	traced, err := zipkinhttp.NewClient(tracer, zipkinhttp.ClientTrace(true))
	if err != nil {
		return nil, err
	}

	c := New(baseURL)
	c.HTTP = traced
	return c, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	doer := c.HTTP
	if doer == nil {
		doer = http.DefaultClient
	}

	res, err := doer.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	data, err := io.ReadAll(res.Body)
	if err != nil {
		return err
	}

	if res.StatusCode < 200 || res.StatusCode > 299 {
		var answer model.RequestError
		if json.Unmarshal(data, &answer) == nil && answer.Message != "" {
			return &APIError{Status: res.StatusCode, Message: answer.Message}
		}
		return &APIError{
			Status:  res.StatusCode,
			Message: fmt.Sprintf("Request failed (%d)", res.StatusCode),
		}
	}

	if out == nil {
		return nil
	}

	return json.Unmarshal(data, out)
}

// Register creates an account
func (c *Client) Register(ctx context.Context, body model.RegisterBody) (model.RegisterResponse, error) {
	var res model.RegisterResponse
	err := c.do(ctx, http.MethodPost, "/auth/register", body, &res)
	return res, err
}

// Login exchanges credentials for a token and keeps it for the next calls
func (c *Client) Login(ctx context.Context, username, password string) (string, error) {
	var res model.TokenResponse
	if err := c.do(ctx, http.MethodPost, "/auth/login", model.LoginBody{
		Username: username,
		Password: password,
	}, &res); err != nil {
		return "", err
	}

	c.Token = res.Token
	return res.Token, nil
}

// Me returns the current user
func (c *Client) Me(ctx context.Context) (model.User, error) {
	var user model.User
	err := c.do(ctx, http.MethodGet, "/users", nil, &user)
	return user, err
}

// UpdateMe edits the current user
func (c *Client) UpdateMe(ctx context.Context, update model.UpdateBody) (model.User, error) {
	var user model.User
	err := c.do(ctx, http.MethodPut, "/users", update, &user)
	return user, err
}

// User returns any user by id
func (c *Client) User(ctx context.Context, id string) (model.User, error) {
	var user model.User
	err := c.do(ctx, http.MethodGet, "/users/"+url.PathEscape(id), nil, &user)
	return user, err
}

// MyPosts returns the posts of the current user
func (c *Client) MyPosts(ctx context.Context) ([]model.Post, error) {
	var posts []model.Post
	err := c.do(ctx, http.MethodGet, "/users/posts", nil, &posts)
	return posts, err
}

// Suggestions returns users to follow, limit <= 0 uses the server default
func (c *Client) Suggestions(ctx context.Context, limit int) ([]model.User, error) {
	path := "/users/suggestions"
	if limit > 0 {
		path += "?limit=" + strconv.Itoa(limit)
	}

	var users []model.User
	err := c.do(ctx, http.MethodGet, path, nil, &users)
	return users, err
}

// Follow makes the current user follow id
func (c *Client) Follow(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodPost, "/users/follow", model.SetBody{Id: id}, nil)
}

// Unfollow makes the current user stop following id
func (c *Client) Unfollow(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodPost, "/users/unfollow", model.SetBody{Id: id}, nil)
}

// Posts returns every post
func (c *Client) Posts(ctx context.Context) ([]model.Post, error) {
	var posts []model.Post
	err := c.do(ctx, http.MethodGet, "/posts", nil, &posts)
	return posts, err
}

// Post returns a single post
func (c *Client) Post(ctx context.Context, id string) (model.Post, error) {
	var post model.Post
	err := c.do(ctx, http.MethodGet, "/posts/"+url.PathEscape(id), nil, &post)
	return post, err
}

// CreatePost publishes a post
func (c *Client) CreatePost(ctx context.Context, body model.PostBody) (model.Post, error) {
	var post model.Post
	err := c.do(ctx, http.MethodPost, "/posts", body, &post)
	return post, err
}

// EditPost changes a post of the current user
func (c *Client) EditPost(ctx context.Context, id string, update model.PostUpdate) (model.Post, error) {
	var post model.Post
	err := c.do(ctx, http.MethodPut, "/posts/"+url.PathEscape(id), update, &post)
	return post, err
}

// DeletePost removes a post of the current user
func (c *Client) DeletePost(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/posts/"+url.PathEscape(id), nil, nil)
}

// Like likes a post and returns its new like count
func (c *Client) Like(ctx context.Context, id string) (int64, error) {
	var res model.LikeResponse
	err := c.do(ctx, http.MethodPost, "/posts/"+url.PathEscape(id)+"/like", nil, &res)
	return res.LikeCount, err
}

// Comment adds a comment under a post
func (c *Client) Comment(ctx context.Context, postID, text string) (model.Comment, error) {
	var comment model.Comment
	err := c.do(ctx, http.MethodPost, "/comments/"+url.PathEscape(postID), model.CommentBody{Text: text}, &comment)
	return comment, err
}

// Feed returns the rendered feed of the current user
func (c *Client) Feed(ctx context.Context, limit int) ([]model.FeedItem, error) {
	path := "/feed"
	if limit > 0 {
		path += "?limit=" + strconv.Itoa(limit)
	}

	var items []model.FeedItem
	err := c.do(ctx, http.MethodGet, path, nil, &items)
	return items, err
}
