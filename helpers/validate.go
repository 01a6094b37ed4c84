package helpers

import (
	"errors"
	"net/url"
	"regexp"
	"strings"

	"github.com/omkar2711/mediaConnect-b7/model"
)

// MaxMedia is the maximum number of media URLs of a post
const MaxMedia = 10

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// CheckUsername validates a username
func CheckUsername(username string) error {
	username = strings.TrimSpace(username)
	if len(username) < 3 {
		return errors.New("username must be at least 3 characters")
	}
	if len(username) > 30 {
		return errors.New("username must be at most 30 characters")
	}
	if strings.ContainsAny(username, " /@") {
		return errors.New("username cannot contain spaces, slashes or @")
	}

	return nil
}

// CheckEmail validates an email address
func CheckEmail(email string) error {
	if !emailRegex.MatchString(strings.TrimSpace(email)) {
		return errors.New("invalid email format")
	}

	return nil
}

// CheckRegister validates a registration body
func CheckRegister(body model.RegisterBody) error {
	if err := CheckUsername(body.Username); err != nil {
		return err
	}
	if err := CheckEmail(body.Email); err != nil {
		return err
	}
	if len(body.Password) < 6 {
		return errors.New("password must be at least 6 characters")
	}

	return nil
}

// CheckMedia validates the media URLs of a post
func CheckMedia(media []string) error {
	if len(media) > MaxMedia {
		return errors.New("maximum media exceeded")
	}

	for _, raw := range media {
		u, err := url.Parse(raw)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return errors.New("invalid media url")
		}
	}

	return nil
}
