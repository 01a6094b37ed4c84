package helpers

import (
	"encoding/json"
	"log"

	"github.com/nats-io/nats.go"
	"github.com/omkar2711/mediaConnect-b7/model"
)

// Subjects events are published on
const (
	SubjectFollow   = "mediaconnect.follow"
	SubjectUnfollow = "mediaconnect.unfollow"
	SubjectLike     = "mediaconnect.like"
	SubjectComment  = "mediaconnect.comment"
	SubjectPost     = "mediaconnect.post"
)

// Publisher sends raw messages, *nats.Conn satisfies it
type Publisher interface {
	Publish(subject string, data []byte) error
}

// InitNATS starts a new NATS connection, nil when it cannot connect
func InitNATS(url string) *nats.Conn {
	connection, err := nats.Connect(url, nats.Name("mediaconnect"))
	if err != nil {
		log.Printf("Cannot connect to %v: %v", url, err)
		return nil
	}

	return connection
}

// Publish allows publishing message on NATS. A nil publisher drops it.
func Publish(publisher Publisher, subject string, message model.Message) {
	if publisher == nil {
		return
	}

	data, err := json.Marshal(message)
	if err != nil {
		log.Printf("(Publish) Cannot encode message for %v: %v", subject, err)
		return
	}

	if err := publisher.Publish(subject, data); err != nil {
		log.Printf("(Publish) Failed to send message to %v, got error: %v", subject, err)
	}
}
