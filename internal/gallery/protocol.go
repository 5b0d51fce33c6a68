package gallery

import "errors"

// MessageType names a request, reply or event on the gallery socket.
type MessageType string

const (
	// requests
	TypeCreate MessageType = "create"
	TypeGet    MessageType = "get"
	TypeList   MessageType = "list"
	TypeOwned  MessageType = "owned"
	TypeDelete MessageType = "delete"

	// replies
	TypeArtwork  MessageType = "artwork"
	TypeArtworks MessageType = "artworks"
	TypeDeleted  MessageType = "deleted"
	TypeError    MessageType = "error"

	// TypeCreated is pushed to every other studio after a create.
	TypeCreated MessageType = "created"
)

// Error codes carried by TypeError replies.
const (
	CodeNotFound     = "not_found"
	CodeNotOwner     = "not_owner"
	CodeInvalidImage = "invalid_image"
	CodeBadRequest   = "bad_request"
	CodeInternal     = "internal"
)

// Message is the single JSON envelope exchanged over the socket. Replies
// echo the RequestID of the request they answer.
type Message struct {
	Type      MessageType `json:"type"`
	RequestID string      `json:"request_id,omitempty"`
	Owner     string      `json:"owner,omitempty"`
	ID        string      `json:"id,omitempty"`
	Artwork   *Artwork    `json:"artwork,omitempty"`
	Artworks  []Artwork   `json:"artworks,omitempty"`
	Error     string      `json:"error,omitempty"`
	Code      string      `json:"code,omitempty"`
}

func errorMessage(requestID string, err error) Message {
	code := CodeInternal
	switch {
	case errors.Is(err, ErrNotFound):
		code = CodeNotFound
	case errors.Is(err, ErrNotOwner):
		code = CodeNotOwner
	case errors.Is(err, ErrInvalidImage):
		code = CodeInvalidImage
	case errors.Is(err, errBadRequest):
		code = CodeBadRequest
	}
	return Message{Type: TypeError, RequestID: requestID, Error: err.Error(), Code: code}
}

var errBadRequest = errors.New("bad request")

// replyError turns an error reply back into the matching sentinel.
func replyError(m Message) error {
	var base error
	switch m.Code {
	case CodeNotFound:
		base = ErrNotFound
	case CodeNotOwner:
		base = ErrNotOwner
	case CodeInvalidImage:
		base = ErrInvalidImage
	default:
		return errors.New(m.Error)
	}
	if m.Error == "" || m.Error == base.Error() {
		return base
	}
	return &remoteError{base: base, msg: m.Error}
}

type remoteError struct {
	base error
	msg  string
}

func (e *remoteError) Error() string { return e.msg }
func (e *remoteError) Unwrap() error { return e.base }
