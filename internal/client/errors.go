package client

import (
	"errors"
	"net/http"
)

var (
	// ErrNotFound matches a RequestError for a 404 response
	ErrNotFound = errors.New("not found")
	// ErrRejected matches a RequestError for any other non-2xx response
	ErrRejected = errors.New("request rejected")
	// ErrTransport matches a RequestError where no usable response arrived
	ErrTransport = errors.New("transport failure")
)

// RequestError is returned by every Client method. Status is 0 when the
// request never produced a usable response.
type RequestError struct {
	Op      string
	Status  int
	Message string
	Err     error
}

func (e *RequestError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

// Is classifies the error against ErrNotFound, ErrRejected and ErrTransport
func (e *RequestError) Is(target error) bool {
	switch target {
	case ErrNotFound:
		return e.Status == http.StatusNotFound
	case ErrRejected:
		return e.Status != 0 && e.Status != http.StatusNotFound
	case ErrTransport:
		return e.Status == 0
	}
	return false
}

// operations and the message shown when the server gives no detail
const (
	opCreateUser         = "create user"
	opGetUser            = "get user"
	opDeleteUser         = "delete user"
	opListCollections    = "list collections"
	opCreateCollection   = "create collection"
	opGetCollection      = "get collection"
	opUpdateExchangeRate = "update exchange rate"
	opListCards          = "list cards"
	opAddCard            = "add card"
	opRemoveCard         = "remove card"
	opGetHistory         = "get history"
	opUpsertPrice        = "upsert price"
)

var defaultMessages = map[string]string{
	opCreateUser:         "Failed to create user",
	opGetUser:            "Invalid credentials",
	opDeleteUser:         "Failed to delete user",
	opListCollections:    "Failed to fetch collections",
	opCreateCollection:   "Failed to create collection",
	opGetCollection:      "Failed to fetch collection",
	opUpdateExchangeRate: "Failed to update exchange rate",
	opListCards:          "Failed to fetch cards",
	opAddCard:            "Failed to add card",
	opRemoveCard:         "Failed to remove card",
	opGetHistory:         "Failed to fetch value history",
	opUpsertPrice:        "Failed to update price",
}

// DefaultMessage returns the fallback message for op
func DefaultMessage(op string) string {
	if msg, ok := defaultMessages[op]; ok {
		return msg
	}
	return "Request failed"
}
