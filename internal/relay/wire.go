package relay

// JSON envelopes of the HTTP surface, shared by the server and the client.

type Health struct {
	Status       string `json:"status"`
	MessageCount int    `json:"messageCount"`
	UnreadCount  int    `json:"unreadCount"`
}

type ListResponse struct {
	Messages []Message `json:"messages"`
	Total    int       `json:"total"`
}

type UnreadResponse struct {
	Messages []Message `json:"messages"`
	Count    int       `json:"count"`
}

// MessageResponse wraps the record returned by create and mark-read.
type MessageResponse struct {
	Success bool    `json:"success"`
	Message Message `json:"message"`
}

type DeleteResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
