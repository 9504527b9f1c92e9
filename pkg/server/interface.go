/*
Package server implements msgpack IPC for weighted prefix completion.

Clients write msgpack maps to the server's stdin and read one msgpack map per
request back from stdout. Every request carries an ID that is echoed in its
response, and an action; a missing action means "complete".

A completion request looks like:

	{"id": "req_001", "p": "be", "l": 2}

and is answered with the heaviest matching words, ranked from 1:

	{"id": "req_001", "s": [{"w": "bell", "r": 1, "v": 4}, {"w": "bat", "r": 2, "v": 2}], "c": 2, "t": 12}

where t is the time spent in the index, in microseconds. The other actions are

	{"id": "q", "a": "top", "p": "b"}          -> {"id": "q", "w": "bell", "t": 3}
	{"id": "q", "a": "weight", "p": "bell"}    -> {"id": "q", "w": "bell", "v": 4}
	{"id": "q", "a": "add", "p": "cat", "w": 5} -> {"id": "q", "status": "ok"}
	{"id": "q", "a": "stats"}                  -> {"id": "q", "status": "ok", "words": 4, ...}
	{"id": "q", "a": "health"}                 -> {"id": "q", "status": "ok"}

Failures are answered with a CompletionError whose code is 400 for bad
arguments, 501 when the index cannot perform the action and 500 otherwise.

On startup the server writes {"status": "ready"} before reading anything.
*/
package server

// Actions understood by the server.
const (
	ActionComplete = "complete"
	ActionTop      = "top"
	ActionWeight   = "weight"
	ActionAdd      = "add"
	ActionStats    = "stats"
	ActionHealth   = "health"
)

// Request is the single inbound message shape. Fields an action does not
// use are ignored.
type Request struct {
	ID     string   `msgpack:"id"`
	Action string   `msgpack:"a,omitempty"`
	Prefix string   `msgpack:"p"`
	Limit  int      `msgpack:"l,omitempty"`
	Weight *float64 `msgpack:"w,omitempty"` // for "add"
}

// CompletionSuggestion - one ranked word
type CompletionSuggestion struct {
	Word   string  `msgpack:"w"`
	Rank   uint16  `msgpack:"r"`
	Weight float64 `msgpack:"v"`
}

// CompletionResponse - completion response
type CompletionResponse struct {
	ID          string                 `msgpack:"id"`
	Suggestions []CompletionSuggestion `msgpack:"s"`
	Count       int                    `msgpack:"c"`
	TimeTaken   int64                  `msgpack:"t"`
}

// TopResponse carries the single heaviest match, "" when there is none.
type TopResponse struct {
	ID        string `msgpack:"id"`
	Word      string `msgpack:"w"`
	TimeTaken int64  `msgpack:"t"`
}

// WeightResponse carries the stored weight of a word, 0 when absent.
type WeightResponse struct {
	ID     string  `msgpack:"id"`
	Word   string  `msgpack:"w"`
	Weight float64 `msgpack:"v"`
}

// StatusResponse answers health, stats and add requests, and announces
// readiness.
type StatusResponse struct {
	ID       string         `msgpack:"id,omitempty"`
	Status   string         `msgpack:"status"`
	Index    string         `msgpack:"index,omitempty"`
	Words    int            `msgpack:"words,omitempty"`
	Requests int64          `msgpack:"requests,omitempty"`
	Cache    map[string]int `msgpack:"cache,omitempty"`
}

// CompletionError holds basic error information for any request
type CompletionError struct {
	ID    string `msgpack:"id"`
	Error string `msgpack:"e"`
	Code  int    `msgpack:"c"`
}
