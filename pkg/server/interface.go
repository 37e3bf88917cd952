/*
Package server implements msgpack IPC for frequent itemset mining.

The server reads a stream of msgpack encoded requests from stdin and writes
one msgpack encoded response per request to stdout. Logs go to stderr so the
stream stays clean. Right after start the server writes a status message:

	{"status": "ready", "transactions": 1250, "items": 312}

# Actions

mine runs the level-wise search over the loaded store. The threshold of the
server config can be overridden per request:

	{"id": "m1", "action": "mine", "minsup": 0.1, "strict": true}

The response lists every frequent level in order. Each itemset carries its
items, absolute count and relative support:

	{"id": "m1", "l": [{"k": 1, "s": [{"i": [12], "c": 40, "r": 0.32}]}], "c": 1, "t": 812}

support evaluates one itemset, frequent or not:

	{"id": "s1", "action": "support", "items": [12, 40]}

info reports the store statistics and the active mining config:

	{"id": "i1", "action": "info"}

A request that cannot be served gets an ErrorResponse with a status code.
Requests are processed synchronously in arrival order.
*/
package server

// Request is the single request shape; fields are read per action.
type Request struct {
	ID         string   `msgpack:"id"`
	Action     string   `msgpack:"action"`
	MinSupport *float64 `msgpack:"minsup,omitempty"`
	Strict     *bool    `msgpack:"strict,omitempty"`
	MaxLevel   *int     `msgpack:"max_level,omitempty"`
	Items      []uint32 `msgpack:"items,omitempty"`
}

// ItemsetResult is one frequent itemset in a mine response.
type ItemsetResult struct {
	Items   []uint32 `msgpack:"i"`
	Count   int      `msgpack:"c"`
	Support float64  `msgpack:"r"`
}

// LevelResult holds the frequent itemsets of one size.
type LevelResult struct {
	K        int             `msgpack:"k"`
	Itemsets []ItemsetResult `msgpack:"s"`
}

// MineResponse - mine response. TimeTaken is in microseconds.
type MineResponse struct {
	ID        string        `msgpack:"id"`
	Levels    []LevelResult `msgpack:"l"`
	Count     int           `msgpack:"c"`
	Total     int           `msgpack:"n"`
	Truncated bool          `msgpack:"x,omitempty"`
	TimeTaken int64         `msgpack:"t"`
}

// SupportResponse - support of a single itemset
type SupportResponse struct {
	ID       string   `msgpack:"id"`
	Items    []uint32 `msgpack:"i"`
	Count    int      `msgpack:"c"`
	Total    int      `msgpack:"n"`
	Support  float64  `msgpack:"r"`
	Frequent bool     `msgpack:"f"`
}

// InfoResponse - store statistics and mining config
type InfoResponse struct {
	ID           string  `msgpack:"id"`
	Status       string  `msgpack:"status"`
	Transactions int     `msgpack:"transactions"`
	Items        int     `msgpack:"items"`
	Entries      int     `msgpack:"entries"`
	MaxSize      int     `msgpack:"max_size"`
	MinSupport   float64 `msgpack:"minsup"`
	Threshold    string  `msgpack:"threshold"`
	Evaluator    string  `msgpack:"evaluator"`
}

// ReadyResponse is written once when the server starts.
type ReadyResponse struct {
	Status       string `msgpack:"status"`
	Transactions int    `msgpack:"transactions"`
	Items        int    `msgpack:"items"`
}

// ErrorResponse holds basic error information for a failed request
type ErrorResponse struct {
	ID    string `msgpack:"id"`
	Error string `msgpack:"e"`
	Code  int    `msgpack:"c"`
}
