package server

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"time"
	"unicode/utf8"

	"github.com/bastiangx/wordrank/internal/logger"
	"github.com/bastiangx/wordrank/internal/utils"
	"github.com/bastiangx/wordrank/pkg/autocomplete"
	"github.com/bastiangx/wordrank/pkg/config"
	"github.com/bastiangx/wordrank/pkg/dictionary"
	"github.com/bastiangx/wordrank/pkg/metrics"
	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"
)

const (
	codeInvalid     = 400
	codeInternal    = 500
	codeUnsupported = 501
)

// Server answers msgpack requests against one index. Requests are handled
// one at a time in arrival order.
type Server struct {
	index    autocomplete.Autocompletor
	kind     autocomplete.Kind
	cfg      config.ServerConfig
	metrics  *metrics.Metrics
	decoder  *msgpack.Decoder
	writer   io.Writer
	log      *log.Logger
	requests int64
}

// NewServer creates a server reading requests from r and writing responses
// to w, normally stdin and stdout. m may be nil.
func NewServer(index autocomplete.Autocompletor, kind autocomplete.Kind, cfg config.ServerConfig, m *metrics.Metrics, r io.Reader, w io.Writer) *Server {
	return &Server{
		index:   index,
		kind:    kind,
		cfg:     cfg,
		metrics: m,
		decoder: msgpack.NewDecoder(bufio.NewReader(r)),
		writer:  w,
		log:     logger.New("server"),
	}
}

// Start announces readiness and serves until the input ends, ctx is done or
// the stream can no longer be decoded.
func (s *Server) Start(ctx context.Context) error {
	s.log.Debug("Starting server", "index", s.kind)
	if err := s.send(StatusResponse{Status: "ready"}); err != nil {
		return err
	}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		// Decoding into a raw message first consumes exactly one value,
		// so a request with the wrong shape does not desync the stream.
		var raw msgpack.RawMessage
		if err := s.decoder.Decode(&raw); err != nil {
			if errors.Is(err, io.EOF) {
				s.log.Debug("Input closed", "requests", s.requests)
				return nil
			}
			return fmt.Errorf("reading request: %w", err)
		}

		var req Request
		if err := msgpack.Unmarshal(raw, &req); err != nil {
			s.log.Errorf("Unmarshaling request: %v", err)
			if err := s.send(CompletionError{Error: "invalid msgpack request", Code: codeInvalid}); err != nil {
				return err
			}
			continue
		}
		if err := s.send(s.handleRequest(req)); err != nil {
			return err
		}
	}
}

// handleRequest dispatches on the action and records metrics.
func (s *Server) handleRequest(req Request) any {
	s.requests++
	req.Prefix = dictionary.Normalize(req.Prefix)
	action := req.Action
	if action == "" {
		action = ActionComplete
	}

	start := time.Now()
	var (
		resp any
		err  error
	)
	switch action {
	case ActionComplete:
		resp, err = s.handleComplete(req)
	case ActionTop:
		resp, err = s.handleTop(req)
	case ActionWeight:
		resp, err = s.handleWeight(req)
	case ActionAdd:
		resp, err = s.handleAdd(req)
	case ActionStats:
		resp = s.stats(req.ID)
	case ActionHealth:
		resp = StatusResponse{ID: req.ID, Status: "ok"}
	default:
		err = fmt.Errorf("%w: unknown action %q", autocomplete.ErrInvalidArgument, action)
		action = "unknown"
	}
	if err != nil {
		code := errorCode(err)
		s.metrics.ObserveRequest(action, statusLabel(code), time.Since(start))
		s.log.Debug("Request failed", "id", req.ID, "action", action, "err", err)
		return CompletionError{ID: req.ID, Error: err.Error(), Code: code}
	}
	s.metrics.ObserveRequest(action, "ok", time.Since(start))
	return resp
}

// checkPrefix applies the configured prefix length bounds, in runes.
func (s *Server) checkPrefix(prefix string) error {
	n := utf8.RuneCountInString(prefix)
	if n < s.cfg.MinPrefix {
		return fmt.Errorf("%w: prefix must be at least %d characters", autocomplete.ErrInvalidArgument, s.cfg.MinPrefix)
	}
	if n > s.cfg.MaxPrefix {
		return fmt.Errorf("%w: prefix exceeds maximum length of %d characters", autocomplete.ErrInvalidArgument, s.cfg.MaxPrefix)
	}
	return nil
}

// limit resolves the requested count: 0 means the default, anything above
// the maximum is clamped. Negative values reach the index and are rejected
// there.
func (s *Server) limit(requested int) int {
	switch {
	case requested == 0:
		return s.cfg.DefaultLimit
	case requested > s.cfg.MaxLimit:
		return s.cfg.MaxLimit
	}
	return requested
}

func (s *Server) handleComplete(req Request) (any, error) {
	if err := s.checkPrefix(req.Prefix); err != nil {
		return nil, err
	}

	start := time.Now()
	words, err := s.index.TopMatches(req.Prefix, s.limit(req.Limit))
	if err != nil {
		return nil, err
	}
	ranks := utils.CreateRankList(len(words))
	suggestions := make([]CompletionSuggestion, len(words))
	for i, w := range words {
		weight, err := s.index.WeightOf(w)
		if err != nil {
			return nil, err
		}
		suggestions[i] = CompletionSuggestion{Word: w, Rank: ranks[i], Weight: weight}
	}
	elapsed := time.Since(start)
	s.metrics.ObserveResults(len(words))

	return CompletionResponse{
		ID:          req.ID,
		Suggestions: suggestions,
		Count:       len(suggestions),
		TimeTaken:   elapsed.Microseconds(),
	}, nil
}

func (s *Server) handleTop(req Request) (any, error) {
	if err := s.checkPrefix(req.Prefix); err != nil {
		return nil, err
	}
	start := time.Now()
	word, err := s.index.TopMatch(req.Prefix)
	if err != nil {
		return nil, err
	}
	return TopResponse{ID: req.ID, Word: word, TimeTaken: time.Since(start).Microseconds()}, nil
}

func (s *Server) handleWeight(req Request) (any, error) {
	if req.Prefix == "" {
		return nil, fmt.Errorf("%w: missing 'p' parameter", autocomplete.ErrMissingArgument)
	}
	weight, err := s.index.WeightOf(req.Prefix)
	if err != nil {
		return nil, err
	}
	return WeightResponse{ID: req.ID, Word: req.Prefix, Weight: weight}, nil
}

func (s *Server) handleAdd(req Request) (any, error) {
	u, ok := s.index.(autocomplete.Updater)
	if !ok {
		return nil, fmt.Errorf("%s index: %w", s.kind, errors.ErrUnsupported)
	}
	if req.Weight == nil {
		return nil, fmt.Errorf("%w: missing 'w' parameter", autocomplete.ErrMissingArgument)
	}
	if err := u.Add(req.Prefix, *req.Weight); err != nil {
		return nil, err
	}
	s.metrics.AddedWord()
	if sz, ok := s.index.(autocomplete.Sizer); ok {
		s.metrics.SetIndexWords(sz.Len())
	}
	s.log.Debug("Added word", "word", req.Prefix, "weight", *req.Weight)
	return StatusResponse{ID: req.ID, Status: "ok"}, nil
}

func (s *Server) stats(id string) StatusResponse {
	resp := StatusResponse{ID: id, Status: "ok", Index: string(s.kind), Requests: s.requests}
	if sz, ok := s.index.(autocomplete.Sizer); ok {
		resp.Words = sz.Len()
	}
	if src, ok := s.index.(metrics.StatsSource); ok {
		resp.Cache = src.Stats()
	}
	return resp
}

// send marshals a whole response before writing it, so a response is
// never interleaved or half written.
func (s *Server) send(resp any) error {
	data, err := msgpack.Marshal(resp)
	if err != nil {
		s.log.Errorf("Marshaling response: %v", err)
		data, err = msgpack.Marshal(CompletionError{Error: "internal server error", Code: codeInternal})
		if err != nil {
			return err
		}
	}
	if _, err := s.writer.Write(data); err != nil {
		return fmt.Errorf("writing response: %w", err)
	}
	return nil
}

func errorCode(err error) int {
	switch {
	case errors.Is(err, autocomplete.ErrInvalidArgument), errors.Is(err, autocomplete.ErrMissingArgument):
		return codeInvalid
	case errors.Is(err, errors.ErrUnsupported):
		return codeUnsupported
	}
	return codeInternal
}

func statusLabel(code int) string {
	switch code {
	case codeInvalid:
		return "invalid"
	case codeUnsupported:
		return "unsupported"
	}
	return "error"
}
