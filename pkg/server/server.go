package server

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/bastiangx/freqset/internal/logger"
	"github.com/bastiangx/freqset/pkg/itemset"
	"github.com/bastiangx/freqset/pkg/mining"
	"github.com/bastiangx/freqset/pkg/store"
	"github.com/bastiangx/freqset/pkg/support"
	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"
)

const (
	codeBadRequest = 400
	codeInternal   = 500
)

// Server answers mining requests over a msgpack stream.
type Server struct {
	store       *store.Store
	cfg         mining.Config
	maxItemsets int
	logger      *log.Logger

	dec *msgpack.Decoder
	enc *msgpack.Encoder
	out *bufio.Writer
}

// NewServer creates a server using stdin/stdout for IPC.
// maxItemsets caps the itemsets of a mine response; 0 means no cap.
func NewServer(st *store.Store, cfg mining.Config, maxItemsets int) *Server {
	return NewServerWithIO(st, cfg, maxItemsets, os.Stdin, os.Stdout)
}

// NewServerWithIO creates a server reading requests from r and writing
// responses to w.
func NewServerWithIO(st *store.Store, cfg mining.Config, maxItemsets int, r io.Reader, w io.Writer) *Server {
	out := bufio.NewWriter(w)
	return &Server{
		store:       st,
		cfg:         cfg,
		maxItemsets: maxItemsets,
		logger:      logger.New("server"),
		dec:         msgpack.NewDecoder(bufio.NewReader(r)),
		enc:         msgpack.NewEncoder(out),
		out:         out,
	}
}

// Start signals readiness and serves requests until the input ends.
func (s *Server) Start() error {
	s.logger.Debug("Starting Server.")
	st := s.store.Stats()
	s.sendResponse(ReadyResponse{Status: "ready", Transactions: st.Transactions, Items: st.Items})

	for {
		raw, err := s.dec.DecodeRaw()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			// the stream cannot be resynchronised after a framing error
			s.logger.Errorf("Reading request: %v", err)
			s.sendError("", "Invalid msgpack stream", codeBadRequest)
			return err
		}
		s.handleRequest(raw)
	}
}

func (s *Server) handleRequest(raw msgpack.RawMessage) {
	var req Request
	if err := msgpack.Unmarshal(raw, &req); err != nil {
		s.logger.Errorf("Unmarshaling request: %v", err)
		s.sendError("", "Invalid request", codeBadRequest)
		return
	}

	switch req.Action {
	case "mine":
		s.handleMine(req)
	case "support":
		s.handleSupport(req)
	case "info":
		s.handleInfo(req)
	default:
		s.sendError(req.ID, fmt.Sprintf("Unknown action: %s", req.Action), codeBadRequest)
	}
}

// requestConfig applies the per-request overrides to the server config.
func (s *Server) requestConfig(req Request) (mining.Config, error) {
	cfg := s.cfg
	if req.MinSupport != nil {
		cfg.Threshold.MinSupport = *req.MinSupport
	}
	if req.Strict != nil {
		cfg.Threshold.Policy = support.Inclusive
		if *req.Strict {
			cfg.Threshold.Policy = support.Strict
		}
	}
	if req.MaxLevel != nil {
		cfg.MaxLevel = *req.MaxLevel
	}
	return cfg, cfg.Validate()
}

func (s *Server) handleMine(req Request) {
	cfg, err := s.requestConfig(req)
	if err != nil {
		s.sendError(req.ID, err.Error(), codeBadRequest)
		return
	}

	start := time.Now()
	m, err := mining.NewMiner(s.store, cfg, mining.WithLogger(s.logger))
	if err != nil {
		s.sendError(req.ID, err.Error(), codeBadRequest)
		return
	}
	res, err := m.Mine()
	if err != nil {
		s.logger.Errorf("Mining failed: %v", err)
		s.sendError(req.ID, err.Error(), codeInternal)
		return
	}
	elapsed := time.Since(start)

	resp := MineResponse{ID: req.ID, Total: res.Total, TimeTaken: elapsed.Microseconds()}
	for _, level := range res.Levels {
		lr := LevelResult{K: level.K}
		for _, f := range level.Itemsets {
			if s.maxItemsets > 0 && resp.Count == s.maxItemsets {
				resp.Truncated = true
				break
			}
			lr.Itemsets = append(lr.Itemsets, ItemsetResult{
				Items:   toWire(f.Itemset),
				Count:   f.Support.Count,
				Support: f.Support.Ratio(),
			})
			resp.Count++
		}
		if len(lr.Itemsets) > 0 {
			resp.Levels = append(resp.Levels, lr)
		}
		if resp.Truncated {
			s.logger.Warnf("Mine response truncated at %d itemsets", s.maxItemsets)
			break
		}
	}
	s.sendResponse(resp)
}

func (s *Server) handleSupport(req Request) {
	if len(req.Items) == 0 {
		s.sendError(req.ID, "Missing 'items' parameter", codeBadRequest)
		return
	}
	cfg, err := s.requestConfig(req)
	if err != nil {
		s.sendError(req.ID, err.Error(), codeBadRequest)
		return
	}
	eval, err := support.ByName(cfg.Evaluator, s.store)
	if err != nil {
		s.sendError(req.ID, err.Error(), codeBadRequest)
		return
	}

	items := make([]itemset.Item, len(req.Items))
	for i, v := range req.Items {
		items[i] = itemset.Item(v)
	}
	set := itemset.New(items...)
	v := eval.Support(set)
	s.sendResponse(SupportResponse{
		ID:       req.ID,
		Items:    toWire(set),
		Count:    v.Count,
		Total:    v.Total,
		Support:  v.Ratio(),
		Frequent: cfg.Threshold.Passes(v),
	})
}

func (s *Server) handleInfo(req Request) {
	st := s.store.Stats()
	evaluator := s.cfg.Evaluator
	if evaluator == "" {
		evaluator = support.VerticalName
	}
	s.sendResponse(InfoResponse{
		ID:           req.ID,
		Status:       "ok",
		Transactions: st.Transactions,
		Items:        st.Items,
		Entries:      st.Entries,
		MaxSize:      st.MaxSize,
		MinSupport:   s.cfg.Threshold.MinSupport,
		Threshold:    s.cfg.Threshold.Policy.String(),
		Evaluator:    evaluator,
	})
}

// sendResponse encodes a response and flushes it to the client.
func (s *Server) sendResponse(response any) {
	if err := s.enc.Encode(response); err != nil {
		s.logger.Errorf("Encoding response: %v", err)
		return
	}
	if err := s.out.Flush(); err != nil {
		s.logger.Errorf("Writing response: %v", err)
	}
}

func (s *Server) sendError(id, message string, code int) {
	s.sendResponse(ErrorResponse{ID: id, Error: message, Code: code})
}

func toWire(s itemset.Itemset) []uint32 {
	out := make([]uint32, len(s))
	for i, item := range s {
		out[i] = uint32(item)
	}
	return out
}
