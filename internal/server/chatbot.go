package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/user/shopchat/internal/errors"
	"github.com/user/shopchat/internal/logging"
	"github.com/user/shopchat/internal/tools"
)

// maxBodyBytes caps the request body of POST /chatbot
const maxBodyBytes = 64 << 10

// ChatRequest is the body of POST /chatbot
type ChatRequest struct {
	Input string `json:"input"`
}

// ChatResponse is the success body of POST /chatbot
type ChatResponse struct {
	Response string `json:"response"`
}

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleChatbot(w http.ResponseWriter, r *http.Request) {
	logger := loggerFrom(r.Context(), s.deps.Logger)

	req, err := decodeChatRequest(r.Body)
	if err != nil {
		s.writeError(w, logger, err)
		return
	}

	reg, err := s.registry(logger)
	if err != nil {
		s.writeError(w, logger, err)
		return
	}

	start := time.Now()
	answer, err := s.deps.Caller.WithLogger(logger).Run(r.Context(), req.Input, reg)
	if err != nil {
		s.writeError(w, logger, err)
		return
	}

	logger.Info("Chat answered", logging.Duration("duration", time.Since(start)))
	writeJSON(w, http.StatusOK, ChatResponse{Response: answer})
}

func decodeChatRequest(body io.Reader) (ChatRequest, error) {
	var req ChatRequest

	dec := json.NewDecoder(io.LimitReader(body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		return req, errors.NewValidationError("invalid request body: " + err.Error())
	}
	if dec.More() {
		return req, errors.NewValidationError("invalid request body: unexpected data after JSON object")
	}

	req.Input = strings.TrimSpace(req.Input)
	if req.Input == "" {
		return req, errors.NewValidationError("input is required")
	}
	return req, nil
}

// registry binds the request logger and the service collaborators into a
// registry that lives for this request only
func (s *Server) registry(logger *logging.Logger) (*tools.Registry, error) {
	builtins := []tools.Tool{
		tools.NewConvertCurrenciesTool(s.deps.Converter),
		tools.NewSearchProductsTool(s.deps.Searcher),
	}

	bound := make([]tools.Tool, 0, len(builtins))
	for _, tool := range builtins {
		bound = append(bound, tools.NewSpec(tool.Name(), tool.Description(), tool.Params(),
			func(ctx context.Context, args map[string]interface{}) (string, error) {
				logger.Debug("Invoking tool", logging.String("tool", tool.Name()), logging.Any("args", args))
				return tool.Execute(ctx, args)
			}))
	}
	return tools.NewRegistry(bound...)
}

func (s *Server) writeError(w http.ResponseWriter, logger *logging.Logger, err error) {
	status := errors.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		logger.Error("Request failed", logging.Int("status", status), logging.Error(err))
	} else {
		logger.Warn("Request rejected", logging.Int("status", status), logging.Error(err))
	}
	writeJSON(w, status, ErrorResponse{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
