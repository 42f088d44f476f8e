// ABOUTME: RPC mode for driving a bar from another process
// ABOUTME: JSONL-based protocol over stdin/stdout, one request per line

package rpc

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// Server handles RPC requests from an external client.
type Server struct {
	reader  *bufio.Scanner
	writer  io.Writer
	handler func(Request) Response
}

// NewServer creates an RPC server reading from stdin, writing to stdout.
func NewServer(handler func(Request) Response) *Server {
	return NewServerIO(os.Stdin, os.Stdout, handler)
}

// NewServerIO creates an RPC server over arbitrary streams.
func NewServerIO(r io.Reader, w io.Writer, handler func(Request) Response) *Server {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 10*1024*1024)
	return &Server{
		reader:  scanner,
		writer:  w,
		handler: handler,
	}
}

// Run serves requests until the input is exhausted or ctx is cancelled.
// Reads happen on a separate goroutine so a blocked input does not delay
// cancellation.
func (s *Server) Run(ctx context.Context) error {
	lines := make(chan []byte)
	readErr := make(chan error, 1)
	go func() {
		defer close(lines)
		for s.reader.Scan() {
			line := append([]byte(nil), s.reader.Bytes()...)
			select {
			case lines <- line:
			case <-ctx.Done():
				return
			}
		}
		readErr <- s.reader.Err()
	}()

	for {
		if ctx.Err() != nil {
			return nil
		}
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				select {
				case err := <-readErr:
					return err
				default:
					return nil
				}
			}
			if err := s.serve(line); err != nil {
				return err
			}
		}
	}
}

func (s *Server) serve(line []byte) error {
	var req Request
	if err := json.Unmarshal(line, &req); err != nil {
		s.sendError("", NewParseError(fmt.Sprintf("parse error: %v", err)))
		return nil
	}
	if req.Method == "" {
		s.sendError(req.ID, NewInvalidRequestError("missing method"))
		return nil
	}

	resp := s.handler(req)
	resp.ID = req.ID

	data, err := json.Marshal(resp)
	if err != nil {
		s.sendError(req.ID, NewInternalError(fmt.Sprintf("internal error: %v", err)))
		return nil
	}

	data = append(data, '\n')
	if _, err := s.writer.Write(data); err != nil {
		return fmt.Errorf("writing response: %w", err)
	}
	return nil
}

func (s *Server) sendError(id string, e *Error) {
	resp := Response{ID: id, Error: e}
	data, _ := json.Marshal(resp)
	data = append(data, '\n')
	_, _ = s.writer.Write(data)
}
