package mcpsurface

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
)

// maxLineSize bounds a single stdio JSON-RPC line; trace payloads can carry
// many nodes/messages so the default bufio.Scanner token size is too small.
const maxLineSize = 16 * 1024 * 1024

// RunStdio reads one JSON-RPC object per LF-terminated line from in and
// writes one response object per LF-terminated line to out (spec.md §4.5,
// §6 "MCP stdio framing"). A line that fails to deserialize is skipped
// without killing the loop. errOut receives a one-line diagnostic for
// skipped lines and handler panics recovered per request.
func RunStdio(ctx context.Context, in io.Reader, out io.Writer, errOut io.Writer, dispatcher *Dispatcher) error {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 64*1024), maxLineSize)
	writer := bufio.NewWriter(out)

	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		var req Request
		if err := json.Unmarshal(line, &req); err != nil {
			fmt.Fprintf(errOut, "mcpsurface: skipping malformed line: %v\n", err)
			continue
		}

		resp := handleRequestSafely(ctx, dispatcher, req, errOut)
		if resp == nil {
			continue
		}

		encoded, err := json.Marshal(resp)
		if err != nil {
			fmt.Fprintf(errOut, "mcpsurface: failed to encode response: %v\n", err)
			continue
		}
		if _, err := writer.Write(encoded); err != nil {
			return err
		}
		if err := writer.WriteByte('\n'); err != nil {
			return err
		}
		if err := writer.Flush(); err != nil {
			return err
		}
	}
	return scanner.Err()
}

func handleRequestSafely(ctx context.Context, dispatcher *Dispatcher, req Request, errOut io.Writer) (resp *Response) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(errOut, "mcpsurface: recovered panic handling %q: %v\n", req.Method, r)
			if !req.IsNotification() {
				resp = errorResponse(req.ID, CodeInternalError, fmt.Sprintf("internal error: %v", r))
			}
		}
	}()

	result, hasResponse := dispatcher.Handle(ctx, req)
	if !hasResponse {
		return nil
	}
	return result
}
