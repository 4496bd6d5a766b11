package clarifai

import (
	"context"
	stderrors "errors"
	"net/http"
	"strings"

	"github.com/kbukum/llmstream/errors"
	"github.com/kbukum/llmstream/httpclient"
	"github.com/kbukum/llmstream/llm"
	"github.com/kbukum/llmstream/logger"
	"github.com/kbukum/llmstream/observability"
)

var errMalformed = stderrors.New("response body is not a JSON object")

const requestOperation = "clarifai outputs request"

// stream is the lazy chunk iterator returned by Provider.Stream. The request
// is sent on the first Next; later calls drain the tokenizer.
type stream struct {
	p    *Provider
	ctx  context.Context
	sess *StreamSession
	log  *logger.Logger
	op   *observability.Operation

	started bool
	done    bool
}

func (s *stream) Next(ctx context.Context) (llm.Chunk, bool, error) {
	if s.done {
		return llm.Chunk{}, false, nil
	}
	if !s.started {
		s.started = true
		if err := s.call(ctx); err != nil {
			s.done = true
			return llm.Chunk{}, false, err
		}
		if s.done {
			return llm.Chunk{}, false, nil
		}
	}

	if s.canceled(ctx) {
		s.finish(observability.StatusCanceled, nil)
		s.log.Info("stream canceled", logger.Fields(logger.FieldChunks, s.op.Chunks()))
		return llm.Chunk{}, false, nil
	}

	c, ok := s.sess.tokenizer.Next()
	if !ok {
		status := observability.StatusOK
		if s.op.Chunks() == 0 {
			status = observability.StatusEmpty
		}
		s.finish(status, nil)
		s.log.Debug("stream finished", logger.Fields(
			logger.FieldChunks, s.op.Chunks(),
			logger.FieldDuration, s.op.Duration().Milliseconds(),
		))
		return llm.Chunk{}, false, nil
	}
	s.op.Chunk(string(c.Type))
	return c, true, nil
}

func (s *stream) Close() error {
	if s.op != nil {
		s.op.End(observability.StatusClosed, nil)
	}
	s.done = true
	return nil
}

// canceled reports whether the Stream or Next context was cancelled. An
// expired deadline is not a cancellation; it surfaces as a timeout.
func (s *stream) canceled(ctx context.Context) bool {
	return stderrors.Is(s.ctx.Err(), context.Canceled) || stderrors.Is(ctx.Err(), context.Canceled)
}

func (s *stream) expired(ctx context.Context) bool {
	return stderrors.Is(s.ctx.Err(), context.DeadlineExceeded) || stderrors.Is(ctx.Err(), context.DeadlineExceeded)
}

func (s *stream) finish(status string, err error) {
	s.done = true
	if s.op != nil {
		s.op.End(status, err)
	}
}

// call sends the request and prepares the tokenizer. A nil error with
// s.done set means the sequence is empty.
func (s *stream) call(ctx context.Context) error {
	if s.canceled(ctx) {
		s.done = true
		s.log.Info("stream canceled before request")
		return nil
	}

	s.op = observability.StartOperation(ctx, "clarifai.stream", Name, s.sess.Model.ID, s.p.metrics)
	s.op.SetAttribute(observability.AttrSessionID, s.sess.ID)
	if s.expired(ctx) {
		return s.fail(errors.Timeout(requestOperation, context.DeadlineExceeded))
	}

	callCtx, cancel := context.WithCancel(s.op.Context())
	defer cancel()
	stop := context.AfterFunc(s.ctx, cancel)
	defer stop()

	resp, err := s.p.doer.Do(callCtx, httpclient.Request{
		Method: http.MethodPost,
		Path:   s.sess.Path.OutputsPath(),
		Body:   s.sess.Payload,
	})
	if resp != nil {
		s.op.SetAttribute(observability.AttrHTTPStatus, resp.StatusCode)
	}

	switch {
	case err != nil && s.canceled(ctx):
		s.finish(observability.StatusCanceled, nil)
		s.log.Info("stream canceled during request")
		return nil
	case resp != nil && !resp.IsSuccess():
		return s.fail(backendError(resp))
	case err != nil && (httpclient.IsTimeout(err) || s.expired(ctx)):
		return s.fail(errors.Timeout(requestOperation, err))
	case err != nil:
		return s.fail(errors.Network("clarifai outputs request failed", err))
	}

	out, err := decodeOutputs(resp.Body)
	if err != nil {
		return s.fail(errors.Backend(resp.StatusCode, "malformed response: "+err.Error(), resp.StatusCode).WithCause(err))
	}
	if appErr := out.failed(resp.StatusCode); appErr != nil {
		return s.fail(appErr)
	}

	raw, ok := out.rawOutput()
	if !ok {
		s.finish(observability.StatusEmpty, nil)
		s.log.Warn("response carried no text output", logger.Fields("outputs", len(out.Outputs)))
		return nil
	}
	s.sess.Raw = raw
	s.sess.tokenizer = llm.NewTokenizer(strings.TrimSuffix(raw, "\n")).OnBlock(s.onBlock)
	s.log.Debug("response received", logger.Fields(logger.FieldBytes, len(raw)))
	return nil
}

func (s *stream) onBlock(b llm.Block) {
	if b.Kind != llm.BlockToolCode {
		return
	}
	s.log.Debug("tool call", logger.Fields("tool_call_id", s.sess.NextToolCallID(), "marker", b.Name))
}

func (s *stream) fail(err *errors.AppError) error {
	if code, _, ok := errors.BackendStatus(err); ok {
		s.op.SetAttribute(observability.AttrBackendCode, code)
	}
	s.finish(observability.StatusError, err)
	s.log.Error("stream failed", logger.ErrorFields("stream", err))
	return err
}
