package httpcontext

import (
	"testing"
	"time"

	"github.com/valyala/fasthttp"

	appLogger "github.com/fastygo/todo/pkg/logger"
)

func TestAttachKeepsIncomingRequestID(t *testing.T) {
	var ctx fasthttp.RequestCtx
	ctx.Request.Header.Set(HeaderRequestID, "abc-123")

	stdCtx, cancel := NewAdapter(time.Second).Attach(&ctx)
	defer cancel()

	if got := appLogger.RequestID(stdCtx); got != "abc-123" {
		t.Errorf("RequestID = %q, want abc-123", got)
	}
	if got := string(ctx.Response.Header.Peek(HeaderRequestID)); got != "abc-123" {
		t.Errorf("response header = %q, want abc-123", got)
	}
	if _, ok := stdCtx.Deadline(); !ok {
		t.Errorf("context has no deadline")
	}
}

func TestAttachGeneratesRequestID(t *testing.T) {
	var ctx fasthttp.RequestCtx

	stdCtx, cancel := NewAdapter(0).Attach(&ctx)
	defer cancel()

	id := appLogger.RequestID(stdCtx)
	if id == "" {
		t.Fatalf("no request id generated")
	}
	if got := string(ctx.Response.Header.Peek(HeaderRequestID)); got != id {
		t.Errorf("response header = %q, want %q", got, id)
	}
}
