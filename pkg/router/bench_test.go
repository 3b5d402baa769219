package router

import (
	"context"
	"fmt"
	"testing"

	"github.com/vango-dev/hfs/pkg/message"
)

func benchRouter(n int) *Router[struct{}] {
	r := New(struct{}{})
	for i := 0; i < n; i++ {
		r.Get(fmt.Sprintf("/section%d/:id", i), textHandler[struct{}]("ok"))
	}
	r.Get("/files/*rest", textHandler[struct{}]("files"))
	return r
}

func BenchmarkMatchStatic(b *testing.B) {
	p := MustCompile("/about/team")
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		p.Match("/about/team")
	}
}

func BenchmarkMatchWildcard(b *testing.B) {
	p := MustCompile("/files/*rest")
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		p.Match("/files/a/b/c/d/e")
	}
}

func BenchmarkDispatchFirst(b *testing.B) {
	r := benchRouter(50)
	req, _ := message.NewRequest(message.MethodGet, "/section0/1", "HTTP/1.1", nil, nil)
	ctx := context.Background()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		r.Dispatch(ctx, req)
	}
}

func BenchmarkDispatchLast(b *testing.B) {
	r := benchRouter(50)
	req, _ := message.NewRequest(message.MethodGet, "/files/x/y", "HTTP/1.1", nil, nil)
	ctx := context.Background()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		r.Dispatch(ctx, req)
	}
}
