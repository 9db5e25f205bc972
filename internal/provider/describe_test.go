package provider

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestDescribe(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{&HTTPStatusError{StatusCode: 401}, "api key"},
		{fmt.Errorf("wrap: %w", &HTTPStatusError{StatusCode: 429}), "限流"},
		{&HTTPStatusError{StatusCode: 404}, "404"},
		{&HTTPStatusError{StatusCode: 500}, "HTTP 500"},
		{&APIError{Provider: "omdb", Message: "Movie not found!"}, "Movie not found!"},
		{context.DeadlineExceeded, "超时"},
		{context.Canceled, "取消"},
		{errors.New("boom"), "boom"},
	}
	for _, c := range cases {
		got := Describe("tmdb", c.err)
		if !strings.HasPrefix(got, "tmdb") || !strings.Contains(got, c.want) {
			t.Fatalf("Describe(%v) = %q，期望包含 %q", c.err, got, c.want)
		}
	}
}
