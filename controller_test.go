package htmlview_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"golazy.dev/htmlview"
	"golazy.dev/htmlview/placeholder"
)

type HomeController struct {
	*htmlview.Controller
}

func (c *HomeController) Index(ctx context.Context) (string, error) {
	return c.ViewModel(ctx, placeholder.Model{"Title": "Welcome"}, "Index", "")
}

func (c *HomeController) About(ctx context.Context) (string, error) {
	return c.View(ctx, "About", "")
}

func (c *HomeController) Legal(ctx context.Context) (string, error) {
	return c.View(ctx, "Legal", "about.txt")
}

func TestControllerName(t *testing.T) {
	cases := []struct {
		in   any
		want string
	}{
		{&HomeController{}, "Home"},
		{HomeController{}, "Home"},
		{"HomeController", "string"},
		{struct{}{}, "struct {}"},
	}
	for _, c := range cases {
		t.Run(fmt.Sprintf("%T", c.in), func(t *testing.T) {
			if got := htmlview.ControllerNameOf(c.in); got != c.want {
				t.Fatalf("expected %q, got %q", c.want, got)
			}
		})
	}

	if got := htmlview.ControllerName("PostsController"); got != "Posts" {
		t.Fatalf("expected Posts, got %q", got)
	}
	if got := htmlview.ControllerName("ControllerAdmin"); got != "ControllerAdmin" {
		t.Fatalf("only the suffix is removed, got %q", got)
	}
}

func newHomeController(t *testing.T) *HomeController {
	t.Helper()
	c := &HomeController{}
	c.Controller = htmlview.NewController(htmlview.ControllerNameOf(c), newTestViews(t))
	return c
}

func TestControllerViews(t *testing.T) {
	c := newHomeController(t)
	ctx := context.Background()

	got, err := c.Index(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if got != "<h1>Welcome</h1>" {
		t.Fatalf("unexpected output: %s", got)
	}

	got, err = c.About(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if got != "<p>About us</p>" {
		t.Fatalf("unexpected output: %s", got)
	}

	if _, err := c.Legal(ctx); !errors.Is(err, htmlview.ErrUnsupportedFileType) {
		t.Fatalf("expected ErrUnsupportedFileType, got %v", err)
	}

	if _, err := c.ViewModel(ctx, nil, "Index", ""); !errors.Is(err, placeholder.ErrUnresolved) {
		t.Fatalf("expected ErrUnresolved with a nil model, got %v", err)
	}
}

func TestServe(t *testing.T) {
	c := newHomeController(t)

	cases := []struct {
		action string
		model  placeholder.Model
		status int
		body   string
	}{
		{"Index", placeholder.Model{"title": "Hi"}, http.StatusOK, "<h1>Hi</h1>"},
		{"About", nil, http.StatusOK, "<p>About us</p>"},
		{"Missing", nil, http.StatusNotFound, "Not Found\n"},
		{"", nil, http.StatusBadRequest, "Bad Request\n"},
		{"Index", placeholder.Model{}, http.StatusInternalServerError, "Internal Server Error\n"},
	}
	for _, tc := range cases {
		t.Run(tc.action, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			c.Serve(rec, req, tc.action, tc.model)
			if rec.Code != tc.status {
				t.Fatalf("expected status %d, got %d", tc.status, rec.Code)
			}
			if rec.Body.String() != tc.body {
				t.Fatalf("expected body %q, got %q", tc.body, rec.Body.String())
			}
			if tc.status == http.StatusOK && rec.Header().Get("Content-Type") != "text/html; charset=utf-8" {
				t.Fatalf("unexpected content type %q", rec.Header().Get("Content-Type"))
			}
		})
	}
}

func TestHTTPStatus(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{nil, http.StatusOK},
		{&htmlview.NotFoundError{Path: "Views/x.html"}, http.StatusNotFound},
		{fmt.Errorf("wrapped: %w", htmlview.ErrInvalidInput), http.StatusBadRequest},
		{htmlview.ErrUnsupportedFileType, http.StatusBadRequest},
		{&placeholder.ResolutionError{Token: "x"}, http.StatusInternalServerError},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, c := range cases {
		if got := htmlview.HTTPStatus(c.err); got != c.want {
			t.Errorf("HTTPStatus(%v) = %d, want %d", c.err, got, c.want)
		}
	}
}
