package htmlview

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"golazy.dev/htmlview/placeholder"
)

const controllerSuffix = "Controller"

// ControllerName removes a trailing "Controller" from name.
func ControllerName(name string) string {
	return strings.TrimSuffix(name, controllerSuffix)
}

// ControllerNameOf derives the controller name from the type of v, so a
// *app.HomeController yields "Home".
func ControllerNameOf(v any) string {
	name := fmt.Sprintf("%T", v)
	name = strings.TrimLeft(name, "*")
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		name = name[i+1:]
	}
	return ControllerName(name)
}

// Controller renders the views of one controller. Embed it in application
// controllers and pass the action name at each call site.
type Controller struct {
	Name  string
	Views *Views
}

func NewController(name string, views *Views) *Controller {
	return &Controller{Name: ControllerName(name), Views: views}
}

// View returns the raw content of the action's view, or of relPath when set.
func (c *Controller) View(ctx context.Context, action, relPath string) (string, error) {
	return c.Views.RenderString(Options{
		Ctx:        ctx,
		Controller: c.Name,
		Action:     action,
		Path:       relPath,
	})
}

// ViewModel is View with placeholders replaced by model values.
func (c *Controller) ViewModel(ctx context.Context, model placeholder.Model, action, relPath string) (string, error) {
	if model == nil {
		model = placeholder.Model{}
	}
	return c.Views.RenderString(Options{
		Ctx:        ctx,
		Controller: c.Name,
		Action:     action,
		Path:       relPath,
		Model:      model,
	})
}

// Serve renders the action's view to w. With a nil model the file is sent
// without substitution.
func (c *Controller) Serve(w http.ResponseWriter, r *http.Request, action string, model placeholder.Model) {
	var (
		content string
		err     error
	)
	if model == nil {
		content, err = c.View(r.Context(), action, "")
	} else {
		content, err = c.ViewModel(r.Context(), model, action, "")
	}
	if err != nil {
		status := HTTPStatus(err)
		http.Error(w, http.StatusText(status), status)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(content))
}

// HTTPStatus maps a render error to the status a host should answer with.
func HTTPStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrViewNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrInvalidInput), errors.Is(err, ErrUnsupportedFileType):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
