package handlers

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"barberbook/models"
	"barberbook/services/backend"
	"barberbook/services/session"
	"barberbook/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// uiEffects collects what the core asked the user interface to do while
// serving one request. They are returned to the browser with the response.
type uiEffects struct {
	mu        sync.Mutex
	confirmed bool
	redirect  string
	prompt    string
	notices   []notice
}

type notice struct {
	Level   models.NoticeLevel `json:"level"`
	Message string             `json:"message"`
}

type effectsKey struct{}

func withEffects(ctx context.Context, confirmed bool) context.Context {
	return context.WithValue(ctx, effectsKey{}, &uiEffects{confirmed: confirmed})
}

func effectsFrom(ctx context.Context) *uiEffects {
	e, _ := ctx.Value(effectsKey{}).(*uiEffects)
	return e
}

// requestContext returns the request context with a fresh effects
// collector. confirmed answers any confirmation the core asks for.
func requestContext(c *gin.Context, confirmed bool) context.Context {
	ctx := withEffects(c.Request.Context(), confirmed)
	c.Request = c.Request.WithContext(ctx)
	return ctx
}

type ctxNavigator struct{}

func (ctxNavigator) Navigate(ctx context.Context, path string) {
	if e := effectsFrom(ctx); e != nil {
		e.mu.Lock()
		e.redirect = path
		e.mu.Unlock()
	}
}

type ctxNotifier struct{}

func (ctxNotifier) Notify(ctx context.Context, level models.NoticeLevel, message string) {
	if e := effectsFrom(ctx); e != nil {
		e.mu.Lock()
		e.notices = append(e.notices, notice{Level: level, Message: message})
		e.mu.Unlock()
	}
}

// ctxConfirmer answers with the confirmation flag sent by the browser. An
// unconfirmed prompt is echoed back so the browser can ask and resend.
type ctxConfirmer struct{}

func (ctxConfirmer) Confirm(ctx context.Context, message string) bool {
	e := effectsFrom(ctx)
	if e == nil {
		return false
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.confirmed {
		e.prompt = message
	}
	return e.confirmed
}

var (
	_ models.Navigator = ctxNavigator{}
	_ models.Notifier  = ctxNotifier{}
	_ models.Confirmer = ctxConfirmer{}
)

// envelope mirrors the scheduling backend's response shape.
type envelope struct {
	Success  bool        `json:"success"`
	Message  string      `json:"message,omitempty"`
	Data     interface{} `json:"data,omitempty"`
	Redirect string      `json:"redirect,omitempty"`
	Confirm  string      `json:"confirm,omitempty"`
	Notices  []notice    `json:"notices,omitempty"`
}

// AccessTokenHeader returns a refreshed backend access token to the browser.
const AccessTokenHeader = "X-Access-Token"

func decorate(c *gin.Context, env *envelope) {
	ctx := c.Request.Context()
	if creds := backend.CredentialsFrom(ctx); creds != nil && creds.Refreshed() {
		c.Header(AccessTokenHeader, backend.ContextTokenStore{}.AccessToken(ctx))
	}
	if e := effectsFrom(ctx); e != nil {
		e.mu.Lock()
		env.Redirect = e.redirect
		env.Confirm = e.prompt
		env.Notices = append([]notice(nil), e.notices...)
		e.mu.Unlock()
	}
}

func respond(c *gin.Context, status int, message string, data interface{}) {
	env := envelope{Success: true, Message: message, Data: data}
	decorate(c, &env)
	c.JSON(status, env)
}

// fail writes err using the flow's status mapping and user-facing message.
func fail(c *gin.Context, err error) {
	status := statusFor(err)
	env := envelope{Success: false, Message: messageFor(err)}
	decorate(c, &env)
	getLogger(c).Warn(env.Message, zap.Error(err), zap.Int("status", status))
	c.AbortWithStatusJSON(status, env)
}

func statusFor(err error) int {
	var apiErr *backend.APIError
	switch {
	case errors.Is(err, session.ErrNotFound):
		return http.StatusNotFound
	case errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized:
		return http.StatusUnauthorized
	}
	return utils.StatusFor(err)
}

func messageFor(err error) string {
	if errors.Is(err, session.ErrNotFound) {
		return "Booking session not found or expired"
	}
	return models.UserMessage(err)
}

// Navigator records redirects on the current request's response, for
// collaborators such as the backend client's sign-out.
func Navigator() models.Navigator {
	return ctxNavigator{}
}
