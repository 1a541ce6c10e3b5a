package content

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/membergate/membergate/internal/domain/level"
	"github.com/membergate/membergate/internal/domain/member"
	"github.com/membergate/membergate/internal/domain/permission"
	"github.com/membergate/membergate/internal/shared/config"
	"github.com/membergate/membergate/internal/shared/hooks"
	"github.com/membergate/membergate/internal/shared/logger"
	"github.com/membergate/membergate/internal/shared/services/markdown"
)

var ErrUnknownTag = errors.New("unknown content tag")

// Nonce actions for the forms rendered here.
const (
	NonceUpdateCard     = "rcp_update_card"
	NonceChangePassword = "rcp_change_password"
	NonceEditProfile    = "rcp_profile_editor"

	NonceField = "_nonce"
)

// Request is one tag occurrence to render for a viewer.
type Request struct {
	Tag     string
	Attrs   map[string]string
	Content string
	Viewer  Viewer
	// CurrentURL is the page the tag appears on.
	CurrentURL string
	// Query holds the current page's query arguments.
	Query url.Values
}

// Attr returns the attribute value, or def when it is absent.
func (r *Request) Attr(key, def string) string {
	if v, ok := r.Attrs[key]; ok {
		return v
	}
	return def
}

// TagFunc renders a tag. An empty string means the tag produces nothing.
type TagFunc func(ctx context.Context, req *Request) (string, error)

// RestrictCheck is the argument handed to restrict filters.
type RestrictCheck struct {
	UserID uint
	Attrs  map[string]string
}

type SubscriberChecker interface {
	IsMemberSubscriber(ctx context.Context, m *member.Member) bool
}

type APIAccessChecker interface {
	HasAPIAccess(ctx context.Context) bool
}

type NonceIssuer interface {
	Issue(action string, userID uint) (string, error)
}

// Settings are the display options the renderer reads.
type Settings struct {
	Display config.DisplayConfig
	Content config.ContentConfig
	Gateway config.GatewayConfig
}

// Renderer maps tag names to their render functions.
type Renderer struct {
	gate        *Gate
	levels      level.Repository
	subscribers SubscriberChecker
	credentials APIAccessChecker
	nonces      NonceIssuer
	formatter   markdown.Formatter
	settings    Settings
	templates   *template.Template
	logger      logger.Interface

	restrictFilters *hooks.Chain[bool, RestrictCheck]
	stripeFilters   *hooks.Chain[map[string]string, uint]

	mu   sync.RWMutex
	tags map[string]TagFunc
}

// NewRenderer creates a Renderer with every built-in tag registered.
func NewRenderer(
	gate *Gate,
	levels level.Repository,
	subscribers SubscriberChecker,
	credentials APIAccessChecker,
	nonces NonceIssuer,
	formatter markdown.Formatter,
	settings Settings,
	logger logger.Interface,
) *Renderer {
	r := &Renderer{
		gate:            gate,
		levels:          levels,
		subscribers:     subscribers,
		credentials:     credentials,
		nonces:          nonces,
		formatter:       formatter,
		settings:        settings,
		templates:       formTemplates,
		logger:          logger,
		restrictFilters: hooks.NewChain[bool, RestrictCheck](),
		stripeFilters:   hooks.NewChain[map[string]string, uint](),
		tags:            make(map[string]TagFunc),
	}

	r.Register("restrict", r.restrict)
	r.Register("is_paid", r.isPaid)
	r.Register("is_free", r.isFree)
	r.Register("not_logged_in", r.notLoggedIn)
	r.Register("is_not_paid", r.isNotPaid)
	r.Register("user_name", r.userName)
	r.Register("register_form", r.registerForm)
	r.Register("register_form_stripe", r.stripeCheckout)
	r.Register("login_form", r.loginForm)
	r.Register("password_form", r.passwordForm)
	r.Register("paid_posts", r.paidPosts)
	r.Register("subscription_details", r.subscriptionDetails)
	r.Register("rcp_profile_editor", r.profileEditor)
	r.Register("card_details", r.updateCard)
	r.Register("rcp_update_card", r.updateCard)
	r.Register("subscription_id", r.subscriptionID)
	r.Register("subscription_name", r.subscriptionName)
	r.Register("user_expiration", r.userExpiration)
	return r
}

// Register binds a tag to fn, replacing any earlier binding.
func (r *Renderer) Register(tag string, fn TagFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tags[tag] = fn
}

func (r *Renderer) Tags() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	tags := make([]string, 0, len(r.tags))
	for t := range r.tags {
		tags = append(tags, t)
	}
	sort.Strings(tags)
	return tags
}

func (r *Renderer) AddRestrictFilter(priority int, f hooks.Filter[bool, RestrictCheck]) {
	r.restrictFilters.Add(priority, f)
}

// AddStripeCheckoutFilter registers an override for the checkout data
// attributes; the argument is the level id.
func (r *Renderer) AddStripeCheckoutFilter(priority int, f hooks.Filter[map[string]string, uint]) {
	r.stripeFilters.Add(priority, f)
}

func (r *Renderer) Gate() *Gate {
	return r.gate
}

func (r *Renderer) Render(ctx context.Context, req *Request) (string, error) {
	r.mu.RLock()
	fn, ok := r.tags[req.Tag]
	r.mu.RUnlock()
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownTag, req.Tag)
	}
	if req.Attrs == nil {
		req.Attrs = map[string]string{}
	}

	out, err := fn(ctx, req)
	if err != nil {
		r.logger.Errorw("failed to render tag", "error", err, "tag", req.Tag, "user_id", req.Viewer.UserID())
		return "", err
	}
	return out, nil
}

// userLevelCapabilities maps the restrict tag's userlevel values to the
// capability each requires.
var userLevelCapabilities = map[string]permission.Capability{
	"admin":       permission.CapSwitchThemes,
	"editor":      permission.CapModerateComments,
	"author":      permission.CapUploadFiles,
	"contributor": permission.CapEditPosts,
	"subscriber":  permission.CapRead,
}

func (r *Renderer) restrict(ctx context.Context, req *Request) (string, error) {
	v := req.Viewer
	userLevel := strings.ToLower(strings.TrimSpace(req.Attr("userlevel", "none")))
	paid := truthy(req.Attr("paid", ""))
	required, _ := strconv.Atoi(strings.TrimSpace(req.Attr("level", "0")))

	teaser := req.Attr("message", "")
	if strings.TrimSpace(teaser) == "" {
		if paid {
			teaser = r.settings.Display.PaidMessage
		} else {
			teaser = r.settings.Display.FreeMessage
		}
	}

	classes := "rcp_restricted"
	var hasAccess bool
	if paid {
		hasAccess = r.gate.IsActive(ctx, v) && r.gate.HasAccess(ctx, v, required)
		classes += " rcp_paid_only"
	} else {
		hasAccess = r.gate.HasAccess(ctx, v, required)
	}

	if levels := splitList(req.Attr("subscription", "")); len(levels) > 0 {
		if !contains(levels, levelIDString(v)) || !r.gate.IsActive(ctx, v) {
			hasAccess = false
		}
	}

	if capability, ok := userLevelCapabilities[userLevel]; ok && !r.gate.Can(ctx, v, capability) {
		hasAccess = false
	}
	if userLevel == "none" && !v.LoggedIn() {
		hasAccess = false
	}
	if r.gate.IsAdministrator(ctx, v) {
		hasAccess = true
	}

	hasAccess = r.restrictFilters.Apply(ctx, hasAccess, RestrictCheck{UserID: v.UserID(), Attrs: req.Attrs})

	if hasAccess {
		return r.formatter.Paragraphs(req.Content)
	}
	formatted, err := r.formatter.Paragraphs(teaser)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf(`<div class="%s">%s</div>`, classes, formatted), nil
}

func (r *Renderer) isPaid(ctx context.Context, req *Request) (string, error) {
	if r.gate.IsActive(ctx, req.Viewer) {
		return r.formatter.Sanitize(req.Content), nil
	}
	return "", nil
}

func (r *Renderer) isFree(ctx context.Context, req *Request) (string, error) {
	v := req.Viewer
	if !v.LoggedIn() {
		return "", nil
	}
	hideFromPaid := truthy(req.Attr("hide_from_paid", "1"))
	if hideFromPaid && r.gate.IsActive(ctx, v) {
		return "", nil
	}
	return r.formatter.Sanitize(req.Content), nil
}

func (r *Renderer) notLoggedIn(_ context.Context, req *Request) (string, error) {
	if req.Viewer.LoggedIn() {
		return "", nil
	}
	return r.formatter.Sanitize(req.Content), nil
}

func (r *Renderer) isNotPaid(ctx context.Context, req *Request) (string, error) {
	if r.gate.IsActive(ctx, req.Viewer) {
		return "", nil
	}
	return r.formatter.Sanitize(req.Content), nil
}

func (r *Renderer) userName(_ context.Context, req *Request) (string, error) {
	if !req.Viewer.LoggedIn() {
		return "", nil
	}
	return template.HTMLEscapeString(req.Viewer.Member.DisplayName()), nil
}

func (r *Renderer) subscriptionID(_ context.Context, req *Request) (string, error) {
	if !req.Viewer.LoggedIn() {
		return "", nil
	}
	return levelIDString(req.Viewer), nil
}

func (r *Renderer) subscriptionName(_ context.Context, req *Request) (string, error) {
	if !req.Viewer.LoggedIn() || req.Viewer.Level == nil {
		return "", nil
	}
	return template.HTMLEscapeString(req.Viewer.Level.Name()), nil
}

func (r *Renderer) userExpiration(_ context.Context, req *Request) (string, error) {
	if !req.Viewer.LoggedIn() {
		return "", nil
	}
	return r.expirationLabel(req.Viewer.Member), nil
}

func (r *Renderer) paidPosts(_ context.Context, _ *Request) (string, error) {
	if len(r.settings.Content.PaidPosts) == 0 {
		return "", nil
	}
	return r.execute("paid_posts", r.settings.Content.PaidPosts)
}

func levelIDString(v Viewer) string {
	if v.Member == nil || v.Member.LevelID() == 0 {
		return ""
	}
	return strconv.FormatUint(uint64(v.Member.LevelID()), 10)
}

// truthy treats any value other than empty, "0", "false", "no" and "off"
// as set.
func truthy(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "0", "false", "no", "off":
		return false
	}
	return true
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func contains(list []string, s string) bool {
	if s == "" {
		return false
	}
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
