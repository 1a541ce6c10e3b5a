package content

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"html"
	"html/template"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/membergate/membergate/internal/domain/level"
	"github.com/membergate/membergate/internal/domain/member"
	"github.com/membergate/membergate/internal/shared/biztime"
	"github.com/membergate/membergate/internal/shared/utils"
)

//go:embed templates/*.html
var templateFS embed.FS

var formTemplates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

const (
	defaultDateFormat        = "January 2, 2006"
	defaultRegisteredMessage = "You are already registered and have an active subscription."
	stripeCheckoutScript     = "https://checkout.stripe.com/checkout.js"
	cardUpdatedMessage       = "Billing card updated successfully"
)

var titleCase = cases.Title(language.English)

var dataAttrName = regexp.MustCompile(`^data-[a-z0-9-]+$`)

func (r *Renderer) execute(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := r.templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("failed to render %s: %w", name, err)
	}
	return buf.String(), nil
}

func (r *Renderer) nonce(action string, userID uint) (string, error) {
	token, err := r.nonces.Issue(action, userID)
	if err != nil {
		return "", fmt.Errorf("failed to issue nonce: %w", err)
	}
	return token, nil
}

func (r *Renderer) dateFormat() string {
	if r.settings.Display.DateFormat != "" {
		return r.settings.Display.DateFormat
	}
	return defaultDateFormat
}

func (r *Renderer) expirationLabel(m *member.Member) string {
	exp := m.Expiration()
	if exp == nil {
		return "none"
	}
	return biztime.FormatInSiteTimezone(*exp, r.dateFormat())
}

type levelOption struct {
	ID          uint
	Name        string
	Description string
	Price       string
	Duration    string
}

func (r *Renderer) levelOption(l *level.Level) levelOption {
	price := "Free"
	if !l.IsFree() {
		price = utils.FormatPrice(l.Price(), r.settings.Display.Currency)
	}
	return levelOption{
		ID:          l.ID(),
		Name:        l.Name(),
		Description: l.Description(),
		Price:       price,
		Duration:    durationLabel(l),
	}
}

func durationLabel(l *level.Level) string {
	if l.IsLifetime() {
		return "Unlimited"
	}
	unit := string(l.DurationUnit())
	if l.Duration() != 1 {
		unit += "s"
	}
	return fmt.Sprintf("%d %s", l.Duration(), unit)
}

type registerFormData struct {
	Action string
	Levels []levelOption
	Email  string
}

func (r *Renderer) registerForm(ctx context.Context, req *Request) (string, error) {
	v := req.Viewer
	if r.gate.IsActive(ctx, v) && !r.gate.IsTrialing(ctx, v) && !r.gate.UpgradePossible(ctx, v) {
		return template.HTMLEscapeString(req.Attr("registered_message", defaultRegisteredMessage)), nil
	}

	var levels []*level.Level
	if raw := strings.TrimSpace(req.Attr("id", "")); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return "", nil
		}
		l, err := r.levels.GetByID(ctx, uint(id))
		if err != nil {
			if errors.Is(err, level.ErrLevelNotFound) {
				return "", nil
			}
			return "", fmt.Errorf("failed to load level: %w", err)
		}
		levels = append(levels, l)
	} else {
		all, err := r.levels.List(ctx, true)
		if err != nil {
			return "", fmt.Errorf("failed to list levels: %w", err)
		}
		levels = all
	}

	data := registerFormData{Action: r.settings.Content.RegisterURL}
	for _, l := range levels {
		data.Levels = append(data.Levels, r.levelOption(l))
	}
	if v.LoggedIn() {
		data.Email = v.Member.Email()
	}
	return r.execute("register_form", data)
}

type stripeCheckoutData struct {
	Subscribed bool
	Script     string
	Attributes template.HTMLAttr
	LevelID    uint
}

// stripeAttrAliases maps short attribute names onto checkout data attributes.
var stripeAttrAliases = map[string]string{
	"button":      "data-label",
	"name":        "data-name",
	"description": "data-description",
	"panel-label": "data-panel-label",
	"image":       "data-image",
	"email":       "data-email",
}

func (r *Renderer) stripeCheckout(ctx context.Context, req *Request) (string, error) {
	raw := strings.TrimSpace(req.Attr("id", ""))
	id, err := strconv.ParseUint(raw, 10, 64)
	if raw == "" || err != nil || id == 0 {
		return "", nil
	}
	l, err := r.levels.GetByID(ctx, uint(id))
	if err != nil {
		if errors.Is(err, level.ErrLevelNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("failed to load level: %w", err)
	}

	v := req.Viewer
	if v.LoggedIn() && v.Member.LevelID() == l.ID() && r.gate.IsActive(ctx, v) {
		return r.execute("stripe_checkout", stripeCheckoutData{Subscribed: true})
	}

	currency := strings.ToUpper(r.settings.Display.Currency)
	amount := l.Price() + l.Fee()
	if amount < 0 {
		amount = 0
	}

	data := map[string]string{
		"data-key":               r.settings.Gateway.StripePublishableKey(),
		"data-name":              r.settings.Display.SiteName,
		"data-description":       l.Description(),
		"data-label":             fmt.Sprintf("Join %s", l.Name()),
		"data-panel-label":       "Register - {{amount}}",
		"data-amount":            strconv.FormatInt(amount*utils.MinorUnitMultiplier(currency)/100, 10),
		"data-locale":            "auto",
		"data-allow-remember-me": "true",
		"data-currency":          currency,
	}
	if v.LoggedIn() {
		data["data-email"] = v.Member.Email()
	}
	for key, value := range req.Attrs {
		if alias, ok := stripeAttrAliases[key]; ok {
			key = alias
		}
		if dataAttrName.MatchString(key) {
			data[key] = value
		}
	}

	data = r.stripeFilters.Apply(ctx, data, l.ID())

	return r.execute("stripe_checkout", stripeCheckoutData{
		Script:     stripeCheckoutScript,
		Attributes: dataAttributes(data),
		LevelID:    l.ID(),
	})
}

// dataAttributes renders data-* pairs in key order. Keys that are not
// data attributes are dropped.
func dataAttributes(data map[string]string) template.HTMLAttr {
	keys := make([]string, 0, len(data))
	for k := range data {
		if dataAttrName.MatchString(k) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, `%s="%s"`, k, html.EscapeString(data[k]))
	}
	return template.HTMLAttr(b.String())
}

type loginFormData struct {
	Action   string
	Redirect string
	Class    string
}

func (r *Renderer) loginForm(_ context.Context, req *Request) (string, error) {
	return r.renderLogin(req.Attr("redirect", req.CurrentURL), req.Attr("class", "rcp_form"))
}

func (r *Renderer) renderLogin(redirect, class string) (string, error) {
	return r.execute("login_form", loginFormData{
		Action:   r.settings.Content.LoginURL,
		Redirect: redirect,
		Class:    class,
	})
}

type accountFormData struct {
	Nonce       string
	Redirect    string
	Email       string
	DisplayName string
}

func (r *Renderer) passwordForm(_ context.Context, req *Request) (string, error) {
	v := req.Viewer
	if !v.LoggedIn() {
		return "", nil
	}
	token, err := r.nonce(NonceChangePassword, v.UserID())
	if err != nil {
		return "", err
	}
	return r.execute("password_form", accountFormData{Nonce: token, Redirect: req.CurrentURL})
}

func (r *Renderer) profileEditor(_ context.Context, req *Request) (string, error) {
	v := req.Viewer
	if !v.LoggedIn() {
		return r.renderLogin(req.CurrentURL, "rcp_form")
	}
	token, err := r.nonce(NonceEditProfile, v.UserID())
	if err != nil {
		return "", err
	}
	return r.execute("profile_editor", accountFormData{
		Nonce:       token,
		Redirect:    req.CurrentURL,
		Email:       v.Member.Email(),
		DisplayName: v.Member.DisplayName(),
	})
}

type subscriptionDetailsData struct {
	Level      string
	Status     string
	Expiration string
	Recurring  bool
	Price      string
	Key        string
}

func (r *Renderer) subscriptionDetails(_ context.Context, req *Request) (string, error) {
	v := req.Viewer
	if !v.LoggedIn() {
		return r.renderLogin(req.CurrentURL, "rcp_form")
	}

	data := subscriptionDetailsData{
		Status:     titleCase.String(v.Member.Status().String()),
		Expiration: r.expirationLabel(v.Member),
		Recurring:  v.Member.IsRecurring(),
		Key:        v.Member.SubscriptionKey(),
	}
	if v.Level != nil {
		opt := r.levelOption(v.Level)
		data.Level = opt.Name
		data.Price = opt.Price
	}
	return r.execute("subscription_details", data)
}

type cardFormData struct {
	Updated  bool
	Message  string
	Nonce    string
	Redirect string
}

// CanUpdateBillingCard reports whether the card form applies to the viewer:
// a PayPal subscriber with API credentials configured.
func (r *Renderer) CanUpdateBillingCard(ctx context.Context, v Viewer) bool {
	return v.LoggedIn() && r.subscribers.IsMemberSubscriber(ctx, v.Member) && r.credentials.HasAPIAccess(ctx)
}

func (r *Renderer) updateCard(ctx context.Context, req *Request) (string, error) {
	v := req.Viewer
	if !r.CanUpdateBillingCard(ctx, v) {
		return "", nil
	}
	token, err := r.nonce(NonceUpdateCard, v.UserID())
	if err != nil {
		return "", err
	}

	data := cardFormData{Nonce: token, Redirect: req.CurrentURL}
	switch req.Query.Get("card") {
	case "updated":
		data.Updated = true
		data.Message = cardUpdatedMessage
	case "not-updated":
		data.Message = req.Query.Get("msg")
	}
	return r.execute("card_update_form", data)
}
