package constants

const (
	EnvDevelopment = "development"
	EnvTest        = "test"
	EnvProduction  = "production"

	HeaderAuthorization = "Authorization"
	HeaderXRequestID    = "X-Request-ID"

	ContentTypeForm = "application/x-www-form-urlencoded"

	ContextKeyUserID = "user_id"

	// SessionCookieName carries the session JWT.
	SessionCookieName = "membergate_session"

	TableMembers            = "members"
	TableSubscriptionLevels = "subscription_levels"
	TableDiscounts          = "discounts"
	TablePayments           = "payments"
)
