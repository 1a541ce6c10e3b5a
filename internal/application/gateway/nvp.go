package gateway

import (
	"context"
	"net/url"
	"strings"
)

const (
	// NVPVersion is the API version sent with every NVP call.
	NVPVersion = "124"

	MethodUpdateRecurringProfile = "UpdateRecurringPaymentsProfile"
	MethodManageProfileStatus    = "ManageRecurringPaymentsProfileStatus"
)

// NVPResponse is the HTTP status and the parsed key/value body of an NVP call.
type NVPResponse struct {
	StatusCode int
	Fields     url.Values
}

// NVPTransport posts a form-encoded NVP request and parses the reply.
// A non-nil error means no HTTP response was received.
type NVPTransport interface {
	Post(ctx context.Context, fields url.Values) (*NVPResponse, error)
}

// IsFailure reports whether ACK says the call failed.
func (r *NVPResponse) IsFailure() bool {
	return strings.EqualFold(r.Fields.Get("ACK"), "failure")
}

// ErrorMessage joins the first error code and long message.
func (r *NVPResponse) ErrorMessage() string {
	return r.Fields.Get("L_ERRORCODE0") + ": " + r.Fields.Get("L_LONGMESSAGE0")
}

// BaseFields returns the authentication and method fields of an NVP call.
func BaseFields(creds Credentials, method string) url.Values {
	v := url.Values{}
	v.Set("USER", creds.Username)
	v.Set("PWD", creds.Password)
	v.Set("SIGNATURE", creds.Signature)
	v.Set("VERSION", NVPVersion)
	v.Set("METHOD", method)
	return v
}
