package member

type Status string

const (
	StatusActive    Status = "active"
	StatusExpired   Status = "expired"
	StatusCancelled Status = "cancelled"
	StatusFree      Status = "free"
	StatusPending   Status = "pending"
)

var validStatuses = map[Status]bool{
	StatusActive:    true,
	StatusExpired:   true,
	StatusCancelled: true,
	StatusFree:      true,
	StatusPending:   true,
}

func (s Status) IsValid() bool {
	return validStatuses[s]
}

func (s Status) String() string {
	return string(s)
}

// SignupMethod records how a member got their subscription.
type SignupMethod string

const (
	SignupLive     SignupMethod = "live"
	SignupManual   SignupMethod = "manual"
	SignupImported SignupMethod = "imported"
)

func (m SignupMethod) IsValid() bool {
	switch m {
	case SignupLive, SignupManual, SignupImported:
		return true
	}
	return false
}
